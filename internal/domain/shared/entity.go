package shared

// Entity is implemented by every persisted record. The key is assigned once
// and never changes afterwards.
type Entity[K comparable] interface {
	GetID() K
	SetID(id K)
}

// Ownable is implemented by records that belong to exactly one user.
// Repositories filter Ownable records by the scope passed to each call.
type Ownable[K comparable] interface {
	GetUserID() K
	SetUserID(userID K)
}

// OwnedBy reports whether v is Ownable and, if so, returns its owner.
func OwnedBy[K comparable](v any) (K, bool) {
	o, ok := v.(Ownable[K])
	if !ok {
		var zero K
		return zero, false
	}
	return o.GetUserID(), true
}
