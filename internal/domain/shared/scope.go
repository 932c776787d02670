package shared

// Scope selects which records a repository call may see. It is either
// Unscoped (administrative access, no owner filter) or ScopedTo a user.
// The zero value is Unscoped.
type Scope[K comparable] struct {
	userID K
	scoped bool
}

// Unscoped returns a scope that bypasses the owner filter.
func Unscoped[K comparable]() Scope[K] {
	return Scope[K]{}
}

// ScopedTo returns a scope limited to records owned by userID.
func ScopedTo[K comparable](userID K) Scope[K] {
	return Scope[K]{userID: userID, scoped: true}
}

// IsScoped reports whether an owner filter applies.
func (s Scope[K]) IsScoped() bool {
	return s.scoped
}

// UserID returns the scoped user, if any.
func (s Scope[K]) UserID() (K, bool) {
	return s.userID, s.scoped
}

// Admits reports whether a record is visible under this scope. Records that
// are not Ownable are always visible.
func (s Scope[K]) Admits(record any) bool {
	if !s.scoped {
		return true
	}
	owner, ok := OwnedBy[K](record)
	if !ok {
		return true
	}
	return owner == s.userID
}

// Claim assigns the scoped user as owner of an Ownable record. Unscoped calls
// and records that are not Ownable are left untouched.
func (s Scope[K]) Claim(record any) {
	if !s.scoped {
		return
	}
	if o, ok := record.(Ownable[K]); ok {
		o.SetUserID(s.userID)
	}
}
