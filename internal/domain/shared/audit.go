package shared

import "time"

// SystemUserName is the audit identity used when no authenticated caller exists.
const SystemUserName = "system"

// AuditMeta carries creation and modification provenance. It is embedded in
// every domain entity and persistence model.
//
// CreatedBy/CreatedAt are written once. ChangedBy/ChangedAt are nil until the
// first mutation and are always set together.
type AuditMeta struct {
	CreatedBy string
	CreatedAt time.Time
	ChangedBy *string
	ChangedAt *time.Time
	SysNotes  *string
}

// Auditable exposes the audit metadata of a record.
type Auditable interface {
	Audit() *AuditMeta
}

// Audit returns a pointer to the metadata so it can be stamped in place.
func (a *AuditMeta) Audit() *AuditMeta {
	return a
}

// StampCreated records the creator. It has no effect once CreatedAt is set.
func (a *AuditMeta) StampCreated(by string, at time.Time) {
	if !a.CreatedAt.IsZero() {
		return
	}
	if by == "" {
		by = SystemUserName
	}
	a.CreatedBy = by
	a.CreatedAt = at
}

// StampChanged records a mutation. ChangedAt never moves backwards and never
// precedes CreatedAt.
func (a *AuditMeta) StampChanged(by string, at time.Time) {
	if by == "" {
		by = SystemUserName
	}
	if at.Before(a.CreatedAt) {
		at = a.CreatedAt
	}
	if a.ChangedAt != nil && at.Before(*a.ChangedAt) {
		at = *a.ChangedAt
	}
	a.ChangedBy = &by
	a.ChangedAt = &at
}

// IsChanged reports whether the record was mutated after creation.
func (a *AuditMeta) IsChanged() bool {
	return a.ChangedAt != nil
}

// CarryCreation copies the immutable creation stamp from prev.
func (a *AuditMeta) CarryCreation(prev AuditMeta) {
	a.CreatedBy = prev.CreatedBy
	a.CreatedAt = prev.CreatedAt
}

// Validate checks the audit invariants.
func (a *AuditMeta) Validate() error {
	if (a.ChangedAt == nil) != (a.ChangedBy == nil) {
		return NewDomainError("INVALID_AUDIT", "ChangedBy and ChangedAt must be set together")
	}
	if a.ChangedAt != nil && a.ChangedAt.Before(a.CreatedAt) {
		return NewDomainError("INVALID_AUDIT", "ChangedAt precedes CreatedAt")
	}
	return nil
}
