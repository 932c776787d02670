package models

import (
	"time"

	"github.com/stockroom/backend/internal/domain/shared"
)

// AuditModel holds the audit columns present on every table. The repository
// stores them exactly as given; autoCreateTime is disabled so GORM never
// stamps CreatedAt on its own.
type AuditModel struct {
	CreatedBy string     `gorm:"type:varchar(200);not null"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime:false"`
	ChangedBy *string    `gorm:"type:varchar(200)"`
	ChangedAt *time.Time `gorm:"autoUpdateTime:false"`
	SysNotes  *string    `gorm:"type:text"`
}

// ToDomain converts the audit columns to domain AuditMeta
func (a AuditModel) ToDomain() shared.AuditMeta {
	return shared.AuditMeta{
		CreatedBy: a.CreatedBy,
		CreatedAt: a.CreatedAt,
		ChangedBy: a.ChangedBy,
		ChangedAt: a.ChangedAt,
		SysNotes:  a.SysNotes,
	}
}

// AuditFromDomain converts domain AuditMeta to audit columns
func AuditFromDomain(m shared.AuditMeta) AuditModel {
	return AuditModel{
		CreatedBy: m.CreatedBy,
		CreatedAt: m.CreatedAt,
		ChangedBy: m.ChangedBy,
		ChangedAt: m.ChangedAt,
		SysNotes:  m.SysNotes,
	}
}
