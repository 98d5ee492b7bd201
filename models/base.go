package models

import (
	"time"

	"gorm.io/gorm"
)

// CtxUserIDKey carries the acting user's ID through context so the audit
// hooks can stamp CreatedBy/UpdatedBy without a global.
const CtxUserIDKey = "user_id"

// BaseModel is embedded by every entity: identity, timestamps, soft delete
// and audit columns.
type BaseModel struct {
	ID        uint           `gorm:"primarykey"`
	CreatedAt time.Time      `gorm:"index"`
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
	CreatedBy *uint
	UpdatedBy *uint
	DeletedBy *uint
}

func userIDFromContext(tx *gorm.DB) *uint {
	if tx.Statement == nil || tx.Statement.Context == nil {
		return nil
	}
	if id, ok := tx.Statement.Context.Value(CtxUserIDKey).(uint); ok && id != 0 {
		return &id
	}
	return nil
}

// BeforeCreate stamps CreatedBy from the request context.
func (m *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if id := userIDFromContext(tx); id != nil {
		m.CreatedBy = id
	}
	return nil
}

// BeforeUpdate stamps UpdatedBy from the request context.
func (m *BaseModel) BeforeUpdate(tx *gorm.DB) error {
	if id := userIDFromContext(tx); id != nil {
		m.UpdatedBy = id
	}
	return nil
}
