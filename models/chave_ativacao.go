package models

import "time"

// ChaveAtivacao vincula um novo perfil a uma célula. Resgatável exatamente
// uma vez: a segunda tentativa falha e o perfil não é alterado.
type ChaveAtivacao struct {
	BaseModel
	Chave      string     `gorm:"type:varchar(36);uniqueIndex;not null"`
	CelulaID   uint       `gorm:"not null;index"`
	Usada      bool       `gorm:"not null;default:false;index"`
	DataUso    *time.Time
	UsadaPorID *uint      `gorm:"index"`

	Celula   Celula `gorm:"foreignKey:CelulaID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UsadaPor *User  `gorm:"foreignKey:UsadaPorID;constraint:OnDelete:SET NULL;"`
}
