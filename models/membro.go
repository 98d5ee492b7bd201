package models

import "time"

// MembroStatus acompanha o vínculo do membro com a célula.
type MembroStatus string

const (
	MembroAtivo       MembroStatus = "Ativo"
	MembroInativo     MembroStatus = "Inativo"
	MembroEmTransicao MembroStatus = "Em transição"
)

type Membro struct {
	BaseModel
	CelulaID       uint         `gorm:"not null;index"`
	Nome           string       `gorm:"type:varchar(150);not null"`
	Telefone       string       `gorm:"type:varchar(20)"`
	DataIngresso   time.Time    `gorm:"type:date;not null"`
	DataNascimento *time.Time   `gorm:"type:date"`
	Endereco       string       `gorm:"type:varchar(255)"`
	Status         MembroStatus `gorm:"type:varchar(20);not null;default:'Ativo';index"`

	Celula Celula `gorm:"foreignKey:CelulaID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
