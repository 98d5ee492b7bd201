package models

import "time"

// ConviteInscricao é o link público compartilhável que um líder gera para um
// evento. Uso único, validade de 24h e condicionado ao evento continuar
// aceitando inscrições. Consumido (queimado), nunca editado.
type ConviteInscricao struct {
	BaseModel
	Token                 string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	EventoID              uint      `gorm:"not null;index"`
	CelulaID              uint      `gorm:"not null;index"`
	GeradoPorPerfilID     uint      `gorm:"not null;index"`
	NomeCandidatoSugerido string    `gorm:"type:varchar(150)"`
	ExpiraEm              time.Time `gorm:"not null;index"`
	Usado                 bool      `gorm:"not null;default:false"`
	UsadoPorInscricaoID   *uint

	Evento    EventoFaceAFace `gorm:"foreignKey:EventoID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Celula    Celula          `gorm:"foreignKey:CelulaID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	GeradoPor User            `gorm:"foreignKey:GeradoPorPerfilID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}

// Expirado reporta se a validade de 24h já passou.
func (c *ConviteInscricao) Expirado(agora time.Time) bool {
	return agora.After(c.ExpiraEm)
}
