package models

import "time"

// Visitante pode ser convertido em Membro; a conversão copia os campos
// compatíveis e mantém o registro do visitante (decisão do operador removê-lo).
type Visitante struct {
	BaseModel
	CelulaID           uint       `gorm:"not null;index"`
	Nome               string     `gorm:"type:varchar(150);not null"`
	Telefone           string     `gorm:"type:varchar(20)"`
	DataPrimeiraVisita time.Time  `gorm:"type:date;not null"`
	DataNascimento     *time.Time `gorm:"type:date"`
	Endereco           string     `gorm:"type:varchar(255)"`
	DataUltimoContato  *time.Time `gorm:"type:date"`
	Observacoes        string     `gorm:"type:text"`
	ConvertidoEm       *time.Time

	Celula Celula `gorm:"foreignKey:CelulaID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
