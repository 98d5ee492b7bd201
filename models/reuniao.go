package models

import "time"

// Reuniao é um encontro da célula. Ministradores e responsável kids referem
// membros da própria célula.
type Reuniao struct {
	BaseModel
	CelulaID                uint      `gorm:"not null;index"`
	DataReuniao             time.Time `gorm:"type:date;not null;index"`
	Tema                    string    `gorm:"type:varchar(255);not null"`
	MinistradorPrincipalID  *uint     `gorm:"index"`
	MinistradorSecundarioID *uint
	ResponsavelKidsID       *uint
	NumCriancas             int       `gorm:"default:0"`
	CaminhoPDF              string    `gorm:"type:varchar(500)"`

	Celula                Celula  `gorm:"foreignKey:CelulaID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	MinistradorPrincipal  *Membro `gorm:"foreignKey:MinistradorPrincipalID;constraint:OnDelete:SET NULL;"`
	MinistradorSecundario *Membro `gorm:"foreignKey:MinistradorSecundarioID;constraint:OnDelete:SET NULL;"`
	ResponsavelKids       *Membro `gorm:"foreignKey:ResponsavelKidsID;constraint:OnDelete:SET NULL;"`

	PresencasMembros    []PresencaMembro    `gorm:"foreignKey:ReuniaoID"`
	PresencasVisitantes []PresencaVisitante `gorm:"foreignKey:ReuniaoID"`
}

// PresencaMembro marca presença/ausência de um membro em uma reunião.
type PresencaMembro struct {
	BaseModel
	ReuniaoID uint `gorm:"not null;index:idx_presenca_membro,unique"`
	MembroID  uint `gorm:"not null;index:idx_presenca_membro,unique"`
	Presente  bool `gorm:"not null;default:false"`

	Membro Membro `gorm:"foreignKey:MembroID;constraint:OnDelete:CASCADE;"`
}

// PresencaVisitante marca presença de um visitante em uma reunião.
type PresencaVisitante struct {
	BaseModel
	ReuniaoID   uint `gorm:"not null;index:idx_presenca_visitante,unique"`
	VisitanteID uint `gorm:"not null;index:idx_presenca_visitante,unique"`
	Presente    bool `gorm:"not null;default:false"`

	Visitante Visitante `gorm:"foreignKey:VisitanteID;constraint:OnDelete:CASCADE;"`
}
