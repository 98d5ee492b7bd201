package models

import "time"

// TipoParticipacao marca como o participante entra no evento.
type TipoParticipacao string

const (
	ParticipacaoEncontrista TipoParticipacao = "Encontrista"
	ParticipacaoEncontreiro TipoParticipacao = "Encontreiro"
	ParticipacaoCozinha     TipoParticipacao = "Cozinha"
)

// Inscricao é a participação paga de uma pessoa em um evento Face a Face.
// CelulaInscricaoID/InscritoPorPerfilID identificam o líder dono; somente
// ele anexa comprovantes e somente o admin confirma pagamentos.
type Inscricao struct {
	BaseModel
	EventoID                 uint             `gorm:"not null;index"`
	NomeCompletoParticipante string           `gorm:"type:varchar(150);not null"`
	TipoParticipacao         TipoParticipacao `gorm:"type:varchar(30);not null;default:'Encontrista'"`
	ContatoPessoal           string           `gorm:"type:varchar(20);not null"`
	CelulaInscricaoID        uint             `gorm:"not null;index"`
	InscritoPorPerfilID      uint             `gorm:"not null;index"`

	StatusPagamento StatusPagamento `gorm:"type:varchar(40);not null;default:'PENDENTE';index"`

	CaminhoComprovanteEntrada  string     `gorm:"type:varchar(500)"`
	DataUploadEntrada          *time.Time
	CaminhoComprovanteRestante string     `gorm:"type:varchar(500)"`
	DataUploadRestante         *time.Time
	AdminConfirmouEntrada      bool       `gorm:"not null;default:false"`
	AdminConfirmouRestante     bool       `gorm:"not null;default:false"`

	Evento          EventoFaceAFace `gorm:"foreignKey:EventoID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	CelulaInscricao Celula          `gorm:"foreignKey:CelulaInscricaoID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
	InscritoPor     User            `gorm:"foreignKey:InscritoPorPerfilID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT;"`
}

// PertenceA reporta se o líder dado é o dono da inscrição.
func (i *Inscricao) PertenceA(perfilID uint, celulaID *uint) bool {
	if i.InscritoPorPerfilID != perfilID {
		return false
	}
	return celulaID != nil && i.CelulaInscricaoID == *celulaID
}
