package models

import (
	"errors"
	"time"
)

// EventoTipo tem exatamente duas variantes.
type EventoTipo string

const (
	EventoMulheres EventoTipo = "Mulheres"
	EventoHomens   EventoTipo = "Homens"
)

// ErrEntradaMaiorQueTotal viola o invariante valor_entrada <= valor_total.
var ErrEntradaMaiorQueTotal = errors.New("o valor da entrada não pode ser maior que o valor total")

// EventoFaceAFace é um encontro pago com pagamento em duas parcelas
// (entrada + restante). Inscrições só são aceitas com AtivaParaInscricao
// ligado e dentro da data limite da entrada.
type EventoFaceAFace struct {
	BaseModel
	Nome               string     `gorm:"type:varchar(255);not null"`
	Tipo               EventoTipo `gorm:"type:varchar(20);not null;index"`
	DataInicio         time.Time  `gorm:"type:date;not null;index"`
	DataFim            time.Time  `gorm:"type:date;not null"`
	Local              string     `gorm:"type:varchar(255)"`
	ValorTotal         float64    `gorm:"type:numeric(10,2);not null"`
	ValorEntrada       float64    `gorm:"type:numeric(10,2);not null"`
	DataLimiteEntrada  time.Time  `gorm:"type:date;not null;index"`
	Observacoes        string     `gorm:"type:text"`
	AtivaParaInscricao bool       `gorm:"not null;default:false;index"`
	CriadoPorPerfilID  uint       `gorm:"index;not null"`

	Inscricoes []Inscricao        `gorm:"foreignKey:EventoID"`
	Convites   []ConviteInscricao `gorm:"foreignKey:EventoID"`
}

// ValidarValores confere o invariante de preços na construção.
func (e *EventoFaceAFace) ValidarValores() error {
	if e.ValorEntrada > e.ValorTotal {
		return ErrEntradaMaiorQueTotal
	}
	return nil
}

// AceitaInscricoes reporta se o evento aceita novas inscrições na data dada.
// A comparação é por dia: no próprio dia limite o evento ainda aceita, igual
// à listagem de eventos ativos.
func (e *EventoFaceAFace) AceitaInscricoes(hoje time.Time) bool {
	if !e.AtivaParaInscricao {
		return false
	}
	return !somenteDia(hoje).After(somenteDia(e.DataLimiteEntrada))
}

func somenteDia(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
