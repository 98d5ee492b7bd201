package models

import "errors"

// StatusPagamento é o ciclo de pagamento de uma inscrição. A progressão
// normal é estritamente linear; CANCELADO é terminal e alcançável de
// qualquer estado não terminal. Nenhuma transição pula etapa — a regra vale
// para todo ponto de entrada (painel do líder, formulário público, admin),
// não apenas para a disponibilidade de botões na interface.
type StatusPagamento string

const (
	StatusPendente               StatusPagamento = "PENDENTE"
	StatusAguardandoConfEntrada  StatusPagamento = "AGUARDANDO_CONFIRMACAO_ENTRADA"
	StatusEntradaConfirmada      StatusPagamento = "ENTRADA_CONFIRMADA"
	StatusAguardandoConfRestante StatusPagamento = "AGUARDANDO_CONFIRMACAO_RESTANTE"
	StatusPagoTotal              StatusPagamento = "PAGO_TOTAL"
	StatusCancelado              StatusPagamento = "CANCELADO"
)

// Parcela identifica qual das duas parcelas está em jogo.
type Parcela string

const (
	ParcelaEntrada  Parcela = "entrada"
	ParcelaRestante Parcela = "restante"
)

// ErrTransicaoInvalida indica uma transição de status fora da ordem legal.
// Sempre reportado ao chamador, nunca ignorado.
var ErrTransicaoInvalida = errors.New("transição de status de pagamento inválida")

// Valido reporta se s é um estado conhecido.
func (s StatusPagamento) Valido() bool {
	switch s {
	case StatusPendente, StatusAguardandoConfEntrada, StatusEntradaConfirmada,
		StatusAguardandoConfRestante, StatusPagoTotal, StatusCancelado:
		return true
	}
	return false
}

// Terminal reporta se nenhuma transição sai de s.
func (s StatusPagamento) Terminal() bool {
	return s == StatusPagoTotal || s == StatusCancelado
}

// Texto é o rótulo exibido em listagens e exportações.
func (s StatusPagamento) Texto() string {
	switch s {
	case StatusPendente:
		return "Pendente"
	case StatusAguardandoConfEntrada:
		return "Aguardando Conf. Entrada"
	case StatusEntradaConfirmada:
		return "Entrada Confirmada"
	case StatusAguardandoConfRestante:
		return "Aguardando Conf. Restante"
	case StatusPagoTotal:
		return "Pago Total"
	case StatusCancelado:
		return "Cancelado"
	}
	return string(s)
}

// ProximoAposComprovante devolve o estado seguinte quando o líder (ou o
// formulário público) anexa o comprovante da parcela dada. O comprovante da
// entrada só é aceito em PENDENTE; o do restante só depois da entrada
// confirmada pelo admin.
func ProximoAposComprovante(atual StatusPagamento, parcela Parcela) (StatusPagamento, error) {
	switch parcela {
	case ParcelaEntrada:
		if atual == StatusPendente {
			return StatusAguardandoConfEntrada, nil
		}
	case ParcelaRestante:
		if atual == StatusEntradaConfirmada {
			return StatusAguardandoConfRestante, nil
		}
	}
	return atual, ErrTransicaoInvalida
}

// ProximoAposConfirmacao devolve o estado seguinte quando um administrador
// confirma a parcela dada. Exige que o comprovante correspondente já tenha
// sido anexado (estado AGUARDANDO correspondente).
func ProximoAposConfirmacao(atual StatusPagamento, parcela Parcela) (StatusPagamento, error) {
	switch parcela {
	case ParcelaEntrada:
		if atual == StatusAguardandoConfEntrada {
			return StatusEntradaConfirmada, nil
		}
	case ParcelaRestante:
		if atual == StatusAguardandoConfRestante {
			return StatusPagoTotal, nil
		}
	}
	return atual, ErrTransicaoInvalida
}

// PodeCancelar reporta se o admin pode levar s a CANCELADO.
func PodeCancelar(atual StatusPagamento) bool {
	return !atual.Terminal()
}
