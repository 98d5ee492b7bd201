package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProximoAposComprovante(t *testing.T) {
	t.Run("entrada só parte de PENDENTE", func(t *testing.T) {
		proximo, err := ProximoAposComprovante(StatusPendente, ParcelaEntrada)
		require.NoError(t, err)
		assert.Equal(t, StatusAguardandoConfEntrada, proximo)

		for _, atual := range []StatusPagamento{
			StatusAguardandoConfEntrada,
			StatusEntradaConfirmada,
			StatusAguardandoConfRestante,
			StatusPagoTotal,
			StatusCancelado,
		} {
			_, err := ProximoAposComprovante(atual, ParcelaEntrada)
			assert.ErrorIs(t, err, ErrTransicaoInvalida, "estado %s", atual)
		}
	})

	t.Run("restante só parte de ENTRADA_CONFIRMADA", func(t *testing.T) {
		proximo, err := ProximoAposComprovante(StatusEntradaConfirmada, ParcelaRestante)
		require.NoError(t, err)
		assert.Equal(t, StatusAguardandoConfRestante, proximo)

		for _, atual := range []StatusPagamento{
			StatusPendente,
			StatusAguardandoConfEntrada,
			StatusAguardandoConfRestante,
			StatusPagoTotal,
			StatusCancelado,
		} {
			_, err := ProximoAposComprovante(atual, ParcelaRestante)
			assert.ErrorIs(t, err, ErrTransicaoInvalida, "estado %s", atual)
		}
	})
}

func TestProximoAposConfirmacao(t *testing.T) {
	t.Run("confirmação da entrada exige comprovante anexado", func(t *testing.T) {
		proximo, err := ProximoAposConfirmacao(StatusAguardandoConfEntrada, ParcelaEntrada)
		require.NoError(t, err)
		assert.Equal(t, StatusEntradaConfirmada, proximo)

		// Confirmar direto de PENDENTE pularia o comprovante.
		_, err = ProximoAposConfirmacao(StatusPendente, ParcelaEntrada)
		assert.ErrorIs(t, err, ErrTransicaoInvalida)
	})

	t.Run("confirmação do restante fecha o ciclo", func(t *testing.T) {
		proximo, err := ProximoAposConfirmacao(StatusAguardandoConfRestante, ParcelaRestante)
		require.NoError(t, err)
		assert.Equal(t, StatusPagoTotal, proximo)
	})

	t.Run("restante não confirma antes da entrada", func(t *testing.T) {
		for _, atual := range []StatusPagamento{
			StatusPendente,
			StatusAguardandoConfEntrada,
			StatusEntradaConfirmada,
			StatusPagoTotal,
			StatusCancelado,
		} {
			_, err := ProximoAposConfirmacao(atual, ParcelaRestante)
			assert.ErrorIs(t, err, ErrTransicaoInvalida, "estado %s", atual)
		}
	})
}

func TestPodeCancelar(t *testing.T) {
	assert.True(t, PodeCancelar(StatusPendente))
	assert.True(t, PodeCancelar(StatusAguardandoConfEntrada))
	assert.True(t, PodeCancelar(StatusEntradaConfirmada))
	assert.True(t, PodeCancelar(StatusAguardandoConfRestante))

	assert.False(t, PodeCancelar(StatusPagoTotal))
	assert.False(t, PodeCancelar(StatusCancelado))
}

func TestStatusPagamentoValido(t *testing.T) {
	for _, s := range []StatusPagamento{
		StatusPendente,
		StatusAguardandoConfEntrada,
		StatusEntradaConfirmada,
		StatusAguardandoConfRestante,
		StatusPagoTotal,
		StatusCancelado,
	} {
		assert.True(t, s.Valido(), "estado %s", s)
	}
	assert.False(t, StatusPagamento("EM_ABERTO").Valido())
	assert.False(t, StatusPagamento("").Valido())
}

func TestStatusPagamentoTerminal(t *testing.T) {
	assert.True(t, StatusPagoTotal.Terminal())
	assert.True(t, StatusCancelado.Terminal())
	assert.False(t, StatusPendente.Terminal())
	assert.False(t, StatusAguardandoConfRestante.Terminal())
}
