package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAceitaInscricoes(t *testing.T) {
	meioDia := time.Date(2026, 8, 30, 12, 30, 0, 0, time.Local)
	evento := &EventoFaceAFace{AtivaParaInscricao: true}

	t.Run("no próprio dia limite ainda aceita", func(t *testing.T) {
		// O limite fica gravado à meia-noite; a hora da consulta não conta.
		evento.DataLimiteEntrada = time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC)
		assert.True(t, evento.AceitaInscricoes(meioDia))
	})

	t.Run("um dia depois recusa", func(t *testing.T) {
		evento.DataLimiteEntrada = time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
		assert.False(t, evento.AceitaInscricoes(meioDia))
	})

	t.Run("flag desligada recusa mesmo dentro do prazo", func(t *testing.T) {
		evento.DataLimiteEntrada = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)
		evento.AtivaParaInscricao = false
		assert.False(t, evento.AceitaInscricoes(meioDia))
	})
}

func TestValidarValores(t *testing.T) {
	evento := &EventoFaceAFace{ValorTotal: 300, ValorEntrada: 100}
	assert.NoError(t, evento.ValidarValores())

	evento.ValorEntrada = 301
	assert.ErrorIs(t, evento.ValidarValores(), ErrEntradaMaiorQueTotal)
}
