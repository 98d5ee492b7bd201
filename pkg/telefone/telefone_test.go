package telefone

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizar(t *testing.T) {
	casos := []struct {
		entrada string
		saida   string
	}{
		{"(11) 99999-8888", "11999998888"},
		{"11 3333-4444", "1133334444"},
		{"11999998888", "11999998888"},
		{"(21)98765.4321", "21987654321"},
	}
	for _, c := range casos {
		saida, err := Normalizar(c.entrada)
		require.NoError(t, err, "entrada %q", c.entrada)
		assert.Equal(t, c.saida, saida)
	}
}

func TestNormalizarRejeitaForaDoPadrao(t *testing.T) {
	// Curto demais, com código do país (13 dígitos) ou sem dígito algum.
	for _, entrada := range []string{
		"",
		"999-8888",
		"+55 11 99999-8888",
		"sem números",
	} {
		_, err := Normalizar(entrada)
		assert.ErrorIs(t, err, ErrTelefoneInvalido, "entrada %q", entrada)
	}
}

func TestNormalizarIgnoraDigitosNaoASCII(t *testing.T) {
	// Dígitos árabes ou devanágari não fazem parte da máscara brasileira e não
	// podem inflar a contagem.
	_, err := Normalizar("٠١٢٣٤٥٦٧٨٩")
	assert.ErrorIs(t, err, ErrTelefoneInvalido)

	// Misturados com dígitos ASCII, só os ASCII contam.
	saida, err := Normalizar("١١ (11) 99999-8888")
	require.NoError(t, err)
	assert.Equal(t, "11999998888", saida)
}

func TestFormatar(t *testing.T) {
	assert.Equal(t, "(11) 99999-8888", Formatar("11999998888"))
	assert.Equal(t, "(11) 3333-4444", Formatar("1133334444"))

	// Fora do padrão volta como está.
	assert.Equal(t, "123", Formatar("123"))
	assert.Equal(t, "", Formatar(""))
}
