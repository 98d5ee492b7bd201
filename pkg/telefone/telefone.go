package telefone

import (
	"errors"
	"strings"
)

// ErrTelefoneInvalido indica um contato que não normaliza para 10–11 dígitos
// (DDD + número fixo ou celular).
var ErrTelefoneInvalido = errors.New("telefone deve ter 10 ou 11 dígitos")

// Normalizar remove máscara/formatação e valida o comprimento. Devolve só os
// dígitos, ex.: "(11) 99999-8888" -> "11999998888". Só dígitos ASCII contam:
// a máscara brasileira não tem dígito de outro alfabeto.
func Normalizar(valor string) (string, error) {
	var b strings.Builder
	for i := 0; i < len(valor); i++ {
		if c := valor[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	digitos := b.String()
	if len(digitos) < 10 || len(digitos) > 11 {
		return "", ErrTelefoneInvalido
	}
	return digitos, nil
}

// Formatar aplica a máscara brasileira para exibição. Entradas fora do
// padrão voltam como estão.
func Formatar(digitos string) string {
	switch len(digitos) {
	case 10:
		return "(" + digitos[:2] + ") " + digitos[2:6] + "-" + digitos[6:]
	case 11:
		return "(" + digitos[:2] + ") " + digitos[2:7] + "-" + digitos[7:]
	}
	return digitos
}
