package queryparams

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateNormaliza(t *testing.T) {
	p := ListParams{Page: 0, PerPage: -5, OrderBy: "DESC"}
	p.Validate()
	assert.Equal(t, DefaultPage, p.Page)
	assert.Equal(t, DefaultPerPage, p.PerPage)
	assert.Equal(t, "desc", p.OrderBy)

	p = ListParams{Page: 3, PerPage: 500, OrderBy: "subindo"}
	p.Validate()
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, MaxPerPage, p.PerPage)
	assert.Equal(t, DefaultOrderBy, p.OrderBy)
}

func TestCalculateOffset(t *testing.T) {
	p := ListParams{Page: 1, PerPage: 20}
	assert.Equal(t, 0, p.CalculateOffset())

	p.Page = 4
	assert.Equal(t, 60, p.CalculateOffset())
}

func TestCalculateTotalPages(t *testing.T) {
	assert.Equal(t, 0, CalculateTotalPages(0, 20))
	assert.Equal(t, 1, CalculateTotalPages(20, 20))
	assert.Equal(t, 2, CalculateTotalPages(21, 20))
	assert.Equal(t, 5, CalculateTotalPages(99, 20))
	assert.Equal(t, 0, CalculateTotalPages(10, 0))
}
