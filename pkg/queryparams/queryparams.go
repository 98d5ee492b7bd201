package queryparams

import "strings"

const (
	DefaultPage    = 1
	DefaultPerPage = 20
	MaxPerPage     = 100
	DefaultOrderBy = "desc"
)

// ListParams são os parâmetros comuns de listagem paginada vindos da query
// string (bind via QueryParser).
type ListParams struct {
	Page    int    `query:"page"`
	PerPage int    `query:"per_page"`
	SortBy  string `query:"sort_by"`
	OrderBy string `query:"order_by"`
	Nome    string `query:"nome"`
	Status  string `query:"status"`
	Celula  uint   `query:"celula"`
}

// DefaultListParams devolve parâmetros padrão ordenando por sortBy.
func DefaultListParams(sortBy string) ListParams {
	return ListParams{
		Page:    DefaultPage,
		PerPage: DefaultPerPage,
		SortBy:  sortBy,
		OrderBy: DefaultOrderBy,
	}
}

// Validate normaliza página, limite e direção de ordenação.
func (p *ListParams) Validate() {
	if p.Page < 1 {
		p.Page = DefaultPage
	}
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
	order := strings.ToLower(p.OrderBy)
	if order != "asc" && order != "desc" {
		order = DefaultOrderBy
	}
	p.OrderBy = order
}

// CalculateOffset devolve o offset SQL da página atual.
func (p *ListParams) CalculateOffset() int {
	return (p.Page - 1) * p.PerPage
}

// PaginationMeta descreve a página devolvida.
type PaginationMeta struct {
	CurrentPage int
	PerPage     int
	TotalItems  int64
	TotalPages  int
}

// PaginatedResult embala os dados e os metadados de paginação para a view.
type PaginatedResult struct {
	Data any
	Meta PaginationMeta
}

// CalculateTotalPages arredonda para cima o total de páginas.
func CalculateTotalPages(totalItems int64, perPage int) int {
	if perPage <= 0 {
		return 0
	}
	pages := int(totalItems) / perPage
	if int(totalItems)%perPage != 0 {
		pages++
	}
	return pages
}
