package handlers

import (
	"time"

	"celulas.app/configs/configslog"
	"celulas.app/middlewares"
	"celulas.app/pkg/renderer"
	"celulas.app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminRelatorioHandler serve os relatórios de acompanhamento das células:
// visitantes por período, faltosos, frequência e aniversariantes.
type AdminRelatorioHandler struct {
	relatorioService services.IRelatorioService
	celulaService    services.ICelulaService
}

// NewAdminRelatorioHandler cria o handler com os serviços padrão.
func NewAdminRelatorioHandler() *AdminRelatorioHandler {
	return &AdminRelatorioHandler{
		relatorioService: services.NewRelatorioService(),
		celulaService:    services.NewCelulaService(),
	}
}

// periodoDaQuery lê ?de= e ?ate= (AAAA-MM-DD); sem filtro vale o último mês.
func periodoDaQuery(c *fiber.Ctx) (time.Time, time.Time) {
	ate := time.Now()
	de := ate.AddDate(0, -1, 0)
	if v, err := time.Parse("2006-01-02", c.Query("de")); err == nil {
		de = v
	}
	if v, err := time.Parse("2006-01-02", c.Query("ate")); err == nil {
		ate = v
	}
	return de, ate
}

func celulaDaQuery(c *fiber.Ctx) uint {
	id := c.QueryInt("celula")
	if id < 0 {
		return 0
	}
	return uint(id)
}

// VisitantesPorPeriodo lista os visitantes de primeira visita no período.
func (h *AdminRelatorioHandler) VisitantesPorPeriodo(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	de, ate := periodoDaQuery(c)

	visitantes, err := h.relatorioService.VisitantesPorPeriodo(c.UserContext(), ator, celulaDaQuery(c), de, ate)
	celulas, _ := h.celulaService.ListCelulas(c.UserContext(), ator)
	data := fiber.Map{
		"Title":      "Visitantes por Período",
		"Visitantes": visitantes,
		"Celulas":    celulas,
		"De":         de.Format("2006-01-02"),
		"Ate":        ate.Format("2006-01-02"),
	}
	if err != nil {
		configslog.Log.Error("Admin - VisitantesPorPeriodo", zap.Error(err))
		data[renderer.FlashErrorKeyView] = err.Error()
	}
	return renderer.Render(c, "admin/relatorios/visitantes", "layouts/admin_layout", data)
}

// Faltosos lista os membros sem nenhuma presença nas reuniões do período.
func (h *AdminRelatorioHandler) Faltosos(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	de, ate := periodoDaQuery(c)

	faltosos, err := h.relatorioService.FaltososPorPeriodo(c.UserContext(), ator, celulaDaQuery(c), de, ate)
	celulas, _ := h.celulaService.ListCelulas(c.UserContext(), ator)
	data := fiber.Map{
		"Title":    "Faltosos por Período",
		"Faltosos": faltosos,
		"Celulas":  celulas,
		"De":       de.Format("2006-01-02"),
		"Ate":      ate.Format("2006-01-02"),
	}
	if err != nil {
		configslog.Log.Error("Admin - Faltosos", zap.Error(err))
		data[renderer.FlashErrorKeyView] = err.Error()
	}
	return renderer.Render(c, "admin/relatorios/faltosos", "layouts/admin_layout", data)
}

// Frequencia mostra a presença de cada membro da célula no período.
func (h *AdminRelatorioHandler) Frequencia(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	de, ate := periodoDaQuery(c)

	frequencias, err := h.relatorioService.FrequenciaPorPeriodo(c.UserContext(), ator, celulaDaQuery(c), de, ate)
	celulas, _ := h.celulaService.ListCelulas(c.UserContext(), ator)
	data := fiber.Map{
		"Title":       "Frequência por Membro",
		"Frequencias": frequencias,
		"Celulas":     celulas,
		"De":          de.Format("2006-01-02"),
		"Ate":         ate.Format("2006-01-02"),
	}
	if err != nil {
		configslog.Log.Error("Admin - Frequencia", zap.Error(err))
		data[renderer.FlashErrorKeyView] = err.Error()
	}
	return renderer.Render(c, "admin/relatorios/frequencia", "layouts/admin_layout", data)
}

// Aniversariantes lista membros e visitantes aniversariantes do mês.
func (h *AdminRelatorioHandler) Aniversariantes(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)

	mes := time.Month(c.QueryInt("mes"))
	if mes < time.January || mes > time.December {
		mes = time.Now().Month()
	}
	relatorio, err := h.relatorioService.Aniversariantes(c.UserContext(), ator, celulaDaQuery(c), mes)
	celulas, _ := h.celulaService.ListCelulas(c.UserContext(), ator)
	data := fiber.Map{
		"Title":     "Aniversariantes do Mês",
		"Relatorio": relatorio,
		"Celulas":   celulas,
		"Mes":       int(mes),
	}
	if err != nil {
		configslog.Log.Error("Admin - Aniversariantes", zap.Error(err))
		data[renderer.FlashErrorKeyView] = err.Error()
	}
	return renderer.Render(c, "admin/relatorios/aniversariantes", "layouts/admin_layout", data)
}
