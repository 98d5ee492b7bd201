package handlers

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"celulas.app/configs/configslog"
	"celulas.app/middlewares"
	"celulas.app/models"
	"celulas.app/pkg/flashmessages"
	"celulas.app/pkg/queryparams"
	"celulas.app/pkg/renderer"
	"celulas.app/repositories"
	"celulas.app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminEventoHandler administra eventos Face a Face e o financeiro das
// inscrições.
type AdminEventoHandler struct {
	eventoService    services.IEventoService
	inscricaoService services.IInscricaoService
	relatorioService services.IRelatorioService
}

// NewAdminEventoHandler cria o handler com os serviços padrão.
func NewAdminEventoHandler() *AdminEventoHandler {
	return &AdminEventoHandler{
		eventoService:    services.NewEventoService(),
		inscricaoService: services.NewInscricaoService(),
		relatorioService: services.NewRelatorioService(),
	}
}

func parseDataEvento(valor string) time.Time {
	t, _ := time.Parse("2006-01-02", valor)
	return t
}

// parseValor aceita vírgula ou ponto como separador decimal.
func parseValor(valor string) (float64, error) {
	return strconv.ParseFloat(strings.ReplaceAll(strings.TrimSpace(valor), ",", "."), 64)
}

func formEventoDoBody(c *fiber.Ctx) services.EventoForm {
	valorTotal, _ := parseValor(c.FormValue("valor_total"))
	valorEntrada, _ := parseValor(c.FormValue("valor_entrada"))
	return services.EventoForm{
		Nome:              strings.TrimSpace(c.FormValue("nome")),
		Tipo:              models.EventoTipo(c.FormValue("tipo")),
		DataInicio:        parseDataEvento(c.FormValue("data_inicio")),
		DataFim:           parseDataEvento(c.FormValue("data_fim")),
		Local:             strings.TrimSpace(c.FormValue("local")),
		ValorTotal:        valorTotal,
		ValorEntrada:      valorEntrada,
		DataLimiteEntrada: parseDataEvento(c.FormValue("data_limite_entrada")),
		Observacoes:       strings.TrimSpace(c.FormValue("observacoes")),
	}
}

// ListEventos lista paginado com filtros de nome e situação.
func (h *AdminEventoHandler) ListEventos(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	flashData, _ := flashmessages.GetFlashMessages(c)

	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("data_inicio")
	}
	result, err := h.eventoService.ListEventosPaginated(c.UserContext(), ator, params)
	data := fiber.Map{"Title": "Eventos Face a Face", "Params": params}
	renderer.SetFlashMessages(data, flashData)
	if err != nil {
		configslog.Log.Error("Admin - ListEventos", zap.Error(err))
		data[renderer.FlashErrorKeyView] = "Não foi possível listar os eventos."
		data["Result"] = &queryparams.PaginatedResult{Data: []models.EventoFaceAFace{}}
	} else {
		data["Result"] = result
	}
	return renderer.Render(c, "admin/eventos/list", "layouts/admin_layout", data)
}

// CreateEvento cria um evento novo.
func (h *AdminEventoHandler) CreateEvento(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	if _, err := h.eventoService.CreateEvento(c.UserContext(), ator, formEventoDoBody(c)); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Evento criado. Ative as inscrições quando quiser abrir.")
	}
	return c.Redirect("/admin/eventos", fiber.StatusSeeOther)
}

// UpdateEvento edita um evento.
func (h *AdminEventoHandler) UpdateEvento(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/admin/eventos", fiber.StatusSeeOther)
	}
	if err := h.eventoService.UpdateEvento(c.UserContext(), ator, uint(id), formEventoDoBody(c)); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Evento atualizado.")
	}
	return c.Redirect("/admin/eventos", fiber.StatusSeeOther)
}

// ToggleAtivacao abre/fecha as inscrições do evento.
func (h *AdminEventoHandler) ToggleAtivacao(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/admin/eventos", fiber.StatusSeeOther)
	}
	ativa := c.FormValue("ativa") == "true" || c.FormValue("ativa") == "on"
	if err := h.eventoService.AlternarAtivacao(c.UserContext(), ator, uint(id), ativa); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else if ativa {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Inscrições abertas.")
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Inscrições encerradas.")
	}
	return c.Redirect("/admin/eventos", fiber.StatusSeeOther)
}

// DeleteEvento exclui o evento com as inscrições e convites dele.
func (h *AdminEventoHandler) DeleteEvento(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/admin/eventos", fiber.StatusSeeOther)
	}
	if err := h.eventoService.DeleteEvento(c.UserContext(), ator, uint(id)); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Evento excluído com inscrições e convites.")
	}
	return c.Redirect("/admin/eventos", fiber.StatusSeeOther)
}

// ListInscricoes lista as inscrições do evento com filtros de status, célula,
// nome e tipo.
func (h *AdminEventoHandler) ListInscricoes(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	eventoID, err := c.ParamsInt("eventoID")
	if err != nil || eventoID <= 0 {
		return c.Redirect("/admin/eventos", fiber.StatusSeeOther)
	}

	flashData, _ := flashmessages.GetFlashMessages(c)
	evento, err := h.eventoService.GetEventoByID(c.UserContext(), uint(eventoID))
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/admin/eventos", fiber.StatusSeeOther)
	}

	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("created_at")
	}
	filtros := repositories.InscricaoFiltros{
		StatusPagamento:  models.StatusPagamento(c.Query("status_pagamento")),
		CelulaID:         params.Celula,
		Nome:             params.Nome,
		TipoParticipacao: models.TipoParticipacao(c.Query("tipo")),
	}

	result, err := h.inscricaoService.ListInscricoesDoEvento(c.UserContext(), ator, uint(eventoID), filtros, params)
	data := fiber.Map{
		"Title":  "Inscrições - " + evento.Nome,
		"Evento": evento,
		"Params": params,
	}
	renderer.SetFlashMessages(data, flashData)
	if err != nil {
		configslog.Log.Error("Admin - ListInscricoes", zap.Uint("eventoID", uint(eventoID)), zap.Error(err))
		data[renderer.FlashErrorKeyView] = "Não foi possível listar as inscrições."
		data["Result"] = &queryparams.PaginatedResult{Data: []models.Inscricao{}}
	} else {
		data["Result"] = result
	}
	return renderer.Render(c, "admin/inscricoes/list", "layouts/admin_layout", data)
}

// ConfirmarPagamento confirma a parcela comprovada de uma inscrição.
func (h *AdminEventoHandler) ConfirmarPagamento(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/admin/home", fiber.StatusSeeOther)
	}
	parcela := models.Parcela(c.FormValue("parcela", string(models.ParcelaEntrada)))
	destino := c.FormValue("destino", "/admin/home")

	if err := h.inscricaoService.ConfirmarPagamento(c.UserContext(), ator, uint(id), parcela); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Pagamento confirmado.")
	}
	return c.Redirect(destino, fiber.StatusSeeOther)
}

// CancelarInscricao leva a inscrição a CANCELADO.
func (h *AdminEventoHandler) CancelarInscricao(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/admin/home", fiber.StatusSeeOther)
	}
	destino := c.FormValue("destino", "/admin/home")

	if err := h.inscricaoService.CancelarInscricao(c.UserContext(), ator, uint(id)); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Inscrição cancelada.")
	}
	return c.Redirect(destino, fiber.StatusSeeOther)
}

// UpdateInscricao edita os dados pessoais de qualquer inscrição.
func (h *AdminEventoHandler) UpdateInscricao(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/admin/eventos", fiber.StatusSeeOther)
	}
	form := services.InscricaoForm{
		NomeCompletoParticipante: strings.TrimSpace(c.FormValue("nome_completo")),
		TipoParticipacao:         models.TipoParticipacao(c.FormValue("tipo_participacao")),
		ContatoPessoal:           c.FormValue("contato"),
	}
	destino := c.FormValue("destino", "/admin/eventos")

	if err := h.inscricaoService.AtualizarDados(c.UserContext(), ator, uint(id), form); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Inscrição atualizada.")
	}
	return c.Redirect(destino, fiber.StatusSeeOther)
}

// DeleteInscricao exclui uma inscrição.
func (h *AdminEventoHandler) DeleteInscricao(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/admin/eventos", fiber.StatusSeeOther)
	}
	destino := c.FormValue("destino", "/admin/eventos")

	if err := h.inscricaoService.ExcluirInscricao(c.UserContext(), ator, uint(id)); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Inscrição excluída.")
	}
	return c.Redirect(destino, fiber.StatusSeeOther)
}

// ExportarCSV baixa a planilha de inscrições do evento.
func (h *AdminEventoHandler) ExportarCSV(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	eventoID, err := c.ParamsInt("eventoID")
	if err != nil || eventoID <= 0 {
		return c.Redirect("/admin/eventos", fiber.StatusSeeOther)
	}

	csvBytes, err := h.inscricaoService.ExportarCSV(c.UserContext(), ator, uint(eventoID))
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Não foi possível exportar as inscrições.")
		return c.Redirect(fmt.Sprintf("/admin/eventos/%d/inscricoes", eventoID), fiber.StatusSeeOther)
	}
	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="inscricoes_evento_%d.csv"`, eventoID))
	return c.Send(csvBytes)
}

// GerarPDFFinanceiro baixa o resumo financeiro do evento em PDF.
func (h *AdminEventoHandler) GerarPDFFinanceiro(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	eventoID, err := c.ParamsInt("eventoID")
	if err != nil || eventoID <= 0 {
		return c.Redirect("/admin/eventos", fiber.StatusSeeOther)
	}

	pdf, err := h.relatorioService.GerarPDFEvento(c.UserContext(), ator, uint(eventoID))
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect(fmt.Sprintf("/admin/eventos/%d/inscricoes", eventoID), fiber.StatusSeeOther)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="financeiro_evento_%d.pdf"`, eventoID))
	return c.Send(pdf)
}
