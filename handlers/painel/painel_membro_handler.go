package handlers

import (
	"strings"
	"time"

	"celulas.app/configs/configslog"
	"celulas.app/middlewares"
	"celulas.app/models"
	"celulas.app/pkg/flashmessages"
	"celulas.app/pkg/queryparams"
	"celulas.app/pkg/renderer"
	"celulas.app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PainelMembroHandler gerencia o plantel da célula do líder.
type PainelMembroHandler struct {
	service services.IMembroService
}

// NewPainelMembroHandler cria o handler com o serviço padrão.
func NewPainelMembroHandler() *PainelMembroHandler {
	return &PainelMembroHandler{service: services.NewMembroService()}
}

func parseData(valor string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", valor)
	return t, err == nil
}

func parseDataOpcional(valor string) *time.Time {
	if t, ok := parseData(valor); ok {
		return &t
	}
	return nil
}

func formMembroDoBody(c *fiber.Ctx) (services.MembroForm, bool) {
	ingresso, ok := parseData(c.FormValue("data_ingresso"))
	form := services.MembroForm{
		Nome:           strings.TrimSpace(c.FormValue("nome")),
		Telefone:       c.FormValue("telefone"),
		DataIngresso:   ingresso,
		DataNascimento: parseDataOpcional(c.FormValue("data_nascimento")),
		Endereco:       strings.TrimSpace(c.FormValue("endereco")),
		Status:         models.MembroStatus(c.FormValue("status", string(models.MembroAtivo))),
	}
	return form, ok
}

// ListMembros lista paginado com filtros de nome e status.
func (h *PainelMembroHandler) ListMembros(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	flashData, _ := flashmessages.GetFlashMessages(c)

	var params queryparams.ListParams
	if err := c.QueryParser(&params); err != nil {
		params = queryparams.DefaultListParams("nome")
	}
	if params.SortBy == "" {
		params.SortBy = "nome"
		params.OrderBy = "asc"
	}

	result, err := h.service.ListMembrosPaginated(c.UserContext(), ator, params)
	data := fiber.Map{"Title": "Membros", "Params": params}
	renderer.SetFlashMessages(data, flashData)
	if err != nil {
		configslog.Log.Error("Painel - ListMembros", zap.Error(err))
		data[renderer.FlashErrorKeyView] = "Não foi possível listar os membros."
		data["Result"] = &queryparams.PaginatedResult{Data: []models.Membro{}}
	} else {
		data["Result"] = result
	}
	return renderer.Render(c, "painel/membros/list", "layouts/painel_layout", data)
}

// CreateMembro cadastra um membro na célula do líder.
func (h *PainelMembroHandler) CreateMembro(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	form, ok := formMembroDoBody(c)
	if !ok {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Informe a data de ingresso.")
		return c.Redirect("/painel/membros", fiber.StatusSeeOther)
	}
	if _, err := h.service.CreateMembro(c.UserContext(), ator, 0, form); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Membro cadastrado.")
	}
	return c.Redirect("/painel/membros", fiber.StatusSeeOther)
}

// UpdateMembro edita um membro da célula.
func (h *PainelMembroHandler) UpdateMembro(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/painel/membros", fiber.StatusSeeOther)
	}
	form, ok := formMembroDoBody(c)
	if !ok {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Informe a data de ingresso.")
		return c.Redirect("/painel/membros", fiber.StatusSeeOther)
	}
	if err := h.service.UpdateMembro(c.UserContext(), ator, uint(id), form); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Membro atualizado.")
	}
	return c.Redirect("/painel/membros", fiber.StatusSeeOther)
}

// DeleteMembro remove um membro da célula.
func (h *PainelMembroHandler) DeleteMembro(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/painel/membros", fiber.StatusSeeOther)
	}
	if err := h.service.DeleteMembro(c.UserContext(), ator, uint(id)); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Membro removido.")
	}
	return c.Redirect("/painel/membros", fiber.StatusSeeOther)
}
