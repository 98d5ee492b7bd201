package handlers

import (
	"strings"
	"time"

	"celulas.app/configs/configslog"
	"celulas.app/middlewares"
	"celulas.app/pkg/flashmessages"
	"celulas.app/pkg/renderer"
	"celulas.app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PainelVisitanteHandler acompanha visitantes e a conversão em membro.
type PainelVisitanteHandler struct {
	service services.IVisitanteService
}

// NewPainelVisitanteHandler cria o handler com o serviço padrão.
func NewPainelVisitanteHandler() *PainelVisitanteHandler {
	return &PainelVisitanteHandler{service: services.NewVisitanteService()}
}

func formVisitanteDoBody(c *fiber.Ctx) (services.VisitanteForm, bool) {
	primeira, ok := parseData(c.FormValue("data_primeira_visita"))
	form := services.VisitanteForm{
		Nome:               strings.TrimSpace(c.FormValue("nome")),
		Telefone:           c.FormValue("telefone"),
		DataPrimeiraVisita: primeira,
		DataNascimento:     parseDataOpcional(c.FormValue("data_nascimento")),
		Endereco:           strings.TrimSpace(c.FormValue("endereco")),
		DataUltimoContato:  parseDataOpcional(c.FormValue("data_ultimo_contato")),
		Observacoes:        strings.TrimSpace(c.FormValue("observacoes")),
	}
	return form, ok
}

// ListVisitantes lista os visitantes da célula.
func (h *PainelVisitanteHandler) ListVisitantes(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	flashData, _ := flashmessages.GetFlashMessages(c)

	visitantes, err := h.service.ListVisitantes(c.UserContext(), ator, 0)
	data := fiber.Map{"Title": "Visitantes", "Visitantes": visitantes}
	renderer.SetFlashMessages(data, flashData)
	if err != nil {
		configslog.Log.Error("Painel - ListVisitantes", zap.Error(err))
		data[renderer.FlashErrorKeyView] = "Não foi possível listar os visitantes."
	}
	return renderer.Render(c, "painel/visitantes/list", "layouts/painel_layout", data)
}

// CreateVisitante cadastra um visitante na célula.
func (h *PainelVisitanteHandler) CreateVisitante(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	form, ok := formVisitanteDoBody(c)
	if !ok {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Informe a data da primeira visita.")
		return c.Redirect("/painel/visitantes", fiber.StatusSeeOther)
	}
	if _, err := h.service.CreateVisitante(c.UserContext(), ator, 0, form); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Visitante cadastrado.")
	}
	return c.Redirect("/painel/visitantes", fiber.StatusSeeOther)
}

// UpdateVisitante edita um visitante.
func (h *PainelVisitanteHandler) UpdateVisitante(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/painel/visitantes", fiber.StatusSeeOther)
	}
	form, ok := formVisitanteDoBody(c)
	if !ok {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Informe a data da primeira visita.")
		return c.Redirect("/painel/visitantes", fiber.StatusSeeOther)
	}
	if err := h.service.UpdateVisitante(c.UserContext(), ator, uint(id), form); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Visitante atualizado.")
	}
	return c.Redirect("/painel/visitantes", fiber.StatusSeeOther)
}

// RegistrarContato grava a data do último contato.
func (h *PainelVisitanteHandler) RegistrarContato(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/painel/visitantes", fiber.StatusSeeOther)
	}
	data, ok := parseData(c.FormValue("data_contato", time.Now().Format("2006-01-02")))
	if !ok {
		data = time.Now()
	}
	if err := h.service.RegistrarContato(c.UserContext(), ator, uint(id), data); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Contato registrado.")
	}
	return c.Redirect("/painel/visitantes", fiber.StatusSeeOther)
}

// ConverterEmMembro promove o visitante a membro da célula.
func (h *PainelVisitanteHandler) ConverterEmMembro(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/painel/visitantes", fiber.StatusSeeOther)
	}
	membro, err := h.service.ConverterEmMembro(c.UserContext(), ator, uint(id))
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/painel/visitantes", fiber.StatusSeeOther)
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, membro.Nome+" agora é membro da célula.")
	return c.Redirect("/painel/membros", fiber.StatusSeeOther)
}

// DeleteVisitante remove o visitante.
func (h *PainelVisitanteHandler) DeleteVisitante(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/painel/visitantes", fiber.StatusSeeOther)
	}
	if err := h.service.DeleteVisitante(c.UserContext(), ator, uint(id)); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Visitante removido.")
	}
	return c.Redirect("/painel/visitantes", fiber.StatusSeeOther)
}
