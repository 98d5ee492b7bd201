package handlers

import (
	"strings"

	"celulas.app/configs/configslog"
	"celulas.app/middlewares"
	"celulas.app/pkg/flashmessages"
	"celulas.app/pkg/renderer"
	"celulas.app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminCelulaHandler administra células e chaves de ativação.
type AdminCelulaHandler struct {
	celulaService services.ICelulaService
	chaveService  services.IChaveService
}

// NewAdminCelulaHandler cria o handler com os serviços padrão.
func NewAdminCelulaHandler() *AdminCelulaHandler {
	return &AdminCelulaHandler{
		celulaService: services.NewCelulaService(),
		chaveService:  services.NewChaveService(),
	}
}

func formCelulaDoBody(c *fiber.Ctx) services.CelulaForm {
	return services.CelulaForm{
		Nome:           strings.TrimSpace(c.FormValue("nome")),
		LiderPrincipal: strings.TrimSpace(c.FormValue("lider_principal")),
		Endereco:       strings.TrimSpace(c.FormValue("endereco")),
	}
}

// ListCelulas lista todas as células.
func (h *AdminCelulaHandler) ListCelulas(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	flashData, _ := flashmessages.GetFlashMessages(c)

	celulas, err := h.celulaService.ListCelulas(c.UserContext(), ator)
	data := fiber.Map{"Title": "Células", "Celulas": celulas}
	renderer.SetFlashMessages(data, flashData)
	if err != nil {
		configslog.Log.Error("Admin - ListCelulas", zap.Error(err))
		data[renderer.FlashErrorKeyView] = "Não foi possível listar as células."
	}
	return renderer.Render(c, "admin/celulas/list", "layouts/admin_layout", data)
}

// CreateCelula cria a célula e mostra a chave de ativação gerada junto.
func (h *AdminCelulaHandler) CreateCelula(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	celula, chave, err := h.celulaService.CreateCelula(c.UserContext(), ator, formCelulaDoBody(c))
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/admin/celulas", fiber.StatusSeeOther)
	}
	if chave != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey,
			"Célula "+celula.Nome+" criada. Chave de ativação: "+chave.Chave)
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey,
			"Célula "+celula.Nome+" criada, mas a chave de ativação falhou. Gere outra na tela de chaves.")
	}
	return c.Redirect("/admin/celulas", fiber.StatusSeeOther)
}

// UpdateCelula edita os dados da célula.
func (h *AdminCelulaHandler) UpdateCelula(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/admin/celulas", fiber.StatusSeeOther)
	}
	if err := h.celulaService.UpdateCelula(c.UserContext(), ator, uint(id), formCelulaDoBody(c)); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Célula atualizada.")
	}
	return c.Redirect("/admin/celulas", fiber.StatusSeeOther)
}

// DeleteCelula remove a célula.
func (h *AdminCelulaHandler) DeleteCelula(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/admin/celulas", fiber.StatusSeeOther)
	}
	if err := h.celulaService.DeleteCelula(c.UserContext(), ator, uint(id)); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Célula excluída.")
	}
	return c.Redirect("/admin/celulas", fiber.StatusSeeOther)
}

// ListChaves lista as chaves de ativação e quem as usou.
func (h *AdminCelulaHandler) ListChaves(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	flashData, _ := flashmessages.GetFlashMessages(c)

	chaves, err := h.chaveService.ListChaves(c.UserContext(), ator)
	data := fiber.Map{"Title": "Chaves de Ativação", "Chaves": chaves}
	renderer.SetFlashMessages(data, flashData)
	if err != nil {
		configslog.Log.Error("Admin - ListChaves", zap.Error(err))
		data[renderer.FlashErrorKeyView] = "Não foi possível listar as chaves."
	}
	return renderer.Render(c, "admin/chaves/list", "layouts/admin_layout", data)
}

// GerarChave emite uma chave nova para a célula escolhida.
func (h *AdminCelulaHandler) GerarChave(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	celulaID, err := c.ParamsInt("celulaID")
	if err != nil || celulaID <= 0 {
		return c.Redirect("/admin/chaves", fiber.StatusSeeOther)
	}
	chave, err := h.chaveService.GerarChave(c.UserContext(), ator, uint(celulaID))
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Chave gerada: "+chave.Chave)
	}
	return c.Redirect("/admin/chaves", fiber.StatusSeeOther)
}
