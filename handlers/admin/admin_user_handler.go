package handlers

import (
	"celulas.app/configs/configslog"
	"celulas.app/middlewares"
	"celulas.app/models"
	"celulas.app/pkg/flashmessages"
	"celulas.app/pkg/renderer"
	"celulas.app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminUserHandler administra os perfis de acesso.
type AdminUserHandler struct {
	service services.IUserService
}

// NewAdminUserHandler cria o handler com o serviço padrão.
func NewAdminUserHandler() *AdminUserHandler {
	return &AdminUserHandler{service: services.NewUserService()}
}

// ListUsers lista todos os perfis.
func (h *AdminUserHandler) ListUsers(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	flashData, _ := flashmessages.GetFlashMessages(c)

	users, err := h.service.ListUsers(c.UserContext(), ator)
	data := fiber.Map{"Title": "Perfis", "Users": users}
	renderer.SetFlashMessages(data, flashData)
	if err != nil {
		configslog.Log.Error("Admin - ListUsers", zap.Error(err))
		data[renderer.FlashErrorKeyView] = "Não foi possível listar os perfis."
	}
	return renderer.Render(c, "admin/users/list", "layouts/admin_layout", data)
}

// AlterarRole muda o papel do perfil entre admin e líder.
func (h *AdminUserHandler) AlterarRole(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/admin/users", fiber.StatusSeeOther)
	}
	role := models.Role(c.FormValue("role", string(models.RoleLider)))
	if role != models.RoleAdmin && role != models.RoleLider {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Papel inválido.")
		return c.Redirect("/admin/users", fiber.StatusSeeOther)
	}
	if err := h.service.AlterarRole(c.UserContext(), ator, uint(id), role); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Papel atualizado.")
	}
	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}

// AlterarAtivo habilita/desabilita o acesso.
func (h *AdminUserHandler) AlterarAtivo(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/admin/users", fiber.StatusSeeOther)
	}
	ativo := c.FormValue("ativo") == "true" || c.FormValue("ativo") == "on"
	if err := h.service.AlterarAtivo(c.UserContext(), ator, uint(id), ativo); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Acesso atualizado.")
	}
	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}

// DesvincularCelula solta o perfil da célula atual.
func (h *AdminUserHandler) DesvincularCelula(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/admin/users", fiber.StatusSeeOther)
	}
	if err := h.service.DesvincularCelula(c.UserContext(), ator, uint(id)); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Perfil desvinculado da célula.")
	}
	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}

// DeleteUser exclui o perfil.
func (h *AdminUserHandler) DeleteUser(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/admin/users", fiber.StatusSeeOther)
	}
	if err := h.service.DeleteUser(c.UserContext(), ator, uint(id)); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Perfil excluído.")
	}
	return c.Redirect("/admin/users", fiber.StatusSeeOther)
}
