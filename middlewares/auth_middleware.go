package middlewares

import (
	"celulas.app/models"
	"celulas.app/pkg/flashmessages"
	"celulas.app/services"

	"github.com/gofiber/fiber/v2"
)

// AtorAtual remonta o ator a partir dos locals preenchidos pela sessão.
func AtorAtual(c *fiber.Ctx) (services.Ator, bool) {
	userID, ok := c.Locals("userID").(uint)
	if !ok || userID == 0 {
		return services.Ator{}, false
	}
	ator := services.Ator{PerfilID: userID, Role: models.RoleLider}
	if role, ok := c.Locals("userRole").(string); ok && role != "" {
		ator.Role = models.Role(role)
	}
	if celulaID, ok := c.Locals("celulaID").(uint); ok && celulaID != 0 {
		ator.CelulaID = &celulaID
	}
	return ator, true
}

// AuthMiddleware barra quem não está logado.
func AuthMiddleware(c *fiber.Ctx) error {
	if _, ok := AtorAtual(c); !ok {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Faça login para continuar.")
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}
	return c.Next()
}

// AdminMiddleware restringe o grupo ao perfil administrador.
func AdminMiddleware(c *fiber.Ctx) error {
	ator, ok := AtorAtual(c)
	if !ok {
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}
	if !ator.Admin() {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Acesso restrito a administradores.")
		return c.Redirect("/painel/home", fiber.StatusSeeOther)
	}
	return c.Next()
}

// CelulaMiddleware exige vínculo com célula; líder recém-cadastrado é levado
// à ativação por chave.
func CelulaMiddleware(c *fiber.Ctx) error {
	ator, ok := AtorAtual(c)
	if !ok {
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}
	if !ator.Admin() && !ator.TemCelula() {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Ative seu perfil com a chave da sua célula.")
		return c.Redirect("/auth/ativar", fiber.StatusSeeOther)
	}
	return c.Next()
}

// GuestMiddleware impede que usuários logados revisitem login/cadastro.
func GuestMiddleware(c *fiber.Ctx) error {
	if ator, ok := AtorAtual(c); ok {
		if ator.Admin() {
			return c.Redirect("/admin/home", fiber.StatusSeeOther)
		}
		return c.Redirect("/painel/home", fiber.StatusSeeOther)
	}
	return c.Next()
}
