package routes

import (
	"celulas.app/configs"
	"celulas.app/middlewares"
	"celulas.app/pkg/renderer"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	recoverMiddleware "github.com/gofiber/fiber/v2/middleware/recover"
)

// SetupRoutes registra middlewares globais e todos os grupos de rotas.
func SetupRoutes(app *fiber.App) {
	app.Use(recoverMiddleware.New())
	app.Use(logger.New())
	app.Use(initializeSessionAndLocals())

	registerAuthRoutes(app)
	registerAdminRoutes(app)
	registerPainelRoutes(app)
	registerPublicRoutes(app)

	app.Get("/", rootRedirector)
	app.Use(notFoundHandler)
}

// initializeSessionAndLocals abre a sessão e materializa o perfil logado nos
// locals. É a única leitura de sessão por request; o resto do código usa
// middlewares.AtorAtual.
func initializeSessionAndLocals() fiber.Handler {
	sessionStore := configs.SetupSession()
	return func(c *fiber.Ctx) error {
		c.Locals("session_store", sessionStore)
		sess, err := sessionStore.Get(c)
		if err != nil {
			return c.Next()
		}
		if userID, ok := sess.Get("user_id").(uint); ok && userID != 0 {
			c.Locals("userID", userID)
		}
		if role, ok := sess.Get("user_role").(string); ok {
			c.Locals("userRole", role)
			c.Locals("isAdmin", role == "admin")
		}
		if celulaID, ok := sess.Get("celula_id").(uint); ok {
			c.Locals("celulaID", celulaID)
		}
		if name, ok := sess.Get("user_name").(string); ok {
			c.Locals("userName", name)
		}
		return c.Next()
	}
}

func rootRedirector(c *fiber.Ctx) error {
	ator, ok := middlewares.AtorAtual(c)
	if !ok {
		return c.Redirect("/auth/login", fiber.StatusTemporaryRedirect)
	}
	if ator.Admin() {
		return c.Redirect("/admin/home", fiber.StatusTemporaryRedirect)
	}
	return c.Redirect("/painel/home", fiber.StatusTemporaryRedirect)
}

func notFoundHandler(c *fiber.Ctx) error {
	return renderer.Render(c, "errors/404", "layouts/publico_layout", fiber.Map{
		"Title": "Página não encontrada",
	}, fiber.StatusNotFound)
}
