package routes

import (
	publico_handlers "celulas.app/handlers/publico"

	"github.com/gofiber/fiber/v2"
)

// registerPublicRoutes registra a única superfície sem login: o link de
// convite de inscrição.
func registerPublicRoutes(app *fiber.App) {
	conviteHandler := publico_handlers.NewConviteHandler()

	app.Get("/convite/:token", conviteHandler.ShowConvite)
	app.Post("/convite/:token", conviteHandler.SubmitConvite)
}
