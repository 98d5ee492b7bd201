package routes

import (
	admin_handlers "celulas.app/handlers/admin"
	"celulas.app/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerAdminRoutes define o grupo /admin, restrito ao administrador.
func registerAdminRoutes(app *fiber.App) {
	homeHandler := admin_handlers.NewAdminHomeHandler()
	eventoHandler := admin_handlers.NewAdminEventoHandler()
	celulaHandler := admin_handlers.NewAdminCelulaHandler()
	userHandler := admin_handlers.NewAdminUserHandler()
	relatorioHandler := admin_handlers.NewAdminRelatorioHandler()

	adminGroup := app.Group("/admin")
	adminGroup.Use(
		middlewares.AuthMiddleware,
		middlewares.AdminMiddleware,
	)

	adminGroup.Get("/home", homeHandler.Home)

	// Eventos Face a Face
	adminGroup.Get("/eventos", eventoHandler.ListEventos)
	adminGroup.Post("/eventos", eventoHandler.CreateEvento)
	adminGroup.Post("/eventos/:id", eventoHandler.UpdateEvento)
	adminGroup.Post("/eventos/:id/ativacao", eventoHandler.ToggleAtivacao)
	adminGroup.Post("/eventos/:id/delete", eventoHandler.DeleteEvento)

	// Inscrições e financeiro
	adminGroup.Get("/eventos/:eventoID/inscricoes", eventoHandler.ListInscricoes)
	adminGroup.Get("/eventos/:eventoID/inscricoes/csv", eventoHandler.ExportarCSV)
	adminGroup.Get("/eventos/:eventoID/financeiro/pdf", eventoHandler.GerarPDFFinanceiro)
	adminGroup.Post("/inscricoes/:id/confirmar", eventoHandler.ConfirmarPagamento)
	adminGroup.Post("/inscricoes/:id/cancelar", eventoHandler.CancelarInscricao)
	adminGroup.Post("/inscricoes/:id", eventoHandler.UpdateInscricao)
	adminGroup.Post("/inscricoes/:id/delete", eventoHandler.DeleteInscricao)

	// Células e chaves de ativação
	adminGroup.Get("/celulas", celulaHandler.ListCelulas)
	adminGroup.Post("/celulas", celulaHandler.CreateCelula)
	adminGroup.Post("/celulas/:id", celulaHandler.UpdateCelula)
	adminGroup.Post("/celulas/:id/delete", celulaHandler.DeleteCelula)
	adminGroup.Get("/chaves", celulaHandler.ListChaves)
	adminGroup.Post("/chaves/:celulaID", celulaHandler.GerarChave)

	// Relatórios de acompanhamento
	adminGroup.Get("/relatorios/visitantes", relatorioHandler.VisitantesPorPeriodo)
	adminGroup.Get("/relatorios/faltosos", relatorioHandler.Faltosos)
	adminGroup.Get("/relatorios/frequencia", relatorioHandler.Frequencia)
	adminGroup.Get("/relatorios/aniversariantes", relatorioHandler.Aniversariantes)

	// Perfis
	adminGroup.Get("/users", userHandler.ListUsers)
	adminGroup.Post("/users/:id/role", userHandler.AlterarRole)
	adminGroup.Post("/users/:id/ativo", userHandler.AlterarAtivo)
	adminGroup.Post("/users/:id/desvincular", userHandler.DesvincularCelula)
	adminGroup.Post("/users/:id/delete", userHandler.DeleteUser)
}
