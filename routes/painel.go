package routes

import (
	painel_handlers "celulas.app/handlers/painel"
	"celulas.app/middlewares"

	"github.com/gofiber/fiber/v2"
)

// registerPainelRoutes define o grupo /painel do líder. Quem ainda não
// resgatou chave de ativação é desviado para /auth/ativar.
func registerPainelRoutes(app *fiber.App) {
	homeHandler := painel_handlers.NewPainelHomeHandler()
	inscricaoHandler := painel_handlers.NewPainelInscricaoHandler()
	membroHandler := painel_handlers.NewPainelMembroHandler()
	visitanteHandler := painel_handlers.NewPainelVisitanteHandler()
	reuniaoHandler := painel_handlers.NewPainelReuniaoHandler()

	painelGroup := app.Group("/painel")
	painelGroup.Use(
		middlewares.AuthMiddleware,
		middlewares.CelulaMiddleware,
	)

	painelGroup.Get("/home", homeHandler.Home)

	// Face a Face: inscrições da célula e convites
	painelGroup.Get("/eventos", inscricaoHandler.ListEventos)
	painelGroup.Get("/eventos/:eventoID/inscricoes", inscricaoHandler.ListInscricoes)
	painelGroup.Post("/eventos/:eventoID/inscricoes", inscricaoHandler.CreateInscricao)
	painelGroup.Post("/eventos/:eventoID/convites", inscricaoHandler.GerarConvite)
	painelGroup.Post("/inscricoes/:id", inscricaoHandler.UpdateInscricao)
	painelGroup.Post("/inscricoes/:id/comprovante", inscricaoHandler.AnexarComprovante)
	painelGroup.Get("/convites", inscricaoHandler.ListConvites)

	// Plantel
	painelGroup.Get("/membros", membroHandler.ListMembros)
	painelGroup.Post("/membros", membroHandler.CreateMembro)
	painelGroup.Post("/membros/:id", membroHandler.UpdateMembro)
	painelGroup.Post("/membros/:id/delete", membroHandler.DeleteMembro)

	// Visitantes
	painelGroup.Get("/visitantes", visitanteHandler.ListVisitantes)
	painelGroup.Post("/visitantes", visitanteHandler.CreateVisitante)
	painelGroup.Post("/visitantes/:id", visitanteHandler.UpdateVisitante)
	painelGroup.Post("/visitantes/:id/contato", visitanteHandler.RegistrarContato)
	painelGroup.Post("/visitantes/:id/converter", visitanteHandler.ConverterEmMembro)
	painelGroup.Post("/visitantes/:id/delete", visitanteHandler.DeleteVisitante)

	// Reuniões e chamada
	painelGroup.Get("/reunioes", reuniaoHandler.ListReunioes)
	painelGroup.Post("/reunioes", reuniaoHandler.CreateReuniao)
	painelGroup.Get("/reunioes/:id", reuniaoHandler.ShowReuniao)
	painelGroup.Post("/reunioes/:id", reuniaoHandler.UpdateReuniao)
	painelGroup.Post("/reunioes/:id/presencas", reuniaoHandler.MarcarPresencas)
	painelGroup.Get("/reunioes/:id/pdf", reuniaoHandler.GerarPDF)
	painelGroup.Post("/reunioes/:id/delete", reuniaoHandler.DeleteReuniao)
}
