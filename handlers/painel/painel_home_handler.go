package handlers

import (
	"celulas.app/configs/configslog"
	"celulas.app/middlewares"
	"celulas.app/pkg/flashmessages"
	"celulas.app/pkg/renderer"
	"celulas.app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PainelHomeHandler é a página inicial do líder.
type PainelHomeHandler struct {
	eventoService    services.IEventoService
	membroService    services.IMembroService
	visitanteService services.IVisitanteService
	reuniaoService   services.IReuniaoService
}

// NewPainelHomeHandler cria o handler com os serviços padrão.
func NewPainelHomeHandler() *PainelHomeHandler {
	return &PainelHomeHandler{
		eventoService:    services.NewEventoService(),
		membroService:    services.NewMembroService(),
		visitanteService: services.NewVisitanteService(),
		reuniaoService:   services.NewReuniaoService(),
	}
}

// Home resume a célula do líder: plantel, visitantes, reuniões recentes e os
// eventos abertos a inscrição.
func (h *PainelHomeHandler) Home(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	flashData, _ := flashmessages.GetFlashMessages(c)

	data := fiber.Map{"Title": "Minha Célula"}
	renderer.SetFlashMessages(data, flashData)

	if membros, err := h.membroService.ListMembrosDaCelula(c.UserContext(), ator, 0); err == nil {
		data["Membros"] = membros
		data["TotalMembros"] = len(membros)
	} else {
		configslog.Log.Error("PainelHome: membros falhou", zap.Error(err))
	}
	if visitantes, err := h.visitanteService.ListVisitantes(c.UserContext(), ator, 0); err == nil {
		data["TotalVisitantes"] = len(visitantes)
	}
	if reunioes, err := h.reuniaoService.ListReunioes(c.UserContext(), ator, 0); err == nil {
		if len(reunioes) > 5 {
			reunioes = reunioes[:5]
		}
		data["ReunioesRecentes"] = reunioes
	}
	if eventos, err := h.eventoService.ListEventosAtivos(c.UserContext()); err == nil {
		data["EventosAtivos"] = eventos
	}

	return renderer.Render(c, "painel/home", "layouts/painel_layout", data)
}
