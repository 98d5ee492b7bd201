package handlers

import (
	"celulas.app/configs/configslog"
	"celulas.app/middlewares"
	"celulas.app/pkg/flashmessages"
	"celulas.app/pkg/queryparams"
	"celulas.app/pkg/renderer"
	"celulas.app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// AdminHomeHandler é o painel inicial do administrador.
type AdminHomeHandler struct {
	inscricaoService services.IInscricaoService
	eventoService    services.IEventoService
	celulaService    services.ICelulaService
}

// NewAdminHomeHandler cria o handler com os serviços padrão.
func NewAdminHomeHandler() *AdminHomeHandler {
	return &AdminHomeHandler{
		inscricaoService: services.NewInscricaoService(),
		eventoService:    services.NewEventoService(),
		celulaService:    services.NewCelulaService(),
	}
}

// Home mostra a fila financeira (comprovantes aguardando confirmação) e os
// números gerais.
func (h *AdminHomeHandler) Home(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	flashData, _ := flashmessages.GetFlashMessages(c)

	data := fiber.Map{"Title": "Administração"}
	renderer.SetFlashMessages(data, flashData)

	if fila, err := h.inscricaoService.ListAguardandoConfirmacao(c.UserContext(), ator); err == nil {
		data["FilaConfirmacao"] = fila
		data["TotalAguardando"] = len(fila)
	} else {
		configslog.Log.Error("AdminHome: fila falhou", zap.Error(err))
		data[renderer.FlashErrorKeyView] = "Não foi possível carregar a fila de confirmações."
	}
	if celulas, err := h.celulaService.ListCelulas(c.UserContext(), ator); err == nil {
		data["TotalCelulas"] = len(celulas)
	}
	if result, err := h.eventoService.ListEventosPaginated(c.UserContext(), ator, queryparams.DefaultListParams("data_inicio")); err == nil {
		data["Eventos"] = result.Data
	}

	return renderer.Render(c, "admin/home", "layouts/admin_layout", data)
}
