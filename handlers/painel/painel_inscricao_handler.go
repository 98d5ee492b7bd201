package handlers

import (
	"fmt"
	"strings"

	"celulas.app/configs/configslog"
	"celulas.app/middlewares"
	"celulas.app/models"
	"celulas.app/pkg/flashmessages"
	"celulas.app/pkg/renderer"
	"celulas.app/pkg/uploads"
	"celulas.app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PainelInscricaoHandler é a visão do líder sobre o Face a Face: inscrições
// da própria célula e geração de convites.
type PainelInscricaoHandler struct {
	inscricaoService services.IInscricaoService
	eventoService    services.IEventoService
	conviteService   services.IConviteService
}

// NewPainelInscricaoHandler cria o handler com os serviços padrão.
func NewPainelInscricaoHandler() *PainelInscricaoHandler {
	return &PainelInscricaoHandler{
		inscricaoService: services.NewInscricaoService(),
		eventoService:    services.NewEventoService(),
		conviteService:   services.NewConviteService(),
	}
}

func formInscricaoDoBody(c *fiber.Ctx) services.InscricaoForm {
	return services.InscricaoForm{
		NomeCompletoParticipante: strings.TrimSpace(c.FormValue("nome_completo")),
		TipoParticipacao:         models.TipoParticipacao(c.FormValue("tipo_participacao", string(models.ParticipacaoEncontrista))),
		ContatoPessoal:           c.FormValue("contato"),
	}
}

// ListEventos lista os eventos abertos para o líder inscrever gente.
func (h *PainelInscricaoHandler) ListEventos(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)
	eventos, err := h.eventoService.ListEventosAtivos(c.UserContext())
	data := fiber.Map{"Title": "Eventos Face a Face", "Eventos": eventos}
	renderer.SetFlashMessages(data, flashData)
	if err != nil {
		configslog.Log.Error("Painel - ListEventos", zap.Error(err))
		data[renderer.FlashErrorKeyView] = "Não foi possível listar os eventos."
	}
	return renderer.Render(c, "painel/eventos/list", "layouts/painel_layout", data)
}

// ListInscricoes lista as inscrições do líder em um evento.
func (h *PainelInscricaoHandler) ListInscricoes(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	eventoID, err := c.ParamsInt("eventoID")
	if err != nil || eventoID <= 0 {
		return c.Redirect("/painel/eventos", fiber.StatusSeeOther)
	}

	flashData, _ := flashmessages.GetFlashMessages(c)
	evento, err := h.eventoService.GetEventoByID(c.UserContext(), uint(eventoID))
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/painel/eventos", fiber.StatusSeeOther)
	}
	inscricoes, err := h.inscricaoService.ListMinhasInscricoes(c.UserContext(), ator, uint(eventoID))
	data := fiber.Map{
		"Title":      "Minhas Inscrições - " + evento.Nome,
		"Evento":     evento,
		"Inscricoes": inscricoes,
	}
	renderer.SetFlashMessages(data, flashData)
	if err != nil {
		configslog.Log.Error("Painel - ListInscricoes", zap.Uint("eventoID", uint(eventoID)), zap.Error(err))
		data[renderer.FlashErrorKeyView] = "Não foi possível listar as inscrições."
	}
	return renderer.Render(c, "painel/inscricoes/list", "layouts/painel_layout", data)
}

// CreateInscricao registra um participante pela própria mão do líder.
func (h *PainelInscricaoHandler) CreateInscricao(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	eventoID, err := c.ParamsInt("eventoID")
	if err != nil || eventoID <= 0 {
		return c.Redirect("/painel/eventos", fiber.StatusSeeOther)
	}
	destino := fmt.Sprintf("/painel/eventos/%d/inscricoes", eventoID)

	_, err = h.inscricaoService.CriarInscricao(c.UserContext(), ator, uint(eventoID), formInscricaoDoBody(c))
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect(destino, fiber.StatusSeeOther)
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Inscrição criada. Anexe o comprovante da entrada quando houver.")
	return c.Redirect(destino, fiber.StatusSeeOther)
}

// UpdateInscricao edita os dados pessoais de uma inscrição da célula.
func (h *PainelInscricaoHandler) UpdateInscricao(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/painel/eventos", fiber.StatusSeeOther)
	}

	inscricao, err := h.inscricaoService.GetInscricaoByID(c.UserContext(), ator, uint(id))
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/painel/eventos", fiber.StatusSeeOther)
	}
	destino := fmt.Sprintf("/painel/eventos/%d/inscricoes", inscricao.EventoID)

	if err := h.inscricaoService.AtualizarDados(c.UserContext(), ator, uint(id), formInscricaoDoBody(c)); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Inscrição atualizada.")
	}
	return c.Redirect(destino, fiber.StatusSeeOther)
}

// AnexarComprovante sobe o comprovante de uma parcela (entrada ou restante).
func (h *PainelInscricaoHandler) AnexarComprovante(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/painel/eventos", fiber.StatusSeeOther)
	}
	inscricao, err := h.inscricaoService.GetInscricaoByID(c.UserContext(), ator, uint(id))
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/painel/eventos", fiber.StatusSeeOther)
	}
	destino := fmt.Sprintf("/painel/eventos/%d/inscricoes", inscricao.EventoID)

	parcela := models.Parcela(c.FormValue("parcela", string(models.ParcelaEntrada)))
	fh, err := c.FormFile("comprovante")
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Anexe o arquivo do comprovante.")
		return c.Redirect(destino, fiber.StatusSeeOther)
	}
	caminho, err := uploads.SalvarComprovante(c, fh)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect(destino, fiber.StatusSeeOther)
	}

	if err := h.inscricaoService.AnexarComprovante(c.UserContext(), ator, uint(id), parcela, caminho); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect(destino, fiber.StatusSeeOther)
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Comprovante enviado. Aguarde a confirmação do administrador.")
	return c.Redirect(destino, fiber.StatusSeeOther)
}

// GerarConvite cria o link público de inscrição para compartilhar.
func (h *PainelInscricaoHandler) GerarConvite(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	eventoID, err := c.ParamsInt("eventoID")
	if err != nil || eventoID <= 0 {
		return c.Redirect("/painel/eventos", fiber.StatusSeeOther)
	}

	_, url, err := h.conviteService.GerarConvite(c.UserContext(), ator, uint(eventoID),
		strings.TrimSpace(c.FormValue("nome_sugerido")))
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/painel/convites", fiber.StatusSeeOther)
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Convite gerado: "+url)
	return c.Redirect("/painel/convites", fiber.StatusSeeOther)
}

// ListConvites lista os convites gerados pelo líder e a situação de cada um.
func (h *PainelInscricaoHandler) ListConvites(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	flashData, _ := flashmessages.GetFlashMessages(c)

	convites, err := h.conviteService.ListConvitesDoLider(c.UserContext(), ator)
	data := fiber.Map{"Title": "Meus Convites", "Convites": convites}
	renderer.SetFlashMessages(data, flashData)
	if err != nil {
		configslog.Log.Error("Painel - ListConvites", zap.Error(err))
		data[renderer.FlashErrorKeyView] = "Não foi possível listar os convites."
	}
	return renderer.Render(c, "painel/convites/list", "layouts/painel_layout", data)
}
