package handlers

import (
	"strings"

	"celulas.app/configs/configslog"
	"celulas.app/models"
	"celulas.app/pkg/renderer"
	"celulas.app/pkg/uploads"
	"celulas.app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// ConviteHandler é a face pública do link de convite: a única rota do sistema
// acessível sem login.
type ConviteHandler struct {
	conviteService   services.IConviteService
	inscricaoService services.IInscricaoService
}

// NewConviteHandler cria o handler com os serviços padrão.
func NewConviteHandler() *ConviteHandler {
	return &ConviteHandler{
		conviteService:   services.NewConviteService(),
		inscricaoService: services.NewInscricaoService(),
	}
}

// ShowConvite valida o token e exibe o formulário público de inscrição.
// Token inválido, expirado ou usado recebe a mesma página de recusa.
func (h *ConviteHandler) ShowConvite(c *fiber.Ctx) error {
	token := c.Params("token")
	resolvido, err := h.conviteService.ResolverConvite(c.UserContext(), token)
	if err != nil {
		return renderer.Render(c, "publico/convite_invalido", "layouts/publico_layout", fiber.Map{
			"Title":    "Convite inválido",
			"Mensagem": err.Error(),
		}, fiber.StatusGone)
	}

	return renderer.Render(c, "publico/convite", "layouts/publico_layout", fiber.Map{
		"Title":         "Inscrição - " + resolvido.Evento.Nome,
		"Evento":        resolvido.Evento,
		"Celula":        resolvido.Celula,
		"NomeSugerido":  resolvido.Convite.NomeCandidatoSugerido,
		"Token":         token,
		"ValorEntrada":  resolvido.Evento.ValorEntrada,
		"ValorTotal":    resolvido.Evento.ValorTotal,
	})
}

// SubmitConvite recebe o formulário público e cria a inscrição em nome do
// líder que gerou o convite. O comprovante da entrada é opcional aqui: sem
// ele a inscrição nasce em PENDENTE e o líder anexa depois.
func (h *ConviteHandler) SubmitConvite(c *fiber.Ctx) error {
	token := c.Params("token")

	form := services.InscricaoForm{
		NomeCompletoParticipante: strings.TrimSpace(c.FormValue("nome_completo")),
		TipoParticipacao:         models.ParticipacaoEncontrista,
		ContatoPessoal:           c.FormValue("contato"),
	}

	caminho := ""
	if fh, err := c.FormFile("comprovante"); err == nil {
		caminho, err = uploads.SalvarComprovante(c, fh)
		if err != nil {
			return h.renderErro(c, token, err.Error())
		}
	}

	inscricao, err := h.inscricaoService.CriarInscricaoPublica(c.UserContext(), token, form, caminho)
	if err != nil {
		configslog.Log.Warn("SubmitConvite: inscrição recusada", zap.Error(err))
		return h.renderErro(c, token, err.Error())
	}

	return renderer.Render(c, "publico/convite_sucesso", "layouts/publico_layout", fiber.Map{
		"Title":       "Inscrição recebida",
		"Participante": inscricao.NomeCompletoParticipante,
	})
}

func (h *ConviteHandler) renderErro(c *fiber.Ctx, token, mensagem string) error {
	resolvido, err := h.conviteService.ResolverConvite(c.UserContext(), token)
	if err != nil {
		return renderer.Render(c, "publico/convite_invalido", "layouts/publico_layout", fiber.Map{
			"Title":    "Convite inválido",
			"Mensagem": err.Error(),
		}, fiber.StatusGone)
	}
	return renderer.Render(c, "publico/convite", "layouts/publico_layout", fiber.Map{
		"Title":        "Inscrição - " + resolvido.Evento.Nome,
		"Evento":       resolvido.Evento,
		"Celula":       resolvido.Celula,
		"Token":        token,
		"FlashError":   mensagem,
		"ValorEntrada": resolvido.Evento.ValorEntrada,
		"ValorTotal":   resolvido.Evento.ValorTotal,
	}, fiber.StatusUnprocessableEntity)
}
