package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"celulas.app/configs/configslog"
	"celulas.app/middlewares"
	"celulas.app/pkg/flashmessages"
	"celulas.app/pkg/renderer"
	"celulas.app/services"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// PainelReuniaoHandler registra reuniões, chamada de presença e o relatório
// em PDF.
type PainelReuniaoHandler struct {
	reuniaoService   services.IReuniaoService
	membroService    services.IMembroService
	visitanteService services.IVisitanteService
	relatorioService services.IRelatorioService
}

// NewPainelReuniaoHandler cria o handler com os serviços padrão.
func NewPainelReuniaoHandler() *PainelReuniaoHandler {
	return &PainelReuniaoHandler{
		reuniaoService:   services.NewReuniaoService(),
		membroService:    services.NewMembroService(),
		visitanteService: services.NewVisitanteService(),
		relatorioService: services.NewRelatorioService(),
	}
}

func parseUintOpcional(valor string) *uint {
	if valor == "" {
		return nil
	}
	n, err := strconv.ParseUint(valor, 10, 32)
	if err != nil || n == 0 {
		return nil
	}
	v := uint(n)
	return &v
}

func formReuniaoDoBody(c *fiber.Ctx) (services.ReuniaoForm, bool) {
	data, ok := parseData(c.FormValue("data_reuniao"))
	criancas, _ := strconv.Atoi(c.FormValue("num_criancas", "0"))
	form := services.ReuniaoForm{
		DataReuniao:             data,
		Tema:                    strings.TrimSpace(c.FormValue("tema")),
		MinistradorPrincipalID:  parseUintOpcional(c.FormValue("ministrador_principal_id")),
		MinistradorSecundarioID: parseUintOpcional(c.FormValue("ministrador_secundario_id")),
		ResponsavelKidsID:       parseUintOpcional(c.FormValue("responsavel_kids_id")),
		NumCriancas:             criancas,
	}
	return form, ok
}

// ListReunioes lista as reuniões da célula.
func (h *PainelReuniaoHandler) ListReunioes(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	flashData, _ := flashmessages.GetFlashMessages(c)

	reunioes, err := h.reuniaoService.ListReunioes(c.UserContext(), ator, 0)
	data := fiber.Map{"Title": "Reuniões", "Reunioes": reunioes}
	renderer.SetFlashMessages(data, flashData)
	if err != nil {
		configslog.Log.Error("Painel - ListReunioes", zap.Error(err))
		data[renderer.FlashErrorKeyView] = "Não foi possível listar as reuniões."
	}
	if membros, err := h.membroService.ListMembrosDaCelula(c.UserContext(), ator, 0); err == nil {
		data["Membros"] = membros
	}
	return renderer.Render(c, "painel/reunioes/list", "layouts/painel_layout", data)
}

// CreateReuniao registra uma nova reunião.
func (h *PainelReuniaoHandler) CreateReuniao(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	form, ok := formReuniaoDoBody(c)
	if !ok {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Informe a data da reunião.")
		return c.Redirect("/painel/reunioes", fiber.StatusSeeOther)
	}
	reuniao, err := h.reuniaoService.CreateReuniao(c.UserContext(), ator, 0, form)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/painel/reunioes", fiber.StatusSeeOther)
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Reunião registrada. Marque a chamada.")
	return c.Redirect(fmt.Sprintf("/painel/reunioes/%d", reuniao.ID), fiber.StatusSeeOther)
}

// ShowReuniao exibe a reunião com a chamada e o plantel para marcação.
func (h *PainelReuniaoHandler) ShowReuniao(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/painel/reunioes", fiber.StatusSeeOther)
	}

	resumo, err := h.relatorioService.ResumoReuniao(c.UserContext(), ator, uint(id))
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/painel/reunioes", fiber.StatusSeeOther)
	}
	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{
		"Title":  "Reunião de " + resumo.Reuniao.DataReuniao.Format("02/01/2006"),
		"Resumo": resumo,
	}
	renderer.SetFlashMessages(data, flashData)
	if visitantes, err := h.visitanteService.ListVisitantes(c.UserContext(), ator, 0); err == nil {
		data["Visitantes"] = visitantes
	}
	return renderer.Render(c, "painel/reunioes/show", "layouts/painel_layout", data)
}

// UpdateReuniao edita os dados da reunião.
func (h *PainelReuniaoHandler) UpdateReuniao(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/painel/reunioes", fiber.StatusSeeOther)
	}
	form, ok := formReuniaoDoBody(c)
	if !ok {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Informe a data da reunião.")
		return c.Redirect("/painel/reunioes", fiber.StatusSeeOther)
	}
	if err := h.reuniaoService.UpdateReuniao(c.UserContext(), ator, uint(id), form); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Reunião atualizada.")
	}
	return c.Redirect(fmt.Sprintf("/painel/reunioes/%d", id), fiber.StatusSeeOther)
}

// MarcarPresencas grava a chamada enviada pelo formulário. Os campos vêm como
// membro_<id> / visitante_<id> com valor "on" quando presentes, e a lista
// completa de ids em membros_ids / visitantes_ids.
func (h *PainelReuniaoHandler) MarcarPresencas(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/painel/reunioes", fiber.StatusSeeOther)
	}

	presencas := services.Presencas{
		Membros:    map[uint]bool{},
		Visitantes: map[uint]bool{},
	}
	for _, mid := range strings.Split(c.FormValue("membros_ids"), ",") {
		if p := parseUintOpcional(strings.TrimSpace(mid)); p != nil {
			presencas.Membros[*p] = c.FormValue(fmt.Sprintf("membro_%d", *p)) == "on"
		}
	}
	for _, vid := range strings.Split(c.FormValue("visitantes_ids"), ",") {
		if p := parseUintOpcional(strings.TrimSpace(vid)); p != nil {
			presencas.Visitantes[*p] = c.FormValue(fmt.Sprintf("visitante_%d", *p)) == "on"
		}
	}

	if err := h.reuniaoService.MarcarPresencas(c.UserContext(), ator, uint(id), presencas); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Chamada registrada.")
	}
	return c.Redirect(fmt.Sprintf("/painel/reunioes/%d", id), fiber.StatusSeeOther)
}

// GerarPDF baixa o relatório da reunião renderizado pelo serviço externo.
func (h *PainelReuniaoHandler) GerarPDF(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/painel/reunioes", fiber.StatusSeeOther)
	}

	pdf, err := h.relatorioService.GerarPDFReuniao(c.UserContext(), ator, uint(id))
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect(fmt.Sprintf("/painel/reunioes/%d", id), fiber.StatusSeeOther)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="reuniao_%d.pdf"`, id))
	return c.Send(pdf)
}

// DeleteReuniao remove a reunião e a chamada associada.
func (h *PainelReuniaoHandler) DeleteReuniao(c *fiber.Ctx) error {
	ator, _ := middlewares.AtorAtual(c)
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return c.Redirect("/painel/reunioes", fiber.StatusSeeOther)
	}
	if err := h.reuniaoService.DeleteReuniao(c.UserContext(), ator, uint(id)); err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Reunião excluída.")
	}
	return c.Redirect("/painel/reunioes", fiber.StatusSeeOther)
}
