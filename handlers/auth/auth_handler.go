package handlers

import (
	"errors"
	"strings"

	"celulas.app/configs/configslog"
	"celulas.app/middlewares"
	"celulas.app/pkg/flashmessages"
	"celulas.app/pkg/renderer"
	"celulas.app/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"go.uber.org/zap"
)

// AuthHandler trata login, cadastro, ativação por chave e perfil.
type AuthHandler struct {
	authService  services.IAuthService
	chaveService services.IChaveService
}

// NewAuthHandler cria o handler com os serviços padrão.
func NewAuthHandler() *AuthHandler {
	return &AuthHandler{
		authService:  services.NewAuthService(),
		chaveService: services.NewChaveService(),
	}
}

func (h *AuthHandler) sessao(c *fiber.Ctx) (*session.Session, error) {
	st, ok := c.Locals("session_store").(*session.Store)
	if !ok {
		return nil, errors.New("session store ausente")
	}
	return st.Get(c)
}

// gravarSessao materializa o perfil autenticado na sessão; é o que os
// middlewares releem a cada request.
func (h *AuthHandler) gravarSessao(c *fiber.Ctx, perfilID uint, role, nome string, celulaID *uint) error {
	sess, err := h.sessao(c)
	if err != nil {
		return err
	}
	sess.Set("user_id", perfilID)
	sess.Set("user_role", role)
	sess.Set("user_name", nome)
	if celulaID != nil {
		sess.Set("celula_id", *celulaID)
	} else {
		sess.Delete("celula_id")
	}
	return sess.Save()
}

// ShowLogin exibe o formulário de login.
func (h *AuthHandler) ShowLogin(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{"Title": "Entrar"}
	renderer.SetFlashMessages(data, flashData)
	return renderer.Render(c, "auth/login", "layouts/auth_layout", data)
}

// Login autentica e abre a sessão.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	email := strings.TrimSpace(strings.ToLower(c.FormValue("email")))
	senha := c.FormValue("senha")

	user, err := h.authService.Login(c.UserContext(), email, senha)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}
	if err := h.gravarSessao(c, user.ID, string(user.Role), user.NomeCompleto, user.CelulaID); err != nil {
		configslog.Log.Error("Login: sessão falhou", zap.Uint("perfilID", user.ID), zap.Error(err))
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Não foi possível iniciar a sessão.")
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}
	if user.IsAdmin() {
		return c.Redirect("/admin/home", fiber.StatusFound)
	}
	if user.CelulaID == nil {
		return c.Redirect("/auth/ativar", fiber.StatusFound)
	}
	return c.Redirect("/painel/home", fiber.StatusFound)
}

// ShowRegister exibe o cadastro de líder.
func (h *AuthHandler) ShowRegister(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{"Title": "Criar conta"}
	renderer.SetFlashMessages(data, flashData)
	return renderer.Render(c, "auth/register", "layouts/auth_layout", data)
}

// Register cria o perfil e já abre a sessão; o vínculo com célula vem na
// etapa de ativação.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	form := services.RegistroForm{
		Email:        strings.TrimSpace(strings.ToLower(c.FormValue("email"))),
		Senha:        c.FormValue("senha"),
		NomeCompleto: strings.TrimSpace(c.FormValue("nome_completo")),
		Telefone:     c.FormValue("telefone"),
	}
	user, err := h.authService.Registrar(c.UserContext(), form)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/auth/register", fiber.StatusSeeOther)
	}
	if err := h.gravarSessao(c, user.ID, string(user.Role), user.NomeCompleto, nil); err != nil {
		configslog.Log.Error("Register: sessão falhou", zap.Uint("perfilID", user.ID), zap.Error(err))
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey,
		"Cadastro concluído. Ative seu perfil com a chave da sua célula.")
	return c.Redirect("/auth/ativar", fiber.StatusFound)
}

// ShowAtivar exibe o formulário de resgate da chave de ativação.
func (h *AuthHandler) ShowAtivar(c *fiber.Ctx) error {
	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{"Title": "Ativar perfil"}
	renderer.SetFlashMessages(data, flashData)
	return renderer.Render(c, "auth/ativar", "layouts/auth_layout", data)
}

// Ativar resgata a chave e vincula o perfil à célula.
func (h *AuthHandler) Ativar(c *fiber.Ctx) error {
	ator, ok := middlewares.AtorAtual(c)
	if !ok {
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}
	chave := strings.TrimSpace(c.FormValue("chave"))
	if chave == "" {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Informe a chave de ativação.")
		return c.Redirect("/auth/ativar", fiber.StatusSeeOther)
	}

	user, err := h.chaveService.ResgatarChave(c.UserContext(), ator.PerfilID, chave)
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, err.Error())
		return c.Redirect("/auth/ativar", fiber.StatusSeeOther)
	}
	if err := h.gravarSessao(c, user.ID, string(user.Role), user.NomeCompleto, user.CelulaID); err != nil {
		configslog.Log.Error("Ativar: sessão falhou", zap.Uint("perfilID", user.ID), zap.Error(err))
	}
	_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Perfil ativado. Bem-vindo!")
	return c.Redirect("/painel/home", fiber.StatusFound)
}

// Profile exibe os dados do próprio perfil.
func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	ator, ok := middlewares.AtorAtual(c)
	if !ok {
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}
	user, err := h.authService.GetPerfil(c.UserContext(), ator.PerfilID)
	if err != nil {
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}
	flashData, _ := flashmessages.GetFlashMessages(c)
	data := fiber.Map{"Title": "Meu Perfil", "Perfil": user}
	renderer.SetFlashMessages(data, flashData)
	layout := "layouts/painel_layout"
	if ator.Admin() {
		layout = "layouts/admin_layout"
	}
	return renderer.Render(c, "auth/profile", layout, data)
}

// UpdateProfile edita nome e telefone.
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	ator, ok := middlewares.AtorAtual(c)
	if !ok {
		return c.Redirect("/auth/login", fiber.StatusSeeOther)
	}
	err := h.authService.AtualizarPerfil(c.UserContext(), ator.PerfilID,
		strings.TrimSpace(c.FormValue("nome_completo")), c.FormValue("telefone"))
	if err != nil {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashErrorKey, "Não foi possível atualizar o perfil.")
	} else {
		_ = flashmessages.SetFlashMessage(c, flashmessages.FlashSuccessKey, "Perfil atualizado.")
	}
	return c.Redirect("/auth/profile", fiber.StatusSeeOther)
}

// Logout encerra a sessão.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if sess, err := h.sessao(c); err == nil {
		if err := sess.Destroy(); err != nil {
			configslog.Log.Warn("Logout: destroy falhou", zap.Error(err))
		}
	}
	return c.Redirect("/auth/login", fiber.StatusFound)
}
