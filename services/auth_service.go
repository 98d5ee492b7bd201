package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"celulas.app/configs/configslog"
	"celulas.app/models"
	"celulas.app/repositories"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// AuthServiceError erros de autenticação.
type AuthServiceError string

func (e AuthServiceError) Error() string { return string(e) }

const (
	ErrCredenciaisInvalidas AuthServiceError = "email ou senha incorretos"
	ErrContaDesativada      AuthServiceError = "esta conta está desativada"
	ErrEmailJaCadastrado    AuthServiceError = "este email já está cadastrado"
	ErrRegistroFalhou       AuthServiceError = "não foi possível concluir o cadastro"
	ErrSenhaFraca           AuthServiceError = "a senha deve ter pelo menos 8 caracteres"
)

// RegistroForm são os dados do cadastro público de líder.
type RegistroForm struct {
	Email        string `validate:"required,email,max=150"`
	Senha        string `validate:"required,min=8"`
	NomeCompleto string `validate:"required,min=3,max=150"`
	Telefone     string
}

// IAuthService autentica e registra perfis.
type IAuthService interface {
	Login(ctx context.Context, email, senha string) (*models.User, error)
	Registrar(ctx context.Context, form RegistroForm) (*models.User, error)
	GetPerfil(ctx context.Context, perfilID uint) (*models.User, error)
	AtualizarPerfil(ctx context.Context, perfilID uint, nomeCompleto, telefoneValor string) error
}

// AuthService implementa IAuthService.
type AuthService struct {
	repo repositories.IUserRepository
}

// NewAuthService cria o serviço com o repositório padrão.
func NewAuthService() IAuthService {
	return &AuthService{repo: repositories.NewUserRepository()}
}

// Login confere as credenciais e registra o horário do acesso. Email
// desconhecido e senha errada produzem a mesma resposta.
func (s *AuthService) Login(ctx context.Context, email, senha string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			configslog.Log.Error("Login: busca falhou", zap.Error(err))
		}
		return nil, ErrCredenciaisInvalidas
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.SenhaHash), []byte(senha)); err != nil {
		return nil, ErrCredenciaisInvalidas
	}
	if !user.Ativo {
		return nil, ErrContaDesativada
	}

	agora := time.Now()
	user.LastSignInAt = &agora
	if err := s.repo.Save(contextWithUserID(ctx, user.ID), user); err != nil {
		// O login vale mesmo sem o carimbo de acesso.
		configslog.Log.Warn("Login: não gravou last_sign_in_at", zap.Uint("perfilID", user.ID), zap.Error(err))
	}
	configslog.Log.Info("Login realizado", zap.Uint("perfilID", user.ID))
	return user, nil
}

// Registrar cria um perfil de líder ainda sem célula; o vínculo vem depois,
// pelo resgate de uma chave de ativação.
func (s *AuthService) Registrar(ctx context.Context, form RegistroForm) (*models.User, error) {
	if err := validate.Struct(form); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRegistroFalhou, err)
	}
	if _, err := s.repo.FindByEmail(ctx, form.Email); err == nil {
		return nil, ErrEmailJaCadastrado
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(form.Senha), bcrypt.DefaultCost)
	if err != nil {
		configslog.Log.Error("Registrar: hash falhou", zap.Error(err))
		return nil, ErrRegistroFalhou
	}

	user := &models.User{
		Email:        form.Email,
		SenhaHash:    string(hash),
		NomeCompleto: form.NomeCompleto,
		Telefone:     form.Telefone,
		Role:         models.RoleLider,
		Ativo:        true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		configslog.Log.Error("Registrar: create falhou", zap.Error(err))
		return nil, ErrRegistroFalhou
	}
	configslog.Log.Info("Perfil registrado", zap.Uint("perfilID", user.ID))
	return user, nil
}

// GetPerfil carrega o perfil com a célula vinculada.
func (s *AuthService) GetPerfil(ctx context.Context, perfilID uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, perfilID)
	if err != nil {
		return nil, ErrCredenciaisInvalidas
	}
	return user, nil
}

// AtualizarPerfil edita nome e telefone do próprio perfil.
func (s *AuthService) AtualizarPerfil(ctx context.Context, perfilID uint, nomeCompleto, telefoneValor string) error {
	user, err := s.repo.FindByID(ctx, perfilID)
	if err != nil {
		return ErrCredenciaisInvalidas
	}
	if nomeCompleto != "" {
		user.NomeCompleto = nomeCompleto
	}
	if telefoneValor != "" {
		user.Telefone = telefoneValor
	}
	return s.repo.Save(contextWithUserID(ctx, perfilID), user)
}

var _ IAuthService = (*AuthService)(nil)
