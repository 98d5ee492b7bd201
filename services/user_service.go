package services

import (
	"context"
	"errors"

	"celulas.app/configs/configslog"
	"celulas.app/models"
	"celulas.app/repositories"

	"go.uber.org/zap"
)

// UserServiceError erros da administração de perfis.
type UserServiceError string

func (e UserServiceError) Error() string { return string(e) }

const (
	ErrUserNaoEncontrado     UserServiceError = "perfil não encontrado"
	ErrUserNaoAutorizado     UserServiceError = "somente administradores gerenciam perfis"
	ErrUserAtualizacaoFalhou UserServiceError = "não foi possível atualizar o perfil"
	ErrUserExclusaoFalhou    UserServiceError = "não foi possível excluir o perfil"
	ErrUserAutoExclusao      UserServiceError = "você não pode excluir o próprio perfil"
)

// IUserService é a administração de perfis feita pelo admin.
type IUserService interface {
	ListUsers(ctx context.Context, ator Ator) ([]models.User, error)
	GetUserByID(ctx context.Context, ator Ator, id uint) (*models.User, error)
	AlterarRole(ctx context.Context, ator Ator, id uint, role models.Role) error
	AlterarAtivo(ctx context.Context, ator Ator, id uint, ativo bool) error
	DesvincularCelula(ctx context.Context, ator Ator, id uint) error
	DeleteUser(ctx context.Context, ator Ator, id uint) error
}

// UserService implementa IUserService.
type UserService struct {
	repo repositories.IUserRepository
}

// NewUserService cria o serviço com o repositório padrão.
func NewUserService() IUserService {
	return &UserService{repo: repositories.NewUserRepository()}
}

func (s *UserService) ListUsers(ctx context.Context, ator Ator) ([]models.User, error) {
	if !ator.Admin() {
		return nil, ErrUserNaoAutorizado
	}
	return s.repo.FindAll(ctx)
}

func (s *UserService) GetUserByID(ctx context.Context, ator Ator, id uint) (*models.User, error) {
	if !ator.Admin() {
		return nil, ErrUserNaoAutorizado
	}
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrUserNaoEncontrado
	}
	return user, nil
}

// AlterarRole promove ou rebaixa um perfil.
func (s *UserService) AlterarRole(ctx context.Context, ator Ator, id uint, role models.Role) error {
	user, err := s.GetUserByID(ctx, ator, id)
	if err != nil {
		return err
	}
	user.Role = role
	if err := s.repo.Save(contextWithUserID(ctx, ator.PerfilID), user); err != nil {
		configslog.Log.Error("AlterarRole: save falhou", zap.Uint("id", id), zap.Error(err))
		return ErrUserAtualizacaoFalhou
	}
	configslog.Log.Info("Role alterada", zap.Uint("perfilID", id), zap.String("role", string(role)))
	return nil
}

// AlterarAtivo liga/desliga o acesso do perfil sem apagar nada.
func (s *UserService) AlterarAtivo(ctx context.Context, ator Ator, id uint, ativo bool) error {
	user, err := s.GetUserByID(ctx, ator, id)
	if err != nil {
		return err
	}
	user.Ativo = ativo
	if err := s.repo.Save(contextWithUserID(ctx, ator.PerfilID), user); err != nil {
		configslog.Log.Error("AlterarAtivo: save falhou", zap.Uint("id", id), zap.Error(err))
		return ErrUserAtualizacaoFalhou
	}
	return nil
}

// DesvincularCelula solta o perfil da célula atual; ele volta a depender de
// uma chave de ativação.
func (s *UserService) DesvincularCelula(ctx context.Context, ator Ator, id uint) error {
	user, err := s.GetUserByID(ctx, ator, id)
	if err != nil {
		return err
	}
	user.CelulaID = nil
	user.Celula = nil
	if err := s.repo.Save(contextWithUserID(ctx, ator.PerfilID), user); err != nil {
		configslog.Log.Error("DesvincularCelula: save falhou", zap.Uint("id", id), zap.Error(err))
		return ErrUserAtualizacaoFalhou
	}
	return nil
}

func (s *UserService) DeleteUser(ctx context.Context, ator Ator, id uint) error {
	if !ator.Admin() {
		return ErrUserNaoAutorizado
	}
	if id == ator.PerfilID {
		return ErrUserAutoExclusao
	}
	if err := s.repo.Delete(contextWithUserID(ctx, ator.PerfilID), id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrUserNaoEncontrado
		}
		configslog.Log.Error("DeleteUser: delete falhou", zap.Uint("id", id), zap.Error(err))
		return ErrUserExclusaoFalhou
	}
	configslog.Log.Info("Perfil excluído", zap.Uint("perfilID", id), zap.Uint("por", ator.PerfilID))
	return nil
}

var _ IUserService = (*UserService)(nil)
