package services

import (
	"context"
	"errors"
	"time"

	"celulas.app/configs"
	"celulas.app/configs/configslog"
	"celulas.app/models"
	"celulas.app/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ChaveServiceError erros de negócio de chaves de ativação.
type ChaveServiceError string

func (e ChaveServiceError) Error() string { return string(e) }

const (
	ErrChaveNaoEncontrada ChaveServiceError = "chave de ativação não encontrada"
	ErrChaveJaUsada       ChaveServiceError = "esta chave de ativação já foi utilizada"
	ErrChaveNaoAutorizada ChaveServiceError = "somente administradores gerenciam chaves"
	ErrChaveGeracaoFalhou ChaveServiceError = "não foi possível gerar a chave de ativação"
	ErrPerfilJaVinculado  ChaveServiceError = "este perfil já está vinculado a uma célula"
	ErrChaveResgateFalhou ChaveServiceError = "não foi possível ativar o perfil com esta chave"
)

// IChaveService emite e resgata chaves que vinculam perfis a células.
type IChaveService interface {
	GerarChave(ctx context.Context, ator Ator, celulaID uint) (*models.ChaveAtivacao, error)
	ListChaves(ctx context.Context, ator Ator) ([]models.ChaveAtivacao, error)
	ResgatarChave(ctx context.Context, perfilID uint, chave string) (*models.User, error)
}

// ChaveService implementa IChaveService.
type ChaveService struct {
	repo       repositories.IChaveRepository
	celulaRepo repositories.ICelulaRepository
	db         *gorm.DB
}

// NewChaveService cria o serviço com os repositórios padrão.
func NewChaveService() IChaveService {
	return &ChaveService{
		repo:       repositories.NewChaveRepository(),
		celulaRepo: repositories.NewCelulaRepository(),
		db:         configs.GetDB(),
	}
}

// GerarChave emite uma chave nova para a célula dada.
func (s *ChaveService) GerarChave(ctx context.Context, ator Ator, celulaID uint) (*models.ChaveAtivacao, error) {
	if !ator.Admin() {
		return nil, ErrChaveNaoAutorizada
	}
	if _, err := s.celulaRepo.FindByID(ctx, celulaID); err != nil {
		return nil, ErrCelulaNaoEncontrada
	}

	chave := &models.ChaveAtivacao{
		Chave:    uuid.NewString(),
		CelulaID: celulaID,
	}
	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.Create(ctx, chave); err != nil {
		configslog.Log.Error("GerarChave: create falhou", zap.Uint("celulaID", celulaID), zap.Error(err))
		return nil, ErrChaveGeracaoFalhou
	}
	configslog.Log.Info("Chave de ativação gerada", zap.Uint("chaveID", chave.ID), zap.Uint("celulaID", celulaID))
	return chave, nil
}

func (s *ChaveService) ListChaves(ctx context.Context, ator Ator) ([]models.ChaveAtivacao, error) {
	if !ator.Admin() {
		return nil, ErrChaveNaoAutorizada
	}
	return s.repo.FindAll(ctx)
}

// ResgatarChave vincula o perfil à célula da chave. Resgate é de uso único: a
// linha é travada e a segunda tentativa recebe ErrChaveJaUsada sem alterar
// perfil algum.
func (s *ChaveService) ResgatarChave(ctx context.Context, perfilID uint, chave string) (*models.User, error) {
	var user *models.User
	ctx = contextWithUserID(ctx, perfilID)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		chaveRepo := repositories.NewChaveRepositoryTx(tx)
		userRepo := repositories.NewUserRepositoryTx(tx)

		registro, err := chaveRepo.FindByChaveForUpdate(ctx, chave)
		if err != nil {
			return ErrChaveNaoEncontrada
		}
		if registro.Usada {
			return ErrChaveJaUsada
		}

		user, err = userRepo.FindByID(ctx, perfilID)
		if err != nil {
			return ErrChaveResgateFalhou
		}
		if user.CelulaID != nil {
			return ErrPerfilJaVinculado
		}

		agora := time.Now()
		user.CelulaID = &registro.CelulaID
		if err := userRepo.Save(ctx, user); err != nil {
			return ErrChaveResgateFalhou
		}

		registro.Usada = true
		registro.DataUso = &agora
		registro.UsadaPorID = &perfilID
		return chaveRepo.Save(ctx, registro)
	})
	if err != nil {
		var svcErr ChaveServiceError
		if errors.As(err, &svcErr) {
			return nil, svcErr
		}
		configslog.Log.Error("ResgatarChave: transação falhou", zap.Uint("perfilID", perfilID), zap.Error(err))
		return nil, ErrChaveResgateFalhou
	}
	configslog.Log.Info("Chave resgatada", zap.Uint("perfilID", perfilID), zap.Uintp("celulaID", user.CelulaID))
	return user, nil
}

var _ IChaveService = (*ChaveService)(nil)
