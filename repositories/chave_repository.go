package repositories

import (
	"context"
	"errors"

	"celulas.app/configs"
	"celulas.app/configs/configslog"
	"celulas.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IChaveRepository expõe as operações de banco para chaves de ativação.
type IChaveRepository interface {
	Create(ctx context.Context, chave *models.ChaveAtivacao) error
	FindByChave(ctx context.Context, chave string) (*models.ChaveAtivacao, error)
	FindByChaveForUpdate(ctx context.Context, chave string) (*models.ChaveAtivacao, error)
	Save(ctx context.Context, chave *models.ChaveAtivacao) error
	FindAll(ctx context.Context) ([]models.ChaveAtivacao, error)
}

// ChaveRepository implementa IChaveRepository.
type ChaveRepository struct {
	db *gorm.DB
}

// NewChaveRepository cria o repositório sobre a conexão global.
func NewChaveRepository() IChaveRepository {
	return &ChaveRepository{db: configs.GetDB()}
}

// NewChaveRepositoryTx cria o repositório sobre uma transação.
func NewChaveRepositoryTx(tx *gorm.DB) IChaveRepository {
	return &ChaveRepository{db: tx}
}

func (r *ChaveRepository) getDB(ctx context.Context) *gorm.DB {
	return getDBFrom(ctx, r.db)
}

func (r *ChaveRepository) Create(ctx context.Context, chave *models.ChaveAtivacao) error {
	if chave == nil || chave.Chave == "" || chave.CelulaID == 0 {
		return errors.New("chave de ativação sem célula não pode ser criada")
	}
	return r.getDB(ctx).Create(chave).Error
}

func (r *ChaveRepository) FindByChave(ctx context.Context, chave string) (*models.ChaveAtivacao, error) {
	if chave == "" {
		return nil, ErrNotFound
	}
	var registro models.ChaveAtivacao
	err := r.getDB(ctx).Where("chave = ?", chave).First(&registro).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("ChaveRepository.FindByChave: erro de banco", zap.Error(err))
		return nil, err
	}
	return &registro, nil
}

// FindByChaveForUpdate trava a linha da chave; o resgate duplo serializa aqui.
func (r *ChaveRepository) FindByChaveForUpdate(ctx context.Context, chave string) (*models.ChaveAtivacao, error) {
	if chave == "" {
		return nil, ErrNotFound
	}
	var registro models.ChaveAtivacao
	err := comLockDeEscrita(r.getDB(ctx)).
		Where("chave = ?", chave).First(&registro).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("ChaveRepository.FindByChaveForUpdate: erro de banco", zap.Error(err))
		return nil, err
	}
	return &registro, nil
}

func (r *ChaveRepository) Save(ctx context.Context, chave *models.ChaveAtivacao) error {
	if chave == nil || chave.ID == 0 {
		return ErrNotFound
	}
	return r.getDB(ctx).Save(chave).Error
}

func (r *ChaveRepository) FindAll(ctx context.Context) ([]models.ChaveAtivacao, error) {
	var chaves []models.ChaveAtivacao
	err := r.getDB(ctx).Preload("Celula").Preload("UsadaPor").
		Order("created_at desc").
		Find(&chaves).Error
	if err != nil {
		configslog.Log.Error("ChaveRepository.FindAll: erro de banco", zap.Error(err))
		return nil, err
	}
	return chaves, nil
}

var _ IChaveRepository = (*ChaveRepository)(nil)
