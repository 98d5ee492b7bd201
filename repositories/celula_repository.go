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

// ICelulaRepository expõe as operações de banco para células.
type ICelulaRepository interface {
	Create(ctx context.Context, celula *models.Celula) error
	FindByID(ctx context.Context, id uint) (*models.Celula, error)
	FindAll(ctx context.Context) ([]models.Celula, error)
	Save(ctx context.Context, celula *models.Celula) error
	Delete(ctx context.Context, id uint) error
}

// CelulaRepository implementa ICelulaRepository.
type CelulaRepository struct {
	db *gorm.DB
}

// NewCelulaRepository cria o repositório sobre a conexão global.
func NewCelulaRepository() ICelulaRepository {
	return &CelulaRepository{db: configs.GetDB()}
}

// NewCelulaRepositoryTx cria o repositório sobre uma transação.
func NewCelulaRepositoryTx(tx *gorm.DB) ICelulaRepository {
	return &CelulaRepository{db: tx}
}

func (r *CelulaRepository) getDB(ctx context.Context) *gorm.DB {
	return getDBFrom(ctx, r.db)
}

func (r *CelulaRepository) Create(ctx context.Context, celula *models.Celula) error {
	if celula == nil || celula.Nome == "" {
		return errors.New("célula sem nome não pode ser criada")
	}
	return r.getDB(ctx).Create(celula).Error
}

func (r *CelulaRepository) FindByID(ctx context.Context, id uint) (*models.Celula, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var celula models.Celula
	err := r.getDB(ctx).First(&celula, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("CelulaRepository.FindByID: erro de banco", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &celula, nil
}

func (r *CelulaRepository) FindAll(ctx context.Context) ([]models.Celula, error) {
	var celulas []models.Celula
	err := r.getDB(ctx).Order("nome asc").Find(&celulas).Error
	if err != nil {
		configslog.Log.Error("CelulaRepository.FindAll: erro de banco", zap.Error(err))
		return nil, err
	}
	return celulas, nil
}

func (r *CelulaRepository) Save(ctx context.Context, celula *models.Celula) error {
	if celula == nil || celula.ID == 0 {
		return ErrNotFound
	}
	return r.getDB(ctx).Save(celula).Error
}

func (r *CelulaRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&models.Celula{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ ICelulaRepository = (*CelulaRepository)(nil)
