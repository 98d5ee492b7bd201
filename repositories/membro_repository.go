package repositories

import (
	"context"
	"errors"

	"celulas.app/configs"
	"celulas.app/configs/configslog"
	"celulas.app/models"
	"celulas.app/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IMembroRepository expõe as operações de banco para membros.
type IMembroRepository interface {
	Create(ctx context.Context, membro *models.Membro) error
	FindByID(ctx context.Context, id uint) (*models.Membro, error)
	FindPaginated(ctx context.Context, celulaID uint, params queryparams.ListParams) ([]models.Membro, int64, error)
	FindByCelula(ctx context.Context, celulaID uint) ([]models.Membro, error)
	FindAll(ctx context.Context) ([]models.Membro, error)
	Save(ctx context.Context, membro *models.Membro) error
	Delete(ctx context.Context, id uint) error
}

// MembroRepository implementa IMembroRepository.
type MembroRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.Membro]
}

// NewMembroRepository cria o repositório sobre a conexão global.
func NewMembroRepository() IMembroRepository {
	return NewMembroRepositoryTx(configs.GetDB())
}

// NewMembroRepositoryTx cria o repositório sobre uma transação.
func NewMembroRepositoryTx(tx *gorm.DB) IMembroRepository {
	base := NewBaseRepository[models.Membro](tx)
	base.SetAllowedSortColumns([]string{"id", "created_at", "nome", "data_ingresso", "status"})
	return &MembroRepository{db: tx, base: base}
}

func (r *MembroRepository) getDB(ctx context.Context) *gorm.DB {
	return getDBFrom(ctx, r.db)
}

func (r *MembroRepository) Create(ctx context.Context, membro *models.Membro) error {
	if membro == nil || membro.CelulaID == 0 {
		return errors.New("membro sem célula não pode ser criado")
	}
	return r.getDB(ctx).Create(membro).Error
}

func (r *MembroRepository) FindByID(ctx context.Context, id uint) (*models.Membro, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var membro models.Membro
	err := r.getDB(ctx).Preload("Celula").First(&membro, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("MembroRepository.FindByID: erro de banco", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &membro, nil
}

// FindPaginated lista membros; celulaID zero significa escopo global (admin).
func (r *MembroRepository) FindPaginated(ctx context.Context, celulaID uint, params queryparams.ListParams) ([]models.Membro, int64, error) {
	var membros []models.Membro
	var total int64

	query := r.getDB(ctx).Model(&models.Membro{})
	if celulaID != 0 {
		query = query.Where("celula_id = ?", celulaID)
	}
	if params.Nome != "" {
		query = query.Where("LOWER(nome) LIKE LOWER(?)", "%"+params.Nome+"%")
	}
	if params.Status != "" {
		query = query.Where("status = ?", params.Status)
	}

	if err := query.Count(&total).Error; err != nil {
		configslog.Log.Error("MembroRepository.FindPaginated: count falhou", zap.Error(err))
		return nil, 0, err
	}

	orderColumn := "nome"
	if r.base.AllowedSortColumn(params.SortBy) {
		orderColumn = params.SortBy
	}
	err := query.Preload("Celula").
		Order(orderColumn + " " + params.OrderBy).
		Limit(params.PerPage).Offset(params.CalculateOffset()).
		Find(&membros).Error
	if err != nil {
		configslog.Log.Error("MembroRepository.FindPaginated: find falhou", zap.Error(err))
		return nil, total, err
	}
	return membros, total, nil
}

func (r *MembroRepository) FindByCelula(ctx context.Context, celulaID uint) ([]models.Membro, error) {
	var membros []models.Membro
	err := r.getDB(ctx).Where("celula_id = ?", celulaID).Order("nome asc").Find(&membros).Error
	if err != nil {
		configslog.Log.Error("MembroRepository.FindByCelula: erro de banco", zap.Uint("celulaID", celulaID), zap.Error(err))
		return nil, err
	}
	return membros, nil
}

func (r *MembroRepository) FindAll(ctx context.Context) ([]models.Membro, error) {
	var membros []models.Membro
	err := r.getDB(ctx).Preload("Celula").Order("nome asc").Find(&membros).Error
	if err != nil {
		configslog.Log.Error("MembroRepository.FindAll: erro de banco", zap.Error(err))
		return nil, err
	}
	return membros, nil
}

func (r *MembroRepository) Save(ctx context.Context, membro *models.Membro) error {
	if membro == nil || membro.ID == 0 {
		return ErrNotFound
	}
	return r.getDB(ctx).Save(membro).Error
}

func (r *MembroRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&models.Membro{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ IMembroRepository = (*MembroRepository)(nil)
