package repositories

import (
	"context"
	"errors"
	"time"

	"celulas.app/configs"
	"celulas.app/configs/configslog"
	"celulas.app/models"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IVisitanteRepository expõe as operações de banco para visitantes.
type IVisitanteRepository interface {
	Create(ctx context.Context, visitante *models.Visitante) error
	FindByID(ctx context.Context, id uint) (*models.Visitante, error)
	FindByCelula(ctx context.Context, celulaID uint) ([]models.Visitante, error)
	FindAll(ctx context.Context) ([]models.Visitante, error)
	FindPorPrimeiraVisita(ctx context.Context, celulaID uint, de, ate time.Time) ([]models.Visitante, error)
	Save(ctx context.Context, visitante *models.Visitante) error
	Delete(ctx context.Context, id uint) error
}

// VisitanteRepository implementa IVisitanteRepository.
type VisitanteRepository struct {
	db *gorm.DB
}

// NewVisitanteRepository cria o repositório sobre a conexão global.
func NewVisitanteRepository() IVisitanteRepository {
	return &VisitanteRepository{db: configs.GetDB()}
}

// NewVisitanteRepositoryTx cria o repositório sobre uma transação.
func NewVisitanteRepositoryTx(tx *gorm.DB) IVisitanteRepository {
	return &VisitanteRepository{db: tx}
}

func (r *VisitanteRepository) getDB(ctx context.Context) *gorm.DB {
	return getDBFrom(ctx, r.db)
}

func (r *VisitanteRepository) Create(ctx context.Context, visitante *models.Visitante) error {
	if visitante == nil || visitante.CelulaID == 0 {
		return errors.New("visitante sem célula não pode ser criado")
	}
	return r.getDB(ctx).Create(visitante).Error
}

func (r *VisitanteRepository) FindByID(ctx context.Context, id uint) (*models.Visitante, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var visitante models.Visitante
	err := r.getDB(ctx).Preload("Celula").First(&visitante, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("VisitanteRepository.FindByID: erro de banco", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &visitante, nil
}

func (r *VisitanteRepository) FindByCelula(ctx context.Context, celulaID uint) ([]models.Visitante, error) {
	var visitantes []models.Visitante
	err := r.getDB(ctx).Where("celula_id = ?", celulaID).Order("nome asc").Find(&visitantes).Error
	if err != nil {
		configslog.Log.Error("VisitanteRepository.FindByCelula: erro de banco", zap.Uint("celulaID", celulaID), zap.Error(err))
		return nil, err
	}
	return visitantes, nil
}

func (r *VisitanteRepository) FindAll(ctx context.Context) ([]models.Visitante, error) {
	var visitantes []models.Visitante
	err := r.getDB(ctx).Preload("Celula").Order("nome asc").Find(&visitantes).Error
	if err != nil {
		configslog.Log.Error("VisitanteRepository.FindAll: erro de banco", zap.Error(err))
		return nil, err
	}
	return visitantes, nil
}

// FindPorPrimeiraVisita lista visitantes cuja primeira visita caiu no período
// [de, ate], inclusive nas pontas. celulaID zero significa todas as células.
func (r *VisitanteRepository) FindPorPrimeiraVisita(ctx context.Context, celulaID uint, de, ate time.Time) ([]models.Visitante, error) {
	var visitantes []models.Visitante
	query := r.getDB(ctx).Preload("Celula").
		Where("data_primeira_visita >= ? AND data_primeira_visita < ?",
			de.Format("2006-01-02"), ate.AddDate(0, 0, 1).Format("2006-01-02"))
	if celulaID != 0 {
		query = query.Where("celula_id = ?", celulaID)
	}
	err := query.Order("data_primeira_visita asc").Find(&visitantes).Error
	if err != nil {
		configslog.Log.Error("VisitanteRepository.FindPorPrimeiraVisita: erro de banco", zap.Error(err))
		return nil, err
	}
	return visitantes, nil
}

func (r *VisitanteRepository) Save(ctx context.Context, visitante *models.Visitante) error {
	if visitante == nil || visitante.ID == 0 {
		return ErrNotFound
	}
	return r.getDB(ctx).Save(visitante).Error
}

func (r *VisitanteRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&models.Visitante{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ IVisitanteRepository = (*VisitanteRepository)(nil)
