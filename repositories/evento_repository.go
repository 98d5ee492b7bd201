package repositories

import (
	"context"
	"errors"
	"time"

	"celulas.app/configs"
	"celulas.app/configs/configslog"
	"celulas.app/models"
	"celulas.app/pkg/queryparams"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// IEventoRepository expõe as operações de banco para eventos Face a Face.
type IEventoRepository interface {
	Create(ctx context.Context, evento *models.EventoFaceAFace) error
	FindByID(ctx context.Context, id uint) (*models.EventoFaceAFace, error)
	FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.EventoFaceAFace, int64, error)
	FindAtivos(ctx context.Context, hoje time.Time) ([]models.EventoFaceAFace, error)
	Update(ctx context.Context, evento *models.EventoFaceAFace) error
	UpdateAtivacao(ctx context.Context, id uint, ativa bool) error
	Delete(ctx context.Context, id uint) error
	DeleteInscricoesDoEvento(ctx context.Context, eventoID uint) error
	DeleteConvitesDoEvento(ctx context.Context, eventoID uint) error
}

// EventoRepository implementa IEventoRepository.
type EventoRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.EventoFaceAFace]
}

// NewEventoRepository cria o repositório sobre a conexão global.
func NewEventoRepository() IEventoRepository {
	return NewEventoRepositoryTx(configs.GetDB())
}

// NewEventoRepositoryTx cria o repositório sobre uma transação.
func NewEventoRepositoryTx(tx *gorm.DB) IEventoRepository {
	base := NewBaseRepository[models.EventoFaceAFace](tx)
	base.SetAllowedSortColumns([]string{"id", "created_at", "nome", "tipo", "data_inicio", "data_limite_entrada", "ativa_para_inscricao"})
	return &EventoRepository{db: tx, base: base}
}

func (r *EventoRepository) getDB(ctx context.Context) *gorm.DB {
	return getDBFrom(ctx, r.db)
}

func (r *EventoRepository) Create(ctx context.Context, evento *models.EventoFaceAFace) error {
	return r.getDB(ctx).Create(evento).Error
}

func (r *EventoRepository) FindByID(ctx context.Context, id uint) (*models.EventoFaceAFace, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var evento models.EventoFaceAFace
	err := r.getDB(ctx).First(&evento, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("EventoRepository.FindByID: erro de banco", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &evento, nil
}

func (r *EventoRepository) FindAllPaginated(ctx context.Context, params queryparams.ListParams) ([]models.EventoFaceAFace, int64, error) {
	var eventos []models.EventoFaceAFace
	var total int64
	query := r.getDB(ctx).Model(&models.EventoFaceAFace{})

	if params.Nome != "" {
		query = query.Where("LOWER(nome) LIKE LOWER(?)", "%"+params.Nome+"%")
	}
	if params.Status == "ativo" {
		query = query.Where("ativa_para_inscricao = ?", true)
	} else if params.Status == "inativo" {
		query = query.Where("ativa_para_inscricao = ?", false)
	}

	if err := query.Count(&total).Error; err != nil {
		configslog.Log.Error("EventoRepository.FindAllPaginated: count falhou", zap.Error(err))
		return nil, 0, err
	}

	orderColumn := "data_inicio"
	if r.base.AllowedSortColumn(params.SortBy) {
		orderColumn = params.SortBy
	}
	err := query.Order(orderColumn + " " + params.OrderBy).
		Limit(params.PerPage).Offset(params.CalculateOffset()).
		Find(&eventos).Error
	if err != nil {
		configslog.Log.Error("EventoRepository.FindAllPaginated: find falhou", zap.Error(err))
		return nil, total, err
	}
	return eventos, total, nil
}

// FindAtivos lista eventos aceitando inscrições: flag ligada e data limite da
// entrada ainda não passou.
func (r *EventoRepository) FindAtivos(ctx context.Context, hoje time.Time) ([]models.EventoFaceAFace, error) {
	var eventos []models.EventoFaceAFace
	err := r.getDB(ctx).
		Where("ativa_para_inscricao = ? AND data_limite_entrada >= ?", true, hoje.Format("2006-01-02")).
		Order("data_inicio asc").
		Find(&eventos).Error
	if err != nil {
		configslog.Log.Error("EventoRepository.FindAtivos: erro de banco", zap.Error(err))
		return nil, err
	}
	return eventos, nil
}

func (r *EventoRepository) Update(ctx context.Context, evento *models.EventoFaceAFace) error {
	if evento == nil || evento.ID == 0 {
		return ErrNotFound
	}
	return r.getDB(ctx).Save(evento).Error
}

func (r *EventoRepository) UpdateAtivacao(ctx context.Context, id uint, ativa bool) error {
	result := r.getDB(ctx).Model(&models.EventoFaceAFace{}).Where("id = ?", id).
		Update("ativa_para_inscricao", ativa)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *EventoRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&models.EventoFaceAFace{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteInscricoesDoEvento remove todas as inscrições do evento. Cascata
// explícita em nível de aplicação: não depende do banco ter ON DELETE CASCADE.
func (r *EventoRepository) DeleteInscricoesDoEvento(ctx context.Context, eventoID uint) error {
	return r.getDB(ctx).Where("evento_id = ?", eventoID).Delete(&models.Inscricao{}).Error
}

// DeleteConvitesDoEvento remove os convites pendentes do evento.
func (r *EventoRepository) DeleteConvitesDoEvento(ctx context.Context, eventoID uint) error {
	return r.getDB(ctx).Where("evento_id = ?", eventoID).Delete(&models.ConviteInscricao{}).Error
}

var _ IEventoRepository = (*EventoRepository)(nil)
