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

// IConviteRepository expõe as operações de banco para convites de inscrição.
type IConviteRepository interface {
	Create(ctx context.Context, convite *models.ConviteInscricao) error
	FindByToken(ctx context.Context, token string) (*models.ConviteInscricao, error)
	FindByTokenForUpdate(ctx context.Context, token string) (*models.ConviteInscricao, error)
	MarcarUsado(ctx context.Context, id uint, inscricaoID uint) error
	FindByLider(ctx context.Context, perfilID uint) ([]models.ConviteInscricao, error)
}

// ConviteRepository implementa IConviteRepository.
type ConviteRepository struct {
	db *gorm.DB
}

// NewConviteRepository cria o repositório sobre a conexão global.
func NewConviteRepository() IConviteRepository {
	return &ConviteRepository{db: configs.GetDB()}
}

// NewConviteRepositoryTx cria o repositório sobre uma transação.
func NewConviteRepositoryTx(tx *gorm.DB) IConviteRepository {
	return &ConviteRepository{db: tx}
}

func (r *ConviteRepository) getDB(ctx context.Context) *gorm.DB {
	return getDBFrom(ctx, r.db)
}

func (r *ConviteRepository) Create(ctx context.Context, convite *models.ConviteInscricao) error {
	if convite == nil || convite.Token == "" {
		return errors.New("convite sem token não pode ser criado")
	}
	return r.getDB(ctx).Create(convite).Error
}

func (r *ConviteRepository) FindByToken(ctx context.Context, token string) (*models.ConviteInscricao, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	var convite models.ConviteInscricao
	err := r.getDB(ctx).Where("token = ?", token).First(&convite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("ConviteRepository.FindByToken: erro de banco", zap.Error(err))
		return nil, err
	}
	return &convite, nil
}

// FindByTokenForUpdate trava a linha do convite para a queima pós-inscrição.
func (r *ConviteRepository) FindByTokenForUpdate(ctx context.Context, token string) (*models.ConviteInscricao, error) {
	if token == "" {
		return nil, ErrNotFound
	}
	var convite models.ConviteInscricao
	err := comLockDeEscrita(r.getDB(ctx)).
		Where("token = ?", token).First(&convite).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("ConviteRepository.FindByTokenForUpdate: erro de banco", zap.Error(err))
		return nil, err
	}
	return &convite, nil
}

// MarcarUsado queima o convite apontando para a inscrição criada.
func (r *ConviteRepository) MarcarUsado(ctx context.Context, id uint, inscricaoID uint) error {
	result := r.getDB(ctx).Model(&models.ConviteInscricao{}).
		Where("id = ? AND usado = ?", id, false).
		Updates(map[string]any{"usado": true, "usado_por_inscricao_id": inscricaoID})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ConviteRepository) FindByLider(ctx context.Context, perfilID uint) ([]models.ConviteInscricao, error) {
	var convites []models.ConviteInscricao
	err := r.getDB(ctx).Where("gerado_por_perfil_id = ?", perfilID).
		Preload("Evento").
		Order("created_at desc").
		Find(&convites).Error
	if err != nil {
		configslog.Log.Error("ConviteRepository.FindByLider: erro de banco", zap.Uint("perfilID", perfilID), zap.Error(err))
		return nil, err
	}
	return convites, nil
}

var _ IConviteRepository = (*ConviteRepository)(nil)
