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

// InscricaoFiltros estreita a listagem administrativa por evento.
type InscricaoFiltros struct {
	StatusPagamento  models.StatusPagamento
	CelulaID         uint
	Nome             string
	TipoParticipacao models.TipoParticipacao
}

// IInscricaoRepository expõe as operações de banco para inscrições.
type IInscricaoRepository interface {
	Create(ctx context.Context, inscricao *models.Inscricao) error
	FindByID(ctx context.Context, id uint) (*models.Inscricao, error)
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Inscricao, error)
	FindByEventoPaginated(ctx context.Context, eventoID uint, filtros InscricaoFiltros, params queryparams.ListParams) ([]models.Inscricao, int64, error)
	FindByEventoELider(ctx context.Context, eventoID, perfilID uint) ([]models.Inscricao, error)
	FindAguardandoConfirmacao(ctx context.Context) ([]models.Inscricao, error)
	Update(ctx context.Context, inscricao *models.Inscricao) error
	UpdateCampos(ctx context.Context, id uint, campos map[string]any) error
	Delete(ctx context.Context, id uint) error
}

// InscricaoRepository implementa IInscricaoRepository.
type InscricaoRepository struct {
	db   *gorm.DB
	base *BaseRepository[models.Inscricao]
}

// NewInscricaoRepository cria o repositório sobre a conexão global.
func NewInscricaoRepository() IInscricaoRepository {
	return NewInscricaoRepositoryTx(configs.GetDB())
}

// NewInscricaoRepositoryTx cria o repositório sobre uma transação.
func NewInscricaoRepositoryTx(tx *gorm.DB) IInscricaoRepository {
	base := NewBaseRepository[models.Inscricao](tx)
	base.SetAllowedSortColumns([]string{"id", "created_at", "nome_completo_participante", "status_pagamento"})
	return &InscricaoRepository{db: tx, base: base}
}

func (r *InscricaoRepository) getDB(ctx context.Context) *gorm.DB {
	return getDBFrom(ctx, r.db)
}

func (r *InscricaoRepository) Create(ctx context.Context, inscricao *models.Inscricao) error {
	if inscricao == nil || inscricao.EventoID == 0 {
		return errors.New("inscrição sem evento não pode ser criada")
	}
	return r.getDB(ctx).Create(inscricao).Error
}

func (r *InscricaoRepository) FindByID(ctx context.Context, id uint) (*models.Inscricao, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var inscricao models.Inscricao
	err := r.getDB(ctx).Preload("Evento").Preload("CelulaInscricao").First(&inscricao, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("InscricaoRepository.FindByID: erro de banco", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &inscricao, nil
}

// FindByIDForUpdate carrega a linha com lock de escrita. Transições de status
// concorrentes sobre a mesma inscrição serializam aqui.
func (r *InscricaoRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Inscricao, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var inscricao models.Inscricao
	err := comLockDeEscrita(r.getDB(ctx)).First(&inscricao, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("InscricaoRepository.FindByIDForUpdate: erro de banco", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &inscricao, nil
}

func (r *InscricaoRepository) FindByEventoPaginated(ctx context.Context, eventoID uint, filtros InscricaoFiltros, params queryparams.ListParams) ([]models.Inscricao, int64, error) {
	var inscricoes []models.Inscricao
	var total int64

	query := r.getDB(ctx).Model(&models.Inscricao{}).Where("evento_id = ?", eventoID)
	if filtros.StatusPagamento != "" {
		query = query.Where("status_pagamento = ?", filtros.StatusPagamento)
	}
	if filtros.CelulaID != 0 {
		query = query.Where("celula_inscricao_id = ?", filtros.CelulaID)
	}
	if filtros.Nome != "" {
		query = query.Where("LOWER(nome_completo_participante) LIKE LOWER(?)", "%"+filtros.Nome+"%")
	}
	if filtros.TipoParticipacao != "" {
		query = query.Where("tipo_participacao = ?", filtros.TipoParticipacao)
	}

	if err := query.Count(&total).Error; err != nil {
		configslog.Log.Error("InscricaoRepository.FindByEventoPaginated: count falhou", zap.Uint("eventoID", eventoID), zap.Error(err))
		return nil, 0, err
	}

	orderColumn := "created_at"
	if r.base.AllowedSortColumn(params.SortBy) {
		orderColumn = params.SortBy
	}
	err := query.Preload("CelulaInscricao").
		Order(orderColumn + " " + params.OrderBy).
		Limit(params.PerPage).Offset(params.CalculateOffset()).
		Find(&inscricoes).Error
	if err != nil {
		configslog.Log.Error("InscricaoRepository.FindByEventoPaginated: find falhou", zap.Uint("eventoID", eventoID), zap.Error(err))
		return nil, total, err
	}
	return inscricoes, total, nil
}

// FindByEventoELider lista as inscrições de um líder em um evento.
func (r *InscricaoRepository) FindByEventoELider(ctx context.Context, eventoID, perfilID uint) ([]models.Inscricao, error) {
	var inscricoes []models.Inscricao
	err := r.getDB(ctx).
		Where("evento_id = ? AND inscrito_por_perfil_id = ?", eventoID, perfilID).
		Order("created_at asc").
		Find(&inscricoes).Error
	if err != nil {
		configslog.Log.Error("InscricaoRepository.FindByEventoELider: erro de banco",
			zap.Uint("eventoID", eventoID), zap.Uint("perfilID", perfilID), zap.Error(err))
		return nil, err
	}
	return inscricoes, nil
}

// FindAguardandoConfirmacao alimenta a fila financeira do admin.
func (r *InscricaoRepository) FindAguardandoConfirmacao(ctx context.Context) ([]models.Inscricao, error) {
	var inscricoes []models.Inscricao
	err := r.getDB(ctx).
		Where("status_pagamento IN ?", []models.StatusPagamento{
			models.StatusAguardandoConfEntrada,
			models.StatusAguardandoConfRestante,
		}).
		Preload("Evento").Preload("CelulaInscricao").
		Order("created_at asc").
		Find(&inscricoes).Error
	if err != nil {
		configslog.Log.Error("InscricaoRepository.FindAguardandoConfirmacao: erro de banco", zap.Error(err))
		return nil, err
	}
	return inscricoes, nil
}

func (r *InscricaoRepository) Update(ctx context.Context, inscricao *models.Inscricao) error {
	if inscricao == nil || inscricao.ID == 0 {
		return ErrNotFound
	}
	return r.getDB(ctx).Save(inscricao).Error
}

// UpdateCampos aplica um patch parcial; os serviços restringem as chaves.
func (r *InscricaoRepository) UpdateCampos(ctx context.Context, id uint, campos map[string]any) error {
	result := r.getDB(ctx).Model(&models.Inscricao{}).Where("id = ?", id).Updates(campos)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *InscricaoRepository) Delete(ctx context.Context, id uint) error {
	result := r.getDB(ctx).Delete(&models.Inscricao{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

var _ IInscricaoRepository = (*InscricaoRepository)(nil)
