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

// IReuniaoRepository expõe as operações de banco para reuniões e presenças.
type IReuniaoRepository interface {
	Create(ctx context.Context, reuniao *models.Reuniao) error
	FindByID(ctx context.Context, id uint) (*models.Reuniao, error)
	FindByIDComPresencas(ctx context.Context, id uint) (*models.Reuniao, error)
	FindByCelula(ctx context.Context, celulaID uint) ([]models.Reuniao, error)
	FindByCelulaNoPeriodo(ctx context.Context, celulaID uint, de, ate time.Time) ([]models.Reuniao, error)
	ExisteDuplicada(ctx context.Context, celulaID uint, data time.Time, tema string, ignorarID uint) (bool, error)
	Save(ctx context.Context, reuniao *models.Reuniao) error
	Delete(ctx context.Context, id uint) error
	UpsertPresencaMembro(ctx context.Context, reuniaoID, membroID uint, presente bool) error
	UpsertPresencaVisitante(ctx context.Context, reuniaoID, visitanteID uint, presente bool) error
	PresencasMembros(ctx context.Context, reuniaoID uint) ([]models.PresencaMembro, error)
	PresencasVisitantes(ctx context.Context, reuniaoID uint) ([]models.PresencaVisitante, error)
}

// ReuniaoRepository implementa IReuniaoRepository.
type ReuniaoRepository struct {
	db *gorm.DB
}

// NewReuniaoRepository cria o repositório sobre a conexão global.
func NewReuniaoRepository() IReuniaoRepository {
	return &ReuniaoRepository{db: configs.GetDB()}
}

// NewReuniaoRepositoryTx cria o repositório sobre uma transação.
func NewReuniaoRepositoryTx(tx *gorm.DB) IReuniaoRepository {
	return &ReuniaoRepository{db: tx}
}

func (r *ReuniaoRepository) getDB(ctx context.Context) *gorm.DB {
	return getDBFrom(ctx, r.db)
}

func (r *ReuniaoRepository) Create(ctx context.Context, reuniao *models.Reuniao) error {
	if reuniao == nil || reuniao.CelulaID == 0 {
		return errors.New("reunião sem célula não pode ser criada")
	}
	return r.getDB(ctx).Create(reuniao).Error
}

func (r *ReuniaoRepository) FindByID(ctx context.Context, id uint) (*models.Reuniao, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var reuniao models.Reuniao
	err := r.getDB(ctx).
		Preload("Celula").
		Preload("MinistradorPrincipal").
		Preload("MinistradorSecundario").
		Preload("ResponsavelKids").
		First(&reuniao, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("ReuniaoRepository.FindByID: erro de banco", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &reuniao, nil
}

func (r *ReuniaoRepository) FindByIDComPresencas(ctx context.Context, id uint) (*models.Reuniao, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	var reuniao models.Reuniao
	err := r.getDB(ctx).
		Preload("Celula").
		Preload("MinistradorPrincipal").
		Preload("MinistradorSecundario").
		Preload("ResponsavelKids").
		Preload("PresencasMembros.Membro").
		Preload("PresencasVisitantes.Visitante").
		First(&reuniao, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		configslog.Log.Error("ReuniaoRepository.FindByIDComPresencas: erro de banco", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return &reuniao, nil
}

func (r *ReuniaoRepository) FindByCelula(ctx context.Context, celulaID uint) ([]models.Reuniao, error) {
	var reunioes []models.Reuniao
	query := r.getDB(ctx).Preload("Celula").Preload("MinistradorPrincipal")
	if celulaID != 0 {
		query = query.Where("celula_id = ?", celulaID)
	}
	err := query.Order("data_reuniao desc").Find(&reunioes).Error
	if err != nil {
		configslog.Log.Error("ReuniaoRepository.FindByCelula: erro de banco", zap.Uint("celulaID", celulaID), zap.Error(err))
		return nil, err
	}
	return reunioes, nil
}

// FindByCelulaNoPeriodo lista as reuniões da célula no período [de, ate] com
// a chamada de presença dos membros carregada.
func (r *ReuniaoRepository) FindByCelulaNoPeriodo(ctx context.Context, celulaID uint, de, ate time.Time) ([]models.Reuniao, error) {
	var reunioes []models.Reuniao
	err := r.getDB(ctx).
		Preload("PresencasMembros").
		Where("celula_id = ? AND data_reuniao >= ? AND data_reuniao < ?",
			celulaID, de.Format("2006-01-02"), ate.AddDate(0, 0, 1).Format("2006-01-02")).
		Order("data_reuniao asc").
		Find(&reunioes).Error
	if err != nil {
		configslog.Log.Error("ReuniaoRepository.FindByCelulaNoPeriodo: erro de banco", zap.Uint("celulaID", celulaID), zap.Error(err))
		return nil, err
	}
	return reunioes, nil
}

// ExisteDuplicada detecta outra reunião da célula com mesma data e tema.
func (r *ReuniaoRepository) ExisteDuplicada(ctx context.Context, celulaID uint, data time.Time, tema string, ignorarID uint) (bool, error) {
	var count int64
	query := r.getDB(ctx).Model(&models.Reuniao{}).
		Where("celula_id = ? AND data_reuniao = ? AND tema = ?", celulaID, data.Format("2006-01-02"), tema)
	if ignorarID != 0 {
		query = query.Where("id <> ?", ignorarID)
	}
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ReuniaoRepository) Save(ctx context.Context, reuniao *models.Reuniao) error {
	if reuniao == nil || reuniao.ID == 0 {
		return ErrNotFound
	}
	return r.getDB(ctx).Save(reuniao).Error
}

func (r *ReuniaoRepository) Delete(ctx context.Context, id uint) error {
	db := r.getDB(ctx)
	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("reuniao_id = ?", id).Delete(&models.PresencaMembro{}).Error; err != nil {
			return err
		}
		if err := tx.Where("reuniao_id = ?", id).Delete(&models.PresencaVisitante{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&models.Reuniao{}, id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *ReuniaoRepository) UpsertPresencaMembro(ctx context.Context, reuniaoID, membroID uint, presente bool) error {
	db := r.getDB(ctx)
	var registro models.PresencaMembro
	err := db.Where("reuniao_id = ? AND membro_id = ?", reuniaoID, membroID).First(&registro).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		registro = models.PresencaMembro{ReuniaoID: reuniaoID, MembroID: membroID, Presente: presente}
		return db.Create(&registro).Error
	}
	if err != nil {
		return err
	}
	registro.Presente = presente
	return db.Save(&registro).Error
}

func (r *ReuniaoRepository) UpsertPresencaVisitante(ctx context.Context, reuniaoID, visitanteID uint, presente bool) error {
	db := r.getDB(ctx)
	var registro models.PresencaVisitante
	err := db.Where("reuniao_id = ? AND visitante_id = ?", reuniaoID, visitanteID).First(&registro).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		registro = models.PresencaVisitante{ReuniaoID: reuniaoID, VisitanteID: visitanteID, Presente: presente}
		return db.Create(&registro).Error
	}
	if err != nil {
		return err
	}
	registro.Presente = presente
	return db.Save(&registro).Error
}

func (r *ReuniaoRepository) PresencasMembros(ctx context.Context, reuniaoID uint) ([]models.PresencaMembro, error) {
	var presencas []models.PresencaMembro
	err := r.getDB(ctx).Where("reuniao_id = ?", reuniaoID).Preload("Membro").Find(&presencas).Error
	return presencas, err
}

func (r *ReuniaoRepository) PresencasVisitantes(ctx context.Context, reuniaoID uint) ([]models.PresencaVisitante, error) {
	var presencas []models.PresencaVisitante
	err := r.getDB(ctx).Where("reuniao_id = ?", reuniaoID).Preload("Visitante").Find(&presencas).Error
	return presencas, err
}

var _ IReuniaoRepository = (*ReuniaoRepository)(nil)
