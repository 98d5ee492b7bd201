package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"celulas.app/configs"
	"celulas.app/configs/configslog"
	"celulas.app/models"
	"celulas.app/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ReuniaoServiceError erros de negócio de reuniões.
type ReuniaoServiceError string

func (e ReuniaoServiceError) Error() string { return string(e) }

const (
	ErrReuniaoNaoEncontrada     ReuniaoServiceError = "reunião não encontrada"
	ErrReuniaoDadosInvalidos    ReuniaoServiceError = "dados da reunião inválidos"
	ErrReuniaoNaoAutorizada     ReuniaoServiceError = "você não tem acesso a esta reunião"
	ErrReuniaoDuplicada         ReuniaoServiceError = "já existe uma reunião desta célula com a mesma data e tema"
	ErrReuniaoCriacaoFalhou     ReuniaoServiceError = "não foi possível registrar a reunião"
	ErrReuniaoAtualizacaoFalhou ReuniaoServiceError = "não foi possível atualizar a reunião"
	ErrReuniaoExclusaoFalhou    ReuniaoServiceError = "não foi possível excluir a reunião"
)

// ReuniaoForm são os campos editáveis de uma reunião.
type ReuniaoForm struct {
	DataReuniao             time.Time `validate:"required"`
	Tema                    string    `validate:"required,min=3,max=255"`
	MinistradorPrincipalID  *uint
	MinistradorSecundarioID *uint
	ResponsavelKidsID       *uint
	NumCriancas             int `validate:"gte=0"`
}

// Presencas é o mapa marcado na chamada: id da pessoa -> presente.
type Presencas struct {
	Membros    map[uint]bool
	Visitantes map[uint]bool
}

// IReuniaoService registra reuniões e a chamada de presença.
type IReuniaoService interface {
	CreateReuniao(ctx context.Context, ator Ator, celulaID uint, form ReuniaoForm) (*models.Reuniao, error)
	GetReuniaoByID(ctx context.Context, ator Ator, id uint) (*models.Reuniao, error)
	GetReuniaoComPresencas(ctx context.Context, ator Ator, id uint) (*models.Reuniao, error)
	ListReunioes(ctx context.Context, ator Ator, celulaID uint) ([]models.Reuniao, error)
	UpdateReuniao(ctx context.Context, ator Ator, id uint, form ReuniaoForm) error
	MarcarPresencas(ctx context.Context, ator Ator, id uint, presencas Presencas) error
	RegistrarPDF(ctx context.Context, ator Ator, id uint, caminho string) error
	DeleteReuniao(ctx context.Context, ator Ator, id uint) error
}

// ReuniaoService implementa IReuniaoService.
type ReuniaoService struct {
	repo repositories.IReuniaoRepository
	db   *gorm.DB
}

// NewReuniaoService cria o serviço com o repositório padrão.
func NewReuniaoService() IReuniaoService {
	return &ReuniaoService{
		repo: repositories.NewReuniaoRepository(),
		db:   configs.GetDB(),
	}
}

func (s *ReuniaoService) autorizada(ator Ator, celulaID uint) bool {
	if ator.Admin() {
		return true
	}
	return ator.TemCelula() && *ator.CelulaID == celulaID
}

// CreateReuniao registra a reunião. Mesma célula, mesma data e mesmo tema é
// tratado como lançamento duplicado.
func (s *ReuniaoService) CreateReuniao(ctx context.Context, ator Ator, celulaID uint, form ReuniaoForm) (*models.Reuniao, error) {
	if celulaID == 0 && ator.TemCelula() {
		celulaID = *ator.CelulaID
	}
	if !s.autorizada(ator, celulaID) {
		return nil, ErrReuniaoNaoAutorizada
	}
	if err := validate.Struct(form); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrReuniaoDadosInvalidos, err)
	}
	duplicada, err := s.repo.ExisteDuplicada(ctx, celulaID, form.DataReuniao, form.Tema, 0)
	if err != nil {
		return nil, ErrReuniaoCriacaoFalhou
	}
	if duplicada {
		return nil, ErrReuniaoDuplicada
	}

	reuniao := &models.Reuniao{
		CelulaID:                celulaID,
		DataReuniao:             form.DataReuniao,
		Tema:                    form.Tema,
		MinistradorPrincipalID:  form.MinistradorPrincipalID,
		MinistradorSecundarioID: form.MinistradorSecundarioID,
		ResponsavelKidsID:       form.ResponsavelKidsID,
		NumCriancas:             form.NumCriancas,
	}
	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.Create(ctx, reuniao); err != nil {
		configslog.Log.Error("CreateReuniao: create falhou", zap.Uint("celulaID", celulaID), zap.Error(err))
		return nil, ErrReuniaoCriacaoFalhou
	}
	configslog.Log.Info("Reunião registrada", zap.Uint("reuniaoID", reuniao.ID), zap.Uint("celulaID", celulaID))
	return reuniao, nil
}

func (s *ReuniaoService) GetReuniaoByID(ctx context.Context, ator Ator, id uint) (*models.Reuniao, error) {
	reuniao, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrReuniaoNaoEncontrada
	}
	if !s.autorizada(ator, reuniao.CelulaID) {
		return nil, ErrReuniaoNaoAutorizada
	}
	return reuniao, nil
}

func (s *ReuniaoService) GetReuniaoComPresencas(ctx context.Context, ator Ator, id uint) (*models.Reuniao, error) {
	reuniao, err := s.repo.FindByIDComPresencas(ctx, id)
	if err != nil {
		return nil, ErrReuniaoNaoEncontrada
	}
	if !s.autorizada(ator, reuniao.CelulaID) {
		return nil, ErrReuniaoNaoAutorizada
	}
	return reuniao, nil
}

func (s *ReuniaoService) ListReunioes(ctx context.Context, ator Ator, celulaID uint) ([]models.Reuniao, error) {
	if !ator.Admin() {
		if !ator.TemCelula() {
			return nil, ErrReuniaoNaoAutorizada
		}
		celulaID = *ator.CelulaID
	}
	return s.repo.FindByCelula(ctx, celulaID)
}

func (s *ReuniaoService) UpdateReuniao(ctx context.Context, ator Ator, id uint, form ReuniaoForm) error {
	reuniao, err := s.GetReuniaoByID(ctx, ator, id)
	if err != nil {
		return err
	}
	if err := validate.Struct(form); err != nil {
		return fmt.Errorf("%w: %v", ErrReuniaoDadosInvalidos, err)
	}
	duplicada, err := s.repo.ExisteDuplicada(ctx, reuniao.CelulaID, form.DataReuniao, form.Tema, reuniao.ID)
	if err != nil {
		return ErrReuniaoAtualizacaoFalhou
	}
	if duplicada {
		return ErrReuniaoDuplicada
	}

	reuniao.DataReuniao = form.DataReuniao
	reuniao.Tema = form.Tema
	reuniao.MinistradorPrincipalID = form.MinistradorPrincipalID
	reuniao.MinistradorSecundarioID = form.MinistradorSecundarioID
	reuniao.ResponsavelKidsID = form.ResponsavelKidsID
	reuniao.NumCriancas = form.NumCriancas

	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.Save(ctx, reuniao); err != nil {
		configslog.Log.Error("UpdateReuniao: save falhou", zap.Uint("id", id), zap.Error(err))
		return ErrReuniaoAtualizacaoFalhou
	}
	return nil
}

// MarcarPresencas grava a chamada inteira numa transação. Marcar de novo a
// mesma pessoa sobrescreve o registro anterior em vez de duplicar.
func (s *ReuniaoService) MarcarPresencas(ctx context.Context, ator Ator, id uint, presencas Presencas) error {
	reuniao, err := s.GetReuniaoByID(ctx, ator, id)
	if err != nil {
		return err
	}
	ctx = contextWithUserID(ctx, ator.PerfilID)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := repositories.NewReuniaoRepositoryTx(tx)
		for membroID, presente := range presencas.Membros {
			if err := repo.UpsertPresencaMembro(ctx, reuniao.ID, membroID, presente); err != nil {
				return err
			}
		}
		for visitanteID, presente := range presencas.Visitantes {
			if err := repo.UpsertPresencaVisitante(ctx, reuniao.ID, visitanteID, presente); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		configslog.Log.Error("MarcarPresencas: transação falhou", zap.Uint("reuniaoID", id), zap.Error(err))
		return ErrReuniaoAtualizacaoFalhou
	}
	return nil
}

// RegistrarPDF guarda o caminho do relatório gerado para a reunião.
func (s *ReuniaoService) RegistrarPDF(ctx context.Context, ator Ator, id uint, caminho string) error {
	reuniao, err := s.GetReuniaoByID(ctx, ator, id)
	if err != nil {
		return err
	}
	reuniao.CaminhoPDF = caminho
	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.Save(ctx, reuniao); err != nil {
		return ErrReuniaoAtualizacaoFalhou
	}
	return nil
}

func (s *ReuniaoService) DeleteReuniao(ctx context.Context, ator Ator, id uint) error {
	if _, err := s.GetReuniaoByID(ctx, ator, id); err != nil {
		return err
	}
	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrReuniaoNaoEncontrada
		}
		configslog.Log.Error("DeleteReuniao: delete falhou", zap.Uint("id", id), zap.Error(err))
		return ErrReuniaoExclusaoFalhou
	}
	return nil
}

var _ IReuniaoService = (*ReuniaoService)(nil)
