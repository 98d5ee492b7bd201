package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"celulas.app/configs"
	"celulas.app/configs/configslog"
	"celulas.app/models"
	"celulas.app/pkg/telefone"
	"celulas.app/repositories"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// VisitanteServiceError erros de negócio de visitantes.
type VisitanteServiceError string

func (e VisitanteServiceError) Error() string { return string(e) }

const (
	ErrVisitanteNaoEncontrado     VisitanteServiceError = "visitante não encontrado"
	ErrVisitanteDadosInvalidos    VisitanteServiceError = "dados do visitante inválidos"
	ErrVisitanteNaoAutorizado     VisitanteServiceError = "você não tem acesso a este visitante"
	ErrVisitanteCriacaoFalhou     VisitanteServiceError = "não foi possível cadastrar o visitante"
	ErrVisitanteAtualizacaoFalhou VisitanteServiceError = "não foi possível atualizar o visitante"
	ErrVisitanteExclusaoFalhou    VisitanteServiceError = "não foi possível remover o visitante"
	ErrVisitanteJaConvertido      VisitanteServiceError = "este visitante já foi convertido em membro"
)

// VisitanteForm são os campos editáveis de um visitante.
type VisitanteForm struct {
	Nome               string `validate:"required,min=3,max=150"`
	Telefone           string
	DataPrimeiraVisita time.Time `validate:"required"`
	DataNascimento     *time.Time
	Endereco           string `validate:"max=255"`
	DataUltimoContato  *time.Time
	Observacoes        string
}

// IVisitanteService gerencia visitantes e a conversão em membro.
type IVisitanteService interface {
	CreateVisitante(ctx context.Context, ator Ator, celulaID uint, form VisitanteForm) (*models.Visitante, error)
	GetVisitanteByID(ctx context.Context, ator Ator, id uint) (*models.Visitante, error)
	ListVisitantes(ctx context.Context, ator Ator, celulaID uint) ([]models.Visitante, error)
	UpdateVisitante(ctx context.Context, ator Ator, id uint, form VisitanteForm) error
	RegistrarContato(ctx context.Context, ator Ator, id uint, data time.Time) error
	ConverterEmMembro(ctx context.Context, ator Ator, id uint) (*models.Membro, error)
	DeleteVisitante(ctx context.Context, ator Ator, id uint) error
}

// VisitanteService implementa IVisitanteService.
type VisitanteService struct {
	repo repositories.IVisitanteRepository
	db   *gorm.DB
}

// NewVisitanteService cria o serviço com o repositório padrão.
func NewVisitanteService() IVisitanteService {
	return &VisitanteService{
		repo: repositories.NewVisitanteRepository(),
		db:   configs.GetDB(),
	}
}

func validarFormVisitante(form *VisitanteForm) error {
	if err := validate.Struct(form); err != nil {
		return fmt.Errorf("%w: %v", ErrVisitanteDadosInvalidos, err)
	}
	if form.Telefone != "" {
		tel, err := telefone.Normalizar(form.Telefone)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrVisitanteDadosInvalidos, err)
		}
		form.Telefone = tel
	}
	return nil
}

func (s *VisitanteService) escopo(ator Ator, pedida uint) (uint, error) {
	if ator.Admin() {
		return pedida, nil
	}
	if !ator.TemCelula() {
		return 0, ErrVisitanteNaoAutorizado
	}
	if pedida != 0 && pedida != *ator.CelulaID {
		return 0, ErrVisitanteNaoAutorizado
	}
	return *ator.CelulaID, nil
}

func (s *VisitanteService) CreateVisitante(ctx context.Context, ator Ator, celulaID uint, form VisitanteForm) (*models.Visitante, error) {
	escopo, err := s.escopo(ator, celulaID)
	if err != nil {
		return nil, err
	}
	if escopo == 0 {
		return nil, fmt.Errorf("%w: célula é obrigatória", ErrVisitanteDadosInvalidos)
	}
	if err := validarFormVisitante(&form); err != nil {
		return nil, err
	}

	visitante := &models.Visitante{
		CelulaID:           escopo,
		Nome:               form.Nome,
		Telefone:           form.Telefone,
		DataPrimeiraVisita: form.DataPrimeiraVisita,
		DataNascimento:     form.DataNascimento,
		Endereco:           form.Endereco,
		DataUltimoContato:  form.DataUltimoContato,
		Observacoes:        form.Observacoes,
	}
	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.Create(ctx, visitante); err != nil {
		configslog.Log.Error("CreateVisitante: create falhou", zap.Uint("celulaID", escopo), zap.Error(err))
		return nil, ErrVisitanteCriacaoFalhou
	}
	return visitante, nil
}

func (s *VisitanteService) GetVisitanteByID(ctx context.Context, ator Ator, id uint) (*models.Visitante, error) {
	visitante, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrVisitanteNaoEncontrado
	}
	if !ator.Admin() && (!ator.TemCelula() || visitante.CelulaID != *ator.CelulaID) {
		return nil, ErrVisitanteNaoAutorizado
	}
	return visitante, nil
}

func (s *VisitanteService) ListVisitantes(ctx context.Context, ator Ator, celulaID uint) ([]models.Visitante, error) {
	escopo, err := s.escopo(ator, celulaID)
	if err != nil {
		return nil, err
	}
	if escopo == 0 {
		return s.repo.FindAll(ctx)
	}
	return s.repo.FindByCelula(ctx, escopo)
}

func (s *VisitanteService) UpdateVisitante(ctx context.Context, ator Ator, id uint, form VisitanteForm) error {
	visitante, err := s.GetVisitanteByID(ctx, ator, id)
	if err != nil {
		return err
	}
	if err := validarFormVisitante(&form); err != nil {
		return err
	}

	visitante.Nome = form.Nome
	visitante.Telefone = form.Telefone
	visitante.DataPrimeiraVisita = form.DataPrimeiraVisita
	visitante.DataNascimento = form.DataNascimento
	visitante.Endereco = form.Endereco
	visitante.DataUltimoContato = form.DataUltimoContato
	visitante.Observacoes = form.Observacoes

	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.Save(ctx, visitante); err != nil {
		configslog.Log.Error("UpdateVisitante: save falhou", zap.Uint("id", id), zap.Error(err))
		return ErrVisitanteAtualizacaoFalhou
	}
	return nil
}

// RegistrarContato atualiza a data do último contato com o visitante.
func (s *VisitanteService) RegistrarContato(ctx context.Context, ator Ator, id uint, data time.Time) error {
	visitante, err := s.GetVisitanteByID(ctx, ator, id)
	if err != nil {
		return err
	}
	visitante.DataUltimoContato = &data
	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.Save(ctx, visitante); err != nil {
		return ErrVisitanteAtualizacaoFalhou
	}
	return nil
}

// ConverterEmMembro promove o visitante a membro da mesma célula, copiando os
// campos compatíveis. A conversão acontece uma vez só; o registro do visitante
// permanece marcado com a data.
func (s *VisitanteService) ConverterEmMembro(ctx context.Context, ator Ator, id uint) (*models.Membro, error) {
	visitante, err := s.GetVisitanteByID(ctx, ator, id)
	if err != nil {
		return nil, err
	}
	if visitante.ConvertidoEm != nil {
		return nil, ErrVisitanteJaConvertido
	}

	var membro *models.Membro
	ctx = contextWithUserID(ctx, ator.PerfilID)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		membroRepo := repositories.NewMembroRepositoryTx(tx)
		visitanteRepo := repositories.NewVisitanteRepositoryTx(tx)

		agora := time.Now()
		membro = &models.Membro{
			CelulaID:       visitante.CelulaID,
			Nome:           visitante.Nome,
			Telefone:       visitante.Telefone,
			DataIngresso:   agora,
			DataNascimento: visitante.DataNascimento,
			Endereco:       visitante.Endereco,
			Status:         models.MembroAtivo,
		}
		if err := membroRepo.Create(ctx, membro); err != nil {
			return err
		}
		visitante.ConvertidoEm = &agora
		return visitanteRepo.Save(ctx, visitante)
	})
	if err != nil {
		configslog.Log.Error("ConverterEmMembro: transação falhou", zap.Uint("visitanteID", id), zap.Error(err))
		return nil, ErrVisitanteAtualizacaoFalhou
	}
	configslog.Log.Info("Visitante convertido em membro",
		zap.Uint("visitanteID", id), zap.Uint("membroID", membro.ID))
	return membro, nil
}

func (s *VisitanteService) DeleteVisitante(ctx context.Context, ator Ator, id uint) error {
	if _, err := s.GetVisitanteByID(ctx, ator, id); err != nil {
		return err
	}
	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrVisitanteNaoEncontrado
		}
		configslog.Log.Error("DeleteVisitante: delete falhou", zap.Uint("id", id), zap.Error(err))
		return ErrVisitanteExclusaoFalhou
	}
	return nil
}

var _ IVisitanteService = (*VisitanteService)(nil)
