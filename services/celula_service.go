package services

import (
	"context"
	"errors"
	"fmt"

	"celulas.app/configs"
	"celulas.app/configs/configslog"
	"celulas.app/models"
	"celulas.app/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CelulaServiceError erros de negócio de células.
type CelulaServiceError string

func (e CelulaServiceError) Error() string { return string(e) }

const (
	ErrCelulaNaoEncontrada     CelulaServiceError = "célula não encontrada"
	ErrCelulaDadosInvalidos    CelulaServiceError = "dados da célula inválidos"
	ErrCelulaNaoAutorizada     CelulaServiceError = "somente administradores gerenciam células"
	ErrCelulaCriacaoFalhou     CelulaServiceError = "não foi possível criar a célula"
	ErrCelulaAtualizacaoFalhou CelulaServiceError = "não foi possível atualizar a célula"
	ErrCelulaExclusaoFalhou    CelulaServiceError = "não foi possível excluir a célula"
)

// CelulaForm são os campos editáveis de uma célula.
type CelulaForm struct {
	Nome           string `validate:"required,min=3,max=150"`
	LiderPrincipal string `validate:"required,min=3,max=150"`
	Endereco       string `validate:"max=255"`
}

// ICelulaService gerencia células e a chave de ativação inicial.
type ICelulaService interface {
	CreateCelula(ctx context.Context, ator Ator, form CelulaForm) (*models.Celula, *models.ChaveAtivacao, error)
	GetCelulaByID(ctx context.Context, ator Ator, id uint) (*models.Celula, error)
	ListCelulas(ctx context.Context, ator Ator) ([]models.Celula, error)
	UpdateCelula(ctx context.Context, ator Ator, id uint, form CelulaForm) error
	DeleteCelula(ctx context.Context, ator Ator, id uint) error
}

// CelulaService implementa ICelulaService.
type CelulaService struct {
	repo      repositories.ICelulaRepository
	chaveRepo repositories.IChaveRepository
	db        *gorm.DB
}

// NewCelulaService cria o serviço com os repositórios padrão.
func NewCelulaService() ICelulaService {
	return &CelulaService{
		repo:      repositories.NewCelulaRepository(),
		chaveRepo: repositories.NewChaveRepository(),
		db:        configs.GetDB(),
	}
}

// CreateCelula cria a célula e tenta emitir a primeira chave de ativação. A
// emissão da chave não é condição para o sucesso: se falhar, a célula fica de
// pé, o admin emite outra chave depois e o log registra o aviso.
func (s *CelulaService) CreateCelula(ctx context.Context, ator Ator, form CelulaForm) (*models.Celula, *models.ChaveAtivacao, error) {
	if !ator.Admin() {
		return nil, nil, ErrCelulaNaoAutorizada
	}
	if err := validate.Struct(form); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrCelulaDadosInvalidos, err)
	}

	celula := &models.Celula{
		Nome:           form.Nome,
		LiderPrincipal: form.LiderPrincipal,
		Endereco:       form.Endereco,
	}
	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.Create(ctx, celula); err != nil {
		configslog.Log.Error("CreateCelula: create falhou", zap.String("nome", form.Nome), zap.Error(err))
		return nil, nil, ErrCelulaCriacaoFalhou
	}

	chave := &models.ChaveAtivacao{Chave: uuid.NewString(), CelulaID: celula.ID}
	if err := s.chaveRepo.Create(ctx, chave); err != nil {
		configslog.Log.Warn("CreateCelula: célula criada mas a chave de ativação falhou",
			zap.Uint("celulaID", celula.ID), zap.Error(err))
		chave = nil
	}
	configslog.Log.Info("Célula criada", zap.Uint("celulaID", celula.ID), zap.String("nome", celula.Nome))
	return celula, chave, nil
}

// GetCelulaByID devolve a célula; o líder só enxerga a própria.
func (s *CelulaService) GetCelulaByID(ctx context.Context, ator Ator, id uint) (*models.Celula, error) {
	if !ator.Admin() && (!ator.TemCelula() || *ator.CelulaID != id) {
		return nil, ErrCelulaNaoAutorizada
	}
	celula, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrCelulaNaoEncontrada
	}
	return celula, nil
}

func (s *CelulaService) ListCelulas(ctx context.Context, ator Ator) ([]models.Celula, error) {
	if !ator.Admin() {
		return nil, ErrCelulaNaoAutorizada
	}
	return s.repo.FindAll(ctx)
}

func (s *CelulaService) UpdateCelula(ctx context.Context, ator Ator, id uint, form CelulaForm) error {
	if !ator.Admin() {
		return ErrCelulaNaoAutorizada
	}
	if err := validate.Struct(form); err != nil {
		return fmt.Errorf("%w: %v", ErrCelulaDadosInvalidos, err)
	}
	celula, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return ErrCelulaNaoEncontrada
	}
	celula.Nome = form.Nome
	celula.LiderPrincipal = form.LiderPrincipal
	celula.Endereco = form.Endereco

	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.Save(ctx, celula); err != nil {
		configslog.Log.Error("UpdateCelula: save falhou", zap.Uint("id", id), zap.Error(err))
		return ErrCelulaAtualizacaoFalhou
	}
	return nil
}

func (s *CelulaService) DeleteCelula(ctx context.Context, ator Ator, id uint) error {
	if !ator.Admin() {
		return ErrCelulaNaoAutorizada
	}
	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrCelulaNaoEncontrada
		}
		configslog.Log.Error("DeleteCelula: delete falhou", zap.Uint("id", id), zap.Error(err))
		return ErrCelulaExclusaoFalhou
	}
	configslog.Log.Info("Célula excluída", zap.Uint("celulaID", id), zap.Uint("perfilID", ator.PerfilID))
	return nil
}

var _ ICelulaService = (*CelulaService)(nil)
