package services

import (
	"context"
	"errors"
	"time"

	"celulas.app/configs"
	"celulas.app/configs/configslog"
	"celulas.app/models"
	"celulas.app/repositories"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConviteServiceError erros de negócio de convites de inscrição.
type ConviteServiceError string

func (e ConviteServiceError) Error() string { return string(e) }

const (
	// ErrConviteInvalido cobre token inexistente, expirado, já usado ou evento
	// encerrado. A página pública recebe sempre a mesma mensagem; o motivo
	// exato fica só no log.
	ErrConviteInvalido      ConviteServiceError = "este convite é inválido, expirou ou já foi utilizado"
	ErrConviteNaoAutorizado ConviteServiceError = "você não tem permissão para gerar convites"
	ErrConviteGeracaoFalhou ConviteServiceError = "não foi possível gerar o link de convite"
)

// ValidadeConvite é a janela de uso de um link de convite.
const ValidadeConvite = 24 * time.Hour

// ConviteResolvido é o que a página pública precisa exibir antes do envio do
// formulário.
type ConviteResolvido struct {
	Convite *models.ConviteInscricao
	Evento  *models.EventoFaceAFace
	Celula  *models.Celula
}

// IConviteService gera e resolve links públicos de inscrição.
type IConviteService interface {
	GerarConvite(ctx context.Context, ator Ator, eventoID uint, nomeSugerido string) (*models.ConviteInscricao, string, error)
	ResolverConvite(ctx context.Context, token string) (*ConviteResolvido, error)
	ListConvitesDoLider(ctx context.Context, ator Ator) ([]models.ConviteInscricao, error)
	URLPublica(token string) string
}

// ConviteService implementa IConviteService.
type ConviteService struct {
	repo       repositories.IConviteRepository
	eventoRepo repositories.IEventoRepository
	celulaRepo repositories.ICelulaRepository
}

// NewConviteService cria o serviço com os repositórios padrão.
func NewConviteService() IConviteService {
	return &ConviteService{
		repo:       repositories.NewConviteRepository(),
		eventoRepo: repositories.NewEventoRepository(),
		celulaRepo: repositories.NewCelulaRepository(),
	}
}

// GerarConvite cria um token de uso único válido por 24h para a célula do
// líder. Devolve também a URL pública pronta para compartilhar.
func (s *ConviteService) GerarConvite(ctx context.Context, ator Ator, eventoID uint, nomeSugerido string) (*models.ConviteInscricao, string, error) {
	if !ator.TemCelula() {
		return nil, "", ErrConviteNaoAutorizado
	}
	evento, err := s.eventoRepo.FindByID(ctx, eventoID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, "", ErrEventoNaoEncontrado
		}
		return nil, "", ErrConviteGeracaoFalhou
	}
	if !evento.AceitaInscricoes(time.Now()) {
		return nil, "", ErrEventoEncerrado
	}

	convite := &models.ConviteInscricao{
		Token:                 uuid.NewString(),
		EventoID:              evento.ID,
		CelulaID:              *ator.CelulaID,
		GeradoPorPerfilID:     ator.PerfilID,
		NomeCandidatoSugerido: nomeSugerido,
		ExpiraEm:              time.Now().Add(ValidadeConvite),
	}
	ctx = contextWithUserID(ctx, ator.PerfilID)
	if err := s.repo.Create(ctx, convite); err != nil {
		configslog.Log.Error("GerarConvite: create falhou", zap.Uint("eventoID", eventoID), zap.Error(err))
		return nil, "", ErrConviteGeracaoFalhou
	}
	configslog.Log.Info("Convite gerado",
		zap.Uint("conviteID", convite.ID),
		zap.Uint("eventoID", evento.ID),
		zap.Uint("perfilID", ator.PerfilID))
	return convite, s.URLPublica(convite.Token), nil
}

// ResolverConvite valida o token para a página pública: precisa existir, não
// estar usado, não estar expirado e o evento ainda aceitar inscrições.
func (s *ConviteService) ResolverConvite(ctx context.Context, token string) (*ConviteResolvido, error) {
	convite, err := s.repo.FindByToken(ctx, token)
	if err != nil {
		if !errors.Is(err, repositories.ErrNotFound) {
			configslog.Log.Error("ResolverConvite: busca falhou", zap.Error(err))
		}
		return nil, ErrConviteInvalido
	}
	if convite.Usado {
		configslog.Log.Warn("ResolverConvite: convite já utilizado", zap.Uint("conviteID", convite.ID))
		return nil, ErrConviteInvalido
	}
	if convite.Expirado(time.Now()) {
		configslog.Log.Warn("ResolverConvite: convite expirado", zap.Uint("conviteID", convite.ID))
		return nil, ErrConviteInvalido
	}
	evento, err := s.eventoRepo.FindByID(ctx, convite.EventoID)
	if err != nil {
		return nil, ErrConviteInvalido
	}
	if !evento.AceitaInscricoes(time.Now()) {
		configslog.Log.Warn("ResolverConvite: evento encerrado", zap.Uint("eventoID", evento.ID))
		return nil, ErrConviteInvalido
	}
	celula, err := s.celulaRepo.FindByID(ctx, convite.CelulaID)
	if err != nil {
		return nil, ErrConviteInvalido
	}
	return &ConviteResolvido{Convite: convite, Evento: evento, Celula: celula}, nil
}

// ListConvitesDoLider lista os convites gerados pelo líder logado.
func (s *ConviteService) ListConvitesDoLider(ctx context.Context, ator Ator) ([]models.ConviteInscricao, error) {
	return s.repo.FindByLider(ctx, ator.PerfilID)
}

// URLPublica monta o link compartilhável do token.
func (s *ConviteService) URLPublica(token string) string {
	return configs.BaseURL() + "/convite/" + token
}

var _ IConviteService = (*ConviteService)(nil)
