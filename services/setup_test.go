package services

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"celulas.app/configs"
	"celulas.app/configs/configslog"
	"celulas.app/models"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestMain(m *testing.M) {
	configslog.InitLogger()
	os.Exit(m.Run())
}

// setupTestDB abre um banco SQLite descartável com o schema completo e o
// registra como conexão global dos repositórios.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	caminho := filepath.Join(t.TempDir(), "celulas_test.db")
	db, err := gorm.Open(sqlite.Open(caminho), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Celula{},
		&models.Membro{},
		&models.Visitante{},
		&models.Reuniao{},
		&models.PresencaMembro{},
		&models.PresencaVisitante{},
		&models.ChaveAtivacao{},
		&models.EventoFaceAFace{},
		&models.Inscricao{},
		&models.ConviteInscricao{},
	))
	configs.SetDB(db)
	return db
}

// cenario é a base comum dos testes: um admin e um líder já vinculado à sua
// célula.
type cenario struct {
	db     *gorm.DB
	celula *models.Celula
	admin  Ator
	lider  Ator
}

func novoCenario(t *testing.T) *cenario {
	t.Helper()
	db := setupTestDB(t)

	adminUser := &models.User{
		Email:        "admin@igreja.local",
		SenhaHash:    "irrelevante",
		NomeCompleto: "Administração",
		Role:         models.RoleAdmin,
		Ativo:        true,
	}
	require.NoError(t, db.Create(adminUser).Error)

	celula := &models.Celula{Nome: "Célula Videira", LiderPrincipal: "Maria Souza", Endereco: "Rua das Flores, 12"}
	require.NoError(t, db.Create(celula).Error)

	liderUser := &models.User{
		Email:        "maria@igreja.local",
		SenhaHash:    "irrelevante",
		NomeCompleto: "Maria Souza",
		Role:         models.RoleLider,
		CelulaID:     &celula.ID,
		Ativo:        true,
	}
	require.NoError(t, db.Create(liderUser).Error)

	return &cenario{
		db:     db,
		celula: celula,
		admin:  Ator{PerfilID: adminUser.ID, Role: models.RoleAdmin},
		lider:  Ator{PerfilID: liderUser.ID, Role: models.RoleLider, CelulaID: &celula.ID},
	}
}

// outroLider cria uma segunda célula com seu próprio líder.
func (c *cenario) outroLider(t *testing.T) Ator {
	t.Helper()
	celula := &models.Celula{Nome: "Célula Oliveira", LiderPrincipal: "João Pereira"}
	require.NoError(t, c.db.Create(celula).Error)
	user := &models.User{
		Email:        "joao@igreja.local",
		SenhaHash:    "irrelevante",
		NomeCompleto: "João Pereira",
		Role:         models.RoleLider,
		CelulaID:     &celula.ID,
		Ativo:        true,
	}
	require.NoError(t, c.db.Create(user).Error)
	return Ator{PerfilID: user.ID, Role: models.RoleLider, CelulaID: &celula.ID}
}

func (c *cenario) criarEventoAberto(t *testing.T) *models.EventoFaceAFace {
	t.Helper()
	evento := &models.EventoFaceAFace{
		Nome:               "Face a Face Mulheres",
		Tipo:               models.EventoMulheres,
		DataInicio:         time.Now().AddDate(0, 1, 0),
		DataFim:            time.Now().AddDate(0, 1, 2),
		Local:              "Chácara Monte Sião",
		ValorTotal:         300,
		ValorEntrada:       100,
		DataLimiteEntrada:  time.Now().AddDate(0, 0, 15),
		AtivaParaInscricao: true,
		CriadoPorPerfilID:  c.admin.PerfilID,
	}
	require.NoError(t, c.db.Create(evento).Error)
	return evento
}

func formInscricaoValida(nome string) InscricaoForm {
	return InscricaoForm{
		NomeCompletoParticipante: nome,
		TipoParticipacao:         models.ParticipacaoEncontrista,
		ContatoPessoal:           "(11) 99999-8888",
	}
}
