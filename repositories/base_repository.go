package repositories

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrNotFound é o sentinela comum de registro inexistente/invisível.
var ErrNotFound = errors.New("registro não encontrado")

// CtxTxKey carrega uma transação aberta pelo serviço; os repositórios a
// usam no lugar da conexão global quando presente.
const CtxTxKey = "tx"

// IBaseRepository expõe o CRUD genérico compartilhado pelos repositórios.
type IBaseRepository[T any] interface {
	Create(ctx context.Context, entity *T) error
	FindByID(ctx context.Context, id uint) (*T, error)
	Save(ctx context.Context, entity *T) error
	SetAllowedSortColumns(cols []string)
	AllowedSortColumn(col string) bool
}

// BaseRepository implementa IBaseRepository sobre GORM.
type BaseRepository[T any] struct {
	db          *gorm.DB
	allowedSort map[string]struct{}
}

// NewBaseRepository cria o repositório genérico para T.
func NewBaseRepository[T any](db *gorm.DB) *BaseRepository[T] {
	return &BaseRepository[T]{db: db, allowedSort: map[string]struct{}{}}
}

// SetAllowedSortColumns define a allow-list de colunas ordenáveis.
func (r *BaseRepository[T]) SetAllowedSortColumns(cols []string) {
	r.allowedSort = make(map[string]struct{}, len(cols))
	for _, c := range cols {
		r.allowedSort[c] = struct{}{}
	}
}

// AllowedSortColumn reporta se col pode aparecer em ORDER BY.
func (r *BaseRepository[T]) AllowedSortColumn(col string) bool {
	_, ok := r.allowedSort[col]
	return ok
}

func (r *BaseRepository[T]) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := ctx.Value(CtxTxKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return r.db.WithContext(ctx)
}

func (r *BaseRepository[T]) Create(ctx context.Context, entity *T) error {
	return r.getDB(ctx).Create(entity).Error
}

func (r *BaseRepository[T]) FindByID(ctx context.Context, id uint) (*T, error) {
	var entity T
	err := r.getDB(ctx).First(&entity, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &entity, nil
}

func (r *BaseRepository[T]) Save(ctx context.Context, entity *T) error {
	return r.getDB(ctx).Save(entity).Error
}

// getDBFrom resolve a conexão efetiva para repositórios específicos.
func getDBFrom(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(CtxTxKey).(*gorm.DB); ok && tx != nil {
		return tx
	}
	return db.WithContext(ctx)
}

// comLockDeEscrita aplica SELECT ... FOR UPDATE onde o dialeto suporta.
// SQLite não tem lock de linha; lá o lock de escritor único do arquivo já
// serializa as transações concorrentes.
func comLockDeEscrita(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() == "sqlite" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}
