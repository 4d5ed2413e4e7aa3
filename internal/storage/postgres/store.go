package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/vladislavdragonenkov/orderdesk/internal/domain"
)

const (
	opTimeout   = 5 * time.Second
	txTimeout   = 10 * time.Second
	pingTimeout = 5 * time.Second
)

// SQLSTATE-коды, которые репозитории переводят в доменные ошибки.
const (
	codeUniqueViolation     = "23505"
	codeForeignKeyViolation = "23503"
	codeCheckViolation      = "23514"
	codeSerializationFail   = "40001"
	codeDeadlockDetected    = "40P01"
)

var errStoreNotInitialized = errors.New("postgres store is not initialized")

// querier — общее подмножество *sql.DB и *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// PoolConfig задаёт параметры пула database/sql.
type PoolConfig struct {
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
}

// DefaultPoolConfig подходит для одного экземпляра сервиса.
func DefaultPoolConfig() PoolConfig {
	return PoolConfig{
		MaxOpenConns:    25,
		MaxIdleConns:    25,
		ConnMaxLifetime: 30 * time.Minute,
		ConnMaxIdleTime: 5 * time.Minute,
	}
}

func (c PoolConfig) apply(db *sql.DB) {
	db.SetMaxOpenConns(c.MaxOpenConns)
	db.SetMaxIdleConns(c.MaxIdleConns)
	db.SetConnMaxLifetime(c.ConnMaxLifetime)
	db.SetConnMaxIdleTime(c.ConnMaxIdleTime)
}

// Store оборачивает SQL-подключение к PostgreSQL и реализует domain.TxManager.
type Store struct {
	db *sql.DB
}

// Open подключается через драйвер pgx с DefaultPoolConfig и проверяет доступность базы.
func Open(ctx context.Context, dsn string) (*Store, error) {
	return OpenWithPool(ctx, dsn, DefaultPoolConfig())
}

func OpenWithPool(ctx context.Context, dsn string, pool PoolConfig) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres connection: %w", err)
	}
	pool.apply(db)

	s := &Store{db: db}
	if err := s.Ping(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return s, nil
}

// DB возвращает raw SQL DB, когда нужен низкоуровневый доступ.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return errStoreNotInitialized
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return s.db.PingContext(ctx)
}

// WithinTx выполняет fn в транзакции READ COMMITTED.
// Остатки читаются через SELECT ... FOR UPDATE, поэтому конкурентные списания
// одного товара выстраиваются в очередь на блокировке строки.
func (s *Store) WithinTx(ctx context.Context, fn func(ctx context.Context, tx domain.Tx) error) error {
	if s == nil || s.db == nil {
		return errStoreNotInitialized
	}

	ctx, cancel := context.WithTimeout(ctx, txTimeout)
	defer cancel()

	sqlTx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	if err := fn(ctx, &pgTx{q: sqlTx}); err != nil {
		if rbErr := sqlTx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return markConcurrentUpdate(errors.Join(err, fmt.Errorf("rollback tx: %w", rbErr)))
		}
		return markConcurrentUpdate(err)
	}
	if err := sqlTx.Commit(); err != nil {
		return markConcurrentUpdate(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}

// markConcurrentUpdate добавляет domain.ErrConcurrentUpdate к откату по дедлоку
// или сбою сериализации, чтобы транспорт ответил конфликтом, а не внутренней ошибкой.
func markConcurrentUpdate(err error) error {
	if !isTxAborted(err) || errors.Is(err, domain.ErrConcurrentUpdate) {
		return err
	}
	return fmt.Errorf("%w: %w", domain.ErrConcurrentUpdate, err)
}

// EnsureSchema применяет все up-миграции.
func (s *Store) EnsureSchema(ctx context.Context) error {
	return s.MigrateUp(ctx, 0)
}

func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// pgTx связывает репозитории с открытой транзакцией.
type pgTx struct {
	q querier
}

func (t *pgTx) Customers() domain.CustomerRepository { return &customerRepository{q: t.q} }
func (t *pgTx) Products() domain.ProductRepository   { return &productRepository{q: t.q} }
func (t *pgTx) Stock() domain.StockRepository        { return &stockRepository{q: t.q} }
func (t *pgTx) Orders() domain.OrderRepository       { return &orderRepository{q: t.q} }
func (t *pgTx) LineItems() domain.LineItemRepository { return &lineItemRepository{q: t.q} }
func (t *pgTx) Outbox() domain.OutboxWriter          { return &outboxWriter{q: t.q} }

func isUniqueViolation(err error) bool     { return pgErrorCode(err) == codeUniqueViolation }
func isForeignKeyViolation(err error) bool { return pgErrorCode(err) == codeForeignKeyViolation }
func isCheckViolation(err error) bool      { return pgErrorCode(err) == codeCheckViolation }

func isTxAborted(err error) bool {
	code := pgErrorCode(err)
	return code == codeDeadlockDetected || code == codeSerializationFail
}

func pgErrorCode(err error) string {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code
	}
	return ""
}

var (
	_ domain.TxManager = (*Store)(nil)
	_ domain.Tx        = (*pgTx)(nil)
)
