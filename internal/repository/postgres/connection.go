package postgres

import (
	"context"
	"fmt"
	"log/slog"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ktmouk/minute-sub000/internal/domain/repositories"
)

// psql builds Postgres statements with $n placeholders
var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// maxBindParams is the wire protocol's limit on parameters per statement
const maxBindParams = 65535

// anyID matches column against ids bound as a single uuid[] parameter, so the
// statement size does not grow with the subtree
func anyID(column string, ids []string) sq.Sqlizer {
	return sq.Expr(column+" = ANY(?::uuid[])", ids)
}

// RepositoryConfig holds configuration for repository implementations
type RepositoryConfig struct {
	Pool   *pgxpool.Pool
	Tables *TableNames
	Logger *slog.Logger
}

// TableNames holds dynamically prefixed table names
type TableNames struct {
	Folders           string
	FolderHierarchies string
	Categories        string
	CategoryFolders   string
	Charts            string
	ChartFolders      string
	ChartCategories   string
	Tasks             string
	TimeEntries       string
}

// NewTableNames creates table names with the given prefix
func NewTableNames(prefix string) *TableNames {
	return &TableNames{
		Folders:           fmt.Sprintf("%sfolders", prefix),
		FolderHierarchies: fmt.Sprintf("%sfolder_hierarchies", prefix),
		Categories:        fmt.Sprintf("%scategories", prefix),
		CategoryFolders:   fmt.Sprintf("%scategory_folders", prefix),
		Charts:            fmt.Sprintf("%scharts", prefix),
		ChartFolders:      fmt.Sprintf("%schart_folders", prefix),
		ChartCategories:   fmt.Sprintf("%schart_categories", prefix),
		Tasks:             fmt.Sprintf("%stasks", prefix),
		TimeEntries:       fmt.Sprintf("%stime_entries", prefix),
	}
}

// CreateConnectionPool creates a new pgx connection pool.
//
// Port 6543 is the Supabase transaction pooler (PgBouncer), which does not support
// prepared statements. When it is detected and the connection string did not pick a
// mode itself, QueryExecModeCacheDescribe is used instead of the default statement cache.
// An explicit ?default_query_exec_mode=... always wins.
//
// Table prefixes are interpolated before statements reach the server, so each
// environment gets its own cached statements.
func CreateConnectionPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse connection string: %w", err)
	}

	config.MaxConns = 25
	config.MinConns = 5

	if config.ConnConfig.Port == 6543 && config.ConnConfig.DefaultQueryExecMode == pgx.QueryExecModeCacheStatement {
		config.ConnConfig.DefaultQueryExecMode = pgx.QueryExecModeCacheDescribe
		slog.Debug("auto-configured cache_describe mode for PgBouncer compatibility", "port", 6543)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	return pool, nil
}

// GetExecutor returns the transaction stored in ctx, or pool when there is none,
// so repositories join an ExecTx transaction automatically
func GetExecutor(ctx context.Context, pool *pgxpool.Pool) repositories.DBTX {
	if tx := repositories.GetTx(ctx); tx != nil {
		return tx
	}
	return pool
}
