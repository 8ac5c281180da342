package storage

import (
	"context"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ilya-burinskiy/clipgate/internal/app/models"
)

const recordColumns = `"id", "dst", "user_id", "src", "start", "end", "process_host"`

// PostgreSQL storage. Records of one collection share the table
type DBStorage struct {
	pool       *pgxpool.Pool
	collection string
}

func NewDBStorage(dsn, collection string) (*DBStorage, error) {
	if err := runMigrations(dsn); err != nil {
		return nil, fmt.Errorf("failed to run DB migrations: %w", err)
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to create a connection pool: %w", err)
	}

	return &DBStorage{
		pool:       pool,
		collection: collection,
	}, nil
}

func (db *DBStorage) FindByID(ctx context.Context, id string) (models.Record, error) {
	row := db.pool.QueryRow(
		ctx,
		`SELECT `+recordColumns+` FROM "records" WHERE "collection" = @collection AND "id" = @id`,
		pgx.NamedArgs{"collection": db.collection, "id": id},
	)
	record, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Record{}, ErrNotFound
		}

		return models.Record{}, pgError("failed to find record", err)
	}

	return record, nil
}

func (db *DBStorage) List(ctx context.Context, limit int) ([]models.Record, error) {
	rows, err := db.pool.Query(
		ctx,
		`SELECT `+recordColumns+` FROM "records" WHERE "collection" = @collection LIMIT @limit`,
		pgx.NamedArgs{"collection": db.collection, "limit": normalizeLimit(limit)},
	)
	if err != nil {
		return nil, pgError("failed to list records", err)
	}

	records, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (models.Record, error) {
		return scanRecord(row)
	})
	if err != nil {
		return nil, pgError("failed to list records", err)
	}

	return records, nil
}

func (db *DBStorage) Close() {
	db.pool.Close()
}

// pgError wraps err; a canceled statement becomes context.DeadlineExceeded and
// connection or shutdown failures become ErrUnavailable
func pgError(op string, err error) error {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return fmt.Errorf("%s: %w", op, err)
	}

	switch {
	case pgErr.Code == pgerrcode.QueryCanceled:
		return fmt.Errorf("%s: %w: %w", op, context.DeadlineExceeded, err)
	case pgerrcode.IsConnectionException(pgErr.Code),
		pgerrcode.IsOperatorIntervention(pgErr.Code),
		pgerrcode.IsInsufficientResources(pgErr.Code):
		return fmt.Errorf("%s: %w: %w", op, ErrUnavailable, err)
	default:
		return fmt.Errorf("%s: %w", op, err)
	}
}

func scanRecord(row pgx.Row) (models.Record, error) {
	var r models.Record
	err := row.Scan(&r.ID, &r.Destination, &r.UserID, &r.Src, &r.Start, &r.End, &r.ProcessHost)
	return r, err
}

//go:embed db/migrations/*.sql
var migrationsDir embed.FS

func runMigrations(dsn string) error {
	d, err := iofs.New(migrationsDir, "db/migrations")
	if err != nil {
		return fmt.Errorf("failed to return an iofs driver: %w", err)
	}

	m, err := migrate.NewWithSourceInstance("iofs", d, dsn)
	if err != nil {
		return fmt.Errorf("failed to get a new migrate instance: %w", err)
	}

	if err := m.Up(); err != nil {
		if !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to apply migrations: %w", err)
		}
	}

	return nil
}
