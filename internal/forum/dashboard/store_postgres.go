package dashboard

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nfalco/parley/internal/platform/database/schema"
	"github.com/nfalco/parley/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Counts(context context.Context) (*Stats, error) {
	// Subselects let a single round-trip cover all five tables
	query := fmt.Sprintf(`
		SELECT
			(SELECT COUNT(*) FROM %s),
			(SELECT COUNT(*) FROM %s),
			(SELECT COUNT(*) FROM %s),
			(SELECT COUNT(*) FROM %s),
			(SELECT COUNT(*) FROM %s);
	`,
		schema.UserAccount.Table,
		schema.ForumCategory.Table,
		schema.ForumBoard.Table,
		schema.ForumThread.Table,
		schema.ForumPost.Table,
	)

	stats := &Stats{}
	err := repository.db.QueryRow(context, query).Scan(
		&stats.UserCount, &stats.CategoryCount, &stats.ForumCount,
		&stats.ThreadCount, &stats.PostCount,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "dashboard_counts")
	}

	return stats, nil
}
