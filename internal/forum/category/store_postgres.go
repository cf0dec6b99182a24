package category

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nfalco/parley/internal/platform/apperr"
	"github.com/nfalco/parley/internal/platform/database/schema"
	"github.com/nfalco/parley/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Create(context context.Context, category *Category, ord *int) error {
	// The next free position is resolved inside the INSERT so two concurrent
	// creations cannot read the same max. A collision on an explicit ord
	// still surfaces as a unique violation.
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s)
		VALUES ($1, $2, COALESCE($3, (SELECT COALESCE(MAX(%s), 0) + 1 FROM %s)), $4)
		RETURNING %s;
	`,
		schema.ForumCategory.Table,
		schema.ForumCategory.ID, schema.ForumCategory.Name, schema.ForumCategory.Ord, schema.ForumCategory.CreatedAt,
		schema.ForumCategory.Ord, schema.ForumCategory.Table,
		schema.ForumCategory.Ord,
	)

	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}

	err := repository.db.QueryRow(context, query, category.ID, category.Name, ord, category.CreatedAt).Scan(&category.Ord)
	if err != nil {
		if constraint, ok := dberr.UniqueField(err); ok {
			switch {
			case strings.Contains(constraint, "name"):
				return apperr.Conflict("Category name already exists")
			case strings.Contains(constraint, "ord"):
				return apperr.Conflict("Category order is already in use")
			}
		}
		return dberr.Wrap(err, "create_category")
	}

	return nil
}

func (repository *PostgresRepository) List(context context.Context) ([]*Category, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		ORDER BY %s ASC;
	`,
		schema.ForumCategory.ID, schema.ForumCategory.Name, schema.ForumCategory.Ord, schema.ForumCategory.CreatedAt,
		schema.ForumCategory.Table,
		schema.ForumCategory.Ord,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_categories")
	}
	defer rows.Close()

	categories := make([]*Category, 0)
	for rows.Next() {
		c := &Category{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Ord, &c.CreatedAt); err != nil {
			return nil, dberr.Wrap(err, "scan_category")
		}
		categories = append(categories, c)
	}

	return categories, rows.Err()
}

func (repository *PostgresRepository) GetByID(context context.Context, id string) (*Category, error) {
	query := fmt.Sprintf(`
		SELECT %s, %s, %s, %s
		FROM %s
		WHERE %s = $1;
	`,
		schema.ForumCategory.ID, schema.ForumCategory.Name, schema.ForumCategory.Ord, schema.ForumCategory.CreatedAt,
		schema.ForumCategory.Table,
		schema.ForumCategory.ID,
	)

	c := &Category{}
	err := repository.db.QueryRow(context, query, id).Scan(&c.ID, &c.Name, &c.Ord, &c.CreatedAt)
	if err != nil {
		return nil, dberr.Wrap(err, "get_category")
	}
	return c, nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.ForumCategory.Table, schema.ForumCategory.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_category")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Category not found")
	}
	return nil
}
