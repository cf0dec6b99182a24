package board

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nfalco/parley/internal/forum/category"
	"github.com/nfalco/parley/internal/platform/database/schema"
	"github.com/nfalco/parley/internal/platform/dberr"
)

type PostgresRepository struct {
	db *pgxpool.Pool
}

func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (repository *PostgresRepository) Create(context context.Context, board *Board) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6);
	`,
		schema.ForumBoard.Table,
		schema.ForumBoard.ID, schema.ForumBoard.CategoryID, schema.ForumBoard.Name,
		schema.ForumBoard.Description, schema.ForumBoard.CreatedAt, schema.ForumBoard.UpdatedAt,
	)

	now := time.Now()
	board.CreatedAt = now
	board.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		board.ID, board.CategoryID, board.Name, board.Description, board.CreatedAt, board.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_board")
	}
	return nil
}

func (repository *PostgresRepository) List(context context.Context) ([]*Board, error) {
	query := fmt.Sprintf(`
		SELECT b.%s, b.%s, b.%s, b.%s, b.%s, b.%s,
		       c.%s, c.%s, c.%s, c.%s
		FROM %s b
		JOIN %s c ON b.%s = c.%s
		ORDER BY c.%s ASC, b.%s ASC;
	`,
		schema.ForumBoard.ID, schema.ForumBoard.CategoryID, schema.ForumBoard.Name,
		schema.ForumBoard.Description, schema.ForumBoard.CreatedAt, schema.ForumBoard.UpdatedAt,
		schema.ForumCategory.ID, schema.ForumCategory.Name, schema.ForumCategory.Ord, schema.ForumCategory.CreatedAt,
		schema.ForumBoard.Table,
		schema.ForumCategory.Table, schema.ForumBoard.CategoryID, schema.ForumCategory.ID,
		schema.ForumCategory.Ord, schema.ForumBoard.Name,
	)

	rows, err := repository.db.Query(context, query)
	if err != nil {
		return nil, dberr.Wrap(err, "list_boards")
	}
	defer rows.Close()

	boards := make([]*Board, 0)
	for rows.Next() {
		b := &Board{}
		c := &category.Category{}
		if err := rows.Scan(
			&b.ID, &b.CategoryID, &b.Name, &b.Description, &b.CreatedAt, &b.UpdatedAt,
			&c.ID, &c.Name, &c.Ord, &c.CreatedAt,
		); err != nil {
			return nil, dberr.Wrap(err, "scan_board")
		}
		b.Category = c
		boards = append(boards, b)
	}

	return boards, rows.Err()
}

func (repository *PostgresRepository) GetByID(context context.Context, id string) (*Board, error) {
	query := fmt.Sprintf(`
		SELECT b.%s, b.%s, b.%s, b.%s, b.%s, b.%s,
		       c.%s, c.%s, c.%s, c.%s
		FROM %s b
		JOIN %s c ON b.%s = c.%s
		WHERE b.%s = $1;
	`,
		schema.ForumBoard.ID, schema.ForumBoard.CategoryID, schema.ForumBoard.Name,
		schema.ForumBoard.Description, schema.ForumBoard.CreatedAt, schema.ForumBoard.UpdatedAt,
		schema.ForumCategory.ID, schema.ForumCategory.Name, schema.ForumCategory.Ord, schema.ForumCategory.CreatedAt,
		schema.ForumBoard.Table,
		schema.ForumCategory.Table, schema.ForumBoard.CategoryID, schema.ForumCategory.ID,
		schema.ForumBoard.ID,
	)

	b := &Board{}
	c := &category.Category{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&b.ID, &b.CategoryID, &b.Name, &b.Description, &b.CreatedAt, &b.UpdatedAt,
		&c.ID, &c.Name, &c.Ord, &c.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_board")
	}

	b.Category = c
	return b, nil
}

func (repository *PostgresRepository) Update(context context.Context, id string, input UpdateInput) (*Board, error) {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = COALESCE($2, %s),
		    %s = COALESCE($3, %s),
		    %s = COALESCE($4, %s),
		    %s = $5
		WHERE %s = $1;
	`,
		schema.ForumBoard.Table,
		schema.ForumBoard.Name, schema.ForumBoard.Name,
		schema.ForumBoard.Description, schema.ForumBoard.Description,
		schema.ForumBoard.CategoryID, schema.ForumBoard.CategoryID,
		schema.ForumBoard.UpdatedAt,
		schema.ForumBoard.ID,
	)

	tag, err := repository.db.Exec(context, query, id, input.Name, input.Description, input.CategoryID, time.Now())
	if err != nil {
		return nil, dberr.Wrap(err, "update_board")
	}
	if tag.RowsAffected() == 0 {
		return nil, dberr.ErrNotFound
	}

	return repository.GetByID(context, id)
}
