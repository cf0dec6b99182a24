package thread

import (
	"context"
	"fmt"
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

func (repository *PostgresRepository) Create(context context.Context, thread *Thread) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, FALSE, FALSE, $6, $7);
	`,
		schema.ForumThread.Table,
		schema.ForumThread.ID, schema.ForumThread.BoardID, schema.ForumThread.AuthorID,
		schema.ForumThread.Title, schema.ForumThread.Content,
		schema.ForumThread.IsPinned, schema.ForumThread.IsLocked,
		schema.ForumThread.CreatedAt, schema.ForumThread.UpdatedAt,
	)

	now := time.Now()
	thread.CreatedAt = now
	thread.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		thread.ID, thread.BoardID, thread.AuthorID, thread.Title, thread.Content,
		thread.CreatedAt, thread.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_thread")
	}
	return nil
}

func (repository *PostgresRepository) ListByBoard(context context.Context, boardID string, limit, offset int) ([]*Thread, int, error) {
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = $1",
		schema.ForumThread.Table, schema.ForumThread.BoardID)

	var total int
	if err := repository.db.QueryRow(context, countQuery, boardID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_threads")
	}

	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s, t.%s, t.%s, t.%s, t.%s, t.%s,
		       a.%s, a.%s
		FROM %s t
		JOIN %s a ON t.%s = a.%s
		WHERE t.%s = $1
		ORDER BY t.%s DESC, t.%s DESC
		LIMIT $2 OFFSET $3;
	`,
		schema.ForumThread.ID, schema.ForumThread.BoardID, schema.ForumThread.AuthorID,
		schema.ForumThread.Title, schema.ForumThread.Content,
		schema.ForumThread.IsPinned, schema.ForumThread.IsLocked,
		schema.ForumThread.CreatedAt, schema.ForumThread.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.Username,
		schema.ForumThread.Table,
		schema.UserAccount.Table, schema.ForumThread.AuthorID, schema.UserAccount.ID,
		schema.ForumThread.BoardID,
		schema.ForumThread.IsPinned, schema.ForumThread.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, boardID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_threads")
	}
	defer rows.Close()

	threads := make([]*Thread, 0, limit)
	for rows.Next() {
		t := &Thread{}
		author := &AuthorRef{}
		if err := rows.Scan(
			&t.ID, &t.BoardID, &t.AuthorID, &t.Title, &t.Content,
			&t.IsPinned, &t.IsLocked, &t.CreatedAt, &t.UpdatedAt,
			&author.ID, &author.Username,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_thread")
		}
		t.Author = author
		threads = append(threads, t)
	}

	return threads, total, rows.Err()
}

func (repository *PostgresRepository) GetByID(context context.Context, id string) (*Thread, error) {
	query := fmt.Sprintf(`
		SELECT t.%s, t.%s, t.%s, t.%s, t.%s, t.%s, t.%s, t.%s, t.%s,
		       a.%s, a.%s
		FROM %s t
		JOIN %s a ON t.%s = a.%s
		WHERE t.%s = $1;
	`,
		schema.ForumThread.ID, schema.ForumThread.BoardID, schema.ForumThread.AuthorID,
		schema.ForumThread.Title, schema.ForumThread.Content,
		schema.ForumThread.IsPinned, schema.ForumThread.IsLocked,
		schema.ForumThread.CreatedAt, schema.ForumThread.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.Username,
		schema.ForumThread.Table,
		schema.UserAccount.Table, schema.ForumThread.AuthorID, schema.UserAccount.ID,
		schema.ForumThread.ID,
	)

	t := &Thread{}
	author := &AuthorRef{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&t.ID, &t.BoardID, &t.AuthorID, &t.Title, &t.Content,
		&t.IsPinned, &t.IsLocked, &t.CreatedAt, &t.UpdatedAt,
		&author.ID, &author.Username,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_thread")
	}

	t.Author = author
	return t, nil
}

func (repository *PostgresRepository) SetPinned(context context.Context, id string, pinned bool) error {
	return repository.setFlag(context, schema.ForumThread.IsPinned, id, pinned)
}

func (repository *PostgresRepository) SetLocked(context context.Context, id string, locked bool) error {
	return repository.setFlag(context, schema.ForumThread.IsLocked, id, locked)
}

func (repository *PostgresRepository) setFlag(context context.Context, column, id string, value bool) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1",
		schema.ForumThread.Table, column, schema.ForumThread.UpdatedAt, schema.ForumThread.ID)

	tag, err := repository.db.Exec(context, query, id, value, time.Now())
	if err != nil {
		return dberr.Wrap(err, "set_thread_flag")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Thread not found")
	}
	return nil
}

func (repository *PostgresRepository) UpdateTitle(context context.Context, id, title string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1",
		schema.ForumThread.Table, schema.ForumThread.Title, schema.ForumThread.UpdatedAt, schema.ForumThread.ID)

	tag, err := repository.db.Exec(context, query, id, title, time.Now())
	if err != nil {
		return dberr.Wrap(err, "update_thread_title")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Thread not found")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.ForumThread.Table, schema.ForumThread.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_thread")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Thread not found")
	}
	return nil
}
