package post

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

func (repository *PostgresRepository) Create(context context.Context, post *Post) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6);
	`,
		schema.ForumPost.Table,
		schema.ForumPost.ID, schema.ForumPost.ThreadID, schema.ForumPost.AuthorID,
		schema.ForumPost.Content, schema.ForumPost.CreatedAt, schema.ForumPost.UpdatedAt,
	)

	now := time.Now()
	post.CreatedAt = now
	post.UpdatedAt = now

	_, err := repository.db.Exec(context, query,
		post.ID, post.ThreadID, post.AuthorID, post.Content, post.CreatedAt, post.UpdatedAt)
	if err != nil {
		return dberr.Wrap(err, "create_post")
	}
	return nil
}

func (repository *PostgresRepository) ListByThread(context context.Context, threadID string, limit, offset int) ([]*Post, int, error) {
	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s = $1",
		schema.ForumPost.Table, schema.ForumPost.ThreadID)

	var total int
	if err := repository.db.QueryRow(context, countQuery, threadID).Scan(&total); err != nil {
		return nil, 0, dberr.Wrap(err, "count_posts")
	}

	query := fmt.Sprintf(`
		SELECT p.%s, p.%s, p.%s, p.%s, p.%s, p.%s,
		       a.%s, a.%s
		FROM %s p
		JOIN %s a ON p.%s = a.%s
		WHERE p.%s = $1
		ORDER BY p.%s ASC
		LIMIT $2 OFFSET $3;
	`,
		schema.ForumPost.ID, schema.ForumPost.ThreadID, schema.ForumPost.AuthorID,
		schema.ForumPost.Content, schema.ForumPost.CreatedAt, schema.ForumPost.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.Username,
		schema.ForumPost.Table,
		schema.UserAccount.Table, schema.ForumPost.AuthorID, schema.UserAccount.ID,
		schema.ForumPost.ThreadID,
		schema.ForumPost.CreatedAt,
	)

	rows, err := repository.db.Query(context, query, threadID, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_posts")
	}
	defer rows.Close()

	posts := make([]*Post, 0, limit)
	for rows.Next() {
		p := &Post{}
		author := &AuthorRef{}
		if err := rows.Scan(
			&p.ID, &p.ThreadID, &p.AuthorID, &p.Content, &p.CreatedAt, &p.UpdatedAt,
			&author.ID, &author.Username,
		); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_post")
		}
		p.Author = author
		posts = append(posts, p)
	}

	return posts, total, rows.Err()
}

func (repository *PostgresRepository) GetByID(context context.Context, id string) (*Post, error) {
	query := fmt.Sprintf(`
		SELECT p.%s, p.%s, p.%s, p.%s, p.%s, p.%s,
		       a.%s, a.%s
		FROM %s p
		JOIN %s a ON p.%s = a.%s
		WHERE p.%s = $1;
	`,
		schema.ForumPost.ID, schema.ForumPost.ThreadID, schema.ForumPost.AuthorID,
		schema.ForumPost.Content, schema.ForumPost.CreatedAt, schema.ForumPost.UpdatedAt,
		schema.UserAccount.ID, schema.UserAccount.Username,
		schema.ForumPost.Table,
		schema.UserAccount.Table, schema.ForumPost.AuthorID, schema.UserAccount.ID,
		schema.ForumPost.ID,
	)

	p := &Post{}
	author := &AuthorRef{}
	err := repository.db.QueryRow(context, query, id).Scan(
		&p.ID, &p.ThreadID, &p.AuthorID, &p.Content, &p.CreatedAt, &p.UpdatedAt,
		&author.ID, &author.Username,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "get_post")
	}

	p.Author = author
	return p, nil
}

func (repository *PostgresRepository) UpdateContent(context context.Context, id, content string) error {
	query := fmt.Sprintf("UPDATE %s SET %s = $2, %s = $3 WHERE %s = $1",
		schema.ForumPost.Table, schema.ForumPost.Content, schema.ForumPost.UpdatedAt, schema.ForumPost.ID)

	tag, err := repository.db.Exec(context, query, id, content, time.Now())
	if err != nil {
		return dberr.Wrap(err, "update_post")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Post not found")
	}
	return nil
}

func (repository *PostgresRepository) Delete(context context.Context, id string) error {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", schema.ForumPost.Table, schema.ForumPost.ID)

	tag, err := repository.db.Exec(context, query, id)
	if err != nil {
		return dberr.Wrap(err, "delete_post")
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("Post not found")
	}
	return nil
}
