package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/paperloop/paperloop/internal/docs/domain"
	"github.com/paperloop/paperloop/internal/docs/store"
)

type docsRepo struct {
	db *sql.DB
}

const docColumns = `id, name, extension, path, user_id, deleted, thumbnail, created_at`

func scanDoc(row interface{ Scan(...any) error }) (domain.Document, error) {
	var d domain.Document
	err := row.Scan(
		&d.ID,
		&d.Name,
		&d.Extension,
		&d.Path,
		&d.UserID,
		&d.Deleted,
		&d.Thumbnail,
		&d.CreatedAt,
	)
	if err != nil {
		return domain.Document{}, mapNotFound(err)
	}
	return d, nil
}

func (r *docsRepo) CreateDoc(ctx context.Context, d domain.Document) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO docs (id, name, extension, path, user_id, deleted, thumbnail, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.Name, d.Extension, d.Path, d.UserID, d.Deleted, d.Thumbnail, time.Now().UTC())
	return err
}

func (r *docsRepo) GetDocByID(ctx context.Context, id string) (domain.Document, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+docColumns+` FROM docs WHERE id = ?`, id)
	return scanDoc(row)
}

func (r *docsRepo) SetThumbnail(ctx context.Context, id, thumbnail string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE docs SET thumbnail = ? WHERE id = ?`, thumbnail, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *docsRepo) MarkDeleted(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE docs SET deleted = 1 WHERE id = ?`, id)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// docOrderColumns are the only columns ListDocs accepts for ordering.
var docOrderColumns = []string{"created_at", "name"}

func (r *docsRepo) ListDocs(ctx context.Context, f store.DocFilter) ([]domain.Document, int, error) {
	where, args := buildDocWhere(f)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM docs`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + docColumns + ` FROM docs` + where + buildDocOrder(f.Order)

	limit := f.Limit
	if limit == 0 {
		limit = 10
	} else if limit < 0 {
		limit = -1
	}
	query += ` LIMIT ? OFFSET ?`
	args = append(args, limit, max(f.Offset, 0))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var docs []domain.Document
	for rows.Next() {
		d, err := scanDoc(rows)
		if err != nil {
			return nil, 0, err
		}
		docs = append(docs, d)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return docs, total, nil
}

func buildDocWhere(f store.DocFilter) (string, []any) {
	var clauses []string
	var args []any

	if !f.IncludeDeleted {
		clauses = append(clauses, "deleted = 0")
	}
	if f.Extension != "" {
		clauses = append(clauses, "extension = ?")
		args = append(args, f.Extension)
	}
	if f.UserID != "" {
		clauses = append(clauses, "user_id = ?")
		args = append(args, f.UserID)
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func buildDocOrder(order []string) string {
	var clauses []string
	for _, o := range order {
		desc := strings.HasPrefix(o, "-")
		col := strings.TrimPrefix(o, "-")
		for _, allowed := range docOrderColumns {
			if col == allowed {
				if desc {
					clauses = append(clauses, col+" DESC")
				} else {
					clauses = append(clauses, col)
				}
				break
			}
		}
	}

	if len(clauses) == 0 {
		// Stable default so pagination doesn't shuffle between pages.
		return " ORDER BY id"
	}
	return " ORDER BY " + strings.Join(clauses, ", ")
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
