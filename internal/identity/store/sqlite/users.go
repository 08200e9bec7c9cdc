package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/paperloop/paperloop/internal/identity/domain"
	"github.com/paperloop/paperloop/internal/identity/store"
)

type usersRepo struct {
	db *sql.DB
}

const userColumns = `id, username, email, first_name, last_name, password_hash, is_active, is_staff, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.Username,
		&u.Email,
		&u.FirstName,
		&u.LastName,
		&u.PasswordHash,
		&u.IsActive,
		&u.IsStaff,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return domain.User{}, mapNotFound(err)
	}
	return u, nil
}

func (r *usersRepo) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

func (r *usersRepo) GetUserByUsername(ctx context.Context, username string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ?`, username)
	return scanUser(row)
}

func (r *usersRepo) GetUserByLogin(ctx context.Context, usernameOrEmail string) (domain.User, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = ? OR email = ?`,
		usernameOrEmail, usernameOrEmail)
	return scanUser(row)
}

func (r *usersRepo) CreateUser(ctx context.Context, u domain.User) error {
	now := time.Now().UTC()
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO users (id, username, email, first_name, last_name, password_hash, is_active, is_staff, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		u.ID, u.Username, u.Email, u.FirstName, u.LastName, u.PasswordHash,
		u.IsActive, u.IsStaff, now, now)
	return mapUnique(err)
}

func (r *usersRepo) UpdateProfile(ctx context.Context, userID, username, firstName, lastName string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET username = ?, first_name = ?, last_name = ?, updated_at = ? WHERE id = ?`,
		username, firstName, lastName, time.Now().UTC(), userID)
	if err != nil {
		return mapUnique(err)
	}
	return requireRow(res)
}

func (r *usersRepo) UpdatePasswordHash(ctx context.Context, userID string, newHash string) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET password_hash = ?, updated_at = ? WHERE id = ?`,
		newHash, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) SetActive(ctx context.Context, userID string, active bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_active = ?, updated_at = ? WHERE id = ?`,
		active, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

func (r *usersRepo) SetStaff(ctx context.Context, userID string, staff bool) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE users SET is_staff = ?, updated_at = ? WHERE id = ?`,
		staff, time.Now().UTC(), userID)
	if err != nil {
		return err
	}
	return requireRow(res)
}

// filterableColumns are the only columns ListUsers accepts for filtering and
// ordering. Anything else in the request is ignored before it gets here.
var filterableColumns = []string{"username", "email", "first_name", "last_name"}

func (r *usersRepo) ListUsers(ctx context.Context, f store.UserFilter) ([]domain.User, int, error) {
	where, args := buildUserWhere(f)

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`+where, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := `SELECT ` + userColumns + ` FROM users` + where + buildUserOrder(f.Order)

	// Limit 0 means the default page size; negative means no limit, which
	// SQLite spells LIMIT -1. The CSV export relies on the latter.
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

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, err
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func buildUserWhere(f store.UserFilter) (string, []any) {
	values := map[string]string{
		"username":   f.Username,
		"email":      f.Email,
		"first_name": f.FirstName,
		"last_name":  f.LastName,
	}

	var clauses []string
	var args []any
	for _, col := range filterableColumns {
		if v := values[col]; v != "" {
			clauses = append(clauses, col+" = ?")
			args = append(args, v)
		}
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func buildUserOrder(order []string) string {
	var clauses []string
	for _, o := range order {
		desc := strings.HasPrefix(o, "-")
		col := strings.TrimPrefix(o, "-")
		for _, allowed := range filterableColumns {
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
