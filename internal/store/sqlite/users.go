package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/moviekeep/moviekeep-server/internal/domain"
	apperrors "github.com/moviekeep/moviekeep-server/internal/errors"
	"github.com/moviekeep/moviekeep-server/internal/id"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, name, created_at`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User
	var createdAt string

	if err := scanner.Scan(&u.ID, &u.Name, &createdAt); err != nil {
		return nil, err
	}

	var err error
	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUsers returns all users ordered by creation time, then id for a stable
// order between identically timestamped rows.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at, id`)
	if err != nil {
		return nil, apperrors.Storage("list users", err)
	}
	defer rows.Close()

	users := make([]*domain.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, apperrors.Storage("scan user", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("list users", err)
	}
	return users, nil
}

// GetUser retrieves a user by ID.
// Returns errors.ErrNotFound if the user does not exist.
func (s *Store) GetUser(ctx context.Context, userID string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, userID)

	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NotFoundf("user %s not found", userID)
	}
	if err != nil {
		return nil, apperrors.Storage("get user", err)
	}
	return u, nil
}

// AddUser inserts a new user with a freshly assigned ID.
// Returns errors.ErrValidation if the name is empty after trimming.
func (s *Store) AddUser(ctx context.Context, name string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.ValidationWithDetails("name must not be empty", map[string]string{"name": "required"})
	}

	userID, err := id.Generate(id.PrefixUser)
	if err != nil {
		return nil, apperrors.Storage("assign user id", err)
	}

	u := &domain.User{
		ID:        userID,
		Name:      name,
		CreatedAt: time.Now().UTC(),
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO users (id, name, created_at) VALUES (?, ?, ?)`,
		u.ID, u.Name, formatTime(u.CreatedAt))
	if err != nil {
		return nil, apperrors.Storage("insert user", err)
	}

	s.logger.Debug("user created", "user_id", u.ID)
	return u, nil
}

// DeleteUser removes a user and, via the FK cascade, every movie it owns in
// the same transaction. Returns errors.ErrNotFound if the user does not exist,
// including when a concurrent call already deleted it.
func (s *Store) DeleteUser(ctx context.Context, userID string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.Storage("begin delete user", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = ?`, userID)
	if err != nil {
		return apperrors.Storage("delete user", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage("delete user", err)
	}
	if affected == 0 {
		return apperrors.NotFoundf("user %s not found", userID)
	}

	if err := tx.Commit(); err != nil {
		return apperrors.Storage("commit delete user", err)
	}

	s.logger.Debug("user deleted", "user_id", userID)
	return nil
}

// userExists reports whether a user row exists, for ownership pre-checks.
func (s *Store) userExists(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, userID string) (bool, error) {
	var one int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM users WHERE id = ?`, userID).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
