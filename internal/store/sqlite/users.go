package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/listenupapp/pressroom/internal/domain"
	"github.com/listenupapp/pressroom/internal/store"
)

// userColumns is the ordered list of columns selected in user queries.
// Must match the scan order in scanUser.
const userColumns = `id, external_id, email, display_name, avatar_url, role, created_at, updated_at`

// scanUser scans a sql.Row (or sql.Rows via its Scan method) into a domain.User.
func scanUser(scanner interface{ Scan(dest ...any) error }) (*domain.User, error) {
	var u domain.User

	var (
		avatarURL sql.NullString
		role      string
		createdAt string
		updatedAt string
	)

	err := scanner.Scan(
		&u.ID,
		&u.ExternalID,
		&u.Email,
		&u.DisplayName,
		&avatarURL,
		&role,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	u.AvatarURL = avatarURL.String
	u.Role = domain.Role(role)

	u.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	u.UpdatedAt, err = parseTime(updatedAt)
	if err != nil {
		return nil, err
	}

	return &u, nil
}

// ResolveUser is the idempotent resolve-or-create keyed on external_id.
//
// When no row exists, user is inserted as given. When one exists, identity
// attributes are reconciled last-write-wins: a non-empty email, profileName or
// avatar overwrites the stored value, and empty ones keep it. Role and id are
// never changed by reconciliation.
//
// The returned bool is true when the row was inserted.
func (s *Store) ResolveUser(ctx context.Context, user *domain.User, profileName string) (*domain.User, bool, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, external_id, email, display_name, avatar_url, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(external_id) DO UPDATE SET
			email        = CASE WHEN excluded.email <> '' THEN excluded.email ELSE users.email END,
			display_name = CASE WHEN ? <> '' THEN ? ELSE users.display_name END,
			avatar_url   = COALESCE(excluded.avatar_url, users.avatar_url),
			updated_at   = excluded.updated_at
		RETURNING `+userColumns,
		user.ID,
		user.ExternalID,
		user.Email,
		user.DisplayName,
		nullString(user.AvatarURL),
		string(user.Role),
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
		profileName,
		profileName,
	)

	got, err := scanUser(row)
	if err != nil {
		return nil, false, fmt.Errorf("resolve user: %w", err)
	}
	return got, got.ID == user.ID, nil
}

// CreateUser inserts a new user.
// Returns store.ErrAlreadyExists if the id or external id is taken.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, external_id, email, display_name, avatar_url, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		user.ID,
		user.ExternalID,
		user.Email,
		user.DisplayName,
		nullString(user.AvatarURL),
		string(user.Role),
		formatTime(user.CreatedAt),
		formatTime(user.UpdatedAt),
	)
	if isUniqueViolation(err) {
		return store.ErrAlreadyExists
	}
	return err
}

// GetUser retrieves a user by ID.
func (s *Store) GetUser(ctx context.Context, id string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = ?`, id)

	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// GetUserByExternalID retrieves a user by identity provider principal.
func (s *Store) GetUserByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE external_id = ?`, externalID)

	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}

// ListUsers returns all users, newest first.
func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	users := []*domain.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateUserRole changes a user's role. This is the only path that writes role.
func (s *Store) UpdateUserRole(ctx context.Context, id string, role domain.Role) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, `
		UPDATE users SET role = ?, updated_at = ?
		WHERE id = ?
		RETURNING `+userColumns,
		string(role),
		formatTime(time.Now()),
		id,
	)

	u, err := scanUser(row)
	if err != nil {
		return nil, notFound(err)
	}
	return u, nil
}
