// Package userstore persists principals.
package userstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gamevault/internal/auth"
	"gamevault/internal/db"

	"github.com/google/uuid"
)

// Postgres implements auth.UserStore on the shared SQL handle.
type Postgres struct {
	db *db.DB
}

var _ auth.UserStore = (*Postgres)(nil)

func NewPostgres(db *db.DB) *Postgres {
	return &Postgres{db: db}
}

const principalColumns = `id, username, email, digest, role, created_at, updated_at`

func (s *Postgres) scanPrincipal(row *sql.Row) (*auth.Principal, error) {
	var (
		id uuid.UUID
		p  auth.Principal
	)
	err := row.Scan(&id, &p.Username, &p.Email, &p.Digest, &p.Role, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	p.ID = id.String()
	return &p, nil
}

func (s *Postgres) FindByID(ctx context.Context, id string) (*auth.Principal, error) {
	uid, err := uuid.Parse(id)
	if err != nil {
		// A session can carry an id shape the store never issued; that
		// is a lookup miss, not a store failure.
		return nil, nil
	}
	row := s.db.QueryRowContext(ctx, `
		SELECT `+principalColumns+`
		FROM users
		WHERE id = $1
	`, uid)
	return s.scanPrincipal(row)
}

func (s *Postgres) FindByUsername(ctx context.Context, username string) (*auth.Principal, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+principalColumns+`
		FROM users
		WHERE LOWER(username) = LOWER($1)
	`, username)
	return s.scanPrincipal(row)
}

func (s *Postgres) FindByEmail(ctx context.Context, email string) (*auth.Principal, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+principalColumns+`
		FROM users
		WHERE LOWER(email) = LOWER($1)
	`, email)
	return s.scanPrincipal(row)
}

func (s *Postgres) Create(ctx context.Context, p *auth.Principal) error {
	if p.Digest == "" {
		return errors.New("userstore: refusing to create principal with empty digest")
	}
	if p.Role == "" {
		p.Role = auth.RoleUser
	}
	if !p.Role.Valid() {
		return fmt.Errorf("userstore: invalid role %q", p.Role)
	}
	if p.ID == "" {
		p.ID = uuid.NewString()
	}

	return s.db.QueryRowContext(ctx, `
		INSERT INTO users (id, username, email, digest, role)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at
	`, p.ID, p.Username, p.Email, p.Digest, p.Role).Scan(&p.CreatedAt, &p.UpdatedAt)
}

func (s *Postgres) UpdateDigest(ctx context.Context, id, digest string) error {
	if digest == "" {
		return errors.New("userstore: refusing to clear a digest")
	}
	_, err := s.db.ExecContext(ctx, `
		UPDATE users
		SET digest = $2, updated_at = NOW()
		WHERE id = $1
	`, id, digest)
	return err
}
