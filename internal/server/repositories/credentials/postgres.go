// Package credentials stores login identities in PostgreSQL.
package credentials

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/staffkeeper/internal/common"
	"github.com/dmitrijs2005/staffkeeper/internal/dbx"
	"github.com/dmitrijs2005/staffkeeper/internal/server/models"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
)

// uniqueViolation is the PostgreSQL SQLSTATE for a unique index conflict.
const uniqueViolation = "23505"

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create inserts c, assigning a fresh UUID when c.ID is empty.
// A duplicate email yields common.ErrAlreadyExists.
func (r *PostgresRepository) Create(ctx context.Context, c *models.Credential) (*models.Credential, error) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO credentials (id, name, email, password_hash, role)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		c.ID, c.Name, c.Email, c.PasswordHash, c.Role).Scan(&c.CreatedAt)

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, common.ErrAlreadyExists
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) GetByEmail(ctx context.Context, email string) (*models.Credential, error) {
	query :=
		`SELECT id, name, email, password_hash, role, created_at FROM credentials
		 WHERE email = $1
		 `

	c := &models.Credential{}
	err := r.db.QueryRowContext(ctx, query, email).
		Scan(&c.ID, &c.Name, &c.Email, &c.PasswordHash, &c.Role, &c.CreatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return c, nil
}

func (r *PostgresRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	query :=
		`SELECT EXISTS (SELECT 1 FROM credentials WHERE email = $1)
		 `

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, email).Scan(&exists); err != nil {
		return false, fmt.Errorf("db error: %w", err)
	}

	return exists, nil
}
