// Package records persists user records in PostgreSQL.
//
// Ids are UUIDs; a malformed id can never match a row, so it is reported as
// common.ErrorNotFound without querying the database.
package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/staffkeeper/internal/common"
	"github.com/dmitrijs2005/staffkeeper/internal/dbx"
	"github.com/dmitrijs2005/staffkeeper/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

func imageArg(p *string) sql.NullString {
	if p == nil || *p == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func imageValue(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func (r *PostgresRepository) List(ctx context.Context) ([]*models.UserRecord, error) {
	query :=
		`SELECT id, name, email, age, image_path, created_at, updated_at FROM user_records
		 ORDER BY created_at
		 `

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := make([]*models.UserRecord, 0)
	for rows.Next() {
		rec := &models.UserRecord{}
		var image sql.NullString
		if err := rows.Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Age, &image, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		rec.ImagePath = imageValue(image)
		result = append(result, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.UserRecord, error) {
	if !validID(id) {
		return nil, common.ErrorNotFound
	}

	query :=
		`SELECT id, name, email, age, image_path, created_at, updated_at FROM user_records
		 WHERE id = $1
		 `

	rec := &models.UserRecord{}
	var image sql.NullString
	err := r.db.QueryRowContext(ctx, query, id).
		Scan(&rec.ID, &rec.Name, &rec.Email, &rec.Age, &image, &rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	rec.ImagePath = imageValue(image)

	return rec, nil
}

func (r *PostgresRepository) Create(ctx context.Context, rec *models.UserRecord) (*models.UserRecord, error) {
	if rec.ID == "" {
		rec.ID = uuid.NewString()
	}

	query :=
		`INSERT INTO user_records (id, name, email, age, image_path)
         VALUES ($1, $2, $3, $4, $5)
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.Name, rec.Email, rec.Age, imageArg(rec.ImagePath)).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

// Update overwrites every mutable column of the row identified by rec.ID.
func (r *PostgresRepository) Update(ctx context.Context, rec *models.UserRecord) (*models.UserRecord, error) {
	if !validID(rec.ID) {
		return nil, common.ErrorNotFound
	}

	query :=
		`UPDATE user_records SET name = $2, email = $3, age = $4, image_path = $5, updated_at = now()
		 WHERE id = $1
		 RETURNING created_at, updated_at
		 `

	err := r.db.QueryRowContext(ctx, query,
		rec.ID, rec.Name, rec.Email, rec.Age, imageArg(rec.ImagePath)).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return rec, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	if !validID(id) {
		return common.ErrorNotFound
	}

	query :=
		`DELETE FROM user_records
		 WHERE id = $1
		 `

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}

	return nil
}
