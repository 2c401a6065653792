package transactions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/moneytracker/internal/common"
	"github.com/dmitrijs2005/moneytracker/internal/dbx"
	"github.com/dmitrijs2005/moneytracker/internal/server/models"
	"github.com/google/uuid"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// newID is a seam for tests.
var newID = func() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

const selectWithPerson = `SELECT t.id, t.user_id, t.person_id, t.amount, t.description, t.type, t.date,
		        p.name, p.balance, p.created_at
		 FROM transactions t
		 JOIN people p ON p.id = t.person_id`

func (r *PostgresRepository) Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	if t.ID == "" {
		id, err := newID()
		if err != nil {
			return nil, fmt.Errorf("id error: %w", err)
		}
		t.ID = id
	}

	query :=
		`INSERT INTO transactions (id, user_id, person_id, amount, description, type, date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.db.ExecContext(ctx, query,
		t.ID, t.UserID, t.PersonID, t.Amount, t.Description, string(t.Type), t.Date)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return t, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	query := selectWithPerson + `
		 WHERE t.id = $1`

	t, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return t, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	return r.list(ctx, selectWithPerson+`
		 WHERE t.user_id = $1
		 ORDER BY t.date DESC, t.id DESC`, userID)
}

func (r *PostgresRepository) ListByPerson(ctx context.Context, personID string) ([]models.Transaction, error) {
	return r.list(ctx, selectWithPerson+`
		 WHERE t.person_id = $1
		 ORDER BY t.date DESC, t.id DESC`, personID)
}

func (r *PostgresRepository) list(ctx context.Context, query string, arg string) ([]models.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return result, nil
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = $1`, id)
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

func (r *PostgresRepository) DeleteByPerson(ctx context.Context, personID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE person_id = $1`, personID)
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("db error: %w", err)
	}
	return n, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(s scanner) (*models.Transaction, error) {
	var (
		t           models.Transaction
		p           models.Person
		typ         string
		description sql.NullString
	)
	err := s.Scan(&t.ID, &t.UserID, &t.PersonID, &t.Amount, &description, &typ, &t.Date,
		&p.Name, &p.Balance, &p.CreatedAt)
	if err != nil {
		return nil, err
	}

	t.Type = models.TransactionType(typ)
	if description.Valid {
		t.Description = &description.String
	}
	p.ID = t.PersonID
	p.UserID = t.UserID
	t.Person = &p

	return &t, nil
}
