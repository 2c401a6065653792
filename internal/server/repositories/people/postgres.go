package people

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/moneytracker/internal/common"
	"github.com/dmitrijs2005/moneytracker/internal/dbx"
	"github.com/dmitrijs2005/moneytracker/internal/server/models"
	"github.com/shopspring/decimal"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const selectPerson = `SELECT id, user_id, name, balance, created_at FROM people`

func (r *PostgresRepository) Create(ctx context.Context, person *models.Person) (*models.Person, error) {
	query :=
		`INSERT INTO people (user_id, name, balance)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query, person.UserID, person.Name, person.Balance).
		Scan(&person.ID, &person.CreatedAt)
	if err != nil {
		if dbx.IsUniqueViolation(err) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	return person, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string) ([]models.Person, error) {
	query := selectPerson + `
		 WHERE user_id = $1
		 ORDER BY name COLLATE "C"`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	result := []models.Person{}
	for rows.Next() {
		var p models.Person
		if err := rows.Scan(&p.ID, &p.UserID, &p.Name, &p.Balance, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		result = append(result, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	return result, nil
}

func (r *PostgresRepository) GetByName(ctx context.Context, userID, name string) (*models.Person, error) {
	return r.getOne(ctx, selectPerson+`
		 WHERE user_id = $1 AND name = $2`, userID, name)
}

func (r *PostgresRepository) GetByNameForUpdate(ctx context.Context, userID, name string) (*models.Person, error) {
	return r.getOne(ctx, selectPerson+`
		 WHERE user_id = $1 AND name = $2
		 FOR UPDATE`, userID, name)
}

func (r *PostgresRepository) GetByIDForUpdate(ctx context.Context, id string) (*models.Person, error) {
	return r.getOne(ctx, selectPerson+`
		 WHERE id = $1
		 FOR UPDATE`, id)
}

func (r *PostgresRepository) getOne(ctx context.Context, query string, args ...any) (*models.Person, error) {
	p := &models.Person{}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&p.ID, &p.UserID, &p.Name, &p.Balance, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return p, nil
}

func (r *PostgresRepository) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	query :=
		`UPDATE people SET balance = balance + $2
		 WHERE id = $1
		 RETURNING balance`

	var balance decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, id, delta).Scan(&balance); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Decimal{}, common.ErrorNotFound
		}
		return decimal.Decimal{}, fmt.Errorf("db error: %w", err)
	}
	return balance, nil
}

func (r *PostgresRepository) SetBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	query := `UPDATE people SET balance = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, balance)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM people WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return requireOneRow(res)
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrorNotFound
	}
	return nil
}
