package memory

import (
	"context"
	"sort"

	"github.com/dmitrijs2005/moneytracker/internal/common"
	"github.com/dmitrijs2005/moneytracker/internal/server/models"
	"github.com/google/uuid"
)

type transactionsRepo struct {
	v view
}

func (r *transactionsRepo) Create(ctx context.Context, t *models.Transaction) (*models.Transaction, error) {
	if t.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, err
		}
		t.ID = id.String()
	}

	err := r.v.write(func(d *state) error {
		if _, ok := d.people[t.PersonID]; !ok {
			return common.ErrorNotFound
		}
		if _, ok := d.transactions[t.ID]; ok {
			return common.ErrorConflict
		}

		stored := *t
		stored.Person = nil
		d.transactions[t.ID] = stored
		return nil
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *transactionsRepo) GetByID(ctx context.Context, id string) (*models.Transaction, error) {
	var (
		t  models.Transaction
		ok bool
	)
	r.v.read(func(d *state) {
		if t, ok = d.transactions[id]; ok {
			attachPerson(d, &t)
		}
	})
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (r *transactionsRepo) ListByUser(ctx context.Context, userID string) ([]models.Transaction, error) {
	return r.list(func(t *models.Transaction) bool { return t.UserID == userID }), nil
}

func (r *transactionsRepo) ListByPerson(ctx context.Context, personID string) ([]models.Transaction, error) {
	return r.list(func(t *models.Transaction) bool { return t.PersonID == personID }), nil
}

func (r *transactionsRepo) Delete(ctx context.Context, id string) error {
	return r.v.write(func(d *state) error {
		if _, ok := d.transactions[id]; !ok {
			return common.ErrorNotFound
		}
		delete(d.transactions, id)
		return nil
	})
}

func (r *transactionsRepo) DeleteByPerson(ctx context.Context, personID string) (int64, error) {
	var n int64
	err := r.v.write(func(d *state) error {
		for id, t := range d.transactions {
			if t.PersonID == personID {
				delete(d.transactions, id)
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *transactionsRepo) list(keep func(t *models.Transaction) bool) []models.Transaction {
	result := []models.Transaction{}
	r.v.read(func(d *state) {
		for _, t := range d.transactions {
			if keep(&t) {
				attachPerson(d, &t)
				result = append(result, t)
			}
		}
	})
	sort.Slice(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return result[i].ID > result[j].ID
	})

	return result
}

func attachPerson(d *state, t *models.Transaction) {
	if p, ok := d.people[t.PersonID]; ok {
		t.Person = &p
	}
}
