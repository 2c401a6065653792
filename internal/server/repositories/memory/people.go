package memory

import (
	"context"
	"sort"
	"time"

	"github.com/dmitrijs2005/moneytracker/internal/common"
	"github.com/dmitrijs2005/moneytracker/internal/server/models"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type peopleRepo struct {
	v view
}

func (r *peopleRepo) Create(ctx context.Context, person *models.Person) (*models.Person, error) {
	err := r.v.write(func(d *state) error {
		for _, p := range d.people {
			if p.UserID == person.UserID && p.Name == person.Name {
				return common.ErrorConflict
			}
		}

		person.ID = uuid.NewString()
		person.CreatedAt = time.Now().UTC()
		d.people[person.ID] = *person
		return nil
	})
	if err != nil {
		return nil, err
	}
	return person, nil
}

// ListByUser sorts by name byte-wise, matching COLLATE "C".
func (r *peopleRepo) ListByUser(ctx context.Context, userID string) ([]models.Person, error) {
	result := []models.Person{}
	r.v.read(func(d *state) {
		for _, p := range d.people {
			if p.UserID == userID {
				result = append(result, p)
			}
		}
	})
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })

	return result, nil
}

func (r *peopleRepo) GetByName(ctx context.Context, userID, name string) (*models.Person, error) {
	var found *models.Person
	r.v.read(func(d *state) {
		for _, p := range d.people {
			if p.UserID == userID && p.Name == name {
				found = &p
				return
			}
		}
	})
	if found == nil {
		return nil, common.ErrorNotFound
	}
	return found, nil
}

// GetByNameForUpdate needs no row lock: units of work are already serialised.
func (r *peopleRepo) GetByNameForUpdate(ctx context.Context, userID, name string) (*models.Person, error) {
	return r.GetByName(ctx, userID, name)
}

func (r *peopleRepo) GetByIDForUpdate(ctx context.Context, id string) (*models.Person, error) {
	var (
		p  models.Person
		ok bool
	)
	r.v.read(func(d *state) { p, ok = d.people[id] })
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &p, nil
}

func (r *peopleRepo) AdjustBalance(ctx context.Context, id string, delta decimal.Decimal) (decimal.Decimal, error) {
	var balance decimal.Decimal
	err := r.v.write(func(d *state) error {
		p, ok := d.people[id]
		if !ok {
			return common.ErrorNotFound
		}
		p.Balance = p.Balance.Add(delta)
		d.people[id] = p
		balance = p.Balance
		return nil
	})
	if err != nil {
		return decimal.Decimal{}, err
	}
	return balance, nil
}

func (r *peopleRepo) SetBalance(ctx context.Context, id string, balance decimal.Decimal) error {
	return r.v.write(func(d *state) error {
		p, ok := d.people[id]
		if !ok {
			return common.ErrorNotFound
		}
		p.Balance = balance
		d.people[id] = p
		return nil
	})
}

// Delete also drops the person's transactions, like ON DELETE CASCADE.
func (r *peopleRepo) Delete(ctx context.Context, id string) error {
	return r.v.write(func(d *state) error {
		if _, ok := d.people[id]; !ok {
			return common.ErrorNotFound
		}
		delete(d.people, id)
		for tid, t := range d.transactions {
			if t.PersonID == id {
				delete(d.transactions, tid)
			}
		}
		return nil
	})
}
