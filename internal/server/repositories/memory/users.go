package memory

import (
	"context"
	"time"

	"github.com/dmitrijs2005/moneytracker/internal/common"
	"github.com/dmitrijs2005/moneytracker/internal/server/models"
	"github.com/google/uuid"
)

type usersRepo struct {
	v view
}

func (r *usersRepo) Create(ctx context.Context, user *models.User) (*models.User, error) {
	err := r.v.write(func(d *state) error {
		for _, u := range d.users {
			if u.UserName == user.UserName {
				return common.ErrorConflict
			}
			if user.Email != nil && u.Email != nil && *u.Email == *user.Email {
				return common.ErrorConflict
			}
		}

		user.ID = uuid.NewString()
		user.CreatedAt = time.Now().UTC()
		d.users[user.ID] = *user
		return nil
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (r *usersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	var (
		u  models.User
		ok bool
	)
	r.v.read(func(d *state) { u, ok = d.users[id] })
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &u, nil
}

func (r *usersRepo) GetByUserName(ctx context.Context, userName string) (*models.User, error) {
	var found *models.User
	r.v.read(func(d *state) {
		for _, u := range d.users {
			if u.UserName == userName {
				found = &u
				return
			}
		}
	})
	if found == nil {
		return nil, common.ErrorNotFound
	}
	return found, nil
}

func (r *usersRepo) ExistsByUserName(ctx context.Context, userName string) (bool, error) {
	_, err := r.GetByUserName(ctx, userName)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (r *usersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var ok bool
	r.v.read(func(d *state) {
		for _, u := range d.users {
			if u.Email != nil && *u.Email == email {
				ok = true
				return
			}
		}
	})
	return ok, nil
}
