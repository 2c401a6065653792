package memory

import (
	"context"

	"github.com/dmitrijs2005/moneytracker/internal/common"
	"github.com/dmitrijs2005/moneytracker/internal/server/models"
)

type tokensRepo struct {
	v view
}

func (r *tokensRepo) Create(ctx context.Context, token *models.RefreshToken) error {
	return r.v.write(func(d *state) error {
		if _, ok := d.tokens[token.Token]; ok {
			return common.ErrorConflict
		}
		d.tokens[token.Token] = *token
		return nil
	})
}

func (r *tokensRepo) Find(ctx context.Context, token string) (*models.RefreshToken, error) {
	var (
		t  models.RefreshToken
		ok bool
	)
	r.v.read(func(d *state) { t, ok = d.tokens[token] })
	if !ok {
		return nil, common.ErrorNotFound
	}
	return &t, nil
}

func (r *tokensRepo) Delete(ctx context.Context, token string) error {
	return r.v.write(func(d *state) error {
		delete(d.tokens, token)
		return nil
	})
}
