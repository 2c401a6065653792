package services

import (
	"context"
	"errors"
	"strings"

	"github.com/dmitrijs2005/moneytracker/internal/common"
	"github.com/dmitrijs2005/moneytracker/internal/dbx"
	"github.com/dmitrijs2005/moneytracker/internal/logging"
	"github.com/dmitrijs2005/moneytracker/internal/server/models"
	"github.com/dmitrijs2005/moneytracker/internal/server/repositories/repomanager"
	"github.com/shopspring/decimal"
)

// PersonService manages the counterparties of a user.
type PersonService struct {
	tr          dbx.Transactor
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewPersonService(tr dbx.Transactor, m repomanager.RepositoryManager, logger logging.Logger) *PersonService {
	return &PersonService{tr: tr, repomanager: m, logger: logger.With("service", "people")}
}

// AddPerson creates a person with a zero balance. The name is trimmed and
// must be unique for owner.
func (s *PersonService) AddPerson(ctx context.Context, name string, owner *models.User) (*models.Person, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrPersonNameRequired
	}

	person := &models.Person{UserID: owner.ID, Name: name, Balance: decimal.Zero}
	err := s.tr.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		var err error
		person, err = s.repomanager.People(tx).Create(ctx, person)
		return err
	})
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, ErrPersonExists
		}
		return nil, classify(ctx, s.logger, "add person", err)
	}
	return person, nil
}

// ListPeople returns owner's people ordered by name, byte-wise.
func (s *PersonService) ListPeople(ctx context.Context, owner *models.User) ([]models.Person, error) {
	list, err := s.repomanager.People(s.tr.Conn()).ListByUser(ctx, owner.ID)
	if err != nil {
		return nil, classify(ctx, s.logger, "list people", err)
	}
	return list, nil
}

func (s *PersonService) FindByNameAndOwner(ctx context.Context, name string, owner *models.User) (*models.Person, error) {
	p, err := s.repomanager.People(s.tr.Conn()).GetByName(ctx, owner.ID, strings.TrimSpace(name))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, classify(ctx, s.logger, "find person", err)
	}
	return p, nil
}

// DeletePerson removes a person together with all of its transactions.
func (s *PersonService) DeletePerson(ctx context.Context, name string, owner *models.User) error {
	name = strings.TrimSpace(name)
	var removed int64
	err := s.tr.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		people := s.repomanager.People(tx)

		p, err := people.GetByNameForUpdate(ctx, owner.ID, name)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return ErrPersonNotFound
			}
			return err
		}
		if removed, err = s.repomanager.Transactions(tx).DeleteByPerson(ctx, p.ID); err != nil {
			return err
		}
		return people.Delete(ctx, p.ID)
	})
	if err != nil {
		return classify(ctx, s.logger, "delete person", err)
	}

	s.logger.Info(ctx, "person deleted", "user", owner.UserName, "person", name, "transactions", removed)
	return nil
}
