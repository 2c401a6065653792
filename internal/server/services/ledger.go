package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/dmitrijs2005/moneytracker/internal/common"
	"github.com/dmitrijs2005/moneytracker/internal/dbx"
	"github.com/dmitrijs2005/moneytracker/internal/logging"
	"github.com/dmitrijs2005/moneytracker/internal/server/models"
	"github.com/dmitrijs2005/moneytracker/internal/server/repositories/repomanager"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerService records money sent to and received from people.
//
// Every person's Balance equals the sum of the signed amounts of its
// transactions (Send adds, Receive subtracts). Each write below keeps that
// true within a single storage transaction, with the person row locked.
type LedgerService struct {
	tr          dbx.Transactor
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

func NewLedgerService(tr dbx.Transactor, m repomanager.RepositoryManager, logger logging.Logger) *LedgerService {
	return &LedgerService{tr: tr, repomanager: m, logger: logger.With("service", "ledger")}
}

// SendMoney records that owner gave amount to the named person.
func (s *LedgerService) SendMoney(ctx context.Context, personName string, amount decimal.Decimal, description *string, owner *models.User) (*models.Transaction, error) {
	return s.record(ctx, models.Send, personName, amount, description, owner)
}

// ReceiveMoney records that owner got amount from the named person.
func (s *LedgerService) ReceiveMoney(ctx context.Context, personName string, amount decimal.Decimal, description *string, owner *models.User) (*models.Transaction, error) {
	return s.record(ctx, models.Receive, personName, amount, description, owner)
}

func (s *LedgerService) record(ctx context.Context, typ models.TransactionType, personName string, amount decimal.Decimal, description *string, owner *models.User) (*models.Transaction, error) {
	personName = strings.TrimSpace(personName)

	var t *models.Transaction
	err := s.tr.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		person, err := s.repomanager.People(tx).GetByNameForUpdate(ctx, owner.ID, personName)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return ErrPersonNotFound
			}
			return err
		}
		if !models.ValidateAmount(amount) {
			return common.ErrInvalidAmount
		}
		desc, err := normalizeDescription(description)
		if err != nil {
			return err
		}

		t = &models.Transaction{
			UserID:      owner.ID,
			PersonID:    person.ID,
			Amount:      amount,
			Description: desc,
			Type:        typ,
			Date:        timeNow().UTC(),
		}
		return s.applyDelta(ctx, tx, person, t)
	})
	if err != nil {
		return nil, classify(ctx, s.logger, "record "+string(typ), err)
	}

	transactionsCreated.WithLabelValues(string(typ)).Inc()
	s.logger.Debug(ctx, "transaction recorded", "user", owner.UserName, "id", t.ID, "type", typ)
	return t, nil
}

// applyDelta is the only place a transaction is appended. It moves the
// person's balance by t's signed amount and stores t, both on tx. person must
// already be locked; on return t.Person holds its updated state.
func (s *LedgerService) applyDelta(ctx context.Context, tx dbx.DBTX, person *models.Person, t *models.Transaction) error {
	if !models.BalanceInRange(person.Balance.Add(t.SignedAmount())) {
		return ErrBalanceOutOfRange
	}
	balance, err := s.repomanager.People(tx).AdjustBalance(ctx, person.ID, t.SignedAmount())
	if err != nil {
		return err
	}
	if _, err := s.repomanager.Transactions(tx).Create(ctx, t); err != nil {
		return err
	}

	snapshot := *person
	snapshot.Balance = balance
	t.Person = &snapshot
	return nil
}

// ReverseTransaction undoes a transaction: its person's balance moves back by
// the signed amount and the transaction is deleted. Only the owner may
// reverse it.
func (s *LedgerService) ReverseTransaction(ctx context.Context, id string, requester *models.User) error {
	if _, err := uuid.Parse(id); err != nil {
		return ErrTransactionNotFound
	}

	var typ models.TransactionType
	err := s.tr.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		transactions := s.repomanager.Transactions(tx)

		t, err := transactions.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return ErrTransactionNotFound
			}
			return err
		}
		if t.UserID != requester.ID {
			return ErrNotTransactionOwner
		}
		typ = t.Type

		people := s.repomanager.People(tx)
		person, err := people.GetByIDForUpdate(ctx, t.PersonID)
		if err != nil {
			return err
		}
		if !models.BalanceInRange(person.Balance.Sub(t.SignedAmount())) {
			return ErrBalanceOutOfRange
		}
		if _, err := people.AdjustBalance(ctx, t.PersonID, t.SignedAmount().Neg()); err != nil {
			return err
		}
		if err := transactions.Delete(ctx, id); err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				// reversed concurrently
				return ErrTransactionNotFound
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, common.ErrorForbidden) {
			s.logger.Warn(ctx, "reverse refused", "user", requester.UserName, "id", id)
		}
		return classify(ctx, s.logger, "reverse transaction", err)
	}

	transactionsReversed.WithLabelValues(string(typ)).Inc()
	return nil
}

// ListForUser returns every transaction of owner, newest first.
func (s *LedgerService) ListForUser(ctx context.Context, owner *models.User) ([]models.Transaction, error) {
	list, err := s.repomanager.Transactions(s.tr.Conn()).ListByUser(ctx, owner.ID)
	if err != nil {
		return nil, classify(ctx, s.logger, "list transactions", err)
	}
	return list, nil
}

// ListForPerson returns the transactions with the named person, newest first.
func (s *LedgerService) ListForPerson(ctx context.Context, personName string, owner *models.User) ([]models.Transaction, error) {
	conn := s.tr.Conn()
	person, err := s.repomanager.People(conn).GetByName(ctx, owner.ID, strings.TrimSpace(personName))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return nil, ErrPersonNotFound
		}
		return nil, classify(ctx, s.logger, "list person transactions", err)
	}

	list, err := s.repomanager.Transactions(conn).ListByPerson(ctx, person.ID)
	if err != nil {
		return nil, classify(ctx, s.logger, "list person transactions", err)
	}
	return list, nil
}

// Recalculate rebuilds a person's balance from its transactions, oldest
// first, and stores it.
func (s *LedgerService) Recalculate(ctx context.Context, personName string, owner *models.User) (*models.Person, error) {
	personName = strings.TrimSpace(personName)

	var person *models.Person
	err := s.tr.WithTx(ctx, func(ctx context.Context, tx dbx.DBTX) error {
		people := s.repomanager.People(tx)

		var err error
		person, err = people.GetByNameForUpdate(ctx, owner.ID, personName)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return ErrPersonNotFound
			}
			return err
		}

		list, err := s.repomanager.Transactions(tx).ListByPerson(ctx, person.ID)
		if err != nil {
			return err
		}

		balance := decimal.Zero
		for i := len(list) - 1; i >= 0; i-- {
			balance = balance.Add(list[i].SignedAmount())
		}

		if !balance.Equal(person.Balance) {
			s.logger.Warn(ctx, "balance drift corrected", "person", person.ID, "stored", person.Balance.String(), "computed", balance.String())
		}
		person.Balance = balance
		return people.SetBalance(ctx, person.ID, balance)
	})
	if err != nil {
		return nil, classify(ctx, s.logger, "recalculate", err)
	}
	return person, nil
}

func normalizeDescription(d *string) (*string, error) {
	if d == nil {
		return nil, nil
	}
	trimmed := strings.TrimSpace(*d)
	if trimmed == "" {
		return nil, nil
	}
	if utf8.RuneCountInString(trimmed) > models.DescriptionMaxLen {
		return nil, ErrDescriptionTooLong
	}
	return &trimmed, nil
}
