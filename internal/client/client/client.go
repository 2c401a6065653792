package client

import (
	"context"

	"github.com/dmitrijs2005/moneytracker/internal/client/models"
	"github.com/shopspring/decimal"
)

type Client interface {
	Register(ctx context.Context, userName, email string, password []byte) (*models.Session, error)
	Login(ctx context.Context, userName string, password []byte) (*models.Session, error)
	Logout()
	CheckUsername(ctx context.Context, userName string) (bool, error)
	Ping(ctx context.Context) error

	People(ctx context.Context) ([]models.Person, error)
	AddPerson(ctx context.Context, name string) (*models.Person, error)
	DeletePerson(ctx context.Context, name string) error
	Recalculate(ctx context.Context, name string) (*models.Person, error)

	Send(ctx context.Context, name string, amount decimal.Decimal, description string) (*models.Transaction, error)
	Receive(ctx context.Context, name string, amount decimal.Decimal, description string) (*models.Transaction, error)
	Transactions(ctx context.Context) ([]models.Transaction, error)
	PersonTransactions(ctx context.Context, name string) ([]models.Transaction, error)
	Reverse(ctx context.Context, id string) error
	Export(ctx context.Context) (*models.Statement, error)
}
