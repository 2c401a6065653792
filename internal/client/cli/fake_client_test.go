package cli

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/dmitrijs2005/moneytracker/internal/client/models"
	"github.com/shopspring/decimal"
)

// fakeClient records calls and returns canned answers.
type fakeClient struct {
	calls []string

	session *models.Session
	authErr error

	pingErr error

	people    []models.Person
	person    *models.Person
	personErr error

	tx     *models.Transaction
	txs    []models.Transaction
	txErr  error
	gotArg string
	gotAmt decimal.Decimal
	gotDsc string

	statement *models.Statement
	exportErr error

	loggedOut bool
	password  []byte
}

func (f *fakeClient) record(name string) { f.calls = append(f.calls, name) }

func (f *fakeClient) Register(_ context.Context, userName, email string, password []byte) (*models.Session, error) {
	f.record("register")
	f.gotArg = userName + "|" + email
	f.password = password
	return f.session, f.authErr
}

func (f *fakeClient) Login(_ context.Context, userName string, password []byte) (*models.Session, error) {
	f.record("login")
	f.gotArg = userName
	f.password = password
	return f.session, f.authErr
}

func (f *fakeClient) Logout() {
	f.record("logout")
	f.loggedOut = true
}

func (f *fakeClient) CheckUsername(context.Context, string) (bool, error) { return false, nil }

func (f *fakeClient) Ping(context.Context) error {
	f.record("ping")
	return f.pingErr
}

func (f *fakeClient) People(context.Context) ([]models.Person, error) {
	f.record("people")
	return f.people, f.personErr
}

func (f *fakeClient) AddPerson(_ context.Context, name string) (*models.Person, error) {
	f.record("add")
	f.gotArg = name
	return f.person, f.personErr
}

func (f *fakeClient) DeletePerson(_ context.Context, name string) error {
	f.record("delete")
	f.gotArg = name
	return f.personErr
}

func (f *fakeClient) Recalculate(_ context.Context, name string) (*models.Person, error) {
	f.record("recalc")
	f.gotArg = name
	return f.person, f.personErr
}

func (f *fakeClient) Send(_ context.Context, name string, amount decimal.Decimal, description string) (*models.Transaction, error) {
	f.record("send")
	f.gotArg, f.gotAmt, f.gotDsc = name, amount, description
	return f.tx, f.txErr
}

func (f *fakeClient) Receive(_ context.Context, name string, amount decimal.Decimal, description string) (*models.Transaction, error) {
	f.record("receive")
	f.gotArg, f.gotAmt, f.gotDsc = name, amount, description
	return f.tx, f.txErr
}

func (f *fakeClient) Transactions(context.Context) ([]models.Transaction, error) {
	f.record("transactions")
	return f.txs, f.txErr
}

func (f *fakeClient) PersonTransactions(_ context.Context, name string) ([]models.Transaction, error) {
	f.record("person-transactions")
	f.gotArg = name
	return f.txs, f.txErr
}

func (f *fakeClient) Reverse(_ context.Context, id string) error {
	f.record("reverse")
	f.gotArg = id
	return f.txErr
}

func (f *fakeClient) Export(context.Context) (*models.Statement, error) {
	f.record("export")
	return f.statement, f.exportErr
}

// captureOutput swaps printlnFn for the test and returns the printed lines.
func captureOutput(t *testing.T) *[]string {
	t.Helper()
	var lines []string
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		lines = append(lines, strings.TrimSuffix(fmt.Sprintln(a...), "\n"))
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}
