package services

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/dmitrijs2005/moneytracker/internal/dbx"
	"github.com/dmitrijs2005/moneytracker/internal/logging"
	"github.com/dmitrijs2005/moneytracker/internal/server/config"
	"github.com/dmitrijs2005/moneytracker/internal/server/models"
	"github.com/dmitrijs2005/moneytracker/internal/server/repositories/memory"
	"github.com/dmitrijs2005/moneytracker/internal/server/repositories/people"
	"github.com/dmitrijs2005/moneytracker/internal/server/repositories/refreshtokens"
	"github.com/dmitrijs2005/moneytracker/internal/server/repositories/transactions"
	"github.com/dmitrijs2005/moneytracker/internal/server/repositories/users"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                    "k",
		AccessTokenValidityDuration:  time.Hour,
		RefreshTokenValidityDuration: 2 * time.Hour,
		S3Bucket:                     "statements",
		S3Region:                     "us-east-1",
		S3BaseEndpoint:               "http://localhost:9000",
	}
}

type env struct {
	store  *memory.Store
	users  *UserService
	people *PersonService
	ledger *LedgerService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	store := memory.NewStore()
	log := logging.NewNop()
	return &env{
		store:  store,
		users:  NewUserService(store, store, testConfig(), log),
		people: NewPersonService(store, store, log),
		ledger: NewLedgerService(store, store, log),
	}
}

func (e *env) register(t *testing.T, name string) *models.User {
	t.Helper()
	u, err := e.users.Register(context.Background(), name, "", "secret")
	require.NoError(t, err)
	return u
}

func (e *env) addPerson(t *testing.T, owner *models.User, name string) *models.Person {
	t.Helper()
	p, err := e.people.AddPerson(context.Background(), name, owner)
	require.NoError(t, err)
	return p
}

func newSQLMockTransactor(t *testing.T) (*dbx.SQLTransactor, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return dbx.NewSQLTransactor(db, nil), mock
}

// fakeRepoManager returns whichever repositories are set; the rest are nil.
type fakeRepoManager struct {
	u  users.Repository
	r  refreshtokens.Repository
	p  people.Repository
	tx transactions.Repository
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error    { return nil }
func (m *fakeRepoManager) Users(dbx.DBTX) users.Repository                 { return m.u }
func (m *fakeRepoManager) RefreshTokens(dbx.DBTX) refreshtokens.Repository { return m.r }
func (m *fakeRepoManager) People(dbx.DBTX) people.Repository               { return m.p }
func (m *fakeRepoManager) Transactions(dbx.DBTX) transactions.Repository   { return m.tx }

type fakeUsersRepo struct {
	users.Repository

	getOut    *models.User
	getErr    error
	existsErr error
	createErr error

	// emailTakenByRace makes ExistsByEmail report true once Create was tried.
	emailTakenByRace bool
	createCalled     bool
}

func (f *fakeUsersRepo) GetByID(context.Context, string) (*models.User, error) {
	return f.getOut, f.getErr
}

func (f *fakeUsersRepo) GetByUserName(context.Context, string) (*models.User, error) {
	return f.getOut, f.getErr
}

func (f *fakeUsersRepo) ExistsByUserName(context.Context, string) (bool, error) {
	return false, f.existsErr
}

func (f *fakeUsersRepo) ExistsByEmail(context.Context, string) (bool, error) {
	return f.emailTakenByRace && f.createCalled, f.existsErr
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.createCalled = true
	if f.createErr != nil {
		return nil, f.createErr
	}
	u.ID = "u1"
	return u, nil
}

type fakeRefreshRepo struct {
	findOut   *models.RefreshToken
	findErr   error
	delErr    error
	createErr error
}

func (f *fakeRefreshRepo) Create(context.Context, *models.RefreshToken) error { return f.createErr }
func (f *fakeRefreshRepo) Find(context.Context, string) (*models.RefreshToken, error) {
	return f.findOut, f.findErr
}
func (f *fakeRefreshRepo) Delete(context.Context, string) error { return f.delErr }
