// Package http exposes the money tracker services as a JSON REST API.
package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/dmitrijs2005/moneytracker/internal/logging"
	"github.com/dmitrijs2005/moneytracker/internal/server/services"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const shutdownTimeout = 10 * time.Second

type HTTPServer struct {
	address string
	users   *services.UserService
	people  *services.PersonService
	ledger  *services.LedgerService
	export  *services.ExportService
	logger  logging.Logger
}

func NewHTTPServer(a string, l logging.Logger, us *services.UserService, ps *services.PersonService,
	ls *services.LedgerService, es *services.ExportService) *HTTPServer {
	return &HTTPServer{
		address: a,
		logger:  l.With("module", "http_server"),
		users:   us,
		people:  ps,
		ledger:  ls,
		export:  es,
	}
}

// Router builds the route table. Everything under /people and /transactions
// requires a bearer token. Routes match the escaped path; handlers decode
// variables with pathVar.
func (s *HTTPServer) Router() *mux.Router {
	r := mux.NewRouter().UseEncodedPath()
	r.Use(s.logRequests, instrument)

	r.HandleFunc("/health", s.health).Methods(http.MethodGet)
	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	a := r.PathPrefix("/auth").Subrouter()
	a.HandleFunc("/register", s.register).Methods(http.MethodPost)
	a.HandleFunc("/login", s.login).Methods(http.MethodPost)
	a.HandleFunc("/refresh", s.refresh).Methods(http.MethodPost)
	a.HandleFunc("/check-username", s.checkUsername).Methods(http.MethodGet)

	p := r.PathPrefix("/people").Subrouter()
	p.Use(s.requireUser)
	p.HandleFunc("/all", s.listPeople).Methods(http.MethodGet)
	p.HandleFunc("/add", s.addPerson).Methods(http.MethodPost)
	p.HandleFunc("/send", s.sendMoney).Methods(http.MethodPost)
	p.HandleFunc("/receive", s.receiveMoney).Methods(http.MethodPost)
	p.HandleFunc("/{name}/transactions", s.listPersonTransactions).Methods(http.MethodGet)
	p.HandleFunc("/{name}/recalculate", s.recalculate).Methods(http.MethodPost)
	p.HandleFunc("/{name}", s.deletePerson).Methods(http.MethodDelete)

	t := r.PathPrefix("/transactions").Subrouter()
	t.Use(s.requireUser)
	t.HandleFunc("/all", s.listTransactions).Methods(http.MethodGet)
	t.HandleFunc("/send", s.sendMoney).Methods(http.MethodPost)
	t.HandleFunc("/receive", s.receiveMoney).Methods(http.MethodPost)
	t.HandleFunc("/export", s.exportStatement).Methods(http.MethodGet)
	t.HandleFunc("/{id}/reverse", s.reverseTransaction).Methods(http.MethodDelete)

	return r
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *HTTPServer) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.address,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			s.logger.Error(ctx, "shutdown error", "error", err)
		}
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) health(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
