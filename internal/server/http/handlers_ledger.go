package http

import (
	"net/http"
	"net/url"
	"time"

	"github.com/dmitrijs2005/moneytracker/internal/common"
	"github.com/dmitrijs2005/moneytracker/internal/server/models"
	"github.com/gorilla/mux"
)

func (s *HTTPServer) listPeople(w http.ResponseWriter, r *http.Request) {
	list, err := s.people.ListPeople(r.Context(), userFromContext(r.Context()))
	if err != nil {
		fail(w, "Error getting people: ", err)
		return
	}
	respondJSON(w, http.StatusOK, toPeopleJSON(list))
}

func (s *HTTPServer) addPerson(w http.ResponseWriter, r *http.Request) {
	const prefix = "Error adding person: "

	p, err := readParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, prefix+err.Error())
		return
	}

	person, err := s.people.AddPerson(r.Context(), p["name"], userFromContext(r.Context()))
	if err != nil {
		fail(w, prefix, err)
		return
	}
	respondJSON(w, http.StatusOK, toPersonJSON(person))
}

// pathVar returns a route variable decoded. The router matches on the
// escaped path so that a name may contain "/".
func pathVar(w http.ResponseWriter, r *http.Request, key, prefix string) (string, bool) {
	v, err := url.PathUnescape(mux.Vars(r)[key])
	if err != nil {
		respondError(w, http.StatusBadRequest, prefix+err.Error())
		return "", false
	}
	return v, true
}

func (s *HTTPServer) deletePerson(w http.ResponseWriter, r *http.Request) {
	const prefix = "Error deleting person: "

	name, ok := pathVar(w, r, "name", prefix)
	if !ok {
		return
	}
	if err := s.people.DeletePerson(r.Context(), name, userFromContext(r.Context())); err != nil {
		fail(w, prefix, err)
		return
	}
	respondMessage(w, "Person deleted successfully")
}

func (s *HTTPServer) listPersonTransactions(w http.ResponseWriter, r *http.Request) {
	const prefix = "Error getting transactions: "

	name, ok := pathVar(w, r, "name", prefix)
	if !ok {
		return
	}
	list, err := s.ledger.ListForPerson(r.Context(), name, userFromContext(r.Context()))
	if err != nil {
		fail(w, prefix, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionsJSON(list))
}

func (s *HTTPServer) recalculate(w http.ResponseWriter, r *http.Request) {
	const prefix = "Error recalculating balance: "

	name, ok := pathVar(w, r, "name", prefix)
	if !ok {
		return
	}
	person, err := s.ledger.Recalculate(r.Context(), name, userFromContext(r.Context()))
	if err != nil {
		fail(w, prefix, err)
		return
	}
	respondJSON(w, http.StatusOK, toPersonJSON(person))
}

func (s *HTTPServer) sendMoney(w http.ResponseWriter, r *http.Request) {
	s.moveMoney(w, r, models.Send, "Error sending money: ")
}

func (s *HTTPServer) receiveMoney(w http.ResponseWriter, r *http.Request) {
	s.moveMoney(w, r, models.Receive, "Error receiving money: ")
}

func (s *HTTPServer) moveMoney(w http.ResponseWriter, r *http.Request, typ models.TransactionType, prefix string) {
	p, err := readParams(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, prefix+err.Error())
		return
	}

	amount, err := models.ParseAmount(p["amount"])
	if err != nil {
		fail(w, prefix, common.ErrInvalidAmount)
		return
	}

	var (
		t     *models.Transaction
		owner = userFromContext(r.Context())
	)
	if typ == models.Send {
		t, err = s.ledger.SendMoney(r.Context(), p["name"], amount, p.optional("description"), owner)
	} else {
		t, err = s.ledger.ReceiveMoney(r.Context(), p["name"], amount, p.optional("description"), owner)
	}
	if err != nil {
		fail(w, prefix, err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionJSON(t))
}

func (s *HTTPServer) listTransactions(w http.ResponseWriter, r *http.Request) {
	list, err := s.ledger.ListForUser(r.Context(), userFromContext(r.Context()))
	if err != nil {
		fail(w, "Error getting transactions: ", err)
		return
	}
	respondJSON(w, http.StatusOK, toTransactionsJSON(list))
}

func (s *HTTPServer) reverseTransaction(w http.ResponseWriter, r *http.Request) {
	const prefix = "Error reversing transaction: "

	id, ok := pathVar(w, r, "id", prefix)
	if !ok {
		return
	}
	if err := s.ledger.ReverseTransaction(r.Context(), id, userFromContext(r.Context())); err != nil {
		fail(w, prefix, err)
		return
	}
	respondMessage(w, "Transaction reversed successfully")
}

func (s *HTTPServer) exportStatement(w http.ResponseWriter, r *http.Request) {
	stmt, err := s.export.Export(r.Context(), userFromContext(r.Context()))
	if err != nil {
		fail(w, "Error exporting statement: ", err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"url":     stmt.URL,
		"key":     stmt.Key,
		"rows":    stmt.Rows,
		"expires": stmt.Expires.UTC().Format(time.RFC3339),
	})
}
