package http

import (
	"encoding/json"
	"errors"
	"mime"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/moneytracker/internal/common"
	"github.com/dmitrijs2005/moneytracker/internal/server/models"
	"github.com/shopspring/decimal"
)

type personJSON struct {
	ID      string      `json:"id"`
	Name    string      `json:"name"`
	Balance json.Number `json:"balance"`
}

type transactionJSON struct {
	ID            string      `json:"id"`
	Amount        json.Number `json:"amount"`
	Description   *string     `json:"description"`
	Type          string      `json:"type"`
	Date          string      `json:"date"`
	FormattedDate string      `json:"formattedDate"`
	Person        *personJSON `json:"person"`
}

func money(d decimal.Decimal) json.Number {
	return json.Number(d.StringFixed(models.AmountScale))
}

func toPersonJSON(p *models.Person) *personJSON {
	if p == nil {
		return nil
	}
	return &personJSON{ID: p.ID, Name: p.Name, Balance: money(p.Balance)}
}

func toTransactionJSON(t *models.Transaction) transactionJSON {
	return transactionJSON{
		ID:            t.ID,
		Amount:        money(t.Amount),
		Description:   t.Description,
		Type:          string(t.Type),
		Date:          t.Date.UTC().Format("2006-01-02T15:04:05.000Z07:00"),
		FormattedDate: t.FormattedDate(),
		Person:        toPersonJSON(t.Person),
	}
}

func toPeopleJSON(list []models.Person) []personJSON {
	out := make([]personJSON, 0, len(list))
	for i := range list {
		out = append(out, *toPersonJSON(&list[i]))
	}
	return out
}

func toTransactionsJSON(list []models.Transaction) []transactionJSON {
	out := make([]transactionJSON, 0, len(list))
	for i := range list {
		out = append(out, toTransactionJSON(&list[i]))
	}
	return out
}

func respondJSON(w http.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, code int, msg string) {
	respondJSON(w, code, map[string]string{"error": msg})
}

func respondMessage(w http.ResponseWriter, msg string) {
	respondJSON(w, http.StatusOK, map[string]string{"message": msg})
}

func isInternal(err error) bool {
	return errors.Is(err, common.ErrorInternal)
}

// fail reports err prefixed with what was being attempted. Internal errors
// are 500, everything else the caller got wrong is 400.
func fail(w http.ResponseWriter, prefix string, err error) {
	status := http.StatusBadRequest
	if isInternal(err) {
		status = http.StatusInternalServerError
	}
	respondError(w, status, prefix+err.Error())
}

// params holds request parameters from the query string, a form body or a
// JSON object body.
type params map[string]string

func readParams(r *http.Request) (params, error) {
	p := params{}

	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "application/json" && r.Body != nil && r.ContentLength != 0 {
		dec := json.NewDecoder(r.Body)
		dec.UseNumber()
		var body map[string]any
		if err := dec.Decode(&body); err != nil {
			return nil, errors.New("Invalid JSON")
		}
		for k, v := range body {
			switch v := v.(type) {
			case string:
				p[k] = v
			case json.Number:
				p[k] = v.String()
			case bool:
				if v {
					p[k] = "true"
				} else {
					p[k] = "false"
				}
			}
		}
	}

	if err := r.ParseForm(); err != nil {
		return nil, err
	}
	for k, v := range r.Form {
		if _, ok := p[k]; !ok && len(v) > 0 {
			p[k] = v[0]
		}
	}
	return p, nil
}

// optional returns nil when key is absent or blank.
func (p params) optional(key string) *string {
	v, ok := p[key]
	if !ok || strings.TrimSpace(v) == "" {
		return nil
	}
	return &v
}
