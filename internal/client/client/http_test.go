package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dmitrijs2005/moneytracker/internal/client/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestClient(t *testing.T, h http.Handler) *HTTPClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewHTTPClient(srv.URL+"/", time.Second)
}

func TestHTTPClient_LoginStoresTokens(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/login", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "alice", body["username"])
		assert.Equal(t, "secret", body["password"])
		writeJSON(w, http.StatusOK, map[string]string{"token": "acc", "refreshToken": "ref", "username": "alice"})
	})
	mux.HandleFunc("/people/all", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer acc", r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, []map[string]any{{"id": "p1", "name": "Bob", "balance": 12.5}})
	})

	c := newTestClient(t, mux)
	ctx := context.Background()

	s, err := c.Login(ctx, "alice", []byte("secret"))
	require.NoError(t, err)
	assert.Equal(t, "alice", s.Username)

	people, err := c.People(ctx)
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "Bob", people[0].Name)
	assert.True(t, decimal.RequireFromString("12.5").Equal(people[0].Balance))
}

func TestHTTPClient_NotLoggedIn(t *testing.T) {
	c := newTestClient(t, http.NotFoundHandler())

	_, err := c.People(context.Background())
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}

func TestHTTPClient_RefreshesExpiredTokenOnce(t *testing.T) {
	var refreshes, calls atomic.Int32

	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		refreshes.Add(1)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "ref", body["refreshToken"])
		writeJSON(w, http.StatusOK, map[string]string{"token": "fresh", "refreshToken": "ref2", "username": "alice"})
	})
	mux.HandleFunc("/transactions/send", func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh" {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
			return
		}
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "Bob", r.PostForm.Get("name"))
		assert.Equal(t, "50", r.PostForm.Get("amount"))
		assert.Equal(t, "lunch", r.PostForm.Get("description"))
		writeJSON(w, http.StatusOK, map[string]any{"id": "t1", "amount": 50, "type": "SEND"})
	})

	c := newTestClient(t, mux)
	c.setSession(&models.Session{Token: "stale", RefreshToken: "ref"})

	tx, err := c.Send(context.Background(), "Bob", decimal.NewFromInt(50), "lunch")
	require.NoError(t, err)
	assert.Equal(t, "t1", tx.ID)
	assert.Equal(t, int32(1), refreshes.Load())
	assert.Equal(t, int32(2), calls.Load())

	access, refresh := c.tokens()
	assert.Equal(t, "fresh", access)
	assert.Equal(t, "ref2", refresh)
}

func TestHTTPClient_RefreshRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/refresh", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "refresh token expired"})
	})
	mux.HandleFunc("/transactions/all", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token expired"})
	})

	c := newTestClient(t, mux)
	c.setSession(&models.Session{Token: "stale", RefreshToken: "ref"})

	_, err := c.Transactions(context.Background())
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestHTTPClient_APIError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/people/add", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Error adding person: Person with this name already exists"})
	})

	c := newTestClient(t, mux)
	c.setSession(&models.Session{Token: "acc"})

	_, err := c.AddPerson(context.Background(), "Bob")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Error adding person: Person with this name already exists", apiErr.Error())
}

func TestHTTPClient_EscapesPersonName(t *testing.T) {
	var gotPath string
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		writeJSON(w, http.StatusOK, map[string]string{"message": "Person deleted successfully"})
	})

	c := newTestClient(t, h)
	c.setSession(&models.Session{Token: "acc"})

	require.NoError(t, c.DeletePerson(context.Background(), "Mary Ann/2"))
	assert.Equal(t, "/people/Mary%20Ann%2F2", gotPath)
}

func TestHTTPClient_Unavailable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewHTTPClient(url, time.Second)
	err := c.Ping(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestHTTPClient_CheckUsernameAndLogout(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/auth/check-username", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]bool{"exists": r.URL.Query().Get("username") == "admin"})
	})

	c := newTestClient(t, mux)
	ctx := context.Background()

	ok, err := c.CheckUsername(ctx, "admin")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = c.CheckUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.False(t, ok)

	c.setSession(&models.Session{Token: "acc", RefreshToken: "ref"})
	c.Logout()
	access, refresh := c.tokens()
	assert.Empty(t, access)
	assert.Empty(t, refresh)
}

func TestHTTPClient_ExportAndReverse(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/transactions/export", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"url": "http://s3/get/k", "key": "k", "rows": 3, "expires": "2024-01-01T00:15:00Z"})
	})
	mux.HandleFunc("/transactions/abc/reverse", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		writeJSON(w, http.StatusOK, map[string]string{"message": "Transaction reversed successfully"})
	})

	c := newTestClient(t, mux)
	c.setSession(&models.Session{Token: "acc"})
	ctx := context.Background()

	st, err := c.Export(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, st.Rows)
	assert.Equal(t, "http://s3/get/k", st.URL)

	require.NoError(t, c.Reverse(ctx, "abc"))
}
