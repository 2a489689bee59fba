package identity

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"emojichirp/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL+"/", "sk_test", 0)
}

func TestListByIDs(t *testing.T) {
	var calls int
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/v1/users", r.URL.Path)
		assert.Equal(t, "Bearer sk_test", r.Header.Get("Authorization"))
		assert.Equal(t, []string{"u1", "u2"}, r.URL.Query()["user_id"])
		assert.Equal(t, "2", r.URL.Query().Get("limit"))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"id":"u1","username":"panda","image_url":"https://img/u1","first_name":"P","email_addresses":[{"email":"p@x"}]},
			{"id":"u2","username":null,"image_url":"https://img/u2"}
		]`)
	})

	users, err := c.ListByIDs(context.Background(), []string{"u1", "u2"})
	require.NoError(t, err)
	require.Equal(t, 1, calls)

	panda := "panda"
	assert.Equal(t, []models.User{
		{ID: "u1", Username: &panda, ImageURL: "https://img/u1"},
		{ID: "u2", Username: nil, ImageURL: "https://img/u2"},
	}, users)
}

func TestListByIDs_Empty(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	users, err := c.ListByIDs(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestListByIDs_TooMany(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("no request expected")
	})

	ids := make([]string, MaxBatch+1)
	for i := range ids {
		ids[i] = fmt.Sprintf("u%d", i)
	}
	_, err := c.ListByIDs(context.Background(), ids)
	require.ErrorIs(t, err, ErrBatchTooLarge)
}

func TestListByUsername(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, []string{"panda"}, r.URL.Query()["username"])
		fmt.Fprint(w, `[{"id":"u1","username":"panda","image_url":"https://img/u1"}]`)
	})

	users, err := c.ListByUsername(context.Background(), "panda")
	require.NoError(t, err)
	require.Len(t, users, 1)
	assert.Equal(t, "u1", users[0].ID)
}

func TestListByUsername_NoMatch(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	users, err := c.ListByUsername(context.Background(), "ghost")
	require.NoError(t, err)
	assert.Empty(t, users)
}

func TestListUsers_APIError(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"code":"authentication_invalid"}]}`, http.StatusUnauthorized)
	})

	_, err := c.ListByIDs(context.Background(), []string{"u1"})
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Contains(t, apiErr.Body, "authentication_invalid")
}

func TestListUsers_BadJSON(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"not":"a list"}`)
	})

	_, err := c.ListByUsername(context.Background(), "panda")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "decode identity response")
}

func TestListUsers_ContextCanceled(t *testing.T) {
	c := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[]`)
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := c.ListByIDs(ctx, []string{"u1"})
	require.ErrorIs(t, err, context.Canceled)
}
