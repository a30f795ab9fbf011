package graphql

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lnclinic/prontuario/internal/domain"
)

var pingOp = MustOperation(`query ping { ping }`)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestMustOperation(t *testing.T) {
	t.Parallel()

	op := MustOperation(`
		mutation getToken($username: String!, $password: String!) {
			tokenAuth(username: $username, password: $password) { token }
		}`)
	assert.Equal(t, "getToken", op.Name())
	assert.True(t, op.IsMutation())

	q := MustOperation(`query getUser { user { id } }`)
	assert.Equal(t, "getUser", q.Name())
	assert.False(t, q.IsMutation())
}

func TestMustOperation_PanicsOnBadDocument(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { MustOperation(`query {{{`) })
	assert.Panics(t, func() { MustOperation(`{ anonymous }`) })
}

func TestDo_SendsOperationNameAndAuthHeader(t *testing.T) {
	t.Parallel()

	var gotAuth, gotOpName string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		var req struct {
			OperationName string `json:"operationName"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		gotOpName = req.OperationName
		w.Write([]byte(`{"data":{"ping":"pong"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, discardLogger())

	var out struct {
		Ping string `json:"ping"`
	}
	err := c.Do(context.Background(), pingOp, nil, "tok-123", &out)
	require.NoError(t, err)

	assert.Equal(t, "JWT tok-123", gotAuth)
	assert.Equal(t, "ping", gotOpName)
	assert.Equal(t, "pong", out.Ping)
}

func TestDo_NoTokenMeansNoAuthHeader(t *testing.T) {
	t.Parallel()

	var sawAuthHeader bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, sawAuthHeader = r.Header["Authorization"]
		w.Write([]byte(`{"data":{"ping":"pong"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, discardLogger())
	require.NoError(t, c.Do(context.Background(), pingOp, nil, "", nil))
	assert.False(t, sawAuthHeader)
}

func TestDo_GraphQLErrorCarriesServerMessage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"Please enter valid credentials"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, discardLogger())
	err := c.Do(context.Background(), pingOp, nil, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Please enter valid credentials")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDo_PermissionErrorMapsToUnauthorized(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"You do not have permission to perform this action"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, discardLogger())
	err := c.Do(context.Background(), pingOp, nil, "expired", nil)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDo_NonAuthErrorIsNotUnauthorized(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"errors":[{"message":"something exploded"}]}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, discardLogger())
	err := c.Do(context.Background(), pingOp, nil, "", nil)
	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrUnauthorized)
}

func TestDo_UnexpectedStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, discardLogger())
	err := c.Do(context.Background(), pingOp, nil, "", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestDo_NullDataIsNotDecoded(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":null}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, time.Second, discardLogger())

	out := struct {
		Ping string `json:"ping"`
	}{Ping: "untouched"}
	require.NoError(t, c.Do(context.Background(), pingOp, nil, "", &out))
	assert.Equal(t, "untouched", out.Ping)
}
