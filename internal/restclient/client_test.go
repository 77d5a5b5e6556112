package restclient

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGet(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/query", r.URL.Path)
		assert.Equal(t, "up", r.URL.Query().Get("query"))
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "application/json", r.Header.Get("Accept"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status": "success"}`))
	}))
	defer server.Close()

	client := New(server.URL)
	params := url.Values{}
	params.Set("query", "up")

	var out struct {
		Status string `json:"status"`
	}
	err := client.Get(context.Background(), "query", params, &out)
	require.NoError(t, err)
	assert.Equal(t, "success", out.Status)
}

func TestGet_NoContent(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	var out struct {
		Status string `json:"status"`
	}
	err := New(server.URL).Get(context.Background(), "query", nil, &out)
	require.NoError(t, err)
	assert.Empty(t, out.Status)
}

func TestGet_ErrorWithJSONMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"message": "upstream unavailable"}`))
	}))
	defer server.Close()

	err := New(server.URL).Get(context.Background(), "query", nil, nil)
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, http.StatusBadGateway, reqErr.StatusCode)
	assert.Equal(t, "upstream unavailable", reqErr.Message)
	assert.Contains(t, reqErr.Error(), "502")
	assert.Contains(t, reqErr.Error(), "upstream unavailable")
}

func TestGet_ErrorWithPlainTextBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("something broke\n"))
	}))
	defer server.Close()

	err := New(server.URL).Get(context.Background(), "query", nil, nil)
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	assert.Equal(t, "something broke", reqErr.Message)
}

func TestPut_SendsJSONBody(t *testing.T) {
	var gotMethod, gotBody string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		buf, _ := io.ReadAll(r.Body)
		gotBody = string(buf)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	err := New(server.URL).Put(context.Background(), "rules", map[string]string{"name": "test"}, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.MethodPut, gotMethod)
	assert.JSONEq(t, `{"name": "test"}`, gotBody)
}

func TestDelete(t *testing.T) {
	var gotMethod string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	err := New(server.URL).Delete(context.Background(), "rules/1", nil)
	require.NoError(t, err)
	assert.Equal(t, http.MethodDelete, gotMethod)
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/query", r.URL.Path)
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	err := New(server.URL + "/").Get(context.Background(), "query", nil, nil)
	require.NoError(t, err)
}
