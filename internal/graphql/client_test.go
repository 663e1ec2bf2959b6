package graphql

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func TestClient_Do(t *testing.T) {
	var got Request
	var auth, device string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		device = r.Header.Get("X-Device-Id")
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"data":{"me":{"id":"1","username":"ann","role":"ADMIN"}}}`))
	}))
	defer ts.Close()

	c := NewClient(ts.URL, ts.Client())
	c.SetHeader("X-Device-Id", "dev-1")
	resp, err := c.Do(context.Background(), "tok", MeQuery, map[string]any{"a": 1})
	require.NoError(t, err)
	require.NoError(t, resp.Err())

	var data struct {
		Me struct{ Username string } `json:"me"`
	}
	require.NoError(t, resp.Decode(&data))
	assert.Equal(t, "ann", data.Me.Username)
	assert.Equal(t, "Bearer tok", auth)
	assert.Equal(t, "dev-1", device)
	assert.Equal(t, MeQuery, got.Query)
	assert.Equal(t, float64(1), got.Variables["a"])
}

func TestClient_Do_NoToken(t *testing.T) {
	c := NewClient("http://catalog.test/graphql", &http.Client{Transport: roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		if _, ok := r.Header["Authorization"]; ok {
			t.Errorf("authorization header must be omitted")
		}
		return &http.Response{StatusCode: http.StatusOK, Body: io.NopCloser(strings.NewReader(`{"data":{}}`)), Header: http.Header{}}, nil
	})})

	_, err := c.Do(context.Background(), "", MeQuery, nil)
	assert.NoError(t, err)
}

func TestClient_Do_HTTPError(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, nil).Do(context.Background(), "", MeQuery, nil)
	var httpErr *HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, http.StatusBadGateway, httpErr.StatusCode)
	assert.Equal(t, "HTTP error! status: 502", err.Error())
}

func TestClient_Do_TransportError(t *testing.T) {
	boom := errors.New("connection refused")
	c := NewClient("http://catalog.test/graphql", &http.Client{Transport: roundTripperFunc(func(*http.Request) (*http.Response, error) {
		return nil, boom
	})})

	_, err := c.Do(context.Background(), "", MeQuery, nil)
	assert.ErrorIs(t, err, boom)
}

func TestClient_Do_BadJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html>`))
	}))
	defer ts.Close()

	_, err := NewClient(ts.URL, nil).Do(context.Background(), "", MeQuery, nil)
	assert.ErrorContains(t, err, "decode response")
}

func TestResponse_Errors(t *testing.T) {
	var resp Response
	require.NoError(t, json.Unmarshal([]byte(`{"data":null,"errors":[
		{"message":"Not logged in","extensions":{"code":"UNAUTHENTICATED"}},
		{"message":"second"}]}`), &resp))

	assert.True(t, resp.Unauthenticated())
	err := resp.Err()
	assert.EqualError(t, err, "Not logged in")
	assert.True(t, IsUnauthenticated(err))
	assert.ErrorIs(t, resp.Decode(&struct{}{}), ErrNoData)

	resp = Response{Errors: []Error{{Message: "Invalid credentials"}}}
	assert.False(t, resp.Unauthenticated())
	assert.False(t, IsUnauthenticated(resp.Err()))
}
