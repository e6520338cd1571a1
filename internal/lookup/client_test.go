package lookup

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yegors/skytrack/pkg/logger"
)

func TestClient_HeaderCredentialAndQueryFields(t *testing.T) {
	var gotQuery url.Values
	var gotKey, gotAccept string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotKey = r.Header.Get("X-Api-Key")
		gotAccept = r.Header.Get("Accept")
		assert.Equal(t, "/v1/aircraft", r.URL.Path)
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	endpoint := Endpoint{
		Noun:       "aircraft",
		URL:        server.URL + "/v1/aircraft",
		Credential: Credential{Placement: InHeader, Name: "X-Api-Key", Value: "secret"},
		Fields:     []string{"manufacturer", "model"},
	}
	query := Query{Fields: []Field{{Name: "manufacturer", Value: "Cessna"}, {Name: "model", Value: ""}}}

	body, err := NewClient(time.Second, logger.NewNop()).Fetch(context.Background(), endpoint, query)
	require.NoError(t, err)

	assert.Equal(t, "[]", string(body))
	assert.Equal(t, "secret", gotKey)
	assert.Equal(t, "application/json", gotAccept)
	assert.Equal(t, "Cessna", gotQuery.Get("manufacturer"))
	assert.True(t, gotQuery.Has("model"), "blank fields are still sent")
	assert.False(t, gotQuery.Has("X-Api-Key"))
}

func TestClient_QueryCredential(t *testing.T) {
	var gotQuery url.Values
	var gotHeaderKey string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		gotHeaderKey = r.Header.Get("access_key")
		_, _ = w.Write([]byte(`{"data":[]}`))
	}))
	t.Cleanup(server.Close)

	endpoint := Endpoint{
		Noun:       "flight",
		URL:        server.URL + "/v1/flights",
		Credential: Credential{Placement: InQuery, Name: "access_key", Value: "track-key"},
		Fields:     []string{"flight_iata"},
	}
	query := Query{Fields: []Field{{Name: "flight_iata", Value: "DL8696"}}}

	_, err := NewClient(0, logger.NewNop()).Fetch(context.Background(), endpoint, query)
	require.NoError(t, err)

	assert.Equal(t, "track-key", gotQuery.Get("access_key"))
	assert.Equal(t, "DL8696", gotQuery.Get("flight_iata"))
	assert.Empty(t, gotHeaderKey)
}

func TestClient_NonSuccessStatus(t *testing.T) {
	tests := []struct {
		name       string
		credential Credential
	}{
		{name: "no credential", credential: Credential{}},
		{name: "header credential", credential: Credential{Placement: InHeader, Name: "X-Api-Key", Value: "k"}},
		{name: "query credential", credential: Credential{Placement: InQuery, Name: "access_key", Value: "k"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "boom", http.StatusInternalServerError)
			}))
			t.Cleanup(server.Close)

			endpoint := Endpoint{Noun: "aircraft", URL: server.URL, Credential: tt.credential}
			_, err := NewClient(0, logger.NewNop()).Fetch(context.Background(), endpoint, Query{})

			var statusErr *StatusError
			require.ErrorAs(t, err, &statusErr)
			assert.Equal(t, http.StatusInternalServerError, statusErr.StatusCode)
		})
	}
}

func TestClient_UnnamedCredentialIsNotSent(t *testing.T) {
	var gotQuery url.Values
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		_, _ = w.Write([]byte(`[]`))
	}))
	t.Cleanup(server.Close)

	endpoint := Endpoint{
		Noun:       "aircraft",
		URL:        server.URL,
		Credential: Credential{Placement: InQuery, Value: "k"},
		Fields:     []string{"model"},
	}
	_, err := NewClient(0, logger.NewNop()).Fetch(context.Background(), endpoint, Query{})
	require.NoError(t, err)

	assert.Equal(t, url.Values{"model": {""}}, gotQuery)
}

func TestClient_NetworkErrorDoesNotLeakQueryKey(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	serverURL := server.URL
	server.Close()

	endpoint := Endpoint{
		Noun:       "flight",
		URL:        serverURL + "/v1/flights",
		Credential: Credential{Placement: InQuery, Name: "access_key", Value: "very-secret"},
	}
	_, err := NewClient(time.Second, logger.NewNop()).Fetch(context.Background(), endpoint, Query{})
	require.Error(t, err)
	assert.NotContains(t, err.Error(), "very-secret")
}

func TestClient_ErrorResponsesReuseConnection(t *testing.T) {
	var conns atomic.Int32
	server := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusServiceUnavailable)
	}))
	server.Config.ConnState = func(_ net.Conn, state http.ConnState) {
		if state == http.StateNew {
			conns.Add(1)
		}
	}
	server.Start()
	t.Cleanup(server.Close)

	client := NewClient(0, logger.NewNop())
	endpoint := Endpoint{Noun: "aircraft", URL: server.URL}
	for i := 0; i < 3; i++ {
		_, err := client.Fetch(context.Background(), endpoint, Query{})
		require.Error(t, err)
	}

	assert.Equal(t, int32(1), conns.Load())
}
