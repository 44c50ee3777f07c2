package ribbit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ngdp-go/casc/aprov"
	"github.com/stretchr/testify/require"
)

func TestV2ClientFetch(t *testing.T) {
	var gotPath string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"result":[{"Region":"us","BuildId":"12345"},{"Region":"eu","BuildId":"12345"}]}`))
	}))
	defer server.Close()

	client := NewV2Client(V2ClientOptions{
		Host:     server.URL,
		Provider: &aprov.Static{UserAgent: "test"},
	})

	rows, err := client.Fetch(context.Background(), "wow", CommandVersions)
	require.NoError(t, err)
	require.Equal(t, "/v2/products/wow/versions", gotPath)
	require.Equal(t, []map[string]string{
		{"Region": "us", "BuildId": "12345"},
		{"Region": "eu", "BuildId": "12345"},
	}, rows)
}

func TestV2ClientFetchUnexpectedStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := NewV2Client(V2ClientOptions{Host: server.URL})

	_, err := client.Fetch(context.Background(), "wow", CommandCDNs)
	require.Error(t, err)
}

func TestNewV2ClientDefaultHost(t *testing.T) {
	client := NewV2Client(V2ClientOptions{})
	require.Equal(t, DefaultV2Host, client.host)
}
