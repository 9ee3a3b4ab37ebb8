package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func TestGetPlayers(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/players", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"external_id":"wbl_p001","name":"Dalton Reyes","role":"pitcher","birth_year":2000}]`))
	}))
	defer server.Close()

	provider := NewStatsFeedProvider(server.URL, "test-key", 5*time.Second, 5, testLogger())

	players, err := provider.GetPlayers(context.Background())
	require.NoError(t, err)
	require.Len(t, players, 1)
	assert.Equal(t, "wbl_p001", players[0].ExternalID)
	assert.Equal(t, "pitcher", players[0].Role)
}

func TestGetSeasons_YearInPath(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/seasons/2020", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"player_external_id":"wbl_p001","year":2020,"level":"aa","ip":95,"k":102,"bb":31,"hr":7}]`))
	}))
	defer server.Close()

	provider := NewStatsFeedProvider(server.URL, "", 5*time.Second, 5, testLogger())

	seasons, err := provider.GetSeasons(context.Background(), 2020)
	require.NoError(t, err)
	require.Len(t, seasons, 1)
	assert.Equal(t, "aa", seasons[0].Level)
	assert.Equal(t, 95.0, seasons[0].IP)
}

func TestGetPlayers_UpstreamError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	provider := NewStatsFeedProvider(server.URL, "", 5*time.Second, 5, testLogger())

	_, err := provider.GetPlayers(context.Background())
	assert.Error(t, err)
}

func TestBreakerOpensAfterRepeatedFailures(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	provider := NewStatsFeedProvider(server.URL, "", 5*time.Second, 5, testLogger())

	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := provider.GetPlayers(ctx)
		assert.Error(t, err)
	}

	assert.Equal(t, gobreaker.StateOpen, provider.State())

	_, err := provider.GetPlayers(ctx)
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}
