package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// FeedPlayer is one player record from the league stats feed.
type FeedPlayer struct {
	ExternalID string `json:"external_id"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	BirthYear  int    `json:"birth_year"`
}

// FeedSeason is one player-year-level stat line from the feed.
type FeedSeason struct {
	PlayerExternalID string  `json:"player_external_id"`
	Year             int     `json:"year"`
	Level            string  `json:"level"`
	IP               float64 `json:"ip"`
	PA               int     `json:"pa"`
	K                int     `json:"k"`
	BB               int     `json:"bb"`
	HR               int     `json:"hr"`
	H                int     `json:"h"`
	Doubles          int     `json:"doubles"`
	Triples          int     `json:"triples"`
}

// FeedScoutingReport is one scouting capture from the feed.
type FeedScoutingReport struct {
	PlayerExternalID string    `json:"player_external_id"`
	CapturedAt       time.Time `json:"captured_at"`
	Source           string    `json:"source"`
	Age              int       `json:"age"`

	Stuff   *float64 `json:"stuff,omitempty"`
	Control *float64 `json:"control,omitempty"`
	HRAvoid *float64 `json:"hr_avoid,omitempty"`

	Power   *float64 `json:"power,omitempty"`
	Eye     *float64 `json:"eye,omitempty"`
	AvoidK  *float64 `json:"avoid_k,omitempty"`
	Contact *float64 `json:"contact,omitempty"`
	Gap     *float64 `json:"gap,omitempty"`
	Speed   *float64 `json:"speed,omitempty"`

	CurrentStars   float64 `json:"current_stars"`
	PotentialStars float64 `json:"potential_stars"`
}

// StatsFeedProvider pulls league rosters, season stats and scouting
// reports from the upstream feed, with circuit breaker protection so a
// flapping feed cannot stall imports indefinitely.
type StatsFeedProvider struct {
	baseURL string
	apiKey  string
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	logger  *logrus.Logger
}

func NewStatsFeedProvider(baseURL, apiKey string, timeout time.Duration, breakerThreshold int, logger *logrus.Logger) *StatsFeedProvider {
	settings := gobreaker.Settings{
		Name:        "statsfeed",
		MaxRequests: uint32(breakerThreshold),
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 3 && failureRatio >= 0.6
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"component": "circuit_breaker",
				"service":   name,
				"from":      from.String(),
				"to":        to.String(),
			}).Info("Circuit breaker state changed")
		},
	}

	return &StatsFeedProvider{
		baseURL: baseURL,
		apiKey:  apiKey,
		client:  &http.Client{Timeout: timeout},
		breaker: gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
	}
}

// GetPlayers fetches the league roster.
func (p *StatsFeedProvider) GetPlayers(ctx context.Context) ([]FeedPlayer, error) {
	var players []FeedPlayer
	if err := p.getJSON(ctx, "/v1/players", &players); err != nil {
		return nil, err
	}
	return players, nil
}

// GetSeasons fetches every stat line for a season year.
func (p *StatsFeedProvider) GetSeasons(ctx context.Context, year int) ([]FeedSeason, error) {
	var seasons []FeedSeason
	if err := p.getJSON(ctx, fmt.Sprintf("/v1/seasons/%d", year), &seasons); err != nil {
		return nil, err
	}
	return seasons, nil
}

// GetScoutingReports fetches the scouting captures published for a season.
func (p *StatsFeedProvider) GetScoutingReports(ctx context.Context, year int) ([]FeedScoutingReport, error) {
	var reports []FeedScoutingReport
	if err := p.getJSON(ctx, fmt.Sprintf("/v1/scouting/%d", year), &reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// State exposes the breaker state for health reporting.
func (p *StatsFeedProvider) State() gobreaker.State {
	return p.breaker.State()
}

func (p *StatsFeedProvider) getJSON(ctx context.Context, path string, dest interface{}) error {
	_, err := p.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+path, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Accept", "application/json")
		if p.apiKey != "" {
			req.Header.Set("Authorization", "Bearer "+p.apiKey)
		}

		resp, err := p.client.Do(req)
		if err != nil {
			return nil, fmt.Errorf("stats feed request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("stats feed returned status %d for %s", resp.StatusCode, path)
		}

		if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
			return nil, fmt.Errorf("failed to decode stats feed response: %w", err)
		}
		return nil, nil
	})
	return err
}
