package mapbox

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/trailpost/campground-service/internal/campground/domain"
	"github.com/trailpost/campground-service/internal/platform/logger"
)

// Client resolves free-text locations against the Mapbox geocoding v5 API.
// A single lookup is performed per call; no retries.
type Client struct {
	httpClient *http.Client
	endpoint   string
	token      string
	logger     *logger.Logger
}

// NewClient builds a geocoding client. The timeout bounds the whole HTTP
// exchange; a timed-out lookup surfaces as GeocodeServiceUnavailable.
func NewClient(endpoint, token string, timeout time.Duration, log *logger.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   strings.TrimRight(endpoint, "/"),
		token:      token,
		logger:     log.Named("MapboxClient"),
	}
}

type geocodeResponse struct {
	Features []struct {
		PlaceName string `json:"place_name"`
		Geometry  struct {
			Type        string    `json:"type"`
			Coordinates []float64 `json:"coordinates"`
		} `json:"geometry"`
	} `json:"features"`
}

// Resolve returns the first matching result's point geometry for the query.
func (c *Client) Resolve(ctx context.Context, query string) (domain.Geometry, error) {
	if strings.TrimSpace(query) == "" {
		return domain.Geometry{}, &domain.GeocodeError{Kind: domain.GeocodeInvalidQuery, Message: "query cannot be empty"}
	}

	lookupURL := fmt.Sprintf("%s/geocoding/v5/mapbox.places/%s.json?access_token=%s&limit=1",
		c.endpoint, url.PathEscape(query), url.QueryEscape(c.token))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
	if err != nil {
		return domain.Geometry{}, &domain.GeocodeError{Kind: domain.GeocodeInvalidQuery, Message: err.Error()}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("Mapbox request failed", zap.String("query", query), zap.Error(err))
		return domain.Geometry{}, &domain.GeocodeError{Kind: domain.GeocodeServiceUnavailable, Message: err.Error()}
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		// fall through to decoding
	case resp.StatusCode == http.StatusNotFound:
		return domain.Geometry{}, &domain.GeocodeError{Kind: domain.GeocodeNotFound, Message: "no such place"}
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		c.logger.Warn("Mapbox rejected query", zap.String("query", query), zap.Int("status", resp.StatusCode))
		return domain.Geometry{}, &domain.GeocodeError{Kind: domain.GeocodeInvalidQuery, Message: fmt.Sprintf("upstream status %d", resp.StatusCode)}
	default:
		c.logger.Error("Mapbox returned non-success status", zap.String("query", query), zap.Int("status", resp.StatusCode))
		return domain.Geometry{}, &domain.GeocodeError{Kind: domain.GeocodeServiceUnavailable, Message: fmt.Sprintf("upstream status %d", resp.StatusCode)}
	}

	var decoded geocodeResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		c.logger.Error("Failed to decode Mapbox response", zap.String("query", query), zap.Error(err))
		return domain.Geometry{}, &domain.GeocodeError{Kind: domain.GeocodeServiceUnavailable, Message: err.Error()}
	}
	if len(decoded.Features) == 0 {
		c.logger.Info("Mapbox returned no features", zap.String("query", query))
		return domain.Geometry{}, &domain.GeocodeError{Kind: domain.GeocodeNotFound, Message: fmt.Sprintf("no results for %q", query)}
	}

	feature := decoded.Features[0]
	c.logger.Debug("Mapbox resolved query",
		zap.String("query", query),
		zap.String("place_name", feature.PlaceName),
		zap.Float64s("coordinates", feature.Geometry.Coordinates))

	return domain.Geometry{
		Type:        feature.Geometry.Type,
		Coordinates: feature.Geometry.Coordinates,
	}, nil
}
