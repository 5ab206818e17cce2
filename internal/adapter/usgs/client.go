package usgs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/couchcryptid/canyon-lake-dashboard/internal/domain"
	"github.com/couchcryptid/canyon-lake-dashboard/internal/observability"
)

// ErrNoData means the USGS response was well-formed but carried no usable
// values for the requested site and parameter.
var ErrNoData = errors.New("no gauge data in response")

// Client implements domain.GaugeFetcher against the USGS water services
// API: the instantaneous-values endpoint for current readings and the
// daily-values endpoint for history.
type Client struct {
	siteID     string
	paramCode  string
	httpClient *http.Client
	ivBaseURL  string
	dvBaseURL  string
	clock      clockwork.Clock
	metrics    *observability.Metrics
	logger     *slog.Logger
}

// NewClient creates a USGS water services client for one gauge site.
func NewClient(siteID string, timeout time.Duration, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		siteID:     siteID,
		paramCode:  domain.ElevationParameterCode,
		httpClient: &http.Client{Timeout: timeout},
		ivBaseURL:  "https://waterservices.usgs.gov/nwis/iv/",
		dvBaseURL:  "https://waterservices.usgs.gov/nwis/dv/",
		clock:      clockwork.NewRealClock(),
		metrics:    metrics,
		logger:     logger,
	}
}

// FetchCurrent returns the most recent instantaneous elevation reading.
func (c *Client) FetchCurrent(ctx context.Context) (domain.Sample, error) {
	params := url.Values{
		"sites":       {c.siteID},
		"parameterCd": {c.paramCode},
		"format":      {"json"},
	}

	samples, err := c.doRequest(ctx, c.ivBaseURL+"?"+params.Encode(), "current")
	if err != nil {
		return domain.Sample{}, err
	}
	// The IV endpoint returns newest-last; the last value is the reading.
	return samples[len(samples)-1], nil
}

// FetchDailyHistory returns daily mean elevations for the trailing number
// of days, oldest first.
func (c *Client) FetchDailyHistory(ctx context.Context, days int) ([]domain.Sample, error) {
	end := c.clock.Now().UTC()
	start := end.AddDate(0, 0, -days)

	params := url.Values{
		"sites":       {c.siteID},
		"parameterCd": {c.paramCode},
		"startDT":     {start.Format("2006-01-02")},
		"endDT":       {end.Format("2006-01-02")},
		"format":      {"json"},
	}

	return c.doRequest(ctx, c.dvBaseURL+"?"+params.Encode(), "history")
}

func (c *Client) doRequest(ctx context.Context, fullURL, endpoint string) ([]domain.Sample, error) {
	start := time.Now()
	defer func() {
		c.metrics.USGSRequestDuration.WithLabelValues(endpoint).Observe(time.Since(start).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		c.metrics.USGSRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.USGSRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("usgs %s request: %w", endpoint, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.metrics.USGSRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("usgs API error: status %d: %s", resp.StatusCode, body)
	}

	var envelope nwisResponse
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		c.metrics.USGSRequests.WithLabelValues(endpoint, "error").Inc()
		return nil, fmt.Errorf("decode response: %w", err)
	}

	samples := c.extractSamples(envelope)
	if len(samples) == 0 {
		c.metrics.USGSRequests.WithLabelValues(endpoint, "empty").Inc()
		return nil, ErrNoData
	}

	c.metrics.USGSRequests.WithLabelValues(endpoint, "success").Inc()
	return samples, nil
}

// extractSamples pulls readings for the configured parameter out of the
// NWIS envelope, skipping sentinel and unparseable values.
func (c *Client) extractSamples(envelope nwisResponse) []domain.Sample {
	var samples []domain.Sample
	for _, series := range envelope.Value.TimeSeries {
		if !seriesMatches(series, c.paramCode) {
			continue
		}
		for _, block := range series.Values {
			for _, v := range block.Value {
				sample, ok := parseValue(v)
				if !ok {
					c.logger.Debug("skipping unusable gauge value",
						"value", v.Value, "date_time", v.DateTime)
					continue
				}
				samples = append(samples, sample)
			}
		}
	}
	return samples
}

func seriesMatches(series nwisTimeSeries, paramCode string) bool {
	for _, code := range series.Variable.VariableCode {
		if code.Value == paramCode {
			return true
		}
	}
	return false
}

// missingSentinel is the NWIS "no data" marker.
const missingSentinel = -999999

func parseValue(v nwisValue) (domain.Sample, bool) {
	elevation, err := strconv.ParseFloat(v.Value, 64)
	if err != nil || elevation == missingSentinel {
		return domain.Sample{}, false
	}

	ts, err := parseNWISTime(v.DateTime)
	if err != nil {
		return domain.Sample{}, false
	}

	return domain.Sample{Time: ts, Value: elevation}, true
}

// parseNWISTime handles the formats the two endpoints emit: the IV endpoint
// sends full offsets ("2024-04-26T12:00:00.000-06:00"), the DV endpoint an
// offset-less local date-time ("2024-04-26T00:00:00.000").
func parseNWISTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	return time.Parse("2006-01-02T15:04:05.000", s)
}

// NWIS response envelope, trimmed to the fields in use.

type nwisResponse struct {
	Value struct {
		TimeSeries []nwisTimeSeries `json:"timeSeries"`
	} `json:"value"`
}

type nwisTimeSeries struct {
	Variable struct {
		VariableCode []struct {
			Value string `json:"value"`
		} `json:"variableCode"`
	} `json:"variable"`
	Values []struct {
		Value []nwisValue `json:"value"`
	} `json:"values"`
}

type nwisValue struct {
	Value    string `json:"value"`
	DateTime string `json:"dateTime"`
}
