package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const defaultTimeout = 10 * time.Second

// apiClient is the shared HTTP plumbing for provider clients: a bounded
// timeout and a circuit breaker so a flapping upstream fails fast instead
// of holding every aggregation call at the timeout ceiling.
type apiClient struct {
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker
	logger     *logrus.Logger
}

func newAPIClient(name string, failureThreshold uint32, logger *logrus.Logger) *apiClient {
	if failureThreshold == 0 {
		failureThreshold = 5
	}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    name,
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("%s circuit breaker: %s -> %s", name, from, to)
		},
	})

	return &apiClient{
		httpClient: &http.Client{Timeout: defaultTimeout},
		breaker:    breaker,
		logger:     logger,
	}
}

// getJSON fetches url through the breaker and decodes the body into
// target. A non-2xx status is a failure; the caller decides how to
// degrade.
func (c *apiClient) getJSON(ctx context.Context, url string, headers map[string]string, target interface{}) error {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}
		for k, v := range headers {
			req.Header.Set(k, v)
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		return nil, json.NewDecoder(resp.Body).Decode(target)
	})
	return err
}

// getJSONWithResponse is getJSON for callers that also need response
// headers (quota tracking on the odds provider).
func (c *apiClient) getJSONWithResponse(ctx context.Context, url string, target interface{}) (http.Header, error) {
	var header http.Header
	_, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, fmt.Errorf("request failed: %w", err)
		}
		defer resp.Body.Close()
		header = resp.Header

		if resp.StatusCode != http.StatusOK {
			io.Copy(io.Discard, resp.Body)
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		return nil, json.NewDecoder(resp.Body).Decode(target)
	})
	return header, err
}
