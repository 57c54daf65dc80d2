package providers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/hichigg/betbrain/internal/cache"
	"github.com/hichigg/betbrain/internal/sports"
)

const (
	oddsAPIBaseURL  = "https://api.the-odds-api.com/v4"
	oddsAPIRegion   = "us"
	oddsAPIFormat   = "american"
	defaultMarkets  = "h2h,spreads,totals"
	lowQuotaWarning = 50
)

// Usage is the provider-reported monthly request quota, tracked from
// response headers.
type Usage struct {
	Used      int  `json:"used"`
	Remaining int  `json:"remaining"`
	Known     bool `json:"known"`
}

// OddsAPIClient is the odds provider client for The Odds API. Calls are
// cache-routed with a 15 minute freshness window; a local rate limiter
// keeps a burst of uncached sports from draining the monthly quota.
type OddsAPIClient struct {
	api     *apiClient
	cache   *cache.Cache
	logger  *logrus.Logger
	apiKey  string
	limiter *rate.Limiter

	mu    sync.Mutex
	usage Usage
}

// NewOddsAPIClient creates a new Odds API client.
func NewOddsAPIClient(apiKey string, c *cache.Cache, failureThreshold uint32, logger *logrus.Logger) *OddsAPIClient {
	return &OddsAPIClient{
		api:     newAPIClient("oddsapi", failureThreshold, logger),
		cache:   c,
		logger:  logger,
		apiKey:  apiKey,
		limiter: rate.NewLimiter(rate.Every(time.Second), 5),
	}
}

type oddsAPISport struct {
	Key    string `json:"key"`
	Title  string `json:"title"`
	Active bool   `json:"active"`
}

// GetSports lists the sport keys the odds provider currently covers.
func (c *OddsAPIClient) GetSports(ctx context.Context) ([]string, bool) {
	return cache.GetOrFetch(ctx, c.cache, "odds:sports", cache.TTLOdds, func(ctx context.Context) ([]string, error) {
		endpoint := fmt.Sprintf("%s/sports/?apiKey=%s", oddsAPIBaseURL, url.QueryEscape(c.apiKey))
		var resp []oddsAPISport
		if err := c.fetch(ctx, endpoint, &resp); err != nil {
			return nil, err
		}

		keys := make([]string, 0, len(resp))
		for _, s := range resp {
			if s.Active {
				keys = append(keys, s.Key)
			}
		}
		return keys, nil
	})
}

// GetOdds fetches the h2h/spreads/totals quotes for every upcoming event
// in a sport, keyed by the provider's own team-name spellings.
func (c *OddsAPIClient) GetOdds(ctx context.Context, sportKey string) ([]sports.OddsEvent, bool) {
	today := time.Now().UTC().Format("20060102")
	key := cache.OddsKey(sportKey, today)

	return cache.GetOrFetch(ctx, c.cache, key, cache.TTLOdds, func(ctx context.Context) ([]sports.OddsEvent, error) {
		endpoint := fmt.Sprintf("%s/sports/%s/odds?apiKey=%s&regions=%s&markets=%s&oddsFormat=%s",
			oddsAPIBaseURL, sportKey, url.QueryEscape(c.apiKey), oddsAPIRegion, defaultMarkets, oddsAPIFormat)

		var events []sports.OddsEvent
		if err := c.fetch(ctx, endpoint, &events); err != nil {
			return nil, err
		}
		return events, nil
	})
}

// GetEventOdds fetches quotes for a single event, used for deeper markets.
func (c *OddsAPIClient) GetEventOdds(ctx context.Context, sportKey, eventID, markets string) (*sports.OddsEvent, bool) {
	if markets == "" {
		markets = defaultMarkets
	}
	key := cache.OddsEventKey(sportKey, eventID)

	return cache.GetOrFetch(ctx, c.cache, key, cache.TTLOdds, func(ctx context.Context) (*sports.OddsEvent, error) {
		endpoint := fmt.Sprintf("%s/sports/%s/events/%s/odds?apiKey=%s&regions=%s&markets=%s&oddsFormat=%s",
			oddsAPIBaseURL, sportKey, eventID, url.QueryEscape(c.apiKey), oddsAPIRegion, markets, oddsAPIFormat)

		var event sports.OddsEvent
		if err := c.fetch(ctx, endpoint, &event); err != nil {
			return nil, err
		}
		return &event, nil
	})
}

// GetUsage returns the quota counters tracked from response headers.
func (c *OddsAPIClient) GetUsage() Usage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.usage
}

func (c *OddsAPIClient) fetch(ctx context.Context, endpoint string, target interface{}) error {
	if c.apiKey == "" {
		return fmt.Errorf("odds api key is not configured")
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limiter: %w", err)
	}

	header, err := c.api.getJSONWithResponse(ctx, endpoint, target)
	if header != nil {
		c.trackUsage(header.Get("X-Requests-Used"), header.Get("X-Requests-Remaining"))
	}
	if err != nil {
		return fmt.Errorf("odds fetch failed: %w", err)
	}
	return nil
}

func (c *OddsAPIClient) trackUsage(used, remaining string) {
	usedN, errU := strconv.Atoi(used)
	remainingN, errR := strconv.Atoi(remaining)
	if errU != nil || errR != nil {
		return
	}

	c.mu.Lock()
	c.usage = Usage{Used: usedN, Remaining: remainingN, Known: true}
	c.mu.Unlock()

	c.logger.Debugf("Odds API usage: %d used, %d remaining", usedN, remainingN)
	if remainingN < lowQuotaWarning {
		c.logger.Warnf("Odds API: only %d requests remaining this month", remainingN)
	}
}
