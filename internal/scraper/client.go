// VeloRank - OBRA Upgrade Points and Race Ranking Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/velorank

package scraper

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/tomtom215/velorank/internal/config"
	"github.com/tomtom215/velorank/internal/database"
	"github.com/tomtom215/velorank/internal/logging"
	"github.com/tomtom215/velorank/internal/metrics"
	"github.com/tomtom215/velorank/internal/models"
)

const (
	breakerName = "obra-profiles"

	// maxProfileBytes caps how much of a profile page is read. Member
	// pages are a few KB; anything larger is not the page we want.
	maxProfileBytes = 64 << 10

	defaultTimeout = 30 * time.Second
)

// errNotMember marks a 404 from the profile endpoint. It flows through
// the breaker as a success: a rider without a profile is an answer, not
// a site failure.
var errNotMember = errors.New("no member profile")

// Client fetches member profile pages and stores them as snapshots.
//
// Every request waits on a politeness rate limiter and runs through a
// circuit breaker, since profile scrapes happen inside recalculation
// passes that may touch hundreds of riders against a small community
// site. The breaker uses real time for its recovery window; tests
// exercise the fetch path directly or count requests, never the clock.
type Client struct {
	store     *database.DB
	baseURL   string
	userAgent string
	http      *http.Client
	limiter   *rate.Limiter
	breaker   *gobreaker.CircuitBreaker[*profile]
}

// NewClient builds a profile client from configuration.
//
// Breaker shape: at most 3 probe requests half-open, counts reset every
// minute while closed, 2 minutes open before probing, and the circuit
// opens at a 60% failure rate once 10 requests have been seen.
func NewClient(cfg *config.ScraperConfig, store *database.DB) *Client {
	metrics.CircuitBreakerState.WithLabelValues(breakerName).Set(0)

	breaker := gobreaker.NewCircuitBreaker[*profile](gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 3,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 10 {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			if ratio >= 0.6 {
				logging.Warn().Uint32("failures", counts.TotalFailures).Float64("failure_rate", ratio*100).Msg("[CIRCUIT BREAKER] Opening circuit")
				return true
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logging.Info().Str("from", stateName(from)).Str("to", stateName(to)).Msg("[CIRCUIT BREAKER] State transition")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateValue(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, stateName(from), stateName(to)).Inc()
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, errNotMember)
		},
	})

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	limit := rate.Limit(cfg.RequestsPerSecond)
	if limit <= 0 {
		limit = rate.Inf
	}
	burst := cfg.Burst
	if burst < 1 {
		burst = 1
	}

	return &Client{
		store:     store,
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		userAgent: cfg.UserAgent,
		http:      &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(limit, burst),
		breaker:   breaker,
	}
}

// ScrapePerson fetches the rider's profile page and stores a snapshot
// dated today through q. Returns (nil, nil) when the rider has no
// profile upstream.
func (c *Client) ScrapePerson(ctx context.Context, q database.Querier, person *models.Person) (*models.MemberSnapshot, error) {
	if person == nil || person.ID == 0 {
		return nil, errors.New("scrape person: no person")
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	prof, err := c.breaker.Execute(func() (*profile, error) {
		return c.fetchProfile(ctx, person.ID)
	})
	switch {
	case errors.Is(err, errNotMember):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
		metrics.RecordScrapeRequest("person", nil)
		logging.Debug().Int64("person_id", person.ID).Msg("Rider has no member profile")
		return nil, nil
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
		metrics.RecordScrapeRequest("person", err)
		logging.Warn().Err(err).Int64("person_id", person.ID).Msg("[CIRCUIT BREAKER] Profile request rejected")
		return nil, fmt.Errorf("profile scrape rejected: %w", err)
	case err != nil:
		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		metrics.RecordScrapeRequest("person", err)
		return nil, fmt.Errorf("failed to scrape person %d: %w", person.ID, err)
	}
	metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
	metrics.RecordScrapeRequest("person", nil)

	snapshot := models.NewMemberSnapshot(person.ID, models.Today())
	prof.apply(snapshot)
	if err := c.store.InsertSnapshot(ctx, q, snapshot); err != nil {
		return nil, fmt.Errorf("failed to store snapshot for person %d: %w", person.ID, err)
	}
	metrics.ScrapeSnapshotsCreated.Inc()

	logging.Debug().Int64("person_id", person.ID).Str("date", snapshot.Date.String()).Msg("Scraped member profile")
	return snapshot, nil
}

func (c *Client) fetchProfile(ctx context.Context, personID int64) (*profile, error) {
	reqURL := fmt.Sprintf("%s/people/%d", c.baseURL, personID)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("profile request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errNotMember
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("profile request returned HTTP %d", resp.StatusCode)
	}

	return parseProfile(io.LimitReader(resp.Body, maxProfileBytes))
}

func stateValue(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

func stateName(state gobreaker.State) string {
	switch state {
	case gobreaker.StateClosed:
		return "closed"
	case gobreaker.StateHalfOpen:
		return "half-open"
	case gobreaker.StateOpen:
		return "open"
	default:
		return "unknown"
	}
}
