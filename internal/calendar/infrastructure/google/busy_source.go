// Package google reads busy time from Google Calendar through the freeBusy
// endpoint.
package google

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/Miiduoa/tired-sub002/internal/scheduling/domain"
	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const (
	// SourceName labels this source in logs and metrics.
	SourceName = "google"

	defaultBaseURL    = "https://www.googleapis.com/calendar/v3"
	defaultCalendarID = "primary"
)

// Endpoint is Google's OAuth 2.0 endpoint.
var Endpoint = oauth2.Endpoint{
	AuthURL:   "https://accounts.google.com/o/oauth2/auth",
	TokenURL:  "https://oauth2.googleapis.com/token",
	AuthStyle: oauth2.AuthStyleInParams,
}

// TokenSourceProvider hands out the OAuth token source of a user.
type TokenSourceProvider interface {
	TokenSource(ctx context.Context, userID uuid.UUID) (oauth2.TokenSource, error)
}

// RefreshTokenProvider serves one account from a long-lived refresh token,
// whatever the user ID.
type RefreshTokenProvider struct {
	config       *oauth2.Config
	refreshToken string
}

func NewRefreshTokenProvider(clientID, clientSecret, refreshToken string) *RefreshTokenProvider {
	return &RefreshTokenProvider{
		config: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     Endpoint,
			Scopes:       []string{"https://www.googleapis.com/auth/calendar.freebusy"},
		},
		refreshToken: refreshToken,
	}
}

func (p *RefreshTokenProvider) TokenSource(ctx context.Context, _ uuid.UUID) (oauth2.TokenSource, error) {
	if p.refreshToken == "" {
		return nil, errors.New("google refresh token not configured")
	}
	return p.config.TokenSource(ctx, &oauth2.Token{RefreshToken: p.refreshToken}), nil
}

// BusySource asks the freeBusy endpoint for the busy periods of one
// calendar.
type BusySource struct {
	tokens     TokenSourceProvider
	logger     *slog.Logger
	baseURL    string
	calendarID string
	timeout    time.Duration
}

// NewBusySource creates a source for the primary calendar.
func NewBusySource(tokens TokenSourceProvider, logger *slog.Logger) *BusySource {
	return NewBusySourceWithBaseURL(tokens, logger, defaultBaseURL)
}

// NewBusySourceWithBaseURL points the source at another API root.
func NewBusySourceWithBaseURL(tokens TokenSourceProvider, logger *slog.Logger, baseURL string) *BusySource {
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BusySource{
		tokens:     tokens,
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
		calendarID: defaultCalendarID,
		timeout:    15 * time.Second,
	}
}

// WithCalendarID selects a calendar other than primary.
func (s *BusySource) WithCalendarID(calendarID string) *BusySource {
	if calendarID != "" {
		s.calendarID = calendarID
	}
	return s
}

func (s *BusySource) Name() string { return SourceName }

type freeBusyRequest struct {
	TimeMin string         `json:"timeMin"`
	TimeMax string         `json:"timeMax"`
	Items   []freeBusyItem `json:"items"`
}

type freeBusyItem struct {
	ID string `json:"id"`
}

type freeBusyResponse struct {
	Calendars map[string]struct {
		Busy []struct {
			Start time.Time `json:"start"`
			End   time.Time `json:"end"`
		} `json:"busy"`
		Errors []struct {
			Domain string `json:"domain"`
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"calendars"`
}

func (s *BusySource) FetchBusy(ctx context.Context, userID uuid.UUID, start, end time.Time) ([]domain.BusyInterval, error) {
	if s.tokens == nil {
		return nil, errors.New("google token provider not configured")
	}
	tokenSource, err := s.tokens.TokenSource(ctx, userID)
	if err != nil {
		return nil, err
	}
	token, err := tokenSource.Token()
	if err != nil {
		s.logger.Warn("oauth token refresh failed", "error", err)
		return nil, err
	}
	if !token.Expiry.IsZero() && time.Until(token.Expiry) < time.Minute {
		s.logger.Debug("oauth token about to expire", "expires_at", token.Expiry)
	}

	client := &http.Client{
		Timeout:   s.timeout,
		Transport: &oauth2.Transport{Base: http.DefaultTransport, Source: oauth2.ReuseTokenSource(token, tokenSource)},
	}

	body, err := json.Marshal(freeBusyRequest{
		TimeMin: start.UTC().Format(time.RFC3339),
		TimeMax: end.UTC().Format(time.RFC3339),
		Items:   []freeBusyItem{{ID: s.calendarID}},
	})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/freeBusy", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, responseError(resp)
	}

	var parsed freeBusyResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode freeBusy response: %w", err)
	}
	cal, ok := parsed.Calendars[s.calendarID]
	if !ok {
		return nil, fmt.Errorf("freeBusy response has no calendar %q", s.calendarID)
	}
	if len(cal.Errors) > 0 {
		return nil, fmt.Errorf("freeBusy calendar %q: %s", s.calendarID, cal.Errors[0].Reason)
	}

	busy := make([]domain.BusyInterval, 0, len(cal.Busy))
	for _, b := range cal.Busy {
		busy = append(busy, domain.BusyInterval{Start: b.Start, End: b.End})
	}
	return busy, nil
}

func responseError(resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return fmt.Errorf("google calendar request failed: status=%d body=%s", resp.StatusCode, string(body))
}
