package google

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

type stubTokenSourceProvider struct {
	source oauth2.TokenSource
	err    error
}

func (s stubTokenSourceProvider) TokenSource(context.Context, uuid.UUID) (oauth2.TokenSource, error) {
	return s.source, s.err
}

var (
	start = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	end   = start.AddDate(0, 0, 7)
)

func staticTokens() stubTokenSourceProvider {
	return stubTokenSourceProvider{source: oauth2.StaticTokenSource(&oauth2.Token{AccessToken: "test"})}
}

func TestBusySource_FetchBusy(t *testing.T) {
	var got freeBusyRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/freeBusy", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "Bearer test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		_ = json.NewEncoder(w).Encode(map[string]any{
			"calendars": map[string]any{
				"work@example.com": map[string]any{
					"busy": []map[string]string{
						{"start": "2026-10-19T09:00:00Z", "end": "2026-10-19T10:30:00Z"},
						{"start": "2026-10-20T13:00:00+02:00", "end": "2026-10-20T14:00:00+02:00"},
					},
				},
			},
		})
	}))
	defer server.Close()

	src := NewBusySourceWithBaseURL(staticTokens(), nil, server.URL).WithCalendarID("work@example.com")
	assert.Equal(t, SourceName, src.Name())

	busy, err := src.FetchBusy(context.Background(), uuid.New(), start, end)
	require.NoError(t, err)
	require.Len(t, busy, 2)
	assert.Equal(t, 90, busy[0].Minutes())
	assert.True(t, busy[1].Start.Equal(time.Date(2026, 10, 20, 11, 0, 0, 0, time.UTC)))

	assert.Equal(t, "2026-10-19T00:00:00Z", got.TimeMin)
	assert.Equal(t, "2026-10-26T00:00:00Z", got.TimeMax)
	assert.Equal(t, []freeBusyItem{{ID: "work@example.com"}}, got.Items)
}

func TestBusySource_Failures(t *testing.T) {
	ctx := context.Background()

	t.Run("http error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("backend down"))
		}))
		defer server.Close()

		_, err := NewBusySourceWithBaseURL(staticTokens(), nil, server.URL).FetchBusy(ctx, uuid.New(), start, end)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "status=503")
	})

	t.Run("calendar error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"calendars":{"primary":{"errors":[{"domain":"global","reason":"notFound"}]}}}`))
		}))
		defer server.Close()

		_, err := NewBusySourceWithBaseURL(staticTokens(), nil, server.URL).FetchBusy(ctx, uuid.New(), start, end)
		assert.ErrorContains(t, err, "notFound")
	})

	t.Run("token error", func(t *testing.T) {
		boom := errors.New("no token")
		_, err := NewBusySource(stubTokenSourceProvider{err: boom}, nil).FetchBusy(ctx, uuid.New(), start, end)
		assert.ErrorIs(t, err, boom)
	})

	t.Run("no provider", func(t *testing.T) {
		_, err := NewBusySource(nil, nil).FetchBusy(ctx, uuid.New(), start, end)
		assert.Error(t, err)
	})

	t.Run("missing refresh token", func(t *testing.T) {
		_, err := NewRefreshTokenProvider("id", "secret", "").TokenSource(ctx, uuid.New())
		assert.Error(t, err)
	})
}
