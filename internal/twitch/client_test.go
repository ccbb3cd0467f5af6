package twitch_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/phoen88/TwitchBAPL-logs/internal/core"
	"github.com/phoen88/TwitchBAPL-logs/internal/twitch"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return log
}

func wireRec(id, createdAt string, extra map[string]string) map[string]string {
	m := map[string]string{
		"id":               id,
		"broadcaster_id":   "b1",
		"broadcaster_name": "phoen",
		"user_id":          "u1",
		"user_name":        "troll",
		"created_at":       createdAt,
		"status":           "denied",
		"text":             "please",
	}
	for k, v := range extra {
		m[k] = v
	}
	return m
}

func page(recs []map[string]string, cursor string) map[string]any {
	resp := map[string]any{"data": recs}
	if cursor != "" {
		resp["pagination"] = map[string]string{"cursor": cursor}
	}
	return resp
}

func TestUnbanRequests_PaginatesAllPages(t *testing.T) {
	pages := map[string]map[string]any{
		"": page([]map[string]string{
			wireRec("r1", "2024-01-15T10:00:00Z", nil),
			wireRec("r2", "2024-01-15T11:00:00Z", nil),
		}, "c1"),
		"c1": page([]map[string]string{
			wireRec("r3", "2024-01-15T12:00:00Z", nil),
		}, "c2"),
		"c2": page([]map[string]string{
			wireRec("r4", "2024-01-15T13:00:00Z", nil),
		}, ""),
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/moderation/unban_requests", r.URL.Path)
		require.Equal(t, "Bearer token123", r.Header.Get("Authorization"))
		require.Equal(t, "client456", r.Header.Get("Client-Id"))

		q := r.URL.Query()
		require.Equal(t, "b1", q.Get("broadcaster_id"))
		require.Equal(t, "m1", q.Get("moderator_id"))
		require.Equal(t, "100", q.Get("first"))
		require.Equal(t, "denied", q.Get("status"))

		resp, ok := pages[q.Get("after")]
		require.True(t, ok, "unexpected cursor %q", q.Get("after"))
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	c := twitch.NewClient(srv.URL, "token123", "client456", testLogger())
	recs, err := c.UnbanRequests(context.Background(), "b1", "m1", core.StatusDenied)
	require.NoError(t, err)

	ids := make([]string, len(recs))
	for i, r := range recs {
		ids[i] = r.ID
	}
	require.Equal(t, []string{"r1", "r2", "r3", "r4"}, ids)
}

func TestUnbanRequests_StopsOnStuckCursor(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Misbehaving upstream: the cursor never advances.
		_ = json.NewEncoder(w).Encode(page([]map[string]string{
			wireRec("r1", "2024-01-15T10:00:00Z", nil),
		}, "stuck"))
	}))
	defer srv.Close()

	c := twitch.NewClient(srv.URL, "t", "c", testLogger())
	recs, err := c.UnbanRequests(context.Background(), "b1", "m1", core.StatusDenied)
	require.NoError(t, err)
	// First page with no cursor, second page with cursor "stuck", then the
	// repeated "stuck" terminates the walk.
	require.Len(t, recs, 2)
}

func TestUnbanRequests_NonSuccessIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"Unauthorized"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c := twitch.NewClient(srv.URL, "t", "c", testLogger())
	_, err := c.UnbanRequests(context.Background(), "b1", "m1", core.StatusPending)
	var apiErr *twitch.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
}

func TestUnbanRequests_TimestampsAreUTC(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(page([]map[string]string{
			wireRec("r1", "2024-01-15T10:00:00Z", nil),
		}, ""))
	}))
	defer srv.Close()

	c := twitch.NewClient(srv.URL, "t", "c", testLogger())
	recs, err := c.UnbanRequests(context.Background(), "b1", "m1", core.StatusDenied)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	require.True(t, recs[0].CreatedAt.Equal(time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC)))
	require.Equal(t, time.UTC, recs[0].CreatedAt.Location())
}

func TestUnbanRequests_OptionalFields(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(page([]map[string]string{
			wireRec("r1", "2024-01-15T10:00:00Z", map[string]string{
				"moderator_name":  "modzilla",
				"resolution_text": "sorted",
			}),
			wireRec("r2", "2024-01-15T11:00:00Z", map[string]string{
				"resolution_text": "", // empty string counts as absent
			}),
		}, ""))
	}))
	defer srv.Close()

	c := twitch.NewClient(srv.URL, "t", "c", testLogger())
	recs, err := c.UnbanRequests(context.Background(), "b1", "m1", core.StatusDenied)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	require.NotNil(t, recs[0].ModeratorName)
	require.Equal(t, "modzilla", *recs[0].ModeratorName)
	require.NotNil(t, recs[0].ResolutionText)
	require.Equal(t, "sorted", *recs[0].ResolutionText)

	require.Nil(t, recs[1].ModeratorName)
	require.Nil(t, recs[1].ResolutionText)
}

func TestUnbanRequests_RejectsUnknownStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(page([]map[string]string{
			wireRec("r1", "2024-01-15T10:00:00Z", map[string]string{"status": "escalated"}),
		}, ""))
	}))
	defer srv.Close()

	c := twitch.NewClient(srv.URL, "t", "c", testLogger())
	_, err := c.UnbanRequests(context.Background(), "b1", "m1", core.StatusDenied)
	require.Error(t, err)
	require.Contains(t, err.Error(), "escalated")
}

func TestProfileImageURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/users", r.URL.Path)
		require.Equal(t, "b1", r.URL.Query().Get("id"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]string{{"profile_image_url": "https://cdn.example/pic.png"}},
		})
	}))
	defer srv.Close()

	c := twitch.NewClient(srv.URL, "t", "c", testLogger())
	url, err := c.ProfileImageURL(context.Background(), "b1")
	require.NoError(t, err)
	require.Equal(t, "https://cdn.example/pic.png", url)
}

func TestProfileImageURL_NoData(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"data": []any{}})
	}))
	defer srv.Close()

	c := twitch.NewClient(srv.URL, "t", "c", testLogger())
	url, err := c.ProfileImageURL(context.Background(), "b404")
	require.NoError(t, err)
	require.Empty(t, url)
}

func TestProfileImageURL_NonSuccessIsAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	c := twitch.NewClient(srv.URL, "t", "c", testLogger())
	_, err := c.ProfileImageURL(context.Background(), "b1")
	var apiErr *twitch.APIError
	require.True(t, errors.As(err, &apiErr))
}
