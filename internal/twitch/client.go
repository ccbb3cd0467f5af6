package twitch

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/phoen88/TwitchBAPL-logs/internal/core"
	"github.com/phoen88/TwitchBAPL-logs/internal/metrics"
)

const (
	// DefaultBaseURL is the production Helix endpoint.
	DefaultBaseURL = "https://api.twitch.tv/helix"

	pageSize = 100
)

// APIError is a non-2xx response from Helix. The whole fetch for the
// current status aborts when one page fails; there is no partial-page
// salvage or retry.
type APIError struct {
	StatusCode int
	URL        string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("twitch: %s returned %d: %s", e.URL, e.StatusCode, e.Body)
}

// Client talks to the Helix moderation and users endpoints with an app
// bearer token. All calls block until the response arrives or ctx is done.
type Client struct {
	baseURL  string
	bearer   string
	clientID string
	http     *http.Client
	log      *logrus.Logger
}

func NewClient(baseURL, bearer, clientID string, log *logrus.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		baseURL:  baseURL,
		bearer:   bearer,
		clientID: clientID,
		http:     &http.Client{Timeout: 15 * time.Second},
		log:      log,
	}
}

type wireUnbanRequest struct {
	ID              string `json:"id"`
	BroadcasterID   string `json:"broadcaster_id"`
	BroadcasterName string `json:"broadcaster_name"`
	ModeratorName   string `json:"moderator_name"`
	UserID          string `json:"user_id"`
	UserName        string `json:"user_name"`
	CreatedAt       string `json:"created_at"`
	Status          string `json:"status"`
	Text            string `json:"text"`
	ResolutionText  string `json:"resolution_text"`
}

type unbanRequestsResponse struct {
	Data       []wireUnbanRequest `json:"data"`
	Pagination struct {
		Cursor string `json:"cursor"`
	} `json:"pagination"`
}

// UnbanRequests retrieves every unban request for one (broadcaster, status)
// pair, following the pagination cursor until a response carries none.
// Records come back in upstream page order. A cursor that fails to advance
// terminates the walk early instead of looping forever.
func (c *Client) UnbanRequests(ctx context.Context, broadcasterID, moderatorID string, status core.Status) ([]core.UnbanRequest, error) {
	var (
		all    []core.UnbanRequest
		cursor string
	)
	for {
		q := url.Values{}
		q.Set("broadcaster_id", broadcasterID)
		q.Set("moderator_id", moderatorID)
		q.Set("first", fmt.Sprint(pageSize))
		q.Set("status", string(status))
		if cursor != "" {
			q.Set("after", cursor)
		}

		var page unbanRequestsResponse
		if err := c.get(ctx, "/moderation/unban_requests", q, &page); err != nil {
			return nil, err
		}
		metrics.FetchPages.WithLabelValues(string(status)).Inc()
		metrics.RecordsFetched.WithLabelValues(string(status)).Add(float64(len(page.Data)))

		for _, w := range page.Data {
			rec, err := w.toRecord()
			if err != nil {
				return nil, err
			}
			all = append(all, rec)
		}

		next := page.Pagination.Cursor
		if next == "" {
			return all, nil
		}
		if next == cursor {
			c.log.WithFields(logrus.Fields{
				"broadcaster_id": broadcasterID,
				"status":         status,
			}).Warn("pagination cursor did not advance, stopping fetch")
			return all, nil
		}
		cursor = next
	}
}

type usersResponse struct {
	Data []struct {
		ProfileImageURL string `json:"profile_image_url"`
	} `json:"data"`
}

// ProfileImageURL resolves a broadcaster id to the profile image used in
// the notification footer. An empty result is not an error; the caller
// simply omits the image.
func (c *Client) ProfileImageURL(ctx context.Context, broadcasterID string) (string, error) {
	q := url.Values{}
	q.Set("id", broadcasterID)

	var resp usersResponse
	if err := c.get(ctx, "/users", q, &resp); err != nil {
		return "", err
	}
	if len(resp.Data) == 0 {
		return "", nil
	}
	return resp.Data[0].ProfileImageURL, nil
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) error {
	u := c.baseURL + path + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("twitch: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.bearer)
	req.Header.Set("Client-Id", c.clientID)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("twitch: %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return &APIError{StatusCode: resp.StatusCode, URL: u, Body: string(body)}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("twitch: decode %s response: %w", path, err)
	}
	return nil
}

// toRecord validates one wire record at the fetch boundary so downstream
// code never probes for field presence. created_at carries no offset and
// is always UTC; parsing it in any local zone was a bug in an earlier
// revision of this tool.
func (w wireUnbanRequest) toRecord() (core.UnbanRequest, error) {
	createdAt, err := time.Parse(time.RFC3339, w.CreatedAt)
	if err != nil {
		return core.UnbanRequest{}, fmt.Errorf("twitch: request %s: bad created_at %q: %w", w.ID, w.CreatedAt, err)
	}
	status := core.Status(w.Status)
	if !status.Valid() {
		return core.UnbanRequest{}, fmt.Errorf("twitch: request %s: unknown status %q", w.ID, w.Status)
	}
	rec := core.UnbanRequest{
		ID:              w.ID,
		BroadcasterID:   w.BroadcasterID,
		BroadcasterName: w.BroadcasterName,
		UserID:          w.UserID,
		UserName:        w.UserName,
		CreatedAt:       createdAt.UTC(),
		Status:          status,
		Text:            w.Text,
	}
	if w.ModeratorName != "" {
		rec.ModeratorName = &w.ModeratorName
	}
	if w.ResolutionText != "" {
		rec.ResolutionText = &w.ResolutionText
	}
	return rec, nil
}
