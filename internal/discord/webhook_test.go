package discord

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWebhookSend_PostsEmbedPayload(t *testing.T) {
	var got executePayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL)
	err := wh.Send(context.Background(), Embed{Title: "Ban Appeal", Color: 0xFF0000})
	require.NoError(t, err)
	require.Len(t, got.Embeds, 1)
	require.Equal(t, "Ban Appeal", got.Embeds[0].Title)
	require.Equal(t, 0xFF0000, got.Embeds[0].Color)
}

func TestWebhookSend_NonSuccessIsStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	wh := NewWebhook(srv.URL)
	err := wh.Send(context.Background(), Embed{Title: "Ban Appeal"})

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	require.Equal(t, http.StatusTooManyRequests, statusErr.StatusCode)
}
