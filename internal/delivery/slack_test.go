package delivery

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(url string) *Client {
	cfg := DefaultConfig()
	cfg.WebhookURL = url
	return NewClient(cfg)
}

func TestClient_Deliver_SingleMessage(t *testing.T) {
	var got slackPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	err := client.Deliver(context.Background(), "weekly_2025-10-13_2025-10-19.md", "Weekly Digest", "# Team Digest\n\n- one item\n")

	require.NoError(t, err)
	assert.Contains(t, got.Text, "*Weekly Digest*")
	assert.Contains(t, got.Text, "```weekly_2025-10-13_2025-10-19.md```")
	assert.Contains(t, got.Text, "- one item")
}

func TestClient_Deliver_ChunksLongBody(t *testing.T) {
	var texts []string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p slackPayload
		require.NoError(t, json.NewDecoder(r.Body).Decode(&p))
		texts = append(texts, p.Text)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.WebhookURL = srv.URL
	cfg.MaxChars = 40
	client := NewClient(cfg)

	body := "first paragraph here\n\nsecond paragraph here\n\nthird paragraph here"
	err := client.Deliver(context.Background(), "digest.md", "", body)

	require.NoError(t, err)
	require.Greater(t, len(texts), 1, "long body should split into multiple messages")
	assert.Contains(t, texts[0], "first paragraph here")
	assert.Contains(t, texts[1], "(part 2) of `digest.md`")
}

func TestClient_Deliver_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte("invalid_token"))
	}))
	defer srv.Close()

	client := testClient(srv.URL)
	err := client.Deliver(context.Background(), "digest.md", "", "body")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrDeliveryFailed)
	assert.Contains(t, err.Error(), "403")
}

func TestClient_Deliver_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.WebhookURL = srv.URL
	cfg.TimeoutMs = 50
	client := NewClient(cfg)

	err := client.Deliver(context.Background(), "digest.md", "", "body")
	assert.ErrorIs(t, err, ErrDeliveryFailed)
}

func TestClient_Deliver_NoURL(t *testing.T) {
	client := NewClient(DefaultConfig())
	err := client.Deliver(context.Background(), "digest.md", "", "body")
	assert.ErrorIs(t, err, ErrDeliveryFailed)
}

func TestValidateWebhookURL(t *testing.T) {
	assert.NoError(t, ValidateWebhookURL("https://hooks.slack.com/services/T000/B000/XXX"))
	assert.ErrorIs(t, ValidateWebhookURL("https://example.com/hook"), ErrDeliveryFailed)
	assert.ErrorIs(t, ValidateWebhookURL(""), ErrDeliveryFailed)
}

func TestChunkText(t *testing.T) {
	t.Run("short text is one chunk", func(t *testing.T) {
		assert.Equal(t, []string{"hello"}, chunkText("hello", 100))
	})

	t.Run("splits on paragraph boundaries", func(t *testing.T) {
		text := strings.Repeat("aaaa", 5) + "\n\n" + strings.Repeat("bbbb", 5)
		chunks := chunkText(text, 25)
		require.Len(t, chunks, 2)
		assert.Equal(t, strings.Repeat("aaaa", 5), chunks[0])
		assert.Equal(t, strings.Repeat("bbbb", 5), chunks[1])
	})

	t.Run("oversized paragraph stays whole", func(t *testing.T) {
		big := strings.Repeat("x", 50)
		chunks := chunkText(big+"\n\nsmall", 30)
		require.Len(t, chunks, 2)
		assert.Equal(t, big, chunks[0])
	})
}
