package semantic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moviechat/moviechat/internal/config"
	"github.com/moviechat/moviechat/internal/intent"
)

func chatServer(t *testing.T, status int, content string, calls *int32) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer test-key" {
			t.Errorf("unexpected auth header: %s", r.Header.Get("Authorization"))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if status != http.StatusOK {
			_, _ = w.Write([]byte(`{"error":{"message":"boom","type":"server_error"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl-1",
			"object":  "chat.completion",
			"created": 1,
			"model":   "test-model",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": content},
			}},
		})
	}))
}

func newTestExtractor(url string) *Extractor {
	return New(config.LLMConfig{
		APIKey:  "test-key",
		BaseURL: url,
		Model:   "test-model",
		Timeout: 5,
	}, zerolog.Nop())
}

func TestExtractor_Extract(t *testing.T) {
	var calls int32
	content := `{"content_type":"series","title_query":null,"person_name":"Christopher Nolan","person_role":"director",
		"genres":["thriller"],"keywords":["heist"],"year_from":2016,"year_to":null,"language":"EN"}`
	server := chatServer(t, http.StatusOK, content, &calls)
	defer server.Close()

	hint, ok := newTestExtractor(server.URL).Extract(context.Background(), "nolan heist shows after 2015")
	require.True(t, ok)

	assert.Equal(t, intent.ContentSeries, hint.ContentType)
	assert.Equal(t, "", hint.TitleQuery)
	assert.Equal(t, "Christopher Nolan", hint.PersonName)
	assert.Equal(t, intent.RoleDirector, hint.PersonRole)
	assert.Equal(t, []string{"thriller"}, hint.Genres)
	assert.Equal(t, []string{"heist"}, hint.Keywords)
	require.NotNil(t, hint.YearFrom)
	assert.Equal(t, 2016, *hint.YearFrom)
	assert.Nil(t, hint.YearTo)
	assert.Equal(t, "en", hint.Language)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestExtractor_FencedJSON(t *testing.T) {
	var calls int32
	server := chatServer(t, http.StatusOK, "```json\n{\"content_type\":\"movie\",\"title_query\":\"Inception\"}\n```", &calls)
	defer server.Close()

	hint, ok := newTestExtractor(server.URL).Extract(context.Background(), "like inception")
	require.True(t, ok)
	assert.Equal(t, intent.ContentMovie, hint.ContentType)
	assert.Equal(t, "Inception", hint.TitleQuery)
}

func TestExtractor_DefaultsRoleToActor(t *testing.T) {
	var calls int32
	server := chatServer(t, http.StatusOK, `{"content_type":"unknown","person_name":"Tom Cruise"}`, &calls)
	defer server.Close()

	hint, ok := newTestExtractor(server.URL).Extract(context.Background(), "tom cruise")
	require.True(t, ok)
	assert.Equal(t, intent.ContentUnknown, hint.ContentType)
	assert.Equal(t, intent.RoleActor, hint.PersonRole)
}

func TestExtractor_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		content string
	}{
		{"server error", http.StatusInternalServerError, ""},
		{"not json", http.StatusOK, "sorry, I can't help with that"},
		{"empty content", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			server := chatServer(t, tt.status, tt.content, &calls)
			defer server.Close()

			hint, ok := newTestExtractor(server.URL).Extract(context.Background(), "anything")
			assert.False(t, ok)
			assert.Equal(t, intent.Hint{}, hint)
			assert.Equal(t, int32(1), atomic.LoadInt32(&calls), "no retry expected")
		})
	}
}

func TestExtractor_Unconfigured(t *testing.T) {
	e := New(config.LLMConfig{}, zerolog.Nop())
	assert.False(t, e.IsConfigured())

	_, ok := e.Extract(context.Background(), "anything")
	assert.False(t, ok)

	var _ intent.Oracle = e
}
