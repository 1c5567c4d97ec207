// Package semantic implements an intent.Oracle backed by an OpenAI-compatible chat
// completion endpoint. Gemini, OpenAI and local gateways all speak this protocol.
package semantic

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	openai "github.com/sashabaranov/go-openai"

	"github.com/moviechat/moviechat/internal/config"
	"github.com/moviechat/moviechat/internal/intent"
	"github.com/moviechat/moviechat/internal/metrics"
)

const systemPrompt = `You are an intent parser for a movie/TV recommender.
Extract structured filters from the user's request.
Rules:
- If the user mentions a specific title (e.g. Game of Thrones), set title_query.
- If the user asks for an actor's, director's or writer's work (e.g. "tom cruise movies", "nolan films"), set person_name and person_role (actor, director or writer).
- series/tv/show means content_type "series"; movie/film means "movie"; otherwise "unknown".
- Years: "after 2015" means year_from=2016, "since 2015" means year_from=2015, "before 2015" means year_to=2014.
- genres: plain genre words like comedy, crime, thriller, adventure, animation.
- keywords: thematic terms like heist, revenge, courtroom, whodunit.
- language: ISO 639-1 code of the requested original language, or null.
Return ONLY a JSON object with the keys content_type, title_query, person_name, person_role, genres, keywords, year_from, year_to, language. Use null for unknown values.`

var errEmptyResponse = errors.New("empty completion response")

// Extractor asks a chat model for a structured intent hint.
type Extractor struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	logger  zerolog.Logger
}

// New creates an Extractor. Without an API key the extractor is left unconfigured and
// every Extract call reports no hint.
func New(cfg config.LLMConfig, logger zerolog.Logger) *Extractor {
	e := &Extractor{
		model:   cfg.Model,
		timeout: time.Duration(cfg.Timeout) * time.Second,
		logger:  logger.With().Str("component", "semantic").Logger(),
	}
	if cfg.APIKey == "" {
		return e
	}

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	e.client = openai.NewClientWithConfig(clientCfg)
	return e
}

// IsConfigured returns true if a credential was supplied.
func (e *Extractor) IsConfigured() bool {
	return e.client != nil
}

// Extract implements intent.Oracle. Any failure degrades to ok=false; there is no retry.
func (e *Extractor) Extract(ctx context.Context, text string) (intent.Hint, bool) {
	if !e.IsConfigured() || strings.TrimSpace(text) == "" {
		metrics.SemanticHintsTotal.WithLabelValues("absent").Inc()
		return intent.Hint{}, false
	}

	hint, err := e.extract(ctx, text)
	if err != nil {
		e.logger.Warn().Err(err).Msg("Semantic intent extraction failed")
		metrics.SemanticHintsTotal.WithLabelValues("absent").Inc()
		return intent.Hint{}, false
	}

	metrics.SemanticHintsTotal.WithLabelValues("hint").Inc()
	return hint, true
}

func (e *Extractor) extract(ctx context.Context, text string) (intent.Hint, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	req := openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: text},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	start := time.Now()
	resp, err := e.client.CreateChatCompletion(ctx, req)
	metrics.UpstreamRequestDuration.WithLabelValues("llm").Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues("llm", "chat", "error").Inc()
		return intent.Hint{}, describeError(err)
	}
	metrics.UpstreamRequestsTotal.WithLabelValues("llm", "chat", "ok").Inc()

	if len(resp.Choices) == 0 {
		return intent.Hint{}, errEmptyResponse
	}

	hint, err := decodeHint(resp.Choices[0].Message.Content)
	if err != nil {
		return intent.Hint{}, err
	}

	e.logger.Debug().
		Str("contentType", string(hint.ContentType)).
		Str("titleQuery", hint.TitleQuery).
		Str("personName", hint.PersonName).
		Strs("keywords", hint.Keywords).
		Msg("Semantic hint extracted")

	return hint, nil
}

// hintPayload is the JSON object the model is asked to return.
type hintPayload struct {
	ContentType *string  `json:"content_type"`
	TitleQuery  *string  `json:"title_query"`
	PersonName  *string  `json:"person_name"`
	PersonRole  *string  `json:"person_role"`
	Genres      []string `json:"genres"`
	Keywords    []string `json:"keywords"`
	YearFrom    *int     `json:"year_from"`
	YearTo      *int     `json:"year_to"`
	Language    *string  `json:"language"`
}

func decodeHint(content string) (intent.Hint, error) {
	content = stripFence(content)
	if content == "" {
		return intent.Hint{}, errEmptyResponse
	}

	var p hintPayload
	if err := json.Unmarshal([]byte(content), &p); err != nil {
		return intent.Hint{}, fmt.Errorf("decode hint: %w", err)
	}

	hint := intent.Hint{
		ContentType: intent.ParseContentType(deref(p.ContentType)),
		Language:    strings.ToLower(deref(p.Language)),
		TitleQuery:  deref(p.TitleQuery),
		PersonName:  deref(p.PersonName),
		PersonRole:  intent.ParsePersonRole(deref(p.PersonRole)),
		Genres:      p.Genres,
		Keywords:    p.Keywords,
		YearFrom:    p.YearFrom,
		YearTo:      p.YearTo,
	}
	// Models occasionally emit a name but no role; credits default to cast.
	if hint.PersonName != "" && hint.PersonRole == intent.RoleNone {
		hint.PersonRole = intent.RoleActor
	}
	if len(hint.Language) != 2 {
		hint.Language = ""
	}
	return hint, nil
}

// stripFence removes a Markdown code fence some models wrap JSON in.
func stripFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	v := strings.TrimSpace(*s)
	if strings.EqualFold(v, "null") {
		return ""
	}
	return v
}

func describeError(err error) error {
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return fmt.Errorf("chat completion error %d: %w", reqErr.HTTPStatusCode, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return fmt.Errorf("chat completion error %d: %s", apiErr.HTTPStatusCode, apiErr.Message)
	}

	return fmt.Errorf("chat completion request failed: %w", err)
}
