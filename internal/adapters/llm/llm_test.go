package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/apperrors"
	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient(Config{APIKey: "test-key", BaseURL: srv.URL + "/v1"})
	require.NoError(t, err)
	return c
}

func chatReply(w http.ResponseWriter, content string) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"id":     "chatcmpl-1",
		"object": "chat.completion",
		"model":  DefaultChatModel,
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	})
}

func TestNewClient_RequiresKey(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestClient_Embed(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/embeddings", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, DefaultEmbeddingModel, body["model"])

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"object": "list",
			"model":  DefaultEmbeddingModel,
			"data": []map[string]any{
				{"object": "embedding", "index": 1, "embedding": []float32{0, 1}},
				{"object": "embedding", "index": 0, "embedding": []float32{1, 0}},
			},
		})
	})

	vectors, err := c.Embed(context.Background(), []string{"a", "b"})

	require.NoError(t, err)
	assert.Equal(t, [][]float32{{1, 0}, {0, 1}}, vectors)
}

func TestClient_EmbedServerError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	})

	_, err := c.Embed(context.Background(), []string{"a"})

	assert.ErrorIs(t, err, apperrors.ErrCollaborator)
}

func TestClient_Plan(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		format, _ := body["response_format"].(map[string]any)
		assert.Equal(t, "json_object", format["type"])

		chatReply(w, `{"reports":[{"kind":"sales_summary","start_date":"2024-01-01","end_date":"2024-01-31"},{"kind":"nonsense"}],"search":true}`)
	})

	plan, err := c.Plan(context.Background(), "¿Cuánto vendimos en enero?", domain.ReportKinds())

	require.NoError(t, err)
	require.Len(t, plan.Reports, 1)
	assert.True(t, plan.Search)
	assert.Equal(t, domain.ReportSalesSummary, plan.Reports[0].Kind)
	require.NotNil(t, plan.Reports[0].Params.Range.Start)
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), *plan.Reports[0].Params.Range.Start)
}

func TestClient_Synthesize(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.Len(t, body.Messages, 2)
		assert.True(t, strings.Contains(body.Messages[1].Content, `"revenue": "500000"`))

		chatReply(w, "  Revenue was 500,000.  ")
	})

	text, err := c.Synthesize(context.Background(), "revenue?", `{"revenue": "500000"}`)

	require.NoError(t, err)
	assert.Equal(t, "Revenue was 500,000.", text)
}

func TestParsePlan(t *testing.T) {
	plan, err := ParsePlan("```json\n{\"reports\":[{\"kind\":\"Trend_Analysis\",\"months\":3,\"as_of\":\"2024-06-30\"}]}\n```")
	require.NoError(t, err)
	require.Len(t, plan.Reports, 1)
	assert.Equal(t, domain.ReportTrendAnalysis, plan.Reports[0].Kind)
	assert.Equal(t, 3, plan.Reports[0].Params.Months)
	assert.Equal(t, time.Date(2024, 6, 30, 0, 0, 0, 0, time.UTC), plan.Reports[0].Params.AsOf)
	assert.Nil(t, plan.Reports[0].Params.Range.Start)

	_, err = ParsePlan("not json")
	assert.ErrorIs(t, err, apperrors.ErrCollaborator)

	_, err = ParsePlan(`{"reports":[{"kind":"unknown"}]}`)
	assert.ErrorIs(t, err, apperrors.ErrCollaborator)
}
