package bootstrap

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/adapters/vectorindex"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flatEmbedder struct{}

func (flatEmbedder) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{1}
	}
	return out, nil
}

func TestOpenIndex_LockedFileIsNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	held, err := vectorindex.Open(path, flatEmbedder{})
	require.NoError(t, err)
	defer held.Close()

	var logs bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&logs, nil))

	index, err := openIndex(logger, path, flatEmbedder{}, vectorindex.WithOpenTimeout(50*time.Millisecond))

	require.NoError(t, err)
	assert.Nil(t, index)
	assert.Contains(t, logs.String(), "continuing without search")
}

func TestOpenIndex_Opens(t *testing.T) {
	logger := slog.New(slog.NewJSONHandler(&bytes.Buffer{}, nil))

	index, err := openIndex(logger, filepath.Join(t.TempDir(), "index.db"), flatEmbedder{})

	require.NoError(t, err)
	require.NotNil(t, index)
	assert.NoError(t, index.Close())
}

func TestNewLogger_Levels(t *testing.T) {
	assert.True(t, NewLogger("debug").Enabled(context.Background(), slog.LevelDebug))
	assert.False(t, NewLogger("warn").Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, NewLogger("nonsense").Enabled(context.Background(), slog.LevelInfo))
}
