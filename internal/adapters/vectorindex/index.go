// Package vectorindex is a small embedded semantic index. Documents are
// embedded once on Add and stored in a bbolt file; Search ranks every stored
// vector by cosine similarity.
package vectorindex

import (
	"context"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/apperrors"
	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	bolt "go.etcd.io/bbolt"
)

const bucketDocuments = "documents"

// DefaultOpenTimeout bounds the wait for the file lock held by another process.
const DefaultOpenTimeout = 2 * time.Second

// ErrClosed is returned by operations on a closed index.
var ErrClosed = errors.New("index is closed")

// Embedder turns texts into vectors of equal dimension.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type record struct {
	Text     string            `json:"text"`
	Metadata map[string]string `json:"metadata"`
	Vector   []float32         `json:"vector"`
}

// Index is a handle on an open index file.
type Index struct {
	mu       sync.RWMutex
	db       *bolt.DB
	embedder Embedder
}

type openOptions struct {
	timeout time.Duration
}

// Option configures Open.
type Option func(*openOptions)

// WithOpenTimeout sets how long Open waits for the file lock.
func WithOpenTimeout(d time.Duration) Option {
	return func(o *openOptions) {
		o.timeout = d
	}
}

// Open opens or creates the index file at path. bbolt holds an exclusive
// file lock, so a file already open elsewhere fails with ErrCollaborator
// once the open timeout passes.
func Open(path string, embedder Embedder, opts ...Option) (*Index, error) {
	if embedder == nil {
		return nil, fmt.Errorf("%w: embedder is required", apperrors.ErrValidation)
	}
	o := openOptions{timeout: DefaultOpenTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	db, err := bolt.Open(path, 0o600, &bolt.Options{Timeout: o.timeout})
	if err != nil {
		if errors.Is(err, bolt.ErrTimeout) {
			return nil, fmt.Errorf("%w: index %s is locked by another process", apperrors.ErrCollaborator, path)
		}
		return nil, fmt.Errorf("failed to open index: %w", err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketDocuments))
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create bucket %s: %w", bucketDocuments, err)
	}
	return &Index{db: db, embedder: embedder}, nil
}

// Close releases the index file.
func (i *Index) Close() error {
	if i == nil {
		return nil
	}
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.db == nil {
		return nil
	}
	err := i.db.Close()
	i.db = nil
	return err
}

// Len returns the number of stored documents.
func (i *Index) Len() (int, error) {
	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.db == nil {
		return 0, ErrClosed
	}
	var n int
	err := i.db.View(func(tx *bolt.Tx) error {
		n = tx.Bucket([]byte(bucketDocuments)).Stats().KeyN
		return nil
	})
	return n, err
}

// Add embeds docs and stores them. Documents with blank text are skipped.
func (i *Index) Add(ctx context.Context, docs []domain.IndexDocument) error {
	if i.closed() {
		return ErrClosed
	}
	kept := make([]domain.IndexDocument, 0, len(docs))
	texts := make([]string, 0, len(docs))
	for _, d := range docs {
		if strings.TrimSpace(d.Text) == "" {
			continue
		}
		kept = append(kept, d)
		texts = append(texts, d.Text)
	}
	if len(kept) == 0 {
		return nil
	}

	vectors, err := i.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("%w: embedding documents: %v", apperrors.ErrCollaborator, err)
	}
	if len(vectors) != len(kept) {
		return fmt.Errorf("%w: embedder returned %d vectors for %d texts", apperrors.ErrCollaborator, len(vectors), len(kept))
	}

	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.db == nil {
		return ErrClosed
	}
	return i.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(bucketDocuments))
		for n, d := range kept {
			seq, err := b.NextSequence()
			if err != nil {
				return err
			}
			raw, err := json.Marshal(record{Text: d.Text, Metadata: d.Metadata, Vector: vectors[n]})
			if err != nil {
				return fmt.Errorf("encoding document: %w", err)
			}
			if err := b.Put(itob(seq), raw); err != nil {
				return err
			}
		}
		return nil
	})
}

// Search returns the k documents most similar to query, best first.
func (i *Index) Search(ctx context.Context, query string, k int) ([]domain.SearchResult, error) {
	if i.closed() {
		return nil, ErrClosed
	}
	if strings.TrimSpace(query) == "" || k <= 0 {
		return []domain.SearchResult{}, nil
	}

	vectors, err := i.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("%w: embedding query: %v", apperrors.ErrCollaborator, err)
	}
	if len(vectors) != 1 {
		return nil, fmt.Errorf("%w: embedder returned %d vectors for the query", apperrors.ErrCollaborator, len(vectors))
	}
	q := vectors[0]

	i.mu.RLock()
	defer i.mu.RUnlock()
	if i.db == nil {
		return nil, ErrClosed
	}
	results := []domain.SearchResult{}
	err = i.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(bucketDocuments)).ForEach(func(_, v []byte) error {
			var r record
			if err := json.Unmarshal(v, &r); err != nil {
				return fmt.Errorf("decoding document: %w", err)
			}
			results = append(results, domain.SearchResult{
				Text:     r.Text,
				Metadata: r.Metadata,
				Score:    cosine(q, r.Vector),
			})
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(results, func(a, b int) bool { return results[a].Score > results[b].Score })
	if len(results) > k {
		results = results[:k]
	}
	return results, nil
}

func (i *Index) closed() bool {
	i.mu.RLock()
	defer i.mu.RUnlock()
	return i.db == nil
}

// cosine is zero for mismatched or zero-length vectors.
func cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		na += x * x
		nb += y * y
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

func itob(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}
