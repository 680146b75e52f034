package leveldb

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plagcheck/internal/domain/models"
	"plagcheck/internal/storage"
)

func newStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func sampleBatch(id string, createdAt time.Time) *models.BatchResult {
	score := 62.5
	return &models.BatchResult{
		ID: id,
		Matrix: models.Matrix{
			"a.txt": {"a.txt": nil, "b.txt": &score},
			"b.txt": {"a.txt": &score, "b.txt": nil},
		},
		Pairs: []models.PairComparison{{
			Doc1Name:   "a.txt",
			Doc2Name:   "b.txt",
			Doc1Text:   "Algoritma Rabin Karp",
			Doc2Text:   "algoritma rabin",
			Doc1Images: []models.RasterPage{{Number: 1}},
			Similarity: score,
			Matches:    models.FragmentsFromTexts(models.WordFragment, "algoritma", "rabin"),
		}},
		DocumentNames: []string{"a.txt", "b.txt"},
		CreatedAt:     createdAt,
	}
}

func TestSaveAndGetBatch(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()
	created := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveBatch(ctx, sampleBatch("b1", created)))

	got, err := s.GetBatch(ctx, "b1")
	require.NoError(t, err)

	assert.Equal(t, "b1", got.ID)
	assert.Equal(t, []string{"a.txt", "b.txt"}, got.DocumentNames)
	assert.True(t, created.Equal(got.CreatedAt))
	require.Len(t, got.Pairs, 1)
	assert.Equal(t, 62.5, got.Pairs[0].Similarity)
	assert.Equal(t, []string{"algoritma", "rabin"}, models.MatchResult{Fragments: got.Pairs[0].Matches}.Texts())
	assert.Empty(t, got.Pairs[0].Doc1Images)

	score, ok := got.Matrix.Score("b.txt", "a.txt")
	require.True(t, ok)
	assert.Equal(t, 62.5, score)
	assert.Nil(t, got.Matrix["a.txt"]["a.txt"])
}

func TestGetBatchNotFound(t *testing.T) {
	s := newStorage(t)

	_, err := s.GetBatch(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrBatchNotFound)
}

func TestDeleteBatch(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()
	require.NoError(t, s.SaveBatch(ctx, sampleBatch("b1", time.Now())))

	require.NoError(t, s.DeleteBatch(ctx, "b1"))

	_, err := s.GetBatch(ctx, "b1")
	assert.ErrorIs(t, err, storage.ErrBatchNotFound)
	assert.ErrorIs(t, s.DeleteBatch(ctx, "b1"), storage.ErrBatchNotFound)
}

func TestListBatchesNewestFirst(t *testing.T) {
	s := newStorage(t)
	ctx := context.Background()
	base := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveBatch(ctx, sampleBatch("old", base)))
	require.NoError(t, s.SaveBatch(ctx, sampleBatch("new", base.Add(time.Hour))))

	list, err := s.ListBatches(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "old", list[1].ID)
	assert.Equal(t, 1, list[0].Pairs)
	assert.Equal(t, "2024-05-01 11:00:00", list[0].CreatedAt)
}

func TestSaveBatchRejectsEmptyID(t *testing.T) {
	s := newStorage(t)
	assert.Error(t, s.SaveBatch(context.Background(), &models.BatchResult{}))
}
