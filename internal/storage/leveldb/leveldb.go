package leveldb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"

	"plagcheck/internal/domain/models"
	"plagcheck/internal/storage"
)

const batchPrefix = "batch:"

// Storage keeps finished batch results so they can be reviewed later.
// Page images are not persisted.
type Storage struct {
	db *leveldb.DB
}

func New(path string) (*Storage, error) {
	const op = "storage.leveldb.New"

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &Storage{db: db}, nil
}

func (s *Storage) Close() error {
	return s.db.Close()
}

func batchKey(id string) []byte {
	return []byte(batchPrefix + id)
}

func (s *Storage) SaveBatch(ctx context.Context, result *models.BatchResult) error {
	const op = "storage.leveldb.SaveBatch"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if result == nil || result.ID == "" {
		return fmt.Errorf("%s: batch id is empty", op)
	}

	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	if err := s.db.Put(batchKey(result.ID), data, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *Storage) GetBatch(ctx context.Context, id string) (*models.BatchResult, error) {
	const op = "storage.leveldb.GetBatch"

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data, err := s.db.Get(batchKey(id), nil)
	if err != nil {
		if errors.Is(err, leveldb.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, storage.ErrBatchNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var result models.BatchResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &result, nil
}

func (s *Storage) DeleteBatch(ctx context.Context, id string) error {
	const op = "storage.leveldb.DeleteBatch"

	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	key := batchKey(id)
	ok, err := s.db.Has(key, nil)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return fmt.Errorf("%s: %w", op, storage.ErrBatchNotFound)
	}

	if err := s.db.Delete(key, nil); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

// BatchSummary is the listing entry of a stored batch.
type BatchSummary struct {
	ID            string
	DocumentNames []string
	Pairs         int
	CreatedAt     string
}

// ListBatches returns stored batches, newest first.
func (s *Storage) ListBatches(ctx context.Context) ([]BatchSummary, error) {
	const op = "storage.leveldb.ListBatches"

	iter := s.db.NewIterator(util.BytesPrefix([]byte(batchPrefix)), nil)
	defer iter.Release()

	var results []*models.BatchResult
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}

		var result models.BatchResult
		if err := json.Unmarshal(iter.Value(), &result); err != nil {
			return nil, fmt.Errorf("%s: %s: %w", op, iter.Key(), err)
		}
		results = append(results, &result)
	}
	if err := iter.Error(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].CreatedAt.After(results[j].CreatedAt)
	})

	summaries := make([]BatchSummary, 0, len(results))
	for _, r := range results {
		summaries = append(summaries, BatchSummary{
			ID:            r.ID,
			DocumentNames: r.DocumentNames,
			Pairs:         len(r.Pairs),
			CreatedAt:     r.CreatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	return summaries, nil
}
