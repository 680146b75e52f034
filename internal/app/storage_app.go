package app

import (
	"errors"

	"plagcheck/internal/storage/leveldb"
	"plagcheck/internal/storage/sqlite"
)

type StorageApp struct {
	batches *leveldb.Storage
	history *sqlite.Storage
}

func NewStorageApp(storagePath string, historyPath string) (*StorageApp, error) {
	batches, err := leveldb.New(storagePath)
	if err != nil {
		return nil, err
	}

	history, err := sqlite.New(historyPath)
	if err != nil {
		_ = batches.Close()
		return nil, err
	}

	return &StorageApp{batches: batches, history: history}, nil
}

func (s *StorageApp) Stop() error {
	return errors.Join(s.batches.Close(), s.history.Close())
}

func (s *StorageApp) Batches() *leveldb.Storage {
	return s.batches
}

func (s *StorageApp) History() *sqlite.Storage {
	return s.history
}
