package main

import (
	"context"
	"fmt"

	"github.com/Veraticus/pointage/internal/config"
	"github.com/Veraticus/pointage/internal/storage"
	"github.com/spf13/viper"
)

// openStorage opens and migrates the history database.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	path := config.ExpandPath(viper.GetString(config.KeyStoragePath))

	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate history database: %w", err)
	}
	return store, nil
}
