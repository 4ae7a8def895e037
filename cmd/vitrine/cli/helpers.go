package cli

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/vitrinecms/vitrine/internal/region"
	"github.com/vitrinecms/vitrine/internal/store"
)

// openStore opens the relational store from viper configuration. Defaults to
// an on-disk SQLite database under the configured data directory.
func openStore() (*store.Store, error) {
	st, err := store.Open(store.Options{
		Driver: viper.GetString("store.driver"),
		DSN:    viper.GetString("store.dsn"),
	})
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return st, nil
}

// loadRegions loads the region config file when one is set, otherwise the
// built-in defaults.
func loadRegions() (region.Config, error) {
	path := viper.GetString("regions.file")
	if path == "" {
		return region.DefaultConfig(), nil
	}
	cfg, err := region.LoadConfig(path)
	if err != nil {
		return region.Config{}, fmt.Errorf("load regions: %w", err)
	}
	return cfg, nil
}
