// Package storage selects the player store named by the configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/totorewa/folderbot/internal/config"
	"github.com/totorewa/folderbot/internal/player"
	"github.com/totorewa/folderbot/internal/storage/boltstore"
	"github.com/totorewa/folderbot/internal/storage/jsonfile"
	"github.com/totorewa/folderbot/internal/storage/postgres"
)

// Opened is a ready player store and the function releasing it.
type Opened struct {
	Store player.Store
	Close func()
}

// Open returns the store for cfg.Storage.Driver.
//
// Precondition: cfg has passed Validate.
// Postcondition: Returns a usable store whose Close must be called once, or
// an error naming the driver.
func Open(ctx context.Context, cfg config.Config) (Opened, error) {
	switch cfg.Storage.Driver {
	case config.DriverJSON:
		return Opened{Store: jsonfile.New(cfg.Storage.JSONPath), Close: func() {}}, nil
	case config.DriverBolt:
		s, err := boltstore.Open(cfg.Storage.BoltPath)
		if err != nil {
			return Opened{}, err
		}
		return Opened{Store: s, Close: func() { _ = s.Close() }}, nil
	case config.DriverPostgres:
		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return Opened{}, err
		}
		return Opened{Store: pool.Players(), Close: pool.Close}, nil
	default:
		return Opened{}, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}
