package store

import (
	"context"
	"fmt"

	"github.com/theleywin/talentnest/src/config"
	"github.com/theleywin/talentnest/src/lib"
)

// Open connects to the backend selected by cfg.DBDriver
func Open(ctx context.Context, cfg *config.Config) (Store, error) {
	switch cfg.DBDriver {
	case config.DriverMongo:
		db, err := lib.ConnectMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return NewMongoStore(db), nil
	case config.DriverSQLite:
		db, err := lib.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db), nil
	case config.DriverPostgres:
		db, err := lib.OpenPostgres(cfg.PostgresDSN)
		if err != nil {
			return nil, err
		}
		return NewGormStore(db), nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.DBDriver)
	}
}
