// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"
	"errors"
	"strings"

	"github.com/gavelhq/gavel/internal/app/store/activitylog"
	"github.com/gavelhq/gavel/internal/app/store/guildconfig"
	"github.com/gavelhq/gavel/internal/app/store/notes"
	"github.com/gavelhq/gavel/internal/app/store/roster"
	"github.com/gavelhq/gavel/internal/app/store/scopes"
	"github.com/gavelhq/gavel/internal/app/store/strikes"
	"github.com/gavelhq/gavel/internal/app/system/timeouts"

	"github.com/dalemusser/waffle/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

// ConnectDB builds the MongoDB client and verifies the connection with a
// ping before the rest of startup proceeds.
func ConnectDB(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, logger *zap.Logger) (DBDeps, error) {
	opts := options.Client().
		ApplyURI(appCfg.MongoURI).
		SetMaxPoolSize(appCfg.MongoMaxPoolSize).
		SetMinPoolSize(appCfg.MongoMinPoolSize)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		logger.Error("MongoDB connect failed", zap.Error(err))
		return DBDeps{}, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, timeouts.Ping())
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		logger.Error("MongoDB ping failed", zap.Error(err))
		_ = client.Disconnect(ctx)
		return DBDeps{}, err
	}

	logger.Info("connected to MongoDB",
		zap.String("database", appCfg.MongoDatabase))

	return DBDeps{
		GavelMongoClient:   client,
		GavelMongoDatabase: client.Database(appCfg.MongoDatabase),
	}, nil
}

// EnsureSchema creates every store's indexes. Each EnsureIndexes call is
// idempotent; problems are aggregated so a single failure does not hide
// the rest.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	db := deps.GavelMongoDatabase

	ensurers := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"roster_entries", roster.New(db).EnsureIndexes},
		{"activity_events", activitylog.New(db).EnsureIndexes},
		{"roster_notes", notes.New(db).EnsureIndexes},
		{"roster_strikes", strikes.New(db).EnsureIndexes},
		{"guild_config", guildconfig.New(db).EnsureIndexes},
		{"monitored_scopes", scopes.New(db).EnsureIndexes},
	}

	var problems []string
	for _, e := range ensurers {
		if err := e.fn(ctx); err != nil {
			problems = append(problems, e.name+": "+err.Error())
		}
	}
	if len(problems) > 0 {
		return errors.New(strings.Join(problems, "; "))
	}

	logger.Info("schema ensured", zap.Int("collections", len(ensurers)))
	return nil
}
