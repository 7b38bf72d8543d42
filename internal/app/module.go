// Package app composes the client's components into an fx application:
// profile lock, store, event bus, user store, friend registry, auto
// responder, chat session, and call session.
package app

import (
	"context"
	"path/filepath"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/cosmoschat/cosmoschat/internal/bus"
	"github.com/cosmoschat/cosmoschat/internal/call"
	"github.com/cosmoschat/cosmoschat/internal/chat"
	"github.com/cosmoschat/cosmoschat/internal/config"
	"github.com/cosmoschat/cosmoschat/internal/friend"
	"github.com/cosmoschat/cosmoschat/internal/lock"
	"github.com/cosmoschat/cosmoschat/internal/logging"
	"github.com/cosmoschat/cosmoschat/internal/profile"
	"github.com/cosmoschat/cosmoschat/internal/responder"
	"github.com/cosmoschat/cosmoschat/internal/store"
	"github.com/cosmoschat/cosmoschat/internal/user"
)

// Params holds the resolved profile configuration passed to the fx module.
type Params struct {
	ProfileName string
	Config      *config.Config
	DataDir     string // optional override for testing; empty = use the profile directory
}

func (p Params) dir() string {
	if p.DataDir != "" {
		return p.DataDir
	}
	return profile.Dir(p.ProfileName)
}

// Module returns the fx module for the client, composing all providers
// and lifecycle hooks.
func Module(p Params) fx.Option {
	return fx.Module("app",
		fx.Supply(p),
		fx.Provide(
			provideLogger,
			provideBus,
			provideClock,
			provideLock,
			provideStore,
			provideUserStore,
			provideRegistry,
			provideResponder,
			provideChatSession,
			provideCallSession,
		),
		fx.Invoke(registerLifecycle),
	)
}

func provideLogger(p Params) (*zap.Logger, error) {
	if p.DataDir != "" {
		return zap.NewNop(), nil
	}
	return logging.New(profile.LogPath(p.ProfileName), p.ProfileName)
}

func provideBus() *bus.Bus {
	return bus.New()
}

func provideClock() clock.Clock {
	return clock.New()
}

func provideLock(p Params, logger *zap.Logger) (*lock.Lock, error) {
	if p.DataDir == "" {
		if err := profile.EnsureDir(p.ProfileName); err != nil {
			return nil, err
		}
	}
	logger.Info("acquiring profile lock", zap.String("profile", p.ProfileName))
	l, err := lock.Acquire(p.dir())
	if err != nil {
		return nil, err
	}
	logger.Info("profile lock acquired")
	return l, nil
}

func provideStore(p Params, _ *lock.Lock, logger *zap.Logger) (*store.DB, error) {
	dbPath := profile.DBPath(p.ProfileName)
	if p.DataDir != "" {
		dbPath = filepath.Join(p.DataDir, "app.db")
	}
	db, err := store.Open(dbPath)
	if err != nil {
		return nil, err
	}
	result, err := db.Migrate()
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	if result.Changed {
		logger.Info("migrations applied", zap.Uint("version", result.Version))
	} else {
		logger.Info("migrations up to date", zap.Uint("version", result.Version))
	}
	logger.Info("store initialized", zap.String("path", dbPath))
	return db, nil
}

func provideUserStore(db *store.DB, b *bus.Bus, logger *zap.Logger) *user.Store {
	return user.New(db, b, logger)
}

func provideRegistry(db *store.DB, b *bus.Bus, logger *zap.Logger) *friend.Registry {
	return friend.New(db, b, logger)
}

func provideResponder(db *store.DB, b *bus.Bus, clk clock.Clock, logger *zap.Logger) *responder.Responder {
	return responder.New(db, b, clk, logger)
}

func provideChatSession(p Params, db *store.DB, reg *friend.Registry, resp *responder.Responder, b *bus.Bus, clk clock.Clock, logger *zap.Logger) *chat.Session {
	var textDelay, imageDelay time.Duration
	if p.Config != nil {
		textDelay = time.Duration(p.Config.ReplyDelayMs) * time.Millisecond
		imageDelay = time.Duration(p.Config.ImageReplyDelayMs) * time.Millisecond
	}
	return chat.New(db, reg, resp, b, clk, logger, textDelay, imageDelay)
}

func provideCallSession(b *bus.Bus, clk clock.Clock, logger *zap.Logger) *call.Session {
	return call.NewSession(&call.SystemProvider{}, clk, b, logger)
}

func registerLifecycle(lc fx.Lifecycle, lk *lock.Lock, db *store.DB, resp *responder.Responder, calls *call.Session, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			calls.End()
			resp.Stop()
			if err := db.Close(); err != nil {
				logger.Warn("error closing store", zap.Error(err))
			}
			if err := lk.Release(); err != nil {
				logger.Warn("error releasing lock", zap.Error(err))
			}
			logger.Info("client stopped")
			return nil
		},
	})
}
