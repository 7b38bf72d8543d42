package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/cosmoschat/cosmoschat/internal/app"
	"github.com/cosmoschat/cosmoschat/internal/bus"
	"github.com/cosmoschat/cosmoschat/internal/call"
	"github.com/cosmoschat/cosmoschat/internal/chat"
	"github.com/cosmoschat/cosmoschat/internal/config"
	"github.com/cosmoschat/cosmoschat/internal/friend"
	"github.com/cosmoschat/cosmoschat/internal/profile"
	"github.com/cosmoschat/cosmoschat/internal/tui"
	"github.com/cosmoschat/cosmoschat/internal/tui/model"
	"github.com/cosmoschat/cosmoschat/internal/user"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	flag.Parse()

	profileName := profile.Resolve(*profileFlag)
	if err := profile.ValidateName(profileName); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load(profile.ConfigPath())
	if err != nil {
		cfg = &config.Config{}
	}

	fxApp := fx.New(
		app.Module(app.Params{ProfileName: profileName, Config: cfg}),
		fx.Provide(provideViewModel, provideTUI),
		fx.Invoke(runTUI),
		fx.NopLogger,
	)

	fxApp.Run()
}

func provideViewModel(users *user.Store, registry *friend.Registry, session *chat.Session, calls *call.Session) *model.ViewModel {
	return model.NewViewModel(users, registry, session, calls)
}

func provideTUI(p app.Params, vm *model.ViewModel, b *bus.Bus) *tui.App {
	return tui.NewApp(vm, b, p.ProfileName)
}

// runTUI ties the blocking tview loop to the fx lifecycle: the app shuts
// down when the UI exits, and the UI is stopped on shutdown.
func runTUI(lc fx.Lifecycle, ui *tui.App, sd fx.Shutdowner, logger *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				if err := ui.Run(); err != nil {
					logger.Error("tui exited with error", zap.Error(err))
				}
				_ = sd.Shutdown()
			}()
			return nil
		},
		OnStop: func(_ context.Context) error {
			ui.Stop()
			return nil
		},
	})
}
