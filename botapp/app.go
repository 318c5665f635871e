// Package botapp wires the feeding point workflows to the Telegram
// runtime: menu, submission conversation, moderation callbacks, and the
// map/list presentation.
package botapp

import (
	"fmt"
	"time"

	tele "gopkg.in/telebot.v4"

	"github.com/streetpaws/feedpoint/core/bootstrap"
	coreconfig "github.com/streetpaws/feedpoint/core/config"
	coredatabase "github.com/streetpaws/feedpoint/core/database"
	coretelegram "github.com/streetpaws/feedpoint/core/telegram"
	"github.com/streetpaws/feedpoint/core/telegram/commands"
	"github.com/streetpaws/feedpoint/core/telegram/router"
	"github.com/streetpaws/feedpoint/core/telegram/state"
	"github.com/streetpaws/feedpoint/points"
	"github.com/streetpaws/feedpoint/points/jsonstore"
	"github.com/streetpaws/feedpoint/points/pgstore"
)

// App holds the wired application: configuration, workflows, and the
// conversation state manager.
type App struct {
	cfg    *Config
	svc    *points.Service
	states state.Manager
}

// Bootstrap initializes logging and storage, then wires the workflows.
func Bootstrap(cfg *Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("botapp: nil config provided")
	}

	res, err := bootstrap.Run(bootstrap.Options[points.Store]{
		Config: &cfg.Core,
		OpenStore: func(_ *coreconfig.Config) (points.Store, error) {
			return openStore(cfg)
		},
	})
	if err != nil {
		return nil, err
	}

	app := &App{
		cfg:    cfg,
		svc:    points.NewService(res.Store, points.SingleAdmin(cfg.Core.Telegram.AdminID)),
		states: state.NewMemoryManagerTTL(time.Duration(cfg.Core.Session.TTLMinutes) * time.Minute),
	}
	app.registerFlow()
	return app, nil
}

func openStore(cfg *Config) (points.Store, error) {
	switch cfg.Storage.Backend {
	case BackendPostgres:
		db, err := coredatabase.Connect(cfg.Database)
		if err != nil {
			return nil, err
		}
		if err := coredatabase.RunMigrations(cfg.Database); err != nil {
			_ = db.Close()
			return nil, err
		}
		return pgstore.New(db), nil
	default:
		return jsonstore.Open(cfg.Storage.Path)
	}
}

// TelegramRunOptions assembles the registry, middleware chain, and routes.
func (a *App) TelegramRunOptions() (coretelegram.RunOptions, error) {
	reg := coretelegram.NewRegistry()

	reg.RegisterCommand("/start", commands.Command{
		Handler:     a.handleStart,
		Description: "Ana menü",
		Aliases:     []string{"/yardim"},
	})
	reg.RegisterCommand("/admin", commands.Command{
		Handler:     a.cbAdminPanel,
		Description: "Admin paneli",
		AdminOnly:   true,
	})

	cbs := map[string]tele.HandlerFunc{
		"add_location":      a.cbAddLocation,
		"view_map":          a.cbViewMap,
		"list_locations":    a.cbListLocations,
		"my_locations":      a.cbMyLocations,
		"admin_panel":       a.cbAdminPanel,
		"pending_approvals": a.cbPendingApprovals,
		"approve":           a.cbApprove,
		"reject":            a.cbReject,
		"delete":            a.cbDelete,
		"locate":            a.cbLocate,
	}
	for key, handler := range cbs {
		if err := reg.RegisterCallback(key, handler); err != nil {
			return coretelegram.RunOptions{}, err
		}
	}

	routes := router.CommandRoutes(reg, router.CommandRouteOptions{
		AdminID: a.cfg.Core.Telegram.AdminID,
	})
	routes = append(routes, router.CallbackRoute(reg, router.CallbackOptions{}))
	routes = append(routes, router.TextRoutes(a.states, reg, router.TextOptions{})...)

	return coretelegram.RunOptions{
		Config:      &a.cfg.Core,
		Registry:    reg,
		Middlewares: coretelegram.DefaultMiddlewares(&a.cfg.Core, nil),
		Routes:      routes,
	}, nil
}
