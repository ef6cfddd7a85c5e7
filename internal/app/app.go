package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"wishbot/internal/admin"
	"wishbot/internal/assets"
	"wishbot/internal/config"
	"wishbot/internal/entities"
	"wishbot/internal/game"
	"wishbot/internal/metrics"
	"wishbot/internal/queue"
	"wishbot/internal/repository"
	"wishbot/internal/repository/in_memory_repo"
	"wishbot/internal/repository/sql_repo"
	"wishbot/internal/services/forwarder"
	"wishbot/internal/services/http_server"
	"wishbot/internal/services/http_server/handlers"
	"wishbot/internal/services/http_server/handlers/admin_handler"
	"wishbot/internal/services/http_server/handlers/debug_handler"
	"wishbot/internal/services/http_server/handlers/metrics_handler"
	"wishbot/internal/services/http_server/handlers/telegram_bot_handler"
	"wishbot/internal/services/telegram_bot"
	"wishbot/internal/session"

	"github.com/cosiner/flag"
	"github.com/xlab/closer"
)

const (
	queueCapacity  = 64
	janitorPeriod  = time.Minute
	driverInMemory = "memory"
)

type Params struct {
	Debug      bool   `names:"--debug" usage:"enable /debug route" default:"false"`
	ConfigPath string `names:"--config, -c" usage:"config file path" default:"./config.yaml"`
}

type App struct {
	params *Params
}

func New() (App, error) {
	params, err := getValidatedParams()
	if err != nil {
		return App{}, err
	}
	return App{params: params}, nil
}

func (a App) Run() error {
	cfg, err := config.LoadConfigFromFile(a.params.ConfigPath)
	if err != nil {
		return err
	}
	if cfg.BotConfig.Mode == telegram_bot.ModeWebhook && (cfg.HttpServerConfig == nil || cfg.HttpServerConfig.Port == 0) {
		return errors.New("webhook mode needs the http section with a port")
	}

	repo, err := newRepository(cfg.RepoConfig)
	if err != nil {
		return err
	}

	bot, err := telegram_bot.New(cfg.BotConfig, slog.Default())
	if err != nil {
		return err
	}

	gameCfg := &cfg.GameConfig.Game
	var roller game.Roller = bot.Roller()
	if gameCfg.Roller == "local" {
		roller = game.RandomRoller{}
	}

	sessions := session.NewMemoryStore[*game.Session](gameCfg.SessionTTL)
	metrics.RegisterActiveSessions(sessions.Len)

	events := queue.NewQueue[game.Event](queueCapacity)
	leads := queue.NewQueue[entities.Lead](queueCapacity)
	scheduler := game.NewTimerScheduler(events)

	engine := game.New(gameCfg, game.Deps{
		Repo:      repo,
		Decks:     assets.New(&cfg.GameConfig.Assets),
		Sessions:  sessions,
		Messenger: bot.Messenger(),
		Roller:    roller,
		Scheduler: scheduler,
		Leads:     leads,
	}, slog.Default())
	adminService := admin.New(cfg.AdminConfig, repo, slog.Default())
	bot.Bind(engine, adminService)

	errorCh := make(chan error)
	appCtx, wg := a.setupContextAndWg(context.Background(), errorCh)
	closer.Bind(scheduler.Stop)

	a.goRun(wg, errorCh, func() error { return bot.Run(appCtx) })
	a.goRun(wg, errorCh, func() error { return engine.Run(appCtx, events) })
	a.goRun(wg, errorCh, func() error { return sessions.Run(appCtx, janitorPeriod) })

	forwarderService := forwarder.New(cfg.AdminConfig.Ids, bot.Bot(), leads, repo, slog.Default())
	a.goRun(wg, errorCh, func() error { return forwarderService.Run(appCtx) })

	if cfg.HttpServerConfig != nil && cfg.HttpServerConfig.Port != 0 {
		h := a.setupHandlers(cfg, bot, engine, adminService, repo)
		httpServer := http_server.New(cfg.HttpServerConfig, h, slog.Default())
		a.goRun(wg, errorCh, func() error { return httpServer.Run(appCtx) })
	}

	closer.Hold()
	return nil
}

func (a App) goRun(wg *sync.WaitGroup, errorCh chan error, run func() error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		errorCh <- run()
	}()
}

// setupContextAndWg returns a context cancelled on app shutdown request and a wait group awaited on shutdown.
//
//	All non-nil errors received from errorCh after an app shutdown request will be logged as "App shutdown errors".
//	If an error is received from errorCh before an app shutdown request, closer.Close will be called.
func (a App) setupContextAndWg(parentCtx context.Context, errorCh chan error) (ctx context.Context, wg *sync.WaitGroup) {
	wg = &sync.WaitGroup{}
	ctx, cancel := context.WithCancel(parentCtx)

	go func() {
		select {
		case <-ctx.Done():
			return
		case err := <-errorCh:
			if err == nil {
				err = errors.New("service stopped unexpectedly")
			}
			slog.Error(fmt.Sprintf("stopping due to error: %+v", err))
			closer.Close()
		}
	}()

	closer.Bind(func() {
		var res error
		for err := range errorCh {
			if err == nil {
				continue
			}
			if res == nil {
				res = fmt.Errorf("%+v", err)
			}
			res = fmt.Errorf("%s\n%+v", res, err)
		}

		if res != nil {
			slog.Error(fmt.Sprintf("App shutdown errors:\n%+v", res))
		}
	})
	closer.Bind(func() {
		go func() {
			wg.Wait()
			close(errorCh)
		}()
	})
	closer.Bind(cancel)

	return
}

func (a App) setupHandlers(
	cfg *config.Config,
	bot *telegram_bot.Service,
	engine *game.Engine,
	adminService *admin.Service,
	repo repository.Repository,
) *handlers.Handlers {
	h := &handlers.Handlers{
		Metrics:     metrics_handler.New(cfg.HttpServerConfig.MetricsAuthToken),
		AdminReport: admin_handler.NewReport(adminService, cfg.AdminConfig.ApiToken, slog.Default()),
		AdminFlow:   admin_handler.NewFlow(cfg.AdminConfig.ApiToken),
	}
	if cfg.BotConfig.Mode == telegram_bot.ModeWebhook {
		h.TelegramWebhook = telegram_bot_handler.New(bot, bot.SecretToken(), slog.Default())
	}
	if a.params.Debug {
		h.Debug = debug_handler.New(engine, repo)
	}
	return h
}

func newRepository(cfg *repository.Config) (repository.Repository, error) {
	if cfg.Driver == driverInMemory {
		slog.Warn("using in-memory repository, data will be lost on restart")
		return in_memory_repo.New(), nil
	}
	return sql_repo.New(cfg)
}

func getValidatedParams() (*Params, error) {
	params := &Params{}
	if err := flag.Commandline.ParseStruct(params); err != nil {
		return nil, err
	}

	stat, err := os.Stat(params.ConfigPath)
	if err != nil {
		return nil, err
	}
	if stat.IsDir() || (filepath.Ext(stat.Name()) != ".yaml" && filepath.Ext(stat.Name()) != ".yml") {
		return nil, fmt.Errorf("invalid config path: %s", params.ConfigPath)
	}

	return params, nil
}
