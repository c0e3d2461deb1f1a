package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/sirupsen/logrus"

	"github.com/danpilch/railpal/internal/api/railradar"
	"github.com/danpilch/railpal/internal/config"
	"github.com/danpilch/railpal/internal/monitor"
	"github.com/danpilch/railpal/internal/notify"
	"github.com/danpilch/railpal/internal/railway"
	"github.com/danpilch/railpal/internal/scheduler"
	"github.com/danpilch/railpal/internal/server"
)

type engine struct {
	stations *railway.StationResolver
	trains   *railway.TrainLister
	live     *railway.Reconciler
	details  *railway.DetailLookup
}

type appContext struct {
	cfg    *config.Config
	logger *logrus.Logger
	engine engine
}

type ServeCmd struct {
	Addr string `help:"Listen address, overrides server.addr"`
}

func (c *ServeCmd) Run(app *appContext) error {
	addr := app.cfg.Server.Addr
	if c.Addr != "" {
		addr = c.Addr
	}

	h := server.NewHandler(app.engine.stations, app.engine.trains, app.engine.live, app.engine.details, app.logger)
	return server.Run(signalContext(app.logger), addr, server.NewRouter(h, app.logger), app.logger)
}

type ResolveCmd struct {
	Name string `arg:"" help:"Station name to resolve"`
}

func (c *ResolveCmd) Run(app *appContext) error {
	code, err := app.engine.stations.Resolve(context.Background(), c.Name)
	if err != nil {
		return err
	}
	fmt.Println(code)
	return nil
}

type TrainsCmd struct {
	Source      string `arg:"" help:"Source station name"`
	Destination string `arg:"" help:"Destination station name"`
	Type        string `help:"Train type filter" default:"ALL"`
}

func (c *TrainsCmd) Run(app *appContext) error {
	ctx := context.Background()
	from, err := app.engine.stations.Resolve(ctx, c.Source)
	if err != nil {
		return fmt.Errorf("resolving source: %w", err)
	}
	to, err := app.engine.stations.Resolve(ctx, c.Destination)
	if err != nil {
		return fmt.Errorf("resolving destination: %w", err)
	}

	trains, err := app.engine.trains.ListTrains(ctx, from, to, c.Type)
	if err != nil {
		return err
	}
	return printJSON(trains)
}

type LiveCmd struct {
	TrainNumber string `arg:"" help:"Train number"`
	JourneyDate string `arg:"" help:"Journey date (YYYY-MM-DD)"`
}

func (c *LiveCmd) Run(app *appContext) error {
	view, err := app.engine.live.Reconcile(context.Background(), c.TrainNumber, c.JourneyDate)
	if err != nil {
		return err
	}
	return printJSON(view)
}

type DetailCmd struct {
	TrainNumber string `arg:"" help:"Train number"`
}

func (c *DetailCmd) Run(app *appContext) error {
	detail, err := app.engine.details.Lookup(context.Background(), c.TrainNumber)
	if err != nil {
		return err
	}
	return printJSON(detail)
}

type WatchCmd struct{}

func (c *WatchCmd) Run(app *appContext) error {
	if len(app.cfg.Watch) == 0 {
		return fmt.Errorf("no trains configured under watch")
	}

	pushoverToken := os.Getenv("PUSHOVER_TOKEN")
	pushoverUser := os.Getenv("PUSHOVER_USER")
	if pushoverToken == "" || pushoverUser == "" {
		return fmt.Errorf("PUSHOVER_TOKEN and PUSHOVER_USER environment variables are required")
	}

	notifier := notify.NewNotifier(pushoverToken, pushoverUser, app.logger)
	liveMonitor := monitor.NewLiveMonitor(app.engine.live, notifier, app.logger)
	sched := scheduler.NewScheduler(app.cfg.Watch, liveMonitor, app.logger)

	ctx := signalContext(app.logger)
	for _, w := range app.cfg.Watch {
		app.logger.WithFields(logrus.Fields{
			"train":    w.TrainNumber,
			"interval": w.Interval.String(),
			"days":     w.Days,
		}).Info("watching train")
	}

	sched.Start(ctx)
	<-ctx.Done()
	sched.Stop()
	app.logger.Info("railpal watch stopped")
	return nil
}

var CLI struct {
	Config string `help:"Path to config file" type:"path"`

	Serve   ServeCmd   `cmd:"" help:"Serve the JSON API"`
	Resolve ResolveCmd `cmd:"" help:"Resolve a station name to its code"`
	Trains  TrainsCmd  `cmd:"" help:"List trains between two stations"`
	Live    LiveCmd    `cmd:"" help:"Show a train's live running status"`
	Detail  DetailCmd  `cmd:"" help:"Show a train's details"`
	Watch   WatchCmd   `cmd:"" help:"Watch configured trains and notify on status changes"`
}

func main() {
	kctx := kong.Parse(&CLI, kong.Name("railpal"), kong.Description("Indian Railways station, train and live status lookup."))

	// Setup structured logging with logfmt
	logger := logrus.New()
	logger.SetOutput(os.Stderr)
	logger.SetFormatter(&logrus.TextFormatter{
		DisableColors: true,
		FullTimestamp: true,
	})

	cfg := config.Default()
	if CLI.Config != "" {
		var err error
		cfg, err = config.Load(CLI.Config)
		if err != nil {
			logger.WithField("error", err).Fatal("failed to load config")
		}
	}

	level, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.WithField("error", err).Fatal("invalid log level")
	}
	logger.SetLevel(level)

	client := railradar.NewClient(railradar.Options{
		BaseURL:   cfg.Upstream.BaseURL,
		UserAgent: cfg.Upstream.UserAgent,
		Timeout:   cfg.Upstream.Timeout,
	})

	app := &appContext{
		cfg:    cfg,
		logger: logger,
		engine: engine{
			stations: railway.NewStationResolver(client, railway.FallbackPolicy(cfg.Stations.Fallback), logger),
			trains:   railway.NewTrainLister(client, logger),
			live:     railway.NewReconciler(client, client, cfg.Upstream.FetchTimeout, logger),
			details:  railway.NewDetailLookup(client, logger),
		},
	}

	kctx.FatalIfErrorf(kctx.Run(app))
}

// signalContext is cancelled on SIGINT or SIGTERM.
func signalContext(logger *logrus.Logger) context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		sig := <-sigCh
		logger.WithField("signal", sig).Info("received signal, shutting down")
		cancel()
	}()

	return ctx
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
