package main

import (
	"commute-planner/internal/adapters/baidu"
	"commute-planner/internal/adapters/roster"
	"commute-planner/internal/api"
	"commute-planner/internal/config"
	"commute-planner/internal/domain"
	"commute-planner/internal/platform/logging"
	"commute-planner/internal/report"
	"commute-planner/internal/services"
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
)

// main is the application composition root.
// It wires the Baidu client, the workbook roster and the result store
// behind ports, then runs the pipeline once or serves stored runs.
func main() {
	configPath := flag.String("config", "", "path to a YAML config file")
	serve := flag.Bool("serve", false, "serve stored runs over HTTP instead of running the pipeline")
	flag.Parse()

	if err := run(*configPath, *serve); err != nil {
		logrus.Fatal(err)
	}
}

// run returns instead of exiting so deferred closes always happen.
func run(configPath string, serve bool) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if err := logging.Setup(cfg.Logging.Level, cfg.Logging.Format, os.Stderr); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, closeStore, err := storeOpener(ctx, cfg.Store)
	if err != nil {
		return err
	}
	defer closeStore()

	if serve {
		if store == nil {
			return errors.New("-serve requires store.driver to be set")
		}
		return serveRuns(ctx, cfg.API.Addr, api.NewRouter(store))
	}

	pipeline, err := buildPipeline(ctx, cfg)
	if err != nil {
		return err
	}
	if store != nil {
		pipeline.Store = store
	}

	result, err := pipeline.Run(ctx)
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"run_id":   result.RunID,
		"failures": len(result.Failures),
		"elapsed":  result.FinishedAt.Sub(result.StartedAt).Round(time.Millisecond),
	}).Info("run finished")

	return nil
}

func buildPipeline(ctx context.Context, cfg *config.Config) (*services.Pipeline, error) {
	departure, err := cfg.DepartureTime()
	if err != nil {
		return nil, err
	}
	var clock func() time.Time
	if !departure.IsZero() {
		clock = func() time.Time { return departure }
	}

	client, err := baidu.NewClient(baidu.Options{
		Host:      cfg.Map.Host,
		APIKey:    cfg.Map.APIKey,
		SecretKey: cfg.Map.SecretKey,
		Timeout:   cfg.Map.Timeout,
		Clock:     clock,
	})
	if err != nil {
		return nil, err
	}

	// An unresolvable host aborts before any signed request is sent.
	if cfg.Map.Preflight {
		if err := client.CheckHost(ctx); err != nil {
			return nil, err
		}
	}

	modes, err := domain.ParseModes(cfg.Routing.Modes)
	if err != nil {
		return nil, err
	}

	source := roster.NewExcelRoster(cfg.Roster.Path, cfg.Roster.PersonSheet, cfg.Roster.OfficeSheet)

	return &services.Pipeline{
		Source:   source,
		Writer:   source,
		Geocoder: client,
		Router:   services.NewRouter(client, modes, cfg.Routing.Workers),
		Reporter: report.NewConsole(os.Stdout),
		Config: services.PipelineConfig{
			Region:         cfg.Map.Region,
			NearestOffices: cfg.Routing.NearestOffices,
			NearestPersons: cfg.Routing.NearestPersons,
			OutputWorkbook: cfg.Output.Workbook,
		},
	}, nil
}

func serveRuns(ctx context.Context, addr string, handler http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logrus.Infof("Server listening addr=%s", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
