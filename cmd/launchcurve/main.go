package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"code.launchcurve.io/launchcurve/api"
	"code.launchcurve.io/launchcurve/broker"
	"code.launchcurve.io/launchcurve/config"
	"code.launchcurve.io/launchcurve/extdex"
	"code.launchcurve.io/launchcurve/launchtime"
	"code.launchcurve.io/launchcurve/logging"
	"code.launchcurve.io/launchcurve/metrics"
	"code.launchcurve.io/launchcurve/registry"

	"github.com/jessevdk/go-flags"
)

type options struct {
	ConfigDir string `short:"c" long:"config-dir" description:"directory holding launchcurve.toml"`
	Init      bool   `long:"init" description:"write a default configuration file and exit"`
	Env       string `long:"env" default:"prod" description:"logging environment (dev or prod)"`
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	opts := options{}
	if _, err := flags.ParseArgs(&opts, args); err != nil {
		return err
	}
	log := logging.NewLoggerFromEnv(opts.Env)
	defer log.AtExit()

	if opts.Init {
		if opts.ConfigDir == "" {
			return fmt.Errorf("--init requires --config-dir")
		}
		if err := config.Write(opts.ConfigDir, config.NewDefaultConfig()); err != nil {
			return err
		}
		log.Info("configuration generated", logging.String("path", opts.ConfigDir))
		return nil
	}

	cfg := config.NewDefaultConfig()
	if opts.ConfigDir != "" {
		loaded, err := config.Read(opts.ConfigDir)
		if err != nil {
			return err
		}
		cfg = *loaded
	}

	if err := metrics.Setup(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bkr := broker.New(ctx, log, cfg.Broker)
	timeS := launchtime.New(cfg.Time)
	router := extdex.New(log, cfg.Extdex)
	reg := registry.New(log, cfg.Registry, cfg.Pool, bkr, timeS, router)

	svc := api.New(log, cfg.API, reg)
	svc.Handler(http.MethodGet, "/metrics", metrics.Handler())

	errCh := make(chan error, 1)
	go func() {
		if err := svc.Start(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		log.Info("shutting down", logging.String("signal", sig.String()))
	case err := <-errCh:
		return err
	}
	return svc.Stop()
}
