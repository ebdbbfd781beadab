package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/spent646/ai-shadow-coach/internal/files"
	internalnet "github.com/spent646/ai-shadow-coach/internal/net"
	"github.com/spent646/ai-shadow-coach/supervisor"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "coachhost",
		Usage: "launches the local backend server the way the desktop shell does at startup",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "backend-dir",
				Usage: "Path to the backend directory. Defaults to the nearest 'backend' directory at or above the working directory.",
			},
			&cli.StringFlag{
				Name:  "config",
				Usage: "Path to a YAML config file with launch parameters.",
			},
			&cli.StringFlag{
				Name:  "host",
				Usage: "Loopback host the backend binds to.",
				Value: supervisor.DefaultHost,
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port the backend binds to. 0 picks a free ephemeral port.",
				Value: supervisor.DefaultPort,
			},
			&cli.BoolFlag{
				Name:  "wait-ready",
				Usage: "Block until the backend answers on its port.",
			},
			&cli.StringFlag{
				Name:  "wait-timeout",
				Usage: "How long to wait for the backend with --wait-ready.",
				Value: "30s",
			},
			&cli.BoolFlag{
				Name:  "own",
				Usage: "Keep the backend process handle and terminate it when coachhost exits.",
			},
			&cli.BoolFlag{
				Name:  "debug",
				Usage: "Enable debug logging.",
			},
		},
		Action: run,
	}
}

func run(ctx *cli.Context) error {
	var cfg supervisor.Config
	if path := ctx.String("config"); path != "" {
		var err error
		cfg, err = supervisor.LoadConfig(path)
		if err != nil {
			return err
		}
	}

	if dir := ctx.String("backend-dir"); dir != "" {
		cfg.BackendDir = dir
	}
	if cfg.BackendDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting wd: %w", err)
		}
		cfg.BackendDir = files.FindUpDir("backend", wd)
		if cfg.BackendDir == "" {
			return errors.New("unable to find a backend directory, pass --backend-dir")
		}
	}
	if ctx.IsSet("host") || cfg.Host == "" {
		cfg.Host = ctx.String("host")
	}
	if ctx.IsSet("port") || cfg.Port == 0 {
		cfg.Port = ctx.Int("port")
	}
	if cfg.Port == 0 {
		port, err := internalnet.GetEphemeralTCPPort()
		if err != nil {
			return fmt.Errorf("acquiring ephemeral port: %w", err)
		}
		cfg.Port = port
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return fmt.Errorf("building logger: %w", err)
	}
	if !ctx.Bool("debug") {
		logger = logger.WithOptions(zap.IncreaseLevel(zapcore.InfoLevel))
	}

	opts := []supervisor.Option{supervisor.WithLogger(logger)}
	if ctx.Bool("own") {
		opts = append(opts, supervisor.WithProcessOwnership())
	}
	sup, err := supervisor.New(cfg, opts...)
	if err != nil {
		return fmt.Errorf("building supervisor: %w", err)
	}

	if !supervisor.Supported() {
		logger.Sugar().Warn("backend launch is not implemented on this platform")
	}
	if err := sup.Launch(ctx.Context); err != nil {
		return fmt.Errorf("launching backend: %w", err)
	}
	if err := sup.Err(); err != nil {
		// Spawn failures are recorded to the status file and are non-fatal
		// to the host; report them here since there's no UI to inspect.
		logger.Sugar().Warnf("backend did not start: %s", err)
	}

	if ctx.Bool("wait-ready") && sup.Err() == nil && supervisor.Supported() {
		timeout, err := time.ParseDuration(ctx.String("wait-timeout"))
		if err != nil {
			return fmt.Errorf("parsing wait timeout: %w", err)
		}
		waitCtx, cancel := context.WithTimeout(ctx.Context, timeout)
		defer cancel()
		supCfg := sup.Config()
		if err := sup.WaitForBackend(waitCtx); err != nil {
			return fmt.Errorf("waiting for backend on %s: %w", supCfg.Addr(), err)
		}
		logger.Sugar().Infof("backend ready on %s", supCfg.Addr())
	}

	// Only wait around for a child that actually exists: a failed spawn or
	// an unsupported platform leaves nothing to own.
	if ctx.Bool("own") && supervisor.Supported() && sup.Err() == nil {
		sigCtx, stop := signal.NotifyContext(ctx.Context, os.Interrupt)
		defer stop()
		<-sigCtx.Done()
		return sup.Stop(context.Background())
	}
	return nil
}
