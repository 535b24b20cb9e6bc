// Package main is the entry point for the Vaporwear showroom.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Faultbox/vaporwear/internal/bridge"
	"github.com/Faultbox/vaporwear/internal/config"
	"github.com/Faultbox/vaporwear/internal/logger"
	"github.com/Faultbox/vaporwear/internal/viewer"
	"github.com/Faultbox/vaporwear/pkg/vaporwear"
)

func main() {
	config.ParseFlags()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Vaporwear Showroom ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("showroom error", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("showroom closed normally")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exp, err := vaporwear.New(ctx, vaporwear.ParamsFromConfig(cfg.Assets), vaporwear.Options{Config: cfg})
	if err != nil {
		return err
	}
	defer exp.Close()

	if cfg.Bridge.Enabled {
		srv := bridge.NewServer(exp)
		exp.OnHotspotUpdate(srv.HotspotUpdate)
		exp.OnConfigurationOptionsLoaded(srv.ConfigurationOptionsLoaded)
		go func() {
			if err := srv.ListenAndServe(ctx, cfg.Bridge.Listen, cfg.Bridge.Path); err != nil {
				logger.Error("bridge stopped", zap.Error(err))
			}
		}()
	}

	if path := config.Path(); path != "" {
		go func() {
			if err := config.Watch(ctx, path, exp.Reconfigure); err != nil {
				logger.Warn("config hot reload disabled", zap.Error(err))
			}
		}()
	}

	if cfg.Graphics.Headless {
		fps := cfg.Graphics.FPSLimit
		if fps <= 0 {
			fps = 60
		}
		err := exp.Run(ctx, time.Second/time.Duration(fps))
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}

	v, err := viewer.New(exp, cfg.Graphics)
	if err != nil {
		return err
	}
	defer v.Close()
	return v.Run(ctx)
}
