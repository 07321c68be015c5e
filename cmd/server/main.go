package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"

	"github.com/vancomm/lifesweeper/internal/app"
	"github.com/vancomm/lifesweeper/internal/config"
	"github.com/vancomm/lifesweeper/internal/logging"
)

var configPath string

func init() {
	const usage = "config file path"
	flag.StringVar(&configPath, "config", "", usage)
	flag.StringVar(&configPath, "c", "", usage+" (shorthand)")
}

func main() {
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		logrus.Fatal("unable to load config: ", err)
	}

	log, err := logging.New(*cfg, os.Stderr)
	if err != nil {
		logrus.Fatal("unable to set up logging: ", err)
	}

	log.Info("starting up, mode = ", cfg.Mode)
	log.WithFields(cfg.Fields()).Debug("config")

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt, syscall.SIGTERM,
	)
	defer stop()

	if err := app.New(cfg, log).Start(ctx); err != nil {
		log.WithError(err).Error("exit reason")
		os.Exit(1)
	}
	log.Info("server stopped")
}
