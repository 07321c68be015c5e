package main

import (
	"errors"
	"flag"
	"os"

	"github.com/golang-migrate/migrate/v4"
	"github.com/sirupsen/logrus"

	"github.com/vancomm/lifesweeper/internal/config"
	"github.com/vancomm/lifesweeper/internal/database"
	"github.com/vancomm/lifesweeper/internal/logging"
)

var (
	configPath string
	down       bool
)

func init() {
	flag.StringVar(&configPath, "config", "", "config file path")
	flag.BoolVar(&down, "down", false, "roll back the latest migration")
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

	url, err := cfg.Postgres.ConnString()
	if err != nil {
		log.WithError(err).Fatal("no database configured")
	}

	migrator, err := database.Migrate(url, database.Migrations)
	if err != nil {
		log.WithError(err).Fatal("failed to migrate db")
	}
	defer migrator.Close()

	if down {
		if err := migrator.Steps(-1); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			log.WithError(err).Fatal("failed to roll back")
		}
	}

	version, dirty, err := migrator.Version()
	if err != nil && !errors.Is(err, migrate.ErrNilVersion) {
		log.WithError(err).Error("failed to check migration version")
		os.Exit(1)
	}
	log.WithFields(logrus.Fields{
		"version": version,
		"dirty":   dirty,
	}).Info("migration successful")
}
