package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Database struct {
	URL          string `mapstructure:"url"`
	Username     string `mapstructure:"username"`
	Password     string `mapstructure:"password"`
	PasswordFile string `mapstructure:"password_file"`
	Host         string `mapstructure:"host"`
	Port         uint16 `mapstructure:"port"`
	DBName       string `mapstructure:"db_name"`
	SSLMode      string `mapstructure:"ssl_mode"`
}

func (c Database) password() (string, error) {
	if c.Password != "" || c.PasswordFile == "" {
		return c.Password, nil
	}
	data, err := os.ReadFile(c.PasswordFile)
	if err != nil {
		return "", fmt.Errorf("unable to read from password file: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}

func (c Database) check() error {
	if c.Username == "" {
		return fmt.Errorf("no postgres username set")
	}
	if c.DBName == "" {
		return fmt.Errorf("no postgres database name set")
	}
	return nil
}

// ConnString returns the configured URL, or builds one from the parts.
func (c Database) ConnString() (string, error) {
	if c.URL != "" {
		return c.URL, nil
	}
	if err := c.check(); err != nil {
		return "", fmt.Errorf("no postgres url set; %w", err)
	}
	password, err := c.password()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf(
		"postgresql://%s:%s@%s:%d/%s?sslmode=%s",
		url.QueryEscape(c.Username),
		url.QueryEscape(password),
		c.Host,
		c.Port,
		c.DBName,
		c.SSLMode,
	), nil
}

func (c Database) PoolConfig() (*pgxpool.Config, error) {
	connString, err := c.ConnString()
	if err != nil {
		return nil, err
	}
	return pgxpool.ParseConfig(connString)
}
