package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	defaultSSLMode  = "disable"
	applicationName = "mazeboard"
)

// DbURL returns DATABASE_URL, or a URL assembled from the POSTGRES_* keys
// when it is unset.
func DbURL() (string, error) {
	if dbURL, ok := os.LookupEnv("DATABASE_URL"); ok {
		return dbURL, nil
	}

	user, errUser := requireEnv("POSTGRES_USER")
	host, errHost := requireEnv("POSTGRES_HOST")
	port, errPort := requireEnv("POSTGRES_PORT")
	dbName, errDB := requireEnv("POSTGRES_DB")
	password, errPassword := lookupSecret("POSTGRES_PASSWORD")
	if err := errors.Join(errUser, errHost, errPort, errDB, errPassword); err != nil {
		return "", fmt.Errorf("no DATABASE_URL set; %w", err)
	}
	if _, err := strconv.ParseUint(port, 10, 16); err != nil {
		return "", fmt.Errorf("invalid POSTGRES_PORT: %w", err)
	}

	sslMode, ok := os.LookupEnv("POSTGRES_SSLMODE")
	if !ok {
		sslMode = defaultSSLMode
	}

	u := url.URL{
		Scheme:   "postgresql",
		User:     url.UserPassword(user, password),
		Host:     net.JoinHostPort(host, port),
		Path:     "/" + dbName,
		RawQuery: url.Values{"sslmode": {sslMode}}.Encode(),
	}
	return u.String(), nil
}

func NewPgxpoolConfig() (*pgxpool.Config, error) {
	dbURL, err := DbURL()
	if err != nil {
		return nil, err
	}
	poolConfig, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, err
	}
	if _, ok := poolConfig.ConnConfig.RuntimeParams["application_name"]; !ok {
		poolConfig.ConnConfig.RuntimeParams["application_name"] = applicationName
	}
	return poolConfig, nil
}
