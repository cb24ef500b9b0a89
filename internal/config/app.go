package config

import "os"

const defaultPort = "8080"

// BasePath is the prefix every route is mounted under, e.g. "/api".
func BasePath() string {
	return os.Getenv("APP_BASE_PATH")
}

func Port() string {
	if port, ok := os.LookupEnv("APP_PORT"); ok && port != "" {
		return port
	}
	return defaultPort
}

func Addr() string {
	return ":" + Port()
}
