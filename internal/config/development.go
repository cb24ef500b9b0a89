package config

import "os"

func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}

// InMemory keeps board sessions in process memory instead of Postgres.
func InMemory() bool {
	inMemory, ok := os.LookupEnv("APP_IN_MEMORY")
	if !ok {
		return false
	}
	return inMemory != "0"
}
