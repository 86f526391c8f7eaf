package config

import (
	"os"
	"strconv"
)

// Env returns true when a given environment variable is set to "yes".
func Env(env string) bool {
	return "yes" == os.Getenv(env)
}

// EnvStr returns a non-empty environment variable and whether it was set.
func EnvStr(env string) (string, bool) {
	v := os.Getenv(env)
	return v, v != ""
}

// EnvInt returns an integer environment variable and whether it was set to
// a valid integer.
func EnvInt(env string) (int, bool) {
	v := os.Getenv(env)
	if v == "" {
		return 0, false
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return i, true
}
