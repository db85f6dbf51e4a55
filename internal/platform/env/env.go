// Package env reads typed settings from environment variables.
package env

import (
	"os"
	"strconv"
	"time"

	"go.trai.ch/zerr"
)

// String returns the value of key, or def when it is unset.
func String(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

// Duration parses key as a time.Duration, or returns def when it is unset.
func Duration(key string, def time.Duration) (time.Duration, error) {
	if v, ok := os.LookupEnv(key); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, zerr.With(zerr.Wrap(err, "invalid duration"), "env", key)
		}
		return d, nil
	}
	return def, nil
}

// Bool parses key as a boolean, or returns def when it is unset.
func Bool(key string, def bool) (bool, error) {
	if v, ok := os.LookupEnv(key); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, zerr.With(zerr.Wrap(err, "invalid boolean"), "env", key)
		}
		return b, nil
	}
	return def, nil
}

// Int parses key as an integer, or returns def when it is unset.
func Int(key string, def int) (int, error) {
	if v, ok := os.LookupEnv(key); ok {
		i, err := strconv.Atoi(v)
		if err != nil {
			return 0, zerr.With(zerr.Wrap(err, "invalid integer"), "env", key)
		}
		return i, nil
	}
	return def, nil
}
