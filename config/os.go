package config

import "os"

// colorDisabled honors NO_COLOR (https://no-color.org) and dumb terminals.
func colorDisabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return true
	}
	return os.Getenv("TERM") == "dumb"
}
