package config

import "os"

// GetEnv reads a value from the environment. Defaults are handled by callers
// so missing keys stay visible at startup.
func GetEnv(key string) string {
	return os.Getenv(key)
}
