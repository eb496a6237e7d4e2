package config

import "os"

// Development reports whether the DEVELOPMENT env variable is set to
// anything other than "0".
func Development() bool {
	development, ok := os.LookupEnv("DEVELOPMENT")
	if !ok {
		return false
	}
	return development != "0"
}
