package utils

import (
	"flag"
	"os"
	"strconv"

	"github.com/ansarhun/restic-volume-populator/internal/images"
)

// StringFlagOrEnv defines a string flag which can be set by an environment variable.
// Precedence: flag > env var > default value.
func StringFlagOrEnv(p *string, name string, envName string, defaultValue string, usage string) {
	envValue := os.Getenv(envName)
	if envValue != "" {
		defaultValue = envValue
	}
	flag.StringVar(p, name, defaultValue, usage)
}

// RelatedImageFlag defines a flag overriding an image of the registry. The registry is updated
// when the flag is parsed; the environment variable named after the image is the fallback.
func RelatedImageFlag(name string, image images.Image, usage string) {
	defaultValue := images.Registry.Get(image)
	if envValue := os.Getenv(string(image)); envValue != "" {
		defaultValue = envValue
		images.Registry.Set(image, envValue)
	}
	flag.Func(name, usage+" (default "+strconv.Quote(defaultValue)+")", func(value string) error {
		images.Registry.Set(image, value)
		return nil
	})
}

// BoolFlagOrEnv defines a bool flag which can be set by an environment variable.
// Precedence: flag > env var > default value.
func BoolFlagOrEnv(p *bool, name string, envName string, defaultValue bool, usage string) {
	if envValue := os.Getenv(envName); envValue != "" {
		if parsed, err := strconv.ParseBool(envValue); err == nil {
			defaultValue = parsed
		}
	}
	flag.BoolVar(p, name, defaultValue, usage)
}
