package config

import "os"

// Environment represents the runtime environment
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// GetEnvironment returns the current runtime environment, defaulting to
// development.
func GetEnvironment() Environment {
	switch os.Getenv("APP_ENV") {
	case "production":
		return Production
	case "ci":
		return CI
	case "test":
		return Test
	default:
		return Development
	}
}
