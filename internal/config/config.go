package config

import (
	"errors"
	"fmt"
	"os"
	"time"
)

var ErrMissingRequiredValue = errors.New("missing required value")
var ErrInvalidValue = errors.New("invalid value")

const DefaultTimeout = 30 * time.Second

type Environment string

const (
	Production Environment = "production"
	Staging    Environment = "staging"
	Local      Environment = "local"
)

var baseURLs = map[Environment]string{
	Production: "https://api.dupr.gg",
	Staging:    "https://api.uat.dupr.gg",
	Local:      "http://localhost:3000",
}

// Options are the explicit settings given by the caller. Zero values fall back
// to the environment, then to defaults.
type Options struct {
	APIKey      string
	Environment Environment
	BaseURL     string
	Timeout     time.Duration
}

type Config struct {
	apiKey  string
	baseURL string
	env     Environment
	timeout time.Duration
}

func (c *Config) APIKey() string {
	return c.apiKey
}

func (c *Config) BaseURL() string {
	return c.baseURL
}

func (c *Config) Environment() Environment {
	return c.env
}

func (c *Config) Timeout() time.Duration {
	return c.timeout
}

// Return a string representation suitable for logging etc
func (c *Config) NonSensitiveString() string {
	return fmt.Sprintf("Config{env: %s, baseURL: %s, timeout: %s, ...}", string(c.env), c.baseURL, c.timeout)
}

func parseEnvironment(raw string) (Environment, error) {
	switch Environment(raw) {
	case Production, Staging, Local:
		return Environment(raw), nil
	default:
		return "", fmt.Errorf("%w: environment (%s)", ErrInvalidValue, raw)
	}
}

func Resolve(opts Options) (Config, error) {
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv("DUPR_API_KEY")
	}
	if apiKey == "" {
		return Config{}, fmt.Errorf("%w: api key (set it explicitly or with DUPR_API_KEY)", ErrMissingRequiredValue)
	}

	env := Production
	if opts.Environment != "" {
		parsed, err := parseEnvironment(string(opts.Environment))
		if err != nil {
			return Config{}, err
		}
		env = parsed
	} else if rawEnv, ok := os.LookupEnv("DUPR_ENVIRONMENT"); ok && rawEnv != "" {
		parsed, err := parseEnvironment(rawEnv)
		if err != nil {
			return Config{}, fmt.Errorf("DUPR_ENVIRONMENT: %w", err)
		}
		env = parsed
	}

	// An explicit base URL always wins over the preset
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = os.Getenv("DUPR_BASE_URL")
	}
	if baseURL == "" {
		baseURL = baseURLs[env]
	}
	if baseURL == "" {
		panic("logic error: base url is empty")
	}

	timeout := opts.Timeout
	if timeout < 0 {
		return Config{}, fmt.Errorf("%w: timeout (%s)", ErrInvalidValue, timeout)
	}
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	return Config{
		apiKey:  apiKey,
		baseURL: baseURL,
		env:     env,
		timeout: timeout,
	}, nil
}
