package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// Defaults mirror what the service runs with when nothing is configured.
const (
	DefaultVersion         = "BLUE"
	DefaultContextPath     = "/"
	DefaultHost            = "127.0.0.1"
	DefaultPort            = 5001
	DefaultMaxBodyBytes    = 1 << 20
	DefaultShutdownTimeout = 10 * time.Second
)

// ErrInvalidContextPath is returned when the context path is malformed.
var ErrInvalidContextPath = errors.New("invalid context path")

// Config holds all service configuration. It is built once at startup from
// flags and environment variables.
type Config struct {
	// Version is the label echoed on every response.
	Version string `validate:"required"`
	// ContextPath is the base path the API is mounted under.
	ContextPath string `validate:"contextpath"`
	Host        string `validate:"required"`
	Port        int    `validate:"min=1,max=65535"`
	// GRPCPort serves the gRPC health service; 0 disables it.
	GRPCPort int `validate:"min=0,max=65535"`
	// Verbose enables debug logging and per-request logs.
	Verbose   bool
	SeedUsers bool

	AllowedOrigins  []string      `validate:"dive,required"`
	MaxBodyBytes    int64         `validate:"min=1"`
	ShutdownTimeout time.Duration `validate:"min=0"`
	LogFormat       string        `validate:"oneof=text json"`
}

// Default returns a Config populated with defaults.
func Default() *Config {
	return &Config{
		Version:         DefaultVersion,
		ContextPath:     DefaultContextPath,
		Host:            DefaultHost,
		Port:            DefaultPort,
		SeedUsers:       true,
		AllowedOrigins:  []string{"*"},
		MaxBodyBytes:    DefaultMaxBodyBytes,
		ShutdownTimeout: DefaultShutdownTimeout,
		LogFormat:       "text",
	}
}

// ListenAddr is the HTTP listen address.
func (c *Config) ListenAddr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// GRPCAddr is the gRPC health listen address, or "" when disabled.
func (c *Config) GRPCAddr() string {
	if c.GRPCPort == 0 {
		return ""
	}
	return net.JoinHostPort(c.Host, strconv.Itoa(c.GRPCPort))
}

// RoutePrefix is the prefix stripped from request paths. "/" mounts the API
// at the root, which is the same as no prefix.
func (c *Config) RoutePrefix() string {
	if c.ContextPath == "/" {
		return ""
	}
	return c.ContextPath
}

// Validate checks every field and returns the first problem found. A bad
// context path is reported as ErrInvalidContextPath.
func (c *Config) Validate() error {
	if err := ValidateContextPath(c.ContextPath); err != nil {
		return err
	}
	if err := newValidator().Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config: %s failed %q validation (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// ValidateContextPath enforces the context path rules: empty, or starting
// with "/" and not ending with "/" unless it is exactly "/".
func ValidateContextPath(path string) error {
	if path == "" {
		return nil
	}
	if !strings.HasPrefix(path, "/") {
		return fmt.Errorf("%w: must start with '/' (CONTEXT_PATH: %s)", ErrInvalidContextPath, path)
	}
	if len(path) != 1 && strings.HasSuffix(path, "/") {
		return fmt.Errorf("%w: must not end with '/' (CONTEXT_PATH: %s)", ErrInvalidContextPath, path)
	}
	return nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("contextpath", func(fl validator.FieldLevel) bool {
		return ValidateContextPath(fl.Field().String()) == nil
	})
	return v
}
