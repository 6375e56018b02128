package main

import (
	"fmt"
	"os"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/smartkuk/simple-flask/internal/config"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "usersvc",
		Usage: "In-memory users API with health check and header echo",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "version-label",
				Usage:   "Label returned in the version header and response bodies",
				Value:   config.DefaultVersion,
				EnvVars: []string{"VERSION"},
			},
			&cli.StringFlag{
				Name:    "context-path",
				Usage:   "Base path the API is mounted under (e.g. /app)",
				Value:   config.DefaultContextPath,
				EnvVars: []string{"CONTEXT_PATH"},
			},
			&cli.StringFlag{
				Name:    "host",
				Usage:   "HTTP listen host",
				Value:   config.DefaultHost,
				EnvVars: []string{"HOST"},
			},
			&cli.IntFlag{
				Name:    "port",
				Aliases: []string{"p"},
				Usage:   "HTTP listen port",
				Value:   config.DefaultPort,
				EnvVars: []string{"PORT"},
			},
			&cli.BoolFlag{
				Name:    "verbose",
				Aliases: []string{"v"},
				Usage:   "Enable debug logging and per-request logs",
				EnvVars: []string{"VERBOSE"},
			},
			&cli.IntFlag{
				Name:    "grpc-port",
				Usage:   "gRPC health service port (0 disables it)",
				EnvVars: []string{"GRPC_PORT"},
			},
			&cli.BoolFlag{
				Name:    "seed-users",
				Usage:   "Load the sample users at startup",
				Value:   true,
				EnvVars: []string{"SEED_USERS"},
			},
			&cli.StringSliceFlag{
				Name:    "cors-allowed-origins",
				Usage:   "Origins allowed by CORS",
				Value:   cli.NewStringSlice("*"),
				EnvVars: []string{"CORS_ALLOWED_ORIGINS"},
			},
			&cli.Int64Flag{
				Name:    "max-body-bytes",
				Usage:   "Maximum size of a create request body",
				Value:   config.DefaultMaxBodyBytes,
				EnvVars: []string{"MAX_BODY_BYTES"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log output format: text or json",
				Value:   "text",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.DurationFlag{
				Name:    "shutdown-timeout",
				Usage:   "Time allowed for in-flight requests on shutdown",
				Value:   config.DefaultShutdownTimeout,
				EnvVars: []string{"SHUTDOWN_TIMEOUT"},
			},
		},
		Action: serveCommand,
		Commands: []*cli.Command{
			{
				Name:   "healthcheck",
				Usage:  "Probe a running instance over the gRPC health service",
				Action: healthcheckCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "addr",
						Usage: "gRPC address to probe (defaults to host:grpc-port)",
					},
					&cli.DurationFlag{
						Name:  "timeout",
						Usage: "Probe timeout",
						Value: 3 * time.Second,
					},
				},
			},
		},
	}
}

// configFromContext builds the service configuration from flags and their
// environment variable fallbacks.
func configFromContext(c *cli.Context) *config.Config {
	return &config.Config{
		Version:         c.String("version-label"),
		ContextPath:     c.String("context-path"),
		Host:            c.String("host"),
		Port:            c.Int("port"),
		GRPCPort:        c.Int("grpc-port"),
		Verbose:         c.Bool("verbose"),
		SeedUsers:       c.Bool("seed-users"),
		AllowedOrigins:  c.StringSlice("cors-allowed-origins"),
		MaxBodyBytes:    c.Int64("max-body-bytes"),
		ShutdownTimeout: c.Duration("shutdown-timeout"),
		LogFormat:       c.String("log-format"),
	}
}
