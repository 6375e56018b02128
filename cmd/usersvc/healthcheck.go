package main

import (
	"context"
	"fmt"
	"net"
	"strconv"

	"github.com/urfave/cli/v2"

	grpcclient "github.com/smartkuk/simple-flask/internal/grpc"
)

// healthcheckCommand exits non-zero unless the target reports SERVING.
func healthcheckCommand(c *cli.Context) error {
	addr := c.String("addr")
	if addr == "" {
		port := c.Int("grpc-port")
		if port == 0 {
			return fmt.Errorf("healthcheck: --addr or GRPC_PORT is required")
		}
		addr = net.JoinHostPort(c.String("host"), strconv.Itoa(port))
	}

	client, err := grpcclient.NewClient(addr)
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(c.Context, c.Duration("timeout"))
	defer cancel()

	if err := client.Check(ctx, grpcclient.ServiceName); err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "%s: SERVING\n", addr)
	return nil
}
