// Command admin runs and manages the user-management service.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sort"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/angelmondragon/retail-admin-backend/pkg/config"
	"github.com/angelmondragon/retail-admin-backend/pkg/logger"
)

type command struct {
	summary string
	run     func(ctx context.Context, c *cli, args []string) error
}

var commands = map[string]command{
	"run":                 {"start the user-management HTTP service", runServer},
	"init-db":             {"create the database schema and installer directory", initDB},
	"create-admin":        {"create an administrator account", createAdmin},
	"list-users":          {"print every stored user", listUsers},
	"show-paths":          {"print the database and installer locations", showPaths},
	"download-installers": {"mirror installers advertised by a running service", downloadInstallers},
	"publish-installers":  {"publish local installers as GitHub release assets", publishInstallers},
}

// cli carries what every subcommand needs.
type cli struct {
	cfg    *config.Config
	logg   *logger.Logger
	stdout io.Writer
	stderr io.Writer
}

func (c *cli) printf(format string, args ...any) {
	fmt.Fprintf(c.stdout, format+"\n", args...)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) == 0 || args[0] == "-h" || args[0] == "--help" || args[0] == "help" {
		usage(stderr)
		if len(args) == 0 {
			return 1
		}
		return 0
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(stderr, "unknown command %q\n", args[0])
		usage(stderr)
		return 1
	}

	_ = godotenv.Load()

	logg := logger.New(logger.Options{ServiceName: "admin", Output: stderr})
	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		return 1
	}
	logg = logger.New(logger.Options{
		ServiceName: "admin",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      stderr,
	})

	c := &cli{cfg: cfg, logg: logg, stdout: stdout, stderr: stderr}
	if err := cmd.run(ctx, c, args[1:]); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	return 0
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "usage: admin <command> [flags]")
	fmt.Fprintln(w)
	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-20s %s\n", name, commands[name].summary)
	}
}
