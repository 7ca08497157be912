package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"

	"github.com/angelmondragon/retail-admin-backend/api"
	"github.com/angelmondragon/retail-admin-backend/api/middleware"
	"github.com/angelmondragon/retail-admin-backend/api/routes"
	"github.com/angelmondragon/retail-admin-backend/internal/downloads"
	"github.com/angelmondragon/retail-admin-backend/internal/publisher"
	"github.com/angelmondragon/retail-admin-backend/internal/users"
	"github.com/angelmondragon/retail-admin-backend/pkg/db"
	"github.com/angelmondragon/retail-admin-backend/pkg/env"
	pkgerrors "github.com/angelmondragon/retail-admin-backend/pkg/errors"
	"github.com/angelmondragon/retail-admin-backend/pkg/instance"
	"github.com/angelmondragon/retail-admin-backend/pkg/logger"
	"github.com/angelmondragon/retail-admin-backend/pkg/migrate"
	"github.com/angelmondragon/retail-admin-backend/pkg/pagination"
	"github.com/angelmondragon/retail-admin-backend/pkg/redis"
)

// openStore connects to the database, applies migrations and makes sure the
// installer directory exists.
func (c *cli) openStore(ctx context.Context) (*db.Client, *downloads.Directory, error) {
	client, err := db.New(ctx, c.cfg.DB, c.logg)
	if err != nil {
		return nil, nil, fmt.Errorf("open database: %w", err)
	}
	if err := migrate.Apply(ctx, c.logg, client); err != nil {
		return nil, nil, multierr.Append(fmt.Errorf("apply migrations: %w", err), client.Close())
	}
	dir, err := downloads.NewDirectory(c.cfg.Installers.Dir)
	if err == nil {
		err = dir.Ensure()
	}
	if err != nil {
		return nil, nil, multierr.Append(fmt.Errorf("installer directory: %w", err), client.Close())
	}
	return client, dir, nil
}

func userService(client *db.Client) (users.Service, error) {
	return users.NewService(users.NewRepository(client.DB()), nil)
}

// parseArgs accepts positional arguments before or after the flags.
func parseArgs(fs *flag.FlagSet, args []string) ([]string, error) {
	var positional []string
	for len(args) > 0 && !strings.HasPrefix(args[0], "-") {
		positional = append(positional, args[0])
		args = args[1:]
	}
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	return append(positional, fs.Args()...), nil
}

func newFlagSet(c *cli, name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(c.stderr)
	return fs
}

func runServer(ctx context.Context, c *cli, args []string) (err error) {
	fs := newFlagSet(c, "run")
	host := fs.String("host", "", "hostname to bind")
	port := fs.Int("port", 0, "port to expose")
	logLevel := fs.String("log-level", "", "log level override")
	if _, err := parseArgs(fs, args); err != nil {
		return err
	}
	if *host != "" {
		c.cfg.App.Host = *host
	}
	if *port > 0 {
		c.cfg.App.Port = strconv.Itoa(*port)
	}
	if *logLevel != "" {
		c.cfg.App.LogLevel = *logLevel
		c.logg = logger.New(logger.Options{
			ServiceName: "admin",
			Level:       logger.ParseLevel(*logLevel),
			WarnStack:   c.cfg.App.LogWarnStack,
			Output:      c.stderr,
		})
	}

	client, installers, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { err = multierr.Append(err, client.Close()) }()

	svc, err := userService(client)
	if err != nil {
		return err
	}
	sessions, err := middleware.NewSessions(c.cfg.Session, svc, c.logg)
	if err != nil {
		return fmt.Errorf("session manager: %w", err)
	}

	deps := routes.AdminDeps{
		Users:      svc,
		Sessions:   sessions,
		Installers: installers,
		DB:         client,
	}
	if c.cfg.Redis.Enabled() {
		var redisClient *redis.Client
		redisClient, err = redis.New(ctx, c.cfg.Redis, c.logg)
		if err != nil {
			return fmt.Errorf("bootstrap redis: %w", err)
		}
		defer func() { err = multierr.Append(err, redisClient.Close()) }()
		deps.RateLimit = redisClient
	} else {
		c.logg.Warn(ctx, "redis not configured, login rate limiting disabled")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	deps.Metrics = registry

	handler, err := routes.NewAdminRouter(c.cfg, c.logg, deps)
	if err != nil {
		return err
	}

	addr := c.cfg.App.Addr()
	logCtx := c.logg.WithFields(ctx, map[string]any{
		"env":        c.cfg.App.Env,
		"addr":       addr,
		"installers": installers.Root(),
		"instance":   instance.ID(),
	})
	c.logg.Info(logCtx, "starting admin server")
	return api.Serve(ctx, c.logg, api.NewServer(addr, handler), api.DefaultShutdownTimeout)
}

func initDB(ctx context.Context, c *cli, args []string) error {
	if _, err := parseArgs(newFlagSet(c, "init-db"), args); err != nil {
		return err
	}
	client, installers, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	c.printf("Database initialised at %s", c.cfg.DB.DSN)
	c.printf("Installer directory ready at %s", installers.Root())
	return nil
}

func createAdmin(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "create-admin")
	password := fs.String("password", "", "password for the new administrator")
	email := fs.String("email", "", "contact email")
	fullName := fs.String("full-name", "", "display name")
	superuser := fs.Bool("superuser", true, "grant superuser privileges")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return errors.New("usage: admin create-admin <username> -password <password>")
	}
	username := strings.TrimSpace(positional[0])

	client, _, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	svc, err := userService(client)
	if err != nil {
		return err
	}
	if _, err := svc.GetByUsername(ctx, username); err == nil {
		return errors.New("User already exists")
	} else if !pkgerrors.IsCode(err, pkgerrors.CodeNotFound) {
		return err
	}
	if *password == "" {
		return errors.New("Password is required")
	}

	active := true
	in := users.CreateUserInput{
		Username:    username,
		Password:    *password,
		IsActive:    &active,
		IsSuperuser: *superuser,
	}
	if v := strings.TrimSpace(*email); v != "" {
		in.Email = &v
	}
	if v := strings.TrimSpace(*fullName); v != "" {
		in.FullName = &v
	}
	user, err := svc.Create(ctx, in)
	if err != nil {
		return fmt.Errorf("create user: %s", errorMessage(err))
	}
	c.printf("Created administrator %s (id=%d)", user.Username, user.ID)
	return nil
}

func listUsers(ctx context.Context, c *cli, args []string) error {
	if _, err := parseArgs(newFlagSet(c, "list-users"), args); err != nil {
		return err
	}
	client, _, err := c.openStore(ctx)
	if err != nil {
		return err
	}
	defer client.Close()

	svc, err := userService(client)
	if err != nil {
		return err
	}

	var all []users.UserDTO
	page := pagination.Params{Limit: pagination.MaxLimit}
	for {
		rows, err := svc.List(ctx, page)
		if err != nil {
			return err
		}
		all = append(all, rows...)
		if len(rows) < page.Limit {
			break
		}
		page.Offset += page.Limit
	}

	if len(all) == 0 {
		c.printf("No users found.")
		return nil
	}
	c.printf("Existing users")
	for _, u := range all {
		c.printf("- #%d %s | active=%t | superuser=%t", u.ID, u.Username, u.IsActive, u.IsSuperuser)
	}
	return nil
}

func showPaths(_ context.Context, c *cli, args []string) error {
	if _, err := parseArgs(newFlagSet(c, "show-paths"), args); err != nil {
		return err
	}
	c.printf("Database: %s", c.cfg.DB.DSN)
	c.printf("Installer directory: %s", c.cfg.Installers.Dir)
	return nil
}

func downloadInstallers(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "download-installers")
	cwd, _ := os.Getwd()
	output := fs.String("o", cwd, "directory where installer archives are stored")
	name := fs.String("n", "", "download only this filename")
	overwrite := fs.Bool("overwrite", false, "replace existing files instead of skipping them")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return errors.New("usage: admin download-installers <source> [-o dir] [-n name] [-overwrite]")
	}

	source := positional[0]
	c.printf("Fetching installer index from %s...", downloads.IndexURL(source))
	result, err := downloads.NewClient(nil).Sync(ctx, downloads.SyncOptions{
		Source:    source,
		OutputDir: env.ExpandHome(*output),
		Name:      *name,
		Overwrite: *overwrite,
	})
	if result != nil {
		for _, path := range result.Skipped {
			c.printf("%s already exists; skipping. Use -overwrite to replace.", path)
		}
		for _, path := range result.Saved {
			c.printf("Saved to %s", path)
		}
	}
	if err != nil {
		return err
	}
	if len(result.Saved) == 0 && len(result.Skipped) == 0 {
		c.printf("No installers available for download.")
	}
	return nil
}

func publishInstallers(ctx context.Context, c *cli, args []string) error {
	fs := newFlagSet(c, "publish-installers")
	tag := fs.String("tag", "", "release tag to create or update")
	name := fs.String("name", "", "release title, defaults to the tag")
	notes := fs.String("notes", "", "release notes")
	installerDir := fs.String("installer-dir", "", "directory holding the archives, defaults to the configured installer directory")
	token := fs.String("token", "", "personal access token, defaults to $GITHUB_TOKEN")
	draft := fs.Bool("draft", false, "create the release as a draft")
	prerelease := fs.Bool("prerelease", false, "mark the release as a pre-release")
	positional, err := parseArgs(fs, args)
	if err != nil {
		return err
	}
	if len(positional) != 1 {
		return errors.New("usage: admin publish-installers <owner/name> -tag <tag>")
	}
	if strings.TrimSpace(*tag) == "" {
		return errors.New("missing -tag")
	}
	repository := positional[0]

	sourceDir := c.cfg.Installers.Dir
	if *installerDir != "" {
		sourceDir = env.ExpandHome(*installerDir)
	}
	if info, err := os.Stat(sourceDir); err != nil || !info.IsDir() {
		return fmt.Errorf("Installer directory %s does not exist.", sourceDir)
	}
	archives, err := downloads.Archives(sourceDir)
	if err != nil {
		return err
	}
	if len(archives) == 0 {
		return fmt.Errorf("No archives found in %s to publish.", sourceDir)
	}

	accessToken := *token
	if accessToken == "" {
		accessToken = c.cfg.GitHub.Token
	}
	releaseName := *name
	if releaseName == "" {
		releaseName = *tag
	}

	c.printf("Publishing %d installer(s) from %s to %s@%s...", len(archives), sourceDir, repository, *tag)
	client := publisher.NewClient(
		publisher.WithAPIRoot(c.cfg.GitHub.APIRoot),
		publisher.WithUploadRoot(c.cfg.GitHub.UploadRoot),
		publisher.WithToken(accessToken),
		publisher.WithHTTPClient(&http.Client{Timeout: c.cfg.GitHub.Timeout}),
	)
	result, err := client.Publish(ctx, publisher.Input{
		Repository:  repository,
		Tag:         *tag,
		ReleaseName: releaseName,
		Notes:       *notes,
		Archives:    archives,
		Draft:       *draft,
		Prerelease:  *prerelease,
	})
	if err != nil {
		c.logg.Error(ctx, "publish failed", err)
		return errors.New(publishFailure(err))
	}

	c.printf("Release available at %s", result.ReleaseURL)
	for _, uploaded := range result.UploadedAssets {
		c.printf("- %s", uploaded)
	}
	return nil
}

func publishFailure(err error) string {
	var remote *publisher.RemoteError
	if errors.As(err, &remote) {
		return remote.Error()
	}
	return errorMessage(err)
}

func errorMessage(err error) string {
	if e := pkgerrors.As(err); e != nil {
		return e.Message()
	}
	return err.Error()
}
