package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/auth"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/features"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/internal/config"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/internal/postgres"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/permissions"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/server"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/session"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/token"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/token/refresh"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/token/refresh/repofake"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/users"
	"github.com/nei66s/Mapeamento-Curva-ABC.s-sub003/users/repofake"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	for {
		if err := run(); err != nil {
			log.Error().Err(err).Msg("Error running server")
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Info().Msg("Server stopped")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Error().Interface("panic", r).Msg("Recovered from panic")
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	setupLogging(c)
	displayAppname(c.GetAppName())

	ctx := context.Background()
	deps, cleanup, err := buildDependencies(ctx, c)
	if err != nil {
		return fmt.Errorf("build dependencies: %w", err)
	}
	defer cleanup()

	srv, err := server.New(c, deps)
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}
	if _, err := srv.Bootstrap(ctx); err != nil {
		return fmt.Errorf("bootstrap: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	return shutdown(httpServer)
}

// buildDependencies wires the auth core: Postgres when DATABASE_URL is set,
// in-memory repos otherwise (development mode).
func buildDependencies(ctx context.Context, c config.Config) (server.Deps, func(), error) {
	codec := token.NewCodec(token.NewHMACSigner(c.GetJWTSecret()))

	var (
		userRepo    users.Repo
		refreshRepo refresh.Repo
		modules     features.ModuleSource
		flags       features.FlagSource
		modelOpts   []permissions.ModelOption
		cleanup     = func() {}
	)

	if url := c.GetDatabaseURL(); url != "" {
		db, err := postgres.New(ctx, postgres.Config{URL: url, QueryTimeout: c.GetQueryTimeout()})
		if err != nil {
			return server.Deps{}, nil, fmt.Errorf("connect postgres: %w", err)
		}
		cleanup = db.Close

		userRepo = postgres.NewUserRepo(db)
		refreshRepo = postgres.NewRefreshTokenRepo(db)
		featureRepo := postgres.NewFeatureRepo(db)
		modules = featureRepo
		flags = featureRepo
		modelOpts = append(modelOpts, permissions.WithOverrideSource(postgres.NewPermissionOverrideRepo(db)))
	} else {
		log.Warn().Msg("DATABASE_URL not set, running on in-memory repositories")
		userRepo = userrepofake.NewFakeUserRepo()
		refreshRepo = refreshrepofake.NewFakeRefreshTokenRepo()
		registry := features.NewStaticRegistry()
		modules = registry
		flags = registry
	}

	perms := permissions.NewModel(modelOpts...)

	refreshManager := refresh.NewManager(refreshRepo, codec, refresh.WithTTL(c.GetRefreshTokenExpiry()))

	authService, err := auth.NewService(
		auth.Repos{Users: userRepo, RefreshTokens: refreshRepo},
		codec,
		refreshManager,
		auth.WithAccessTokenTTL(c.GetAccessTokenExpiry()),
	)
	if err != nil {
		return server.Deps{}, nil, err
	}

	resolver, err := session.NewResolver(codec, userRepo, perms, modules, flags)
	if err != nil {
		return server.Deps{}, nil, err
	}

	return server.Deps{
		Auth:     authService,
		Sessions: resolver,
		Codec:    codec,
		Perms:    perms,
		Users:    userRepo,
	}, cleanup, nil
}

func setupLogging(c config.Config) {
	if c.GetEnv() == "DEV" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}

func listenAndServe(server *http.Server) {
	log.Info().Msgf("Server listening on %s", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error().Err(err).Msg("server.ListenAndServe")
	}
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
