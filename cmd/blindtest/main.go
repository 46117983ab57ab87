// Package main provides the blindtest entry point.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kingpin/v2"
	"github.com/joho/godotenv"
	zlog "github.com/rs/zerolog/log"

	"github.com/quizbox/blindtest/internal/app/game"
	"github.com/quizbox/blindtest/internal/app/source"
	"github.com/quizbox/blindtest/internal/infra/config"
	"github.com/quizbox/blindtest/internal/infra/console"
	"github.com/quizbox/blindtest/internal/infra/logger"
)

var (
	app        = kingpin.New("blindtest", "blindtest music quiz")
	configPath = app.Flag("config", "Path to config file").Default("config/blindtest.yaml").String()
	verbose    = app.Flag("verbose", "Enable verbose (DEBUG) logging").Short('v').Bool()
	logfile    = app.Flag("logfile", "Path to log file (default: stdout)").String()

	playCmd     = app.Command("play", "Run a game at the terminal (default)").Default()
	playQueries = playCmd.Arg("query", "Song queries, one per round").Required().Strings()

	checkCmd = app.Command("check-config", "Validate the config file and exit")
)

func main() {
	// Load .env file if it exists (errors are ignored)
	_ = godotenv.Load()

	command := kingpin.MustParse(app.Parse(os.Args[1:]))

	loggerConfig := logger.Config{
		Output: "stderr",
		Level:  "info",
	}
	if *verbose {
		loggerConfig.Level = "debug"
	}
	if *logfile != "" {
		loggerConfig.Output = *logfile
	}
	if err := logger.Init(loggerConfig); err != nil {
		panic(fmt.Sprintf("Failed to initialize logger: %v", err))
	}

	zlog.Info().Msgf("Loading config from %s", *configPath)
	cfg, err := config.Load(*configPath)
	if err != nil {
		zlog.Fatal().Msgf("Failed to load config: %v", err)
	}

	switch command {
	case checkCmd.FullCommand():
		fmt.Println("Config OK")
		return
	case playCmd.FullCommand():
		if err := run(cfg, *playQueries); err != nil {
			zlog.Error().Msgf("Game error: %v", err)
			os.Exit(1)
		}
	}
}

// run executes one terminal game session. Using a separate function
// ensures defer statements run even when returning with an error.
func run(cfg *config.Config, queries []string) error {
	ctx := context.Background()

	chain, err := source.NewFromConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("failed to create track sources: %w", err)
	}

	gateway := console.New(os.Stdin, os.Stdout)
	registry := game.NewRegistry()

	opts := game.Options{
		ListeningDuration:  cfg.Game.ListeningDuration(),
		PauseDuration:      cfg.Game.PauseDuration(),
		UserCooldown:       cfg.Game.UserCooldown(),
		RoundLimit:         cfg.Game.RoundLimit,
		AllowMissingTracks: cfg.Game.AllowMissingTracks,
	}
	msgs := game.Messages{
		NextRound:     cfg.Messages.NextRound,
		TitleFound:    cfg.Messages.TitleFound,
		AuthorFound:   cfg.Messages.AuthorFound,
		SummaryHeader: cfg.Messages.SummaryHeader,
	}
	deps := game.Deps{
		Source:   chain,
		Playback: gateway,
		Channel:  gateway,
		Notifier: gateway,
	}

	sess, err := registry.Create(ctx, "terminal", opts, msgs, deps, queries)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	if missing := sess.MissingQueries(); len(missing) > 0 {
		zlog.Warn().Msgf("Some queries could not be resolved: %v", missing)
	}

	// Stop the game on Ctrl-C instead of killing the process
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)
	go func() {
		select {
		case <-sigCh:
			zlog.Info().Msg("Received shutdown signal, stopping game...")
			sess.Stop(false)
		case <-sess.Done():
		}
	}()

	_, total := sess.Rounds()
	fmt.Printf("Starting blindtest: %d rounds. Type your guesses as \"name: guess\".\n", total)

	standings, err := sess.Start(ctx)
	if err != nil {
		return fmt.Errorf("game failed: %w", err)
	}

	printStandings(standings)
	return nil
}

// printStandings prints the final ranking, highest score first.
func printStandings(standings []game.Standing) {
	if len(standings) == 0 {
		fmt.Println("No players scored.")
		return
	}

	fmt.Println("Final ranking:")
	for i := len(standings) - 1; i >= 0; i-- {
		s := standings[i]
		fmt.Printf("  %d. %s - %d pt\n", len(standings)-i, s.Name, s.Score)
	}
}
