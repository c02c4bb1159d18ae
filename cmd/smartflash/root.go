package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/fatih/color"
	"github.com/phrazzld/smartflash/internal/config"
	"github.com/phrazzld/smartflash/internal/platform/logger"
	"github.com/spf13/cobra"
)

// cli carries state shared by all subcommands: the flags of the root
// command and, once PersistentPreRunE ran, the loaded configuration.
type cli struct {
	configFile string
	verbose    bool
	noColor    bool

	config    *config.Config
	logger    *slog.Logger
	logCloser io.Closer

	// overrides used by tests
	opts appOptions
}

// newRootCmd builds the command tree.
func newRootCmd() *cobra.Command {
	return (&cli{}).rootCmd()
}

func (c *cli) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "smartflash",
		Short: "Generate flashcard decks from your notes and study them",
		Long: `SmartFlash extracts term/definition flashcards from pasted text with
Google Gemini, stores them as decks and walks you through them one card
at a time.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if c.logCloser != nil {
				_ = c.logCloser.Close()
			}
		},
	}

	root.PersistentFlags().StringVar(&c.configFile, "config", "", "config file (default ./smartflash.yaml or ~/.config/smartflash/smartflash.yaml)")
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable debug logging")
	root.PersistentFlags().BoolVar(&c.noColor, "no-color", false, "disable colored output")

	root.AddCommand(
		c.serveCmd(),
		c.generateCmd(),
		c.decksCmd(),
		c.cardsCmd(),
		c.studyCmd(),
		c.hashTokenCmd(),
	)
	return root
}

// setup loads configuration and installs the logger.
func (c *cli) setup() error {
	if c.noColor {
		color.NoColor = true
	}
	if c.config != nil {
		return nil
	}

	cfg, err := config.Load(c.configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if c.verbose {
		cfg.Log.Level = "debug"
	}

	log, closer, err := logger.Setup(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to set up logger: %w", err)
	}

	log.Debug("configuration loaded",
		"storage_driver", cfg.Storage.Driver,
		"log_level", cfg.Log.Level,
		"api_key_present", cfg.LLM.GeminiAPIKey != "")

	c.config, c.logger, c.logCloser = cfg, log, closer
	return nil
}

// withApp opens the application for the duration of fn.
func (c *cli) withApp(ctx context.Context, async bool, fn func(app *application) error) error {
	opts := c.opts
	opts.async = async
	app, err := newApplication(ctx, c.config, c.logger, opts)
	if err != nil {
		return err
	}
	defer app.close()
	return fn(app)
}
