package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukerupert/notepad/internal/config"
	"github.com/dukerupert/notepad/internal/database"
	"github.com/dukerupert/notepad/internal/logging"
	"github.com/dukerupert/notepad/internal/store"
)

var (
	configPath string
	verbose    bool

	cfg    config.Config
	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "notepad",
	Short: "A single-user notes app with a web dashboard and editor",
	Long: `Notepad keeps an ordered list of notes in one local SQLite slot and
serves a dashboard and editor for them. The subcommands work on the same slot.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if verbose {
			cfg.LogLevel = "debug"
		}
		logger = logging.Setup(cfg.LogLevel, cfg.LogFormat)
		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

// openNotes opens the note store for the configured mode and loads it. The
// returned close function releases the database, if one was opened.
func openNotes() (*store.NoteStore, func(), error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, nil, err
	}

	var slots *store.SlotStore
	closeFn := func() {}
	if cfg.Mode == store.ModePersisted {
		db, err := database.Open(cfg.DBPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open database: %w", err)
		}
		slots = store.NewSlotStore(db)
		closeFn = func() { db.Close() }
	}

	repo, err := store.NewNoteRepository(cfg.Mode, slots, logger.With("component", "repository"))
	if err != nil {
		closeFn()
		return nil, nil, err
	}

	ns := store.NewNoteStore(repo,
		store.WithLocation(loc),
		store.WithLogger(logger.With("component", "notes")),
	)
	if _, err := ns.Load(); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("load notes: %w", err)
	}
	return ns, closeFn, nil
}
