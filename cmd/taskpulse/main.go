// Package main implements the taskpulse CLI.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/dtran/taskpulse/internal/clock"
	"github.com/dtran/taskpulse/internal/config"
	"github.com/dtran/taskpulse/internal/store"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "taskpulse",
	Short:         "Taskpulse - focus sessions, streaks, and reminders for your tasks",
	SilenceUsage:  true,
	SilenceErrors: true,
}

var (
	configPath string
	flagUser   string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath(), "config file path")
	rootCmd.PersistentFlags().StringVar(&flagUser, "user", defaultUser(), "user the command acts as")

	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(focusCmd)
	rootCmd.AddCommand(sweepCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(inboxCmd)
	rootCmd.AddCommand(serveCmd)
}

// defaultUser is the OS username. Task ownership is per-user even on a
// single-user install so the stats and reminder queries stay scoped.
func defaultUser() string {
	if u := os.Getenv("USER"); u != "" {
		return u
	}
	return "default"
}

// env bundles everything a command needs. Built per invocation and
// closed when the command returns.
type env struct {
	cfg    *config.Config
	store  *store.SQLiteStore
	clock  clock.Clock
	loc    *time.Location
	logger *slog.Logger
}

func openEnv() (*env, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	if dir := filepath.Dir(cfg.DBPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating data directory %s: %w", dir, err)
		}
	}
	s, err := store.NewSQLiteStore(cfg.DBPath)
	if err != nil {
		return nil, err
	}

	return &env{
		cfg:    cfg,
		store:  s,
		clock:  clock.System(),
		loc:    loc,
		logger: slog.New(slog.NewTextHandler(os.Stderr, nil)),
	}, nil
}

func (e *env) close() {
	if err := e.store.Close(); err != nil {
		fmt.Fprintln(os.Stderr, "closing store:", err)
	}
}
