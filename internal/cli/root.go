// Package cli implements authctl, which drives an auth store persisted in a
// local backend (keyring, redis or memory) from the command line.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mcoot/authstore/internal/factory"
	"github.com/mcoot/authstore/internal/services/auth"
)

// session is what every subcommand works against
type session struct {
	store *auth.Store
	out   *Output
	close func() error
}

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cfg := DefaultConfig()
	sess := &session{}

	rootCmd := &cobra.Command{
		Use:   "authctl",
		Short: "Inspect and update a persisted auth store",
		Long: `authctl loads the auth store from a local backend, applies one
command, and saves it back.

Backends: keyring (OS keychain or encrypted file), redis, memory.
The memory backend forgets everything when the command exits.`,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cfg.Output != "text" && cfg.Output != "json" {
				return fmt.Errorf("invalid output format %q: must be text or json", cfg.Output)
			}

			settings, err := cfg.Settings(cmd)
			if err != nil {
				return err
			}

			app, err := factory.New(factory.Config{
				Settings:  settings,
				Logger:    settings.NewLogger(cmd.ErrOrStderr()),
				LocalOnly: true,
			})
			if err != nil {
				return err
			}

			st, closeFn, err := app.OpenLocalStorage()
			if err != nil {
				return err
			}

			sess.store = app.NewStoreWith(cmd.Context(), st)
			sess.out = NewOutput(cmd.OutOrStdout(), cfg.Output)
			sess.close = closeFn
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if sess.close == nil {
				return nil
			}
			return sess.close()
		},
		SilenceUsage: true,
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfg.ConfigPath, "config", cfg.ConfigPath, "TOML settings file (env: AUTHSTORE_CONFIG)")
	rootCmd.PersistentFlags().StringVar(&cfg.Backend, "backend", "", "Storage backend: keyring, redis, memory (env: AUTHSTORE_BACKEND)")
	rootCmd.PersistentFlags().StringVar(&cfg.StoreName, "store", "", "Store name (env: AUTHSTORE_STORE_NAME)")
	rootCmd.PersistentFlags().StringVar(&cfg.RedisURL, "redis-url", "", "Redis URL (env: AUTHSTORE_REDIS_URL)")
	rootCmd.PersistentFlags().StringVar(&cfg.KeyringDir, "keyring-dir", "", "Directory for the file keyring (env: AUTHSTORE_KEYRING_DIR)")
	rootCmd.PersistentFlags().StringVarP(&cfg.Output, "output", "o", cfg.Output, "Output format: text, json")
	rootCmd.PersistentFlags().BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "Verbose output")

	// Add subcommands
	rootCmd.AddCommand(newShowCmd(sess))
	rootCmd.AddCommand(newSetUsernameCmd(sess))
	rootCmd.AddCommand(newIncreaseCmd(sess))
	rootCmd.AddCommand(newModUsernameCmd(sess))
	rootCmd.AddCommand(newDoubleCmd(sess))

	return rootCmd
}

// Execute runs the root command
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
