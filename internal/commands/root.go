package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"ledger/internal/cli"
	"ledger/internal/config"
	applog "ledger/internal/log"
	"ledger/internal/services"
)

// Version is stamped at build time with -ldflags "-X ledger/internal/commands.Version=...".
var Version = "dev"

// app carries what every subcommand needs once the root has loaded config.
type app struct {
	envFile string
	cfg     *config.Config
	logger  *applog.Logger
	now     func() time.Time
}

func (a *app) openLedger(ctx context.Context) (*services.LedgerService, error) {
	return cli.OpenLedger(ctx, a.cfg, a.logger)
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	a := &app{now: time.Now}

	rootCmd := &cobra.Command{
		Use:     "ledger",
		Short:   "Personal expense ledger",
		Version: Version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if a.envFile != "" {
				cli.LoadEnvFile(a.envFile)
			} else {
				cli.LoadEnvFile()
			}
			cfg, err := cli.LoadAndValidateConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			a.cfg = cfg
			a.logger = cli.SetupLogger(cfg, cmd.ErrOrStderr())
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "path to a .env file (default ./.env)")

	rootCmd.AddCommand(
		newServeCommand(a),
		newInitCommand(a),
		newAddCommand(a),
		newListCommand(a),
		newEditCommand(a),
		newRemoveCommand(a),
		newTotalsCommand(a),
		newShellCommand(a),
	)

	return rootCmd
}
