// ABOUTME: devserver command serving the in-memory campus events API
// ABOUTME: Seeded with demo accounts so the CLI and TUI can be tried locally

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gursheyss/cs157a/internal/config"
	"github.com/gursheyss/cs157a/internal/mockapi"
	"github.com/gursheyss/cs157a/internal/mockapi/services"
)

var (
	devAddr   string
	devNoSeed bool
)

var devserverCmd = &cobra.Command{
	Use:   "devserver",
	Short: "Run a local in-memory API server",
	Long: `Run an in-memory implementation of the campus events API. Accounts
"organizer" and "student" are created unless --no-seed is given.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintf(os.Stdout, "Error: %v\n", err)
			os.Exit(exitError)
		}
		dev := cfg.DevServer
		if devAddr != "" {
			dev.Addr = devAddr
		}
		if devNoSeed {
			dev.Seed = false
		}

		exitCode := runDevServer(ctx, os.Stdout, dev)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	devserverCmd.Flags().StringVar(&devAddr, "addr", "", "Listen address (default from config, :8080)")
	devserverCmd.Flags().BoolVar(&devNoSeed, "no-seed", false, "Start with no accounts or events")
	rootCmd.AddCommand(devserverCmd)
}

// runDevServer serves until ctx is canceled
func runDevServer(ctx context.Context, w io.Writer, dev config.DevServerConfig) int {
	srv, err := mockapi.New(mockapi.OptionsFromConfig(dev))
	if err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	defer srv.Close()

	if dev.Seed {
		fmt.Fprintf(w, "Demo accounts: organizer / %s, student / %s\n", services.DemoPassword, services.DemoPassword)
	}
	fmt.Fprintf(w, "Serving campus events API on %s\n", dev.Addr)

	if err := srv.ListenAndServe(ctx, dev.Addr); err != nil {
		fmt.Fprintf(w, "Error: %v\n", err)
		return exitError
	}
	return exitOK
}
