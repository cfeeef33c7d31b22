// ABOUTME: tui command starting the interactive interface
// ABOUTME: Logs go to debug.log in the data directory while the screen is in use

package cmd

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/gursheyss/cs157a/internal/logger"
	"github.com/gursheyss/cs157a/internal/registration"
	"github.com/gursheyss/cs157a/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Start the interactive interface",
	Run: func(cmd *cobra.Command, args []string) {
		exitCode := runTUI(context.Background(), os.Stderr)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// runTUI builds the app's dependencies and runs it until the user quits
func runTUI(ctx context.Context, w io.Writer) int {
	return withClientEnv(ctx, w, func(rt *clientEnv) int {
		closer, err := logger.InitFile(logger.Options{Level: rt.cfg.Log.Level, Format: rt.cfg.Log.Format}, rt.cfg.DataDir)
		if err != nil {
			fmt.Fprintf(w, "Warning: debug log unavailable: %v\n", err)
		}
		defer closer.Close()

		slog.Info("Starting TUI", "api_url", rt.cfg.APIURL)
		if cached := rt.auth.Cached(ctx); cached != nil {
			slog.Debug("Found saved session, verifying", "username", cached.Username)
		}

		err = tui.Run(tui.Deps{
			API:     rt.api,
			Auth:    rt.auth,
			Tracker: registration.New(rt.api),
		})
		if err != nil {
			fmt.Fprintf(w, "Error: %v\n", err)
			return exitError
		}
		return exitOK
	})
}
