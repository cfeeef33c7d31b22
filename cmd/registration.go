// ABOUTME: register, deregister and status commands
// ABOUTME: Changes are confirmed against the server before the new count is printed

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gursheyss/cs157a/internal/registration"
)

var registerCmd = &cobra.Command{
	Use:   "register <event-id>",
	Short: "Register for an event",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withEventID(os.Stdout, args[0], func(id int64) int {
			return runRegistrationChange(ctx, os.Stdout, id, true)
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var deregisterCmd = &cobra.Command{
	Use:   "deregister <event-id>",
	Short: "Cancel your registration for an event",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withEventID(os.Stdout, args[0], func(id int64) int {
			return runRegistrationChange(ctx, os.Stdout, id, false)
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <event-id>",
	Short: "Show whether you are registered for an event",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withEventID(os.Stdout, args[0], func(id int64) int {
			return runStatus(ctx, os.Stdout, id)
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(registerCmd, deregisterCmd, statusCmd)
}

// runRegistrationChange registers or deregisters the signed-in user
func runRegistrationChange(ctx context.Context, w io.Writer, id int64, register bool) int {
	return withClientEnv(ctx, w, func(rt *clientEnv) int {
		tracker := registration.New(rt.api)
		if _, err := tracker.Refresh(ctx, id); err != nil {
			return fail(w, err)
		}

		var res registration.Result
		var err error
		if register {
			res, err = tracker.Register(ctx, id)
		} else {
			res, err = tracker.Deregister(ctx, id)
		}
		if err != nil {
			return fail(w, err)
		}

		if IsJSONOutput() {
			fmt.Fprintln(w, formatJSON(statusOutput(res.State, res.Message)))
		} else {
			fmt.Fprintln(w, res.Message)
			fmt.Fprintf(w, "Registrations: %d\n", res.State.Count)
		}
		return exitOK
	})
}

// runStatus prints whether the signed-in user is registered
func runStatus(ctx context.Context, w io.Writer, id int64) int {
	return withClientEnv(ctx, w, func(rt *clientEnv) int {
		if sess, code := requireSession(ctx, w, rt); sess == nil {
			return code
		}
		state, err := registration.New(rt.api).Refresh(ctx, id)
		if err != nil {
			return fail(w, err)
		}

		if IsJSONOutput() {
			fmt.Fprintln(w, formatJSON(statusOutput(state, "")))
			return exitOK
		}
		if state.Registered {
			fmt.Fprintf(w, "Registered for event %d (%d registered)\n", id, state.Count)
		} else {
			fmt.Fprintf(w, "Not registered for event %d (%d registered)\n", id, state.Count)
		}
		return exitOK
	})
}

func statusOutput(s registration.State, msg string) map[string]any {
	out := map[string]any{
		"eventId":           s.EventID,
		"isRegistered":      s.Registered,
		"registrationCount": s.Count,
	}
	if msg != "" {
		out["message"] = msg
	}
	return out
}
