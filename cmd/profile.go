// ABOUTME: profile command listing your registrations and organized events
// ABOUTME: Each section prints on its own; one failing does not hide the other

package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/gursheyss/cs157a/internal/profile"
	"github.com/gursheyss/cs157a/internal/session"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show your registrations and, for organizers, your events",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runProfile(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	rootCmd.AddCommand(profileCmd)
}

// runProfile prints the profile. Returns 2 if any section failed to load.
func runProfile(ctx context.Context, w io.Writer) int {
	return withClientEnv(ctx, w, func(rt *clientEnv) int {
		sess, code := requireSession(ctx, w, rt)
		if sess == nil {
			return code
		}

		p := profile.Load(ctx, rt.api, sess.IsOrganizer())

		if IsJSONOutput() {
			fmt.Fprintln(w, formatProfileJSON(sess, p))
		} else {
			fmt.Fprint(w, formatProfileHuman(sess, p))
		}

		if p.Registrations.Err != nil || p.Events.Err != nil {
			return exitError
		}
		return exitOK
	})
}

// formatProfileHuman renders both sections with their own errors
func formatProfileHuman(sess *session.Session, p profile.Profile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s <%s> (%s)\n\n", sess.Username, sess.Email, sess.RoleLabel())

	sb.WriteString("My registrations\n")
	switch {
	case p.Registrations.Err != nil:
		fmt.Fprintf(&sb, "  Error: %v\n", p.Registrations.Err)
	case len(p.Registrations.Items) == 0:
		sb.WriteString("  You have not registered for any events.\n")
	default:
		tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
		for _, r := range p.Registrations.Items {
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%s\n", r.EventID, r.EventTitle, r.EventStartTime.Format(listTimeLayout), r.EventLocation)
		}
		tw.Flush()
	}

	if p.Events.Skipped {
		return sb.String()
	}

	sb.WriteString("\nMy events\n")
	switch {
	case p.Events.Err != nil:
		fmt.Fprintf(&sb, "  Error: %v\n", p.Events.Err)
	case len(p.Events.Items) == 0:
		sb.WriteString("  You have not created any events.\n")
	default:
		tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
		for _, e := range p.Events.Items {
			fmt.Fprintf(tw, "  %d\t%s\t%s\t%d registered\n", e.EventID, e.Title, e.StartTime.Format(listTimeLayout), e.RegistrationCount)
		}
		tw.Flush()
	}
	return sb.String()
}

// formatProfileJSON formats the profile as JSON with an error per section
func formatProfileJSON(sess *session.Session, p profile.Profile) string {
	section := func(items any, err error) map[string]any {
		out := map[string]any{"items": items}
		if err != nil {
			out["error"] = err.Error()
		}
		return out
	}

	output := map[string]any{
		"user":          sess,
		"registrations": section(p.Registrations.Items, p.Registrations.Err),
	}
	if !p.Events.Skipped {
		output["events"] = section(p.Events.Items, p.Events.Err)
	}
	return formatJSON(output)
}
