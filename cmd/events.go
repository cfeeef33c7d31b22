// ABOUTME: events command group: list, show, create, update, delete, title, attendees
// ABOUTME: Event input is validated locally before any request is sent

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"slices"
	"strconv"
	"strings"
	"syscall"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/gursheyss/cs157a/internal/client"
	"github.com/gursheyss/cs157a/internal/eventfilter"
	"github.com/gursheyss/cs157a/internal/eventform"
	"github.com/gursheyss/cs157a/internal/tui/widgets"
)

const listTimeLayout = "Mon Jan 2 3:04PM"

var (
	formFlags  eventform.Form
	listFilter eventfilter.Filter
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Browse and manage events",
}

var eventsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events, optionally by category or search term",
	Long: `List events in start order. --category keeps one category (case-insensitive)
and --search matches the title, description or location.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runEventsList(ctx, os.Stdout, listFilter)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var eventsShowCmd = &cobra.Command{
	Use:   "show <event-id>",
	Short: "Show one event",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withEventID(os.Stdout, args[0], func(id int64) int {
			return runEventsShow(ctx, os.Stdout, id)
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var eventsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an event (organizers)",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runEventsCreate(ctx, os.Stdout, formFlags)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var eventsUpdateCmd = &cobra.Command{
	Use:   "update <event-id>",
	Short: "Update an event you organize",
	Long:  `Update an event. Only the flags given are changed; the rest keep their current values.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		changed := changedFormFields(cmd.Flags())
		exitCode := withEventID(os.Stdout, args[0], func(id int64) int {
			return runEventsUpdate(ctx, os.Stdout, id, formFlags, changed)
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var eventsDeleteCmd = &cobra.Command{
	Use:   "delete <event-id>",
	Short: "Delete an event you organize",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withEventID(os.Stdout, args[0], func(id int64) int {
			return runEventsDelete(ctx, os.Stdout, id)
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var eventsTitleCmd = &cobra.Command{
	Use:   "title <event-id> <new-title>",
	Short: "Rename an event you organize",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withEventID(os.Stdout, args[0], func(id int64) int {
			return runEventsTitle(ctx, os.Stdout, id, args[1])
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var eventsAttendeesCmd = &cobra.Command{
	Use:   "attendees <event-id>",
	Short: "List who registered for an event you organize",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := withEventID(os.Stdout, args[0], func(id int64) int {
			return runEventsAttendees(ctx, os.Stdout, id)
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

// eventFormFlags maps flag names to form fields
var eventFormFlags = []struct {
	flag  string
	field string
	usage string
	value *string
}{
	{"title", eventform.FieldTitle, "Title (at least 5 characters)", &formFlags.Title},
	{"description", eventform.FieldDescription, "Description (at least 20 characters)", &formFlags.Description},
	{"location", eventform.FieldLocation, "Location", &formFlags.Location},
	{"date", eventform.FieldDate, "Date (YYYY-MM-DD)", &formFlags.Date},
	{"start", eventform.FieldStartTime, "Start time (HH:MM)", &formFlags.StartTime},
	{"end", eventform.FieldEndTime, "End time (HH:MM)", &formFlags.EndTime},
	{"category", eventform.FieldCategory, "Category: " + strings.Join(eventform.Categories, ", "), &formFlags.Category},
	{"max-attendees", eventform.FieldMaxAttendees, "Attendee limit (empty for none)", &formFlags.MaxAttendees},
}

func init() {
	for _, f := range eventFormFlags {
		eventsCreateCmd.Flags().StringVar(f.value, f.flag, "", f.usage)
		eventsUpdateCmd.Flags().StringVar(f.value, f.flag, "", f.usage)
	}

	eventsListCmd.Flags().StringVar(&listFilter.Category, "category", "", "Only events in this category")
	eventsListCmd.Flags().StringVar(&listFilter.Search, "search", "", "Only events whose title, description or location contains this text")

	eventsCmd.AddCommand(eventsListCmd, eventsShowCmd, eventsCreateCmd, eventsUpdateCmd,
		eventsDeleteCmd, eventsTitleCmd, eventsAttendeesCmd)
	rootCmd.AddCommand(eventsCmd)
}

// changedFormFields lists the form fields whose flags were set
func changedFormFields(flags *pflag.FlagSet) []string {
	var fields []string
	for _, f := range eventFormFlags {
		if flags.Changed(f.flag) {
			fields = append(fields, f.field)
		}
	}
	return fields
}

// withEventID parses an event ID argument
func withEventID(w io.Writer, arg string, fn func(id int64) int) int {
	id, err := strconv.ParseInt(arg, 10, 64)
	if err != nil || id <= 0 {
		fmt.Fprintf(w, "Error: invalid event ID %q\n", arg)
		return exitRejected
	}
	return fn(id)
}

// runEventsList prints the events that pass filter
func runEventsList(ctx context.Context, w io.Writer, filter eventfilter.Filter) int {
	return withClientEnv(ctx, w, func(rt *clientEnv) int {
		events, err := rt.api.ListEvents(ctx)
		if err != nil {
			return fail(w, err)
		}
		events = filter.Apply(events)
		switch {
		case IsJSONOutput():
			if events == nil {
				events = []client.Event{}
			}
			fmt.Fprintln(w, formatJSON(events))
		case len(events) == 0 && filter.Active():
			fmt.Fprintf(w, "%s. %s\n", eventfilter.EmptyTitle, filter.EmptyHint())
		default:
			fmt.Fprint(w, formatEventsHuman(events))
		}
		return exitOK
	})
}

// runEventsShow prints one event and, when signed in, whether you are registered
func runEventsShow(ctx context.Context, w io.Writer, id int64) int {
	return withClientEnv(ctx, w, func(rt *clientEnv) int {
		event, err := rt.api.GetEvent(ctx, id)
		if err != nil {
			return fail(w, err)
		}
		if event == nil {
			fmt.Fprintf(w, "Event %d not found\n", id)
			return exitRejected
		}

		var registered *bool
		if rt.api.HasSessionCookie() {
			r := rt.api.CheckRegistrationStatus(ctx, id)
			registered = &r
		}

		if IsJSONOutput() {
			fmt.Fprintln(w, formatJSON(struct {
				*client.Event
				IsRegistered *bool `json:"isRegistered,omitempty"`
			}{event, registered}))
		} else {
			fmt.Fprintln(w, formatEventHuman(event, registered))
		}
		return exitOK
	})
}

// runEventsCreate validates the form and creates the event
func runEventsCreate(ctx context.Context, w io.Writer, form eventform.Form) int {
	if form.Category == "" {
		form.Category = eventform.Categories[0]
	}
	req, err := form.Request()
	if err != nil {
		return printFieldErrors(w, err)
	}

	return withClientEnv(ctx, w, func(rt *clientEnv) int {
		event, err := rt.api.CreateEvent(ctx, req)
		if err != nil {
			return fail(w, err)
		}
		return printSaved(w, "Event created successfully!", event)
	})
}

// runEventsUpdate loads the event, applies the changed fields, validates and saves
func runEventsUpdate(ctx context.Context, w io.Writer, id int64, flags eventform.Form, changed []string) int {
	if len(changed) == 0 {
		fmt.Fprintln(w, "Error: nothing to update")
		return exitRejected
	}

	return withClientEnv(ctx, w, func(rt *clientEnv) int {
		event, err := rt.api.GetEvent(ctx, id)
		if err != nil {
			return fail(w, err)
		}
		if event == nil {
			fmt.Fprintf(w, "Event %d not found\n", id)
			return exitRejected
		}

		form := mergeForm(eventform.FromEvent(event), flags, changed)
		req, err := form.Request()
		if err != nil {
			return printFieldErrors(w, err)
		}

		updated, err := rt.api.UpdateEvent(ctx, id, req)
		if err != nil {
			return fail(w, err)
		}
		return printSaved(w, "Event updated successfully!", updated)
	})
}

// mergeForm copies the changed fields of flags over base
func mergeForm(base, flags eventform.Form, changed []string) eventform.Form {
	set := func(field string, dst *string, src string) {
		if slices.Contains(changed, field) {
			*dst = src
		}
	}
	set(eventform.FieldTitle, &base.Title, flags.Title)
	set(eventform.FieldDescription, &base.Description, flags.Description)
	set(eventform.FieldLocation, &base.Location, flags.Location)
	set(eventform.FieldDate, &base.Date, flags.Date)
	set(eventform.FieldStartTime, &base.StartTime, flags.StartTime)
	set(eventform.FieldEndTime, &base.EndTime, flags.EndTime)
	set(eventform.FieldCategory, &base.Category, flags.Category)
	set(eventform.FieldMaxAttendees, &base.MaxAttendees, flags.MaxAttendees)
	return base
}

// runEventsDelete deletes an event
func runEventsDelete(ctx context.Context, w io.Writer, id int64) int {
	return withClientEnv(ctx, w, func(rt *clientEnv) int {
		msg, err := rt.api.DeleteEvent(ctx, id)
		if err != nil {
			return fail(w, err)
		}
		fmt.Fprintln(w, msg)
		return exitOK
	})
}

// runEventsTitle renames an event
func runEventsTitle(ctx context.Context, w io.Writer, id int64, title string) int {
	if err := eventform.ValidateTitle(title); err != nil {
		return printFieldErrors(w, err)
	}
	return withClientEnv(ctx, w, func(rt *clientEnv) int {
		event, err := rt.api.UpdateEventTitle(ctx, id, strings.TrimSpace(title))
		if err != nil {
			return fail(w, err)
		}
		return printSaved(w, "Title updated", event)
	})
}

// runEventsAttendees lists the registrations of an event
func runEventsAttendees(ctx context.Context, w io.Writer, id int64) int {
	return withClientEnv(ctx, w, func(rt *clientEnv) int {
		regs, err := rt.api.ListEventRegistrations(ctx, id)
		if err != nil {
			return fail(w, err)
		}
		if IsJSONOutput() {
			fmt.Fprintln(w, formatJSON(regs))
		} else {
			fmt.Fprint(w, formatAttendeesHuman(regs))
		}
		return exitOK
	})
}

func printFieldErrors(w io.Writer, err error) int {
	fe, ok := err.(eventform.FieldErrors)
	if !ok {
		return fail(w, err)
	}
	for _, field := range fe.Fields() {
		fmt.Fprintf(w, "Error: %s: %s\n", field, fe[field])
	}
	return exitRejected
}

func printSaved(w io.Writer, msg string, event *client.Event) int {
	if IsJSONOutput() {
		fmt.Fprintln(w, formatJSON(event))
		return exitOK
	}
	fmt.Fprintln(w, msg)
	if event != nil {
		fmt.Fprintln(w, formatEventHuman(event, nil))
	}
	return exitOK
}

// formatEventsHuman renders the list as aligned columns
func formatEventsHuman(events []client.Event) string {
	if len(events) == 0 {
		return "No events found.\n"
	}
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITLE\tWHEN\tWHERE\tCATEGORY\tATTENDANCE")
	for _, e := range events {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n",
			e.EventID, e.Title, e.StartTime.Format(listTimeLayout), e.Location, e.Category,
			widgets.Attendance(e.RegistrationCount, e.MaxAttendees))
	}
	tw.Flush()
	return sb.String()
}

// formatEventHuman renders one event; registered is nil when unknown
func formatEventHuman(e *client.Event, registered *bool) string {
	attendance := widgets.Attendance(e.RegistrationCount, e.MaxAttendees)
	if e.IsFull() {
		attendance += " (full)"
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, `Event:       %s (#%d)
Category:    %s
Starts:      %s
Ends:        %s
Location:    %s
Organizer:   %s
Attendance:  %s`,
		e.Title, e.EventID,
		e.Category,
		e.StartTime.Format("Monday, January 2, 2006 3:04 PM"),
		e.EndTime.Format("Monday, January 2, 2006 3:04 PM"),
		e.Location,
		e.OrganizerUsername,
		attendance)
	if !e.IsActive {
		sb.WriteString("\nStatus:      inactive")
	}
	if registered != nil {
		fmt.Fprintf(&sb, "\nRegistered:  %t", *registered)
	}
	if e.Description != "" {
		sb.WriteString("\n\n")
		sb.WriteString(e.Description)
	}
	return sb.String()
}

// formatAttendeesHuman renders registrations as aligned columns
func formatAttendeesHuman(regs []client.Registration) string {
	if len(regs) == 0 {
		return "No one has registered yet.\n"
	}
	var sb strings.Builder
	tw := tabwriter.NewWriter(&sb, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "USERNAME\tEMAIL\tREGISTERED")
	for _, r := range regs {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", r.UserUsername, r.UserEmail, r.RegistrationTime.Format(listTimeLayout))
	}
	tw.Flush()
	fmt.Fprintf(&sb, "\n%d registered\n", len(regs))
	return sb.String()
}

// formatJSON formats any response as indented JSON
func formatJSON(v any) string {
	data, _ := json.MarshalIndent(v, "", "  ")
	return string(data)
}
