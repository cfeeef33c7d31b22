// ABOUTME: login, logout, whoami and signup commands
// ABOUTME: The session cookie is saved in local storage between runs

package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/gursheyss/cs157a/internal/client"
	"github.com/gursheyss/cs157a/internal/session"
	"github.com/gursheyss/cs157a/internal/signupform"
)

var (
	loginUser     string
	loginPassword string

	signupUser      string
	signupEmail     string
	signupPassword  string
	signupFirstName string
	signupLastName  string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in and remember the session",
	Long: `Sign in with a username or email. The password may also be given in
CAMPUS_EVENTS_PASSWORD.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		password := loginPassword
		if password == "" {
			password = os.Getenv("CAMPUS_EVENTS_PASSWORD")
		}
		exitCode := runLogin(ctx, os.Stdout, loginUser, password)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "End the session",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runLogout(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the signed-in user",
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runWhoami(ctx, os.Stdout)
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Long:  `Create a participant account. Signing up does not sign you in.`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
		defer cancel()

		exitCode := runSignup(ctx, os.Stdout, client.RegisterRequest{
			Username:  signupUser,
			Email:     signupEmail,
			Password:  signupPassword,
			FirstName: signupFirstName,
			LastName:  signupLastName,
		})
		if exitCode != 0 {
			os.Exit(exitCode)
		}
	},
}

func init() {
	loginCmd.Flags().StringVarP(&loginUser, "user", "u", "", "Username or email")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "Password")
	_ = loginCmd.MarkFlagRequired("user")

	signupCmd.Flags().StringVar(&signupUser, "username", "", "Username (3-20 characters)")
	signupCmd.Flags().StringVar(&signupEmail, "email", "", "Email address")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "Password (at least 6 characters)")
	signupCmd.Flags().StringVar(&signupFirstName, "first-name", "", "First name")
	signupCmd.Flags().StringVar(&signupLastName, "last-name", "", "Last name")

	rootCmd.AddCommand(loginCmd, logoutCmd, whoamiCmd, signupCmd)
}

// runLogin signs in and returns exit code
func runLogin(ctx context.Context, w io.Writer, identifier, password string) int {
	return withClientEnv(ctx, w, func(rt *clientEnv) int {
		if err := rt.auth.Login(ctx, strings.TrimSpace(identifier), password); err != nil {
			return fail(w, err)
		}
		sess := rt.auth.Snapshot().Session
		if IsJSONOutput() {
			fmt.Fprintln(w, formatSessionJSON(sess))
		} else {
			fmt.Fprintf(w, "Logged in as %s (%s)\n", sess.Username, sess.RoleLabel())
		}
		return exitOK
	})
}

// runLogout ends the session. Local state is cleared even if the server
// call fails; that failure is reported but is not fatal.
func runLogout(ctx context.Context, w io.Writer) int {
	return withClientEnv(ctx, w, func(rt *clientEnv) int {
		if err := rt.auth.Logout(ctx); err != nil {
			fmt.Fprintf(w, "Warning: server logout failed: %v\n", err)
		}
		fmt.Fprintln(w, "Logged out")
		return exitOK
	})
}

// runWhoami prints the verified user
func runWhoami(ctx context.Context, w io.Writer) int {
	return withClientEnv(ctx, w, func(rt *clientEnv) int {
		sess, code := requireSession(ctx, w, rt)
		if sess == nil {
			return code
		}
		if IsJSONOutput() {
			fmt.Fprintln(w, formatSessionJSON(sess))
		} else {
			fmt.Fprintln(w, formatSessionHuman(sess))
		}
		return exitOK
	})
}

// runSignup validates locally, then creates the account
func runSignup(ctx context.Context, w io.Writer, req client.RegisterRequest) int {
	req = signupform.Normalize(req)
	if err := signupform.Validate(req); err != nil {
		for _, line := range strings.Split(err.Error(), "\n") {
			fmt.Fprintf(w, "Error: %s\n", line)
		}
		return exitRejected
	}

	return withClientEnv(ctx, w, func(rt *clientEnv) int {
		msg, err := rt.auth.Register(ctx, req)
		if err != nil {
			return fail(w, err)
		}
		fmt.Fprintf(w, "%s Run \"campus-events login -u %s\" to sign in.\n", msg, req.Username)
		return exitOK
	})
}

// formatSessionHuman formats the session for human readability
func formatSessionHuman(s *session.Session) string {
	return fmt.Sprintf(`Username: %s
Email:    %s
Role:     %s`, s.Username, s.Email, s.RoleLabel())
}

// formatSessionJSON formats the session as JSON
func formatSessionJSON(s *session.Session) string {
	data, _ := json.MarshalIndent(s, "", "  ")
	return string(data)
}
