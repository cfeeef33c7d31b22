// ABOUTME: Entry point for the campus-events CLI
// ABOUTME: Command-line and terminal client for the campus event management API

package main

import (
	"fmt"
	"os"

	"github.com/gursheyss/cs157a/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
