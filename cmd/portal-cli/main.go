// Package main provides the portal command line client.
package main

import (
	"fmt"
	"os"

	"github.com/yhseo-kgs/chatbot-proxy/cmd/portal-cli/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
