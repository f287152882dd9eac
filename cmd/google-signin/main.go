// Command google-signin signs a user in with Google from the terminal and
// prints the resulting tokens and profile as JSON.
package main

import (
	"os"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd(newGoogleClient, nil).Execute(); err != nil {
		os.Exit(1)
	}
}
