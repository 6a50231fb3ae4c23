package main

import (
	"fmt"
	"os"

	savesync "github.com/arthur-debert/savesync/cmd/savesync"
	"github.com/arthur-debert/savesync/pkg/style"
)

func main() {
	rootCmd := savesync.NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		// Print the error in red
		errorStyle := style.Get("Error")
		fmt.Fprintln(os.Stderr, errorStyle.Render(fmt.Sprintf("Error: %v", err)))
		os.Exit(1)
	}
}
