package main

import (
	"fmt"
	"os"

	"github.com/jiangplus/nostr-snap/libraries/eventtool"
)

func main() {
	rootCmd := eventtool.RootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
