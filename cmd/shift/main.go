package main

import (
	"fmt"
	"os"

	"shift-tracker/internal/cli"
	"shift-tracker/internal/errors"
)

func main() {
	root := cli.NewRootCommand(nil, os.Stdout, os.Stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", errors.GetUserMessage(err))
		os.Exit(1)
	}
}
