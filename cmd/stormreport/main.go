package main

import (
	"fmt"
	"os"

	"github.com/couchcryptid/storm-season-report/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
