package main

import (
	"context"
	"fmt"
	"os"

	"github.com/coaxialdolor/termai/internal/infrastructure/cli"
)

func main() {
	root := cli.NewRootCmd()
	if err := root.ExecuteContext(context.Background()); err != nil {
		// startup and provider failures; completed flows always exit 0
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
