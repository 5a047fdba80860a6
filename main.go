// Command studyplan schedules study sessions into the free time of a week.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/harrisonrobin/studyplan/pkg/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	root := cli.NewRootCommand(cli.NewApp(), version)
	return root.ExecuteContext(context.Background())
}
