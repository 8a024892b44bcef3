// didyoueat - daily meal check-in with an emergency contact fallback
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/didyoueat/didyoueat/internal/cli"
	"github.com/didyoueat/didyoueat/internal/logging"
)

func main() {
	err := cli.Execute(context.Background())
	_ = logging.Sync()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
