// Command explorer starts the interactive dashboard server: a chi HTTP
// API over the cleaned metadata table with filtering, aggregate
// statistics, chart images, and CSV export.
package main

import (
	"fmt"
	"os"

	"github.com/ByteCortex00/Frameworks-Assignment/internal/app"
)

func main() {
	application, err := app.NewApplication()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start %s: %v\n", app.AppName, err)
		os.Exit(1)
	}

	if err := application.Run(); err != nil {
		application.Logger.Error("application exited with error", "error", err.Error())
		os.Exit(1)
	}
}
