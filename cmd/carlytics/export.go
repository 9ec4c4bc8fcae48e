package main

import (
	"fmt"

	"github.com/abtech/carlytics"
	"github.com/abtech/carlytics/csv"
)

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	run, err := deps.Runs.FindRunByID(deps.Ctx, c.RunID)
	if err != nil {
		if carlytics.ErrorCode(err) == carlytics.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: run %q not found. Use 'carlytics history' to see archived runs.\n", c.RunID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", carlytics.ErrorMessage(err))
		}
		return err
	}

	if err := csv.WriteFile(c.Out, run.Listings); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", carlytics.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Wrote %d listings from %s to %s\n", len(run.Listings), run.Source, c.Out)
	return nil
}
