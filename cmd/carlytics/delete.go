package main

import (
	"fmt"

	"github.com/abtech/carlytics"
)

// Run executes the delete command.
func (c *DeleteCmd) Run(deps *Dependencies) error {
	if !c.Force {
		fmt.Fprintf(deps.Stderr, "error: use --force to confirm deletion\n")
		return carlytics.Errorf(carlytics.EINVALID, "use --force to confirm deletion")
	}

	if err := deps.Runs.DeleteRun(deps.Ctx, c.RunID); err != nil {
		if carlytics.ErrorCode(err) == carlytics.ENOTFOUND {
			fmt.Fprintf(deps.Stderr, "error: run %q not found. Use 'carlytics history' to see archived runs.\n", c.RunID)
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", carlytics.ErrorMessage(err))
		}
		return err
	}

	fmt.Fprintf(deps.Stdout, "Deleted run %s\n", c.RunID)
	return nil
}
