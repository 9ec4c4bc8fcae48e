package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/abtech/carlytics"
)

// Run executes the history command.
func (c *HistoryCmd) Run(deps *Dependencies) error {
	filter := carlytics.RunFilter{Limit: c.Limit}
	if c.Source != "" {
		filter.Source = &c.Source
	}

	runs, err := deps.Runs.FindRuns(deps.Ctx, filter)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", carlytics.ErrorMessage(err))
		return err
	}

	if len(runs) == 0 {
		fmt.Fprintln(deps.Stdout, "No runs archived yet. Use 'carlytics analyze --archive' to record one.")
		return nil
	}

	w := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCREATED\tSOURCE\tLISTINGS\tFINGERPRINT")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Source, r.ListingCount, r.Fingerprint)
	}
	return w.Flush()
}
