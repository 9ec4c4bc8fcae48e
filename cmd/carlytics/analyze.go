package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/abtech/carlytics"
	"github.com/abtech/carlytics/csv"
)

// Run executes the analyze command.
func (c *AnalyzeCmd) Run(deps *Dependencies) error {
	src, err := carlytics.FindSource(deps.Sources, c.Source)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s. Use 'carlytics sources' to see available sources.\n", carlytics.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Fetching %s (%s)...\n", src.Name, src.URL)

	report, err := deps.Analyzer.Analyze(deps.Ctx, deps.Session, src)
	if err != nil {
		if carlytics.ErrorCode(err) == carlytics.EFETCH {
			fmt.Fprintf(deps.Stderr, "error: Failed to fetch data: %s\n", carlytics.ErrorMessage(err))
		} else {
			fmt.Fprintf(deps.Stderr, "error: %s\n", carlytics.ErrorMessage(err))
		}
		return err
	}

	if report.Empty() {
		fmt.Fprintf(deps.Stderr, "warning: %s\n", carlytics.EmptyResultMessage)
		return nil
	}

	fmt.Fprintf(deps.Stdout, "Analyzed %d listings (%d located, %d dropped for missing price, %d years imputed)\n",
		len(report.Listings), report.Located, report.Stats.DroppedPrice, report.Stats.ImputedYears)

	fmt.Fprintln(deps.Stdout)
	fmt.Fprintln(deps.Stdout, "Sample Data")
	if err := writeSample(deps, report.Listings, c.Rows); err != nil {
		return err
	}

	renderCharts(deps.Stdout, deps.Stderr, carlytics.BuildCharts(report.Listings))

	if c.CSV != "" {
		snap := deps.Session.Snapshot()
		if snap == nil {
			fmt.Fprintf(deps.Stderr, "error: no data to export\n")
			return carlytics.Errorf(carlytics.ENOTFOUND, "no data to export")
		}
		if err := csv.WriteFile(c.CSV, snap.Listings); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", carlytics.ErrorMessage(err))
			return err
		}
		fmt.Fprintf(deps.Stdout, "Saved %d listings to %s\n", len(snap.Listings), c.CSV)
	}

	if report.RunID != "" {
		fmt.Fprintf(deps.Stdout, "Archived as run %s\n", report.RunID)
	}

	return nil
}

// writeSample prints the first n listings as a table.
func writeSample(deps *Dependencies, listings []*carlytics.Listing, n int) error {
	n = min(max(n, 0), len(listings))
	w := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tPRICE\tLOCATION\tYEAR")
	for _, l := range listings[:n] {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\n", l.Name, carlytics.FormatPrice(l.Price), l.Location, l.Year)
	}
	return w.Flush()
}
