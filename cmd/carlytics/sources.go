package main

import (
	"fmt"
	"text/tabwriter"
)

// Run executes the sources command.
func (c *SourcesCmd) Run(deps *Dependencies) error {
	w := tabwriter.NewWriter(deps.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tRULE\tRENDER\tURL")
	for _, s := range deps.Sources {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", s.Name, s.Rule, s.Render, s.URL)
	}
	return w.Flush()
}
