package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/abtech/carlytics"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx      context.Context
	Stdout   io.Writer
	Stderr   io.Writer
	Logger   *slog.Logger
	Sources  []*carlytics.Source
	Session  *carlytics.Session
	Analyzer carlytics.Analyzer
	Runs     carlytics.RunService
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Verbose bool   `short:"v" help:"Log pipeline steps to stderr"`
	DB      string `name:"db" env:"CARLYTICS_DB" help:"Run archive database path (default ~/.carlytics/carlytics.db)"`

	Sources SourcesCmd `cmd:"" help:"List supported listing sites"`
	Analyze AnalyzeCmd `cmd:"" help:"Fetch and analyze one listing site"`
	Serve   ServeCmd   `cmd:"" help:"Serve the web dashboard"`
	History HistoryCmd `cmd:"" help:"List archived analysis runs"`
	Export  ExportCmd  `cmd:"" help:"Export an archived run as CSV"`
	Delete  DeleteCmd  `cmd:"" help:"Delete an archived run"`
}

// FetchFlags configures how pages are fetched.
type FetchFlags struct {
	Browser string        `enum:"rod,chromedp,none" default:"rod" env:"CARLYTICS_BROWSER" help:"Browser used for JavaScript-rendered sites (rod, chromedp, none)"`
	Timeout time.Duration `default:"15s" env:"CARLYTICS_TIMEOUT" help:"Timeout for one HTTP fetch attempt"`
}

// SourcesCmd is the "sources" subcommand.
type SourcesCmd struct{}

// AnalyzeCmd is the "analyze" subcommand.
type AnalyzeCmd struct {
	Source  string `arg:"" help:"Source name (see 'carlytics sources')"`
	CSV     string `name:"csv" help:"Write the clean table to this CSV file"`
	Archive bool   `short:"a" help:"Store the clean table in the run archive"`
	Rows    int    `default:"10" help:"Number of sample rows to print"`

	FetchFlags `embed:""`
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr    string   `default:"127.0.0.1:8080" env:"CARLYTICS_ADDR" help:"Listen address"`
	Origin  []string `name:"origin" help:"Allowed CORS origin (repeatable)"`
	Archive bool     `short:"a" help:"Store every clean table in the run archive"`

	FetchFlags `embed:""`
}

// HistoryCmd is the "history" subcommand.
type HistoryCmd struct {
	Source string `help:"Only show runs for this source"`
	Limit  int    `default:"20" help:"Maximum number of runs to show"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	RunID string `arg:"" name:"run-id" help:"Archived run ID"`
	Out   string `short:"o" default:"car_data_analysis.csv" help:"Output CSV path"`
}

// DeleteCmd is the "delete" subcommand.
type DeleteCmd struct {
	RunID string `arg:"" name:"run-id" help:"Archived run ID"`
	Force bool   `help:"Confirm deletion"`
}

// needsArchive reports whether cmd reads or writes the run archive.
func (c *CLI) needsArchive(cmd string) bool {
	switch cmd {
	case "history", "export", "delete":
		return true
	}
	return c.archiving(cmd)
}

// archiving reports whether cmd stores analysis results.
func (c *CLI) archiving(cmd string) bool {
	switch cmd {
	case "analyze":
		return c.Analyze.Archive
	case "serve":
		return c.Serve.Archive
	}
	return false
}

// fetchFlags returns the fetch flags of cmd, or nil for commands that do
// not fetch.
func (c *CLI) fetchFlags(cmd string) *FetchFlags {
	switch cmd {
	case "analyze":
		return &c.Analyze.FetchFlags
	case "serve":
		return &c.Serve.FetchFlags
	}
	return nil
}
