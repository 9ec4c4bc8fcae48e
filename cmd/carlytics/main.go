package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/abtech/carlytics"
	"github.com/abtech/carlytics/analyze"
	"github.com/abtech/carlytics/chromedp"
	"github.com/abtech/carlytics/goquery"
	carhttp "github.com/abtech/carlytics/http"
	"github.com/abtech/carlytics/rod"
	carslog "github.com/abtech/carlytics/slog"
	"github.com/abtech/carlytics/sqlite"
	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// A missing .env file is fine; flags and the environment still apply.
	_ = godotenv.Load()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		// Application errors were already reported by the command.
		if carlytics.ErrorCode(err) == carlytics.EINTERNAL {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path. Set before calling Run(); --db overrides it.
	DBPath string

	// SQLite database used by the run archive.
	DB *sqlite.DB

	// Services for end-to-end testing. When set, Run uses them instead of
	// wiring real implementations.
	Analyzer carlytics.Analyzer
	Runs     carlytics.RunService
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	if m.DB != nil {
		return m.DB.Close()
	}
	return nil
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// Initialize dependencies struct for Kong binding
	deps := &Dependencies{
		Ctx:     ctx,
		Stdout:  stdout,
		Stderr:  stderr,
		Sources: carlytics.DefaultSources(),
		Session: carlytics.NewSession(),
	}

	// Create Kong parser with dependency binding
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("carlytics"),
		kong.Description("Scrape car listings, chart them and export clean tables"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'carlytics --help' to see available commands")
	}

	if args[0] == "help" || args[0] == "--help" || args[0] == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}
	cmd := strings.Fields(kongCtx.Command())[0]

	deps.Logger = newLogger(stderr, cli.Verbose)

	// Open the archive for commands that read or write it.
	if cli.needsArchive(cmd) && m.Runs == nil {
		if cli.DB != "" {
			m.DBPath = cli.DB
		}
		m.DB = sqlite.NewDB(m.DBPath)
		if err := m.DB.Open(); err != nil {
			fmt.Fprintf(stderr, "Hint: Set CARLYTICS_DB to use a different database path\n")
			return fmt.Errorf("failed to open database at %q: %w", m.DBPath, err)
		}
		defer m.Close()
		m.Runs = sqlite.NewRunService(m.DB)
	}
	deps.Runs = m.Runs

	if flags := cli.fetchFlags(cmd); flags != nil {
		analyzer := m.Analyzer
		if analyzer == nil {
			a, closeFn, err := newAnalyzer(*flags, deps.Logger)
			if err != nil {
				fmt.Fprintf(stderr, "error: %s\n", carlytics.ErrorMessage(err))
				return err
			}
			defer closeFn()
			if cli.archiving(cmd) {
				a.Runs = deps.Runs
			}
			analyzer = carslog.NewLoggingAnalyzer(a, deps.Logger)
		}
		deps.Analyzer = analyzer
	}

	return kongCtx.Run(deps)
}

// newAnalyzer wires the fetchers and parser. The returned function closes
// the fetchers.
func newAnalyzer(flags FetchFlags, logger *slog.Logger) (*analyze.Analyzer, func(), error) {
	static := carslog.NewLoggingFetcher(carhttp.NewFetcher(carhttp.WithTimeout(flags.Timeout)), logger)

	var browser carlytics.Fetcher
	switch flags.Browser {
	case "rod":
		browser = carslog.NewLoggingFetcher(rod.NewFetcher(), logger)
	case "chromedp":
		browser = carslog.NewLoggingFetcher(chromedp.NewFetcher(), logger)
	case "none", "":
	default:
		return nil, nil, carlytics.Errorf(carlytics.EINVALID, "unknown browser %q", flags.Browser)
	}

	closeFn := func() {
		_ = static.Close()
		if browser != nil {
			_ = browser.Close()
		}
	}

	return &analyze.Analyzer{
		Static:  static,
		Browser: browser,
		Parser:  carslog.NewLoggingParser(goquery.NewParser(), logger),
	}, closeFn, nil
}

// newLogger returns a text logger on w when verbose, else a discarding one.
func newLogger(w io.Writer, verbose bool) *slog.Logger {
	if !verbose {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "carlytics.db"
	}
	dir := filepath.Join(home, ".carlytics")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "carlytics.db")
}
