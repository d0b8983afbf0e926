package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/ahmedtravel/playbook/internal/adapters/catalog"
	"github.com/ahmedtravel/playbook/internal/app"
	"github.com/ahmedtravel/playbook/internal/domain"
	"github.com/ahmedtravel/playbook/internal/platform/config"
	"github.com/ahmedtravel/playbook/internal/platform/logging"
)

const (
	exitOK    = 0
	exitError = 1

	confirmWord = "CONFIRM"
	topN        = 5
)

var errCancelled = errors.New("deletion cancelled")

const usage = `usage: catalogctl [-products path] <command> [flags]

commands:
  ingest -file <path>   ingest products from a .json (array or object) or .jsonl file
  stats                 show catalog statistics
  backup                create a backup of the products file
  backups               list backups, newest first
  nuke [-yes]           back up and empty the products file
`

type cli struct {
	store  *catalog.FileStore
	ingest *app.IngestService
	in     io.Reader
	out    io.Writer
}

// run executes one command and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	global := flag.NewFlagSet("catalogctl", flag.ContinueOnError)
	global.SetOutput(stderr)
	global.Usage = func() { fmt.Fprint(stderr, usage) }

	productsPath := global.String("products", "", "products file (defaults to catalog.products_path)")
	verbose := global.Bool("v", false, "debug logging")

	if err := global.Parse(args); err != nil {
		return exitError
	}

	if global.NArg() == 0 {
		global.Usage()
		return exitError
	}

	profile := os.Getenv("APP_ENVIRONMENT")
	if profile == "" {
		profile = "local"
	}

	cfg, err := config.Load(profile)
	if err != nil {
		fmt.Fprintf(stderr, "error: loading config: %v\n", err)
		return exitError
	}

	level := "warn"
	if *verbose {
		level = "debug"
	}

	logger := logging.NewWithWriter(&logging.Config{Level: level, Format: "pretty", Service: "catalogctl"}, stderr)

	path := cfg.Catalog.ProductsPath
	if *productsPath != "" {
		path = *productsPath
	}

	store := catalog.NewFileStore(catalog.FileStoreConfig{
		Path:      path,
		BackupDir: cfg.Catalog.BackupDir,
		Retention: cfg.Catalog.BackupRetention,
		LockStale: cfg.Catalog.LockStale,
		Logger:    logger,
	})

	c := &cli{
		store:  store,
		ingest: app.NewIngestService(app.IngestServiceConfig{Store: store, Logger: logger}),
		in:     stdin,
		out:    stdout,
	}

	cmd, rest := global.Arg(0), global.Args()[1:]

	if err := c.dispatch(ctx, cmd, rest, stderr); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}

		reportError(stderr, err)

		return exitError
	}

	return exitOK
}

func (c *cli) dispatch(ctx context.Context, cmd string, args []string, stderr io.Writer) error {
	fs := flag.NewFlagSet(cmd, flag.ContinueOnError)
	fs.SetOutput(stderr)

	switch cmd {
	case "ingest":
		file := fs.String("file", "", "path to a .json or .jsonl file")
		if err := fs.Parse(args); err != nil {
			return err
		}

		if *file == "" {
			return errors.New("ingest requires -file")
		}

		return c.runIngest(ctx, *file)
	case "stats":
		return c.runStats(ctx)
	case "backup":
		return c.runBackup(ctx)
	case "backups":
		return c.runBackups(ctx)
	case "nuke":
		yes := fs.Bool("yes", false, "skip the confirmation prompt")
		if err := fs.Parse(args); err != nil {
			return err
		}

		return c.runNuke(ctx, *yes)
	default:
		fmt.Fprint(stderr, usage)
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func (c *cli) runIngest(ctx context.Context, file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("opening %s: %w", file, err)
	}
	defer f.Close()

	products, err := parseProducts(f, strings.EqualFold(filepath.Ext(file), ".jsonl"))
	if err != nil {
		return fmt.Errorf("parsing %s: %w", file, err)
	}

	if len(products) == 0 {
		return fmt.Errorf("no products found in %s", file)
	}

	fmt.Fprintf(c.out, "Ingesting %d product(s) from %s\n", len(products), filepath.Base(file))

	result, err := c.ingest.Ingest(ctx, products)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Ingested %d product(s)", result.Written)

	if result.BackupsRemoved > 0 {
		fmt.Fprintf(c.out, ", pruned %d old backup(s)", result.BackupsRemoved)
	}

	fmt.Fprintln(c.out)

	return nil
}

// parseProducts reads a JSON array, a single JSON object, or JSON lines.
// Blank lines and lines starting with # are skipped in JSON lines input.
func parseProducts(r io.Reader, jsonl bool) ([]domain.Product, error) {
	if jsonl {
		return parseJSONLines(r)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, nil
	}

	if raw[0] == '[' {
		var products []domain.Product
		if err := json.Unmarshal(raw, &products); err != nil {
			return nil, err
		}

		return products, nil
	}

	var product domain.Product
	if err := json.Unmarshal(raw, &product); err != nil {
		return nil, err
	}

	return []domain.Product{product}, nil
}

func parseJSONLines(r io.Reader) ([]domain.Product, error) {
	var products []domain.Product

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)

	for line := 1; scanner.Scan(); line++ {
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}

		var p domain.Product
		if err := json.Unmarshal([]byte(text), &p); err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		products = append(products, p)
	}

	return products, scanner.Err()
}

func (c *cli) runStats(ctx context.Context) error {
	stats, err := c.ingest.Stats(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)

	fmt.Fprintf(w, "Catalog\t%s\n", c.store.Path())
	fmt.Fprintf(w, "Total products\t%d\n", stats.Total)

	if stats.Total == 0 {
		return w.Flush()
	}

	fmt.Fprintf(w, "Active\t%d\n", stats.Active)
	fmt.Fprintf(w, "Inactive\t%d\n", stats.Inactive)
	fmt.Fprintf(w, "Last updated\t%s\n", stats.LastUpdated.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Size\t%s\n", formatBytes(stats.SizeBytes))
	fmt.Fprintf(w, "Backups\t%d\n", stats.Backups)

	writeBreakdown(w, "By category", stats.ByCategory, stats.Total, 0)
	writeBreakdown(w, "By destination", stats.ByDestination, stats.Total, topN)
	writeBreakdown(w, "Top suppliers", stats.BySupplier, stats.Total, topN)

	return w.Flush()
}

// writeBreakdown prints counts in descending order, keeping at most limit
// rows when limit is positive.
func writeBreakdown(w io.Writer, title string, counts map[string]int, total, limit int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}

	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}

		return keys[i] < keys[j]
	})

	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}

	fmt.Fprintf(w, "\n%s\t\n", title)

	for _, k := range keys {
		fmt.Fprintf(w, "  %s\t%d (%.1f%%)\n", k, counts[k], float64(counts[k])*100/float64(total))
	}
}

func (c *cli) runBackup(ctx context.Context) error {
	path, err := c.ingest.Backup(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return errors.New("products file does not exist, nothing to back up")
		}

		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Backup created: %s (%s)\n", path, formatBytes(info.Size()))

	return nil
}

func (c *cli) runBackups(ctx context.Context) error {
	backups, err := c.store.ListBackups(ctx)
	if err != nil {
		return err
	}

	if len(backups) == 0 {
		fmt.Fprintln(c.out, "No backups available.")
		return nil
	}

	w := tabwriter.NewWriter(c.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "FILE\tCREATED\tSIZE")

	for _, b := range backups {
		fmt.Fprintf(w, "%s\t%s\t%s\n", filepath.Base(b.Path), b.ModTime.Format("2006-01-02 15:04:05"), formatBytes(b.Size))
	}

	return w.Flush()
}

func (c *cli) runNuke(ctx context.Context, confirmed bool) error {
	if !confirmed {
		products, err := c.store.Load(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(c.out, "This empties the catalog at %s (%d products).\n", c.store.Path(), len(products))
		fmt.Fprintf(c.out, "Type %s to proceed: ", confirmWord)

		answer, _ := bufio.NewReader(c.in).ReadString('\n')
		if strings.TrimSpace(answer) != confirmWord {
			return errCancelled
		}
	}

	if err := c.store.Nuke(ctx); err != nil {
		return err
	}

	fmt.Fprintf(c.out, "Catalog emptied: %s\n", c.store.Path())

	return nil
}

// reportError prints err, listing each failing field of a rejected record on
// its own line.
func reportError(stderr io.Writer, err error) {
	var invalid *domain.RecordValidationError
	if !errors.As(err, &invalid) {
		fmt.Fprintf(stderr, "error: %v\n", err)
		return
	}

	fmt.Fprintf(stderr, "error: batch rejected, record %s is invalid\n", invalid.Record)

	fields := make([]string, 0, len(invalid.Fields))
	for f := range invalid.Fields {
		fields = append(fields, f)
	}

	sort.Strings(fields)

	for _, f := range fields {
		fmt.Fprintf(stderr, "  %s: %s\n", f, invalid.Fields[f])
	}
}

func formatBytes(n int64) string {
	const unit = 1024

	if n < unit {
		return fmt.Sprintf("%d B", n)
	}

	size := float64(n)
	for _, suffix := range []string{"KB", "MB", "GB"} {
		size /= unit
		if size < unit {
			return fmt.Sprintf("%.1f %s", size, suffix)
		}
	}

	return fmt.Sprintf("%.1f TB", size/unit)
}
