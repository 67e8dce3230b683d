// Command ledger_cli ingests files, runs reports and mints API tokens against
// the same database and configuration as the server.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/SscSPs/ledger_assistant/internal/adapters/loaders"
	"github.com/SscSPs/ledger_assistant/internal/core/domain"
	"github.com/SscSPs/ledger_assistant/internal/dto"
	"github.com/SscSPs/ledger_assistant/internal/platform/bootstrap"
	"github.com/SscSPs/ledger_assistant/internal/platform/config"
	"github.com/SscSPs/ledger_assistant/internal/utils"
)

const usage = `usage: ledger_cli <command> [flags]

commands:
  ingest  -file path [-source label]
  report  -kind name [-start YYYY-MM-DD] [-end YYYY-MM-DD] [-months n] [-asof YYYY-MM-DD]
  status
  token   -subject name
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		return errUsage
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	switch args[0] {
	case "token":
		return runToken(cfg, args[1:], out)
	case "ingest", "report", "status":
	default:
		return errUsage
	}

	logger := bootstrap.NewLogger(cfg.LogLevel)
	slog.SetDefault(logger)

	app, err := bootstrap.New(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer app.Close()

	switch args[0] {
	case "ingest":
		return runIngest(ctx, app, args[1:], out)
	case "report":
		return runReport(ctx, app, args[1:], out)
	default:
		status, err := app.Services.Reporting.Status(ctx)
		if err != nil {
			return err
		}
		return writeJSON(out, status)
	}
}

func runIngest(ctx context.Context, app *bootstrap.App, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("ingest", flag.ContinueOnError)
	path := fs.String("file", "", "spreadsheet to ingest (.xlsx or .csv)")
	source := fs.String("source", "cli", "source label stored with the document")
	if err := fs.Parse(args); err != nil || *path == "" {
		return errUsage
	}

	f, err := os.Open(*path)
	if err != nil {
		return err
	}
	defer f.Close()

	rows, err := loaders.Load(*path, f)
	if err != nil {
		return err
	}
	result, err := app.Services.Ingestion.IngestRows(ctx, domain.IngestRowsInput{
		Filename: filepath.Base(*path),
		Source:   *source,
		Rows:     rows,
	})
	if err != nil {
		return err
	}
	return writeJSON(out, dto.ToIngestionResponse(result))
}

func runReport(ctx context.Context, app *bootstrap.App, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("report", flag.ContinueOnError)
	kindName := fs.String("kind", "", "report kind")
	var q dto.ReportQuery
	fs.StringVar(&q.StartDate, "start", "", "inclusive start date")
	fs.StringVar(&q.EndDate, "end", "", "inclusive end date")
	fs.IntVar(&q.Months, "months", 0, "trend window in months")
	fs.StringVar(&q.AsOf, "asof", "", "trend end date")
	if err := fs.Parse(args); err != nil || *kindName == "" {
		return errUsage
	}

	kind, err := domain.ParseReportKind(*kindName)
	if err != nil {
		return err
	}
	params, err := q.ToParams()
	if err != nil {
		return err
	}
	report, err := app.Services.Reporting.Run(ctx, domain.NewReportRequest(kind, params))
	if err != nil {
		return err
	}
	return writeJSON(out, report)
}

func runToken(cfg *config.Config, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("token", flag.ContinueOnError)
	subject := fs.String("subject", "", "token subject")
	if err := fs.Parse(args); err != nil || *subject == "" {
		return errUsage
	}

	token, expiresAt, err := utils.GenerateJWT(*subject, cfg.TokenSettings(), time.Now())
	if err != nil {
		return err
	}
	return writeJSON(out, map[string]any{"token": token, "expiresAt": expiresAt})
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
