package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/mattn/go-isatty"
	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container
	"golang.org/x/sync/errgroup"

	"github.com/ericfisherdev/workbook/internal/adapter/driven/jsonfile"
	sqliteadapter "github.com/ericfisherdev/workbook/internal/adapter/driven/sqlite"
	httphandler "github.com/ericfisherdev/workbook/internal/adapter/driving/http"
	"github.com/ericfisherdev/workbook/internal/application"
	"github.com/ericfisherdev/workbook/internal/config"
)

var version = "dev"

// CLI is the top-level command structure for workbook.
type CLI struct {
	Version  kong.VersionFlag `help:"Show version." short:"V"`
	LogLevel string           `help:"Log level." enum:"debug,info,warn,error" default:"info"`

	Serve   ServeCmd   `cmd:"" default:"1" help:"Import the data file and serve the HTTP API."`
	Import  ImportCmd  `cmd:"" help:"Add internships from the data file to the database."`
	Export  ExportCmd  `cmd:"" help:"Write the database to the data file."`
	Restore RestoreCmd `cmd:"" help:"Replace the database contents with the data file."`
	Check   CheckCmd   `cmd:"" help:"Validate a data file without importing it."`
}

// ServeCmd runs the HTTP API until interrupted.
type ServeCmd struct{}

// Run executes the serve command.
func (c *ServeCmd) Run(logger *slog.Logger) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"data_file", cfg.DataFile,
		"load_policy", cfg.LoadPolicy,
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wb, err := openWorkBook(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer wb.close()

	if _, err := wb.svc.Import(ctx); err != nil {
		return err
	}

	handler := httphandler.NewServeMux(httphandler.NewHandler(wb.svc, logger), logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("http server shutdown: %w", err)
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return err
	}

	logger.Info("shutdown complete")
	return nil
}

// ImportCmd adds the data file's internships to the database.
type ImportCmd struct{}

// Run executes the import command.
func (c *ImportCmd) Run(logger *slog.Logger, out io.Writer) error {
	return withWorkBook(logger, func(ctx context.Context, svc *application.WorkBookService) error {
		n, err := svc.Import(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "imported %d internship(s)\n", n)
		return nil
	})
}

// ExportCmd writes the database to the data file.
type ExportCmd struct{}

// Run executes the export command.
func (c *ExportCmd) Run(logger *slog.Logger, out io.Writer) error {
	return withWorkBook(logger, func(ctx context.Context, svc *application.WorkBookService) error {
		n, err := svc.Export(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "exported %d internship(s)\n", n)
		return nil
	})
}

// RestoreCmd replaces the database contents with the data file.
type RestoreCmd struct{}

// Run executes the restore command.
func (c *RestoreCmd) Run(logger *slog.Logger, out io.Writer) error {
	return withWorkBook(logger, func(ctx context.Context, svc *application.WorkBookService) error {
		n, err := svc.Restore(ctx)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "restored %d internship(s)\n", n)
		return nil
	})
}

// errInvalidRecords is returned by check when any record fails validation.
var errInvalidRecords = errors.New("data file has invalid internships")

// CheckCmd validates every record of a data file and reports each failure.
type CheckCmd struct {
	File string `arg:"" type:"existingfile" help:"Data file to validate."`
}

// Run executes the check command.
func (c *CheckCmd) Run(out io.Writer) error {
	f, err := os.Open(c.File)
	if err != nil {
		return fmt.Errorf("check: %w", err)
	}
	defer f.Close()

	total, issues, err := jsonfile.Validate(f)
	if err != nil {
		return fmt.Errorf("check: parsing %s: %w", c.File, err)
	}

	for _, issue := range issues {
		fmt.Fprintf(out, "internship %d: %v\n", issue.Index, issue.Err)
	}
	fmt.Fprintf(out, "%d of %d internship(s) valid\n", total-len(issues), total)

	if len(issues) > 0 {
		return fmt.Errorf("check: %w", errInvalidRecords)
	}
	return nil
}

type workBook struct {
	db     *sqliteadapter.DB
	svc    *application.WorkBookService
	logger *slog.Logger
}

// openWorkBook opens and migrates the database and wires the service.
func openWorkBook(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*workBook, error) {
	db, err := sqliteadapter.NewDB(ctx, cfg.DBPath)
	if err != nil {
		return nil, err
	}
	logger.Info("database opened", "path", cfg.DBPath)

	if err := sqliteadapter.RunMigrations(db.Writer); err != nil {
		_ = db.Close()
		return nil, err
	}

	store := sqliteadapter.NewInternshipRepo(db)
	file := jsonfile.NewFileStore(cfg.DataFile, jsonfile.LoadPolicy(cfg.LoadPolicy), logger)

	return &workBook{
		db:     db,
		svc:    application.NewWorkBookService(store, file, logger),
		logger: logger,
	}, nil
}

func (wb *workBook) close() {
	if err := wb.db.Close(); err != nil {
		wb.logger.Error("error closing database", "error", err)
	}
}

// withWorkBook runs fn against a freshly opened workbook and closes it afterwards.
func withWorkBook(logger *slog.Logger, fn func(context.Context, *application.WorkBookService) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	wb, err := openWorkBook(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer wb.close()

	return fn(ctx, wb.svc)
}

// newLogger writes human-readable text to a terminal and JSON lines
// otherwise, e.g. under a container runtime.
func newLogger(level string, f *os.File) *slog.Logger {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		l = slog.LevelInfo
	}
	opts := &slog.HandlerOptions{Level: l}

	if isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()) {
		return slog.New(slog.NewTextHandler(f, opts))
	}
	return slog.New(slog.NewJSONHandler(f, opts))
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("workbook"),
		kong.Description("Track internship applications."),
		kong.Vars{"version": version},
		kong.BindTo(os.Stdout, (*io.Writer)(nil)),
	)

	logger := newLogger(cli.LogLevel, os.Stderr)
	slog.SetDefault(logger)

	if err := ctx.Run(logger); err != nil {
		logger.Error("fatal error", "command", ctx.Command(), "error", err)
		os.Exit(1)
	}
}
