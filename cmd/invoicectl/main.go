// Command invoicectl works on the invoice database directly, without the HTTP server.
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"

	"github.com/garyjia/invoice-desk/internal/config"
	"github.com/garyjia/invoice-desk/internal/container"
	"github.com/garyjia/invoice-desk/internal/domain/entity"
	"github.com/garyjia/invoice-desk/internal/export"
	"github.com/garyjia/invoice-desk/internal/infrastructure/storage"
	"github.com/garyjia/invoice-desk/pkg/utils"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := newApp(os.Stdout).RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "invoicectl: %v\n", err)
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	return &cli.App{
		Name:      "invoicectl",
		Usage:     "manage the local invoice database",
		Writer:    out,
		ErrWriter: os.Stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "configs/config.yaml",
				Usage:   "path to the YAML config file (optional)",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "log debug output to stderr",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "next-number",
				Usage:  "issue the next invoice number",
				Action: withContainer(nextNumber),
			},
			{
				Name:  "list",
				Usage: "list stored invoices, newest first",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "search", Aliases: []string{"s"}, Usage: "filter by number or customer name"},
				},
				Action: withContainer(listInvoices),
			},
			{
				Name:  "export",
				Usage: "write invoices to a file",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "xlsx", Usage: "xlsx, csv or json"},
					&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: ".", Usage: "output directory"},
				},
				Action: withContainer(exportInvoices),
			},
			{
				Name:      "import",
				Usage:     "restore a JSON backup",
				ArgsUsage: "PATH",
				Action:    withContainer(importBackup),
			},
			{
				Name:   "sync",
				Usage:  "push every invoice to the configured sink",
				Action: withContainer(syncAll),
			},
			{
				Name:  "clear",
				Usage: "delete all invoices and company info",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "yes", Usage: "confirm deletion"},
				},
				Action: withContainer(clearAll),
			},
		},
	}
}

type commandFunc func(c *cli.Context, app *container.Container) error

// withContainer loads configuration and runs fn against a started container
func withContainer(fn commandFunc) cli.ActionFunc {
	return func(c *cli.Context) error {
		cfg, err := config.Load(c.String("config"))
		if err != nil {
			return err
		}

		logger, err := utils.NewCLILogger(c.Bool("verbose"))
		if err != nil {
			return err
		}
		defer logger.Sync()

		app, err := container.NewContainer(cfg.ToContainerConfig(), logger)
		if err != nil {
			return err
		}
		if err := app.Start(c.Context); err != nil {
			return err
		}

		runErr := fn(c, app)
		if err := app.Close(); err != nil {
			logger.Warn("Container close failed", zap.Error(err))
		}
		return runErr
	}
}

func nextNumber(c *cli.Context, app *container.Container) error {
	draft, err := app.Services().Invoice.NewDraft(c.Context)
	if err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, draft.InvoiceNumber)
	return nil
}

func listInvoices(c *cli.Context, app *container.Container) error {
	var (
		records []entity.InvoiceRecord
		err     error
	)
	if term := c.String("search"); term != "" {
		records, err = app.Services().Invoice.Search(c.Context, term)
	} else {
		records, err = app.Services().Invoice.List(c.Context)
	}
	if err != nil {
		return err
	}

	currency := export.NewCurrencyFormatter(app.Config().Invoice.CurrencySymbol)
	tw := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "NUMBER\tDATE\tCUSTOMER\tTOTAL")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", r.InvoiceNumber, r.Date, r.Customer.Name, currency.Format(r.Total))
	}
	return tw.Flush()
}

func exportInvoices(c *cli.Context, app *container.Container) error {
	var (
		buf      bytes.Buffer
		filename string
		err      error
	)

	services := app.Services()
	switch c.String("format") {
	case "xlsx":
		filename, err = services.Export.WriteXLSX(c.Context, &buf)
	case "csv":
		filename, err = services.Export.WriteCSV(c.Context, &buf)
	case "json":
		var backup entity.Backup
		backup, err = services.Backup.Export(c.Context)
		if err == nil {
			filename = export.BackupFilename(backup.ExportDate)
			err = export.WriteBackup(&buf, backup)
		}
	default:
		return fmt.Errorf("unknown format %q", c.String("format"))
	}
	if err != nil {
		return err
	}

	files := storage.NewLocalFileStorage(c.String("out"), app.Logger())
	if err := files.Save(c.Context, filename, buf.Bytes()); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, files.GetFullPath(filename))
	return nil
}

func importBackup(c *cli.Context, app *container.Container) error {
	path := c.Args().First()
	if path == "" {
		return errors.New("import requires a backup file path")
	}

	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	backup, err := export.ReadBackup(f)
	if err != nil {
		return err
	}
	if err := app.Services().Backup.Import(c.Context, backup); err != nil {
		return err
	}

	fmt.Fprintf(c.App.Writer, "imported %d invoices\n", len(backup.Invoices))
	return nil
}

func syncAll(c *cli.Context, app *container.Container) error {
	report, err := app.Services().Sync.SyncAll(c.Context)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func clearAll(c *cli.Context, app *container.Container) error {
	if !c.Bool("yes") {
		return errors.New("refusing to clear without --yes")
	}
	if err := app.Services().Backup.ClearAll(c.Context); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, "all invoices and company info deleted")
	return nil
}
