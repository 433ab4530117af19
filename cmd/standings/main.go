package main

import (
	fxmodules "championship/internal/fx"
	"championship/internal/logger"
	"championship/internal/render"
	"championship/internal/service"
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
)

type options struct {
	seasonID int64
	teams    bool
	csv      bool
}

func main() {
	var opts options
	flag.Int64Var(&opts.seasonID, "season", 0, "season id, 0 for the active season")
	flag.BoolVar(&opts.teams, "teams", false, "print the team championship")
	flag.BoolVar(&opts.csv, "csv", false, "write driver standings as csv")
	flag.Parse()

	app := fx.New(
		fxmodules.Storage,
		fx.NopLogger,
		// stdout carries the tables
		fx.Decorate(func(zerolog.Logger) zerolog.Logger {
			return logger.NewWithWriter(os.Stderr, zerolog.WarnLevel)
		}),
		fx.Invoke(func(standingsSvc *service.StandingsService, exportSvc *service.ExportService) error {
			return run(context.Background(), os.Stdout, opts, standingsSvc, exportSvc)
		}),
	)
	if err := app.Err(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(ctx context.Context, w io.Writer, opts options, standingsSvc *service.StandingsService, exportSvc *service.ExportService) error {
	if opts.csv {
		_, err := exportSvc.StandingsCSV(ctx, w, opts.seasonID)
		return errors.Wrap(err, "export standings")
	}

	if opts.teams {
		table, err := standingsSvc.TeamTable(ctx, opts.seasonID)
		if err != nil {
			return errors.Wrap(err, "team standings")
		}
		if table.Season.ID != 0 {
			fmt.Fprintf(w, "%s constructors\n", table.Season.Name)
		}
		if table.Notice != "" {
			fmt.Fprintln(w, table.Notice)
			return nil
		}
		fmt.Fprint(w, render.TeamTable(table.Entries))
		return nil
	}

	table, err := standingsSvc.DriverTable(ctx, opts.seasonID)
	if err != nil {
		return errors.Wrap(err, "driver standings")
	}
	if table.Season.ID != 0 {
		fmt.Fprintf(w, "%s drivers\n", table.Season.Name)
	}
	if table.Notice != "" {
		fmt.Fprintln(w, table.Notice)
		return nil
	}
	fmt.Fprint(w, render.DriverTable(table.Entries, false))
	return nil
}
