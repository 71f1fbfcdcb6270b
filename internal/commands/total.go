package commands

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/billsum/billsum/internal/bridge"
	"github.com/billsum/billsum/internal/importer"
	"github.com/billsum/billsum/internal/model"
	"github.com/billsum/billsum/internal/selection"
	"github.com/billsum/billsum/internal/spending"
)

func newTotalCommand(a *app) *cobra.Command {
	var start, end, format string

	cmd := &cobra.Command{
		Use:   "total <file-or-dir>",
		Short: "Print the spending total of a bill export between two dates",
		Long: "Print the spending total of a bill export between --start and --end (DD/MM/YYYY, inclusive).\n" +
			"When given a directory, every .csv file directly inside it is summed.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runTotal(cmd, args[0], start, end, format)
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "first day to include, DD/MM/YYYY")
	cmd.Flags().StringVar(&end, "end", "", "last day to include, DD/MM/YYYY")
	cmd.Flags().StringVar(&format, "format", "bill", "export format")

	return cmd
}

func (a *app) runTotal(cmd *cobra.Command, path, start, end, format string) error {
	state, err := selectionFromFlags(start, end)
	if err != nil {
		return err
	}

	reg := importer.DefaultRegistry(a.log.With("component", "importer"))
	parser := reg.Get(format)
	if parser == nil {
		return fmt.Errorf("unknown format %q (known: %s)", format, strings.Join(reg.Formats(), ", "))
	}

	files, err := exportFiles(path)
	if err != nil {
		return err
	}

	bills, err := readBills(a, parser, files)
	if err != nil {
		return err
	}

	resp := bridge.Evaluate(state, func(r model.DateRange) decimal.Decimal {
		return spending.Total(bills, r)
	}, a.cfg.ResolvedMessages())

	if resp.Status != bridge.StatusOK {
		return errors.New(resp.Result)
	}
	fmt.Fprintln(cmd.OutOrStdout(), resp.Result)
	return nil
}

func selectionFromFlags(start, end string) (selection.State, error) {
	var state selection.State
	parse := func(name, value string) (*time.Time, error) {
		if value == "" {
			return nil, nil
		}
		d, err := model.ParseDate(value)
		if err != nil {
			return nil, fmt.Errorf("--%s: %w", name, err)
		}
		return &d, nil
	}

	var err error
	if state.Start, err = parse("start", start); err != nil {
		return selection.State{}, err
	}
	if state.End, err = parse("end", end); err != nil {
		return selection.State{}, err
	}
	return state, nil
}

func exportFiles(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("opening export: %w", err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	found, err := importer.Scan(path)
	if err != nil {
		return nil, err
	}
	files := make([]string, 0, len(found))
	for _, f := range found {
		files = append(files, f.Path)
	}
	return files, nil
}

func readBills(a *app, parser importer.Parser, files []string) ([]model.Bill, error) {
	var bills []model.Bill
	for _, path := range files {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("opening export: %w", err)
		}
		parsed, err := parser.Parse(f)
		f.Close()
		if err != nil {
			// Unreadable exports count as empty, same as the serve bridge.
			a.log.Warn("export unreadable, treating as empty", "file", path, "error", err)
		}
		a.log.Debug("export read", "file", path, "bills", len(parsed))
		bills = append(bills, parsed...)
	}
	return bills, nil
}
