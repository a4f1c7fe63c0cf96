package main

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/google/subcommands"
	"github.com/placementdesk/backend/internal/ledger"
	"github.com/placementdesk/backend/internal/models"
)

// arrearsCmd holds the flags for the 'arrears' subcommand.
type arrearsCmd struct {
	on string
}

func (*arrearsCmd) Name() string     { return "arrears" }
func (*arrearsCmd) Synopsis() string { return "replay recurring obligations and salaries" }
func (*arrearsCmd) Usage() string {
	return `ledgerctl arrears [-on <YYYY-MM-DD>]

  Counts the due cycles of every active obligation and staff salary up to the
  given day and compares the amount payable with what was paid.
`
}

func (c *arrearsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.on, "on", time.Now().Format("2006-01-02"), "Reference day")
}

func (c *arrearsCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	on, err := ledger.ParseDate(c.on)
	if err != nil {
		fmt.Fprintf(stderr, "Error parsing date: %v\n", err)
		return subcommands.ExitUsageError
	}

	snap, err := DecodeBackup()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading backup: %v\n", err)
		return subcommands.ExitFailure
	}

	var rows []models.Arrears
	for _, o := range snap.Obligations {
		if !o.IsActive {
			continue
		}
		a, err := ledger.ObligationArrears(o, snap.Transactions, on)
		if err != nil {
			fmt.Fprintf(stderr, "warning: obligation %s skipped: %v\n", o.ID, err)
			continue
		}
		rows = append(rows, a)
	}
	for _, s := range snap.Staff {
		if !s.IsActive {
			continue
		}
		a, err := ledger.PayrollArrears(s, snap.Transactions, on)
		if err != nil {
			fmt.Fprintf(stderr, "warning: salary of %s skipped: %v\n", s.ID, err)
			continue
		}
		rows = append(rows, a)
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Obligation\tCycles\tPayable\tPaid\tArrears\t\n")
	for _, a := range rows {
		fmt.Fprintf(w, "%s\t%d\t%s\t%s\t%s\t\n", a.Name, a.Cycles,
			ledger.FormatAmount(a.Payable, *currency),
			ledger.FormatAmount(a.Paid, *currency),
			ledger.FormatAmount(a.Arrears, *currency))
	}
	w.Flush()
	return subcommands.ExitSuccess
}
