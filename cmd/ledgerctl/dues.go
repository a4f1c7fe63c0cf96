package main

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/placementdesk/backend/internal/ledger"
)

// duesCmd holds the flags for the 'dues' subcommand.
type duesCmd struct {
	all     bool
	pending bool
}

func (*duesCmd) Name() string     { return "dues" }
func (*duesCmd) Synopsis() string { return "list candidate fees agreed, paid and due" }
func (*duesCmd) Usage() string {
	return `ledgerctl dues [-all] [-pending]

  Lists active candidates with their agreed fee, amount paid and amount due,
  followed by the total receivables.
`
}

func (c *duesCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.all, "all", false, "Include inactive candidates")
	f.BoolVar(&c.pending, "pending", false, "Only show candidates with an amount due")
}

func (c *duesCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	snap, err := DecodeBackup()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading backup: %v\n", err)
		return subcommands.ExitFailure
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Candidate\tAgreed\tPaid\tDue\t\n")
	for _, cand := range snap.Candidates {
		if !cand.IsActive && !c.all {
			continue
		}
		s := ledger.Summarize(cand, snap.Transactions)
		if c.pending && s.Cleared {
			continue
		}
		due := ledger.FormatAmount(ledger.DisplayDue(s), *currency)
		if s.Cleared {
			due = "cleared"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", s.Name,
			ledger.FormatAmount(s.AgreedAmount, *currency), ledger.FormatAmount(s.Paid, *currency), due)
	}
	w.Flush()

	total := ledger.TotalReceivables(snap.Candidates, snap.Transactions)
	fmt.Fprintf(stdout, "Total receivables: %s\n", ledger.FormatAmount(total, *currency))
	return subcommands.ExitSuccess
}
