package main

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/placementdesk/backend/internal/ledger"
	"github.com/placementdesk/backend/internal/models"
)

// balanceCmd holds the flags for the 'balance' subcommand.
type balanceCmd struct {
	kind      string
	statement bool
}

func (*balanceCmd) Name() string     { return "balance" }
func (*balanceCmd) Synopsis() string { return "display computed balances" }
func (*balanceCmd) Usage() string {
	return `ledgerctl balance [-kind Account|Candidate|Staff] [-statement] [<id or name>...]

  Without arguments, lists every account with its balance. Arguments select
  participants by id or name; -statement prints their dated lines.
`
}

func (c *balanceCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.kind, "kind", "", "Restrict lookup to one participant kind")
	f.BoolVar(&c.statement, "statement", false, "Print the statement of each selected participant")
}

func (c *balanceCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	kind := models.EntityKind(c.kind)
	if kind != "" && !kind.Valid() {
		fmt.Fprintf(stderr, "Unknown kind %q\n", c.kind)
		return subcommands.ExitUsageError
	}

	snap, err := DecodeBackup()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading backup: %v\n", err)
		return subcommands.ExitFailure
	}

	var selected []participant
	if f.NArg() == 0 {
		for _, a := range snap.Accounts {
			selected = append(selected, participant{a.ID, models.EntityAccount, a.Name})
		}
	}
	for _, key := range f.Args() {
		found := findParticipants(snap, kind, key)
		if len(found) == 0 {
			fmt.Fprintf(stderr, "No participant matches %q\n", key)
			return subcommands.ExitFailure
		}
		selected = append(selected, found...)
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, p := range selected {
		balance := ledger.EntityBalance(p.id, p.kind, snap)
		fmt.Fprintf(w, "%s\t%s\t%s\t\n", p.name, p.kind, ledger.FormatAmount(balance, *currency))
	}
	w.Flush()

	if c.statement {
		for _, p := range selected {
			printStatement(p, ledger.EntityStatement(p.id, p.kind, snap))
		}
	}
	return subcommands.ExitSuccess
}

func printStatement(p participant, st ledger.Statement) {
	fmt.Fprintf(stdout, "\n%s (%s)\n", p.name, p.kind)
	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Date\tType\tDebit\tCredit\tBalance\tDescription\n")
	fmt.Fprintf(w, "\tOpening\t\t\t%s\t\n", ledger.FormatAmount(st.OpeningBalance, *currency))
	for _, line := range st.Lines {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n", line.Transaction.Date, line.Transaction.Type,
			line.Debit, line.Credit, ledger.FormatAmount(line.Balance, *currency), line.Transaction.Description)
	}
	w.Flush()
	fmt.Fprintf(stdout, "Closing balance: %s\n", ledger.FormatAmount(st.ClosingBalance, *currency))
}
