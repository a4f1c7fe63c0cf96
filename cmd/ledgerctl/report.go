package main

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/placementdesk/backend/internal/ledger"
)

// reportCmd holds the flags for the 'report' subcommand.
type reportCmd struct {
	from   string
	to     string
	asJSON bool
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display profit and loss and the balance sheet" }
func (*reportCmd) Usage() string {
	return `ledgerctl report [-from <YYYY-MM-DD>] [-to <YYYY-MM-DD>] [-json]

  Prints the profit and loss statement for the period and the balance sheet
  as it stands.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First day of the profit and loss period")
	f.StringVar(&c.to, "to", "", "Last day of the profit and loss period")
	f.BoolVar(&c.asJSON, "json", false, "Print the reports as JSON")
}

func (c *reportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	for _, d := range []string{c.from, c.to} {
		if d == "" {
			continue
		}
		if _, err := ledger.ParseDate(d); err != nil {
			fmt.Fprintf(stderr, "Error parsing date: %v\n", err)
			return subcommands.ExitUsageError
		}
	}

	snap, err := DecodeBackup()
	if err != nil {
		fmt.Fprintf(stderr, "Error loading backup: %v\n", err)
		return subcommands.ExitFailure
	}

	pl := ledger.BuildProfitAndLoss(snap, c.from, c.to)
	bs := ledger.BuildBalanceSheet(snap)

	if c.asJSON {
		if err := printJSON(map[string]any{"profitAndLoss": pl, "balanceSheet": bs}); err != nil {
			fmt.Fprintf(stderr, "Error writing report: %v\n", err)
			return subcommands.ExitFailure
		}
		return subcommands.ExitSuccess
	}

	w := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(w, "Profit and loss\t\t\n")
	fmt.Fprintf(w, "Revenue\t%s\t\n", ledger.FormatAmount(pl.Revenue, *currency))
	fmt.Fprintf(w, "Refunds\t%s\t\n", ledger.FormatAmount(pl.Refunds, *currency))
	fmt.Fprintf(w, "Net revenue\t%s\t\n", ledger.FormatAmount(pl.NetRevenue, *currency))
	fmt.Fprintf(w, "Expenses\t%s\t\n", ledger.FormatAmount(pl.Expenses, *currency))
	fmt.Fprintf(w, "Net profit\t%s\t\n", ledger.FormatAmount(pl.NetProfit, *currency))
	fmt.Fprintf(w, "\t\t\n")
	fmt.Fprintf(w, "Assets\t\t\n")
	for _, l := range bs.Assets {
		fmt.Fprintf(w, "%s\t%s\t\n", l.Name, ledger.FormatAmount(l.Amount, *currency))
	}
	fmt.Fprintf(w, "Total assets\t%s\t\n", ledger.FormatAmount(bs.TotalAssets, *currency))
	fmt.Fprintf(w, "Liabilities\t\t\n")
	for _, l := range bs.Liabilities {
		fmt.Fprintf(w, "%s\t%s\t\n", l.Name, ledger.FormatAmount(l.Amount, *currency))
	}
	fmt.Fprintf(w, "Total liabilities\t%s\t\n", ledger.FormatAmount(bs.TotalLiabilities, *currency))
	fmt.Fprintf(w, "Equity\t\t\n")
	for _, l := range bs.Equity {
		fmt.Fprintf(w, "%s\t%s\t\n", l.Name, ledger.FormatAmount(l.Amount, *currency))
	}
	fmt.Fprintf(w, "Total equity\t%s\t\n", ledger.FormatAmount(bs.TotalEquity, *currency))
	w.Flush()
	return subcommands.ExitSuccess
}
