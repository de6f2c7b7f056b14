package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"ledger/internal/core"
	"ledger/internal/viewmodel"
)

func printExpenses(w io.Writer, expenses []core.Expense) error {
	if len(expenses) == 0 {
		_, err := fmt.Fprintln(w, "no expenses")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tAMOUNT\tCATEGORY\tNOTE")
	for _, e := range expenses {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", e.ID, e.Date, core.FormatAmount(e.Amount), e.Category, e.NoteText())
	}
	return tw.Flush()
}

func printSummary(w io.Writer, st viewmodel.State) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "TOTAL (%s)\t%s\t\n", st.Filter, core.FormatAmount(st.Summary.Total))
	for _, c := range st.Summary.ByCategory {
		fmt.Fprintf(tw, "%s\t%s\t\n", c.Category, core.FormatAmount(c.Total))
	}
	return tw.Flush()
}
