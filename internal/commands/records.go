package commands

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"ledger/internal/core"
	"ledger/internal/services"
	"ledger/internal/viewmodel"
)

// withModel opens the ledger, hands a loaded view model to fn and closes it.
func (a *app) withModel(ctx context.Context, filter core.Filter, fn func(*viewmodel.Model) error) error {
	ledger, err := a.openLedger(ctx)
	if err != nil {
		return err
	}
	defer ledger.Close()

	m := viewmodel.New(ledger, viewmodel.WithClock(a.now), viewmodel.WithFilter(filter))
	if err := m.Refresh(ctx); err != nil {
		return err
	}
	return fn(m)
}

func (a *app) withLedger(ctx context.Context, fn func(*services.LedgerService) error) error {
	ledger, err := a.openLedger(ctx)
	if err != nil {
		return err
	}
	defer ledger.Close()
	return fn(ledger)
}

func filterFlag(cmd *cobra.Command, target *string) {
	cmd.Flags().StringVarP(target, "filter", "f", "all", "date window: all, week or month")
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id %q", s)
	}
	return id, nil
}

func newInitCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the ledger storage if it does not exist",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withLedger(cmd.Context(), func(l *services.LedgerService) error {
				if err := l.Initialize(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ledger ready (%s)\n", describeBackend(a))
				return nil
			})
		},
	}
}

func describeBackend(a *app) string {
	if a.cfg.DataBackend == "sqlite" {
		return "sqlite: " + a.cfg.SQLiteDBPath
	}
	return a.cfg.DataBackend
}

func newAddCommand(a *app) *cobra.Command {
	var note string

	cmd := &cobra.Command{
		Use:   "add AMOUNT CATEGORY",
		Short: "Record an expense dated today",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := core.ParseAmount(args[0])
			if err != nil {
				return err
			}
			return a.withLedger(cmd.Context(), func(l *services.LedgerService) error {
				id, err := l.AddExpense(cmd.Context(), amount, args[1], note)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added #%d\n", id)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&note, "note", "n", "", "optional note")
	return cmd
}

func newListCommand(a *app) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List expenses, newest first",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := core.ParseFilter(filter)
			if err != nil {
				return err
			}
			return a.withModel(cmd.Context(), f, func(m *viewmodel.Model) error {
				st := m.State()
				if err := printExpenses(cmd.OutOrStdout(), st.Expenses); err != nil {
					return err
				}
				return printSummary(cmd.OutOrStdout(), st)
			})
		},
	}

	filterFlag(cmd, &filter)
	return cmd
}

func newTotalsCommand(a *app) *cobra.Command {
	var filter string

	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Show the overall total and totals per category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f, err := core.ParseFilter(filter)
			if err != nil {
				return err
			}
			return a.withModel(cmd.Context(), f, func(m *viewmodel.Model) error {
				return printSummary(cmd.OutOrStdout(), m.State())
			})
		},
	}

	filterFlag(cmd, &filter)
	return cmd
}

func newEditCommand(a *app) *cobra.Command {
	var amount, category, note string

	cmd := &cobra.Command{
		Use:   "edit ID",
		Short: "Change the amount, category or note of an expense",
		Long:  "Fields not given keep their current value. Pass --note \"\" to clear the note.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			return a.withModel(cmd.Context(), core.All, func(m *viewmodel.Model) error {
				form, err := m.BeginEdit(cmd.Context(), id)
				if err != nil {
					return err
				}
				flags := cmd.Flags()
				if flags.Changed("amount") {
					form.Amount = amount
				}
				if flags.Changed("category") {
					form.Category = category
				}
				if flags.Changed("note") {
					form.Note = note
				}
				if err := m.SaveEdit(cmd.Context(), form); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated #%d\n", id)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&amount, "amount", "a", "", "new amount")
	cmd.Flags().StringVarP(&category, "category", "c", "", "new category")
	cmd.Flags().StringVarP(&note, "note", "n", "", "new note")
	return cmd
}

func newRemoveCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID...",
		Aliases: []string{"remove", "delete"},
		Short:   "Delete expenses; unknown ids are ignored",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int64, 0, len(args))
			for _, arg := range args {
				id, err := parseID(arg)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}
			return a.withModel(cmd.Context(), core.All, func(m *viewmodel.Model) error {
				for _, id := range ids {
					if err := m.Delete(cmd.Context(), id); err != nil {
						return err
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", joinIDs(ids))
				return nil
			})
		},
	}
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = "#" + strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, " ")
}
