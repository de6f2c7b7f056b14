package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"ledger/internal/core"
	"ledger/internal/viewmodel"
)

const shellHelp = `commands:
  list                       show expenses and totals
  filter all|week|month      switch the date window
  add AMOUNT CATEGORY [NOTE] record an expense
  edit ID                    start editing an expense
  save AMOUNT CATEGORY [NOTE] apply the edit in progress
  cancel                     drop the edit in progress
  rm ID                      delete an expense
  totals                     show totals only
  quit                       leave the shell`

func newShellCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Interactive ledger session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return a.withModel(cmd.Context(), core.All, func(m *viewmodel.Model) error {
				return runShell(cmd.Context(), m, cmd.InOrStdin(), cmd.OutOrStdout())
			})
		},
	}
}

var errQuit = errors.New("quit")

// runShell reads one command per line until EOF or quit. Command errors are
// printed and the session continues.
func runShell(ctx context.Context, m *viewmodel.Model, in io.Reader, out io.Writer) error {
	sc := bufio.NewScanner(in)
	prompt := func() {
		label := m.Filter().String()
		if e := m.Editing(); e != nil {
			label += fmt.Sprintf(" editing #%d", e.ID)
		}
		fmt.Fprintf(out, "[%s]> ", label)
	}

	prompt()
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line != "" {
			err := shellExec(ctx, m, line, out)
			if errors.Is(err, errQuit) {
				return nil
			}
			if err != nil {
				fmt.Fprintf(out, "error: %v\n", err)
			}
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		prompt()
	}
	fmt.Fprintln(out)
	return sc.Err()
}

func shellExec(ctx context.Context, m *viewmodel.Model, line string, out io.Writer) error {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	switch cmd {
	case "help", "?":
		fmt.Fprintln(out, shellHelp)
	case "quit", "exit", "q":
		return errQuit
	case "list", "ls":
		if err := m.Refresh(ctx); err != nil {
			return err
		}
		st := m.State()
		if err := printExpenses(out, st.Expenses); err != nil {
			return err
		}
		return printSummary(out, st)
	case "totals":
		if err := m.Refresh(ctx); err != nil {
			return err
		}
		return printSummary(out, m.State())
	case "filter":
		if len(args) != 1 {
			return fmt.Errorf("usage: filter all|week|month")
		}
		f, err := core.ParseFilter(args[0])
		if err != nil {
			return err
		}
		if err := m.SetFilter(ctx, f); err != nil {
			return err
		}
		return printSummary(out, m.State())
	case "add":
		form, err := shellForm(args)
		if err != nil {
			return err
		}
		if err := m.Add(ctx, form); err != nil {
			return err
		}
		fmt.Fprintln(out, "added")
	case "edit":
		if len(args) != 1 {
			return fmt.Errorf("usage: edit ID")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		form, err := m.BeginEdit(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "editing #%d: %s %s %s\n", id, form.Amount, form.Category, form.Note)
	case "save":
		form, err := shellForm(args)
		if err != nil {
			return err
		}
		if err := m.SaveEdit(ctx, form); err != nil {
			return err
		}
		fmt.Fprintln(out, "saved")
	case "cancel":
		m.CancelEdit()
	case "rm", "delete":
		if len(args) != 1 {
			return fmt.Errorf("usage: rm ID")
		}
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		if err := m.Delete(ctx, id); err != nil {
			return err
		}
		fmt.Fprintln(out, "removed")
	default:
		return fmt.Errorf("unknown command %q (try help)", cmd)
	}
	return nil
}

func shellForm(args []string) (viewmodel.Form, error) {
	if len(args) < 2 {
		return viewmodel.Form{}, fmt.Errorf("usage: AMOUNT CATEGORY [NOTE]")
	}
	return viewmodel.Form{
		Amount:   args[0],
		Category: args[1],
		Note:     strings.Join(args[2:], " "),
	}, nil
}
