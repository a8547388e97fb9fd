package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

func init() {
	Register(&ListCmd{})
}

// ListCmd implements the list command.
type ListCmd struct {
	openOnly bool
	doneOnly bool
}

// SetFilter sets the open/done filters (for testing).
func (c *ListCmd) SetFilter(openOnly, doneOnly bool) {
	c.openOnly = openOnly
	c.doneOnly = doneOnly
}

func (c *ListCmd) Name() string          { return "list" }
func (c *ListCmd) Aliases() []string     { return []string{"ls"} }
func (c *ListCmd) Synopsis() string      { return "List tasks" }
func (c *ListCmd) Usage() string         { return "todo list [--open | --done]" }
func (c *ListCmd) NeedsRepository() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.openOnly, "open", false, "")
	fs.BoolVar(&c.doneOnly, "done", false, "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc *service.TaskService, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		fmt.Fprintf(errOut, "error: unexpected argument: %s\n", args[0])
		return exitcode.UserError
	}
	if c.openOnly && c.doneOnly {
		fmt.Fprintln(errOut, "error: --open and --done are mutually exclusive")
		return exitcode.UserError
	}

	tasks, err := svc.ListAll(ctx)
	if err != nil {
		return reportError(errOut, err)
	}
	SortTasks(tasks)

	// Numbers always count every task so they stay valid refs under a filter.
	shown := 0
	for i, t := range tasks {
		if (c.openOnly && t.Completed()) || (c.doneOnly && !t.Completed()) {
			continue
		}
		output.FormatTask(out, i+1, t)
		shown++
	}

	if shown == 0 && !cfg.Quiet {
		fmt.Fprintln(out, "no tasks found")
	}
	return exitcode.Success
}
