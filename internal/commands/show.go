package commands

import (
	"context"
	"flag"
	"io"
	"time"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
	"todo/internal/service"
)

func init() {
	Register(&ShowCmd{})
}

// ShowCmd implements the show command.
type ShowCmd struct {
	loc *time.Location
}

// SetLocation sets the display time zone (for testing).
func (c *ShowCmd) SetLocation(loc *time.Location) {
	c.loc = loc
}

func (c *ShowCmd) Name() string          { return "show" }
func (c *ShowCmd) Aliases() []string     { return nil }
func (c *ShowCmd) Synopsis() string      { return "Print all fields of a task" }
func (c *ShowCmd) Usage() string         { return "todo show <ref>" }
func (c *ShowCmd) NeedsRepository() bool { return true }

func (c *ShowCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ShowCmd) Run(ctx context.Context, cfg *config.Config, svc *service.TaskService, args []string, out, errOut io.Writer) int {
	ref, _, err := ParseTaskRef(args)
	if err != nil {
		return reportError(errOut, err)
	}

	resolved, err := ResolveTaskRef(ctx, svc, ref)
	if err != nil {
		return reportError(errOut, err)
	}

	// Re-read by id so the output reflects the stored record.
	t, found, err := svc.Get(ctx, resolved.ID())
	if err != nil {
		return reportError(errOut, err)
	}
	if !found {
		return reportError(errOut, ErrTaskNotFound)
	}

	loc := c.loc
	if loc == nil {
		loc = time.Local
	}
	output.FormatTaskDetail(out, t, loc)
	return exitcode.Success
}
