package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&RenameCmd{})
}

// RenameCmd implements the rename command.
type RenameCmd struct{}

func (c *RenameCmd) Name() string          { return "rename" }
func (c *RenameCmd) Aliases() []string     { return nil }
func (c *RenameCmd) Synopsis() string      { return "Change a task title" }
func (c *RenameCmd) Usage() string         { return "todo rename <ref> <title...>" }
func (c *RenameCmd) NeedsRepository() bool { return true }

func (c *RenameCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RenameCmd) Run(ctx context.Context, cfg *config.Config, svc *service.TaskService, args []string, out, errOut io.Writer) int {
	ref, rest, err := ParseTaskRef(args)
	if err != nil {
		return reportError(errOut, err)
	}

	title := strings.Join(rest, " ")
	if strings.TrimSpace(title) == "" {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}

	t, err := ResolveTaskRef(ctx, svc, ref)
	if err != nil {
		return reportError(errOut, err)
	}
	if err := svc.UpdateTitle(ctx, t.ID(), title); err != nil {
		return reportError(errOut, err)
	}

	printOK(out, cfg.Quiet)
	return exitcode.Success
}
