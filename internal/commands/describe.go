package commands

import (
	"context"
	"flag"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&DescribeCmd{})
}

// DescribeCmd implements the describe command.
// With no text the description is cleared.
type DescribeCmd struct{}

func (c *DescribeCmd) Name() string          { return "describe" }
func (c *DescribeCmd) Aliases() []string     { return nil }
func (c *DescribeCmd) Synopsis() string      { return "Set or clear a task description" }
func (c *DescribeCmd) Usage() string         { return "todo describe <ref> [text...]" }
func (c *DescribeCmd) NeedsRepository() bool { return true }

func (c *DescribeCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DescribeCmd) Run(ctx context.Context, cfg *config.Config, svc *service.TaskService, args []string, out, errOut io.Writer) int {
	ref, rest, err := ParseTaskRef(args)
	if err != nil {
		return reportError(errOut, err)
	}

	t, err := ResolveTaskRef(ctx, svc, ref)
	if err != nil {
		return reportError(errOut, err)
	}
	if err := svc.UpdateDescription(ctx, t.ID(), strings.Join(rest, " ")); err != nil {
		return reportError(errOut, err)
	}

	printOK(out, cfg.Quiet)
	return exitcode.Success
}
