package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/service"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct{}

func (c *RmCmd) Name() string          { return "rm" }
func (c *RmCmd) Aliases() []string     { return []string{"delete"} }
func (c *RmCmd) Synopsis() string      { return "Delete tasks" }
func (c *RmCmd) Usage() string         { return "todo rm <ref>..." }
func (c *RmCmd) NeedsRepository() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, svc *service.TaskService, args []string, out, errOut io.Writer) int {
	refs, err := ParseTaskRefs(args)
	if err != nil {
		return reportError(errOut, err)
	}

	// Resolve before deleting; deletions would shift the numbers.
	tasks, err := ResolveTaskRefs(ctx, svc, refs)
	if err != nil {
		return reportError(errOut, err)
	}

	for _, t := range tasks {
		if err := svc.Delete(ctx, t.ID()); err != nil {
			return reportError(errOut, err)
		}
	}

	printOK(out, cfg.Quiet)
	return exitcode.Success
}
