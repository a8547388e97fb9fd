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
	Register(&ToggleCmd{})
}

// ToggleCmd implements the toggle command.
type ToggleCmd struct{}

func (c *ToggleCmd) Name() string          { return "toggle" }
func (c *ToggleCmd) Aliases() []string     { return []string{"done"} }
func (c *ToggleCmd) Synopsis() string      { return "Mark tasks done, or open again" }
func (c *ToggleCmd) Usage() string         { return "todo toggle <ref>..." }
func (c *ToggleCmd) NeedsRepository() bool { return true }

func (c *ToggleCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ToggleCmd) Run(ctx context.Context, cfg *config.Config, svc *service.TaskService, args []string, out, errOut io.Writer) int {
	refs, err := ParseTaskRefs(args)
	if err != nil {
		return reportError(errOut, err)
	}

	// Resolve everything first so numbers refer to one listing.
	tasks, err := ResolveTaskRefs(ctx, svc, refs)
	if err != nil {
		return reportError(errOut, err)
	}

	seen := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		if seen[t.ID()] {
			continue
		}
		seen[t.ID()] = true
		if err := svc.ToggleComplete(ctx, t.ID()); err != nil {
			return reportError(errOut, err)
		}
	}

	printOK(out, cfg.Quiet)
	return exitcode.Success
}
