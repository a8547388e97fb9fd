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
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string          { return "help" }
func (c *HelpCmd) Aliases() []string     { return nil }
func (c *HelpCmd) Synopsis() string      { return "Print usage" }
func (c *HelpCmd) Usage() string         { return "todo help" }
func (c *HelpCmd) NeedsRepository() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc *service.TaskService, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, "Usage:\n")
	fmt.Fprintf(out, "  %-44s %s\n", "todo", "List all tasks")
	for _, cmd := range DefaultRegistry.All() {
		usage := cmd.Usage()
		if aliases := cmd.Aliases(); len(aliases) > 0 {
			usage += " (" + strings.Join(aliases, ", ") + ")"
		}
		fmt.Fprintf(out, "  %-44s %s\n", usage, cmd.Synopsis())
	}
	fmt.Fprint(out, helpFooter)
	return exitcode.Success
}

const helpFooter = `
A <ref> is a number from "todo list" or a task id (a unique prefix is enough).

Common flags:
  --config <dir>    Override config directory
  --file <path>     Override the task file (csv and sqlite backends)
  --backend <name>  Task store: csv (default), sqlite or google
  --quiet           Suppress informational output
  --debug           Print debug logs to stderr

Environment:
  TODO_BACKEND, TODO_FILE, TODO_GOOGLE_LIST override config.yaml.
`
