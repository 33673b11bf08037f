// Package cli implements the one-shot subcommands: print the week, file a
// todo, move it, manage lists, then exit.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/niclasedge/fast-teuxdeux/internal/api"
	"github.com/niclasedge/fast-teuxdeux/internal/auth"
	"github.com/niclasedge/fast-teuxdeux/internal/config"
	"github.com/niclasedge/fast-teuxdeux/internal/model"
	"github.com/niclasedge/fast-teuxdeux/internal/ui"
)

// Backend is the API surface the subcommands use.
type Backend interface {
	Dashboard(ctx context.Context, weekOffset int) (*model.DashboardData, error)
	CreateTodo(ctx context.Context, req model.CreateTodoRequest) (int64, error)
	UpdateTodo(ctx context.Context, id int64, req model.UpdateTodoRequest) error
	DeleteTodo(ctx context.Context, id int64) error
	MigrateTodos(ctx context.Context) (int, error)
	Categories(ctx context.Context) ([]model.Category, error)
	CreateCategory(ctx context.Context, req model.CreateCategoryRequest) (int64, error)
	UpdateCategory(ctx context.Context, id int64, req model.UpdateCategoryRequest) error
	DeleteCategory(ctx context.Context, id int64) error
	Health(ctx context.Context) (api.Health, error)
	BaseURL() string
}

// Options carry the collaborators built in main.
type Options struct {
	Backend Backend
	Auth    *auth.Store
	Config  *config.Config
	Logger  *log.Logger
	In      io.Reader
	Out     io.Writer
	Err     io.Writer
	Now     func() time.Time
	// TUI opens the interactive board for `teuxdeux tui`.
	TUI func(ctx context.Context) error
}

type runner struct {
	ctx context.Context
	Options
}

// Run dispatches subcommands and returns an exit code (0 ok, 1 error, 2 usage).
func Run(ctx context.Context, args []string, opt Options) int {
	if opt.In == nil {
		opt.In = os.Stdin
	}
	if opt.Out == nil {
		opt.Out = os.Stdout
	}
	if opt.Err == nil {
		opt.Err = os.Stderr
	}
	if opt.Now == nil {
		opt.Now = time.Now
	}
	if opt.Logger == nil {
		opt.Logger = log.New(io.Discard)
	}
	r := &runner{ctx: ctx, Options: opt}

	if len(args) == 0 {
		PrintHelp(r.Err)
		return 2
	}
	cmd, a := args[0], args[1:]

	switch cmd {
	case "help", "-h", "--help":
		PrintHelp(r.Out)
		return 0
	case "week", "ls":
		return r.doWeek(a)
	case "someday":
		return r.doSomeday(a)
	case "add":
		return r.doAdd(a)
	case "done":
		return r.doComplete(a, true)
	case "undone":
		return r.doComplete(a, false)
	case "edit":
		return r.doEdit(a)
	case "rm":
		return r.doRemove(a)
	case "move":
		return r.doMove(a)
	case "categorize":
		return r.doCategorize(a)
	case "migrate":
		return r.doMigrate(a)
	case "import":
		return r.doImport(a)
	case "cat", "category":
		return r.doCategory(a)
	case "status":
		return r.doStatus(a)
	case "config":
		return r.doConfig(a)
	case "auth":
		return r.doAuth(a)
	case "tui":
		return r.doTUI(a)
	}

	r.fail("unknown subcommand: " + cmd)
	fmt.Fprintln(r.Err)
	PrintHelp(r.Err)
	return 2
}

func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `teuxdeux - a weekly todo planner

Usage:
  teuxdeux [root flags] <subcommand> [args]

Subcommands:
  week [--offset N]                      Show the week, N weeks from this one
  someday [--category ID]                Show someday lists (0 = uncategorized)
  add <title...> [--date D|--today|--someday] [--category ID]
                                         Add a todo (today unless told otherwise)
  done <id> / undone <id>                Mark a todo complete or not
  edit <id> <title...>                   Retitle a todo
  rm <id>                                Delete a todo
  move <id> <YYYY-MM-DD|today|someday>   Reschedule a todo
  categorize <id> <category-id>          File a todo under a someday list
  migrate                                Move unfinished past todos to today
  cat ls|add|edit|rm                     Manage someday lists
  import <file.csv|-> [--tz ZONE] [--dry-run]
                                         Add calendar events as timed todos
  import --purge [--weeks N] [--dry-run] Remove imported todos
  status                                 Check the backend
  config                                 Show settings and where they came from
  auth login|logout|status|whoami        Bearer token for the backend
  tui                                    Open the interactive board

Root flags:
  --config FILE  --api URL  --theme classic|neon|mono  --no-color
  --log-level L  --log-format text|json|logfmt  --log-file FILE
  --flash SECONDS  --timeout SECONDS  --strict

Examples:
  teuxdeux add Buy milk --date 2026-10-19
  teuxdeux move 12 someday
  teuxdeux week --offset 1
  teuxdeux import calendar.csv --tz Europe/Berlin
`)
}

func (r *runner) ok(msg string)   { ui.OK(r.Out, msg) }
func (r *runner) fail(msg string) { ui.Fail(r.Err, msg) }

// apiFail reports a failed call. Input the client refused to send is a
// usage error; anything the backend answered is a runtime error.
func (r *runner) apiFail(op string, err error) int {
	r.fail(op + ": " + api.Message(err))
	for _, v := range []error{model.ErrEmptyTitle, model.ErrEmptyName, model.ErrNoFields, model.ErrInvalidColor} {
		if errors.Is(err, v) {
			return 2
		}
	}
	r.Logger.Error(op, "err", err)
	return 1
}

func (r *runner) usage(line string) int {
	r.fail("usage: teuxdeux " + line)
	return 2
}

// flags builds a subcommand flag set that reports into the error stream.
func (r *runner) flags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(r.Err)
	return fs
}

// parse accepts flags anywhere among the positional args, so
// `add Buy milk --today` works as well as `add --today Buy milk`. Everything
// after "--" is positional.
func parse(fs *flag.FlagSet, args []string) ([]string, error) {
	var tail []string
	for i, a := range args {
		if a == "--" {
			args, tail = args[:i], args[i+1:]
			break
		}
	}
	var rest []string
	for {
		if err := fs.Parse(args); err != nil {
			return nil, err
		}
		args = fs.Args()
		if len(args) == 0 {
			return append(rest, tail...), nil
		}
		rest = append(rest, args[0])
		args = args[1:]
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("not an id: %s", s)
	}
	return id, nil
}
