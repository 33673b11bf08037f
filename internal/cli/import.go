package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/niclasedge/fast-teuxdeux/internal/api"
	"github.com/niclasedge/fast-teuxdeux/internal/calendar"
	"github.com/niclasedge/fast-teuxdeux/internal/events"
	"github.com/niclasedge/fast-teuxdeux/internal/model"
)

const importUsage = "import <file.csv|-> [--tz ZONE] [--dry-run] | import --purge [--weeks N] [--dry-run]"

// doImport files calendar events as timed todos, or with --purge removes
// the timed todos an earlier import created.
func (r *runner) doImport(a []string) int {
	fs := r.flags("import")
	purge := fs.Bool("purge", false, "remove imported todos instead of importing")
	weeks := fs.Int("weeks", 1, "with --purge, how many weeks to clear starting with this one")
	tz := fs.String("tz", "", "time `zone` for times without an offset (default local)")
	dry := fs.Bool("dry-run", false, "report what would change without changing it")
	rest, err := parse(fs, a)
	if err != nil {
		return 2
	}

	if *purge {
		if len(rest) != 0 || *weeks < 1 {
			return r.usage(importUsage)
		}
		return r.purgeImported(*weeks, *dry)
	}
	if len(rest) != 1 {
		return r.usage(importUsage)
	}
	loc := time.Local
	if *tz != "" {
		if loc, err = time.LoadLocation(*tz); err != nil {
			r.fail("import: unknown time zone " + *tz)
			return 2
		}
	}

	evs, rep, err := r.readEvents(rest[0], loc)
	if err != nil {
		r.fail("import: " + err.Error())
		return 1
	}
	existing, err := r.scheduledSignatures(evs)
	if err != nil {
		return r.apiFail("import", err)
	}
	plan := events.PlanImport(evs, existing)

	added, failed := 0, 0
	for _, e := range plan.Create {
		if *dry {
			r.ok(fmt.Sprintf("would add %q for %s", e.Title(), e.Date()))
			continue
		}
		req := model.CreateTodoRequest{Title: e.Title(), ScheduledDate: e.Date()}
		if _, err := r.Backend.CreateTodo(r.ctx, req); err != nil {
			r.fail(fmt.Sprintf("import %q: %s", e.Title(), api.Message(err)))
			r.Logger.Error("import event", "title", e.Title(), "date", e.Date(), "err", err)
			failed++
			continue
		}
		added++
	}
	r.Logger.Info("import", "rows", rep.Rows, "added", added, "duplicates", rep.Duplicates+plan.Duplicates, "invalid", rep.Invalid, "failed", failed)

	if !*dry {
		r.ok(fmt.Sprintf("imported %d events (%d duplicates, %d invalid rows)", added, rep.Duplicates+plan.Duplicates, rep.Invalid))
	}
	if failed > 0 {
		return 1
	}
	return 0
}

func (r *runner) readEvents(path string, loc *time.Location) ([]events.Event, events.Report, error) {
	var in io.Reader = r.In
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, events.Report{}, err
		}
		defer f.Close()
		in = f
	}
	return events.ReadCSV(in, loc)
}

// scheduledSignatures collects the signatures of todos already scheduled in
// every week the events fall in.
func (r *runner) scheduledSignatures(evs []events.Event) (map[string]bool, error) {
	sigs := map[string]bool{}
	collect := func(data *model.DashboardData) {
		for _, d := range data.WeeklyTodos {
			for _, t := range d.Todos {
				sigs[events.Signature(t.Title, d.Date)] = true
			}
		}
	}

	current, err := r.Backend.Dashboard(r.ctx, 0)
	if err != nil {
		return nil, err
	}
	collect(current)
	offsets, err := events.Weeks(evs, current.TodayDate)
	if err != nil {
		return nil, err
	}
	for _, off := range offsets {
		if off.IsCurrent() {
			continue
		}
		data, err := r.Backend.Dashboard(r.ctx, int(off))
		if err != nil {
			return nil, err
		}
		collect(data)
	}
	return sigs, nil
}

// purgeImported deletes timed todos in the next weeks and in the someday
// lists.
func (r *runner) purgeImported(weeks int, dry bool) int {
	var found []model.Todo
	seen := map[int64]bool{}
	keep := func(todos []model.Todo) {
		for _, t := range todos {
			if events.IsTimed(t.Title) && !seen[t.ID] {
				seen[t.ID] = true
				found = append(found, t)
			}
		}
	}
	for i := 0; i < weeks; i++ {
		data, err := r.Backend.Dashboard(r.ctx, int(calendar.Weeks(i)))
		if err != nil {
			return r.apiFail("import --purge", err)
		}
		for _, d := range data.WeeklyTodos {
			keep(d.Todos)
		}
		if i == 0 {
			keep(data.SomedayTodos)
		}
	}

	removed, failed := 0, 0
	for _, t := range found {
		if dry {
			r.ok(fmt.Sprintf("would remove #%d %q", t.ID, t.Title))
			continue
		}
		err := r.Backend.DeleteTodo(r.ctx, t.ID)
		if err != nil && !api.IsNotFound(err) {
			r.fail(fmt.Sprintf("remove #%d: %s", t.ID, api.Message(err)))
			r.Logger.Error("purge imported", "todo", t.ID, "err", err)
			failed++
			continue
		}
		removed++
	}
	if !dry {
		r.ok(fmt.Sprintf("removed %d imported todos", removed))
	}
	if failed > 0 {
		return 1
	}
	return 0
}
