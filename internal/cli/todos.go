package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/niclasedge/fast-teuxdeux/internal/calendar"
	"github.com/niclasedge/fast-teuxdeux/internal/drag"
	"github.com/niclasedge/fast-teuxdeux/internal/model"
	"github.com/niclasedge/fast-teuxdeux/internal/ui"
)

func (r *runner) doWeek(a []string) int {
	fs := r.flags("week")
	weeks := fs.Int("offset", 0, "weeks from this one (negative for past weeks)")
	rest, err := parse(fs, a)
	if err != nil {
		return 2
	}
	if len(rest) > 0 {
		return r.usage("week [--offset N]")
	}

	data, err := r.Backend.Dashboard(r.ctx, int(calendar.Weeks(*weeks)))
	if err != nil {
		return r.apiFail("load week", err)
	}
	ui.Panel(r.Out, weekLines(data))
	return 0
}

func weekLines(data *model.DashboardData) []string {
	th := ui.Current()
	first := data.WeekStartDate
	if len(data.WeeklyTodos) > 0 {
		first = data.WeeklyTodos[0].Date
	}
	t, _ := calendar.ParseDate(first)
	done, pending := data.Stats()

	lines := []string{
		fmt.Sprintf("%s  %s   %s %d  %s %d",
			th.Title.Render(calendar.MonthLabel(t)),
			th.Accent.Render(calendar.WeekLabel(t)),
			th.Success.Render(th.SymDone), done,
			th.Pending.Render(th.SymPending), pending,
		),
		th.Muted.Render(ui.ProgressBar(done, done+pending, 28)),
	}
	for _, day := range data.WeeklyTodos {
		label := fmt.Sprintf("%s %d", calendar.ShortWeekday(day.Date), calendar.DayNumber(day.Date))
		if data.IsToday(day.Date) {
			label = th.Today.Render(label + "  today")
		} else {
			label = th.Title.Render(label)
		}
		lines = append(lines, "", label)
		if len(day.Todos) == 0 {
			lines = append(lines, th.Muted.Render("  nothing planned"))
		}
		for _, t := range day.Todos {
			lines = append(lines, "  "+todoLine(data, t, true))
		}
	}
	return lines
}

// todoLine renders "#id ☐ title [List]". The list tag is only shown where
// the todo is not already grouped by list.
func todoLine(data *model.DashboardData, t model.Todo, tag bool) string {
	th := ui.Current()
	title := ui.OneLine(t.Title)
	if t.Completed {
		title = th.Done.Render(title)
	}
	line := fmt.Sprintf("%s %s %s", th.Muted.Render(fmt.Sprintf("#%-4d", t.ID)), th.Checkbox(t.Completed), title)
	if !tag || !t.CategoryID.Valid {
		return line
	}
	if c, ok := data.Category(t.CategoryID.Int64); ok {
		line += " " + th.CategoryStyle(c.Color).Render("["+ui.OneLine(c.Name)+"]")
	}
	return line
}

func (r *runner) doSomeday(a []string) int {
	fs := r.flags("someday")
	only := fs.Int64("category", -1, "show only this list (0 = uncategorized)")
	rest, err := parse(fs, a)
	if err != nil {
		return 2
	}
	if len(rest) > 0 {
		return r.usage("someday [--category ID]")
	}

	data, err := r.Backend.Dashboard(r.ctx, 0)
	if err != nil {
		return r.apiFail("load someday", err)
	}
	if *only > 0 {
		if _, ok := data.Category(*only); !ok {
			r.fail(fmt.Sprintf("no list #%d", *only))
			return 1
		}
	}

	th := ui.Current()
	buckets := data.SomedayByCategory()
	lines := []string{th.Title.Render("Someday")}
	section := func(heading string, todos []model.Todo) {
		lines = append(lines, "", heading)
		if len(todos) == 0 {
			lines = append(lines, th.Muted.Render("  empty"))
		}
		for _, t := range todos {
			lines = append(lines, "  "+todoLine(data, t, false))
		}
	}
	for _, c := range data.SortedCategories() {
		if *only >= 0 && c.ID != *only {
			continue
		}
		section(th.CategoryStyle(c.Color).Render(ui.OneLine(c.Name))+th.Muted.Render(fmt.Sprintf(" #%d", c.ID)), buckets[c.ID])
	}
	if *only == model.Uncategorized || (*only < 0 && len(buckets[model.Uncategorized]) > 0) {
		section(th.Muted.Render("Uncategorized"), buckets[model.Uncategorized])
	}
	ui.Panel(r.Out, lines)
	return 0
}

func (r *runner) doAdd(a []string) int {
	const usage = "add <title...> [--date YYYY-MM-DD|--today|--someday] [--category ID]"
	fs := r.flags("add")
	date := fs.String("date", "", "schedule on `YYYY-MM-DD`")
	today := fs.Bool("today", false, "schedule for today")
	someday := fs.Bool("someday", false, "leave unscheduled")
	cat := fs.Int64("category", 0, "someday list `id`")
	rest, err := parse(fs, a)
	if err != nil {
		return 2
	}
	title := strings.TrimSpace(strings.Join(rest, " "))
	if title == "" {
		return r.usage(usage)
	}
	picked := 0
	for _, set := range []bool{*date != "", *today, *someday} {
		if set {
			picked++
		}
	}
	if picked > 1 {
		r.fail("add: pick one of --date, --today or --someday")
		return 2
	}

	req := model.CreateTodoRequest{Title: title}
	switch {
	case *date != "":
		if _, err := calendar.ParseDate(*date); err != nil {
			r.fail("add: " + err.Error())
			return 2
		}
		req.ScheduledDate = *date
	case *someday:
	case *cat > 0 && !*today:
		// a list without a date files the todo for someday
	default:
		req.ScheduledDate = calendar.Today(r.Now())
	}
	if *cat > 0 {
		id := *cat
		req.CategoryID = &id
	}

	id, err := r.Backend.CreateTodo(r.ctx, req)
	if err != nil {
		return r.apiFail("add", err)
	}
	where := req.ScheduledDate
	if where == "" {
		where = "someday"
	}
	r.ok(fmt.Sprintf("added #%d for %s", id, where))
	return 0
}

func (r *runner) doComplete(a []string, done bool) int {
	verb := "done"
	if !done {
		verb = "undone"
	}
	if len(a) != 1 {
		return r.usage(verb + " <id>")
	}
	id, err := parseID(a[0])
	if err != nil {
		r.fail(verb + ": " + err.Error())
		return 2
	}
	if err := r.Backend.UpdateTodo(r.ctx, id, model.UpdateTodoRequest{}.SetCompleted(done)); err != nil {
		return r.apiFail(verb, err)
	}
	if done {
		r.ok(fmt.Sprintf("completed #%d", id))
	} else {
		r.ok(fmt.Sprintf("reopened #%d", id))
	}
	return 0
}

func (r *runner) doEdit(a []string) int {
	if len(a) < 2 {
		return r.usage("edit <id> <title...>")
	}
	id, err := parseID(a[0])
	if err != nil {
		r.fail("edit: " + err.Error())
		return 2
	}
	title := strings.Join(a[1:], " ")
	if err := r.Backend.UpdateTodo(r.ctx, id, model.UpdateTodoRequest{}.SetTitle(title)); err != nil {
		return r.apiFail("edit", err)
	}
	r.ok(fmt.Sprintf("renamed #%d", id))
	return 0
}

func (r *runner) doRemove(a []string) int {
	if len(a) != 1 {
		return r.usage("rm <id>")
	}
	id, err := parseID(a[0])
	if err != nil {
		r.fail("rm: " + err.Error())
		return 2
	}
	if err := r.Backend.DeleteTodo(r.ctx, id); err != nil {
		return r.apiFail("rm", err)
	}
	r.ok(fmt.Sprintf("removed #%d", id))
	return 0
}

func (r *runner) doMove(a []string) int {
	if len(a) != 2 {
		return r.usage("move <id> <YYYY-MM-DD|today|someday>")
	}
	id, err := parseID(a[0])
	if err != nil {
		r.fail("move: " + err.Error())
		return 2
	}
	var target drag.Target
	switch a[1] {
	case "someday":
		target = drag.Someday()
	case "today":
		target = drag.Day(calendar.Today(r.Now()))
	default:
		if _, err := calendar.ParseDate(a[1]); err != nil {
			r.fail("move: " + err.Error())
			return 2
		}
		target = drag.Day(a[1])
	}
	return r.drop("move", id, target)
}

func (r *runner) doCategorize(a []string) int {
	if len(a) != 2 {
		return r.usage("categorize <id> <category-id>")
	}
	id, err := parseID(a[0])
	if err != nil {
		r.fail("categorize: " + err.Error())
		return 2
	}
	cat, err := strconv.ParseInt(strings.TrimPrefix(a[1], "#"), 10, 64)
	if err != nil || cat < 0 {
		r.fail("categorize: not a list id: " + a[1])
		return 2
	}
	return r.drop("categorize", id, drag.Category(cat))
}

// drop issues the same single update a drag onto target would.
func (r *runner) drop(op string, id int64, target drag.Target) int {
	mut, ok := drag.MutationFor(id, target)
	if !ok {
		r.fail(op + ": invalid target " + target.String())
		return 2
	}
	if err := r.Backend.UpdateTodo(r.ctx, mut.TodoID, mut.Request); err != nil {
		return r.apiFail(op, err)
	}
	r.ok(fmt.Sprintf("moved #%d to %s", id, target))
	return 0
}

func (r *runner) doMigrate(a []string) int {
	if len(a) != 0 {
		return r.usage("migrate")
	}
	n, err := r.Backend.MigrateTodos(r.ctx)
	if err != nil {
		return r.apiFail("migrate", err)
	}
	r.ok(fmt.Sprintf("moved %d unfinished todos to today", n))
	return 0
}
