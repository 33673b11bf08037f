package cli

import (
	"flag"
	"fmt"
	"strings"

	"github.com/niclasedge/fast-teuxdeux/internal/model"
	"github.com/niclasedge/fast-teuxdeux/internal/ui"
)

const catUsage = "cat ls | add <name...> [--color #rrggbb] | edit <id> [--name N] [--color #rrggbb] | rm <id>"

func (r *runner) doCategory(a []string) int {
	if len(a) == 0 {
		return r.usage(catUsage)
	}
	switch a[0] {
	case "ls":
		return r.doCategoryList(a[1:])
	case "add":
		return r.doCategoryAdd(a[1:])
	case "edit":
		return r.doCategoryEdit(a[1:])
	case "rm":
		return r.doCategoryRemove(a[1:])
	}
	return r.usage(catUsage)
}

func (r *runner) doCategoryList(a []string) int {
	if len(a) != 0 {
		return r.usage("cat ls")
	}
	cats, err := r.Backend.Categories(r.ctx)
	if err != nil {
		return r.apiFail("cat ls", err)
	}
	th := ui.Current()
	lines := []string{th.Title.Render("Lists")}
	if len(cats) == 0 {
		lines = append(lines, th.Muted.Render("no lists yet, add one with `teuxdeux cat add <name>`"))
	}
	for _, c := range cats {
		lines = append(lines, fmt.Sprintf("%s %s %s",
			th.Muted.Render(fmt.Sprintf("#%-4d", c.ID)),
			th.CategoryStyle(c.Color).Render("●"),
			ui.OneLine(c.Name)+" "+th.Muted.Render(c.Color),
		))
	}
	ui.Panel(r.Out, lines)
	return 0
}

func (r *runner) doCategoryAdd(a []string) int {
	fs := r.flags("cat add")
	color := fs.String("color", "", "list color `#rrggbb`")
	rest, err := parse(fs, a)
	if err != nil {
		return 2
	}
	name := strings.TrimSpace(strings.Join(rest, " "))
	if name == "" {
		return r.usage("cat add <name...> [--color #rrggbb]")
	}
	id, err := r.Backend.CreateCategory(r.ctx, model.CreateCategoryRequest{Name: name, Color: *color})
	if err != nil {
		return r.apiFail("cat add", err)
	}
	r.ok(fmt.Sprintf("added list #%d", id))
	return 0
}

func (r *runner) doCategoryEdit(a []string) int {
	const usage = "cat edit <id> [--name N] [--color #rrggbb]"
	fs := r.flags("cat edit")
	name := fs.String("name", "", "new name")
	color := fs.String("color", "", "new color `#rrggbb`")
	rest, err := parse(fs, a)
	if err != nil {
		return 2
	}
	if len(rest) != 1 {
		return r.usage(usage)
	}
	id, err := parseID(rest[0])
	if err != nil {
		r.fail("cat edit: " + err.Error())
		return 2
	}

	var req model.UpdateCategoryRequest
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			req.Name = name
		case "color":
			req.Color = color
		}
	})
	if req.Name == nil && req.Color == nil {
		return r.usage(usage)
	}
	if err := r.Backend.UpdateCategory(r.ctx, id, req); err != nil {
		return r.apiFail("cat edit", err)
	}
	r.ok(fmt.Sprintf("updated list #%d", id))
	return 0
}

func (r *runner) doCategoryRemove(a []string) int {
	if len(a) != 1 {
		return r.usage("cat rm <id>")
	}
	id, err := parseID(a[0])
	if err != nil {
		r.fail("cat rm: " + err.Error())
		return 2
	}
	if err := r.Backend.DeleteCategory(r.ctx, id); err != nil {
		return r.apiFail("cat rm", err)
	}
	r.ok(fmt.Sprintf("removed list #%d", id))
	return 0
}
