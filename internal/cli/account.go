package cli

import (
	"bufio"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/niclasedge/fast-teuxdeux/internal/auth"
	"github.com/niclasedge/fast-teuxdeux/internal/ui"
)

func (r *runner) doStatus(a []string) int {
	if len(a) != 0 {
		return r.usage("status")
	}
	th := ui.Current()
	h, err := r.Backend.Health(r.ctx)
	if err != nil {
		r.fail(fmt.Sprintf("backend %s unreachable: %s", r.Backend.BaseURL(), err))
		r.Logger.Error("health", "err", err)
		return 1
	}
	ui.Panel(r.Out, []string{
		th.Title.Render("Backend"),
		"url:    " + r.Backend.BaseURL(),
		"status: " + th.Success.Render(h.Status),
		"time:   " + h.Timestamp.Format(time.RFC3339),
	})
	return 0
}

// doConfig shows each resolved setting and the layer it came from.
func (r *runner) doConfig(a []string) int {
	if len(a) != 0 || r.Config == nil {
		return r.usage("config")
	}
	th := ui.Current()
	file := r.Config.File
	if file == "" {
		file = "(none)"
	}
	lines := []string{th.Title.Render("Config"), "file: " + file}
	for _, s := range r.Config.Settings() {
		lines = append(lines, fmt.Sprintf("%-16s %-28s %s", s.Key, s.Value, th.Muted.Render(string(s.Source))))
	}
	ui.Panel(r.Out, lines)
	return 0
}

func (r *runner) doAuth(a []string) int {
	const usage = "auth <login [token]|logout|status|whoami>"
	if len(a) == 0 || r.Auth == nil {
		return r.usage(usage)
	}
	switch a[0] {
	case "login":
		return r.doAuthLogin(a[1:])
	case "logout":
		return r.doAuthLogout()
	case "status":
		return r.doAuthStatus()
	case "whoami":
		return r.doAuthWhoAmI()
	}
	return r.usage(usage)
}

// doAuthLogin saves the token given as an argument, or read from the input.
func (r *runner) doAuthLogin(a []string) int {
	var token string
	switch len(a) {
	case 0:
		fmt.Fprint(r.Out, "Paste your token: ")
		line, err := bufio.NewReader(r.In).ReadString('\n')
		if err != nil && line == "" {
			r.fail("read token: " + err.Error())
			return 1
		}
		token = line
	case 1:
		token = a[0]
	default:
		return r.usage("auth login [token]")
	}

	ti, err := r.Auth.Set(token)
	if err != nil {
		r.fail("save token: " + err.Error())
		return 1
	}
	if ti.ExpiresAt != nil {
		r.ok("logged in until " + ti.ExpiresAt.UTC().Format(time.RFC3339))
	} else {
		r.ok("logged in")
	}
	return 0
}

func (r *runner) doAuthLogout() int {
	ti, _ := r.Auth.Get()
	if ti != nil && ti.Source == "env" {
		r.ok("token is provided by " + auth.EnvToken + " (nothing to delete)")
		return 0
	}
	if err := r.Auth.Delete(); err != nil {
		r.fail("logout: " + err.Error())
		return 1
	}
	r.ok("logged out")
	return 0
}

func (r *runner) doAuthStatus() int {
	th := ui.Current()
	ti, err := r.Auth.Get()
	if errors.Is(err, auth.ErrNoToken) {
		fmt.Fprintln(r.Out, th.Muted.Render("not logged in"))
		fmt.Fprintln(r.Out, "Run: teuxdeux auth login")
		return 0
	}
	if err != nil {
		r.fail("auth: " + err.Error())
		return 1
	}
	fmt.Fprintf(r.Out, "source: %s\n", ti.Source)
	switch {
	case ti.ExpiresAt == nil:
		fmt.Fprintln(r.Out, "expires: (unknown)")
	case ti.Expired(r.Now()):
		fmt.Fprintf(r.Out, "expires: %s %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339), th.Error.Render("(expired)"))
	default:
		fmt.Fprintf(r.Out, "expires: %s\n", ti.ExpiresAt.UTC().Format(time.RFC3339))
	}
	fmt.Fprintln(r.Out, "env override: "+auth.EnvToken)
	return 0
}

// whoami decodes a JWT locally, without verifying it; opaque tokens only
// report where they came from.
func (r *runner) doAuthWhoAmI() int {
	ti, err := r.Auth.Get()
	if err != nil {
		r.fail("not logged in. Run: teuxdeux auth login")
		return 2
	}
	claims, err := auth.Claims(ti.Token)
	if err != nil {
		fmt.Fprintln(r.Out, "Opaque token (cannot introspect locally).")
		fmt.Fprintln(r.Out, "source:", ti.Source)
		return 0
	}

	keys := make([]string, 0, len(claims))
	for k := range claims {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	lines := []string{ui.Current().Title.Render("Token claims")}
	for _, k := range keys {
		v := claims[k]
		if f, ok := v.(float64); ok {
			v = int64(f) // numeric dates come back as float64
		}
		lines = append(lines, fmt.Sprintf("%-6s %v", k+":", v))
	}
	if sub, err := claims.GetSubject(); err == nil && sub != "" {
		lines = append(lines, "", "signed in as "+strings.TrimSpace(sub))
	}
	ui.Panel(r.Out, lines)
	return 0
}

func (r *runner) doTUI(a []string) int {
	if len(a) != 0 {
		return r.usage("tui")
	}
	if r.TUI == nil {
		r.fail("tui: not available")
		return 1
	}
	if err := r.TUI(r.ctx); err != nil {
		r.fail("tui: " + err.Error())
		r.Logger.Error("tui", "err", err)
		return 1
	}
	return 0
}
