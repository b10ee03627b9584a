package handlers

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/elysium/internal/chronicle"
	"github.com/cory-johannsen/elysium/internal/frontend/telnet"
	"github.com/cory-johannsen/elysium/internal/game/catalog"
	"github.com/cory-johannsen/elysium/internal/game/character"
	"github.com/cory-johannsen/elysium/internal/game/command"
	"github.com/cory-johannsen/elysium/internal/gmserver"
	"github.com/cory-johannsen/elysium/internal/storage/postgres"
)

// builderVerb maps a builder command onto a catalog table and edit kind.
type builderVerb struct {
	table string
	kind  chronicle.EditKind
	rated bool
}

var builderVerbs = map[string]builderVerb{
	"attr":       {"attribute", chronicle.EditAttribute, true},
	"attribute":  {"attribute", chronicle.EditAttribute, true},
	"skill":      {"skill", chronicle.EditSkill, true},
	"disc":       {"discipline", chronicle.EditDiscipline, true},
	"discipline": {"discipline", chronicle.EditDiscipline, true},
	"bg":         {"background", chronicle.EditBackground, true},
	"background": {"background", chronicle.EditBackground, true},
	"merit":      {"merit", chronicle.EditMerit, false},
	"flaw":       {"flaw", chronicle.EditFlaw, false},
	"clan":       {"clan", chronicle.EditClan, false},
	"predator":   {"predator", chronicle.EditPredatorType, false},
	"sect":       {"sect", chronicle.EditSect, false},
}

// ParseEdit turns builder words such as ["skill", "Animal", "Ken", "2"] into
// an Edit, resolving names against cat.
func ParseEdit(cat *catalog.Catalog, verb string, args []string) (chronicle.Edit, error) {
	v, ok := builderVerbs[verb]
	if !ok {
		return chronicle.Edit{}, fmt.Errorf("unknown builder command %q", verb)
	}
	edit := chronicle.Edit{Kind: v.kind}
	if v.rated {
		if len(args) < 2 {
			return edit, fmt.Errorf("usage: %s <name> <rating>", verb)
		}
		rating, err := strconv.Atoi(args[len(args)-1])
		if err != nil {
			return edit, fmt.Errorf("rating must be a number, got %q", args[len(args)-1])
		}
		edit.Rating = rating
		args = args[:len(args)-1]
	}
	name := strings.Join(args, " ")
	if name == "" {
		return edit, fmt.Errorf("usage: %s <name>", verb)
	}
	if !v.rated && v.kind != chronicle.EditMerit && v.kind != chronicle.EditFlaw && strings.EqualFold(name, "none") {
		return edit, nil
	}
	id, ok := cat.ByName(v.table, name)
	if !ok {
		return edit, fmt.Errorf("no %s named %q", v.table, name)
	}
	edit.ID = id
	return edit, nil
}

// creationFlow runs the builder over the account's draft, resuming one that
// is already open. Leaving with 'back' keeps the draft for later.
func (h *Console) creationFlow(ctx context.Context, conn *telnet.Conn, acct postgres.Account) error {
	cat, err := h.chronicle.ListCatalog(ctx)
	if err != nil {
		h.reportError(conn, "loading catalog", err)
		return nil
	}
	view, err := h.chronicle.StartDraft(ctx, acct.ID, true)
	if err != nil {
		h.reportError(conn, "opening draft", err)
		return nil
	}

	_ = conn.WriteLine(telnet.Colorize(telnet.BrightCyan, "=== Character Builder ==="))
	_ = conn.WriteLines(RenderHelp("Builder commands:", builderCommands)...)
	_ = conn.Write([]byte(RenderDraft(view, cat)))

	for {
		line, err := conn.Prompt(telnet.Colorize(telnet.BrightMagenta, "build> "))
		if err != nil {
			return fmt.Errorf("reading builder input: %w", err)
		}
		if line == "" {
			continue
		}
		in := command.Parse(line)
		args := in.Args
		var handler string
		if cmd, ok := builderCommands.Resolve(in.Command); ok {
			handler = cmd.Handler
		}

		switch handler {
		case command.HandlerBack:
			_ = conn.WriteLine("Your draft is saved. Type 'create' to return to it.")
			return nil
		case command.HandlerHelp:
			_ = conn.WriteLines(RenderHelp("Builder commands:", builderCommands)...)
		case command.HandlerSummary:
			if view, err = h.chronicle.DraftSummary(ctx, view.Draft.ID); err != nil {
				h.reportError(conn, "loading draft", err)
				return nil
			}
			_ = conn.Write([]byte(RenderDraft(view, cat)))
		case command.HandlerCheck:
			res, err := h.chronicle.ValidateDraft(ctx, view.Draft.ID)
			if err != nil {
				h.reportError(conn, "validating draft", err)
				continue
			}
			_ = conn.Write([]byte(RenderResult(res)))
		case command.HandlerList:
			if len(args) == 0 {
				_ = conn.WriteLine(telnet.Colorize(telnet.Red, "Usage: list <table>"))
				continue
			}
			_ = conn.Write([]byte(RenderCatalogTable(cat, args[0])))
		case command.HandlerRestart:
			if view, err = h.chronicle.StartDraft(ctx, acct.ID, false); err != nil {
				h.reportError(conn, "restarting draft", err)
				return nil
			}
			_ = conn.Write([]byte(RenderDraft(view, cat)))
		case command.HandlerDone:
			created, err := h.finishDraft(ctx, conn, acct, view.Draft.ID, cat)
			if err != nil {
				return err
			}
			if created != nil {
				_ = conn.WriteLine(telnet.Colorf(telnet.BrightGreen, "%s rises. (#%d)", created.Name, created.ID))
				return nil
			}
		default:
			edit, err := ParseEdit(cat, in.Command, args)
			if err != nil {
				_ = conn.WriteLine(telnet.Colorize(telnet.Red, err.Error()))
				continue
			}
			next, err := h.chronicle.EditDraft(ctx, view.Draft.ID, edit)
			if err != nil {
				h.reportError(conn, "editing draft", err)
				continue
			}
			view = next
			_ = conn.Write([]byte(RenderSummary(view.Summary)))
		}
	}
}

// finishDraft collects the profile and submits the draft, asking the player
// to confirm any warnings. Returns a nil character when the player backs out
// or the build is rejected.
func (h *Console) finishDraft(ctx context.Context, conn *telnet.Conn, acct postgres.Account, draftID string, cat *catalog.Catalog) (*character.Character, error) {
	p, ok, err := promptProfile(conn, cat)
	if err != nil || !ok {
		return nil, err
	}

	c, err := h.chronicle.SubmitDraft(ctx, draftID, p, false)
	if warnings, pending := gmserver.PendingWarnings(err); pending {
		_ = conn.WriteLine(telnet.Colorize(telnet.Yellow, "Before you commit:"))
		for _, w := range warnings {
			_ = conn.WriteLine(telnet.Colorize(telnet.Yellow, "  ! "+w))
		}
		answer, rerr := conn.Prompt(telnet.Colorize(telnet.Yellow, "Create anyway? [y/N] "))
		if rerr != nil {
			return nil, fmt.Errorf("reading confirmation: %w", rerr)
		}
		if !isYes(answer) {
			return nil, nil
		}
		c, err = h.chronicle.SubmitDraft(ctx, draftID, p, true)
	}
	if problems, rejected := gmserver.Rejection(err); rejected {
		_ = conn.WriteLine(telnet.Colorize(telnet.Red, "The build is over budget:"))
		for _, msg := range problems {
			_ = conn.WriteLine(telnet.Colorize(telnet.Red, "  x "+msg))
		}
		return nil, nil
	}
	if err != nil {
		h.reportError(conn, "submitting draft", err)
		return nil, nil
	}
	h.logger.Info("character created",
		zap.Int64("character_id", c.ID),
		zap.String("username", acct.Username),
	)
	return c, nil
}

// promptProfile asks for the narrative fields. ok is false when the player
// types 'cancel'.
func promptProfile(conn *telnet.Conn, cat *catalog.Catalog) (p character.Profile, ok bool, err error) {
	ask := func(label string) (string, bool, error) {
		s, err := conn.Prompt(telnet.Colorize(telnet.BrightWhite, label))
		if err != nil {
			return "", false, fmt.Errorf("reading %s: %w", strings.TrimSpace(strings.TrimSuffix(label, ": ")), err)
		}
		return s, !strings.EqualFold(s, "cancel"), nil
	}

	for p.Name == "" {
		name, ok, err := ask("Name: ")
		if err != nil || !ok {
			return p, false, err
		}
		p.Name = name
	}
	fields := []struct {
		label string
		set   func(string) error
	}{
		{"Concept (optional): ", func(s string) error { p.Concept = s; return nil }},
		{"Born (YYYY or YYYY-MM-DD, optional): ", func(s string) error { return setDate(&p.DateOfBirth, s) }},
		{"Place of birth (optional): ", func(s string) error { p.PlaceOfBirth = s; return nil }},
		{"Embraced (YYYY or YYYY-MM-DD, optional): ", func(s string) error { return setDate(&p.EmbraceDate, s) }},
		{"Domain (optional): ", func(s string) error {
			id, found := cat.ByName("location", s)
			if !found {
				return fmt.Errorf("no location named %q", s)
			}
			p.LocationID = id
			return nil
		}},
	}
	for _, f := range fields {
		for {
			s, ok, err := ask(f.label)
			if err != nil || !ok {
				return p, false, err
			}
			if s == "" {
				break
			}
			if err := f.set(s); err != nil {
				_ = conn.WriteLine(telnet.Colorize(telnet.Red, err.Error()))
				continue
			}
			break
		}
	}
	return p, true, nil
}

// ParseDate accepts a bare year or an ISO date.
func ParseDate(s string) (time.Time, error) {
	if len(s) == 4 {
		if y, err := strconv.Atoi(s); err == nil {
			return time.Date(y, time.January, 1, 0, 0, 0, 0, time.UTC), nil
		}
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("expected YYYY or YYYY-MM-DD, got %q", s)
	}
	return t, nil
}

func setDate(dst **time.Time, s string) error {
	t, err := ParseDate(s)
	if err != nil {
		return err
	}
	*dst = &t
	return nil
}
