package handlers

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cory-johannsen/elysium/internal/chronicle"
	"github.com/cory-johannsen/elysium/internal/frontend/telnet"
	"github.com/cory-johannsen/elysium/internal/game/catalog"
	"github.com/cory-johannsen/elysium/internal/game/character"
	"github.com/cory-johannsen/elysium/internal/game/command"
	"github.com/cory-johannsen/elysium/internal/game/creation"
	"github.com/cory-johannsen/elysium/internal/game/dice"
)

const nameColumn = 18

// RenderHelp lists r's commands in registration order under title.
func RenderHelp(title string, r *command.Registry) []string {
	cmds := r.Commands()
	width := 0
	for _, c := range cmds {
		width = max(width, len(c.Usage))
	}
	lines := make([]string, 0, len(cmds)+1)
	lines = append(lines, telnet.Colorize(telnet.BrightWhite, title))
	for _, c := range cmds {
		lines = append(lines, "  "+telnet.Colorf(telnet.Green, "%-*s", width, c.Usage)+"  "+c.Help)
	}
	return lines
}

// RenderCharacterLine formats one roster entry.
func RenderCharacterLine(c *character.Character) string {
	line := fmt.Sprintf("  %s %s",
		telnet.Colorf(telnet.Green, "#%-4d", c.ID),
		telnet.Colorize(telnet.BrightWhite, c.Name))
	if c.Concept != "" {
		line += telnet.Colorf(telnet.Dim, " (%s)", c.Concept)
	}
	return line
}

// RenderRoll formats a dice roll, highlighting criticals and the outcome.
func RenderRoll(r dice.PoolResult) string {
	faces := make([]string, len(r.Dice))
	for i, f := range r.Dice {
		switch {
		case f == 10:
			faces[i] = telnet.Colorf(telnet.BrightYellow, "%d", f)
		case f >= 6:
			faces[i] = telnet.Colorf(telnet.Green, "%d", f)
		default:
			faces[i] = telnet.Colorf(telnet.Dim, "%d", f)
		}
	}
	outcome := telnet.Colorize(telnet.BrightRed, "failure")
	if r.Succeeded {
		outcome = telnet.Colorize(telnet.BrightGreen, "success")
	}
	return fmt.Sprintf("%dd10 vs %d [%s] = %d %s (%s)",
		r.Pool, r.Difficulty, strings.Join(faces, " "), r.Successes, plural(r.Successes, "success", "successes"), outcome)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func poolLine(name string, p creation.Pool) string {
	color := telnet.Green
	switch {
	case p.Remaining < 0:
		color = telnet.BrightRed
	case p.Remaining > 0:
		color = telnet.Yellow
	}
	return fmt.Sprintf("  %s %s", telnet.PadRight(name, 12),
		telnet.Colorf(color, "%d/%d used, %d left", p.Used, p.Available, p.Remaining))
}

// RenderSummary formats the live pool usage of a draft.
func RenderSummary(s creation.Summary) string {
	lines := []string{
		telnet.Colorize(telnet.BrightWhite, "Points:"),
		poolLine("Attributes", s.Attributes),
		poolLine("Skills", s.Skills),
		poolLine("Merits", s.Merits.Pool),
		poolLine("Backgrounds", s.Backgrounds),
		fmt.Sprintf("  %s %d/%d gained", telnet.PadRight("Flaws", 12), s.Flaws.PointsGained, s.Flaws.MaxGain),
	}
	if s.Merits.FromFlaws > 0 {
		lines[3] += telnet.Colorf(telnet.Dim, " (%d from flaws)", s.Merits.FromFlaws)
	}
	return strings.Join(lines, "\r\n") + "\r\n"
}

// RenderResult formats a validation result.
func RenderResult(r creation.Result) string {
	var b strings.Builder
	if r.Valid && len(r.Warnings) == 0 {
		b.WriteString(telnet.Colorize(telnet.BrightGreen, "The build is complete.") + "\r\n")
	}
	for _, msg := range r.ErrorMessages() {
		b.WriteString(telnet.Colorize(telnet.Red, "  x "+msg) + "\r\n")
	}
	for _, msg := range r.WarningMessages() {
		b.WriteString(telnet.Colorize(telnet.Yellow, "  ! "+msg) + "\r\n")
	}
	return b.String()
}

func ratingLine(name string, rating, limit int) string {
	return "  " + telnet.PadRight(name, nameColumn) + telnet.Colorize(telnet.Red, telnet.Dots(rating, limit))
}

// RenderDraft formats the choices made so far and the pool usage.
func RenderDraft(v chronicle.DraftView, cat *catalog.Catalog) string {
	b := v.Draft.Build
	var out []string

	clan, pred, sect := b.Modifiers(cat)
	out = append(out, fmt.Sprintf("  Clan: %s   Predator: %s   Sect: %s",
		chosen(clan != nil, func() string { return clan.Name }),
		chosen(pred != nil, func() string { return pred.Name }),
		chosen(sect != nil, func() string { return sect.Name }),
	))

	for _, category := range []catalog.Category{catalog.Physical, catalog.Social, catalog.Mental} {
		for _, a := range cat.AttributesIn(category) {
			out = append(out, ratingLine(a.Name, b.Attribute(a.ID), creation.MaxRating))
		}
	}
	for _, s := range cat.Skills {
		if r := b.Skill(s.ID); r > 0 {
			out = append(out, ratingLine(s.Name, r, creation.MaxRating))
		}
	}
	for _, d := range cat.Disciplines {
		if r := b.Disciplines[d.ID]; r > 0 {
			out = append(out, ratingLine(d.Name, r, creation.MaxRating))
		}
	}
	for _, bg := range cat.Backgrounds {
		if r := b.Backgrounds[bg.ID]; r > 0 {
			out = append(out, ratingLine(bg.Name, r, bg.Max()))
		}
	}
	for _, m := range cat.Merits {
		if b.HasMerit(m.ID) {
			out = append(out, telnet.Colorf(telnet.Green, "  + %s (%d)", m.Name, m.Cost))
		}
	}
	for _, f := range cat.Flaws {
		if b.HasFlaw(f.ID) {
			out = append(out, telnet.Colorf(telnet.Yellow, "  - %s (%d)", f.Name, f.Magnitude()))
		}
	}
	return strings.Join(out, "\r\n") + "\r\n" + RenderSummary(v.Summary)
}

func chosen(ok bool, name func() string) string {
	if !ok {
		return telnet.Colorize(telnet.Dim, "none")
	}
	return telnet.Colorize(telnet.BrightWhite, name())
}

func sortedRated(rs []chronicle.Rated) []chronicle.Rated {
	out := slices.Clone(rs)
	slices.SortFunc(out, func(a, b chronicle.Rated) int { return strings.Compare(a.Name, b.Name) })
	return out
}

// RenderSheet formats a full character sheet.
func RenderSheet(s chronicle.Sheet) string {
	c := s.Character
	var out []string
	out = append(out, telnet.Colorf(telnet.BrightRed+telnet.Bold, "%s", c.Name)+telnet.Colorf(telnet.Dim, "  #%d", c.ID))

	header := []string{}
	for _, f := range []struct{ label, value string }{
		{"Clan", s.Clan}, {"Predator", s.PredatorType}, {"Sect", s.Sect}, {"Domain", s.Location},
		{"Concept", c.Concept}, {"Ambition", c.Ambition}, {"Desire", c.Desire}, {"Sire", c.Sire},
	} {
		if f.value != "" {
			header = append(header, fmt.Sprintf("  %s %s", telnet.PadRight(f.label+":", 10), f.value))
		}
	}
	out = append(out, header...)
	out = append(out, fmt.Sprintf("  %s %d", telnet.PadRight("Generation:", 10), c.Generation))
	if c.DateOfBirth != nil {
		born := fmt.Sprintf("  %s %d (%s)", telnet.PadRight("Born:", 10), c.DateOfBirth.Year(), s.Era)
		if c.PlaceOfBirth != "" {
			born += " in " + c.PlaceOfBirth
		}
		if s.TrueAge > 0 {
			born += fmt.Sprintf(", %d years ago", s.TrueAge)
		}
		out = append(out, born)
	}
	if c.EmbraceDate != nil {
		out = append(out, fmt.Sprintf("  %s %d, %d years undead", telnet.PadRight("Embraced:", 10), c.EmbraceDate.Year(), s.YearsSinceEmbrace))
	}

	section := func(title string, rs []chronicle.Rated) {
		if len(rs) == 0 {
			return
		}
		out = append(out, telnet.Colorize(telnet.BrightWhite, title))
		for _, r := range sortedRated(rs) {
			line := ratingLine(r.Name, r.Rating, creation.MaxRating)
			if r.Details != "" {
				line += telnet.Colorf(telnet.Dim, "  %s", r.Details)
			}
			out = append(out, line)
		}
	}
	section("Attributes", s.Attributes)
	section("Skills", s.Skills)
	section("Disciplines", s.Disciplines)
	section("Backgrounds", s.Backgrounds)

	if len(s.Merits) > 0 || len(s.Flaws) > 0 {
		out = append(out, telnet.Colorize(telnet.BrightWhite, "Merits & Flaws"))
		for _, m := range s.Merits {
			out = append(out, telnet.Colorf(telnet.Green, "  + %s (%d)", m.Name, m.Rating))
		}
		for _, f := range s.Flaws {
			out = append(out, telnet.Colorf(telnet.Yellow, "  - %s (%d)", f.Name, f.Rating))
		}
	}
	return strings.Join(out, "\r\n") + "\r\n"
}

// RenderCatalogTable lists one catalog table by its plural name.
func RenderCatalogTable(cat *catalog.Catalog, table string) string {
	var out []string
	switch strings.ToLower(table) {
	case "clans":
		for _, c := range cat.Clans {
			var discs []string
			for _, id := range c.Disciplines {
				if d, ok := cat.Discipline(id); ok {
					discs = append(discs, d.Name)
				}
			}
			out = append(out, fmt.Sprintf("  %s %s  %s", telnet.PadRight(c.Name, nameColumn),
				telnet.Colorf(telnet.Dim, "[%s]", c.FavoredCategory), strings.Join(discs, ", ")))
		}
	case "predators", "predator":
		for _, p := range cat.PredatorTypes {
			out = append(out, "  "+telnet.PadRight(p.Name, nameColumn)+" "+p.Description)
		}
	case "sects":
		for _, s := range cat.Sects {
			out = append(out, "  "+telnet.PadRight(s.Name, nameColumn)+" "+s.Description)
		}
	case "attributes":
		for _, a := range cat.Attributes {
			out = append(out, "  "+telnet.PadRight(a.Name, nameColumn)+" "+string(a.Category))
		}
	case "skills":
		for _, s := range cat.Skills {
			out = append(out, "  "+telnet.PadRight(s.Name, nameColumn)+" "+string(s.Category))
		}
	case "disciplines":
		for _, d := range cat.Disciplines {
			out = append(out, "  "+telnet.PadRight(d.Name, nameColumn)+" "+d.Description)
		}
	case "backgrounds":
		for _, b := range cat.Backgrounds {
			out = append(out, fmt.Sprintf("  %s max %d", telnet.PadRight(b.Name, nameColumn), b.Max()))
		}
	case "merits":
		for _, m := range cat.Merits {
			out = append(out, fmt.Sprintf("  %s %d  %s", telnet.PadRight(m.Name, nameColumn), m.Cost, m.Description))
		}
	case "flaws":
		for _, f := range cat.Flaws {
			out = append(out, fmt.Sprintf("  %s %d  %s", telnet.PadRight(f.Name, nameColumn), f.Magnitude(), f.Description))
		}
	case "locations", "domains":
		for _, l := range cat.Locations {
			out = append(out, "  "+telnet.PadRight(l.Name, nameColumn)+" "+l.Description)
		}
	default:
		return telnet.Colorf(telnet.Red, "Unknown table %q.", table) + "\r\n"
	}
	return strings.Join(out, "\r\n") + "\r\n"
}
