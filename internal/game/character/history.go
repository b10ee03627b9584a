package character

import (
	"fmt"
	"time"
)

type era struct {
	before int
	name   string
}

// eras is ordered by upper bound; the first entry whose bound exceeds the
// year names the era.
var eras = []era{
	{500, "Ancient Era"},
	{1000, "Early Medieval Period"},
	{1300, "High Medieval Period"},
	{1500, "Late Medieval Period"},
	{1600, "Renaissance"},
	{1700, "Early Modern Period"},
	{1800, "Age of Enlightenment"},
	{1900, "Victorian Era"},
	{1920, "Edwardian Era"},
	{1940, "Interwar Period"},
	{1960, "Post-War Era"},
	{1980, "Modern Era (1960s-1970s)"},
	{2000, "Late 20th Century"},
	{2010, "Early 2000s"},
}

// HistoricalEra names the historical era a year falls in.
func HistoricalEra(year int) string {
	for _, e := range eras {
		if year < e.before {
			return e.name
		}
	}
	return "Contemporary Era"
}

// TimePeriodContext renders "1850 (Victorian Era) in London", dropping
// whichever half is missing. Returns "" when both are missing.
func TimePeriodContext(dob *time.Time, place string) string {
	var s string
	if dob != nil {
		s = fmt.Sprintf("%d (%s)", dob.Year(), HistoricalEra(dob.Year()))
	}
	switch {
	case place == "":
	case s != "":
		s += " in " + place
	default:
		s = place
	}
	return s
}

// OriginDetails renders the details string stored on the Origin background.
func OriginDetails(dob *time.Time, place string) string {
	ctx := TimePeriodContext(dob, place)
	if ctx == "" {
		return ""
	}
	return "Born in " + ctx
}

// YearsBetween returns the whole years elapsed from start to now, counting
// a year only once its anniversary has passed.
func YearsBetween(start, now time.Time) int {
	years := now.Year() - start.Year()
	if now.Month() < start.Month() || (now.Month() == start.Month() && now.Day() < start.Day()) {
		years--
	}
	return years
}

// TrueAge returns the character's age at now, or 0 when the birth date is unknown.
func (c *Character) TrueAge(now time.Time) int {
	if c.DateOfBirth == nil {
		return 0
	}
	return YearsBetween(*c.DateOfBirth, now)
}

// YearsSinceEmbrace returns the years undead at now, or 0 when the embrace date is unknown.
func (c *Character) YearsSinceEmbrace(now time.Time) int {
	if c.EmbraceDate == nil {
		return 0
	}
	return YearsBetween(*c.EmbraceDate, now)
}
