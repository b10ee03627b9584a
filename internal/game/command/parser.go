package command

import (
	"strings"
	"unicode"
)

// Input is one console line split into a command word and its arguments.
type Input struct {
	// Command is the first word, lowercased so lookups ignore case.
	Command string
	// Args are the following words with their case kept, since trait and
	// character names are matched as typed.
	Args []string
	// RawArgs is everything after the command word with inner spacing intact.
	RawArgs string
}

// Parse splits a console line at runs of spaces or tabs.
//
// Postcondition: a blank line yields the zero Input.
func Parse(line string) Input {
	line = strings.TrimSpace(line)
	end := strings.IndexFunc(line, unicode.IsSpace)
	if end < 0 {
		return Input{Command: strings.ToLower(line)}
	}
	rest := strings.TrimSpace(line[end:])
	return Input{
		Command: strings.ToLower(line[:end]),
		Args:    strings.Fields(rest),
		RawArgs: rest,
	}
}

// Text returns RawArgs with the first skip words removed, so free text such
// as a story title keeps the spacing the player typed.
func (in Input) Text(skip int) string {
	s := in.RawArgs
	for i := 0; i < skip; i++ {
		end := strings.IndexFunc(s, unicode.IsSpace)
		if end < 0 {
			return ""
		}
		s = strings.TrimLeftFunc(s[end:], unicode.IsSpace)
	}
	return s
}
