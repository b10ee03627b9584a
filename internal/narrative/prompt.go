// Package narrative turns chronicle context into prompts for a language
// model and collects the generated story text.
package narrative

import (
	"fmt"
	"strings"
	"time"

	"github.com/cory-johannsen/elysium/internal/game/dice"
)

// SystemPrompt frames every request.
const SystemPrompt = "You are a Game Master for Vampire: The Masquerade. Create compelling, dark stories with personal horror themes."

// Request defaults.
const (
	DefaultType = "hook"
	DefaultTone = "dark"
)

// CharacterContext is the slice of a character sheet that flavors a story.
type CharacterContext struct {
	DateOfBirth  *time.Time `json:"date_of_birth,omitempty"`
	PlaceOfBirth string     `json:"place_of_birth,omitempty"`
	EmbraceDate  *time.Time `json:"embrace_date,omitempty"`
	Clan         string     `json:"clan,omitempty"`
}

// Info renders the context as sentences prepended to the user prompt.
// Returns "" for a nil context.
func (c *CharacterContext) Info() string {
	if c == nil {
		return ""
	}
	var b strings.Builder
	if c.DateOfBirth != nil {
		fmt.Fprintf(&b, "Character was born in %d", c.DateOfBirth.Year())
		if c.PlaceOfBirth != "" {
			fmt.Fprintf(&b, " in %s", c.PlaceOfBirth)
		}
		b.WriteString(". ")
	}
	if c.EmbraceDate != nil {
		fmt.Fprintf(&b, "Embraced in %d. ", c.EmbraceDate.Year())
	}
	if c.Clan != "" {
		fmt.Fprintf(&b, "Clan: %s. ", c.Clan)
	}
	return b.String()
}

// Request describes the story text wanted.
type Request struct {
	Type          string            `json:"type,omitempty"`
	Clan          string            `json:"clan,omitempty"`
	Location      string            `json:"location,omitempty"`
	Tone          string            `json:"tone,omitempty"`
	Prompt        string            `json:"prompt,omitempty"`
	PreviousStory string            `json:"previous_story,omitempty"`
	DiceResult    *dice.PoolResult  `json:"dice_result,omitempty"`
	Character     *CharacterContext `json:"character,omitempty"`
}

// BuildPrompt selects the user prompt for req.
//
// A dice result together with a previous story asks for a continuation that
// honors the roll. Otherwise an explicit prompt is sent after the character
// info. Otherwise a prompt is templated from type, clan, location, and tone.
func BuildPrompt(req Request) string {
	info := req.Character.Info()

	if req.DiceResult != nil && req.PreviousStory != "" {
		r := req.DiceResult
		outcome := "The action failed."
		if r.Successes >= r.Difficulty {
			outcome = "The action succeeded."
		}
		return fmt.Sprintf("Continue this story based on the dice roll result:\n\n"+
			"Previous Story: %s\n\n"+
			"%s\n\n"+
			"Dice Roll Result: %d dice, %d successes, %d difficulty\n\n"+
			"%s\n\n"+
			"Continue the narrative based on this outcome, considering the character's historical background.",
			req.PreviousStory, strings.TrimSpace(info), r.Pool, r.Successes, r.Difficulty, outcome)
	}

	if req.Prompt != "" {
		return info + req.Prompt
	}

	typ := req.Type
	if typ == "" {
		typ = DefaultType
	}
	tone := req.Tone
	if tone == "" {
		tone = DefaultTone
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Generate a %s for Vampire: The Masquerade.\n", typ)
	if info != "" {
		b.WriteString(strings.TrimSpace(info))
		b.WriteString("\n")
	}
	if req.Clan != "" {
		fmt.Fprintf(&b, "Clan: %s.\n", req.Clan)
	}
	if req.Location != "" {
		fmt.Fprintf(&b, "Location: %s.\n", req.Location)
	}
	fmt.Fprintf(&b, "Tone: %s.", tone)
	return b.String()
}
