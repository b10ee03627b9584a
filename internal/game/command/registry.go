package command

import (
	"fmt"
	"slices"
	"strings"
)

// Registry resolves the words a player may type in one console mode.
type Registry struct {
	words map[string]*Command // name or alias, lowercased
	order []*Command
}

// NewRegistry indexes cmds by name and alias.
//
// Precondition: every name and alias is unique across cmds, ignoring case.
// Postcondition: the returned Registry lists cmds in the order given.
func NewRegistry(cmds []Command) (*Registry, error) {
	r := &Registry{words: make(map[string]*Command, len(cmds)*2)}
	for i := range cmds {
		cmd := &cmds[i]
		if err := r.claim(cmd.Name, cmd, false); err != nil {
			return nil, err
		}
		for _, alias := range cmd.Aliases {
			if err := r.claim(alias, cmd, true); err != nil {
				return nil, err
			}
		}
		r.order = append(r.order, cmd)
	}
	return r, nil
}

func (r *Registry) claim(word string, cmd *Command, alias bool) error {
	key := strings.ToLower(word)
	prev, taken := r.words[key]
	switch {
	case !taken:
		r.words[key] = cmd
		return nil
	case !alias && strings.EqualFold(prev.Name, word):
		return fmt.Errorf("duplicate command name: %q", word)
	case !alias:
		return fmt.Errorf("command name %q is already an alias of %q", word, prev.Name)
	case strings.EqualFold(prev.Name, word):
		return fmt.Errorf("alias %q of %q shadows the %q command", word, cmd.Name, prev.Name)
	default:
		return fmt.Errorf("duplicate alias %q: used by %q and %q", word, prev.Name, cmd.Name)
	}
}

// MustRegistry is NewRegistry for the built-in mode tables.
func MustRegistry(cmds []Command) *Registry {
	r, err := NewRegistry(cmds)
	if err != nil {
		panic(fmt.Sprintf("building command registry: %v", err))
	}
	return r
}

// Resolve finds the command a typed word names, ignoring case.
func (r *Registry) Resolve(word string) (*Command, bool) {
	cmd, ok := r.words[strings.ToLower(word)]
	return cmd, ok
}

// Commands returns the commands in registration order.
func (r *Registry) Commands() []*Command {
	return slices.Clone(r.order)
}

// CommandsByCategory groups the commands for help output, each group sorted by name.
func (r *Registry) CommandsByCategory() map[string][]*Command {
	groups := make(map[string][]*Command)
	for _, cmd := range r.order {
		groups[cmd.Category] = append(groups[cmd.Category], cmd)
	}
	for _, cmds := range groups {
		slices.SortFunc(cmds, func(a, b *Command) int { return strings.Compare(a.Name, b.Name) })
	}
	return groups
}
