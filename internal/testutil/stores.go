package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/cory-johannsen/elysium/internal/game/character"
	"github.com/cory-johannsen/elysium/internal/game/creation"
	"github.com/cory-johannsen/elysium/internal/game/story"
	"github.com/cory-johannsen/elysium/internal/narrative"
	"github.com/cory-johannsen/elysium/internal/storage/postgres"
	"github.com/cory-johannsen/elysium/internal/storage/redis"
)

// MemDrafts is an in-memory draft store returning the redis store's sentinels.
type MemDrafts struct {
	mu     sync.Mutex
	seq    int
	drafts map[string]creation.Draft
}

func NewMemDrafts() *MemDrafts { return &MemDrafts{drafts: make(map[string]creation.Draft)} }

// Create stores d under a fresh id, replacing the owner's previous draft.
func (m *MemDrafts) Create(_ context.Context, d *creation.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, old := range m.drafts {
		if old.OwnerID == d.OwnerID {
			delete(m.drafts, id)
		}
	}
	m.seq++
	d.ID = fmt.Sprintf("d%d", m.seq)
	m.drafts[d.ID] = creation.Draft{ID: d.ID, OwnerID: d.OwnerID, Build: d.Build.Clone()}
	return nil
}

func (m *MemDrafts) Get(_ context.Context, id string) (*creation.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.drafts[id]
	if !ok {
		return nil, redis.ErrDraftNotFound
	}
	d.Build = d.Build.Clone()
	return &d, nil
}

func (m *MemDrafts) GetByOwner(ctx context.Context, ownerID int64) (*creation.Draft, error) {
	m.mu.Lock()
	var id string
	for _, d := range m.drafts {
		if d.OwnerID == ownerID {
			id = d.ID
		}
	}
	m.mu.Unlock()
	return m.Get(ctx, id)
}

func (m *MemDrafts) Save(_ context.Context, d *creation.Draft) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.drafts[d.ID]; !ok {
		return redis.ErrDraftNotFound
	}
	m.drafts[d.ID] = creation.Draft{ID: d.ID, OwnerID: d.OwnerID, Build: d.Build.Clone()}
	return nil
}

func (m *MemDrafts) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.drafts, id)
	return nil
}

// MemCharacters is an in-memory character store returning the postgres
// store's sentinels. List returns characters in creation order.
type MemCharacters struct {
	mu    sync.Mutex
	seq   int64
	chars map[int64]*character.Character
}

func NewMemCharacters() *MemCharacters {
	return &MemCharacters{chars: make(map[int64]*character.Character)}
}

func (m *MemCharacters) Create(_ context.Context, c *character.Character) (*character.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	out := *c
	out.ID = m.seq
	m.chars[out.ID] = &out
	return &out, nil
}

func (m *MemCharacters) GetByID(_ context.Context, id int64) (*character.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chars[id]
	if !ok {
		return nil, postgres.ErrCharacterNotFound
	}
	out := *c
	return &out, nil
}

func (m *MemCharacters) List(_ context.Context, accountID int64) ([]*character.Character, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*character.Character
	for id := int64(1); id <= m.seq; id++ {
		if c, ok := m.chars[id]; ok && (accountID == 0 || c.AccountID == accountID) {
			cp := *c
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (m *MemCharacters) UpdateProfile(_ context.Context, id int64, p character.Profile) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.chars[id]
	if !ok {
		return postgres.ErrCharacterNotFound
	}
	c.Profile = p
	return nil
}

func (m *MemCharacters) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.chars[id]; !ok {
		return postgres.ErrCharacterNotFound
	}
	delete(m.chars, id)
	return nil
}

// MemStories is an in-memory story session store. ListByCharacter returns
// the newest session first.
type MemStories struct {
	mu       sync.Mutex
	seq      int64
	sessions map[int64]story.Session
}

func NewMemStories() *MemStories { return &MemStories{sessions: make(map[int64]story.Session)} }

func (m *MemStories) Create(_ context.Context, s *story.Session) (*story.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	out := *s
	out.ID = m.seq
	m.sessions[out.ID] = out
	return &out, nil
}

func (m *MemStories) GetByID(_ context.Context, id int64) (*story.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return nil, postgres.ErrSessionNotFound
	}
	return &s, nil
}

func (m *MemStories) ListByCharacter(_ context.Context, characterID int64) ([]*story.Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*story.Session
	for id := m.seq; id > 0; id-- {
		if s, ok := m.sessions[id]; ok && s.CharacterID == characterID {
			out = append(out, &s)
		}
	}
	return out, nil
}

func (m *MemStories) Update(_ context.Context, s *story.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sessions[s.ID]; !ok {
		return postgres.ErrSessionNotFound
	}
	m.sessions[s.ID] = *s
	return nil
}

// ScriptedNarrator returns Results in order and records every request.
// Once the script runs out it reports a failure.
type ScriptedNarrator struct {
	mu       sync.Mutex
	Results  []narrative.Result
	Requests []narrative.Request
}

func (n *ScriptedNarrator) Generate(_ context.Context, req narrative.Request) narrative.Result {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Requests = append(n.Requests, req)
	if len(n.Results) == 0 {
		return narrative.Result{Success: false, Error: "no script"}
	}
	r := n.Results[0]
	n.Results = n.Results[1:]
	return r
}

// Script queues results for later calls. Safe to call while a server is running.
func (n *ScriptedNarrator) Script(results ...narrative.Result) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.Results = append(n.Results, results...)
}

// Seen returns a copy of the requests received so far.
func (n *ScriptedNarrator) Seen() []narrative.Request {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]narrative.Request(nil), n.Requests...)
}
