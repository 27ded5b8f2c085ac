package session

import (
	"slices"

	"github.com/mcoot/festivalboard/internal/model"
)

// mutation is a two-phase change to one user: apply tentatively, then
// commit or revert to the state captured at begin.
type mutation struct {
	store   *Store
	key     string
	before  *model.User
	existed bool
	applied *model.User

	// undo, when set, reverts only this mutation's fields on a record that
	// was replaced after apply.
	undo func(current, before *model.User)
}

// beginLocked snapshots the user under key. Caller holds s.mu.
func (s *Store) beginLocked(key string) *mutation {
	before, existed := s.users[key]
	return &mutation{
		store:   s,
		key:     key,
		before:  before.Clone(),
		existed: existed,
	}
}

// apply installs the tentative state. Caller holds s.mu.
func (m *mutation) apply(user *model.User) {
	s := m.store
	if _, ok := s.users[m.key]; !ok {
		s.order = append(s.order, m.key)
	}
	s.users[m.key] = user
	m.applied = user
}

// commit discards the snapshot
func (m *mutation) commit() {
	m.before = nil
}

// revert restores the snapshot taken at begin. Changes committed to the
// user since apply survive when the mutation has an undo.
func (m *mutation) revert() {
	s := m.store
	s.mu.Lock()
	defer s.mu.Unlock()

	if m.existed {
		current, ok := s.users[m.key]
		if !ok || current == m.applied || m.undo == nil {
			s.users[m.key] = m.before
			return
		}
		reverted := current.Clone()
		m.undo(reverted, m.before)
		s.users[m.key] = reverted
		return
	}
	delete(s.users, m.key)
	s.order = slices.DeleteFunc(s.order, func(k string) bool { return k == m.key })
	if s.current == m.key {
		s.current = ""
	}
}
