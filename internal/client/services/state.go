package services

import (
	"slices"
	"sync"

	"github.com/dmitrijs2005/bfadmin/internal/client/models"
)

// Collection names one cached projection of server state.
type Collection string

const (
	CollectionUser       Collection = "user"
	CollectionWhitelists Collection = "whitelists"
	CollectionResellers  Collection = "resellers"
	CollectionLogs       Collection = "logs"
	CollectionStats      Collection = "stats"
	CollectionPricing    Collection = "pricing"
)

var allCollections = []Collection{
	CollectionUser, CollectionWhitelists, CollectionResellers,
	CollectionLogs, CollectionStats, CollectionPricing,
}

type Phase int

const (
	PhaseUnauthenticated Phase = iota
	PhaseAuthenticating
	PhaseSynced
)

func (p Phase) String() string {
	switch p {
	case PhaseAuthenticating:
		return "authenticating"
	case PhaseSynced:
		return "synced"
	default:
		return "unauthenticated"
	}
}

// State is the session snapshot shared by the services and the UI. Reads
// return copies; writes replace a collection wholesale.
//
// Every load takes a ticket for its collection before it fetches. A result
// is written only when no load holding a newer ticket has written already,
// so a slow stale response never overwrites fresher data.
type State struct {
	mu sync.RWMutex

	phase      Phase
	user       *models.User
	whitelists []models.WhitelistEntry
	resellers  []models.Reseller
	logs       []models.ActivityLogEntry
	stats      *models.Stats
	pricing    models.Pricing

	issued  map[Collection]uint64
	written map[Collection]uint64

	subsMu sync.Mutex
	subs   []func(Collection)
}

func NewState() *State {
	return &State{
		issued:  make(map[Collection]uint64),
		written: make(map[Collection]uint64),
	}
}

// OnChange registers fn to be called after a collection was replaced. fn
// runs on the goroutine that wrote the change and must not block.
func (s *State) OnChange(fn func(Collection)) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *State) notify(cs ...Collection) {
	s.subsMu.Lock()
	subs := slices.Clone(s.subs)
	s.subsMu.Unlock()

	for _, c := range cs {
		for _, fn := range subs {
			fn(c)
		}
	}
}

// ticket reserves the next generation for c.
func (s *State) ticket(c Collection) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[c]++
	return s.issued[c]
}

// commit runs apply under the write lock if ticket is newer than the last
// written generation of c. It reports whether the write happened.
func (s *State) commit(c Collection, ticket uint64, apply func()) bool {
	s.mu.Lock()
	if ticket <= s.written[c] {
		s.mu.Unlock()
		return false
	}
	apply()
	s.written[c] = ticket
	s.mu.Unlock()

	s.notify(c)
	return true
}

// Reset drops the session: all caches are emptied, the phase goes back to
// unauthenticated and loads still in flight are discarded on completion.
func (s *State) Reset() {
	s.mu.Lock()
	s.phase = PhaseUnauthenticated
	s.user = nil
	s.whitelists = nil
	s.resellers = nil
	s.logs = nil
	s.stats = nil
	s.pricing = nil
	for _, c := range allCollections {
		s.written[c] = s.issued[c]
	}
	s.mu.Unlock()

	s.notify(allCollections...)
}

func (s *State) setPhase(p Phase) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.phase = p
}

func (s *State) Phase() Phase {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.phase
}

func (s *State) User() *models.User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return nil
	}
	u := *s.user
	return &u
}

func (s *State) Whitelists() []models.WhitelistEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.whitelists)
}

func (s *State) Resellers() []models.Reseller {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.resellers)
}

func (s *State) Logs() []models.ActivityLogEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.logs)
}

func (s *State) Stats() *models.Stats {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.stats == nil {
		return nil
	}
	st := *s.stats
	return &st
}

func (s *State) Pricing() models.Pricing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.pricing == nil {
		return nil
	}
	p := make(models.Pricing, len(s.pricing))
	for k, v := range s.pricing {
		p[k] = v
	}
	return p
}
