// Package instance tracks per-app launch bookkeeping: the platform id
// of the current instance, the payload it was last launched with, and
// any auxiliary data posted through dial_data (spec.md §3, §4.7).
package instance

import (
	"sync"

	"github.com/sebas/dialserver/internal/dial/state"
)

// Instance mirrors the source's AppInstance object.
type Instance struct {
	ApplicationID string
	CachedPayload *string
	AuxData       map[string]string
}

// ShouldRelaunch implements spec.md §4.7 step 4: relaunch iff the
// current instance is absent or stopped, or the new payload differs
// from the cached one (nil/empty counts as equal to nil).
func ShouldRelaunch(cur *Instance, curState state.AppState, payload string) bool {
	if cur == nil || curState == state.Stopped {
		return true
	}
	if cur.CachedPayload == nil {
		return payload != ""
	}
	return *cur.CachedPayload != payload
}

// Store holds one Instance per app name. Launch and stop replace or
// remove entries from the worker goroutine, while GET_app reads and
// dial_data (SetAuxData) writes from request goroutines; the mutex
// guards the table against that concurrent access.
type Store struct {
	mu    sync.Mutex
	table map[string]*Instance
}

func NewStore() *Store {
	return &Store{table: make(map[string]*Instance)}
}

func (s *Store) Get(appName string) (*Instance, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.table[appName]
	return inst, ok
}

func (s *Store) Set(appName string, inst *Instance) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table[appName] = inst
}

func (s *Store) Delete(appName string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.table, appName)
}

// SetAuxData implements the SET_DATA handler's write, creating a
// transient instance entry if none exists yet.
func (s *Store) SetAuxData(appName string, data map[string]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	inst, ok := s.table[appName]
	if !ok {
		inst = &Instance{}
		s.table[appName] = inst
	}
	inst.AuxData = data
}
