// Package registry holds the record of launchable applications: their
// match prefixes, singleton policy, and CORS-admitted origins. Modeled on
// the teacher's location.Store — a name-keyed store written at startup
// and read freely afterwards — generalized here with the DIAL prefix-match
// lookup rule instead of exact AOR match.
package registry

import (
	"strings"
	"sync"
)

// Registration is an immutable record of one launchable application
// (spec.md §3).
type Registration struct {
	Name              string
	Prefixes          []string
	Singleton         bool
	UseAdditionalData bool
	AllowedOrigins    []string

	// DisplayName, when set, is surfaced in the GET_app XML response as
	// an <options> attribute (SPEC_FULL.md §3.7); it has no effect on
	// matching or routing.
	DisplayName string
}

func (r *Registration) matches(requestAppName string) bool {
	for _, prefix := range r.Prefixes {
		if prefix != "" && strings.HasPrefix(requestAppName, prefix) {
			return true
		}
	}
	return requestAppName == r.Name
}

// Registry is the set of registered applications, keyed uniquely by
// name. Registrations are created at startup and never removed while
// serving traffic in normal operation (Unregister exists for shutdown
// and tests).
type Registry struct {
	mu   sync.RWMutex
	regs []*Registration
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{}
}

// Register adds an application. It fails (returns false) if singleton is
// false — the core mandates singleton semantics (spec.md §3 invariant,
// Non-goals) — or if name already matches an existing registration under
// the same matching function used by Lookup.
func (r *Registry) Register(name string, prefixes []string, singleton, useAdditionalData bool, allowedOrigins []string) bool {
	if !singleton {
		return false
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.regs {
		if existing.matches(name) {
			return false
		}
	}

	r.regs = append(r.regs, &Registration{
		Name:              name,
		Prefixes:          append([]string(nil), prefixes...),
		Singleton:         singleton,
		UseAdditionalData: useAdditionalData,
		AllowedOrigins:    append([]string(nil), allowedOrigins...),
	})
	return true
}

// Lookup returns the first registration (in insertion order) whose
// prefixes or exact name match requestAppName (spec.md §4.2).
func (r *Registry) Lookup(requestAppName string) (*Registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, reg := range r.regs {
		if reg.matches(requestAppName) {
			return reg, true
		}
	}
	return nil, false
}

// IsRegistered reports whether requestAppName matches any registration.
func (r *Registry) IsRegistered(requestAppName string) bool {
	_, ok := r.Lookup(requestAppName)
	return ok
}

// Unregister removes the first registration matching name.
func (r *Registry) Unregister(name string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, reg := range r.regs {
		if reg.matches(name) {
			r.regs = append(r.regs[:i], r.regs[i+1:]...)
			return true
		}
	}
	return false
}

// List returns a snapshot of all registrations, for diagnostics only —
// no handler in the method matrix depends on iteration order here.
func (r *Registry) List() []*Registration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Registration, len(r.regs))
	copy(out, r.regs)
	return out
}
