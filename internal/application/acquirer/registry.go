package acquirer

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrDuplicateAdapter = errors.New("adapter already registered")
	ErrAmbiguousAdapter = errors.New("more than one adapter claims partner")
)

type entry struct {
	name    string
	adapter Adapter
}

// Registry holds adapters in registration order. It is built once at
// startup and read concurrently afterwards.
type Registry struct {
	entries []entry
}

func NewRegistry() *Registry {
	return &Registry{}
}

func (r *Registry) Register(name string, a Adapter) error {
	for _, e := range r.entries {
		if e.name == name {
			return fmt.Errorf("%w: %s", ErrDuplicateAdapter, name)
		}
	}
	r.entries = append(r.entries, entry{name: name, adapter: a})
	return nil
}

// Select returns the first registered adapter that supports partnerID.
func (r *Registry) Select(partnerID int64) (Adapter, bool) {
	for _, e := range r.entries {
		if e.adapter.Supports(partnerID) {
			return e.adapter, true
		}
	}
	return nil, false
}

func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		names = append(names, e.name)
	}
	return names
}

// Validate fails when any of partnerIDs is claimed by more than one adapter.
func (r *Registry) Validate(partnerIDs []int64) error {
	var errs []error
	for _, id := range partnerIDs {
		owners := r.owners(id)
		if len(owners) > 1 {
			errs = append(errs, fmt.Errorf("%w %d: %s", ErrAmbiguousAdapter, id, strings.Join(owners, ", ")))
		}
	}
	return errors.Join(errs...)
}

// Unclaimed lists the partnerIDs no adapter supports.
func (r *Registry) Unclaimed(partnerIDs []int64) []int64 {
	var out []int64
	for _, id := range partnerIDs {
		if len(r.owners(id)) == 0 {
			out = append(out, id)
		}
	}
	return out
}

func (r *Registry) owners(partnerID int64) []string {
	var names []string
	for _, e := range r.entries {
		if e.adapter.Supports(partnerID) {
			names = append(names, e.name)
		}
	}
	return names
}
