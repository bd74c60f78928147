package rules

import (
	"fmt"
	"sort"
)

// Registry maps rule ids to immutable rules. It has no mutating methods and is
// safe for concurrent use without locking.
type Registry struct {
	rules map[string]Rule
	ids   []string
}

// NewRegistry validates and freezes the given rules. Duplicate ids are rejected.
func NewRegistry(rs ...Rule) (*Registry, error) {
	reg := &Registry{
		rules: make(map[string]Rule, len(rs)),
		ids:   make([]string, 0, len(rs)),
	}

	for _, r := range rs {
		if err := r.validate(); err != nil {
			return nil, err
		}
		if _, exists := reg.rules[r.ID]; exists {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalidRule, r.ID)
		}
		reg.rules[r.ID] = r
		reg.ids = append(reg.ids, r.ID)
	}

	sort.Strings(reg.ids)
	return reg, nil
}

// Extend returns a new registry holding the receiver's rules plus rs.
// Overriding an existing id is rejected.
func (r *Registry) Extend(rs ...Rule) (*Registry, error) {
	all := make([]Rule, 0, len(r.ids)+len(rs))
	for _, id := range r.ids {
		all = append(all, r.rules[id])
	}
	all = append(all, rs...)
	return NewRegistry(all...)
}

// Rule returns the rule registered under id.
func (r *Registry) Rule(id string) (Rule, bool) {
	if r == nil {
		return Rule{}, false
	}
	rule, ok := r.rules[id]
	return rule, ok
}

// IDs returns the registered ids in sorted order.
func (r *Registry) IDs() []string {
	if r == nil {
		return nil
	}
	out := make([]string, len(r.ids))
	copy(out, r.ids)
	return out
}

// Validate applies the rule registered under id to input.
//
// Only one message is returned even when several checks would fail; the order
// is emptiness, maximum length, minimum length, then the content predicate.
// An unregistered id is a caller bug and returns an error wrapping
// [ErrUnknownRule] instead of a rejection.
func (r *Registry) Validate(id, input string) (Outcome, error) {
	rule, ok := r.Rule(id)
	if !ok {
		return Outcome{}, fmt.Errorf("%w: %q", ErrUnknownRule, id)
	}
	return rule.apply(input), nil
}
