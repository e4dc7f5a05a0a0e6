package permits

import (
	"context"
	"fmt"
	"sync/atomic"
)

// ============================================================================
// POLICY SNAPSHOT (immutable, pre-indexed)
// ============================================================================

type pairKey struct {
	Action Action
	Type   ResourceType
}

// Snapshot is an immutable, validated policy set pre-indexed by
// (action, resourceType). It is built fully in isolation; once published it
// is read-only for its whole lifetime, so concurrent evaluators share it
// without locks.
type Snapshot struct {
	byPair   map[pairKey][]*Policy
	byID     map[string]*Policy
	version  uint64
	warnings []string
}

// NewSnapshot validates and indexes a policy list. Validation failures are
// ConfigErrors: duplicate ids, unknown actions or resource types, malformed
// matchers. Action wildcards are expanded over the closed action set at build
// time so the per-request lookup is a single map access.
func NewSnapshot(policies []*Policy) (*Snapshot, error) {
	s := &Snapshot{
		byPair: make(map[pairKey][]*Policy, len(policies)*2),
		byID:   make(map[string]*Policy, len(policies)),
	}
	for _, p := range policies {
		if err := validatePolicy(p); err != nil {
			return nil, err
		}
		if _, dup := s.byID[p.ID]; dup {
			return nil, &ConfigError{Subject: p.ID, Reason: "duplicate policy id"}
		}
		s.byID[p.ID] = p

		for _, a := range expandActions(p.Actions) {
			key := pairKey{Action: a, Type: p.ResourceType}
			s.byPair[key] = append(s.byPair[key], p)
		}

		// Hierarchy policies matched only on ApiClient can never be
		// satisfied: API-key principals carry no employment. Legal to
		// author, but worth surfacing.
		if p.Hierarchy != "" && p.Hierarchy != HierarchyNone && onlyAPIClient(p.Principal) {
			s.warnings = append(s.warnings,
				fmt.Sprintf("policy %s: hierarchy requirement with ApiClient-only principal match is unsatisfiable", p.ID))
		}
	}
	return s, nil
}

func validatePolicy(p *Policy) error {
	if p == nil {
		return &ConfigError{Reason: "nil policy"}
	}
	if p.ID == "" {
		return &ConfigError{Reason: "policy without id"}
	}
	if p.Effect != EffectPermit && p.Effect != EffectForbid {
		return &ConfigError{Subject: p.ID, Reason: "effect must be permit or forbid"}
	}
	if !p.Principal.Any && len(p.Principal.AnyGroup) == 0 {
		return &ConfigError{Subject: p.ID, Reason: "principal match is empty"}
	}
	if len(p.Actions) == 0 {
		return &ConfigError{Subject: p.ID, Reason: "policy has no actions"}
	}
	for _, a := range p.Actions {
		if a != ActionWildcard && !IsKnownAction(a) {
			return &ConfigError{Subject: p.ID, Reason: "unknown action " + string(a)}
		}
	}
	if !IsKnownResourceType(p.ResourceType) {
		return &ConfigError{Subject: p.ID, Reason: "unknown resource type " + string(p.ResourceType)}
	}
	if !IsKnownHierarchyRequirement(p.Hierarchy) {
		return &ConfigError{Subject: p.ID, Reason: "unknown hierarchy requirement " + string(p.Hierarchy)}
	}
	return nil
}

func expandActions(actions []Action) []Action {
	for _, a := range actions {
		if a == ActionWildcard {
			return KnownActions()
		}
	}
	return actions
}

func onlyAPIClient(m PrincipalMatch) bool {
	if m.Any || len(m.AnyGroup) == 0 {
		return false
	}
	for _, g := range m.AnyGroup {
		if g != GroupAPIClient {
			return false
		}
	}
	return true
}

// PoliciesFor returns every policy governing the action/resource-type pair.
// The returned slice is shared and must not be mutated.
func (s *Snapshot) PoliciesFor(action Action, rt ResourceType) []*Policy {
	return s.byPair[pairKey{Action: action, Type: rt}]
}

// Policy returns a policy by id, mainly for tooling.
func (s *Snapshot) Policy(id string) (*Policy, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Len returns the number of policies in the snapshot.
func (s *Snapshot) Len() int { return len(s.byID) }

// Version identifies the reload generation this snapshot belongs to.
func (s *Snapshot) Version() uint64 { return s.version }

// Warnings reports authoring oddities found at load time, such as hierarchy
// policies no principal can ever satisfy.
func (s *Snapshot) Warnings() []string { return s.warnings }

// ============================================================================
// POLICY STORE (atomic swap on reload)
// ============================================================================

// Store publishes the current Snapshot to evaluators. Reload builds the new
// snapshot fully in isolation and swaps it in as a unit; readers in flight
// keep evaluating against the snapshot they already hold, so a half-updated
// policy set is never observable.
type Store struct {
	snap    atomic.Pointer[Snapshot]
	version atomic.Uint64
}

// NewStore validates the initial policy set and publishes it as version 1.
func NewStore(policies []*Policy) (*Store, error) {
	st := &Store{}
	if err := st.Reload(policies); err != nil {
		return nil, err
	}
	return st, nil
}

// NewStoreFromSource loads the initial policy set from a PolicySource.
func NewStoreFromSource(ctx context.Context, src PolicySource) (*Store, error) {
	policies, err := src.ListPolicies(ctx)
	if err != nil {
		return nil, fmt.Errorf("permits: list policies: %w", err)
	}
	return NewStore(policies)
}

// Reload atomically replaces the published snapshot. On validation failure
// the previous snapshot stays in place untouched.
func (st *Store) Reload(policies []*Policy) error {
	snap, err := NewSnapshot(policies)
	if err != nil {
		return err
	}
	snap.version = st.version.Add(1)
	st.snap.Store(snap)
	return nil
}

// Snapshot returns the currently published snapshot.
func (st *Store) Snapshot() *Snapshot {
	return st.snap.Load()
}

// Version returns the current reload generation.
func (st *Store) Version() uint64 {
	return st.version.Load()
}
