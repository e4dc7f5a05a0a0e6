package permits

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oarkflow/permits/logger"
)

// ============================================================================
// POLICY EVALUATOR
// ============================================================================

// Engine evaluates (principal, action, resource) triples against the policy
// store. Evaluation is total and pure: it always returns a Decision, touches
// no I/O and depends on no wall clock, so identical inputs against the same
// snapshot yield bit-identical decisions.
type Engine struct {
	store  *Store
	cache  *DecisionCache
	logger logger.Logger
}

// EngineOption configures an Engine at construction
type EngineOption func(*Engine) error

// WithLogger installs a Logger on the Engine
func WithLogger(l logger.Logger) EngineOption {
	return func(e *Engine) error {
		e.logger = l
		return nil
	}
}

// WithDecisionCache installs a decision cache; Authorize consults it and
// ReloadPolicies flushes it wholesale.
func WithDecisionCache(c *DecisionCache) EngineOption {
	return func(e *Engine) error {
		e.cache = c
		return nil
	}
}

func NewEngine(store *Store, opts ...EngineOption) (*Engine, error) {
	if store == nil {
		return nil, &ConfigError{Reason: "engine requires a policy store"}
	}
	e := &Engine{store: store, logger: logger.NewPhusluLogger()}
	for _, opt := range opts {
		if err := opt(e); err != nil {
			return nil, err
		}
	}
	for _, w := range store.Snapshot().Warnings() {
		e.logger.Info("policy load warning", "warning", w)
	}
	return e, nil
}

// ReloadPolicies atomically swaps in a new policy set and flushes the
// decision cache. In-flight evaluations finish against the old snapshot.
func (e *Engine) ReloadPolicies(policies []*Policy) error {
	if err := e.store.Reload(policies); err != nil {
		return err
	}
	if e.cache != nil {
		e.cache.Flush()
	}
	snap := e.store.Snapshot()
	e.logger.Info("policies reloaded", "version", int(snap.Version()), "count", snap.Len())
	for _, w := range snap.Warnings() {
		e.logger.Info("policy load warning", "warning", w)
	}
	return nil
}

// Authorize is the request-path entry point: decision cache first, then a
// full evaluation. Cache hits return as-is; misses are evaluated, logged and
// stored under the triple's fingerprint.
func (e *Engine) Authorize(principal *Principal, action Action, resource *ResourceDescriptor) *Decision {
	if e.cache == nil {
		d := e.Evaluate(principal, action, resource)
		e.logDecision(principal, action, resource, d)
		return d
	}
	fp := Fingerprint(principal, action, resource)
	return e.cache.GetOrEvaluate(fp, func() *Decision {
		d := e.Evaluate(principal, action, resource)
		e.logDecision(principal, action, resource, d)
		return d
	})
}

// Evaluate makes an authorization decision without consulting the cache.
func (e *Engine) Evaluate(principal *Principal, action Action, resource *ResourceDescriptor) *Decision {
	d, _ := e.evaluate(principal, action, resource, false)
	return d
}

// Explain evaluates like Evaluate and additionally returns a step trace for
// policy authoring and debugging.
func (e *Engine) Explain(principal *Principal, action Action, resource *ResourceDescriptor) (*Decision, []string) {
	return e.evaluate(principal, action, resource, true)
}

func (e *Engine) evaluate(principal *Principal, action Action, resource *ResourceDescriptor, withTrace bool) (*Decision, []string) {
	var trace []string
	addTrace := func(format string, args ...any) {
		if withTrace {
			trace = append(trace, fmt.Sprintf(format, args...))
		}
	}

	// 1. Unauthenticated principals short-circuit to deny.
	if principal == nil || !principal.Authenticated {
		addTrace("DENY: principal is unauthenticated")
		return &Decision{
			Allowed:             false,
			Message:             "authentication required",
			DeterminingPolicies: []string{},
		}, trace
	}

	resolutionErrors := append([]string(nil), resource.ResolutionErrors...)

	// 2. Default deny when nothing governs the pair.
	snap := e.store.Snapshot()
	candidates := snap.PoliciesFor(action, resource.Type)
	addTrace("candidates action=%s resource_type=%s count=%d", action, resource.Type, len(candidates))
	if len(candidates) == 0 {
		return &Decision{
			Allowed:             false,
			Message:             "no policy governs this action/resource pair",
			DeterminingPolicies: []string{},
			Errors:              resolutionErrors,
		}, trace
	}

	// 3-4. Principal match, then hierarchy requirement.
	var forbids, permits []string
	for _, p := range candidates {
		if !p.Principal.Matches(principal) {
			addTrace("policy=%s principal_no_match", p.ID)
			continue
		}
		if !hierarchyHolds(p.Hierarchy, principal, resource) {
			addTrace("policy=%s hierarchy_no_match requirement=%s", p.ID, p.Hierarchy)
			continue
		}
		addTrace("policy=%s MATCH effect=%s", p.ID, p.Effect)
		if p.Effect == EffectForbid {
			forbids = append(forbids, p.ID)
		} else {
			permits = append(permits, p.ID)
		}
	}

	// 5. Explicit forbid always wins, however many permits also matched.
	if len(forbids) > 0 {
		sort.Strings(forbids)
		return &Decision{
			Allowed:             false,
			Message:             "explicit forbid policy",
			DeterminingPolicies: forbids,
			Errors:              resolutionErrors,
		}, trace
	}

	// 6. Any matching permit allows.
	if len(permits) > 0 {
		sort.Strings(permits)
		return &Decision{
			Allowed:             true,
			Message:             "permit policy matched",
			DeterminingPolicies: permits,
			Errors:              resolutionErrors,
		}, trace
	}

	// 7. Policies governed the pair but none matched this principal.
	return &Decision{
		Allowed:             false,
		Message:             "no matching permit for this principal",
		DeterminingPolicies: []string{},
		Errors:              resolutionErrors,
	}, trace
}

// hierarchyHolds checks a policy's hierarchy requirement against the
// descriptor's already-resolved parent pointers. Absent data fails the
// requirement: missing hierarchy is never treated as permission.
func hierarchyHolds(req HierarchyRequirement, principal *Principal, resource *ResourceDescriptor) bool {
	switch req {
	case "", HierarchyNone:
		return true
	case HierarchyEmployedAtStore:
		return principal.EmployedAtStore(resource.ParentStoreID)
	case HierarchyOwnsFranchise:
		return principal.OwnsFranchise(resource.ParentFranchiseID)
	case HierarchyOwnsStoresFranchise:
		return resource.ParentStoreID != "" && principal.OwnsFranchise(resource.ParentFranchiseID)
	default:
		return false
	}
}

func (e *Engine) logDecision(principal *Principal, action Action, resource *ResourceDescriptor, d *Decision) {
	subject := ""
	if principal != nil {
		subject = principal.UserID
	}
	e.logger.Info("authorization decision",
		"subject", subject,
		"action", string(action),
		"resource", string(resource.Type)+":"+resource.ID,
		"allowed", d.Allowed,
		"message", d.Message,
		"policies", strings.Join(d.DeterminingPolicies, ","),
	)
}
