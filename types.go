package permits

import (
	"context"
	"sort"
)

// ============================================================================
// DOMAIN OBJECTS
// ============================================================================

// Principal represents the authenticated actor making a request. It is built
// once per request and never mutated during evaluation.
type Principal struct {
	UserID                   string   `json:"user_id"`
	Email                    string   `json:"email"`
	Groups                   []string `json:"groups"`
	EmploymentStoreCodes     []string `json:"employment_store_codes"`
	EmploymentFranchiseCodes []string `json:"employment_franchise_codes"`
	Role                     string   `json:"role"`
	Authenticated            bool     `json:"authenticated"`
}

// HasGroup checks if the principal belongs to the given group
func (p *Principal) HasGroup(group string) bool {
	for _, g := range p.Groups {
		if g == group {
			return true
		}
	}
	return false
}

// EmployedAtStore checks direct employment at a store
func (p *Principal) EmployedAtStore(storeID string) bool {
	if storeID == "" {
		return false
	}
	for _, s := range p.EmploymentStoreCodes {
		if s == storeID {
			return true
		}
	}
	return false
}

// OwnsFranchise checks ownership of a franchise
func (p *Principal) OwnsFranchise(franchiseID string) bool {
	if franchiseID == "" {
		return false
	}
	for _, f := range p.EmploymentFranchiseCodes {
		if f == franchiseID {
			return true
		}
	}
	return false
}

// Well-known groups carried by principals. Policies match on these.
const (
	GroupAdmin          = "Admin"
	GroupFranchiseOwner = "FranchiseOwner"
	GroupStoreOwner     = "StoreOwner"
	GroupStoreEmployee  = "StoreEmployee"
	GroupCustomer       = "Customer"
	GroupAPIClient      = "ApiClient"
)

// Action is a canonical operation name, distinct from HTTP verb/route.
type Action string

// The closed action set. Routes must resolve to one of these; an unmapped
// route is a configuration error, never a silent allow.
const (
	ActionSearchPets      Action = "SearchPets"
	ActionGetPet          Action = "GetPet"
	ActionCreatePet       Action = "CreatePet"
	ActionUpdatePet       Action = "UpdatePet"
	ActionDeletePet       Action = "DeletePet"
	ActionListOrders      Action = "ListOrders"
	ActionGetOrder        Action = "GetOrder"
	ActionCreateOrder     Action = "CreateOrder"
	ActionCancelOrder     Action = "CancelOrder"
	ActionManageStore     Action = "ManageStore"
	ActionManageFranchise Action = "ManageFranchise"
	ActionViewApplication Action = "ViewApplication"
)

// ActionWildcard in a policy's action list matches every known action.
const ActionWildcard Action = "*"

// KnownActions returns the closed action set in stable order.
func KnownActions() []Action {
	return []Action{
		ActionSearchPets, ActionGetPet, ActionCreatePet, ActionUpdatePet, ActionDeletePet,
		ActionListOrders, ActionGetOrder, ActionCreateOrder, ActionCancelOrder,
		ActionManageStore, ActionManageFranchise, ActionViewApplication,
	}
}

// IsKnownAction reports whether a is part of the closed action set.
func IsKnownAction(a Action) bool {
	for _, k := range KnownActions() {
		if k == a {
			return true
		}
	}
	return false
}

// ResourceType identifies the kind of entity an action targets.
type ResourceType string

const (
	ResourcePet         ResourceType = "Pet"
	ResourceOrder       ResourceType = "Order"
	ResourceStore       ResourceType = "Store"
	ResourceFranchise   ResourceType = "StoreFranchise"
	ResourceApplication ResourceType = "Application"
)

// IsKnownResourceType reports whether rt is one of the modeled resource types.
func IsKnownResourceType(rt ResourceType) bool {
	switch rt {
	case ResourcePet, ResourceOrder, ResourceStore, ResourceFranchise, ResourceApplication:
		return true
	}
	return false
}

// ResourceDescriptor is a typed reference to the object being acted on.
// Hierarchy pointers are supplied by the caller via the resolver; the
// evaluator never fetches them itself.
type ResourceDescriptor struct {
	Type ResourceType `json:"type"`
	ID   string       `json:"id"`
	// ParentStoreID is set for Pet/Order: the store that owns them.
	ParentStoreID string `json:"parent_store_id,omitempty"`
	// ParentFranchiseID is set for Store (the owning franchise) and, when
	// resolvable, for Pet/Order (the franchise of the owning store).
	ParentFranchiseID string `json:"parent_franchise_id,omitempty"`
	// ResolutionErrors records hierarchy lookups that could not be satisfied.
	// They surface in Decision.Errors; absence of data never satisfies a
	// hierarchy requirement.
	ResolutionErrors []string `json:"resolution_errors,omitempty"`
}

// Effect is a policy's contribution when it matches.
type Effect string

const (
	EffectPermit Effect = "permit"
	EffectForbid Effect = "forbid"
)

// HierarchyRequirement constrains a policy match to the org hierarchy
// (franchise owns stores; stores own pets and orders).
type HierarchyRequirement string

const (
	// HierarchyNone always holds.
	HierarchyNone HierarchyRequirement = "none"
	// HierarchyEmployedAtStore requires direct employment at the resource's store.
	HierarchyEmployedAtStore HierarchyRequirement = "employed_at_resource_store"
	// HierarchyOwnsFranchise requires ownership of the resource's franchise
	// (resource type Store).
	HierarchyOwnsFranchise HierarchyRequirement = "owns_resource_franchise"
	// HierarchyOwnsStoresFranchise requires ownership of the franchise that
	// owns the resource's store, letting a franchise owner manage pets and
	// orders in any store under the franchise without direct employment.
	HierarchyOwnsStoresFranchise HierarchyRequirement = "owns_resource_stores_franchise"
)

// IsKnownHierarchyRequirement reports whether h is a modeled requirement.
// The empty string is accepted and treated as HierarchyNone.
func IsKnownHierarchyRequirement(h HierarchyRequirement) bool {
	switch h {
	case "", HierarchyNone, HierarchyEmployedAtStore, HierarchyOwnsFranchise, HierarchyOwnsStoresFranchise:
		return true
	}
	return false
}

// PrincipalMatch selects which principals a policy applies to: either any
// authenticated principal, or membership in any of the listed groups.
type PrincipalMatch struct {
	Any      bool     `json:"any,omitempty" yaml:"any,omitempty"`
	AnyGroup []string `json:"any_group,omitempty" yaml:"any_group,omitempty"`
}

// Matches reports whether the principal satisfies this matcher.
func (m PrincipalMatch) Matches(p *Principal) bool {
	if m.Any {
		return true
	}
	for _, g := range m.AnyGroup {
		if p.HasGroup(g) {
			return true
		}
	}
	return false
}

// Policy is a single evaluable rule, immutable once loaded.
type Policy struct {
	ID           string               `json:"id" yaml:"id"`
	Effect       Effect               `json:"effect" yaml:"effect"`
	Principal    PrincipalMatch       `json:"principal" yaml:"principal"`
	Actions      []Action             `json:"actions" yaml:"actions"`
	ResourceType ResourceType         `json:"resource_type" yaml:"resource_type"`
	Hierarchy    HierarchyRequirement `json:"hierarchy,omitempty" yaml:"hierarchy,omitempty"`
}

// Decision is the evaluation result. It is constructed per evaluation, never
// mutated afterwards, and is the sole output of the engine.
type Decision struct {
	Allowed bool   `json:"allowed"`
	Message string `json:"message"`
	// DeterminingPolicies lists the ids of every policy that contributed to
	// the final effect, sorted for deterministic output.
	DeterminingPolicies []string `json:"determining_policies"`
	// Errors carries non-fatal evaluation issues such as unresolved
	// hierarchy data. It may be non-empty even on an allow.
	Errors []string `json:"errors,omitempty"`
}

// PolicySource lists the policy records the engine loads at startup or on a
// reload boundary. The engine only consumes the already-parsed list; how it
// is stored is the source's concern.
type PolicySource interface {
	ListPolicies(ctx context.Context) ([]*Policy, error)
}

// sortedCopy returns a sorted, deduplicated copy of in. Principals and cache
// fingerprints rely on this for deterministic ordering.
func sortedCopy(in []string) []string {
	if len(in) == 0 {
		return nil
	}
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, s := range in {
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}
