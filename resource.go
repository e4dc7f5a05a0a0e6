package permits

import (
	"fmt"

	"github.com/oarkflow/permits/utils"
)

// HierarchyRef carries the already-resolved parents of an entity: the store
// that owns it and/or the franchise that owns its store.
type HierarchyRef struct {
	StoreID     string
	FranchiseID string
}

// HierarchyLookup is the caller-supplied accessor over already-known entity
// data ("given a pet id, return its store id"). The resolver consults it but
// never owns or caches it, so the engine stays free of I/O.
type HierarchyLookup func(resourceType ResourceType, id string) (HierarchyRef, bool)

// ResourceRoute describes how one route template maps to a typed resource.
type ResourceRoute struct {
	Type ResourceType
	// IDParam names the path parameter carrying the resource id. Empty for
	// collection/creation routes where the target has no id yet.
	IDParam string
	// StoreParam/FranchiseParam name path parameters that carry a parent id
	// directly, avoiding a lookup for routes nested under the parent.
	StoreParam     string
	FranchiseParam string
	// FixedID is used for singleton resources such as the application itself.
	FixedID string
}

// ResourceResolver maps route templates plus path parameters to typed
// resource descriptors with hierarchy pointers populated.
type ResourceResolver struct {
	routes map[string]ResourceRoute
}

// NewResourceResolver validates the route map and returns a resolver.
func NewResourceResolver(routes map[string]ResourceRoute) (*ResourceResolver, error) {
	if len(routes) == 0 {
		return nil, &ConfigError{Reason: "resource route table is empty"}
	}
	normalized := make(map[string]ResourceRoute, len(routes))
	for template, rr := range routes {
		t := utils.NormalizeTemplate(template)
		if !utils.ValidTemplate(t) {
			return nil, &ConfigError{Subject: template, Reason: "malformed route template"}
		}
		if !IsKnownResourceType(rr.Type) {
			return nil, &ConfigError{Subject: t, Reason: "unknown resource type " + string(rr.Type)}
		}
		normalized[t] = rr
	}
	return &ResourceResolver{routes: normalized}, nil
}

// DefaultResourceResolver covers the migrated petstore service's routes,
// aligned with DefaultRouteTable.
func DefaultResourceResolver() *ResourceResolver {
	r, err := NewResourceResolver(map[string]ResourceRoute{
		"/store/{storeId}/pets":                   {Type: ResourcePet, StoreParam: "storeId"},
		"/store/{storeId}/pet":                    {Type: ResourcePet, StoreParam: "storeId"},
		"/store/{storeId}/pet/{petId}":            {Type: ResourcePet, IDParam: "petId", StoreParam: "storeId"},
		"/store/{storeId}/orders":                 {Type: ResourceOrder, StoreParam: "storeId"},
		"/store/{storeId}/order":                  {Type: ResourceOrder, StoreParam: "storeId"},
		"/store/{storeId}/order/{orderId}":        {Type: ResourceOrder, IDParam: "orderId", StoreParam: "storeId"},
		"/store/{storeId}/order/{orderId}/cancel": {Type: ResourceOrder, IDParam: "orderId", StoreParam: "storeId"},
		"/store/{storeId}":                        {Type: ResourceStore, IDParam: "storeId"},
		"/franchise/{franchiseId}/store":          {Type: ResourceStore, FranchiseParam: "franchiseId"},
		"/franchise/{franchiseId}":                {Type: ResourceFranchise, IDParam: "franchiseId"},
		"/application":                            {Type: ResourceApplication, FixedID: "petstore"},
	})
	if err != nil {
		panic(err) // static table, validated by tests
	}
	return r
}

// Resolve builds a ResourceDescriptor for the route. Hierarchy parents come
// from path parameters when the route nests under them, otherwise from the
// caller-supplied lookup. A parent that cannot be resolved leaves its pointer
// unset and is recorded in the descriptor's resolution errors; it is never
// silently treated as satisfied.
func (r *ResourceResolver) Resolve(routeTemplate string, pathParams map[string]string, lookup HierarchyLookup) (*ResourceDescriptor, error) {
	template := utils.NormalizeTemplate(routeTemplate)
	rr, ok := r.routes[template]
	if !ok {
		return nil, &UnmappedRouteError{Template: template}
	}

	desc := &ResourceDescriptor{Type: rr.Type, ID: rr.FixedID}
	if rr.IDParam != "" {
		desc.ID = pathParams[rr.IDParam]
	}

	switch rr.Type {
	case ResourcePet, ResourceOrder:
		desc.ParentStoreID = r.resolveOwningStore(rr, pathParams, lookup, desc)
		if desc.ParentStoreID != "" {
			if ref, ok := lookupRef(lookup, ResourceStore, desc.ParentStoreID); ok && ref.FranchiseID != "" {
				desc.ParentFranchiseID = ref.FranchiseID
			} else {
				desc.recordError(fmt.Sprintf("store %s: owning franchise not resolved", desc.ParentStoreID))
			}
		}
	case ResourceStore:
		// A store is its own hierarchy store, so employment checks against
		// the store resource itself work without a lookup.
		desc.ParentStoreID = desc.ID
		if rr.FranchiseParam != "" {
			desc.ParentFranchiseID = pathParams[rr.FranchiseParam]
		}
		if desc.ParentFranchiseID == "" && desc.ID != "" {
			if ref, ok := lookupRef(lookup, ResourceStore, desc.ID); ok && ref.FranchiseID != "" {
				desc.ParentFranchiseID = ref.FranchiseID
			} else {
				desc.recordError(fmt.Sprintf("store %s: owning franchise not resolved", desc.ID))
			}
		}
	case ResourceFranchise:
		desc.ParentFranchiseID = desc.ID
	}
	return desc, nil
}

// resolveOwningStore finds the store that owns a pet/order, preferring the
// path parameter over a lookup by the resource's own id.
func (r *ResourceResolver) resolveOwningStore(rr ResourceRoute, pathParams map[string]string, lookup HierarchyLookup, desc *ResourceDescriptor) string {
	if rr.StoreParam != "" {
		if id := pathParams[rr.StoreParam]; id != "" {
			return id
		}
	}
	if desc.ID != "" {
		if ref, ok := lookupRef(lookup, rr.Type, desc.ID); ok && ref.StoreID != "" {
			return ref.StoreID
		}
	}
	desc.recordError(fmt.Sprintf("%s %s: owning store not resolved", rr.Type, desc.ID))
	return ""
}

func lookupRef(lookup HierarchyLookup, rt ResourceType, id string) (HierarchyRef, bool) {
	if lookup == nil {
		return HierarchyRef{}, false
	}
	return lookup(rt, id)
}

func (d *ResourceDescriptor) recordError(msg string) {
	d.ResolutionErrors = append(d.ResolutionErrors, msg)
}
