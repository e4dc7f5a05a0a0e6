package permits

import (
	"strings"

	"github.com/oarkflow/permits/utils"
)

// RouteKey identifies one entry in the action table: an HTTP method plus a
// normalized route template ('{name}' placeholders, not raw URLs).
type RouteKey struct {
	Method   string
	Template string
}

// ActionResolver maps method/route pairs to canonical actions. The table is
// static: it is validated once at construction and never mutated, replacing
// the original system's reflection-based route decoration.
type ActionResolver struct {
	table map[RouteKey]Action
}

// NewActionResolver builds a resolver from the given table. Every entry must
// reference a known action and a well-formed template; anything else is a
// ConfigError so a misconfigured process refuses to start.
func NewActionResolver(table map[RouteKey]Action) (*ActionResolver, error) {
	if len(table) == 0 {
		return nil, &ConfigError{Reason: "action table is empty"}
	}
	normalized := make(map[RouteKey]Action, len(table))
	for key, action := range table {
		method := strings.ToUpper(strings.TrimSpace(key.Method))
		if method == "" {
			return nil, &ConfigError{Subject: key.Template, Reason: "route entry has no method"}
		}
		template := utils.NormalizeTemplate(key.Template)
		if !utils.ValidTemplate(template) {
			return nil, &ConfigError{Subject: method + " " + key.Template, Reason: "malformed route template"}
		}
		if !IsKnownAction(action) {
			return nil, &ConfigError{Subject: method + " " + template, Reason: "unknown action " + string(action)}
		}
		nk := RouteKey{Method: method, Template: template}
		if existing, ok := normalized[nk]; ok && existing != action {
			return nil, &ConfigError{Subject: method + " " + template, Reason: "route mapped to multiple actions"}
		}
		normalized[nk] = action
	}
	return &ActionResolver{table: normalized}, nil
}

// Resolve returns the canonical action for a method/route pair, or an
// UnmappedRouteError when no entry exists.
func (r *ActionResolver) Resolve(method, routeTemplate string) (Action, error) {
	key := RouteKey{
		Method:   strings.ToUpper(strings.TrimSpace(method)),
		Template: utils.NormalizeTemplate(routeTemplate),
	}
	action, ok := r.table[key]
	if !ok {
		return "", &UnmappedRouteError{Method: key.Method, Template: key.Template}
	}
	return action, nil
}

// Routes returns a copy of the resolved table, mainly for tooling and stats.
func (r *ActionResolver) Routes() map[RouteKey]Action {
	out := make(map[RouteKey]Action, len(r.table))
	for k, v := range r.table {
		out[k] = v
	}
	return out
}

// DefaultRouteTable is the migrated petstore service's route map. Callers
// with extra routes extend a copy before constructing the resolver.
func DefaultRouteTable() map[RouteKey]Action {
	return map[RouteKey]Action{
		{Method: "GET", Template: "/store/{storeId}/pets"}:                    ActionSearchPets,
		{Method: "GET", Template: "/store/{storeId}/pet/{petId}"}:             ActionGetPet,
		{Method: "POST", Template: "/store/{storeId}/pet"}:                    ActionCreatePet,
		{Method: "PUT", Template: "/store/{storeId}/pet/{petId}"}:             ActionUpdatePet,
		{Method: "DELETE", Template: "/store/{storeId}/pet/{petId}"}:          ActionDeletePet,
		{Method: "GET", Template: "/store/{storeId}/orders"}:                  ActionListOrders,
		{Method: "GET", Template: "/store/{storeId}/order/{orderId}"}:         ActionGetOrder,
		{Method: "POST", Template: "/store/{storeId}/order"}:                  ActionCreateOrder,
		{Method: "POST", Template: "/store/{storeId}/order/{orderId}/cancel"}: ActionCancelOrder,
		{Method: "PUT", Template: "/store/{storeId}"}:                         ActionManageStore,
		{Method: "DELETE", Template: "/store/{storeId}"}:                      ActionManageStore,
		{Method: "POST", Template: "/franchise/{franchiseId}/store"}:          ActionManageStore,
		{Method: "PUT", Template: "/franchise/{franchiseId}"}:                 ActionManageFranchise,
		{Method: "GET", Template: "/application"}:                             ActionViewApplication,
	}
}
