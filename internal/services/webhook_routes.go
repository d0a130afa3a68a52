package services

import (
	"fmt"
	"strings"

	"whatsapp_dashboard/internal/models"
)

// productRouteScope is the route key used for any rule scoped to a single product.
const productRouteScope = "product"

var builtinWebhookRoutes = map[string]string{
	routeKey(models.EventPurchaseApproved, models.RoleProducer, models.ProductScopeAll): "4759af4e-61f0-47b8-b2c0-d730000ca2b5",
}

// WebhookRouter maps (event, role, product scope) to the automation webhook a rule posts to.
type WebhookRouter struct {
	baseURL string
	routes  map[string]string
}

// NewWebhookRouter layers routes parsed from spec ("event:role:scope=path;...") over the built-in table.
func NewWebhookRouter(baseURL, spec string) (*WebhookRouter, error) {
	routes := make(map[string]string, len(builtinWebhookRoutes))
	for k, v := range builtinWebhookRoutes {
		routes[k] = v
	}

	for _, entry := range strings.Split(spec, ";") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		key, path, ok := strings.Cut(entry, "=")
		parts := strings.Split(key, ":")
		if !ok || len(parts) != 3 || strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("invalid webhook route %q", entry)
		}
		routes[routeKey(models.EventType(parts[0]), models.UserRole(parts[1]), parts[2])] = strings.Trim(strings.TrimSpace(path), "/")
	}

	return &WebhookRouter{baseURL: strings.TrimRight(baseURL, "/"), routes: routes}, nil
}

func (r *WebhookRouter) Resolve(event models.EventType, role models.UserRole, scope string) (string, error) {
	if scope == "" {
		scope = models.ProductScopeAll
	}
	path, ok := r.routes[routeKey(event, role, scope)]
	if !ok && scope != models.ProductScopeAll {
		path, ok = r.routes[routeKey(event, role, productRouteScope)]
	}
	if !ok {
		return "", fmt.Errorf("%w: %s/%s/%s", ErrNoWebhookRoute, event, role, scope)
	}
	return r.baseURL + "/" + path, nil
}

func routeKey(event models.EventType, role models.UserRole, scope string) string {
	return string(event) + ":" + string(role) + ":" + strings.TrimSpace(scope)
}
