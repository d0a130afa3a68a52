package services_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"whatsapp_dashboard/internal/models"
	"whatsapp_dashboard/internal/services"
)

func TestWebhookRouterBuiltinRoute(t *testing.T) {
	r, err := services.NewWebhookRouter("https://hooks.example.com/", "")
	require.NoError(t, err)

	url, err := r.Resolve(models.EventPurchaseApproved, models.RoleProducer, models.ProductScopeAll)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/4759af4e-61f0-47b8-b2c0-d730000ca2b5", url)

	url, err = r.Resolve(models.EventPurchaseApproved, models.RoleProducer, "")
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/4759af4e-61f0-47b8-b2c0-d730000ca2b5", url)

	_, err = r.Resolve(models.EventCartAbandoned, models.RoleAffiliate, models.ProductScopeAll)
	assert.ErrorIs(t, err, services.ErrNoWebhookRoute)
}

func TestWebhookRouterConfiguredRoutes(t *testing.T) {
	r, err := services.NewWebhookRouter("https://hooks.example.com", "cart-abandoned:affiliate:product=/abc/; awaiting-payment:producer:all=def")
	require.NoError(t, err)

	url, err := r.Resolve(models.EventCartAbandoned, models.RoleAffiliate, "prod-9")
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/abc", url)

	url, err = r.Resolve(models.EventAwaitingPayment, models.RoleProducer, models.ProductScopeAll)
	require.NoError(t, err)
	assert.Equal(t, "https://hooks.example.com/def", url)

	_, err = r.Resolve(models.EventPurchaseApproved, models.RoleProducer, "prod-9")
	assert.ErrorIs(t, err, services.ErrNoWebhookRoute)
}

func TestWebhookRouterRejectsMalformedRoutes(t *testing.T) {
	for _, spec := range []string{"broken", "a:b=x", "a:b:c=", "a:b:c:d=x"} {
		_, err := services.NewWebhookRouter("https://hooks.example.com", spec)
		assert.Error(t, err, spec)
	}
}

func ExampleWebhookRouter_Resolve() {
	r, _ := services.NewWebhookRouter("https://n8n.example.com/webhook", "")
	url, _ := r.Resolve(models.EventPurchaseApproved, models.RoleProducer, models.ProductScopeAll)
	fmt.Println(url)
	// Output: https://n8n.example.com/webhook/4759af4e-61f0-47b8-b2c0-d730000ca2b5
}
