package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/quickpass/internal/core/domain"
)

func TestCartCmd_Empty(t *testing.T) {
	setupTestServices(t)

	out, _, err := run(t, "cart")

	require.NoError(t, err)
	assert.Contains(t, out, "Your cart is empty.")
}

func TestCartCmd_ListsItemsAndTotal(t *testing.T) {
	env := setupTestServices(t)
	env.addItem(t, "us-passport")
	env.addItem(t, "eu-visa")

	out, _, err := run(t, "cart")

	require.NoError(t, err)
	assert.Contains(t, out, "[1] US Passport Photo")
	assert.Contains(t, out, "[2] Schengen Visa")
	assert.Contains(t, out, "Total: $27.98")
}

func TestCartRemoveCmd(t *testing.T) {
	env := setupTestServices(t)
	env.addItem(t, "us-passport")
	env.addItem(t, "eu-visa")

	out, _, err := run(t, "cart", "remove", "1")

	require.NoError(t, err)
	assert.Contains(t, out, "1 left, total $12.99")
	items := env.cart.Cart()
	require.Len(t, items, 1)
	assert.Equal(t, "eu-visa", items[0].ServiceID)
}

func TestCartRemoveCmd_InvalidPosition(t *testing.T) {
	tests := []struct {
		name string
		arg  string
		want error
	}{
		{"zero", "0", domain.ErrNotFound},
		{"past end", "3", domain.ErrNotFound},
		{"not a number", "first", domain.ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := setupTestServices(t)
			env.addItem(t, "us-passport")

			_, _, err := run(t, "cart", "remove", tt.arg)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.want)
			assert.Len(t, env.cart.Cart(), 1)
		})
	}
}

func TestCheckoutCmd_CreatesOrder(t *testing.T) {
	env := setupTestServices(t)
	env.addItem(t, "us-passport")
	env.addItem(t, "ca-passport")

	out, _, err := run(t, "checkout")

	require.NoError(t, err)
	assert.Contains(t, out, "Processing payment of $30.98")
	assert.Contains(t, out, "US Passport Photo + 1 more, total $30.98")
	assert.Empty(t, env.cart.Cart())

	orders := env.cart.Orders()
	require.Len(t, orders, 1)
	assert.Equal(t, domain.OrderStatusCompleted, orders[0].Status)
	assert.Contains(t, out, orders[0].ID)
}

func TestCheckoutCmd_WarnsWhenOrdersNotSaved(t *testing.T) {
	env := setupTestServices(t)
	env.addItem(t, "us-passport")
	env.state.FailWith(fmt.Errorf("%w: storage full", domain.ErrQuotaExceeded))

	out, errOut, err := run(t, "checkout")

	require.NoError(t, err)
	assert.Contains(t, out, "US Passport Photo, total $14.99")
	assert.Contains(t, errOut, "warning: qp_orders was not saved (too_large)")
	assert.Len(t, env.cart.Orders(), 1)
}

func TestCheckoutCmd_EmptyCart(t *testing.T) {
	env := setupTestServices(t)

	_, _, err := run(t, "checkout")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmptyCart)
	assert.Empty(t, env.cart.Orders())
}

func TestOrdersCmd(t *testing.T) {
	env := setupTestServices(t)

	out, _, err := run(t, "orders")
	require.NoError(t, err)
	assert.Contains(t, out, "No orders yet.")

	env.addItem(t, "jp-visa")
	order, _, err := env.cart.Checkout(context.Background())
	require.NoError(t, err)

	out, _, err = run(t, "orders")
	require.NoError(t, err)
	assert.Contains(t, out, order.ID)
	assert.Contains(t, out, "Japan Visa")
	assert.Contains(t, out, "14.99")
}

func TestOrdersCmd_JSON(t *testing.T) {
	env := setupTestServices(t)
	env.addItem(t, "jp-visa")
	env.addItem(t, "jp-visa")
	_, _, err := env.cart.Checkout(context.Background())
	require.NoError(t, err)

	out, _, err := run(t, "orders", "--json")
	require.NoError(t, err)

	var summaries []orderSummary
	require.NoError(t, json.Unmarshal([]byte(out), &summaries))
	require.Len(t, summaries, 1)
	assert.Equal(t, "29.98", summaries[0].Total)
	assert.Equal(t, 2, summaries[0].Items)
	assert.Equal(t, "Japan Visa + 1 more", summaries[0].Service)
	assert.Equal(t, "Completed", summaries[0].Status)
}

func TestOrdersExportCmd(t *testing.T) {
	env := setupTestServices(t)
	env.addItem(t, "eu-visa")
	env.addItem(t, "eu-visa")
	order, _, err := env.cart.Checkout(context.Background())
	require.NoError(t, err)

	dest := filepath.Join(env.dir, "export")
	out, _, err := run(t, "orders", "export", order.ID, "-d", dest)

	require.NoError(t, err)
	for _, name := range []string{"35-x-45-mm-quickpass-1.jpg", "35-x-45-mm-quickpass-2.jpg"} {
		assert.Contains(t, out, name)
		_, statErr := os.Stat(filepath.Join(dest, name))
		assert.NoError(t, statErr, name)
	}
}

func TestOrdersExportCmd_UnknownOrder(t *testing.T) {
	setupTestServices(t)

	_, _, err := run(t, "orders", "export", "nope")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
