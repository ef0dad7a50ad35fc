package storefront_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/agromart/app/models"
	"github.com/shashiranjanraj/agromart/app/storefront"
	"github.com/shashiranjanraj/agromart/pkg/kv"
)

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }
func (c *clock) advance(d time.Duration) { c.t = c.t.Add(d) }
func newClock() *clock { return &clock{t: time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)} }
func limiterAt(c *clock, s kv.Store) *storefront.ActionLimiter {
	return storefront.NewActionLimiter(s).WithClock(c.now)
}

func TestActionLimiterCooldown(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	l := limiterAt(c, kv.NewMemory())

	assert.True(t, l.Check(ctx, storefront.OrderLimit).Allowed)

	c.advance(20*time.Second + 500*time.Millisecond)
	d := l.Check(ctx, storefront.OrderLimit)
	assert.False(t, d.Allowed)
	assert.Equal(t, storefront.ReasonCooldown, d.Reason)
	assert.Equal(t, 40*time.Second, d.Remaining)

	// another action type has its own bookkeeping
	assert.True(t, l.Check(ctx, storefront.ChatLimit).Allowed)

	c.advance(40 * time.Second)
	assert.True(t, l.Check(ctx, storefront.OrderLimit).Allowed)
}

func TestActionLimiterWindow(t *testing.T) {
	ctx := context.Background()
	c := newClock()
	l := limiterAt(c, kv.NewMemory())

	for i := 0; i < 5; i++ {
		require.True(t, l.Check(ctx, storefront.ChatLimit).Allowed, "attempt %d", i+1)
		c.advance(2 * time.Minute)
	}

	d := l.Check(ctx, storefront.ChatLimit)
	assert.False(t, d.Allowed)
	assert.Equal(t, storefront.ReasonLimit, d.Reason)
	// first attempt was 10 minutes ago
	assert.Equal(t, 50*time.Minute, d.Remaining)

	c.advance(50 * time.Minute)
	assert.True(t, l.Check(ctx, storefront.ChatLimit).Allowed)
}

func TestActionLimiterIgnoresCorruptState(t *testing.T) {
	ctx := context.Background()
	store := kv.NewMemory()
	require.NoError(t, store.Set(ctx, "agro_cooldown_chat", []byte("yesterday")))
	require.NoError(t, store.Set(ctx, "agro_history_chat", []byte("{")))

	assert.True(t, limiterAt(newClock(), store).Check(ctx, storefront.ChatLimit).Allowed)
}

func TestActionLimiterFailsOpen(t *testing.T) {
	ctx := context.Background()
	l := limiterAt(newClock(), brokenKV{})
	for i := 0; i < 10; i++ {
		assert.True(t, l.Check(ctx, storefront.ChatLimit).Allowed)
	}
}

func TestOrderMessage(t *testing.T) {
	items := []storefront.Item{
		{Name: "Urea Fertilizer 50kg Bag", Quantity: 2, Subtotal: 1998},
		{Name: "Neem Oil Organic Pesticide 1L", Quantity: 1, Subtotal: 379},
	}
	want := "Hello, I want to order your products:\n\n" +
		"Urea Fertilizer 50kg Bag (x2) – ₹1998\n" +
		"Neem Oil Organic Pesticide 1L (x1) – ₹379\n" +
		"\nTotal: ₹2377\n\nPlease confirm."
	assert.Equal(t, want, storefront.OrderMessage(items, 2377))
}

func TestPlaceOrder(t *testing.T) {
	ctx := context.Background()
	catalog := models.DemoSnapshot()
	c := newClock()
	l := limiterAt(c, kv.NewMemory())

	cart := storefront.NewCart(ctx, kv.NewMemory())
	_, err := storefront.PlaceOrder(ctx, cart, catalog, l)
	assert.ErrorIs(t, err, storefront.ErrEmptyCart)

	cart.Add(ctx, 2, nil)
	cart.Add(ctx, 2, nil)
	order, err := storefront.PlaceOrder(ctx, cart, catalog, l)
	require.NoError(t, err)
	assert.Equal(t, float64(1998), order.Total)
	assert.True(t, strings.HasPrefix(order.URL, "https://wa.me/919316424006?text="))
	assert.NotContains(t, order.URL, "+")

	u, err := url.Parse(order.URL)
	require.NoError(t, err)
	assert.Equal(t, order.Message, u.Query().Get("text"))

	c.advance(10 * time.Second)
	_, err = storefront.PlaceOrder(ctx, cart, catalog, l)
	var limitErr *storefront.LimitError
	require.True(t, errors.As(err, &limitErr))
	assert.Equal(t, "please wait 50s before sending another message", err.Error())
}

func TestInquiryAndBulkLinks(t *testing.T) {
	ctx := context.Background()
	link, err := storefront.InquiryLink(ctx, "+91 93164-24006", nil)
	require.NoError(t, err)
	assert.Equal(t, "https://wa.me/919316424006?text=Hello%2C%20I%20want%20to%20inquire%20about%20your%20products.", link)

	p := models.Product{Name: "Urea"}
	assert.Equal(t, "https://wa.me/911112223334?text=Hello%2C%20I%20want%20to%20order%20Urea%20in%20bulk.",
		storefront.BulkOrderLink(p, "911112223334"))
	p.BulkOrderNumber = "91 555"
	assert.Contains(t, storefront.BulkOrderLink(p, "911112223334"), "wa.me/91555?")
}

func TestLimitErrorMessages(t *testing.T) {
	err := &storefront.LimitError{Decision: storefront.Decision{Reason: storefront.ReasonLimit, Remaining: 90 * time.Second}}
	assert.Equal(t, "too many attempts, please try again in 90s", err.Error())
}
