package storefront

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/agromart/app/models"
)

// ErrEmptyCart is returned when checking out an empty cart.
var ErrEmptyCart = errors.New("your cart is empty")

const inquiryMessage = "Hello, I want to inquire about your products."

// LimitError is returned when the action limiter refuses a message.
type LimitError struct {
	Decision Decision
}

func (e *LimitError) Error() string {
	secs := int(e.Decision.Remaining.Seconds())
	if e.Decision.Reason == ReasonLimit {
		return fmt.Sprintf("too many attempts, please try again in %ds", secs)
	}
	return fmt.Sprintf("please wait %ds before sending another message", secs)
}

// Order is a ready-to-open WhatsApp checkout.
type Order struct {
	Items   []Item  `json:"items"`
	Total   float64 `json:"total"`
	Message string  `json:"message"`
	URL     string  `json:"url"`
}

// PlaceOrder builds the WhatsApp order for the cart, priced against
// catalog. The limiter is consulted only for a non-empty cart; a nil
// limiter disables throttling.
func PlaceOrder(ctx context.Context, cart *Cart, catalog models.Snapshot, limiter *ActionLimiter) (Order, error) {
	items := cart.Items(catalog)
	if len(items) == 0 {
		return Order{}, ErrEmptyCart
	}
	if limiter != nil {
		if d := limiter.Check(ctx, OrderLimit); !d.Allowed {
			return Order{}, &LimitError{Decision: d}
		}
	}

	total := cart.Summary(catalog).Total
	msg := OrderMessage(items, total)
	return Order{
		Items:   items,
		Total:   total,
		Message: msg,
		URL:     WhatsAppLink(catalog.WhatsAppNumber, msg),
	}, nil
}

// OrderMessage is the checkout text sent to the shop.
func OrderMessage(items []Item, total float64) string {
	var b strings.Builder
	b.WriteString("Hello, I want to order your products:\n\n")
	for _, it := range items {
		fmt.Fprintf(&b, "%s (x%d) – ₹%s\n", it.Name, it.Quantity, formatPrice(it.Subtotal))
	}
	fmt.Fprintf(&b, "\nTotal: ₹%s\n\nPlease confirm.", formatPrice(total))
	return b.String()
}

// InquiryLink is the "need help" chat link, throttled by ChatLimit.
func InquiryLink(ctx context.Context, number string, limiter *ActionLimiter) (string, error) {
	if limiter != nil {
		if d := limiter.Check(ctx, ChatLimit); !d.Allowed {
			return "", &LimitError{Decision: d}
		}
	}
	return WhatsAppLink(number, inquiryMessage), nil
}

// BulkOrderLink asks for a bulk quote on the product's bulk number, or on
// fallback when the product has none.
func BulkOrderLink(p models.Product, fallback string) string {
	number := p.BulkOrderNumber
	if digits(number) == "" {
		number = fallback
	}
	return WhatsAppLink(number, "Hello, I want to order "+p.Name+" in bulk.")
}

// WhatsAppLink is https://wa.me/<digits>?text=<text>, with spaces encoded
// as %20.
func WhatsAppLink(number, text string) string {
	return "https://wa.me/" + digits(number) + "?text=" + strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
}

func digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func formatPrice(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
