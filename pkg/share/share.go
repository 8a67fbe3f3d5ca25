// Package share composes shareable payment and invoice messages. Share
// failures are reported as values; nothing in here can take the process
// down.
package share

import (
	"fmt"
	"net/url"
	"strings"

	"go.uber.org/multierr"
)

// Payload is the title/text/link triple handed to a share channel.
type Payload struct {
	Title string
	Text  string
	URL   string
}

// Channel delivers a payload to one share surface (native sheet,
// clipboard, pre-templated message).
type Channel interface {
	Name() string
	Share(payload Payload) error
}

// Result reports which channel accepted the payload.
type Result struct {
	Channel string
}

// Notify walks the channel fallback chain in order and stops at the
// first success. All failures are aggregated into the returned error so
// the caller can surface one dismissable notification.
func Notify(payload Payload, channels ...Channel) (Result, error) {
	var failures error
	for _, channel := range channels {
		if channel == nil {
			continue
		}
		if err := channel.Share(payload); err != nil {
			failures = multierr.Append(failures, fmt.Errorf("%s: %w", channel.Name(), err))
			continue
		}
		return Result{Channel: channel.Name()}, nil
	}
	if failures == nil {
		failures = fmt.Errorf("no share channel available")
	}
	return Result{}, failures
}

// WhatsAppLink builds a wa.me deep link carrying a pre-filled message.
// Phone input keeps digits only; a leading 0 is rewritten to the Kenyan
// country code the way the storefront does.
func WhatsAppLink(phone, text string) string {
	digits := digitsOnly(phone)
	if strings.HasPrefix(digits, "0") {
		digits = "254" + digits[1:]
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", digits, url.QueryEscape(text))
}

// OrderMessage templates the WhatsApp confirmation sent after checkout.
func OrderMessage(businessName, orderNumber, total, pageURL string) string {
	return fmt.Sprintf(
		"Thank you for your order from %s!\nOrder %s\nTotal: %s\nView your receipt: %s",
		businessName, orderNumber, total, pageURL,
	)
}

// InvoiceMessage templates the WhatsApp message used to send an invoice.
func InvoiceMessage(businessName, invoiceNumber, total string) string {
	return fmt.Sprintf(
		"Invoice %s from %s\nAmount due: %s\nSent via LipaChap",
		invoiceNumber, businessName, total,
	)
}

func digitsOnly(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
