// Package docrender turns finalized documents into printable output.
// The core only depends on the Renderer interface; concrete renderers
// are boundary collaborators.
package docrender

import (
	"strings"
	"unicode"
)

// Line is one printable row of a document body.
type Line struct {
	Description string
	Quantity    string
	Rate        string
	Amount      string
}

// Document is the renderer-agnostic shape of a finalized invoice or
// order receipt.
type Document struct {
	Number       string
	BusinessName string
	BusinessInfo []string
	ClientName   string
	ClientInfo   []string
	IssuedOn     string
	DueOn        string
	Lines        []Line
	Subtotal     string
	TaxLabel     string
	TaxAmount    string
	Total        string
	Notes        string
}

// Rendered is the printable output plus its suggested filename.
type Rendered struct {
	Filename string
	Pages    []string
}

// Renderer produces a paginated printable representation of a document.
type Renderer interface {
	Render(doc Document) (Rendered, error)
}

// Filename derives a short filename stem from the document number and
// business name, normalizing every non-alphanumeric run to a single
// underscore.
func Filename(number, businessName string) string {
	stem := normalize(number)
	if name := normalize(businessName); name != "" {
		if stem != "" {
			stem += "_"
		}
		stem += name
	}
	if stem == "" {
		return "document"
	}
	return stem
}

func normalize(raw string) string {
	var b strings.Builder
	lastUnderscore := true
	for _, r := range raw {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastUnderscore = false
			continue
		}
		if !lastUnderscore {
			b.WriteByte('_')
			lastUnderscore = true
		}
	}
	return strings.Trim(b.String(), "_")
}
