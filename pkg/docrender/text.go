package docrender

import (
	"fmt"
	"strings"
)

const linesPerPage = 40

type textRenderer struct{}

// NewTextRenderer returns a plain-text Renderer suitable for print
// previews and email bodies.
func NewTextRenderer() Renderer {
	return textRenderer{}
}

func (textRenderer) Render(doc Document) (Rendered, error) {
	var rows []string

	rows = append(rows, doc.BusinessName)
	rows = append(rows, doc.BusinessInfo...)
	rows = append(rows, "")
	rows = append(rows, fmt.Sprintf("Invoice %s", doc.Number))
	if doc.IssuedOn != "" {
		rows = append(rows, fmt.Sprintf("Date: %s", doc.IssuedOn))
	}
	if doc.DueOn != "" {
		rows = append(rows, fmt.Sprintf("Due: %s", doc.DueOn))
	}
	rows = append(rows, "")
	if doc.ClientName != "" {
		rows = append(rows, fmt.Sprintf("Bill To: %s", doc.ClientName))
		rows = append(rows, doc.ClientInfo...)
		rows = append(rows, "")
	}

	rows = append(rows, fmt.Sprintf("%-40s %8s %12s %12s", "Description", "Qty", "Rate", "Amount"))
	rows = append(rows, strings.Repeat("-", 76))
	for _, line := range doc.Lines {
		rows = append(rows, fmt.Sprintf("%-40s %8s %12s %12s", clip(line.Description, 40), line.Quantity, line.Rate, line.Amount))
	}
	rows = append(rows, strings.Repeat("-", 76))
	rows = append(rows, fmt.Sprintf("%62s %12s", "Subtotal:", doc.Subtotal))
	if doc.TaxLabel != "" {
		rows = append(rows, fmt.Sprintf("%62s %12s", doc.TaxLabel+":", doc.TaxAmount))
	}
	rows = append(rows, fmt.Sprintf("%62s %12s", "Total:", doc.Total))
	if doc.Notes != "" {
		rows = append(rows, "", doc.Notes)
	}

	var pages []string
	for start := 0; start < len(rows); start += linesPerPage {
		end := start + linesPerPage
		if end > len(rows) {
			end = len(rows)
		}
		pages = append(pages, strings.Join(rows[start:end], "\n"))
	}

	return Rendered{
		Filename: Filename(doc.Number, doc.BusinessName) + ".txt",
		Pages:    pages,
	}, nil
}

func clip(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
