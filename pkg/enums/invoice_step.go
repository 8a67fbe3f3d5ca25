package enums

// InvoiceStep enumerates the invoice builder's wizard steps.
type InvoiceStep string

const (
	InvoiceStepDetails InvoiceStep = "details"
	InvoiceStepItems   InvoiceStep = "items"
	InvoiceStepPreview InvoiceStep = "preview"
)

// String implements fmt.Stringer.
func (s InvoiceStep) String() string {
	return string(s)
}
