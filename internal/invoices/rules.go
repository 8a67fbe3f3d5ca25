package invoices

import (
	"github.com/lipachap/lipachap-backend/pkg/enums"
	"github.com/lipachap/lipachap-backend/pkg/validate"
)

// detailsErrors is the step-one ruleset: the parties on the invoice.
func detailsErrors(d *InvoiceDraft) validate.FieldErrors {
	fe := validate.FieldErrors{}
	validate.RequireString(fe, "businessName", "Business name", d.BusinessName)
	validate.RequireString(fe, "clientName", "Client name", d.ClientName)
	return fe
}

// itemsErrors is the step-two ruleset: the line item rows.
func itemsErrors(d *InvoiceDraft) validate.FieldErrors {
	fe := validate.FieldErrors{}
	validate.CheckRows(fe, d.rows())
	return fe
}

// finalizeErrors runs every ruleset; a draft may only become an invoice
// when all steps pass.
func finalizeErrors(d *InvoiceDraft) validate.FieldErrors {
	fe := detailsErrors(d)
	fe.Merge(itemsErrors(d))
	return fe
}

// stepGuard returns the ruleset gating departure from a step. The
// preview step has no forward edge, so no guard exists for it.
func stepGuard(step enums.InvoiceStep, d *InvoiceDraft) validate.FieldErrors {
	switch step {
	case enums.InvoiceStepDetails:
		return detailsErrors(d)
	case enums.InvoiceStepItems:
		return itemsErrors(d)
	default:
		return validate.FieldErrors{}
	}
}
