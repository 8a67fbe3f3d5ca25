package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lipachap/lipachap-backend/pkg/enums"
	"github.com/lipachap/lipachap-backend/pkg/validate"
)

func invoiceSteps() []enums.InvoiceStep {
	return []enums.InvoiceStep{enums.InvoiceStepDetails, enums.InvoiceStepItems, enums.InvoiceStepPreview}
}

func checkoutSteps() []enums.CheckoutStep {
	return []enums.CheckoutStep{enums.CheckoutStepDetails, enums.CheckoutStepPayment, enums.CheckoutStepSuccess}
}

func passGuard() validate.FieldErrors {
	return validate.FieldErrors{}
}

func TestNewRequiresTwoSteps(t *testing.T) {
	_, err := New([]enums.InvoiceStep{enums.InvoiceStepDetails})
	assert.Error(t, err)
}

func TestAdvanceGatedByGuard(t *testing.T) {
	m, err := New(invoiceSteps())
	require.NoError(t, err)
	assert.Equal(t, enums.InvoiceStepDetails, m.Current())

	blocked := func() validate.FieldErrors {
		return validate.FieldErrors{"businessName": "Business name is required"}
	}
	errs, err := m.Advance(blocked)
	require.NoError(t, err)
	assert.False(t, errs.Valid())
	assert.Equal(t, enums.InvoiceStepDetails, m.Current(), "blocked advance must not move")

	errs, err = m.Advance(passGuard)
	require.NoError(t, err)
	assert.True(t, errs.Valid())
	assert.Equal(t, enums.InvoiceStepItems, m.Current())
}

func TestAdvancePermittedIffGuardEmpty(t *testing.T) {
	m, err := New(invoiceSteps())
	require.NoError(t, err)

	for _, result := range []validate.FieldErrors{nil, {}} {
		guard := func() validate.FieldErrors { return result }
		before := m.Current()
		errs, err := m.Advance(guard)
		require.NoError(t, err)
		assert.True(t, errs.Valid())
		assert.NotEqual(t, before, m.Current())
		require.NoError(t, m.Back())
	}
}

func TestFreeBackwardNavigation(t *testing.T) {
	m, err := New(invoiceSteps())
	require.NoError(t, err)
	_, err = m.Advance(nil)
	require.NoError(t, err)
	_, err = m.Advance(nil)
	require.NoError(t, err)
	assert.Equal(t, enums.InvoiceStepPreview, m.Current())

	require.NoError(t, m.GoTo(enums.InvoiceStepDetails))
	assert.Equal(t, enums.InvoiceStepDetails, m.Current())

	assert.Error(t, m.GoTo(enums.InvoiceStepItems), "forward jumps must use Advance")
	assert.Error(t, m.Back(), "cannot back off the first step")
}

func TestAdvancePastTerminalFails(t *testing.T) {
	m, err := New(invoiceSteps())
	require.NoError(t, err)
	_, err = m.Advance(nil)
	require.NoError(t, err)
	_, err = m.Advance(nil)
	require.NoError(t, err)

	_, err = m.Advance(nil)
	assert.Error(t, err)
}

func TestLockedTerminalHasNoBackwardEdge(t *testing.T) {
	m, err := New(checkoutSteps(), WithLockedTerminal())
	require.NoError(t, err)

	_, err = m.Advance(passGuard)
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStepPayment, m.Current())

	// payment -> details backward transition is allowed
	require.NoError(t, m.Back())
	assert.Equal(t, enums.CheckoutStepDetails, m.Current())

	_, err = m.Advance(passGuard)
	require.NoError(t, err)
	_, err = m.Advance(passGuard)
	require.NoError(t, err)
	assert.Equal(t, enums.CheckoutStepSuccess, m.Current())

	assert.Error(t, m.Back(), "no backward transition from success")
	assert.Error(t, m.GoTo(enums.CheckoutStepDetails))

	m.Reset()
	assert.Equal(t, enums.CheckoutStepDetails, m.Current())
}

func TestRestorePositionsWithoutGuards(t *testing.T) {
	m, err := New(invoiceSteps())
	require.NoError(t, err)

	require.NoError(t, m.Restore(enums.InvoiceStepPreview))
	assert.Equal(t, enums.InvoiceStepPreview, m.Current())
	assert.True(t, m.AtTerminal())

	require.NoError(t, m.Restore(enums.InvoiceStepDetails))
	assert.Equal(t, enums.InvoiceStepDetails, m.Current())

	assert.Error(t, m.Restore(enums.InvoiceStep("shipping")))
}
