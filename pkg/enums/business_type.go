package enums

import "fmt"

// BusinessType tags a vendor profile with its line of business.
type BusinessType string

const (
	BusinessTypeRetail      BusinessType = "retail"
	BusinessTypeServices    BusinessType = "services"
	BusinessTypeFood        BusinessType = "food"
	BusinessTypeFashion     BusinessType = "fashion"
	BusinessTypeElectronics BusinessType = "electronics"
	BusinessTypeOther       BusinessType = "other"
)

var validBusinessTypes = []BusinessType{
	BusinessTypeRetail,
	BusinessTypeServices,
	BusinessTypeFood,
	BusinessTypeFashion,
	BusinessTypeElectronics,
	BusinessTypeOther,
}

// String implements fmt.Stringer.
func (b BusinessType) String() string {
	return string(b)
}

// IsValid reports whether the value is a known BusinessType.
func (b BusinessType) IsValid() bool {
	for _, candidate := range validBusinessTypes {
		if candidate == b {
			return true
		}
	}
	return false
}

// ParseBusinessType converts raw input into a BusinessType.
// Empty input falls back to the retail default.
func ParseBusinessType(value string) (BusinessType, error) {
	if value == "" {
		return BusinessTypeRetail, nil
	}
	for _, candidate := range validBusinessTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid business type %q", value)
}
