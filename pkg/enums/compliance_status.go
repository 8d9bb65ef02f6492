package enums

import "fmt"

// ComplianceStatus is the three-way reporting classification derived from a
// document's lifecycle status.
type ComplianceStatus string

const (
	ComplianceStatusCompliant          ComplianceStatus = "compliant"
	ComplianceStatusPartiallyCompliant ComplianceStatus = "partially_compliant"
	ComplianceStatusNonCompliant       ComplianceStatus = "non_compliant"
)

var validComplianceStatuses = []ComplianceStatus{
	ComplianceStatusCompliant,
	ComplianceStatusPartiallyCompliant,
	ComplianceStatusNonCompliant,
}

// String implements fmt.Stringer.
func (c ComplianceStatus) String() string {
	return string(c)
}

// IsValid reports whether the value matches the canonical compliance status enum.
func (c ComplianceStatus) IsValid() bool {
	for _, candidate := range validComplianceStatuses {
		if candidate == c {
			return true
		}
	}
	return false
}

// ParseComplianceStatus converts the raw string to ComplianceStatus.
func ParseComplianceStatus(value string) (ComplianceStatus, error) {
	for _, candidate := range validComplianceStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid compliance status %q", value)
}
