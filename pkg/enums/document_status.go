package enums

import "fmt"

// DocumentStatus is the derived lifecycle state of a document. It is a pure
// function of content presence and expiry date, cached on the documents row
// for filtering and display.
type DocumentStatus string

const (
	// DocumentStatusPending marks a placeholder with no uploaded content yet.
	DocumentStatusPending DocumentStatus = "pending"
	// DocumentStatusActive marks content whose expiry is comfortably in the future.
	DocumentStatusActive DocumentStatus = "active"
	// DocumentStatusUnbounded marks content with no expiry date at all.
	DocumentStatusUnbounded DocumentStatus = "unbounded"
	// DocumentStatusExpiringSoon marks content expiring within the policy window.
	DocumentStatusExpiringSoon DocumentStatus = "expiring_soon"
	// DocumentStatusExpired marks content whose expiry date has passed (inclusive of today).
	DocumentStatusExpired DocumentStatus = "expired"
)

var validDocumentStatuses = []DocumentStatus{
	DocumentStatusPending,
	DocumentStatusActive,
	DocumentStatusUnbounded,
	DocumentStatusExpiringSoon,
	DocumentStatusExpired,
}

// String implements fmt.Stringer.
func (d DocumentStatus) String() string {
	return string(d)
}

// IsValid reports whether the value matches the canonical document status enum.
func (d DocumentStatus) IsValid() bool {
	for _, candidate := range validDocumentStatuses {
		if candidate == d {
			return true
		}
	}
	return false
}

// ParseDocumentStatus converts the raw string to DocumentStatus.
func ParseDocumentStatus(value string) (DocumentStatus, error) {
	for _, candidate := range validDocumentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid document status %q", value)
}
