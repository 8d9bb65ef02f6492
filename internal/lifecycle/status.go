// Package lifecycle holds the single source of truth for document status
// derivation. Status is a pure function of content presence, expiry date and
// the current day; nothing here touches storage.
package lifecycle

import (
	"time"

	"github.com/supplytrust/compliance-backend/pkg/enums"
)

// DefaultExpiringWindowDays is the policy default for how many days before
// expiry a document is reported as expiring soon.
const DefaultExpiringWindowDays = 60

// Policy carries the tunable lifecycle constants.
type Policy struct {
	ExpiringWindowDays int
}

// DefaultPolicy returns the standard policy.
func DefaultPolicy() Policy {
	return Policy{ExpiringWindowDays: DefaultExpiringWindowDays}
}

func (p Policy) windowDays() int {
	if p.ExpiringWindowDays <= 0 {
		return DefaultExpiringWindowDays
	}
	return p.ExpiringWindowDays
}

// Derive maps content presence and expiry to a lifecycle status.
//
// A document expiring exactly today is already Expired; the boundary is
// inclusive on the expired side and exclusive on the expiring side.
func (p Policy) Derive(hasContent bool, expiryDate *time.Time, today time.Time) enums.DocumentStatus {
	if !hasContent {
		return enums.DocumentStatusPending
	}
	if expiryDate == nil {
		return enums.DocumentStatusUnbounded
	}

	days := DaysUntil(*expiryDate, today)
	switch {
	case days <= 0:
		return enums.DocumentStatusExpired
	case days <= p.windowDays():
		return enums.DocumentStatusExpiringSoon
	default:
		return enums.DocumentStatusActive
	}
}

// Classify maps a lifecycle status to its compliance classification. An
// outstanding placeholder counts against compliance until fulfilled.
func Classify(status enums.DocumentStatus) enums.ComplianceStatus {
	switch status {
	case enums.DocumentStatusActive, enums.DocumentStatusUnbounded:
		return enums.ComplianceStatusCompliant
	case enums.DocumentStatusExpiringSoon:
		return enums.ComplianceStatusPartiallyCompliant
	default:
		return enums.ComplianceStatusNonCompliant
	}
}

// DaysUntil counts whole calendar days from today to the expiry date, both
// truncated to UTC dates. Zero means the expiry date is today.
func DaysUntil(expiry, today time.Time) int {
	e := truncateToDay(expiry)
	t := truncateToDay(today)
	return int(e.Sub(t) / (24 * time.Hour))
}

func truncateToDay(value time.Time) time.Time {
	v := value.UTC()
	return time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)
}
