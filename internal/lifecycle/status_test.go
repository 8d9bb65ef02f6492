package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/supplytrust/compliance-backend/pkg/enums"
)

var today = time.Date(2026, 3, 10, 14, 30, 0, 0, time.UTC)

func datePtr(value time.Time) *time.Time {
	return &value
}

func TestDerivePlaceholderIsPending(t *testing.T) {
	policy := DefaultPolicy()
	assert.Equal(t, enums.DocumentStatusPending, policy.Derive(false, nil, today))
	// an expiry date on a placeholder does not change anything
	assert.Equal(t, enums.DocumentStatusPending, policy.Derive(false, datePtr(today.AddDate(1, 0, 0)), today))
}

func TestDeriveNoExpiryIsUnbounded(t *testing.T) {
	assert.Equal(t, enums.DocumentStatusUnbounded, DefaultPolicy().Derive(true, nil, today))
}

func TestDeriveExpiryBoundaries(t *testing.T) {
	policy := DefaultPolicy()
	cases := []struct {
		name   string
		offset int
		want   enums.DocumentStatus
	}{
		{"expired long ago", -400, enums.DocumentStatusExpired},
		{"expired yesterday", -1, enums.DocumentStatusExpired},
		{"expires today", 0, enums.DocumentStatusExpired},
		{"expires tomorrow", 1, enums.DocumentStatusExpiringSoon},
		{"one day inside the window", 59, enums.DocumentStatusExpiringSoon},
		{"window edge is still expiring", 60, enums.DocumentStatusExpiringSoon},
		{"one day past the window", 61, enums.DocumentStatusActive},
		{"far future", 400, enums.DocumentStatusActive},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			expiry := today.AddDate(0, 0, tc.offset)
			assert.Equal(t, tc.want, policy.Derive(true, &expiry, today))
		})
	}
}

func TestDeriveIsStableAcrossSameDayEvaluations(t *testing.T) {
	policy := DefaultPolicy()
	expiry := today.AddDate(0, 0, 120)

	morning := time.Date(2026, 3, 10, 0, 5, 0, 0, time.UTC)
	evening := time.Date(2026, 3, 10, 23, 55, 0, 0, time.UTC)

	assert.Equal(t, policy.Derive(true, &expiry, morning), policy.Derive(true, &expiry, evening))
}

func TestDeriveHonorsConfiguredWindow(t *testing.T) {
	policy := Policy{ExpiringWindowDays: 14}
	expiry := today.AddDate(0, 0, 30)
	assert.Equal(t, enums.DocumentStatusActive, policy.Derive(true, &expiry, today))

	near := today.AddDate(0, 0, 14)
	assert.Equal(t, enums.DocumentStatusExpiringSoon, policy.Derive(true, &near, today))
}

func TestClassify(t *testing.T) {
	assert.Equal(t, enums.ComplianceStatusCompliant, Classify(enums.DocumentStatusActive))
	assert.Equal(t, enums.ComplianceStatusCompliant, Classify(enums.DocumentStatusUnbounded))
	assert.Equal(t, enums.ComplianceStatusPartiallyCompliant, Classify(enums.DocumentStatusExpiringSoon))
	assert.Equal(t, enums.ComplianceStatusNonCompliant, Classify(enums.DocumentStatusExpired))
	assert.Equal(t, enums.ComplianceStatusNonCompliant, Classify(enums.DocumentStatusPending))
}

func TestDaysUntilIgnoresTimeOfDay(t *testing.T) {
	expiry := time.Date(2026, 3, 11, 0, 1, 0, 0, time.UTC)
	now := time.Date(2026, 3, 10, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, 1, DaysUntil(expiry, now))
	assert.Equal(t, 0, DaysUntil(now, now))
}
