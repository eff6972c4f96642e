package domain

import (
	"testing"
	"time"
)

func TestContractIsExpiringAt(t *testing.T) {
	now := time.Date(2025, time.March, 15, 12, 0, 0, 0, time.UTC)
	cases := []struct {
		name       string
		expiry     time.Time
		notifyDays int
		want       bool
	}{
		{"already expired", now.AddDate(0, 0, -1), 30, false},
		{"expires right now", now, 30, true},
		{"inside window", now.AddDate(0, 0, 10), 30, true},
		{"at window edge", now.AddDate(0, 0, 30), 30, true},
		{"beyond window", now.AddDate(0, 0, 31), 30, false},
		{"zero notification days, future expiry", now.AddDate(0, 0, 1), 0, false},
		{"zero notification days, expires now", now, 0, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c := &Contract{RenewalOrExpiryDate: tc.expiry, ExpiryNotificationDays: tc.notifyDays}
			if got := c.IsExpiringAt(now); got != tc.want {
				t.Fatalf("IsExpiringAt = %v, want %v", got, tc.want)
			}
		})
	}
}
