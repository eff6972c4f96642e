package domain

import "time"

// Contract tracks a vendor agreement and its expiry window.
type Contract struct {
	ID                   string
	CompanyName          string
	ContractNumber       string
	ProductOrServiceName string
	ContractValue        float64
	StartDate            time.Time
	RenewalOrExpiryDate  time.Time
	EndDate              *time.Time
	Description          *string
	// ExpiryNotificationDays is how many days before expiry the contract
	// should start showing up as expiring.
	ExpiryNotificationDays int
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

// IsExpiringAt reports whether the contract falls inside its notification
// window at the given instant: now <= expiry <= now + notification days.
func (c *Contract) IsExpiringAt(now time.Time) bool {
	if c.RenewalOrExpiryDate.Before(now) {
		return false
	}
	cutoff := now.AddDate(0, 0, c.ExpiryNotificationDays)
	return !c.RenewalOrExpiryDate.After(cutoff)
}
