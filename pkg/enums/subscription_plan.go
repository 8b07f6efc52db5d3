package enums

import "fmt"

// SubscriptionPlan identifies which pricing generation a subscriber is on.
// Legacy subscribers keep access under grandfathered terms.
type SubscriptionPlan string

const (
	SubscriptionPlanStandard SubscriptionPlan = "standard"
	SubscriptionPlanLegacy   SubscriptionPlan = "legacy"
)

var validSubscriptionPlans = []SubscriptionPlan{
	SubscriptionPlanStandard,
	SubscriptionPlanLegacy,
}

// String implements fmt.Stringer.
func (p SubscriptionPlan) String() string {
	return string(p)
}

// IsValid reports whether the value is known.
func (p SubscriptionPlan) IsValid() bool {
	for _, candidate := range validSubscriptionPlans {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParseSubscriptionPlan converts raw input into a SubscriptionPlan.
func ParseSubscriptionPlan(value string) (SubscriptionPlan, error) {
	for _, candidate := range validSubscriptionPlans {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid subscription plan %q", value)
}
