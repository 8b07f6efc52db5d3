package enums

import "fmt"

// SupportStatus is the lifecycle state of a support request.
type SupportStatus string

const (
	SupportStatusOpen   SupportStatus = "open"
	SupportStatusClosed SupportStatus = "closed"
)

var validSupportStatuses = []SupportStatus{
	SupportStatusOpen,
	SupportStatusClosed,
}

// String implements fmt.Stringer.
func (s SupportStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s SupportStatus) IsValid() bool {
	for _, candidate := range validSupportStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSupportStatus converts raw input into a SupportStatus.
func ParseSupportStatus(value string) (SupportStatus, error) {
	for _, candidate := range validSupportStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid support status %q", value)
}
