package enums

import "fmt"

// AgentStatus tracks a listing through the moderation lifecycle.
type AgentStatus string

const (
	AgentStatusDraft       AgentStatus = "draft"
	AgentStatusUnderReview AgentStatus = "under_review"
	AgentStatusApproved    AgentStatus = "approved"
	AgentStatusRejected    AgentStatus = "rejected"
	AgentStatusArchived    AgentStatus = "archived"
)

var validAgentStatuses = []AgentStatus{
	AgentStatusDraft,
	AgentStatusUnderReview,
	AgentStatusApproved,
	AgentStatusRejected,
	AgentStatusArchived,
}

// String implements fmt.Stringer.
func (s AgentStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is known.
func (s AgentStatus) IsValid() bool {
	for _, candidate := range validAgentStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseAgentStatus converts raw input into an AgentStatus.
func ParseAgentStatus(value string) (AgentStatus, error) {
	for _, candidate := range validAgentStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid agent status %q", value)
}
