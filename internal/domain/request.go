package domain

import "time"

// RequestStatus enumerates lifecycle states for tool-development requests.
type RequestStatus string

const (
	RequestStatusPendingReview      RequestStatus = "PENDING_REVIEW"
	RequestStatusUnderConsideration RequestStatus = "UNDER_CONSIDERATION"
	RequestStatusInDevelopment      RequestStatus = "IN_DEVELOPMENT"
	RequestStatusInTesting          RequestStatus = "IN_TESTING"
	RequestStatusCompleted          RequestStatus = "COMPLETED"
	RequestStatusBeyondCapacity     RequestStatus = "BEYOND_CAPACITY"
)

// RequestType categorizes what kind of digital tool is being asked for.
type RequestType string

const (
	RequestTypeCalculator        RequestType = "CALCULATOR"
	RequestTypeDataDashboard     RequestType = "DATA_DASHBOARD"
	RequestTypeFormDigitization  RequestType = "FORM_DIGITIZATION"
	RequestTypeProcessAutomation RequestType = "PROCESS_AUTOMATION"
	RequestTypeOther             RequestType = "OTHER"
)

// Request is the aggregate for digital tool development requests.
type Request struct {
	ID               string
	RequestKey       string
	UserID           string
	Department       string
	PainPoint        string
	CurrentWorkflow  string
	ExpectedTechHelp string
	RequestType      RequestType
	Status           RequestStatus
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// AllowedTransitions maps each status to the statuses an admin may move it to.
// BEYOND_CAPACITY is reachable from every non-terminal state and can be
// reopened for reconsideration. COMPLETED is terminal.
var AllowedTransitions = map[RequestStatus][]RequestStatus{
	RequestStatusPendingReview:      {RequestStatusUnderConsideration, RequestStatusBeyondCapacity},
	RequestStatusUnderConsideration: {RequestStatusInDevelopment, RequestStatusBeyondCapacity},
	RequestStatusInDevelopment:      {RequestStatusInTesting, RequestStatusBeyondCapacity},
	RequestStatusInTesting:          {RequestStatusInDevelopment, RequestStatusCompleted, RequestStatusBeyondCapacity},
	RequestStatusCompleted:          {},
	RequestStatusBeyondCapacity:     {RequestStatusUnderConsideration},
}

// CanTransition reports whether moving from current to next is legal.
func CanTransition(current, next RequestStatus) bool {
	for _, candidate := range AllowedTransitions[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ValidRequestStatus reports whether the value names a known status.
func ValidRequestStatus(value RequestStatus) bool {
	_, ok := AllowedTransitions[value]
	return ok
}
