package order

import (
	"fmt"

	"checkout/internal/pkg/errs"
)

// Status represents the lifecycle state of an order.
// It implements a state machine with defined transitions to ensure
// orders follow the correct fulfillment workflow.
//
// State transitions:
//
//	Pending ──> Processing ──> Shipped ──> Delivered
//	   │             │            │
//	   │             │            └──> Shipped (idempotent re-request)
//	   └─────────────┴──> Canceled
//
// An order starts Pending when payment has not been confirmed and Processing
// when it has. Only an explicit status-update request moves an order forward;
// there is no automatic progression. Repeating the Shipped request is allowed
// so that label issuance stays idempotent.
type Status int

const (
	// Unknown represents an invalid or undefined status.
	// This value (0) helps catch uninitialized Status values.
	Unknown Status = iota

	// Pending is the initial status of an order whose payment has not been
	// confirmed yet.
	Pending

	// Processing indicates payment was confirmed and the order awaits
	// fulfillment.
	Processing

	// Shipped indicates a carrier label was issued and the parcel handed off.
	Shipped

	// Delivered indicates the parcel reached the customer. Final state.
	Delivered

	// Canceled indicates the order was abandoned before shipping. Final state.
	Canceled
)

func getStatusStrings() map[Status]string {
	return map[Status]string{
		Unknown:    "unknown",
		Pending:    "pending",
		Processing: "processing",
		Shipped:    "shipped",
		Delivered:  "delivered",
		Canceled:   "canceled",
	}
}

// StatusFromString parses a status from its lowercase string form, as it
// appears in API requests and in the database.
func StatusFromString(s string) (Status, error) {
	for status, str := range getStatusStrings() {
		if status != Unknown && str == s {
			return status, nil
		}
	}
	return Unknown, errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%q is not a valid order status", s))
}

// String returns the lowercase name of the status, "unknown" for invalid values.
func (s Status) String() string {
	if str, ok := getStatusStrings()[s]; ok {
		return str
	}
	return "unknown"
}

// Validate checks if the Status value is valid.
func (s Status) Validate() error {
	if s != Pending && s != Processing && s != Shipped && s != Delivered && s != Canceled {
		return errs.NewValueIsInvalidErrorWithCause("status", fmt.Errorf("%d is not a valid status", s))
	}
	return nil
}

// allowedTransitions returns the legal target states per current state.
// Shipped->Shipped is permitted so that repeated ship requests are harmless.
func allowedTransitions() map[Status][]Status {
	return map[Status][]Status{
		Pending:    {Processing, Canceled},
		Processing: {Shipped, Canceled},
		Shipped:    {Shipped, Delivered},
		Delivered:  {},
		Canceled:   {},
	}
}

// CanTransitionTo reports whether moving from s to target is legal.
func (s Status) CanTransitionTo(target Status) bool {
	for _, allowed := range allowedTransitions()[s] {
		if allowed == target {
			return true
		}
	}
	return false
}

// Transition moves the status to target.
//
// Returns:
//   - (target, nil) on a legal transition
//   - (0, error) if the transition is not allowed from the current status
func (s Status) Transition(target Status) (Status, error) {
	if err := target.Validate(); err != nil {
		return 0, err
	}
	if !s.CanTransitionTo(target) {
		return 0, errs.NewValueIsInvalidErrorWithCause(
			"status",
			fmt.Errorf("cannot transition from %s to %s", s, target),
		)
	}
	return target, nil
}

// IsTerminal reports whether no further transitions are possible.
func (s Status) IsTerminal() bool {
	return len(allowedTransitions()[s]) == 0
}
