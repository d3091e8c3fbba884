package domain

import (
	"fmt"
	"slices"
	"strings"
)

type Status string

const (
	StatusPending        Status = "Pending"
	StatusProcessing     Status = "Processing"
	StatusOutForDelivery Status = "OutForDelivery"
	StatusCompleted      Status = "Completed"
	StatusCancelled      Status = "Cancelled"
)

var AllStatuses = []Status{
	StatusPending,
	StatusProcessing,
	StatusOutForDelivery,
	StatusCompleted,
	StatusCancelled,
}

// Terminal states have no outgoing edges.
var statusTransitions = map[Status][]Status{
	StatusPending:        {StatusProcessing, StatusCancelled},
	StatusProcessing:     {StatusOutForDelivery, StatusCancelled},
	StatusOutForDelivery: {StatusCompleted},
}

func ParseStatus(s string) (Status, error) {
	s = strings.TrimSpace(s)
	for _, st := range AllStatuses {
		if strings.EqualFold(s, string(st)) {
			return st, nil
		}
	}
	return "", fmt.Errorf("%w: unknown order status %q", ErrValidation, s)
}

func (s Status) Valid() bool {
	return slices.Contains(AllStatuses, s)
}

func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransitionTo reports whether target is reachable from s in one step.
// Self transitions are not legal.
func (s Status) CanTransitionTo(target Status) bool {
	return slices.Contains(statusTransitions[s], target)
}
