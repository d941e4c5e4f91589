package statemachine

import (
	"errors"
	"fmt"
	"strings"

	"cravecart-api/models"
)

// Actor identifies who is asking for a transition
type Actor string

const (
	ActorStaff    Actor = "staff" // restaurant owners and admins
	ActorCustomer Actor = "customer"
)

// ErrInvalidTransition is wrapped by every error CanTransition returns
var ErrInvalidTransition = errors.New("invalid transition")

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.OrderStatus `json:"from"`
	To    models.OrderStatus `json:"to"`
	Actor Actor              `json:"actor"`
}

// validTransitions is the authoritative state machine definition
var validTransitions = []Transition{
	// Kitchen picks the order up
	{From: models.StatusPending, To: models.StatusPreparing, Actor: ActorStaff},
	{From: models.StatusPreparing, To: models.StatusOutForDelivery, Actor: ActorStaff},
	{From: models.StatusOutForDelivery, To: models.StatusDelivered, Actor: ActorStaff},
	// Staff can cancel anything that has not reached a terminal state
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorStaff},
	{From: models.StatusPreparing, To: models.StatusCancelled, Actor: ActorStaff},
	{From: models.StatusOutForDelivery, To: models.StatusCancelled, Actor: ActorStaff},
	// Customers may only withdraw an order nobody has started on
	{From: models.StatusPending, To: models.StatusCancelled, Actor: ActorCustomer},
}

type transitionKey struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.OrderStatus) []models.OrderStatus {
	nexts := []models.OrderStatus{}
	seen := map[models.OrderStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// IsTerminal reports whether no transition leaves the status
func IsTerminal(status models.OrderStatus) bool {
	return len(ValidTransitionsFrom(status)) == 0
}

// TransitionError describes a rejected status change
type TransitionError struct {
	From  models.OrderStatus
	To    models.OrderStatus
	Actor Actor
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("%s -> %s is not allowed for %s. Valid transitions from %s are: %s",
		e.From, e.To, e.Actor, e.From, describeValidFrom(e.From))
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.OrderStatus, actor Actor) error {
	if transitionMap[transitionKey{From: from, To: to, Actor: actor}] {
		return nil
	}
	return &TransitionError{From: from, To: to, Actor: actor}
}

func describeValidFrom(status models.OrderStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	names := make([]string, len(nexts))
	for i, s := range nexts {
		names[i] = string(s)
	}
	return strings.Join(names, ", ")
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	out := make([]Transition, len(validTransitions))
	copy(out, validTransitions)
	return out
}
