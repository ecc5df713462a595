package statemachine

import (
	"errors"

	"hav-jeang-api/models"
)

// Transition defines a valid state change and who can perform it
type Transition struct {
	From  models.RequestStatus
	To    models.RequestStatus
	Actor string // "customer" or "mechanic"
}

// validTransitions is the authoritative state machine definition.
// Completing requires prior acceptance; there is no pending → completed
// shortcut. completed and cancelled are terminal.
var validTransitions = []Transition{
	// Mechanic accepts a pending request
	{From: models.StatusPending, To: models.StatusAccepted, Actor: "mechanic"},
	// Customer cancels their own pending request
	{From: models.StatusPending, To: models.StatusCancelled, Actor: "customer"},
	// Mechanic completes an accepted request
	{From: models.StatusAccepted, To: models.StatusCompleted, Actor: "mechanic"},
}

// transitionKey is used to look up valid transitions quickly
type transitionKey struct {
	From  models.RequestStatus
	To    models.RequestStatus
	Actor string
}

// Build a lookup map for O(1) validation
var transitionMap = func() map[transitionKey]bool {
	m := make(map[transitionKey]bool)
	for _, t := range validTransitions {
		m[transitionKey{t.From, t.To, t.Actor}] = true
	}
	return m
}()

// ValidTransitionsFrom returns all valid next states from a given state
func ValidTransitionsFrom(status models.RequestStatus) []models.RequestStatus {
	var nexts []models.RequestStatus
	seen := map[models.RequestStatus]bool{}
	for _, t := range validTransitions {
		if t.From == status && !seen[t.To] {
			nexts = append(nexts, t.To)
			seen[t.To] = true
		}
	}
	return nexts
}

// CanTransition checks if a given actor can move from one state to another
func CanTransition(from, to models.RequestStatus, actor string) error {
	key := transitionKey{From: from, To: to, Actor: actor}
	if transitionMap[key] {
		return nil
	}
	return errors.New(
		"invalid transition: " + string(from) + " -> " + string(to) +
			" is not allowed for actor '" + actor + "'. " +
			"Valid transitions from " + string(from) + " are: " + describeValidFrom(from),
	)
}

func describeValidFrom(status models.RequestStatus) string {
	nexts := ValidTransitionsFrom(status)
	if len(nexts) == 0 {
		return "none (terminal state)"
	}
	result := ""
	for i, s := range nexts {
		if i > 0 {
			result += ", "
		}
		result += string(s)
	}
	return result
}

// GetAllTransitions returns the full state machine for documentation
func GetAllTransitions() []Transition {
	return validTransitions
}
