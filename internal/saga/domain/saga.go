// Package domain contains the saga state machine entities and the transition
// table that governs wallet lifecycle progress.
package domain

import (
	"fmt"
	"time"
)

// State represents a saga state
type State string

// Saga states
const (
	StateInitial          State = "INITIAL"
	StateWalletCreated    State = "WALLET_CREATED"
	StateFundsAdded       State = "FUNDS_ADDED"
	StateFundsWithdrawn   State = "FUNDS_WITHDRAWN"
	StateFundsTransferred State = "FUNDS_TRANSFERRED"
	StateCompleted        State = "COMPLETED"
	StateFailed           State = "FAILED"
)

// Event represents a saga event
type Event string

// Saga events
const (
	EventWalletCreated    Event = "WALLET_CREATED"
	EventFundsAdded       Event = "FUNDS_ADDED"
	EventFundsWithdrawn   Event = "FUNDS_WITHDRAWN"
	EventFundsTransferred Event = "FUNDS_TRANSFERRED"
	EventSagaCompleted    Event = "SAGA_COMPLETED"
	EventSagaFailed       Event = "SAGA_FAILED"
)

// transitionKey identifies one cell of the transition table.
type transitionKey struct {
	state State
	event Event
}

// transitions is the complete transition table. The happy path advances one
// state per event; any non-terminal state accepts EventSagaFailed. Pairs not
// listed here are undefined and leave the saga untouched.
var transitions = map[transitionKey]State{
	{StateInitial, EventWalletCreated}:           StateWalletCreated,
	{StateWalletCreated, EventFundsAdded}:        StateFundsAdded,
	{StateFundsAdded, EventFundsWithdrawn}:       StateFundsWithdrawn,
	{StateFundsWithdrawn, EventFundsTransferred}: StateFundsTransferred,
	{StateFundsTransferred, EventSagaCompleted}:  StateCompleted,

	{StateInitial, EventSagaFailed}:          StateFailed,
	{StateWalletCreated, EventSagaFailed}:    StateFailed,
	{StateFundsAdded, EventSagaFailed}:       StateFailed,
	{StateFundsWithdrawn, EventSagaFailed}:   StateFailed,
	{StateFundsTransferred, EventSagaFailed}: StateFailed,
}

// Next returns the state reached by applying event in the given state. The
// second return value reports whether the pair is defined in the transition
// table.
func Next(state State, event Event) (State, bool) {
	next, ok := transitions[transitionKey{state: state, event: event}]
	return next, ok
}

// Terminal reports whether a saga in this state accepts no further events.
func Terminal(state State) bool {
	return state == StateCompleted || state == StateFailed
}

// Instance is a persisted saga keyed by correlation id. Each correlation id
// owns exactly one instance; its State advances through the transition table
// as consumers deliver events.
type Instance struct {
	CorrelationID string    `json:"correlation_id"`
	State         State     `json:"state"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// FailoverKey builds the correlation key used when an event arrives without a
// correlation id. Keying by the wallet subject keeps the resulting FAILED saga
// addressable for inspection.
func FailoverKey(walletID string) string {
	return fmt.Sprintf("wallet:%s", walletID)
}
