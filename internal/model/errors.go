package model

import "errors"

// Common errors used across the application
var (
	// Session errors
	ErrUnauthenticated = errors.New("session is not authenticated")
	ErrNoStoredSession = errors.New("no stored session")

	// Match errors
	ErrMatchNotFound     = errors.New("match not found")
	ErrJoinRejected      = errors.New("could not join match")
	ErrPlacementRejected = errors.New("server rejected placement")
	ErrInviteRejected    = errors.New("invite rejected")

	// Placement interaction errors
	ErrWrongPhase       = errors.New("match is not in setup")
	ErrNoShipSelected   = errors.New("no ship selected")
	ErrNothingStaged    = errors.New("no placement staged")
	ErrPlacementPending = errors.New("a staged placement awaits confirmation")
	ErrConfirmInFlight  = errors.New("confirmation already in flight")

	// Transport errors
	ErrNotConnected    = errors.New("push transport is not connected")
	ErrNotInMatch      = errors.New("not currently in a match")
	ErrTransportClosed = errors.New("push transport closed")
)
