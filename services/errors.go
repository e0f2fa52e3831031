package services

import "errors"

// Shared sentinel errors, mapped to HTTP statuses in the handlers package.
var (
	ErrNotFound = errors.New("requested resource not found")

	// Validation and business rules
	ErrValidationFailed     = errors.New("validation failed")
	ErrPasswordTooShort     = errors.New("password is too short")
	ErrPlayerNameRequired   = errors.New("player name is required")
	ErrTournamentNameReq    = errors.New("tournament name is required")
	ErrInvalidFormat        = errors.New("invalid tournament format")
	ErrInvalidStatusChange  = errors.New("invalid tournament status transition")
	ErrEnrollmentClosed     = errors.New("players can only be added before the tournament starts")
	ErrNotEnoughPlayers     = errors.New("at least two enrolled players are required")
	ErrTournamentNotOngoing = errors.New("tournament is not ongoing")
	ErrNoRoundsGenerated    = errors.New("tournament has no rounds yet")
	ErrRoundNotCompleted    = errors.New("current round is not complete")
	ErrNotCurrentRound      = errors.New("only the most recent round can be deleted")
	ErrTournamentCannotEnd  = errors.New("tournament does not satisfy the end conditions")
	ErrMatchNotInTournament = errors.New("match does not belong to this tournament")

	// Authentication and authorization
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrForbiddenOperation     = errors.New("operation not allowed for the current user")

	// Entity-specific not-found errors (more context than ErrNotFound)
	ErrUserNotFound       = errors.New("user not found")
	ErrPlayerNotFound     = errors.New("player not found")
	ErrTournamentNotFound = errors.New("tournament not found")
	ErrRoundNotFound      = errors.New("round not found")
	ErrMatchNotFound      = errors.New("match not found")

	// Conflicts
	ErrUserEmailConflict      = errors.New("email address is already in use")
	ErrTournamentNameConflict = errors.New("tournament name already exists for this organizer")
	ErrPlayerAlreadyEnrolled  = errors.New("player is already enrolled in this tournament")
	ErrPlayerInUse            = errors.New("player is referenced by tournament data")
	ErrTournamentInUse        = errors.New("tournament still has dependent data")
)
