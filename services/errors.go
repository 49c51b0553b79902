package services

import "errors"

// Shared errors used across services and the HTTP mapping.
var (
	ErrNotFound         = errors.New("requested resource not found")
	ErrValidationFailed = errors.New("validation failed")

	// Auth
	ErrAuthInvalidCredentials = errors.New("invalid email or password")
	ErrAuthEmailTaken         = errors.New("email is already taken")
	ErrPasswordTooShort       = errors.New("password is too short")

	// Players
	ErrPlayerNameRequired  = errors.New("player name is required")
	ErrPlayerNameConflict  = errors.New("player name is already in use")
	ErrPlayerInActiveEvent = errors.New("player is seated in an active event")
	ErrPlayerNotFound      = errors.New("player not found")

	// Events and rounds
	ErrEventNotFound           = errors.New("event not found")
	ErrEventNotActive          = errors.New("event is not active")
	ErrEventAlreadyClosed      = errors.New("event is already closed")
	ErrEventNameRequired       = errors.New("event name is required")
	ErrEventInvalidRounds      = errors.New("event round count must be positive")
	ErrEventInvalidRoundTime   = errors.New("event round time must be positive")
	ErrParticipantListTooSmall = errors.New("an event needs at least two participants")
	ErrRoundAlreadyStarted     = errors.New("round one has already been generated")
	ErrAllRoundsPlayed         = errors.New("all scheduled rounds have been played")
	ErrRoundNotScored          = errors.New("current round still has unreported results")
	ErrInvalidReopenRound      = errors.New("reopen round must be between 1 and the last played round")

	// Scores
	ErrMatchNotFound     = errors.New("match not found")
	ErrScoreOutOfRange   = errors.New("game scores must be between 0 and 2")
	ErrScoreBothMaxed    = errors.New("both players cannot win two games")
	ErrByeScoreImmutable = errors.New("bye results cannot be edited")
	ErrMatchNotInCurrent = errors.New("only current-round results can be edited")

	// Leagues
	ErrLeagueNotFound    = errors.New("league not found")
	ErrLeagueAlreadyOpen = errors.New("another league is still open")
)
