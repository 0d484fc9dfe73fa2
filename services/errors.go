package services

import "errors"

// Общие ошибки, используемые в разных сервисах и маппинге HTTP.
var (
	ErrNotFound = errors.New("requested resource not found")

	ErrValidationFailed = errors.New("validation failed")

	ErrCompetitionNotFound     = errors.New("competition not found")
	ErrCompetitionNameConflict = errors.New("competition name already exists")
	ErrCompetitionCompleted    = errors.New("competition is already completed")
	ErrCompetitionNameRequired = errors.New("competition name is required")

	ErrRatingNotFound      = errors.New("member has no rating in this category")
	ErrSameMember          = errors.New("a member cannot play against themselves")
	ErrMemberNotInLeague   = errors.New("member is not part of this league")
	ErrZeroAdjustment      = errors.New("point adjustment amount must not be zero")
	ErrRoundNotFound       = errors.New("league round not found")
	ErrMatchNotInRound     = errors.New("match does not belong to this round")
	ErrInvalidMatchPoints  = errors.New("match points must not be negative")
	ErrStandingsNotReady   = errors.New("competition has no final standings yet")
	ErrEmptyResults        = errors.New("at least one result is required")
	ErrInvalidRatingWindow = errors.New("limit and offset must not be negative")
)
