package service

import "errors"

var (
	ErrNoIdentity         = errors.New("no active identity")
	ErrGenerationInFlight = errors.New("content request already in progress")
	ErrStaleResponse      = errors.New("content arrived after the session changed")
	ErrNothingDue         = errors.New("nothing is due for review")
	ErrNoFacts            = errors.New("no facts available")
	ErrReviewUnavailable  = errors.New("review is not available for guests")
	ErrNoActiveSession    = errors.New("no active session")
	ErrNotFlipped         = errors.New("card must be flipped before rating")
	ErrQuizUnavailable    = errors.New("quiz needs a completed learning session")
	ErrNoActiveQuiz       = errors.New("no active quiz")
	ErrOutdatedQuestion   = errors.New("question is no longer current")
	ErrInvalidChoice      = errors.New("no such option")
)
