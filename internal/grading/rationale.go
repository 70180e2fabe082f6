// Package grading contains the pure policy core that decides, for every
// submission, whether the attempt is tracked, whether it earns credit, and
// which grade fields move. Nothing in this package reads a clock, logs, or
// touches storage; callers supply every fact, which makes live grading,
// retroactive regrades, and tests evaluate identically.
package grading

import "time"

// TrackReason states whether an attempt is recorded at all.
type TrackReason string

const (
	TrackYes                TrackReason = "YES"
	TrackNoAlreadyCompleted TrackReason = "NO_ALREADY_COMPLETED"
	TrackNoAfterSolutions   TrackReason = "NO_IS_AFTER_SOLUTIONS_DATE"
	TrackUnknown            TrackReason = "UNKNOWN"
)

// CreditReason states whether a tracked attempt earns credit, and how much.
type CreditReason string

const (
	CreditYes                  CreditReason = "YES"
	CreditYesButPartial        CreditReason = "YES_BUT_PARTIAL_CREDIT"
	CreditNoGradeLocked        CreditReason = "NO_GRADE_LOCKED"
	CreditNoAttemptsExceeded   CreditReason = "NO_ATTEMPTS_EXCEEDED"
	CreditNoAttemptNotRecorded CreditReason = "NO_ATTEMPT_NOT_RECORDED"
	CreditNoExpired            CreditReason = "NO_EXPIRED"
	CreditNoSolutionsAvailable CreditReason = "NO_SOLUTIONS_AVAILABLE"
	CreditUnknown              CreditReason = "UNKNOWN"
)

// Awarded reports whether the reason grants any credit at all.
func (r CreditReason) Awarded() bool {
	return r == CreditYes || r == CreditYesButPartial
}

// UnlimitedAttempts is the MaxAttempts sentinel meaning no attempt ceiling.
const UnlimitedAttempts = -1

// PolicyInput carries every fact the evaluator needs about one submission
// instant. SubmittedAt may lie in the past when replaying history.
type PolicyInput struct {
	EndDate          time.Time `json:"end_date"`
	DeadDate         time.Time `json:"dead_date"`
	SolutionDate     time.Time `json:"solution_date"`
	Locked           bool      `json:"locked"`
	OverallBestScore float64   `json:"overall_best_score"`
	NumAttempts      int       `json:"num_attempts"`
	MaxAttempts      int       `json:"max_attempts"`
	SubmittedAt      time.Time `json:"submitted_at"`
}

// Rationale is the full decision record for one evaluated submission. It is
// never persisted as live state; the submission pipeline serializes it into
// the workbook row for auditing.
type Rationale struct {
	IsCompleted          bool         `json:"is_completed"`
	IsExpired            bool         `json:"is_expired"`
	SolutionsAvailable   bool         `json:"solutions_available"`
	IsLocked             bool         `json:"is_locked"`
	IsWithinAttemptLimit bool         `json:"is_within_attempt_limit"`
	IsOnTime             bool         `json:"is_on_time"`
	IsLate               bool         `json:"is_late"`
	WillTrackAttempt     TrackReason  `json:"will_track_attempt"`
	WillGetCredit        CreditReason `json:"will_get_credit"`
}

// Inconsistent reports whether the evaluator fell into a branch that should
// be unreachable. Callers must treat it as an alertable condition and
// withhold score changes.
func (r Rationale) Inconsistent() bool {
	return r.WillTrackAttempt == TrackUnknown || r.WillGetCredit == CreditUnknown
}

// Evaluate computes the grading rationale for a single submission instant.
//
// Boundary semantics are exact: a submission at precisely EndDate is late,
// not on time; at precisely DeadDate it is neither on time nor late; at
// precisely SolutionDate solutions count as visible.
func Evaluate(in PolicyInput) Rationale {
	at := in.SubmittedAt

	r := Rationale{
		IsCompleted:          in.OverallBestScore >= 1,
		SolutionsAvailable:   !at.Before(in.SolutionDate),
		IsLocked:             in.Locked,
		IsWithinAttemptLimit: in.MaxAttempts == UnlimitedAttempts || in.NumAttempts < in.MaxAttempts,
		IsOnTime:             at.Before(in.EndDate),
	}
	r.IsExpired = at.Before(in.SolutionDate) && !at.Before(in.DeadDate)
	r.IsLate = !at.Before(in.EndDate) && at.Before(in.DeadDate)

	r.WillTrackAttempt = trackReason(r)
	r.WillGetCredit = creditReason(r)
	return r
}

func trackReason(r Rationale) TrackReason {
	switch {
	case r.IsCompleted:
		return TrackNoAlreadyCompleted
	case r.SolutionsAvailable:
		return TrackNoAfterSolutions
	default:
		return TrackYes
	}
}

func creditReason(r Rationale) CreditReason {
	switch {
	case r.WillTrackAttempt == TrackUnknown:
		return CreditUnknown
	case r.WillTrackAttempt != TrackYes:
		return CreditNoAttemptNotRecorded
	case r.IsLocked:
		return CreditNoGradeLocked
	case !r.IsWithinAttemptLimit:
		return CreditNoAttemptsExceeded
	case r.SolutionsAvailable:
		return CreditNoSolutionsAvailable
	case r.IsExpired:
		return CreditNoExpired
	case r.IsLate:
		return CreditYesButPartial
	case r.IsOnTime:
		return CreditYes
	default:
		// Unreachable: a tracked, unlocked, in-limit submission before the
		// solution date is on time, late, or expired. Kept as an explicit
		// marker so a future window change cannot silently award credit.
		return CreditUnknown
	}
}
