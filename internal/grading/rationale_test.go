package grading

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var gradingEpoch = time.Date(2026, time.March, 2, 12, 0, 0, 0, time.UTC)

// openWindow returns a policy input for a topic that is currently open:
// end in 1d, dead in 2d, solutions in 3d, single attempt available.
func openWindow() PolicyInput {
	return PolicyInput{
		EndDate:      gradingEpoch.Add(24 * time.Hour),
		DeadDate:     gradingEpoch.Add(48 * time.Hour),
		SolutionDate: gradingEpoch.Add(72 * time.Hour),
		MaxAttempts:  1,
		SubmittedAt:  gradingEpoch,
	}
}

func TestEvaluateOnTimeFirstAttempt(t *testing.T) {
	r := Evaluate(openWindow())

	require.Equal(t, Rationale{
		IsCompleted:          false,
		IsExpired:            false,
		SolutionsAvailable:   false,
		IsLocked:             false,
		IsWithinAttemptLimit: true,
		IsOnTime:             true,
		IsLate:               false,
		WillTrackAttempt:     TrackYes,
		WillGetCredit:        CreditYes,
	}, r)
	require.False(t, r.Inconsistent())
}

func TestEvaluateLatePartialCredit(t *testing.T) {
	in := openWindow()
	in.SubmittedAt = in.EndDate.Add(time.Hour)

	r := Evaluate(in)
	require.False(t, r.IsOnTime)
	require.True(t, r.IsLate)
	require.Equal(t, TrackYes, r.WillTrackAttempt)
	require.Equal(t, CreditYesButPartial, r.WillGetCredit)
}

func TestEvaluateAttemptsExceeded(t *testing.T) {
	in := openWindow()
	in.NumAttempts = 1

	r := Evaluate(in)
	require.False(t, r.IsWithinAttemptLimit)
	require.Equal(t, TrackYes, r.WillTrackAttempt, "attempt is still recorded before solutions")
	require.Equal(t, CreditNoAttemptsExceeded, r.WillGetCredit)
}

func TestEvaluateUnlimitedAttempts(t *testing.T) {
	in := openWindow()
	in.MaxAttempts = UnlimitedAttempts
	in.NumAttempts = 500

	r := Evaluate(in)
	require.True(t, r.IsWithinAttemptLimit)
	require.Equal(t, CreditYes, r.WillGetCredit)
}

func TestEvaluateAlreadyCompleted(t *testing.T) {
	in := openWindow()
	in.OverallBestScore = 1

	r := Evaluate(in)
	require.True(t, r.IsCompleted)
	require.Equal(t, TrackNoAlreadyCompleted, r.WillTrackAttempt)
	require.Equal(t, CreditNoAttemptNotRecorded, r.WillGetCredit)
}

func TestEvaluateAfterSolutionsReleased(t *testing.T) {
	in := openWindow()
	in.SubmittedAt = in.SolutionDate.Add(time.Minute)

	r := Evaluate(in)
	require.True(t, r.SolutionsAvailable)
	require.Equal(t, TrackNoAfterSolutions, r.WillTrackAttempt)
	require.Equal(t, CreditNoAttemptNotRecorded, r.WillGetCredit)
}

func TestEvaluateLockedGrade(t *testing.T) {
	in := openWindow()
	in.Locked = true

	r := Evaluate(in)
	require.Equal(t, TrackYes, r.WillTrackAttempt)
	require.Equal(t, CreditNoGradeLocked, r.WillGetCredit)
}

func TestEvaluateLockTakesPriorityOverAttemptLimit(t *testing.T) {
	in := openWindow()
	in.Locked = true
	in.NumAttempts = 5

	r := Evaluate(in)
	require.Equal(t, CreditNoGradeLocked, r.WillGetCredit)
}

func TestEvaluateExpiredBetweenDeadAndSolutions(t *testing.T) {
	in := openWindow()
	in.SubmittedAt = in.DeadDate.Add(time.Hour)

	r := Evaluate(in)
	require.True(t, r.IsExpired)
	require.False(t, r.IsOnTime)
	require.False(t, r.IsLate)
	require.Equal(t, TrackYes, r.WillTrackAttempt)
	require.Equal(t, CreditNoExpired, r.WillGetCredit)
}

func TestEvaluateBoundaryExactness(t *testing.T) {
	t.Run("exactly at end date is late, not on time", func(t *testing.T) {
		in := openWindow()
		in.SubmittedAt = in.EndDate

		r := Evaluate(in)
		require.False(t, r.IsOnTime)
		require.True(t, r.IsLate)
		require.Equal(t, CreditYesButPartial, r.WillGetCredit)
	})

	t.Run("exactly at dead date is neither on time nor late", func(t *testing.T) {
		in := openWindow()
		in.SubmittedAt = in.DeadDate

		r := Evaluate(in)
		require.False(t, r.IsOnTime)
		require.False(t, r.IsLate)
		require.True(t, r.IsExpired)
		require.Equal(t, CreditNoExpired, r.WillGetCredit)
	})

	t.Run("exactly at solution date counts as solutions visible", func(t *testing.T) {
		in := openWindow()
		in.SubmittedAt = in.SolutionDate

		r := Evaluate(in)
		require.True(t, r.SolutionsAvailable)
		require.False(t, r.IsExpired)
		require.Equal(t, TrackNoAfterSolutions, r.WillTrackAttempt)
	})
}

func TestEvaluateCompletedBeatsSolutionsReleased(t *testing.T) {
	in := openWindow()
	in.OverallBestScore = 1
	in.SubmittedAt = in.SolutionDate.Add(time.Hour)

	r := Evaluate(in)
	require.Equal(t, TrackNoAlreadyCompleted, r.WillTrackAttempt)
}

func TestEvaluateIsDeterministic(t *testing.T) {
	in := openWindow()
	in.SubmittedAt = in.EndDate.Add(30 * time.Minute)
	in.OverallBestScore = 0.73
	in.NumAttempts = 2
	in.MaxAttempts = 10

	first := Evaluate(in)
	for i := 0; i < 50; i++ {
		require.Equal(t, first, Evaluate(in))
	}
}
