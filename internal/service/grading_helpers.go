package service

import (
	"encoding/json"

	"gorm.io/datatypes"

	"github.com/lumora-edu/lumora-api/internal/grading"
	"github.com/lumora-edu/lumora-api/internal/models"
)

// effectiveMaxAttempts normalizes stored attempt ceilings: anything below
// one is treated as the unlimited sentinel.
func effectiveMaxAttempts(maxAttempts int) int {
	if maxAttempts < 1 {
		return grading.UnlimitedAttempts
	}
	return maxAttempts
}

func snapshotOf(grade models.Grade) grading.Snapshot {
	return grading.Snapshot{
		BestScore:              grade.BestScore,
		OverallBestScore:       grade.OverallBestScore,
		LegalScore:             grade.LegalScore,
		PartialCreditBestScore: grade.PartialCreditBestScore,
		EffectiveScore:         grade.EffectiveScore,
	}
}

// gradeColumns maps a transition's changed fields onto grade columns, so
// persistence writes only what moved.
func gradeColumns(transition grading.Transition) map[string]interface{} {
	columns := make(map[string]interface{})
	if transition.BestScore != nil {
		columns["best_score"] = *transition.BestScore
	}
	if transition.OverallBestScore != nil {
		columns["overall_best_score"] = *transition.OverallBestScore
	}
	if transition.LegalScore != nil {
		columns["legal_score"] = *transition.LegalScore
	}
	if transition.PartialCreditBestScore != nil {
		columns["partial_credit_best_score"] = *transition.PartialCreditBestScore
	}
	if transition.EffectiveScore != nil {
		columns["effective_score"] = *transition.EffectiveScore
	}
	return columns
}

// foldTransition returns the grade as it stands after the transition and
// attempt tracking have been applied, without touching the input value.
func foldTransition(grade models.Grade, transition grading.Transition, rationale grading.Rationale) models.Grade {
	next := snapshotOf(grade)
	next = transition.Applied(next)

	grade.BestScore = next.BestScore
	grade.OverallBestScore = next.OverallBestScore
	grade.LegalScore = next.LegalScore
	grade.PartialCreditBestScore = next.PartialCreditBestScore
	grade.EffectiveScore = next.EffectiveScore
	if rationale.WillTrackAttempt == grading.TrackYes {
		grade.NumAttempts++
	}
	return grade
}

func marshalRationale(rationale grading.Rationale) datatypes.JSON {
	payload, err := json.Marshal(rationale)
	if err != nil {
		// Rationale is a flat struct of bools and strings; Marshal cannot
		// fail on it, but an empty object keeps the row writable if the
		// shape ever changes.
		return datatypes.JSON([]byte(`{}`))
	}
	return datatypes.JSON(payload)
}
