package grading

// PartialCreditFactor is the fixed penalty applied to the marginal
// improvement of a late submission over the last full-credit score.
const PartialCreditFactor = 0.5

// Snapshot is the read-only view of a grade's score fields prior to the
// submission being applied. The calculator never mutates it.
type Snapshot struct {
	BestScore              float64 `json:"best_score"`
	OverallBestScore       float64 `json:"overall_best_score"`
	LegalScore             float64 `json:"legal_score"`
	PartialCreditBestScore float64 `json:"partial_credit_best_score"`
	EffectiveScore         float64 `json:"effective_score"`
}

// Transition is the partial update produced for one submission. A nil field
// means "no change"; persistence writes only the fields that moved.
type Transition struct {
	Rationale Rationale `json:"rationale"`
	Score     float64   `json:"score"`

	BestScore              *float64 `json:"best_score,omitempty"`
	OverallBestScore       *float64 `json:"overall_best_score,omitempty"`
	LegalScore             *float64 `json:"legal_score,omitempty"`
	PartialCreditBestScore *float64 `json:"partial_credit_best_score,omitempty"`
	EffectiveScore         *float64 `json:"effective_score,omitempty"`
}

// Changed reports whether any score field moved.
func (t Transition) Changed() bool {
	return t.BestScore != nil ||
		t.OverallBestScore != nil ||
		t.LegalScore != nil ||
		t.PartialCreditBestScore != nil ||
		t.EffectiveScore != nil
}

// Applied returns the snapshot with the transition's changes folded in.
func (t Transition) Applied(prev Snapshot) Snapshot {
	next := prev
	if t.BestScore != nil {
		next.BestScore = *t.BestScore
	}
	if t.OverallBestScore != nil {
		next.OverallBestScore = *t.OverallBestScore
	}
	if t.LegalScore != nil {
		next.LegalScore = *t.LegalScore
	}
	if t.PartialCreditBestScore != nil {
		next.PartialCreditBestScore = *t.PartialCreditBestScore
	}
	if t.EffectiveScore != nil {
		next.EffectiveScore = *t.EffectiveScore
	}
	return next
}

// Apply computes the score-field updates for one tracked submission.
//
// Every field moves upward only. The late path applies PartialCreditFactor
// to the improvement over the previous legal score; the legal score itself
// only moves on the full-credit path.
func Apply(r Rationale, prev Snapshot, score float64) Transition {
	t := Transition{Rationale: r, Score: score}

	if r.WillTrackAttempt != TrackYes {
		return t
	}

	overall := prev.OverallBestScore
	if score > overall {
		overall = score
		t.OverallBestScore = ref(overall)
	}

	switch r.WillGetCredit {
	case CreditYes:
		if overall != prev.BestScore {
			t.BestScore = ref(overall)
		}
		if overall != prev.LegalScore {
			t.LegalScore = ref(overall)
		}
		if overall != prev.PartialCreditBestScore {
			t.PartialCreditBestScore = ref(overall)
		}
		if score > prev.EffectiveScore {
			t.EffectiveScore = ref(score)
		}
	case CreditYesButPartial:
		partial := (score-prev.LegalScore)*PartialCreditFactor + prev.LegalScore
		partialBest := prev.PartialCreditBestScore
		if partial > partialBest {
			partialBest = partial
			t.PartialCreditBestScore = ref(partialBest)
		}
		if partialBest != prev.BestScore {
			t.BestScore = ref(partialBest)
		}
		if partial > prev.EffectiveScore {
			t.EffectiveScore = ref(partial)
		}
	}

	return t
}

func ref(v float64) *float64 { return &v }
