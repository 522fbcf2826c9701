package models

// ReviewState is the mutable aggregate threaded through the review state
// machine. Exactly one ScoutReport and one ContrarianReport are current at
// any time; prior cycles' reports are discarded when a new cycle starts.
// ReviewCycle increments by one each time the Scout stage runs and is never
// decremented.
type ReviewState struct {
	Deal *Deal `json:"deal"`

	ReviewCycle int `json:"review_cycle"`

	ScoutReport      *ScoutReport      `json:"scout_report"`
	ContrarianReport *ContrarianReport `json:"contrarian_report"`
	Verdict          *JudgeVerdict     `json:"verdict"`
}

// NewReviewState returns the initial state for one deal: cycle 0, no reports.
func NewReviewState(deal *Deal) *ReviewState {
	return &ReviewState{Deal: deal}
}

// Final reports whether the review has produced a committed verdict with no
// conflict left pending another cycle.
func (s *ReviewState) Final() bool {
	return s.Verdict != nil && s.Verdict.DecisionSource != ""
}
