package registrations

import "errors"

var (
	// ErrEmptyRanking means the submitted preference list is empty.
	ErrEmptyRanking = errors.New("ranking is empty")
	// ErrIncompleteRanking means the submitted group set does not equal the
	// campaign's group set (missing, foreign or duplicated groups).
	ErrIncompleteRanking = errors.New("ranking does not cover all campaign groups exactly once")
)

// Preference is one entry of a student's ranking.
type Preference struct {
	GroupID  int64 `json:"group_id" binding:"required"`
	Priority int   `json:"priority" binding:"required,min=1"`
}

// ValidateRanking checks that the preferences form a complete ranking over
// the campaign's group set: every group exactly once, no outsiders.
func ValidateRanking(campaignGroupIDs []int64, prefs []Preference) error {
	if len(prefs) == 0 {
		return ErrEmptyRanking
	}
	if len(prefs) != len(campaignGroupIDs) {
		return ErrIncompleteRanking
	}
	want := make(map[int64]struct{}, len(campaignGroupIDs))
	for _, id := range campaignGroupIDs {
		want[id] = struct{}{}
	}
	for _, p := range prefs {
		if _, ok := want[p.GroupID]; !ok {
			return ErrIncompleteRanking
		}
		delete(want, p.GroupID) // rejects duplicates
	}
	if len(want) != 0 {
		return ErrIncompleteRanking
	}
	return nil
}
