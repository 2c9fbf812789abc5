package models

// StudyProgram is a cohort (programme + year) that users and campaigns
// can be attached to, e.g. "Informatyka Stacjonarnie Rok 3".
type StudyProgram struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	IsActive    bool   `json:"is_active"`
}
