package domain

import "time"

// SubjectJobseekerProfile is the only moderated subject type today.
const SubjectJobseekerProfile = "jobseeker_profile"

// ModerationAction is the closed set of admin actions on a profile.
type ModerationAction string

const (
	ActionFlag   ModerationAction = "flag"
	ActionUnflag ModerationAction = "unflag"
	ActionHide   ModerationAction = "hide"
	ActionUnhide ModerationAction = "unhide"
)

// ParseModerationAction rejects anything outside the four actions.
func ParseModerationAction(s string) (ModerationAction, bool) {
	switch ModerationAction(s) {
	case ActionFlag, ActionUnflag, ActionHide, ActionUnhide:
		return ModerationAction(s), true
	}
	return "", false
}

// ModerationFlag is an append-only record of a moderation action.
type ModerationFlag struct {
	ID          string           `json:"id"`
	SubjectType string           `json:"subjectType"`
	SubjectID   string           `json:"subjectId"`
	RaisedBy    string           `json:"raisedBy"`
	Status      ModerationStatus `json:"status"`
	Reason      string           `json:"reason"`
	CreatedAt   time.Time        `json:"createdAt"`
	ResolvedAt  *time.Time       `json:"resolvedAt,omitempty"`
}

// ModerationChange is everything one action writes, applied atomically.
type ModerationChange struct {
	ModerationStatus ModerationStatus
	Visibility       *Visibility
	NewFlag          *ModerationFlag
	ResolveFlagsAt   *time.Time
}

// ModerateRequest is the body of POST /api/admin/moderate.
type ModerateRequest struct {
	JobseekerID string `json:"jobseekerId" validate:"required"`
	Action      string `json:"action" validate:"required"`
}

// ModerationResult is the new state reported back to the admin UI.
type ModerationResult struct {
	ModerationStatus ModerationStatus `json:"moderation_status"`
	Visibility       *Visibility      `json:"visibility,omitempty"`
}

// AdminProfileRow is one line of the admin moderation board.
type AdminProfileRow struct {
	ID               string           `json:"id"`
	FullName         string           `json:"fullName"`
	Headline         string           `json:"headline"`
	Visibility       Visibility       `json:"visibility"`
	ModerationStatus ModerationStatus `json:"moderationStatus"`
	Skills           []string         `json:"skills"`
	YearsExperience  *int             `json:"yearsExperience,omitempty"`
	Location         string           `json:"location"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// AdminStats are the directory metrics shown on the admin console.
type AdminStats struct {
	CVs                 int `json:"cvs"`
	Employers           int `json:"employers"`
	Unlocks             int `json:"unlocks"`
	ActiveSubscriptions int `json:"activeSubscriptions"`
}

// AdminDashboard is the payload of the admin home page.
type AdminDashboard struct {
	Stats    AdminStats        `json:"stats"`
	Profiles []AdminProfileRow `json:"profiles"`
}
