package domain

import "time"

// Visibility controls who can find a jobseeker profile in the directory.
type Visibility string

const (
	VisibilityPublic        Visibility = "public"
	VisibilityEmployersOnly Visibility = "employers_only"
	VisibilityHidden        Visibility = "hidden"
)

// ModerationStatus is the admin-controlled lifecycle of a jobseeker profile.
type ModerationStatus string

const (
	ModerationApproved  ModerationStatus = "approved"
	ModerationPending   ModerationStatus = "pending"
	ModerationSuspended ModerationStatus = "suspended"
)

// JobseekerProfile is the structured CV owned by a jobseeker identity.
type JobseekerProfile struct {
	ID                string           `json:"id"`
	Headline          string           `json:"headline"`
	Summary           *string          `json:"summary,omitempty"`
	Skills            []string         `json:"skills"`
	PreferredRoles    []string         `json:"preferredRoles"`
	YearsExperience   *int             `json:"yearsExperience,omitempty"`
	Availability      string           `json:"availability"`
	Location          string           `json:"location"`
	Visibility        Visibility       `json:"visibility"`
	WorkPermitStatus  *string          `json:"workPermitStatus,omitempty"`
	SalaryExpectation *int             `json:"salaryExpectationEur,omitempty"`
	ModerationStatus  ModerationStatus `json:"moderationStatus"`
	UpdatedAt         time.Time        `json:"updatedAt"`
}

// JobseekerContact holds the details an employer pays to see. Email and
// phone are stored encrypted; these fields carry plaintext.
type JobseekerContact struct {
	JobseekerID   string    `json:"jobseekerId"`
	ContactEmail  string    `json:"contactEmail"`
	Phone         *string   `json:"phone,omitempty"`
	CVStoragePath *string   `json:"cvStoragePath,omitempty"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// WorkExperience is one row of a jobseeker's employment history.
type WorkExperience struct {
	ID          string  `json:"id"`
	JobseekerID string  `json:"jobseekerId"`
	Title       string  `json:"title"`
	Company     string  `json:"company"`
	StartDate   string  `json:"startDate"`
	EndDate     *string `json:"endDate,omitempty"`
	IsCurrent   bool    `json:"isCurrent"`
	Location    *string `json:"location,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ExperienceInput is one experience entry of a profile save.
type ExperienceInput struct {
	Title       string `json:"title" validate:"required,min=2"`
	Company     string `json:"company" validate:"required,min=2"`
	StartDate   string `json:"startDate" validate:"required,min=4"`
	EndDate     string `json:"endDate"`
	IsCurrent   bool   `json:"isCurrent"`
	Location    string `json:"location"`
	Description string `json:"description"`
}

// SaveProfileRequest is the validated input for PUT /api/jobseeker/profile.
type SaveProfileRequest struct {
	FullName          string            `json:"fullName" validate:"required,min=2"`
	Headline          string            `json:"headline" validate:"required,min=5"`
	Summary           string            `json:"summary"`
	Skills            []string          `json:"skills" validate:"required,min=1,dive,required"`
	PreferredRoles    []string          `json:"preferredRoles" validate:"omitempty,dive,required"`
	Availability      string            `json:"availability" validate:"required,min=2"`
	Location          string            `json:"location" validate:"required,min=2"`
	YearsExperience   *int              `json:"yearsExperience" validate:"omitempty,min=0,max=60"`
	WorkPermitStatus  string            `json:"workPermitStatus"`
	SalaryExpectation *int              `json:"salaryExpectationEur" validate:"omitempty,min=0,max=1000000"`
	Visibility        Visibility        `json:"visibility" validate:"required,oneof=public employers_only hidden"`
	ContactEmail      string            `json:"contactEmail" validate:"required,email"`
	Phone             string            `json:"phone"`
	Experiences       []ExperienceInput `json:"experiences" validate:"omitempty,dive"`
}

// JobseekerDashboard is the payload of the jobseeker home page.
type JobseekerDashboard struct {
	FullName    string            `json:"fullName"`
	Profile     *JobseekerProfile `json:"profile"`
	Contact     *JobseekerContact `json:"contact"`
	Experiences []WorkExperience  `json:"experiences"`
}

// ContactReveal is returned to a caller entitled to see contact details.
type ContactReveal struct {
	JobseekerID  string  `json:"jobseekerId"`
	ContactEmail string  `json:"contactEmail"`
	Phone        *string `json:"phone,omitempty"`
	CVURL        *string `json:"cvUrl,omitempty"`
}

// DirectoryFilter narrows the employer CV search.
type DirectoryFilter struct {
	Skills        []string
	Role          string
	MinExperience *int
	MaxExperience *int
	Availability  string
	Location      string
	WorkPermit    string
	Limit         int
}

// DirectoryEntry is one search hit. Contact details are never included.
type DirectoryEntry struct {
	ID               string   `json:"id"`
	FullName         string   `json:"fullName"`
	Headline         string   `json:"headline"`
	Summary          *string  `json:"summary,omitempty"`
	Skills           []string `json:"skills"`
	PreferredRoles   []string `json:"preferredRoles"`
	YearsExperience  *int     `json:"yearsExperience,omitempty"`
	Availability     string   `json:"availability"`
	WorkPermitStatus *string  `json:"workPermitStatus,omitempty"`
	Location         string   `json:"location"`
}
