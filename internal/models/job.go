package models

import "time"

// Job levels and work arrangements accepted for a posting.
const (
	JobLevelJunior = "Junior"
	JobLevelMid    = "Mid"
	JobLevelSenior = "Senior"

	WorkRemote = "Remote"
	WorkOnsite = "Onsite"
)

// Job is a job posting. PostedBy holds the owning user's ID.
type Job struct {
	ID              string    `json:"id"`
	Title           string    `json:"title"`
	SalaryRange     string    `json:"salaryRange"`
	JobType         string    `json:"jobType"`
	Description     string    `json:"description"`
	Categories      []string  `json:"categories"`
	JobLevel        string    `json:"jobLevel"`
	RemoteOrOnsite  string    `json:"remoteOrOnsite"`
	FreelancerCount int       `json:"freelancerCount"`
	PostedBy        string    `json:"postedBy"`
	DatePosted      time.Time `json:"datePosted"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// JobInput carries the fields supplied when posting a job.
type JobInput struct {
	Title           string   `json:"title" validate:"required"`
	SalaryRange     string   `json:"salaryRange" validate:"required"`
	JobType         string   `json:"jobType" validate:"required"`
	Description     string   `json:"description" validate:"required"`
	Categories      []string `json:"categories" validate:"required,min=1,dive,required"`
	JobLevel        string   `json:"jobLevel" validate:"required,oneof=Junior Mid Senior"`
	RemoteOrOnsite  string   `json:"remoteOrOnsite" validate:"required,oneof=Remote Onsite"`
	FreelancerCount int      `json:"freelancerCount" validate:"required,min=1"`
}

// JobPatch carries a partial update; nil fields are left unchanged.
type JobPatch struct {
	Title           *string   `json:"title" validate:"omitnil,min=1"`
	SalaryRange     *string   `json:"salaryRange" validate:"omitnil,min=1"`
	JobType         *string   `json:"jobType" validate:"omitnil,min=1"`
	Description     *string   `json:"description" validate:"omitnil,min=1"`
	Categories      *[]string `json:"categories" validate:"omitnil,min=1,dive,required"`
	JobLevel        *string   `json:"jobLevel" validate:"omitnil,oneof=Junior Mid Senior"`
	RemoteOrOnsite  *string   `json:"remoteOrOnsite" validate:"omitnil,oneof=Remote Onsite"`
	FreelancerCount *int      `json:"freelancerCount" validate:"omitnil,min=1"`
}

// Apply copies every non-nil field of p onto j.
func (p JobPatch) Apply(j *Job) {
	if p.Title != nil {
		j.Title = *p.Title
	}
	if p.SalaryRange != nil {
		j.SalaryRange = *p.SalaryRange
	}
	if p.JobType != nil {
		j.JobType = *p.JobType
	}
	if p.Description != nil {
		j.Description = *p.Description
	}
	if p.Categories != nil {
		j.Categories = append([]string(nil), (*p.Categories)...)
	}
	if p.JobLevel != nil {
		j.JobLevel = *p.JobLevel
	}
	if p.RemoteOrOnsite != nil {
		j.RemoteOrOnsite = *p.RemoteOrOnsite
	}
	if p.FreelancerCount != nil {
		j.FreelancerCount = *p.FreelancerCount
	}
}
