package models

import (
	"strings"
	"time"
)

// SkillSeparator joins the ordered skill labels stored in teach_skill / learn_skill
const SkillSeparator = ", "

// Profile is a user's published skill-exchange intent (PostgreSQL)
type Profile struct {
	ID               string    `json:"id" gorm:"primaryKey;size:128"` // auth uid
	Name             string    `json:"name"`
	Bio              string    `json:"bio"`
	TeachSkill       string    `json:"teach_skill"`
	LearnSkill       string    `json:"learn_skill"`
	Hobby            *string   `json:"hobby"`
	AvatarURL        *string   `json:"avatar_url"`
	GithubURL        *string   `json:"github_url"`
	BehanceURL       *string   `json:"behance_url"`
	AvailabilityMode *string   `json:"availability_mode"`
	MeetingPlatform  *string   `json:"meeting_platform"`
	IsTopMentor      bool      `json:"is_top_mentor" gorm:"default:false"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Complements reports whether other is a skill-exchange candidate for p.
// Skill fields are compared as whole strings, so multi-skill profiles only
// match when the complete lists are identical in content and order.
func (p Profile) Complements(other Profile) bool {
	if p.ID == other.ID || p.TeachSkill == "" || p.LearnSkill == "" {
		return false
	}
	return other.TeachSkill == p.LearnSkill && other.LearnSkill == p.TeachSkill
}

// DisplayName returns the profile name, or fallback when it is blank
func (p *Profile) DisplayName(fallback string) string {
	if p == nil || strings.TrimSpace(p.Name) == "" {
		return fallback
	}
	return p.Name
}

// JoinSkills trims each label, drops blanks and joins the rest in order
func JoinSkills(skills []string) string {
	kept := make([]string, 0, len(skills))
	for _, s := range skills {
		if s = strings.TrimSpace(s); s != "" {
			kept = append(kept, s)
		}
	}
	return strings.Join(kept, SkillSeparator)
}

// SplitSkills is the inverse of JoinSkills
func SplitSkills(joined string) []string {
	if strings.TrimSpace(joined) == "" {
		return []string{}
	}
	parts := strings.Split(joined, ",")
	skills := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			skills = append(skills, p)
		}
	}
	return skills
}

// UpsertProfileRequest defines the request body for saving the caller's profile
type UpsertProfileRequest struct {
	Name             string   `json:"name" validate:"required,min=1,max=80"`
	Bio              string   `json:"bio" validate:"max=1000"`
	Hobby            string   `json:"hobby" validate:"max=200"`
	TeachSkills      []string `json:"teach_skills" validate:"required,min=1,dive,required,max=60"`
	LearnSkills      []string `json:"learn_skills" validate:"required,min=1,dive,required,max=60"`
	AvatarURL        string   `json:"avatar_url" validate:"omitempty,url"`
	GithubURL        string   `json:"github_url" validate:"omitempty,url"`
	BehanceURL       string   `json:"behance_url" validate:"omitempty,url"`
	AvailabilityMode string   `json:"availability_mode" validate:"omitempty,max=40"`
	MeetingPlatform  string   `json:"meeting_platform" validate:"omitempty,max=40"`
	IsTopMentor      bool     `json:"is_top_mentor"`
}

// ToProfile builds the profile row owned by id
func (r UpsertProfileRequest) ToProfile(id string) *Profile {
	return &Profile{
		ID:               id,
		Name:             strings.TrimSpace(r.Name),
		Bio:              r.Bio,
		TeachSkill:       JoinSkills(r.TeachSkills),
		LearnSkill:       JoinSkills(r.LearnSkills),
		Hobby:            optional(r.Hobby),
		AvatarURL:        optional(r.AvatarURL),
		GithubURL:        optional(r.GithubURL),
		BehanceURL:       optional(r.BehanceURL),
		AvailabilityMode: optional(r.AvailabilityMode),
		MeetingPlatform:  optional(r.MeetingPlatform),
		IsTopMentor:      r.IsTopMentor,
	}
}

func optional(s string) *string {
	if s = strings.TrimSpace(s); s == "" {
		return nil
	}
	return &s
}
