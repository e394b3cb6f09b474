// Package types provides type definitions for structured data used throughout the course-planner system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "strings"

// Skill importance levels
const (
	ImportanceHigh   = "high"
	ImportanceMedium = "medium"
	ImportanceLow    = "low"
)

// SkillProfile represents the target skills extracted for a career field
type SkillProfile struct {
	TechnicalSkills  []TechnicalSkill  `json:"technical_skills"`
	SoftSkills       []WeightedSkill   `json:"soft_skills"`
	KnowledgeDomains []KnowledgeDomain `json:"knowledge_domains"`
	Responsibilities []Responsibility  `json:"responsibilities,omitempty"`
}

// TechnicalSkill is a named technical skill with frequency and importance
type TechnicalSkill struct {
	Skill      string `json:"skill"`
	Frequency  int    `json:"frequency"`
	Importance string `json:"importance"`
}

// WeightedSkill is a soft skill with its frequency across postings
type WeightedSkill struct {
	Skill     string `json:"skill"`
	Frequency int    `json:"frequency"`
}

// KnowledgeDomain is a knowledge area with its frequency across postings
type KnowledgeDomain struct {
	Domain    string `json:"domain"`
	Frequency int    `json:"frequency"`
}

// Responsibility is a common job responsibility with its frequency
type Responsibility struct {
	Responsibility string `json:"responsibility"`
	Frequency      int    `json:"frequency"`
}

// HighImportanceSkills returns lower-cased names of skills tagged high importance
func (p *SkillProfile) HighImportanceSkills() []string {
	if p == nil {
		return nil
	}
	var out []string
	for _, s := range p.TechnicalSkills {
		if strings.EqualFold(s.Importance, ImportanceHigh) {
			out = append(out, strings.ToLower(s.Skill))
		}
	}
	return out
}

// TechnicalSkillNames returns the technical skill names in profile order
func (p *SkillProfile) TechnicalSkillNames() []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.TechnicalSkills))
	for _, s := range p.TechnicalSkills {
		names = append(names, s.Skill)
	}
	return names
}

// DomainNames returns the knowledge domain names in profile order
func (p *SkillProfile) DomainNames() []string {
	if p == nil {
		return nil
	}
	names := make([]string, 0, len(p.KnowledgeDomains))
	for _, d := range p.KnowledgeDomains {
		names = append(names, d.Domain)
	}
	return names
}
