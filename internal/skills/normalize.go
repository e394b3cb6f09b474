package skills

import (
	"strings"

	"github.com/jonathan/course-planner/internal/types"
)

// NormalizeProfile trims names, drops empty entries, merges case-insensitive
// duplicates (keeping the first spelling, the highest frequency and the
// highest importance) and maps unknown importance values to medium.
// Nil slices become empty ones.
func NormalizeProfile(p *types.SkillProfile) {
	p.TechnicalSkills = normalizeTechnical(p.TechnicalSkills)
	p.SoftSkills = normalizeWeighted(p.SoftSkills)
	p.KnowledgeDomains = normalizeDomains(p.KnowledgeDomains)
	p.Responsibilities = normalizeResponsibilities(p.Responsibilities)
}

// NormalizeImportance returns high, medium or low; anything else is medium
func NormalizeImportance(importance string) string {
	switch strings.ToLower(strings.TrimSpace(importance)) {
	case types.ImportanceHigh:
		return types.ImportanceHigh
	case types.ImportanceLow:
		return types.ImportanceLow
	default:
		return types.ImportanceMedium
	}
}

func importanceRank(importance string) int {
	switch importance {
	case types.ImportanceHigh:
		return 2
	case types.ImportanceMedium:
		return 1
	default:
		return 0
	}
}

func normalizeTechnical(in []types.TechnicalSkill) []types.TechnicalSkill {
	out := make([]types.TechnicalSkill, 0, len(in))
	index := make(map[string]int, len(in))
	for _, s := range in {
		s.Skill = strings.TrimSpace(s.Skill)
		if s.Skill == "" {
			continue
		}
		s.Importance = NormalizeImportance(s.Importance)
		key := strings.ToLower(s.Skill)
		if i, ok := index[key]; ok {
			out[i].Frequency = max(out[i].Frequency, s.Frequency)
			if importanceRank(s.Importance) > importanceRank(out[i].Importance) {
				out[i].Importance = s.Importance
			}
			continue
		}
		index[key] = len(out)
		out = append(out, s)
	}
	return out
}

func normalizeWeighted(in []types.WeightedSkill) []types.WeightedSkill {
	out := make([]types.WeightedSkill, 0, len(in))
	index := make(map[string]int, len(in))
	for _, s := range in {
		s.Skill = strings.TrimSpace(s.Skill)
		if s.Skill == "" {
			continue
		}
		key := strings.ToLower(s.Skill)
		if i, ok := index[key]; ok {
			out[i].Frequency = max(out[i].Frequency, s.Frequency)
			continue
		}
		index[key] = len(out)
		out = append(out, s)
	}
	return out
}

func normalizeDomains(in []types.KnowledgeDomain) []types.KnowledgeDomain {
	out := make([]types.KnowledgeDomain, 0, len(in))
	index := make(map[string]int, len(in))
	for _, d := range in {
		d.Domain = strings.TrimSpace(d.Domain)
		if d.Domain == "" {
			continue
		}
		key := strings.ToLower(d.Domain)
		if i, ok := index[key]; ok {
			out[i].Frequency = max(out[i].Frequency, d.Frequency)
			continue
		}
		index[key] = len(out)
		out = append(out, d)
	}
	return out
}

func normalizeResponsibilities(in []types.Responsibility) []types.Responsibility {
	out := make([]types.Responsibility, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, r := range in {
		r.Responsibility = strings.TrimSpace(r.Responsibility)
		key := strings.ToLower(r.Responsibility)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}
	return out
}
