package matching

import (
	"github.com/xxxsen/skillmap/internal/model"
)

const (
	relevanceRequired   = 1.0
	relevanceTool       = 0.7
	relevanceNiceToHave = 0.5
)

// HighlightSkillsForJob annotates each node against one job. A skill that
// matches a required skill is an exact match with full relevance; one that
// matches a tool is still an exact match but scores lower; one found only
// among the nice-to-haves is a partial match.
func HighlightSkillsForJob(nodes []model.SkillNode, job model.JobRequirement) []model.HighlightedSkillNode {
	required := normalizeAll(job.RequiredSkills)
	nice := normalizeAll(job.NiceToHaveSkills)
	tools := normalizeAll(job.Tools)

	out := make([]model.HighlightedSkillNode, 0, len(nodes))
	for _, node := range nodes {
		skill := normalize(node.Label)
		h := model.HighlightedSkillNode{
			SkillNode:   node,
			MatchType:   model.MatchTypeNone,
			MatchedJobs: []string{},
		}
		switch {
		case matchesAny(skill, required):
			h.MatchType = model.MatchTypeExact
			h.RelevanceScore = relevanceRequired
		case matchesAny(skill, tools):
			h.MatchType = model.MatchTypeExact
			h.RelevanceScore = relevanceTool
		case matchesAny(skill, nice):
			h.MatchType = model.MatchTypePartial
			h.RelevanceScore = relevanceNiceToHave
		}
		if h.RelevanceScore > 0 {
			h.Highlighted = true
			h.MatchedJobs = append(h.MatchedJobs, job.ID)
		}
		out = append(out, h)
	}
	return out
}

// HighlightSkillsForMultipleJobs keeps, per node, the best relevance seen
// across jobs and the union of jobs that matched it at all.
func HighlightSkillsForMultipleJobs(nodes []model.SkillNode, jobs []model.JobRequirement) []model.HighlightedSkillNode {
	out := make([]model.HighlightedSkillNode, len(nodes))
	seen := make([]map[string]bool, len(nodes))
	for i, node := range nodes {
		out[i] = model.HighlightedSkillNode{
			SkillNode:   node,
			MatchType:   model.MatchTypeNone,
			MatchedJobs: []string{},
		}
		seen[i] = make(map[string]bool)
	}
	for _, job := range jobs {
		for i, h := range HighlightSkillsForJob(nodes, job) {
			if h.RelevanceScore <= 0 {
				continue
			}
			if h.RelevanceScore > out[i].RelevanceScore {
				out[i].RelevanceScore = h.RelevanceScore
				out[i].MatchType = h.MatchType
				out[i].Highlighted = true
			}
			if !seen[i][job.ID] {
				seen[i][job.ID] = true
				out[i].MatchedJobs = append(out[i].MatchedJobs, job.ID)
			}
		}
	}
	return out
}
