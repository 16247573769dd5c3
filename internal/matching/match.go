package matching

import (
	"strings"

	"github.com/xxxsen/skillmap/internal/model"
)

// Required skills dominate the coverage score.
const (
	requiredCoverageWeight   = 0.7
	niceToHaveCoverageWeight = 0.3
)

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func normalizeAll(items []string) []string {
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, normalize(item))
	}
	return out
}

// skillsMatch treats two normalized skills as matching when they are equal or
// one contains the other ("react" vs "react.js"). Empty strings never match.
func skillsMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	return a == b || strings.Contains(a, b) || strings.Contains(b, a)
}

func matchesAny(skill string, pool []string) bool {
	for _, p := range pool {
		if skillsMatch(skill, p) {
			return true
		}
	}
	return false
}

// CalculateSkillMatch returns the job skills covered by the user's skills and
// the covered fraction of jobSkills.
func CalculateSkillMatch(userSkills, jobSkills []string) model.SkillMatch {
	user := normalizeAll(userSkills)
	matches := make([]string, 0, len(jobSkills))
	for _, js := range jobSkills {
		if matchesAny(normalize(js), user) {
			matches = append(matches, js)
		}
	}
	res := model.SkillMatch{Matches: matches}
	if len(jobSkills) > 0 {
		res.Score = float64(len(matches)) / float64(len(jobSkills))
	}
	return res
}

func CalculateSkillGap(userSkills []string, job model.JobRequirement) model.SkillGap {
	user := normalizeAll(userSkills)
	gap := model.SkillGap{
		MissingRequired:   []string{},
		MissingNiceToHave: []string{},
		MatchedRequired:   []string{},
		MatchedNiceToHave: []string{},
	}
	for _, s := range job.RequiredSkills {
		if matchesAny(normalize(s), user) {
			gap.MatchedRequired = append(gap.MatchedRequired, s)
		} else {
			gap.MissingRequired = append(gap.MissingRequired, s)
		}
	}
	for _, s := range job.NiceToHaveSkills {
		if matchesAny(normalize(s), user) {
			gap.MatchedNiceToHave = append(gap.MatchedNiceToHave, s)
		} else {
			gap.MissingNiceToHave = append(gap.MissingNiceToHave, s)
		}
	}
	gap.CoverageScore = requiredCoverageWeight*ratio(len(gap.MatchedRequired), len(job.RequiredSkills)) +
		niceToHaveCoverageWeight*ratio(len(gap.MatchedNiceToHave), len(job.NiceToHaveSkills))
	return gap
}

// ratio is matched/total, or 1 when there is nothing to match.
func ratio(matched, total int) float64 {
	if total == 0 {
		return 1
	}
	return float64(matched) / float64(total)
}

func allJobSkills(job model.JobRequirement) []string {
	out := make([]string, 0, len(job.RequiredSkills)+len(job.NiceToHaveSkills)+len(job.Tools))
	out = append(out, job.RequiredSkills...)
	out = append(out, job.NiceToHaveSkills...)
	out = append(out, job.Tools...)
	return out
}
