package matching

import (
	"sort"

	"github.com/xxxsen/skillmap/internal/model"
)

const (
	DefaultMaxRecommendations = 10

	highPriorityRatio   = 0.7
	mediumPriorityRatio = 0.4
)

// RankJobsBySkillMatch scores every job and sorts by coverage, best first.
// Jobs with equal coverage keep their input order.
func RankJobsBySkillMatch(userSkills []string, jobs []model.JobRequirement) []model.RankedJob {
	ranked := make([]model.RankedJob, 0, len(jobs))
	for _, job := range jobs {
		ranked = append(ranked, model.RankedJob{
			Job:           job,
			MatchScore:    CalculateSkillMatch(userSkills, allJobSkills(job)).Score,
			CoverageScore: CalculateSkillGap(userSkills, job).CoverageScore,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CoverageScore > ranked[j].CoverageScore
	})
	return ranked
}

// GetRecommendedSkills counts how many target jobs ask for each skill the
// user lacks and returns the most demanded ones.
func GetRecommendedSkills(userSkills []string, targetJobs []model.JobRequirement, maxRecommendations int) []model.SkillRecommendation {
	if maxRecommendations <= 0 {
		maxRecommendations = DefaultMaxRecommendations
	}
	user := normalizeAll(userSkills)
	demand := make(map[string]int)
	for _, job := range targetJobs {
		mentioned := make(map[string]bool)
		for _, s := range append(append([]string{}, job.RequiredSkills...), job.NiceToHaveSkills...) {
			skill := normalize(s)
			if skill == "" || mentioned[skill] {
				continue
			}
			mentioned[skill] = true
			demand[skill]++
		}
	}

	recs := make([]model.SkillRecommendation, 0, len(demand))
	for skill, count := range demand {
		if matchesAny(skill, user) {
			continue
		}
		recs = append(recs, model.SkillRecommendation{Skill: skill, DemandCount: count})
	}
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].DemandCount != recs[j].DemandCount {
			return recs[i].DemandCount > recs[j].DemandCount
		}
		return recs[i].Skill < recs[j].Skill
	})
	if len(recs) > maxRecommendations {
		recs = recs[:maxRecommendations]
	}
	if len(recs) == 0 {
		return recs
	}
	maxDemand := float64(recs[0].DemandCount)
	for i := range recs {
		recs[i].Priority = priorityFor(float64(recs[i].DemandCount) / maxDemand)
	}
	return recs
}

func priorityFor(ratio float64) model.Priority {
	switch {
	case ratio >= highPriorityRatio:
		return model.PriorityHigh
	case ratio >= mediumPriorityRatio:
		return model.PriorityMedium
	default:
		return model.PriorityLow
	}
}
