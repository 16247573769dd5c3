package model

type MatchType string

const (
	MatchTypeExact   MatchType = "exact"
	MatchTypeSimilar MatchType = "similar"
	MatchTypePartial MatchType = "partial"
	MatchTypeNone    MatchType = "none"
)

type HighlightedSkillNode struct {
	SkillNode
	MatchType      MatchType `json:"match_type"`
	RelevanceScore float64   `json:"relevance_score"`
	MatchedJobs    []string  `json:"matched_jobs"`
	Highlighted    bool      `json:"highlighted"`
}

type SkillMatch struct {
	Matches []string `json:"matches"`
	Score   float64  `json:"score"`
}

type SkillGap struct {
	MissingRequired   []string `json:"missing_required"`
	MissingNiceToHave []string `json:"missing_nice_to_have"`
	MatchedRequired   []string `json:"matched_required"`
	MatchedNiceToHave []string `json:"matched_nice_to_have"`
	CoverageScore     float64  `json:"coverage_score"`
}

type RankedJob struct {
	Job           JobRequirement `json:"job"`
	MatchScore    float64        `json:"match_score"`
	CoverageScore float64        `json:"coverage_score"`
}

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

type SkillRecommendation struct {
	Skill       string   `json:"skill"`
	DemandCount int      `json:"demand_count"`
	Priority    Priority `json:"priority"`
}

type SemanticSkillMatch struct {
	JobSkill   string  `json:"job_skill"`
	UserSkill  string  `json:"user_skill"`
	Similarity float64 `json:"similarity"`
}
