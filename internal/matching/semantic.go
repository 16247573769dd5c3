package matching

import (
	"context"
	"sort"

	"github.com/xxxsen/skillmap/internal/model"
	"github.com/xxxsen/skillmap/internal/vecmath"
)

const (
	DefaultSemanticThreshold = 0.75
	semanticTopN             = 3
)

type Embedder interface {
	Embed(ctx context.Context, skills []string) ([][]float32, error)
}

// FindSemanticSkillMatches pairs each job skill with up to three user skills
// whose cosine similarity is strictly above threshold. Provider errors are
// returned unchanged.
func FindSemanticSkillMatches(ctx context.Context, embedder Embedder, userSkills, jobSkills []string, threshold float64) ([]model.SemanticSkillMatch, error) {
	matches := make([]model.SemanticSkillMatch, 0)
	if len(userSkills) == 0 || len(jobSkills) == 0 {
		return matches, nil
	}
	if threshold <= 0 {
		threshold = DefaultSemanticThreshold
	}
	all := make([]string, 0, len(userSkills)+len(jobSkills))
	all = append(all, userSkills...)
	all = append(all, jobSkills...)
	vecs, err := embedder.Embed(ctx, all)
	if err != nil {
		return nil, err
	}
	userVecs := make([][]float64, len(userSkills))
	for i := range userSkills {
		userVecs[i] = vecmath.Float64s(vecs[i])
	}

	type candidate struct {
		user string
		sim  float64
	}
	for j, js := range jobSkills {
		jobVec := vecmath.Float64s(vecs[len(userSkills)+j])
		candidates := make([]candidate, 0, len(userSkills))
		for i, us := range userSkills {
			candidates = append(candidates, candidate{user: us, sim: vecmath.Cosine(jobVec, userVecs[i])})
		}
		sort.SliceStable(candidates, func(a, b int) bool {
			return candidates[a].sim > candidates[b].sim
		})
		for n, c := range candidates {
			if n >= semanticTopN || c.sim <= threshold {
				break
			}
			matches = append(matches, model.SemanticSkillMatch{JobSkill: js, UserSkill: c.user, Similarity: c.sim})
		}
	}
	return matches, nil
}
