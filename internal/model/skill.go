package model

import "fmt"

type SkillNode struct {
	ID        string  `json:"id"`
	Label     string  `json:"label"`
	Category  string  `json:"category"`
	Weight    float64 `json:"weight"`
	ClusterID int     `json:"cluster_id"`
}

// DefaultWeight is used when no weight hint is supplied for a skill.
const DefaultWeight = 1.0

func SkillNodeID(index int) string {
	return fmt.Sprintf("skill_%d", index)
}

// Hints carries optional per-index presentation data. Entries beyond the
// length of a slice fall back to the defaults.
type Hints struct {
	Weights    []float64 `json:"weights,omitempty"`
	Categories []string  `json:"categories,omitempty"`
}

func (h Hints) WeightAt(i int) float64 {
	if i < len(h.Weights) && h.Weights[i] > 0 {
		return h.Weights[i]
	}
	return DefaultWeight
}

func (h Hints) CategoryAt(i int) string {
	if i < len(h.Categories) {
		return h.Categories[i]
	}
	return ""
}

type PositionedNode struct {
	SkillNode
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}
