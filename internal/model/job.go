package model

type JobRequirement struct {
	ID               string   `json:"id"`
	Title            string   `json:"title"`
	RequiredSkills   []string `json:"required_skills"`
	NiceToHaveSkills []string `json:"nice_to_have_skills"`
	Tools            []string `json:"tools"`
	Description      string   `json:"description,omitempty"`
}
