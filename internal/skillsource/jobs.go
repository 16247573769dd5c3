package skillsource

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xxxsen/skillmap/internal/model"
)

// LoadJobs reads a JSON array of job requirements from path.
func LoadJobs(path string) ([]model.JobRequirement, error) {
	data, err := readFile(path)
	if err != nil {
		return nil, err
	}
	return ParseJobs(data)
}

func ParseJobs(data []byte) ([]model.JobRequirement, error) {
	if err := validateJobs(data); err != nil {
		return nil, err
	}
	var jobs []model.JobRequirement
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, fmt.Errorf("decode jobs: %w", err)
	}
	for i := range jobs {
		if jobs[i].RequiredSkills == nil {
			jobs[i].RequiredSkills = []string{}
		}
		if jobs[i].NiceToHaveSkills == nil {
			jobs[i].NiceToHaveSkills = []string{}
		}
		if jobs[i].Tools == nil {
			jobs[i].Tools = []string{}
		}
	}
	return jobs, nil
}

func readFile(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, wrapNotFound(err))
	}
	return data, nil
}
