package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xxxsen/skillmap/internal/ai"
	"github.com/xxxsen/skillmap/internal/config"
	"github.com/xxxsen/skillmap/internal/model"
	appErr "github.com/xxxsen/skillmap/internal/pkg/errors"
	"github.com/xxxsen/skillmap/internal/service"
)

func newTestApp(t *testing.T) (*app, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	skills := filepath.Join(dir, "skills.txt")
	jobs := filepath.Join(dir, "jobs.json")
	require.NoError(t, os.WriteFile(skills, []byte("React\nGo\nDocker\n"), 0o644))
	require.NoError(t, os.WriteFile(jobs, []byte(`[
		{"id": "fe", "required_skills": ["React", "TypeScript"]},
		{"id": "ops", "required_skills": ["Kubernetes"], "nice_to_have_skills": ["Docker"], "tools": ["TypeScript"]}
	]`), 0o644))
	out := &bytes.Buffer{}
	cfg := config.Default()
	return &app{
		skillsPath: skills,
		jobsPath:   jobs,
		cfg:        cfg,
		svc:        service.NewSkillService(cfg, nil),
		logger:     zap.NewNop(),
		out:        out,
	}, out
}

func TestClusterCmd_Layout(t *testing.T) {
	a, out := newTestApp(t)
	cmd := newClusterCmd(a)
	cmd.SetArgs([]string{"--k", "2", "--layout", "--radius", "2"})
	require.NoError(t, cmd.Execute())

	var nodes []model.PositionedNode
	require.NoError(t, json.Unmarshal(out.Bytes(), &nodes))
	require.Len(t, nodes, 3)
	require.Equal(t, "skill_0", nodes[0].ID)
	require.InDelta(t, 2.0, nodes[0].Y, 1e-9)
}

func TestRankCmd(t *testing.T) {
	a, out := newTestApp(t)
	cmd := newRankCmd(a)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	var ranked []model.RankedJob
	require.NoError(t, json.Unmarshal(out.Bytes(), &ranked))
	require.Len(t, ranked, 2)
	require.Equal(t, "fe", ranked[0].Job.ID)
}

func TestGapCmd_SingleJob(t *testing.T) {
	a, out := newTestApp(t)
	a.jobID = "ops"
	cmd := newGapCmd(a)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	var gaps []jobGap
	require.NoError(t, json.Unmarshal(out.Bytes(), &gaps))
	require.Len(t, gaps, 1)
	require.Equal(t, "ops", gaps[0].JobID)
	require.Equal(t, []string{"Kubernetes"}, gaps[0].MissingRequired)
	require.Equal(t, []string{"Docker"}, gaps[0].MatchedNiceToHave)
}

func TestLoadJobs_UnknownID(t *testing.T) {
	a, _ := newTestApp(t)
	a.jobID = "missing"
	_, err := a.loadJobs()
	require.True(t, appErr.IsNotFound(err))
}

func TestSemanticMatchCmd_NoEmbedder(t *testing.T) {
	a, _ := newTestApp(t)
	cmd := newSemanticMatchCmd(a)
	cmd.SetArgs([]string{})
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true
	err := cmd.Execute()
	require.Error(t, err)
	require.True(t, ai.IsProviderError(err))
	require.Equal(t, service.UserMessage(err), errorText(err))
	require.Equal(t, "plain", errorText(errors.New("plain")))
}

func TestJobSkills(t *testing.T) {
	got := jobSkills([]model.JobRequirement{
		{RequiredSkills: []string{"Go", "SQL"}, Tools: []string{"Git"}},
		{RequiredSkills: []string{"SQL"}, NiceToHaveSkills: []string{"Rust"}},
	})
	require.Equal(t, []string{"Go", "SQL", "Git", "Rust"}, got)
	require.Empty(t, jobSkills(nil))
}
