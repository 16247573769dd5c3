package job

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/xxxsen/skillmap/internal/config"
	appErr "github.com/xxxsen/skillmap/internal/pkg/errors"
	"github.com/xxxsen/skillmap/internal/schedule"
	"github.com/xxxsen/skillmap/internal/service"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestReclusterJob_WritesSnapshot(t *testing.T) {
	dir := t.TempDir()
	opts := ReclusterOptions{
		SkillsFile: writeFile(t, dir, "skills.txt", "React\nReact Native\nGo\nKubernetes\n"),
		JobsFile: writeFile(t, dir, "jobs.json", `[
			{"id": "mobile", "required_skills": ["React Native"]},
			{"id": "platform", "required_skills": ["Kubernetes", "Terraform"], "nice_to_have_skills": ["Go"]}
		]`),
		OutputFile: filepath.Join(dir, "snapshot.json"),
		Mode:       service.ModeLexical,
		K:          2,
		Radius:     3,
	}
	j := NewReclusterJob(service.NewSkillService(config.Default(), nil), opts)
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	j.now = func() time.Time { return fixed }

	require.Equal(t, "recluster", j.Name())
	require.NoError(t, j.Run(context.Background()))

	data, err := os.ReadFile(opts.OutputFile)
	require.NoError(t, err)
	var snap Snapshot
	require.NoError(t, json.Unmarshal(data, &snap))
	require.True(t, fixed.Equal(snap.GeneratedAt))
	require.Len(t, snap.Nodes, 4)
	require.Len(t, snap.Highlights, 4)
	require.Equal(t, "mobile", snap.RankedJobs[0].Job.ID)
	require.Equal(t, "terraform", snap.Recommendations[0].Skill)
	_, err = os.Stat(opts.OutputFile + ".tmp")
	require.True(t, os.IsNotExist(err))
}

func TestReclusterJob_MissingSkills(t *testing.T) {
	dir := t.TempDir()
	j := NewReclusterJob(service.NewSkillService(config.Default(), nil), ReclusterOptions{
		SkillsFile: filepath.Join(dir, "nope.txt"),
		OutputFile: filepath.Join(dir, "out.json"),
	})
	err := j.Run(context.Background())
	require.True(t, appErr.IsNotFound(err))
}

func TestEmbeddingCacheResetJob(t *testing.T) {
	svc := service.NewSkillService(config.Default(), nil)
	svc.Cache().Set("go", "test/model", []float32{1})
	j := NewEmbeddingCacheResetJob(svc)
	require.Equal(t, "embedding_cache_reset", j.Name())
	require.NoError(t, j.Run(context.Background()))
	require.Equal(t, 0, svc.Cache().Len())

	require.NoError(t, NewEmbeddingCacheResetJob(nil).Run(context.Background()))
}

func TestJobsRunThroughScheduler(t *testing.T) {
	svc := service.NewSkillService(config.Default(), nil)
	svc.Cache().Set("go", "test/model", []float32{1})
	s := schedule.NewCronScheduler()
	require.NoError(t, s.AddJob(NewEmbeddingCacheResetJob(svc), "@daily"))
	require.NoError(t, s.RunNow(context.Background(), "embedding_cache_reset"))
	require.Equal(t, 0, svc.Cache().Len())
}
