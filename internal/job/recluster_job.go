package job

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/skillmap/internal/embedcache"
	"github.com/xxxsen/skillmap/internal/layout"
	"github.com/xxxsen/skillmap/internal/model"
	"github.com/xxxsen/skillmap/internal/service"
	"github.com/xxxsen/skillmap/internal/skillsource"
)

// Snapshot is what the recluster job writes after every run.
type Snapshot struct {
	GeneratedAt     time.Time                    `json:"generated_at"`
	Mode            string                       `json:"mode"`
	Nodes           []model.PositionedNode       `json:"nodes"`
	Highlights      []model.HighlightedSkillNode `json:"highlights"`
	RankedJobs      []model.RankedJob            `json:"ranked_jobs"`
	Recommendations []model.SkillRecommendation  `json:"recommendations"`
	Cache           embedcache.Stats             `json:"cache"`
}

type ReclusterOptions struct {
	SkillsFile string
	JobsFile   string
	OutputFile string
	Mode       string
	K          int
	Radius     float64
}

type ReclusterJob struct {
	skills *service.SkillService
	opts   ReclusterOptions
	now    func() time.Time
}

func NewReclusterJob(skills *service.SkillService, opts ReclusterOptions) *ReclusterJob {
	return &ReclusterJob{skills: skills, opts: opts, now: time.Now}
}

func (j *ReclusterJob) Name() string {
	return "recluster"
}

// Run reloads both input files so edits are picked up between runs.
func (j *ReclusterJob) Run(ctx context.Context) error {
	if j.skills == nil {
		return nil
	}
	set, err := skillsource.LoadSkills(j.opts.SkillsFile)
	if err != nil {
		return fmt.Errorf("load skills: %w", err)
	}
	var jobs []model.JobRequirement
	if j.opts.JobsFile != "" {
		if jobs, err = skillsource.LoadJobs(j.opts.JobsFile); err != nil {
			return fmt.Errorf("load jobs: %w", err)
		}
	}
	nodes, err := j.skills.Cluster(ctx, j.opts.Mode, set.Skills, set.Hints, j.opts.K)
	if err != nil {
		return err
	}
	snap := &Snapshot{
		GeneratedAt:     j.now().UTC(),
		Mode:            j.opts.Mode,
		Nodes:           layout.PositionNodes(nodes, j.opts.Radius),
		Highlights:      j.skills.Highlight(ctx, nodes, jobs),
		RankedJobs:      j.skills.Rank(ctx, set.Skills, jobs),
		Recommendations: j.skills.Recommend(ctx, set.Skills, jobs, 0),
		Cache:           j.skills.CacheStats(),
	}
	if err := writeSnapshot(j.opts.OutputFile, snap); err != nil {
		return err
	}
	fields := []zap.Field{
		zap.Int("skills", len(set.Skills)),
		zap.Int("jobs", len(jobs)),
		zap.String("output", j.opts.OutputFile),
	}
	if len(snap.RankedJobs) > 0 {
		fields = append(fields, zap.String("best_job", snap.RankedJobs[0].Job.ID))
	}
	logutil.GetLogger(ctx).Info("skill map refreshed", fields...)
	return nil
}

// writeSnapshot replaces path atomically so readers never see a partial file.
func writeSnapshot(path string, snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	return nil
}
