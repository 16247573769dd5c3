package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xxxsen/skillmap/internal/job"
	"github.com/xxxsen/skillmap/internal/layout"
	"github.com/xxxsen/skillmap/internal/model"
	appErr "github.com/xxxsen/skillmap/internal/pkg/errors"
	"github.com/xxxsen/skillmap/internal/schedule"
	"github.com/xxxsen/skillmap/internal/service"
)

type clusterFlags struct {
	mode   string
	k      int
	layout bool
	radius float64
}

func (f *clusterFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.mode, "mode", service.ModeLexical, "clustering engine: lexical or semantic")
	cmd.Flags().IntVar(&f.k, "k", 0, "number of clusters (0 picks one from the skill count)")
}

func (a *app) cluster(cmd *cobra.Command, f *clusterFlags) ([]model.SkillNode, error) {
	set, err := a.loadSkills()
	if err != nil {
		return nil, err
	}
	return a.svc.Cluster(cmd.Context(), f.mode, set.Skills, set.Hints, f.k)
}

func newClusterCmd(a *app) *cobra.Command {
	f := &clusterFlags{}
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "group skills into clusters",
		RunE: func(cmd *cobra.Command, args []string) error {
			nodes, err := a.cluster(cmd, f)
			if err != nil {
				return err
			}
			if f.layout {
				return a.writeJSON(layout.PositionNodes(nodes, f.radius))
			}
			return a.writeJSON(nodes)
		},
	}
	f.register(cmd)
	cmd.Flags().BoolVar(&f.layout, "layout", false, "add sphere coordinates to every node")
	cmd.Flags().Float64Var(&f.radius, "radius", layout.DefaultRadius, "sphere radius used with --layout")
	return cmd
}

func newHighlightCmd(a *app) *cobra.Command {
	f := &clusterFlags{}
	cmd := &cobra.Command{
		Use:   "highlight",
		Short: "cluster skills and mark the ones the jobs ask for",
		RunE: func(cmd *cobra.Command, args []string) error {
			jobs, err := a.loadJobs()
			if err != nil {
				return err
			}
			nodes, err := a.cluster(cmd, f)
			if err != nil {
				return err
			}
			return a.writeJSON(a.svc.Highlight(cmd.Context(), nodes, jobs))
		},
	}
	f.register(cmd)
	return cmd
}

type jobGap struct {
	JobID string `json:"job_id"`
	model.SkillGap
}

func newGapCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "gap",
		Short: "list matched and missing skills per job",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.loadSkills()
			if err != nil {
				return err
			}
			jobs, err := a.loadJobs()
			if err != nil {
				return err
			}
			gaps := make([]jobGap, 0, len(jobs))
			for _, j := range jobs {
				gaps = append(gaps, jobGap{JobID: j.ID, SkillGap: a.svc.Gap(cmd.Context(), set.Skills, j)})
			}
			return a.writeJSON(gaps)
		},
	}
}

func newRankCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "rank",
		Short: "rank jobs by how well the skills cover them",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.loadSkills()
			if err != nil {
				return err
			}
			jobs, err := a.loadJobs()
			if err != nil {
				return err
			}
			return a.writeJSON(a.svc.Rank(cmd.Context(), set.Skills, jobs))
		},
	}
}

func newRecommendCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "suggest the most demanded missing skills",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.loadSkills()
			if err != nil {
				return err
			}
			jobs, err := a.loadJobs()
			if err != nil {
				return err
			}
			return a.writeJSON(a.svc.Recommend(cmd.Context(), set.Skills, jobs, limit))
		},
	}
	cmd.Flags().IntVar(&limit, "max", 0, "maximum recommendations (0 uses the configured limit)")
	return cmd
}

func newSemanticMatchCmd(a *app) *cobra.Command {
	var threshold float64
	cmd := &cobra.Command{
		Use:   "semantic-match",
		Short: "pair job skills with similar user skills by embedding",
		RunE: func(cmd *cobra.Command, args []string) error {
			set, err := a.loadSkills()
			if err != nil {
				return err
			}
			jobs, err := a.loadJobs()
			if err != nil {
				return err
			}
			matches, err := a.svc.SemanticMatch(cmd.Context(), set.Skills, jobSkills(jobs), threshold)
			if err != nil {
				return err
			}
			return a.writeJSON(matches)
		},
	}
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "minimum cosine similarity (0 uses the configured threshold)")
	return cmd
}

// jobSkills collects every distinct skill the jobs mention, in first-seen order.
func jobSkills(jobs []model.JobRequirement) []string {
	seen := make(map[string]bool)
	var out []string
	for _, j := range jobs {
		for _, list := range [][]string{j.RequiredSkills, j.NiceToHaveSkills, j.Tools} {
			for _, s := range list {
				if seen[s] {
					continue
				}
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

func newWatchCmd(a *app) *cobra.Command {
	f := &clusterFlags{}
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "periodically recompute the skill map snapshot",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := a.cfg.Watch
			if a.skillsPath != "" {
				w.SkillsFile = a.skillsPath
			}
			if a.jobsPath != "" {
				w.JobsFile = a.jobsPath
			}
			if w.SkillsFile == "" {
				return fmt.Errorf("watch needs --skills or watch.skills_file: %w", appErr.ErrInvalid)
			}
			recluster := job.NewReclusterJob(a.svc, job.ReclusterOptions{
				SkillsFile: w.SkillsFile,
				JobsFile:   w.JobsFile,
				OutputFile: w.OutputFile,
				Mode:       f.mode,
				K:          f.k,
				Radius:     layout.DefaultRadius,
			})
			scheduler := schedule.NewCronScheduler()
			if err := scheduler.AddJob(recluster, w.Spec); err != nil {
				return err
			}
			if err := scheduler.AddJob(job.NewEmbeddingCacheResetJob(a.svc), w.CacheResetSpec); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if err := scheduler.RunNow(ctx, recluster.Name()); err != nil {
				a.logger.Error("initial recluster failed", zap.Error(err))
			}
			scheduler.Start(ctx)
			a.logger.Info("watching",
				zap.String("skills", w.SkillsFile),
				zap.String("output", w.OutputFile),
				zap.Time("next_run", scheduler.Next(recluster.Name())),
			)
			<-ctx.Done()
			scheduler.Stop()
			a.logger.Info("watch stopped")
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
