package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/xxxsen/skillmap/internal/ai"
	"github.com/xxxsen/skillmap/internal/config"
	"github.com/xxxsen/skillmap/internal/model"
	appErr "github.com/xxxsen/skillmap/internal/pkg/errors"
	"github.com/xxxsen/skillmap/internal/service"
	"github.com/xxxsen/skillmap/internal/skillsource"
)

type app struct {
	configPath string
	skillsPath string
	jobsPath   string
	jobID      string

	cfg    *config.Config
	svc    *service.SkillService
	runID  string
	logger *zap.Logger
	out    io.Writer
}

func main() {
	a := &app{out: os.Stdout}
	if err := newRootCmd(a).Execute(); err != nil {
		logutil.GetLogger(context.Background()).Error("command failed", zap.String("run_id", a.runID), zap.Error(err))
		fmt.Fprintln(os.Stderr, errorText(err))
		os.Exit(1)
	}
}

// errorText hides provider details from the user; they are in the log.
func errorText(err error) string {
	if ai.IsProviderError(err) {
		return service.UserMessage(err)
	}
	return err.Error()
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "skillmap",
		Short:         "cluster skills and match them against job requirements",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd.Context())
		},
	}
	rootCmd.PersistentFlags().StringVar(&a.configPath, "config", "", "path to config.json")
	rootCmd.PersistentFlags().StringVar(&a.skillsPath, "skills", "", "skills file (.json, .md or one per line)")
	rootCmd.PersistentFlags().StringVar(&a.jobsPath, "jobs", "", "jobs file (JSON array)")
	rootCmd.PersistentFlags().StringVar(&a.jobID, "job", "", "restrict to a single job id")

	rootCmd.AddCommand(
		newClusterCmd(a),
		newHighlightCmd(a),
		newGapCmd(a),
		newRankCmd(a),
		newRecommendCmd(a),
		newSemanticMatchCmd(a),
		newWatchCmd(a),
	)
	return rootCmd
}

func (a *app) setup(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	logger.Init(
		cfg.LogConfig.File,
		cfg.LogConfig.Level,
		int(cfg.LogConfig.FileCount),
		int(cfg.LogConfig.FileSize),
		int(cfg.LogConfig.KeepDays),
		cfg.LogConfig.Console,
	)
	a.cfg = cfg
	a.runID = uuid.NewString()
	a.logger = logutil.GetLogger(ctx).With(zap.String("run_id", a.runID))
	a.logger.Info("config loaded", zap.String("config", a.configPath))

	embedder, err := service.BuildEmbedder(ctx, cfg.Embed)
	if err != nil {
		// Lexical commands work without an embedder.
		a.logger.Warn("semantic features disabled", zap.Error(err))
	}
	a.svc = service.NewSkillService(cfg, embedder)
	return nil
}

func (a *app) loadSkills() (*skillsource.SkillSet, error) {
	if a.skillsPath == "" {
		return nil, fmt.Errorf("--skills is required: %w", appErr.ErrInvalid)
	}
	return skillsource.LoadSkills(a.skillsPath)
}

func (a *app) loadJobs() ([]model.JobRequirement, error) {
	if a.jobsPath == "" {
		return nil, fmt.Errorf("--jobs is required: %w", appErr.ErrInvalid)
	}
	jobs, err := skillsource.LoadJobs(a.jobsPath)
	if err != nil {
		return nil, err
	}
	if a.jobID == "" {
		return jobs, nil
	}
	for _, job := range jobs {
		if job.ID == a.jobID {
			return []model.JobRequirement{job}, nil
		}
	}
	return nil, fmt.Errorf("job %s in %s: %w", a.jobID, a.jobsPath, appErr.ErrNotFound)
}

func (a *app) writeJSON(v interface{}) error {
	enc := json.NewEncoder(a.out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
