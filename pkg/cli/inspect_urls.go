package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gots/slice"
	"github.com/m-mizutani/langaudit/pkg/cli/config"
	"github.com/m-mizutani/langaudit/pkg/controller/report"
	"github.com/m-mizutani/langaudit/pkg/domain/model"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/m-mizutani/langaudit/pkg/infra"
	"github.com/m-mizutani/langaudit/pkg/usecase"
	"github.com/m-mizutani/langaudit/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

func inspectURLsCommand() *cli.Command {
	var (
		scan       config.Scan
		gitCfg     config.Git
		credential config.Credential
		gitLab     config.GitLab
		githubApp  config.GitHubApp

		urls           []string
		history        bool
		batchWidth     int
		workDir        string
		outputDir      string
		failOnFindings bool
	)

	return &cli.Command{
		Name:    "inspect-urls",
		Aliases: []string{"iu"},
		Usage:   "Discover repositories of GitLab groups or a GitHub App installation and inspect them in batches",
		Flags: slice.Flatten([]cli.Flag{
			&cli.StringSliceFlag{
				Name:        "url",
				Aliases:     []string{"u"},
				Usage:       "Repository URL to inspect in addition to discovered ones",
				Destination: &urls,
			},
			&cli.BoolFlag{
				Name:        "git",
				Aliases:     []string{"g"},
				Usage:       "Inspect history of branches too",
				Value:       true,
				Destination: &history,
			},
			&cli.IntFlag{
				Name:        "batch-width",
				Usage:       "Number of repositories inspected concurrently",
				Value:       types.DefaultBatchWidth,
				Sources:     cli.EnvVars("LANGAUDIT_BATCH_WIDTH"),
				Destination: &batchWidth,
			},
			&cli.StringFlag{
				Name:        "work-dir",
				Usage:       "Parent directory of clones (default: system temp dir)",
				Sources:     cli.EnvVars("LANGAUDIT_WORK_DIR"),
				Destination: &workDir,
			},
			&cli.StringFlag{
				Name:        "output-dir",
				Usage:       "Directory of batch result and failure files",
				Value:       ".",
				Sources:     cli.EnvVars("LANGAUDIT_OUTPUT_DIR"),
				Destination: &outputDir,
			},
			&cli.BoolFlag{
				Name:        "fail-on-findings",
				Usage:       "Exit with non-zero status when non-target script is found",
				Sources:     cli.EnvVars("LANGAUDIT_FAIL_ON_FINDINGS"),
				Destination: &failOnFindings,
			},
		},
			scan.Flags(),
			gitCfg.Flags(),
			credential.Flags(),
			gitLab.Flags(),
			githubApp.Flags(),
		),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.From(ctx).Info("Starting fleet inspection",
				slog.Any("urls", urls),
				slog.Int("batch_width", batchWidth),
				slog.String("output_dir", outputDir),
				slog.Any("scan", scan),
				slog.Any("git", gitCfg),
				slog.Any("gitlab", gitLab),
				slog.Any("github_app", githubApp),
			)

			opts, err := scan.Options(history)
			if err != nil {
				return err
			}

			infraOptions := []infra.Option{infra.WithGit(gitCfg.New())}
			switch {
			case gitLab.Enabled() && githubApp.Enabled():
				return goerr.Wrap(types.ErrInvalidOption, "GitLab and GitHub App discovery can not be used together")

			case gitLab.Enabled():
				client, err := gitLab.New()
				if err != nil {
					return err
				}
				infraOptions = append(infraOptions, infra.WithDiscoverer(client))

			case githubApp.Enabled():
				client, err := githubApp.New()
				if err != nil {
					return err
				}
				infraOptions = append(infraOptions, infra.WithDiscoverer(client))

			case len(urls) == 0:
				return goerr.Wrap(types.ErrInvalidOption, "no repository to inspect, set --url or a discovery source")
			}

			var repos []model.RepositoryRef
			for _, u := range urls {
				repos = append(repos, credential.Ref(u))
			}

			dir, err := report.NewDir(outputDir)
			if err != nil {
				return err
			}

			uc := usecase.New(infra.New(infraOptions...))
			fleet, err := uc.ScanFleet(ctx, &model.ScanFleetInput{
				Repositories: repos,
				BatchWidth:   batchWidth,
				WorkDir:      workDir,
				Options:      opts,
				OnBatch:      dir.WriteBatch,
			})
			if fleet != nil {
				if err := dir.WriteFailures(ctx, fleet.Failures); err != nil {
					return err
				}
			}
			if err != nil {
				return goerr.Wrap(err, "failed to inspect repositories")
			}

			report.NewConsole(os.Stdout).Fleet(fleet)

			if failOnFindings {
				for _, p := range fleet.Projects {
					if report.NewRepoDocument(p).HasFindings() {
						return goerr.Wrap(types.ErrFindingsDetected, "inspection found non-target script",
							goerr.V("repo", p.Name))
					}
				}
			}
			return nil
		},
	}
}
