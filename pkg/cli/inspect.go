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

func inspectCommand() *cli.Command {
	var (
		scan       config.Scan
		gitCfg     config.Git
		credential config.Credential

		path           string
		url            string
		history        bool
		deleteClone    bool
		workDir        string
		output         string
		forceCheckout  bool
		failOnFindings bool
	)

	return &cli.Command{
		Name:    "inspect",
		Aliases: []string{"i"},
		Usage:   "Inspect a local directory or a cloned repository",
		Flags: slice.Flatten([]cli.Flag{
			&cli.StringFlag{
				Name:        "path",
				Aliases:     []string{"p"},
				Usage:       "Path to directory to inspect",
				Value:       ".",
				Destination: &path,
			},
			&cli.StringFlag{
				Name:        "url",
				Aliases:     []string{"u"},
				Usage:       "Repository URL to clone and inspect instead of --path",
				Destination: &url,
			},
			&cli.BoolFlag{
				Name:        "git",
				Aliases:     []string{"g"},
				Usage:       "Inspect history of branches too",
				Destination: &history,
			},
			&cli.BoolFlag{
				Name:        "delete",
				Aliases:     []string{"d"},
				Usage:       "Remove the clone after inspection (with --url)",
				Destination: &deleteClone,
			},
			&cli.StringFlag{
				Name:        "work-dir",
				Usage:       "Parent directory of the clone (default: system temp dir)",
				Sources:     cli.EnvVars("LANGAUDIT_WORK_DIR"),
				Destination: &workDir,
			},
			&cli.StringFlag{
				Name:        "output",
				Usage:       "Write the report as JSON to this file",
				Destination: &output,
			},
			&cli.BoolFlag{
				Name:        "force-checkout",
				Usage:       "Allow the checkout strategy to reset and clean the local working tree",
				Destination: &forceCheckout,
			},
			&cli.BoolFlag{
				Name:        "fail-on-findings",
				Usage:       "Exit with non-zero status when non-target script is found",
				Sources:     cli.EnvVars("LANGAUDIT_FAIL_ON_FINDINGS"),
				Destination: &failOnFindings,
			},
		}, scan.Flags(), gitCfg.Flags(), credential.Flags()),
		Action: func(ctx context.Context, c *cli.Command) error {
			logging.From(ctx).Info("Starting inspection",
				slog.String("path", path),
				slog.String("url", url),
				slog.Bool("history", history),
				slog.Any("scan", scan),
				slog.Any("git", gitCfg),
				slog.Any("credential", credential),
			)

			opts, err := scan.Options(history)
			if err != nil {
				return err
			}

			uc := usecase.New(infra.New(infra.WithGit(gitCfg.New())))

			var result *model.RepoReport
			if url != "" {
				result, err = uc.ScanRemote(ctx, &model.ScanRemoteInput{
					Repo:    credential.Ref(url),
					WorkDir: workDir,
					Keep:    !deleteClone,
					Options: opts,
				})
			} else {
				result, err = uc.ScanLocal(ctx, &model.ScanLocalInput{
					Path:          path,
					AllowCheckout: forceCheckout,
					Options:       opts,
				})
			}
			if err != nil {
				return goerr.Wrap(err, "failed to inspect repository")
			}

			return render(ctx, result, output, failOnFindings)
		},
	}
}

func render(ctx context.Context, result *model.RepoReport, output string, failOnFindings bool) error {
	report.NewConsole(os.Stdout).Repo(result)

	if output != "" {
		if err := report.WriteRepo(ctx, output, result); err != nil {
			return err
		}
	}

	if failOnFindings && report.NewRepoDocument(result).HasFindings() {
		return goerr.Wrap(types.ErrFindingsDetected, "inspection found non-target script",
			goerr.V("repo", result.Name))
	}
	return nil
}
