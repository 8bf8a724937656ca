package usecase

import (
	"context"
	"log/slog"
	"slices"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/langaudit/pkg/domain/model"
	"github.com/m-mizutani/langaudit/pkg/domain/types"
	"github.com/m-mizutani/langaudit/pkg/utils/batch"
	"github.com/m-mizutani/langaudit/pkg/utils/errutil"
	"github.com/m-mizutani/langaudit/pkg/utils/logging"
)

// ScanFleet scans the repositories found by the discoverer together with
// input.Repositories. Repositories are processed in batches of input.BatchWidth and
// input.OnBatch receives the reports of every finished batch. A repository that fails is
// recorded in the returned report and does not stop the others.
func (x *UseCase) ScanFleet(ctx context.Context, input *model.ScanFleetInput) (*model.FleetReport, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}
	logger := logging.From(ctx)
	fleet := &model.FleetReport{}

	repos := slices.Clone(input.Repositories)
	if d := x.clients.Discoverer(); d != nil {
		discovery, err := d.Discover(ctx)
		if discovery != nil {
			fleet.Failures = append(fleet.Failures, discovery.Failures...)
			repos = append(repos, discovery.Repositories...)
		}
		if err != nil {
			if len(input.Repositories) == 0 {
				return fleet, goerr.Wrap(err, "failed to discover repositories")
			}
			errutil.HandleError(ctx, "discovery failed, scanning explicit repositories only", err)
		}
	}
	repos = uniqueRepositories(repos)

	if len(repos) == 0 {
		logger.Warn("No repositories to scan")
		return fleet, nil
	}

	logger.Info("Starting fleet scan",
		slog.Int("repositories", len(repos)),
		slog.Int("batch_width", input.BatchWidth),
	)

	var successCount int
	for index, start := 0, 0; start < len(repos); index, start = index+1, start+input.BatchWidth {
		chunk := repos[start:min(start+input.BatchWidth, len(repos))]
		logger.Info("Scanning batch",
			slog.Int("batch", index+1),
			slog.Int("progress", start),
			slog.Int("total", len(repos)),
		)

		outcomes := batch.Run(ctx, chunk, input.BatchWidth, func(ctx context.Context, repo model.RepositoryRef) (*model.RepoReport, error) {
			return x.ScanRemote(ctx, &model.ScanRemoteInput{
				Repo:    repo,
				WorkDir: input.WorkDir,
				Options: input.Options,
			})
		})

		var reports []*model.RepoReport
		for _, o := range outcomes {
			if o.Err != nil {
				fleet.Failures = append(fleet.Failures,
					errutil.Failure(ctx, types.FailureProject, o.Item.Name, o.Item.URL, o.Err))
				continue
			}
			successCount++
			reports = append(reports, o.Value)
			// history of the project could not be scanned, its working tree result is kept
			for _, f := range o.Value.Failures {
				if f.Kind == types.FailureProject {
					fleet.Failures = append(fleet.Failures, f)
				}
			}
		}
		fleet.Projects = append(fleet.Projects, reports...)

		if input.OnBatch != nil {
			if err := input.OnBatch(ctx, index, reports); err != nil {
				return fleet, goerr.Wrap(err, "failed to handle batch result", goerr.V("batch", index))
			}
		}
	}

	logger.Info("Completed fleet scan",
		slog.Int("total_repos", len(repos)),
		slog.Int("success", successCount),
		slog.Int("failure", len(repos)-successCount),
	)

	return fleet, nil
}

func uniqueRepositories(repos []model.RepositoryRef) []model.RepositoryRef {
	seen := make(map[string]struct{}, len(repos))
	var out []model.RepositoryRef
	for _, r := range repos {
		if _, ok := seen[r.URL]; ok {
			continue
		}
		seen[r.URL] = struct{}{}
		if r.Name == "" {
			r.Name = repoNameFromURL(r.URL)
		}
		out = append(out, r)
	}
	return out
}
