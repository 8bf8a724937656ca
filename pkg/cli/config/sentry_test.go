package config_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/langaudit/pkg/cli/config"
	"github.com/urfave/cli/v3"
)

func flagNames(flags []cli.Flag) map[string]bool {
	names := make(map[string]bool)
	for _, flag := range flags {
		names[flag.Names()[0]] = true
	}
	return names
}

func TestSentryFlags(t *testing.T) {
	sentryConfig := &config.Sentry{}
	flags := sentryConfig.Flags()

	gt.V(t, len(flags)).Equal(2)

	names := flagNames(flags)
	gt.True(t, names["sentry-dsn"])
	gt.True(t, names["sentry-env"])
}

func TestDiscoveryFlags(t *testing.T) {
	gl := flagNames((&config.GitLab{}).Flags())
	gt.True(t, gl["gitlab-token"])
	gt.True(t, gl["gitlab-group"])
	gt.True(t, gl["gitlab-url"])
	gt.True(t, gl["gitlab-clone-protocol"])

	gh := flagNames((&config.GitHubApp{}).Flags())
	gt.True(t, gh["github-app-id"])
	gt.True(t, gh["github-app-private-key"])
	gt.True(t, gh["github-owner"])
}

func TestDiscoveryEnabled(t *testing.T) {
	gt.False(t, (&config.GitLab{}).Enabled())
	gt.False(t, (&config.GitHubApp{}).Enabled())
}
