package usecase_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/langaudit/pkg/usecase"
)

func TestRepoNameFromURL(t *testing.T) {
	testCases := map[string]string{
		"https://gitlab.example.com/group/sub/app.git": "group/sub/app",
		"https://github.com/owner/repo":                "owner/repo",
		"git@gitlab.example.com:group/app.git":         "group/app",
		"ssh://git@host:2222/group/app.git":            "group/app",
		"/srv/repos/app":                               "app",
	}
	for url, want := range testCases {
		t.Run(url, func(t *testing.T) {
			gt.V(t, usecase.RepoNameFromURL(url)).Equal(want)
		})
	}
}
