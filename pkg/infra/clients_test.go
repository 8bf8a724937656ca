package infra_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/langaudit/pkg/domain/mock"
	"github.com/m-mizutani/langaudit/pkg/infra"
	"github.com/m-mizutani/langaudit/pkg/infra/git"
)

func TestNew(t *testing.T) {
	t.Run("create new clients without options", func(t *testing.T) {
		clients := infra.New()
		_, ok := clients.Git().(*git.Client)
		gt.True(t, ok)
		gt.True(t, clients.Discoverer() == nil)
	})

	t.Run("WithGit option sets git transport", func(t *testing.T) {
		mockGit := &mock.GitMock{}
		clients := infra.New(infra.WithGit(mockGit))
		gt.V(t, clients.Git()).Equal(mockGit)
	})

	t.Run("multiple options can be combined", func(t *testing.T) {
		mockGit := &mock.GitMock{}
		mockDiscoverer := &mock.DiscovererMock{}

		clients := infra.New(
			infra.WithGit(mockGit),
			infra.WithDiscoverer(mockDiscoverer),
		)

		gt.V(t, clients.Git()).Equal(mockGit)
		gt.V(t, clients.Discoverer()).Equal(mockDiscoverer)
	})
}
