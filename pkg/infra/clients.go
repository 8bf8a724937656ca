package infra

import (
	"github.com/m-mizutani/langaudit/pkg/domain/interfaces"
	"github.com/m-mizutani/langaudit/pkg/infra/git"
)

type Clients struct {
	git        interfaces.Git
	discoverer interfaces.Discoverer
}

type Option func(*Clients)

func New(options ...Option) *Clients {
	client := &Clients{
		git: git.New(),
	}

	for _, opt := range options {
		opt(client)
	}

	return client
}

func (x *Clients) Git() interfaces.Git {
	return x.git
}

// Discoverer returns the hosting API used to find repositories, or nil when only explicit
// repositories are scanned.
func (x *Clients) Discoverer() interfaces.Discoverer {
	return x.discoverer
}

func WithGit(client interfaces.Git) Option {
	return func(x *Clients) {
		x.git = client
	}
}

func WithDiscoverer(d interfaces.Discoverer) Option {
	return func(x *Clients) {
		x.discoverer = d
	}
}
