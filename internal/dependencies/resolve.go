// Package dependencies resolves collaborator defaults for command builders.
package dependencies

import (
	"go.uber.org/zap"

	"github.com/gautamraj/sitepub/internal/execshell"
	"github.com/gautamraj/sitepub/internal/gitrepo"
	"github.com/gautamraj/sitepub/internal/hugo"
	"github.com/gautamraj/sitepub/internal/ui"
)

// ShellCommandExecutor combines the git and hugo execution surfaces of the shell executor.
type ShellCommandExecutor interface {
	hugo.HugoExecutor
	gitrepo.GitExecutor
}

// ResolveShellExecutor returns the provided executor or constructs a shell-backed
// default. Human readable logging attaches a console observer so each external
// command is narrated on the configured logger.
func ResolveShellExecutor(existing ShellCommandExecutor, logger *zap.Logger, humanReadableLogging bool) (ShellCommandExecutor, error) {
	if existing != nil {
		return existing, nil
	}

	commandRunner := execshell.NewOSCommandRunner()
	if humanReadableLogging {
		shellExecutor, creationError := execshell.NewShellExecutor(zap.NewNop(), commandRunner, ui.NewConsoleCommandEventLogger(logger))
		if creationError != nil {
			return nil, creationError
		}
		return shellExecutor, nil
	}

	shellExecutor, creationError := execshell.NewShellExecutor(logger, commandRunner)
	if creationError != nil {
		return nil, creationError
	}
	return shellExecutor, nil
}

// ResolveSiteGenerator returns the provided generator or constructs one from the executor.
func ResolveSiteGenerator(existing *hugo.Generator, executor hugo.HugoExecutor) (*hugo.Generator, error) {
	if existing != nil {
		return existing, nil
	}
	return hugo.NewGenerator(hugo.GeneratorDependencies{HugoExecutor: executor})
}

// ResolveRepositoryManager returns the provided repository manager or constructs one from the executor.
func ResolveRepositoryManager(existing *gitrepo.RepositoryManager, executor gitrepo.GitExecutor) (*gitrepo.RepositoryManager, error) {
	if existing != nil {
		return existing, nil
	}
	return gitrepo.NewRepositoryManager(executor)
}
