package publish

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gautamraj/sitepub/internal/execshell"
	"github.com/gautamraj/sitepub/internal/gitrepo"
	"github.com/gautamraj/sitepub/internal/hugo"
)

const (
	publishSiteRootRequiredMessageConstant   = "site root must be provided"
	publishOutputRequiredMessageConstant     = "output directory must be provided"
	publishGitExecutorMissingMessageConstant = "git executor not configured"
	publishGeneratorMissingMessageConstant   = "site generator not configured"
	publishInspectorMissingMessageConstant   = "worktree inspector not configured"
	noChangesMessageConstant                 = "no site changes to publish"
	stageFailureTemplateConstant             = "failed to stage site output in %s: %w"
	statusFailureTemplateConstant            = "failed to read worktree status in %s: %w"
	commitFailureTemplateConstant            = "failed to commit site output in %s: %w"
	pushFailureTemplateConstant              = "failed to push %s to %s: %w"
	gitAddSubcommandConstant                 = "add"
	gitAddAllFlagConstant                    = "--all"
	gitStatusSubcommandConstant              = "status"
	gitStatusPorcelainFlagConstant           = "--porcelain"
	gitCommitSubcommandConstant              = "commit"
	gitCommitMessageFlagConstant             = "-m"
	gitPushSubcommandConstant                = "push"
	gitTerminalPromptEnvironmentNameConstant = "GIT_TERMINAL_PROMPT"
	gitTerminalPromptEnvironmentDisableValue = "0"
)

// ErrSiteRootRequired indicates the site root option was empty.
var ErrSiteRootRequired = errors.New(publishSiteRootRequiredMessageConstant)

// ErrOutputDirectoryRequired indicates the output directory option was empty.
var ErrOutputDirectoryRequired = errors.New(publishOutputRequiredMessageConstant)

// ErrGitExecutorNotConfigured indicates the git executor dependency was missing.
var ErrGitExecutorNotConfigured = errors.New(publishGitExecutorMissingMessageConstant)

// ErrSiteGeneratorNotConfigured indicates the site generator dependency was missing.
var ErrSiteGeneratorNotConfigured = errors.New(publishGeneratorMissingMessageConstant)

// ErrWorktreeInspectorNotConfigured indicates the worktree inspector dependency was missing.
var ErrWorktreeInspectorNotConfigured = errors.New(publishInspectorMissingMessageConstant)

// ErrNoChangesToPublish indicates the regenerated output matched the last
// published state, so no commit or push was made.
var ErrNoChangesToPublish = errors.New(noChangesMessageConstant)

// GitExecutor runs git commands.
type GitExecutor interface {
	ExecuteGit(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// SiteGenerator rebuilds the static site.
type SiteGenerator interface {
	Generate(executionContext context.Context, options hugo.GenerationOptions) (hugo.GenerationResult, error)
}

// WorktreeInspector validates the output working copy before any mutation.
type WorktreeInspector interface {
	InspectWorktree(directoryPath string, remoteName string) (gitrepo.WorktreeDetails, error)
}

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	GitExecutor       GitExecutor
	SiteGenerator     SiteGenerator
	WorktreeInspector WorktreeInspector
	Clock             Clock
}

// Options configure a publish run.
type Options struct {
	SiteRoot        string
	OutputDirectory string
	RemoteName      string
	BranchName      string
	MessageWords    []string
	HugoArguments   []string
	SkipBuild       bool
}

// Result captures the outcome of a publish run.
type Result struct {
	OutputDirectory string
	RemoteName      string
	RemoteURL       string
	BranchName      string
	CommitMessage   string
	GeneratedPages  int
}

// Service regenerates the site and publishes the output working copy. Every
// step runs against an explicit working directory; the process working
// directory is never changed.
type Service struct {
	executor  GitExecutor
	generator SiteGenerator
	inspector WorktreeInspector
	clock     Clock
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.GitExecutor == nil {
		return nil, ErrGitExecutorNotConfigured
	}
	if dependencies.SiteGenerator == nil {
		return nil, ErrSiteGeneratorNotConfigured
	}
	if dependencies.WorktreeInspector == nil {
		return nil, ErrWorktreeInspectorNotConfigured
	}
	clock := dependencies.Clock
	if clock == nil {
		clock = SystemClock{}
	}
	return &Service{
		executor:  dependencies.GitExecutor,
		generator: dependencies.SiteGenerator,
		inspector: dependencies.WorktreeInspector,
		clock:     clock,
	}, nil
}

// Publish rebuilds the site and pushes the output working copy. Each step
// runs only after the previous one succeeded; the first failure aborts the
// run and is returned to the caller.
func (service *Service) Publish(executionContext context.Context, options Options) (Result, error) {
	trimmedSiteRoot := strings.TrimSpace(options.SiteRoot)
	if len(trimmedSiteRoot) == 0 {
		return Result{}, ErrSiteRootRequired
	}
	trimmedOutputDirectory := strings.TrimSpace(options.OutputDirectory)
	if len(trimmedOutputDirectory) == 0 {
		return Result{}, ErrOutputDirectoryRequired
	}

	remoteName := strings.TrimSpace(options.RemoteName)
	if len(remoteName) == 0 {
		remoteName = defaultRemoteNameConstant
	}
	branchName := strings.TrimSpace(options.BranchName)
	if len(branchName) == 0 {
		branchName = defaultBranchNameConstant
	}

	generatedPages := 0
	if !options.SkipBuild {
		generationResult, generationError := service.generator.Generate(executionContext, hugo.GenerationOptions{SiteRoot: trimmedSiteRoot, ExtraArguments: options.HugoArguments})
		if generationError != nil {
			return Result{}, generationError
		}
		generatedPages = generationResult.GeneratedPages
	}

	worktreeDetails, inspectionError := service.inspector.InspectWorktree(trimmedOutputDirectory, remoteName)
	if inspectionError != nil {
		return Result{}, inspectionError
	}

	if _, stageError := service.executeGit(executionContext, trimmedOutputDirectory, gitAddSubcommandConstant, gitAddAllFlagConstant); stageError != nil {
		return Result{}, fmt.Errorf(stageFailureTemplateConstant, trimmedOutputDirectory, stageError)
	}

	statusResult, statusError := service.executeGit(executionContext, trimmedOutputDirectory, gitStatusSubcommandConstant, gitStatusPorcelainFlagConstant)
	if statusError != nil {
		return Result{}, fmt.Errorf(statusFailureTemplateConstant, trimmedOutputDirectory, statusError)
	}
	if len(strings.TrimSpace(statusResult.StandardOutput)) == 0 {
		return Result{}, ErrNoChangesToPublish
	}

	commitMessage := BuildCommitMessage(options.MessageWords, service.clock)
	if _, commitError := service.executeGit(executionContext, trimmedOutputDirectory, gitCommitSubcommandConstant, gitCommitMessageFlagConstant, commitMessage); commitError != nil {
		return Result{}, fmt.Errorf(commitFailureTemplateConstant, trimmedOutputDirectory, commitError)
	}

	if _, pushError := service.executeGit(executionContext, trimmedOutputDirectory, gitPushSubcommandConstant, remoteName, branchName); pushError != nil {
		return Result{}, fmt.Errorf(pushFailureTemplateConstant, branchName, remoteName, pushError)
	}

	return Result{
		OutputDirectory: trimmedOutputDirectory,
		RemoteName:      worktreeDetails.RemoteName,
		RemoteURL:       worktreeDetails.RemoteURL,
		BranchName:      branchName,
		CommitMessage:   commitMessage,
		GeneratedPages:  generatedPages,
	}, nil
}

func (service *Service) executeGit(executionContext context.Context, workingDirectory string, arguments ...string) (execshell.ExecutionResult, error) {
	return service.executor.ExecuteGit(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     workingDirectory,
		EnvironmentVariables: map[string]string{gitTerminalPromptEnvironmentNameConstant: gitTerminalPromptEnvironmentDisableValue},
	})
}
