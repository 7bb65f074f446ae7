package publish_test

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/gautamraj/sitepub/internal/execshell"
	"github.com/gautamraj/sitepub/internal/gitrepo"
	"github.com/gautamraj/sitepub/internal/hugo"
	"github.com/gautamraj/sitepub/internal/publish"
)

const (
	serviceSiteRootConstant   = "/blog"
	serviceOutputPathConstant = "/blog/public"
	serviceRemoteNameConstant = "origin"
	serviceRemoteURLConstant  = "git@github.com:gautamraj/gautamraj.github.io.git"
	serviceBranchNameConstant = "main"
	dirtyStatusOutputConstant = " M index.html\n?? posts/new/\n"
)

type recordingGitExecutor struct {
	statusOutput     string
	failingArgument  string
	failureError     error
	recordedCommands []execshell.CommandDetails
}

func (executor *recordingGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	if len(executor.failingArgument) > 0 && details.Arguments[0] == executor.failingArgument {
		return execshell.ExecutionResult{}, executor.failureError
	}
	if details.Arguments[0] == "status" {
		return execshell.ExecutionResult{StandardOutput: executor.statusOutput}, nil
	}
	return execshell.ExecutionResult{}, nil
}

type recordingSiteGenerator struct {
	generationError  error
	recordedRequests []hugo.GenerationOptions
}

func (generator *recordingSiteGenerator) Generate(_ context.Context, options hugo.GenerationOptions) (hugo.GenerationResult, error) {
	generator.recordedRequests = append(generator.recordedRequests, options)
	if generator.generationError != nil {
		return hugo.GenerationResult{}, generator.generationError
	}
	return hugo.GenerationResult{SiteRoot: options.SiteRoot, GeneratedPages: 42}, nil
}

type recordingWorktreeInspector struct {
	inspectionError    error
	recordedPaths      []string
	recordedRemotes    []string
	inspectionResponse gitrepo.WorktreeDetails
}

func (inspector *recordingWorktreeInspector) InspectWorktree(directoryPath string, remoteName string) (gitrepo.WorktreeDetails, error) {
	inspector.recordedPaths = append(inspector.recordedPaths, directoryPath)
	inspector.recordedRemotes = append(inspector.recordedRemotes, remoteName)
	if inspector.inspectionError != nil {
		return gitrepo.WorktreeDetails{}, inspector.inspectionError
	}
	return inspector.inspectionResponse, nil
}

type fixedClock struct {
	currentTime time.Time
}

func (clock fixedClock) Now() time.Time {
	return clock.currentTime
}

func newPublishFixture(statusOutput string) (*recordingGitExecutor, *recordingSiteGenerator, *recordingWorktreeInspector, *publish.Service) {
	executor := &recordingGitExecutor{statusOutput: statusOutput}
	generator := &recordingSiteGenerator{}
	inspector := &recordingWorktreeInspector{
		inspectionResponse: gitrepo.WorktreeDetails{RemoteName: serviceRemoteNameConstant, RemoteURL: serviceRemoteURLConstant},
	}
	service, _ := publish.NewService(publish.ServiceDependencies{
		GitExecutor:       executor,
		SiteGenerator:     generator,
		WorktreeInspector: inspector,
		Clock:             fixedClock{currentTime: time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)},
	})
	return executor, generator, inspector, service
}

func defaultPublishOptions() publish.Options {
	return publish.Options{
		SiteRoot:        serviceSiteRootConstant,
		OutputDirectory: serviceOutputPathConstant,
		RemoteName:      serviceRemoteNameConstant,
		BranchName:      serviceBranchNameConstant,
		MessageWords:    []string{"fix", "typo"},
		HugoArguments:   []string{"--quiet"},
	}
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	executor := &recordingGitExecutor{}
	generator := &recordingSiteGenerator{}
	inspector := &recordingWorktreeInspector{}

	testCases := []struct {
		name          string
		dependencies  publish.ServiceDependencies
		expectedError error
	}{
		{
			name:          "missing_git_executor",
			dependencies:  publish.ServiceDependencies{SiteGenerator: generator, WorktreeInspector: inspector},
			expectedError: publish.ErrGitExecutorNotConfigured,
		},
		{
			name:          "missing_site_generator",
			dependencies:  publish.ServiceDependencies{GitExecutor: executor, WorktreeInspector: inspector},
			expectedError: publish.ErrSiteGeneratorNotConfigured,
		},
		{
			name:          "missing_worktree_inspector",
			dependencies:  publish.ServiceDependencies{GitExecutor: executor, SiteGenerator: generator},
			expectedError: publish.ErrWorktreeInspectorNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			service, creationError := publish.NewService(testCase.dependencies)
			require.ErrorIs(testInstance, creationError, testCase.expectedError)
			require.Nil(testInstance, service)
		})
	}
}

func TestPublishRunsStepsInOrder(testInstance *testing.T) {
	executor, generator, inspector, service := newPublishFixture(dirtyStatusOutputConstant)

	workingDirectoryBefore, _ := os.Getwd()
	publishResult, publishError := service.Publish(context.Background(), defaultPublishOptions())
	workingDirectoryAfter, _ := os.Getwd()

	require.NoError(testInstance, publishError)
	require.Equal(testInstance, workingDirectoryBefore, workingDirectoryAfter)

	require.Len(testInstance, generator.recordedRequests, 1)
	require.Equal(testInstance, serviceSiteRootConstant, generator.recordedRequests[0].SiteRoot)
	require.Equal(testInstance, []string{"--quiet"}, generator.recordedRequests[0].ExtraArguments)
	require.Equal(testInstance, []string{serviceOutputPathConstant}, inspector.recordedPaths)
	require.Equal(testInstance, []string{serviceRemoteNameConstant}, inspector.recordedRemotes)

	require.Len(testInstance, executor.recordedCommands, 4)
	require.Equal(testInstance, []string{"add", "--all"}, executor.recordedCommands[0].Arguments)
	require.Equal(testInstance, []string{"status", "--porcelain"}, executor.recordedCommands[1].Arguments)
	require.Equal(testInstance, []string{"commit", "-m", "fix typo"}, executor.recordedCommands[2].Arguments)
	require.Equal(testInstance, []string{"push", serviceRemoteNameConstant, serviceBranchNameConstant}, executor.recordedCommands[3].Arguments)
	for _, recordedCommand := range executor.recordedCommands {
		require.Equal(testInstance, serviceOutputPathConstant, recordedCommand.WorkingDirectory)
		require.Equal(testInstance, "0", recordedCommand.EnvironmentVariables["GIT_TERMINAL_PROMPT"])
	}

	require.Equal(testInstance, serviceOutputPathConstant, publishResult.OutputDirectory)
	require.Equal(testInstance, serviceRemoteURLConstant, publishResult.RemoteURL)
	require.Equal(testInstance, serviceBranchNameConstant, publishResult.BranchName)
	require.Equal(testInstance, "fix typo", publishResult.CommitMessage)
	require.Equal(testInstance, 42, publishResult.GeneratedPages)
}

func TestPublishUsesTimestampedMessageWithoutWords(testInstance *testing.T) {
	executor, _, _, service := newPublishFixture(dirtyStatusOutputConstant)

	options := defaultPublishOptions()
	options.MessageWords = nil
	publishResult, publishError := service.Publish(context.Background(), options)

	require.NoError(testInstance, publishError)
	require.Equal(testInstance, "rebuilding site Mon Jan 1 00:00:00 UTC 2024", publishResult.CommitMessage)
	require.Equal(testInstance, []string{"commit", "-m", "rebuilding site Mon Jan 1 00:00:00 UTC 2024"}, executor.recordedCommands[2].Arguments)
}

func TestPublishStopsWhenGenerationFails(testInstance *testing.T) {
	executor, generator, inspector, service := newPublishFixture(dirtyStatusOutputConstant)
	generator.generationError = errors.New("template error")

	_, publishError := service.Publish(context.Background(), defaultPublishOptions())

	require.Error(testInstance, publishError)
	require.Empty(testInstance, inspector.recordedPaths)
	require.Empty(testInstance, executor.recordedCommands)
}

func TestPublishStopsWhenInspectionFails(testInstance *testing.T) {
	executor, _, inspector, service := newPublishFixture(dirtyStatusOutputConstant)
	inspector.inspectionError = gitrepo.ErrNotARepository

	_, publishError := service.Publish(context.Background(), defaultPublishOptions())

	require.ErrorIs(testInstance, publishError, gitrepo.ErrNotARepository)
	require.Empty(testInstance, executor.recordedCommands)
}

func TestPublishReportsNoChangesWithoutPushing(testInstance *testing.T) {
	executor, _, _, service := newPublishFixture("")

	_, publishError := service.Publish(context.Background(), defaultPublishOptions())

	require.ErrorIs(testInstance, publishError, publish.ErrNoChangesToPublish)
	require.Len(testInstance, executor.recordedCommands, 2)
	require.Equal(testInstance, []string{"add", "--all"}, executor.recordedCommands[0].Arguments)
	require.Equal(testInstance, []string{"status", "--porcelain"}, executor.recordedCommands[1].Arguments)
}

func TestPublishStopsWhenCommitFails(testInstance *testing.T) {
	executor, _, _, service := newPublishFixture(dirtyStatusOutputConstant)
	executor.failingArgument = "commit"
	executor.failureError = errors.New("empty identity")

	_, publishError := service.Publish(context.Background(), defaultPublishOptions())

	require.Error(testInstance, publishError)
	require.Contains(testInstance, publishError.Error(), "failed to commit site output")
	require.Len(testInstance, executor.recordedCommands, 3)
}

func TestPublishSkipBuildSkipsGeneration(testInstance *testing.T) {
	executor, generator, _, service := newPublishFixture(dirtyStatusOutputConstant)

	options := defaultPublishOptions()
	options.SkipBuild = true
	_, publishError := service.Publish(context.Background(), options)

	require.NoError(testInstance, publishError)
	require.Empty(testInstance, generator.recordedRequests)
	require.Len(testInstance, executor.recordedCommands, 4)
}

func TestPublishValidatesOptions(testInstance *testing.T) {
	_, _, _, service := newPublishFixture(dirtyStatusOutputConstant)

	_, missingRootError := service.Publish(context.Background(), publish.Options{OutputDirectory: serviceOutputPathConstant})
	require.ErrorIs(testInstance, missingRootError, publish.ErrSiteRootRequired)

	_, missingOutputError := service.Publish(context.Background(), publish.Options{SiteRoot: serviceSiteRootConstant})
	require.ErrorIs(testInstance, missingOutputError, publish.ErrOutputDirectoryRequired)
}
