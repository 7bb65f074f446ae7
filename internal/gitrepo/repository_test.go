package gitrepo_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gautamraj/sitepub/internal/execshell"
	"github.com/gautamraj/sitepub/internal/gitrepo"
)

const (
	testRepositoryPathConstant = "/site/public"
	testRemoteNameConstant     = "origin"
	testRemoteURLConstant      = "git@github.com:gautamraj/gautamraj.github.io.git\n"
)

type scriptedGitExecutor struct {
	executionResult  execshell.ExecutionResult
	executionError   error
	recordedCommands []execshell.CommandDetails
}

func (executor *scriptedGitExecutor) ExecuteGit(_ context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error) {
	executor.recordedCommands = append(executor.recordedCommands, details)
	return executor.executionResult, executor.executionError
}

func TestNewRepositoryManagerRequiresExecutor(testInstance *testing.T) {
	manager, creationError := gitrepo.NewRepositoryManager(nil)
	require.ErrorIs(testInstance, creationError, gitrepo.ErrCommandExecutorNotConfigured)
	require.Nil(testInstance, manager)
}

func TestCheckCleanWorktree(testInstance *testing.T) {
	testCases := []struct {
		name           string
		statusOutput   string
		executionError error
		expectedClean  bool
		expectError    bool
	}{
		{name: "clean", statusOutput: "", expectedClean: true},
		{name: "whitespace_only", statusOutput: "\n", expectedClean: true},
		{name: "dirty", statusOutput: " M index.html\n?? post/\n", expectedClean: false},
		{name: "execution_error", executionError: errors.New("status failed"), expectError: true},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			executor := &scriptedGitExecutor{
				executionResult: execshell.ExecutionResult{StandardOutput: testCase.statusOutput},
				executionError:  testCase.executionError,
			}
			manager, creationError := gitrepo.NewRepositoryManager(executor)
			require.NoError(testInstance, creationError)

			clean, checkError := manager.CheckCleanWorktree(context.Background(), testRepositoryPathConstant)
			if testCase.expectError {
				require.Error(testInstance, checkError)
				return
			}
			require.NoError(testInstance, checkError)
			require.Equal(testInstance, testCase.expectedClean, clean)
			require.Len(testInstance, executor.recordedCommands, 1)
			require.Equal(testInstance, []string{"status", "--porcelain"}, executor.recordedCommands[0].Arguments)
			require.Equal(testInstance, testRepositoryPathConstant, executor.recordedCommands[0].WorkingDirectory)
		})
	}
}

func TestGetCurrentBranchTrimsOutput(testInstance *testing.T) {
	executor := &scriptedGitExecutor{executionResult: execshell.ExecutionResult{StandardOutput: "main\n"}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	branchName, branchError := manager.GetCurrentBranch(context.Background(), testRepositoryPathConstant)
	require.NoError(testInstance, branchError)
	require.Equal(testInstance, "main", branchName)
	require.Equal(testInstance, []string{"rev-parse", "--abbrev-ref", "HEAD"}, executor.recordedCommands[0].Arguments)
}

func TestGetRemoteURLTrimsOutput(testInstance *testing.T) {
	executor := &scriptedGitExecutor{executionResult: execshell.ExecutionResult{StandardOutput: testRemoteURLConstant}}
	manager, creationError := gitrepo.NewRepositoryManager(executor)
	require.NoError(testInstance, creationError)

	remoteURL, remoteError := manager.GetRemoteURL(context.Background(), testRepositoryPathConstant, testRemoteNameConstant)
	require.NoError(testInstance, remoteError)
	require.Equal(testInstance, "git@github.com:gautamraj/gautamraj.github.io.git", remoteURL)
	require.Equal(testInstance, []string{"remote", "get-url", testRemoteNameConstant}, executor.recordedCommands[0].Arguments)
}
