package status_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/gautamraj/sitepub/internal/gitrepo"
	"github.com/gautamraj/sitepub/internal/status"
)

const (
	statusOutputPathConstant = "/blog/public"
	statusRemoteNameConstant = "origin"
	statusRemoteURLConstant  = "git@github.com:gautamraj/gautamraj.github.io.git"
)

type stubRepositoryManager struct {
	cleanWorktree    bool
	branchName       string
	resolvedRemote   string
	branchError      error
	cleanlinessError error
	remoteURLError   error
}

func (manager *stubRepositoryManager) CheckCleanWorktree(_ context.Context, _ string) (bool, error) {
	return manager.cleanWorktree, manager.cleanlinessError
}

func (manager *stubRepositoryManager) GetCurrentBranch(_ context.Context, _ string) (string, error) {
	return manager.branchName, manager.branchError
}

func (manager *stubRepositoryManager) GetRemoteURL(_ context.Context, _ string, _ string) (string, error) {
	return manager.resolvedRemote, manager.remoteURLError
}

type stubWorktreeInspector struct {
	inspectionError error
}

func (inspector stubWorktreeInspector) InspectWorktree(_ string, remoteName string) (gitrepo.WorktreeDetails, error) {
	if inspector.inspectionError != nil {
		return gitrepo.WorktreeDetails{}, inspector.inspectionError
	}
	return gitrepo.WorktreeDetails{RemoteName: remoteName, RemoteURL: statusRemoteURLConstant}, nil
}

func TestNewServiceValidatesDependencies(testInstance *testing.T) {
	service, creationError := status.NewService(status.ServiceDependencies{WorktreeInspector: stubWorktreeInspector{}})
	require.ErrorIs(testInstance, creationError, status.ErrRepositoryManagerNotConfigured)
	require.Nil(testInstance, service)

	service, creationError = status.NewService(status.ServiceDependencies{RepositoryManager: &stubRepositoryManager{}})
	require.ErrorIs(testInstance, creationError, status.ErrWorktreeInspectorNotConfigured)
	require.Nil(testInstance, service)
}

func TestDescribe(testInstance *testing.T) {
	testCases := []struct {
		name            string
		manager         *stubRepositoryManager
		inspector       stubWorktreeInspector
		options         status.Options
		expectedReport  status.Report
		expectedErrorIs error
	}{
		{
			name:    "pending_changes",
			manager: &stubRepositoryManager{cleanWorktree: false, branchName: "main"},
			options: status.Options{OutputDirectory: statusOutputPathConstant, RemoteName: statusRemoteNameConstant},
			expectedReport: status.Report{
				OutputDirectory: statusOutputPathConstant,
				BranchName:      "main",
				RemoteName:      statusRemoteNameConstant,
				RemoteURL:       statusRemoteURLConstant,
				RemoteOwner:     "gautamraj",
				RemoteRepo:      "gautamraj.github.io",
				PendingChanges:  true,
			},
		},
		{
			name:    "clean_worktree",
			manager: &stubRepositoryManager{cleanWorktree: true, branchName: "main"},
			options: status.Options{OutputDirectory: statusOutputPathConstant, RemoteName: statusRemoteNameConstant},
			expectedReport: status.Report{
				OutputDirectory: statusOutputPathConstant,
				BranchName:      "main",
				RemoteName:      statusRemoteNameConstant,
				RemoteURL:       statusRemoteURLConstant,
				RemoteOwner:     "gautamraj",
				RemoteRepo:      "gautamraj.github.io",
				PendingChanges:  false,
			},
		},
		{
			name:            "missing_output_directory",
			manager:         &stubRepositoryManager{},
			options:         status.Options{OutputDirectory: "  "},
			expectedErrorIs: status.ErrOutputDirectoryRequired,
		},
		{
			name:            "inspection_failure",
			manager:         &stubRepositoryManager{},
			inspector:       stubWorktreeInspector{inspectionError: gitrepo.ErrRemoteNotConfigured},
			options:         status.Options{OutputDirectory: statusOutputPathConstant},
			expectedErrorIs: gitrepo.ErrRemoteNotConfigured,
		},
	}

	for _, testCase := range testCases {
		testInstance.Run(testCase.name, func(testInstance *testing.T) {
			service, creationError := status.NewService(status.ServiceDependencies{
				RepositoryManager: testCase.manager,
				WorktreeInspector: testCase.inspector,
			})
			require.NoError(testInstance, creationError)

			report, describeError := service.Describe(context.Background(), testCase.options)
			if testCase.expectedErrorIs != nil {
				require.ErrorIs(testInstance, describeError, testCase.expectedErrorIs)
				return
			}
			require.NoError(testInstance, describeError)
			require.Equal(testInstance, testCase.expectedReport, report)
		})
	}
}

func TestDescribePrefersResolvedRemoteURL(testInstance *testing.T) {
	service, creationError := status.NewService(status.ServiceDependencies{
		RepositoryManager: &stubRepositoryManager{branchName: "main", resolvedRemote: "git@github.com:gautamraj/blog.git"},
		WorktreeInspector: stubWorktreeInspector{},
	})
	require.NoError(testInstance, creationError)

	report, describeError := service.Describe(context.Background(), status.Options{OutputDirectory: statusOutputPathConstant, RemoteName: statusRemoteNameConstant})
	require.NoError(testInstance, describeError)
	require.Equal(testInstance, "git@github.com:gautamraj/blog.git", report.RemoteURL)
	require.Equal(testInstance, "blog", report.RemoteRepo)
}

func TestDescribeFallsBackToConfiguredRemoteURL(testInstance *testing.T) {
	service, creationError := status.NewService(status.ServiceDependencies{
		RepositoryManager: &stubRepositoryManager{branchName: "main", remoteURLError: errors.New("remote lookup failed")},
		WorktreeInspector: stubWorktreeInspector{},
	})
	require.NoError(testInstance, creationError)

	report, describeError := service.Describe(context.Background(), status.Options{OutputDirectory: statusOutputPathConstant, RemoteName: statusRemoteNameConstant})
	require.NoError(testInstance, describeError)
	require.Equal(testInstance, statusRemoteURLConstant, report.RemoteURL)
	require.Equal(testInstance, "gautamraj.github.io", report.RemoteRepo)
}

func TestDescribeWrapsBranchFailure(testInstance *testing.T) {
	service, creationError := status.NewService(status.ServiceDependencies{
		RepositoryManager: &stubRepositoryManager{branchError: errors.New("detached head")},
		WorktreeInspector: stubWorktreeInspector{},
	})
	require.NoError(testInstance, creationError)

	_, describeError := service.Describe(context.Background(), status.Options{OutputDirectory: statusOutputPathConstant})
	require.Error(testInstance, describeError)
	require.Contains(testInstance, describeError.Error(), "failed to determine current branch")
}
