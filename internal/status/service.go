package status

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gautamraj/sitepub/internal/gitrepo"
)

const (
	outputDirectoryRequiredMessageConstant  = "output directory must be provided"
	repositoryManagerMissingMessageConstant = "repository manager not configured"
	worktreeInspectorMissingMessageConstant = "worktree inspector not configured"
	branchFailureTemplateConstant           = "failed to determine current branch in %s: %w"
	cleanlinessFailureTemplateConstant      = "failed to determine worktree cleanliness in %s: %w"
)

// ErrOutputDirectoryRequired indicates the output directory option was empty.
var ErrOutputDirectoryRequired = errors.New(outputDirectoryRequiredMessageConstant)

// ErrRepositoryManagerNotConfigured indicates the repository manager dependency was missing.
var ErrRepositoryManagerNotConfigured = errors.New(repositoryManagerMissingMessageConstant)

// ErrWorktreeInspectorNotConfigured indicates the worktree inspector dependency was missing.
var ErrWorktreeInspectorNotConfigured = errors.New(worktreeInspectorMissingMessageConstant)

// RepositoryManager exposes the git read operations the report needs.
type RepositoryManager interface {
	CheckCleanWorktree(executionContext context.Context, repositoryPath string) (bool, error)
	GetCurrentBranch(executionContext context.Context, repositoryPath string) (string, error)
	GetRemoteURL(executionContext context.Context, repositoryPath string, remoteName string) (string, error)
}

// WorktreeInspector validates the output working copy and reports its remote.
type WorktreeInspector interface {
	InspectWorktree(directoryPath string, remoteName string) (gitrepo.WorktreeDetails, error)
}

// ServiceDependencies enumerates collaborators required by the service.
type ServiceDependencies struct {
	RepositoryManager RepositoryManager
	WorktreeInspector WorktreeInspector
}

// Options configure a status report.
type Options struct {
	OutputDirectory string
	RemoteName      string
}

// Report captures the publishing state of the output working copy.
type Report struct {
	OutputDirectory string
	BranchName      string
	RemoteName      string
	RemoteURL       string
	RemoteOwner     string
	RemoteRepo      string
	PendingChanges  bool
}

// Service assembles publishing status reports without mutating the worktree.
type Service struct {
	manager   RepositoryManager
	inspector WorktreeInspector
}

// NewService constructs a Service from the provided dependencies.
func NewService(dependencies ServiceDependencies) (*Service, error) {
	if dependencies.RepositoryManager == nil {
		return nil, ErrRepositoryManagerNotConfigured
	}
	if dependencies.WorktreeInspector == nil {
		return nil, ErrWorktreeInspectorNotConfigured
	}
	return &Service{manager: dependencies.RepositoryManager, inspector: dependencies.WorktreeInspector}, nil
}

// Describe reports the branch, remote, and cleanliness of the output working copy.
func (service *Service) Describe(executionContext context.Context, options Options) (Report, error) {
	trimmedOutputDirectory := strings.TrimSpace(options.OutputDirectory)
	if len(trimmedOutputDirectory) == 0 {
		return Report{}, ErrOutputDirectoryRequired
	}

	worktreeDetails, inspectionError := service.inspector.InspectWorktree(trimmedOutputDirectory, strings.TrimSpace(options.RemoteName))
	if inspectionError != nil {
		return Report{}, inspectionError
	}

	branchName, branchError := service.manager.GetCurrentBranch(executionContext, trimmedOutputDirectory)
	if branchError != nil {
		return Report{}, fmt.Errorf(branchFailureTemplateConstant, trimmedOutputDirectory, branchError)
	}

	cleanWorktree, cleanlinessError := service.manager.CheckCleanWorktree(executionContext, trimmedOutputDirectory)
	if cleanlinessError != nil {
		return Report{}, fmt.Errorf(cleanlinessFailureTemplateConstant, trimmedOutputDirectory, cleanlinessError)
	}

	// git applies url.<base>.insteadOf rewrites that reading the repository
	// configuration does not, so prefer the resolved URL when git answers.
	remoteURL := worktreeDetails.RemoteURL
	if resolvedRemoteURL, remoteURLError := service.manager.GetRemoteURL(executionContext, trimmedOutputDirectory, worktreeDetails.RemoteName); remoteURLError == nil && len(resolvedRemoteURL) > 0 {
		remoteURL = resolvedRemoteURL
	}

	report := Report{
		OutputDirectory: trimmedOutputDirectory,
		BranchName:      branchName,
		RemoteName:      worktreeDetails.RemoteName,
		RemoteURL:       remoteURL,
		PendingChanges:  !cleanWorktree,
	}

	if parsedRemote, parseError := gitrepo.ParseRemoteURL(remoteURL); parseError == nil {
		report.RemoteOwner = parsedRemote.Owner
		report.RemoteRepo = parsedRemote.Repository
	}

	return report, nil
}
