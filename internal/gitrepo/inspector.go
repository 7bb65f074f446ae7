package gitrepo

import (
	"errors"
	"fmt"
	"os"

	git "github.com/go-git/go-git/v5"
)

const (
	outputDirectoryMissingMessageConstant   = "output directory does not exist"
	outputDirectoryNotDirMessageConstant    = "output directory is not a directory"
	notARepositoryMessageConstant           = "output directory is not a git working copy"
	remoteNotConfiguredMessageConstant      = "remote is not configured in the output working copy"
	inspectionStatErrorTemplateConstant     = "%w: %s"
	inspectionOpenErrorTemplateConstant     = "failed to open repository at %s: %w"
	inspectionRemoteErrorTemplateConstant   = "failed to read remote %q at %s: %w"
	inspectionTargetAnnotationTemplateConst = "%w: %s"
)

// ErrOutputDirectoryMissing indicates the output directory does not exist on disk.
var ErrOutputDirectoryMissing = errors.New(outputDirectoryMissingMessageConstant)

// ErrOutputPathNotDirectory indicates the configured output path is a file.
var ErrOutputPathNotDirectory = errors.New(outputDirectoryNotDirMessageConstant)

// ErrNotARepository indicates the output directory is not a git working copy.
var ErrNotARepository = errors.New(notARepositoryMessageConstant)

// ErrRemoteNotConfigured indicates the output working copy lacks the requested remote.
var ErrRemoteNotConfigured = errors.New(remoteNotConfiguredMessageConstant)

// WorktreeDetails describes a validated publishing target.
type WorktreeDetails struct {
	RemoteName string
	RemoteURL  string
}

// WorktreeInspector validates publishing targets without mutating them.
// Inspection runs through go-git so a broken target is rejected before any
// git command touches it.
type WorktreeInspector struct{}

// NewWorktreeInspector constructs a WorktreeInspector.
func NewWorktreeInspector() WorktreeInspector {
	return WorktreeInspector{}
}

// InspectWorktree confirms directoryPath is an existing git working copy with
// the named remote configured and reports the remote URL it publishes to.
func (inspector WorktreeInspector) InspectWorktree(directoryPath string, remoteName string) (WorktreeDetails, error) {
	directoryInfo, statError := os.Stat(directoryPath)
	if statError != nil {
		return WorktreeDetails{}, fmt.Errorf(inspectionStatErrorTemplateConstant, ErrOutputDirectoryMissing, directoryPath)
	}
	if !directoryInfo.IsDir() {
		return WorktreeDetails{}, fmt.Errorf(inspectionTargetAnnotationTemplateConst, ErrOutputPathNotDirectory, directoryPath)
	}

	repository, openError := git.PlainOpen(directoryPath)
	if openError != nil {
		if errors.Is(openError, git.ErrRepositoryNotExists) {
			return WorktreeDetails{}, fmt.Errorf(inspectionTargetAnnotationTemplateConst, ErrNotARepository, directoryPath)
		}
		return WorktreeDetails{}, fmt.Errorf(inspectionOpenErrorTemplateConstant, directoryPath, openError)
	}

	remote, remoteError := repository.Remote(remoteName)
	if remoteError != nil {
		if errors.Is(remoteError, git.ErrRemoteNotFound) {
			return WorktreeDetails{}, fmt.Errorf(inspectionTargetAnnotationTemplateConst, ErrRemoteNotConfigured, remoteName)
		}
		return WorktreeDetails{}, fmt.Errorf(inspectionRemoteErrorTemplateConstant, remoteName, directoryPath, remoteError)
	}

	remoteURLs := remote.Config().URLs
	if len(remoteURLs) == 0 {
		return WorktreeDetails{}, fmt.Errorf(inspectionTargetAnnotationTemplateConst, ErrRemoteNotConfigured, remoteName)
	}

	return WorktreeDetails{RemoteName: remoteName, RemoteURL: remoteURLs[0]}, nil
}
