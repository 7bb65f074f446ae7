package status

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gautamraj/sitepub/internal/dependencies"
	"github.com/gautamraj/sitepub/internal/gitrepo"
	"github.com/gautamraj/sitepub/internal/publish"
	"github.com/gautamraj/sitepub/internal/utils"
)

const (
	commandUseNameConstant          = "status"
	commandExampleTemplateConstant  = "sitepub status --site-root ~/blog"
	commandShortDescriptionConstant = "Report the publishing state of the generated output"
	commandLongDescriptionConstant  = "status inspects the output working copy without changing it: the branch it is on, the remote it publishes to, and whether regenerated output is waiting to be published."
	missingSiteRootMessageConstant  = "site root is required; pass --site-root or configure tools.publish.site_root"
	siteRootFlagNameConstant        = "site-root"
	siteRootFlagDescription         = "directory containing the site sources"
	outputDirFlagNameConstant       = "output-dir"
	outputDirFlagDescription        = "generated output directory, relative to the site root unless absolute"
	remoteFlagNameConstant          = "remote"
	remoteFlagDescription           = "git remote the output working copy pushes to"
	reportOutputTemplateConstant    = "OUTPUT: %s\n"
	reportBranchTemplateConstant    = "BRANCH: %s\n"
	reportRemoteTemplateConstant    = "REMOTE: %s (%s)\n"
	reportTargetTemplateConstant    = "TARGET: %s/%s\n"
	reportPendingTemplateConstant   = "PENDING: site changes waiting to be published\n"
	reportCleanTemplateConstant     = "CLEAN: published output is up to date\n"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the status command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ShellExecutor                dependencies.ShellCommandExecutor
	WorktreeInspector            WorktreeInspector
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() publish.CommandConfiguration
}

// Build constructs the status command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseNameConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		RunE:    builder.run,
		Args:    cobra.NoArgs,
		Example: commandExampleTemplateConstant,
	}

	command.Flags().String(siteRootFlagNameConstant, "", siteRootFlagDescription)
	command.Flags().String(outputDirFlagNameConstant, "", outputDirFlagDescription)
	command.Flags().String(remoteFlagNameConstant, "", remoteFlagDescription)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := builder.resolveConfiguration(command)
	if len(configuration.SiteRoot) == 0 {
		if command != nil {
			_ = command.Help()
		}
		return errors.New(missingSiteRootMessageConstant)
	}

	logger := builder.resolveLogger()
	humanReadableLogging := false
	if builder.HumanReadableLoggingProvider != nil {
		humanReadableLogging = builder.HumanReadableLoggingProvider()
	}

	shellExecutor, executorError := dependencies.ResolveShellExecutor(builder.ShellExecutor, logger, humanReadableLogging)
	if executorError != nil {
		return executorError
	}

	repositoryManager, managerError := dependencies.ResolveRepositoryManager(nil, shellExecutor)
	if managerError != nil {
		return managerError
	}

	worktreeInspector := builder.WorktreeInspector
	if worktreeInspector == nil {
		worktreeInspector = gitrepo.NewWorktreeInspector()
	}

	service, serviceError := NewService(ServiceDependencies{
		RepositoryManager: repositoryManager,
		WorktreeInspector: worktreeInspector,
	})
	if serviceError != nil {
		return serviceError
	}

	report, reportError := service.Describe(command.Context(), Options{
		OutputDirectory: configuration.ResolveOutputPath(),
		RemoteName:      configuration.RemoteName,
	})
	if reportError != nil {
		return reportError
	}

	outputWriter := utils.NewFlushingWriter(command.OutOrStdout())
	fmt.Fprintf(outputWriter, reportOutputTemplateConstant, report.OutputDirectory)
	fmt.Fprintf(outputWriter, reportBranchTemplateConstant, report.BranchName)
	fmt.Fprintf(outputWriter, reportRemoteTemplateConstant, report.RemoteURL, report.RemoteName)
	if len(report.RemoteOwner) > 0 && len(report.RemoteRepo) > 0 {
		fmt.Fprintf(outputWriter, reportTargetTemplateConstant, report.RemoteOwner, report.RemoteRepo)
	}
	if report.PendingChanges {
		fmt.Fprint(outputWriter, reportPendingTemplateConstant)
	} else {
		fmt.Fprint(outputWriter, reportCleanTemplateConstant)
	}

	return nil
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) publish.CommandConfiguration {
	configuration := publish.DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}

	if command != nil {
		if flagValue, flagError := command.Flags().GetString(siteRootFlagNameConstant); flagError == nil && command.Flags().Changed(siteRootFlagNameConstant) {
			configuration.SiteRoot = flagValue
		}
		if flagValue, flagError := command.Flags().GetString(outputDirFlagNameConstant); flagError == nil && command.Flags().Changed(outputDirFlagNameConstant) {
			configuration.OutputDirectory = flagValue
		}
		if flagValue, flagError := command.Flags().GetString(remoteFlagNameConstant); flagError == nil && command.Flags().Changed(remoteFlagNameConstant) {
			configuration.RemoteName = flagValue
		}
	}

	return configuration.Sanitize()
}

func (builder *CommandBuilder) resolveLogger() *zap.Logger {
	if builder.LoggerProvider == nil {
		return zap.NewNop()
	}
	logger := builder.LoggerProvider()
	if logger == nil {
		return zap.NewNop()
	}
	return logger
}
