package publish

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gautamraj/sitepub/internal/dependencies"
	"github.com/gautamraj/sitepub/internal/gitrepo"
	"github.com/gautamraj/sitepub/internal/utils"
)

const (
	commandUseNameConstant             = "publish"
	commandUsageTemplateConstant       = commandUseNameConstant + " [message words...]"
	commandExampleTemplateConstant     = "sitepub publish fix typo in about page --site-root ~/blog"
	commandShortDescriptionConstant    = "Rebuild the site and push the generated output"
	commandLongDescriptionConstant     = "publish regenerates the site with minification and garbage collection, stages everything in the output working copy, commits it, and pushes the commit to the configured remote branch. Any arguments are joined into the commit message; without arguments a timestamped message is used."
	missingSiteRootMessageConstant     = "site root is required; pass --site-root or configure tools.publish.site_root"
	siteRootFlagNameConstant           = "site-root"
	siteRootFlagDescriptionConstant    = "directory containing the site sources"
	outputDirFlagNameConstant          = "output-dir"
	outputDirFlagDescriptionConstant   = "generated output directory, relative to the site root unless absolute"
	remoteFlagNameConstant             = "remote"
	remoteFlagDescriptionConstant      = "git remote the output working copy pushes to"
	branchFlagNameConstant             = "branch"
	branchFlagDescriptionConstant      = "branch the output working copy pushes to"
	skipBuildFlagNameConstant          = "skip-build"
	skipBuildFlagDescriptionConstant   = "publish the existing output without regenerating the site"
	publishSuccessTemplateConstant     = "PUBLISHED: %s -> %s (%s)\n"
	publishNoChangesTemplateConstant   = "UP-TO-DATE: %s matches the published site\n"
	publishCommitMessageLabelTemplate  = "COMMIT: %s\n"
	publishGeneratedPagesLabelTemplate = "GENERATED: %d pages\n"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the publish command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ShellExecutor                dependencies.ShellCommandExecutor
	WorktreeInspector            WorktreeInspector
	Clock                        Clock
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() CommandConfiguration
}

// Build constructs the publish command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUsageTemplateConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		RunE:    builder.run,
		Args:    cobra.ArbitraryArgs,
		Example: commandExampleTemplateConstant,
	}

	command.Flags().String(siteRootFlagNameConstant, "", siteRootFlagDescriptionConstant)
	command.Flags().String(outputDirFlagNameConstant, "", outputDirFlagDescriptionConstant)
	command.Flags().String(remoteFlagNameConstant, "", remoteFlagDescriptionConstant)
	command.Flags().String(branchFlagNameConstant, "", branchFlagDescriptionConstant)
	command.Flags().Bool(skipBuildFlagNameConstant, false, skipBuildFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, arguments []string) error {
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

	siteGenerator, generatorError := dependencies.ResolveSiteGenerator(nil, shellExecutor)
	if generatorError != nil {
		return generatorError
	}

	worktreeInspector := builder.WorktreeInspector
	if worktreeInspector == nil {
		worktreeInspector = gitrepo.NewWorktreeInspector()
	}

	service, serviceError := NewService(ServiceDependencies{
		GitExecutor:       shellExecutor,
		SiteGenerator:     siteGenerator,
		WorktreeInspector: worktreeInspector,
		Clock:             builder.Clock,
	})
	if serviceError != nil {
		return serviceError
	}

	outputWriter := utils.NewFlushingWriter(command.OutOrStdout())
	publishResult, publishError := service.Publish(command.Context(), Options{
		SiteRoot:        configuration.SiteRoot,
		OutputDirectory: configuration.ResolveOutputPath(),
		RemoteName:      configuration.RemoteName,
		BranchName:      configuration.BranchName,
		MessageWords:    arguments,
		HugoArguments:   configuration.HugoArguments,
		SkipBuild:       configuration.SkipBuild,
	})
	if publishError != nil {
		if errors.Is(publishError, ErrNoChangesToPublish) {
			fmt.Fprintf(outputWriter, publishNoChangesTemplateConstant, configuration.ResolveOutputPath())
		}
		return publishError
	}

	if !configuration.SkipBuild {
		fmt.Fprintf(outputWriter, publishGeneratedPagesLabelTemplate, publishResult.GeneratedPages)
	}
	fmt.Fprintf(outputWriter, publishCommitMessageLabelTemplate, publishResult.CommitMessage)
	fmt.Fprintf(outputWriter, publishSuccessTemplateConstant, publishResult.OutputDirectory, publishResult.RemoteURL, publishResult.BranchName)

	return nil
}

func (builder *CommandBuilder) resolveConfiguration(command *cobra.Command) CommandConfiguration {
	configuration := DefaultCommandConfiguration()
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
		if flagValue, flagError := command.Flags().GetString(branchFlagNameConstant); flagError == nil && command.Flags().Changed(branchFlagNameConstant) {
			configuration.BranchName = flagValue
		}
		if flagValue, flagError := command.Flags().GetBool(skipBuildFlagNameConstant); flagError == nil && command.Flags().Changed(skipBuildFlagNameConstant) {
			configuration.SkipBuild = flagValue
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
