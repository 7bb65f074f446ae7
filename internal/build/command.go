package build

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gautamraj/sitepub/internal/dependencies"
	"github.com/gautamraj/sitepub/internal/hugo"
	"github.com/gautamraj/sitepub/internal/publish"
	"github.com/gautamraj/sitepub/internal/utils"
)

const (
	commandUseNameConstant          = "build"
	commandExampleTemplateConstant  = "sitepub build --site-root ~/blog --drafts"
	commandShortDescriptionConstant = "Rebuild the site without publishing it"
	commandLongDescriptionConstant  = "build regenerates the site with minification and garbage collection into the output directory. Nothing is committed or pushed."
	missingSiteRootMessageConstant  = "site root is required; pass --site-root or configure tools.publish.site_root"
	siteRootFlagNameConstant        = "site-root"
	siteRootFlagDescriptionConstant = "directory containing the site sources"
	draftsFlagNameConstant          = "drafts"
	draftsFlagDescriptionConstant   = "include draft content in the generated output"
	buildSuccessTemplateConstant    = "BUILT: %s (%d pages)\n"
)

// LoggerProvider yields a zap logger instance.
type LoggerProvider func() *zap.Logger

// CommandBuilder assembles the build command.
type CommandBuilder struct {
	LoggerProvider               LoggerProvider
	ShellExecutor                dependencies.ShellCommandExecutor
	HumanReadableLoggingProvider func() bool
	ConfigurationProvider        func() publish.CommandConfiguration
}

// Build constructs the build command.
func (builder *CommandBuilder) Build() (*cobra.Command, error) {
	command := &cobra.Command{
		Use:     commandUseNameConstant,
		Short:   commandShortDescriptionConstant,
		Long:    commandLongDescriptionConstant,
		RunE:    builder.run,
		Args:    cobra.NoArgs,
		Example: commandExampleTemplateConstant,
	}

	command.Flags().String(siteRootFlagNameConstant, "", siteRootFlagDescriptionConstant)
	command.Flags().Bool(draftsFlagNameConstant, false, draftsFlagDescriptionConstant)

	return command, nil
}

func (builder *CommandBuilder) run(command *cobra.Command, _ []string) error {
	configuration := publish.DefaultCommandConfiguration()
	if builder.ConfigurationProvider != nil {
		configuration = builder.ConfigurationProvider()
	}
	if command.Flags().Changed(siteRootFlagNameConstant) {
		if flagValue, flagError := command.Flags().GetString(siteRootFlagNameConstant); flagError == nil {
			configuration.SiteRoot = flagValue
		}
	}
	configuration = configuration.Sanitize()
	if len(configuration.SiteRoot) == 0 {
		_ = command.Help()
		return errors.New(missingSiteRootMessageConstant)
	}

	includeDrafts, _ := command.Flags().GetBool(draftsFlagNameConstant)

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

	generationResult, generationError := siteGenerator.Generate(command.Context(), hugo.GenerationOptions{
		SiteRoot:       configuration.SiteRoot,
		IncludeDrafts:  includeDrafts,
		ExtraArguments: configuration.HugoArguments,
	})
	if generationError != nil {
		return generationError
	}

	outputWriter := utils.NewFlushingWriter(command.OutOrStdout())
	fmt.Fprintf(outputWriter, buildSuccessTemplateConstant, generationResult.SiteRoot, generationResult.GeneratedPages)

	return nil
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
