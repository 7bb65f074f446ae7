package hugo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/gautamraj/sitepub/internal/execshell"
)

const (
	siteRootRequiredMessageConstant      = "site root must be provided"
	hugoExecutorMissingMessageConstant   = "hugo executor not configured"
	generationFailureTemplateConstant    = "failed to generate site in %s: %w"
	hugoMinifyFlagConstant               = "--minify"
	hugoGarbageCollectionFlagConstant    = "--gc"
	hugoDestinationFlagConstant          = "--destination"
	hugoBuildDraftsFlagConstant          = "--buildDrafts"
	hugoEnvironmentNameConstant          = "HUGO_ENV"
	hugoEnvironmentProductionValueConst  = "production"
	generatedPagesPrefixConstant         = "Pages"
	generatedOutputFieldSeparatorConst   = "|"
	generatedOutputLineSeparatorConstant = "\n"
)

// ErrSiteRootRequired indicates the site root option was empty.
var ErrSiteRootRequired = errors.New(siteRootRequiredMessageConstant)

// ErrHugoExecutorNotConfigured indicates the hugo executor dependency was missing.
var ErrHugoExecutorNotConfigured = errors.New(hugoExecutorMissingMessageConstant)

// HugoExecutor runs hugo commands.
type HugoExecutor interface {
	ExecuteHugo(executionContext context.Context, details execshell.CommandDetails) (execshell.ExecutionResult, error)
}

// GeneratorDependencies enumerates collaborators required by the generator.
type GeneratorDependencies struct {
	HugoExecutor HugoExecutor
}

// GenerationOptions configure a site generation run.
type GenerationOptions struct {
	SiteRoot             string
	DestinationDirectory string
	IncludeDrafts        bool
	ExtraArguments       []string
}

// GenerationResult captures the outcome of a site generation run.
type GenerationResult struct {
	SiteRoot       string
	GeneratedPages int
}

// Generator rebuilds the static site with minification and stale-output
// garbage collection enabled.
type Generator struct {
	executor HugoExecutor
}

// NewGenerator constructs a Generator from the provided dependencies.
func NewGenerator(dependencies GeneratorDependencies) (*Generator, error) {
	if dependencies.HugoExecutor == nil {
		return nil, ErrHugoExecutorNotConfigured
	}
	return &Generator{executor: dependencies.HugoExecutor}, nil
}

// Generate rebuilds the site rooted at options.SiteRoot.
func (generator *Generator) Generate(executionContext context.Context, options GenerationOptions) (GenerationResult, error) {
	trimmedSiteRoot := strings.TrimSpace(options.SiteRoot)
	if len(trimmedSiteRoot) == 0 {
		return GenerationResult{}, ErrSiteRootRequired
	}

	arguments := []string{hugoMinifyFlagConstant, hugoGarbageCollectionFlagConstant}
	if trimmedDestination := strings.TrimSpace(options.DestinationDirectory); len(trimmedDestination) > 0 {
		arguments = append(arguments, hugoDestinationFlagConstant, trimmedDestination)
	}
	if options.IncludeDrafts {
		arguments = append(arguments, hugoBuildDraftsFlagConstant)
	}
	for _, extraArgument := range options.ExtraArguments {
		trimmedArgument := strings.TrimSpace(extraArgument)
		if len(trimmedArgument) == 0 {
			continue
		}
		arguments = append(arguments, trimmedArgument)
	}

	executionResult, executionError := generator.executor.ExecuteHugo(executionContext, execshell.CommandDetails{
		Arguments:            arguments,
		WorkingDirectory:     trimmedSiteRoot,
		EnvironmentVariables: map[string]string{hugoEnvironmentNameConstant: hugoEnvironmentProductionValueConst},
	})
	if executionError != nil {
		return GenerationResult{}, fmt.Errorf(generationFailureTemplateConstant, trimmedSiteRoot, executionError)
	}

	return GenerationResult{
		SiteRoot:       trimmedSiteRoot,
		GeneratedPages: countGeneratedPages(executionResult.StandardOutput),
	}, nil
}

// countGeneratedPages reads the page total out of hugo's build summary table.
// A zero return means the summary was absent or unrecognized, not an error.
func countGeneratedPages(buildOutput string) int {
	for _, outputLine := range strings.Split(buildOutput, generatedOutputLineSeparatorConstant) {
		fields := strings.Fields(outputLine)
		if len(fields) < 2 || fields[0] != generatedPagesPrefixConstant {
			continue
		}
		countField := fields[len(fields)-1]
		if fields[1] == generatedOutputFieldSeparatorConst {
			countField = fields[2]
		}
		pageCount := 0
		if _, scanError := fmt.Sscanf(countField, "%d", &pageCount); scanError == nil {
			return pageCount
		}
	}
	return 0
}
