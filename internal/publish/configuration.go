package publish

import (
	"path/filepath"
	"strings"
)

const (
	defaultOutputDirectoryConstant = "public"
	defaultRemoteNameConstant      = "origin"
	defaultBranchNameConstant      = "main"
)

// CommandConfiguration captures configuration values for the publish command.
type CommandConfiguration struct {
	SiteRoot        string   `mapstructure:"site_root"`
	OutputDirectory string   `mapstructure:"output_dir"`
	RemoteName      string   `mapstructure:"remote"`
	BranchName      string   `mapstructure:"branch"`
	SkipBuild       bool     `mapstructure:"skip_build"`
	HugoArguments   []string `mapstructure:"hugo_args"`
}

// DefaultCommandConfiguration provides baseline configuration values for publishing.
func DefaultCommandConfiguration() CommandConfiguration {
	return CommandConfiguration{
		SiteRoot:        "",
		OutputDirectory: defaultOutputDirectoryConstant,
		RemoteName:      defaultRemoteNameConstant,
		BranchName:      defaultBranchNameConstant,
		SkipBuild:       false,
		HugoArguments:   nil,
	}
}

// DefaultConfigurationValues exposes publish defaults keyed under the provided configuration prefix.
func DefaultConfigurationValues(configurationKeyPrefix string) map[string]any {
	defaults := DefaultCommandConfiguration()
	return map[string]any{
		configurationKeyPrefix + ".site_root":  defaults.SiteRoot,
		configurationKeyPrefix + ".output_dir": defaults.OutputDirectory,
		configurationKeyPrefix + ".remote":     defaults.RemoteName,
		configurationKeyPrefix + ".branch":     defaults.BranchName,
		configurationKeyPrefix + ".skip_build": defaults.SkipBuild,
		configurationKeyPrefix + ".hugo_args":  []string{},
	}
}

// Sanitize trims configuration values and restores defaults for blank entries.
func (configuration CommandConfiguration) Sanitize() CommandConfiguration {
	sanitized := configuration

	sanitized.SiteRoot = strings.TrimSpace(configuration.SiteRoot)
	sanitized.OutputDirectory = strings.TrimSpace(configuration.OutputDirectory)
	if len(sanitized.OutputDirectory) == 0 {
		sanitized.OutputDirectory = defaultOutputDirectoryConstant
	}
	sanitized.RemoteName = strings.TrimSpace(configuration.RemoteName)
	if len(sanitized.RemoteName) == 0 {
		sanitized.RemoteName = defaultRemoteNameConstant
	}
	sanitized.BranchName = strings.TrimSpace(configuration.BranchName)
	if len(sanitized.BranchName) == 0 {
		sanitized.BranchName = defaultBranchNameConstant
	}
	sanitized.HugoArguments = sanitizeArguments(configuration.HugoArguments)

	return sanitized
}

func sanitizeArguments(raw []string) []string {
	sanitized := make([]string, 0, len(raw))
	for _, candidate := range raw {
		trimmed := strings.TrimSpace(candidate)
		if len(trimmed) == 0 {
			continue
		}
		sanitized = append(sanitized, trimmed)
	}
	return sanitized
}

// ResolveOutputPath joins the output directory onto the site root unless the
// output directory is already absolute.
func (configuration CommandConfiguration) ResolveOutputPath() string {
	if filepath.IsAbs(configuration.OutputDirectory) {
		return configuration.OutputDirectory
	}
	return filepath.Join(configuration.SiteRoot, configuration.OutputDirectory)
}
