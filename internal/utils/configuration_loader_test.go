package utils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gautamraj/sitepub/internal/utils"
)

const (
	testConfigurationNameConstant      = "config"
	testConfigurationTypeConstant      = "yaml"
	testEnvironmentPrefixConstant      = "SITEPUBTEST"
	testConfigurationFileNameConstant  = "config.yaml"
	testEnvironmentVariableConstant    = "SITEPUBTEST_COMMON_LOG_LEVEL"
	testEnvironmentLogLevelConstant    = "error"
	testDefaultLogFormatValueConstant  = "structured"
	testFileLogLevelValueConstant      = "warn"
	testEmbeddedBranchValueConstant    = "main"
	testConfigurationBranchKeyConstant = "tools.publish.branch"
)

type loaderTestConfiguration struct {
	Common struct {
		LogLevel  string `mapstructure:"log_level"`
		LogFormat string `mapstructure:"log_format"`
	} `mapstructure:"common"`
	Tools struct {
		Publish struct {
			Branch        string   `mapstructure:"branch"`
			HugoArguments []string `mapstructure:"hugo_args"`
		} `mapstructure:"publish"`
	} `mapstructure:"tools"`
}

func writeConfigurationFile(testInstance *testing.T, directory string, content map[string]any) string {
	testInstance.Helper()

	serializedContent, marshalError := yaml.Marshal(content)
	require.NoError(testInstance, marshalError)

	configurationPath := filepath.Join(directory, testConfigurationFileNameConstant)
	require.NoError(testInstance, os.WriteFile(configurationPath, serializedContent, 0o644))
	return configurationPath
}

func TestConfigurationLoaderAppliesDefaults(testInstance *testing.T) {
	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{testInstance.TempDir()},
	)

	defaultValues := map[string]any{
		"common.log_level":  "info",
		"common.log_format": testDefaultLogFormatValueConstant,
	}

	var configuration loaderTestConfiguration
	loadedConfiguration, loadError := loader.LoadConfiguration("", defaultValues, &configuration)
	require.NoError(testInstance, loadError)
	require.Empty(testInstance, loadedConfiguration.ConfigFileUsed)
	require.Equal(testInstance, "info", configuration.Common.LogLevel)
	require.Equal(testInstance, testDefaultLogFormatValueConstant, configuration.Common.LogFormat)
}

func TestConfigurationLoaderReadsConfigurationFile(testInstance *testing.T) {
	temporaryDirectory := testInstance.TempDir()
	configurationPath := writeConfigurationFile(testInstance, temporaryDirectory, map[string]any{
		"common": map[string]any{"log_level": testFileLogLevelValueConstant},
	})

	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{temporaryDirectory},
	)

	var configuration loaderTestConfiguration
	loadedConfiguration, loadError := loader.LoadConfiguration(configurationPath, nil, &configuration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, configurationPath, loadedConfiguration.ConfigFileUsed)
	require.Equal(testInstance, testFileLogLevelValueConstant, configuration.Common.LogLevel)
}

func TestConfigurationLoaderHonorsEnvironmentOverrides(testInstance *testing.T) {
	testInstance.Setenv(testEnvironmentVariableConstant, testEnvironmentLogLevelConstant)

	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{testInstance.TempDir()},
	)

	defaultValues := map[string]any{"common.log_level": "info"}

	var configuration loaderTestConfiguration
	_, loadError := loader.LoadConfiguration("", defaultValues, &configuration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, testEnvironmentLogLevelConstant, configuration.Common.LogLevel)
}

func TestConfigurationLoaderDecodesCommaSeparatedSlices(testInstance *testing.T) {
	testInstance.Setenv("SITEPUBTEST_TOOLS_PUBLISH_HUGO_ARGS", "--quiet,--cleanDestinationDir")

	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{testInstance.TempDir()},
	)

	defaultValues := map[string]any{"tools.publish.hugo_args": []string{}}

	var configuration loaderTestConfiguration
	_, loadError := loader.LoadConfiguration("", defaultValues, &configuration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, []string{"--quiet", "--cleanDestinationDir"}, configuration.Tools.Publish.HugoArguments)
}

func TestConfigurationLoaderMergesEmbeddedConfiguration(testInstance *testing.T) {
	embeddedContent, marshalError := yaml.Marshal(map[string]any{
		"tools": map[string]any{"publish": map[string]any{"branch": testEmbeddedBranchValueConstant}},
	})
	require.NoError(testInstance, marshalError)

	loader := utils.NewConfigurationLoader(
		testConfigurationNameConstant,
		testConfigurationTypeConstant,
		testEnvironmentPrefixConstant,
		[]string{testInstance.TempDir()},
	)
	loader.SetEmbeddedConfiguration(embeddedContent, testConfigurationTypeConstant)

	var configuration loaderTestConfiguration
	_, loadError := loader.LoadConfiguration("", nil, &configuration)
	require.NoError(testInstance, loadError)
	require.Equal(testInstance, testEmbeddedBranchValueConstant, configuration.Tools.Publish.Branch)
}
