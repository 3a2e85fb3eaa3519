// Package cli provides the command line interface.
package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/temirov/foldertree/internal/config"
	"github.com/temirov/foldertree/internal/services/clipboard"
	"github.com/temirov/foldertree/internal/tree"
	"github.com/temirov/foldertree/internal/utils"
)

const (
	foldersOnlyFlagName       = "folders-only"
	foldersOnlyFlagShorthand  = "f"
	maxDepthFlagName          = "max-depth"
	maxDepthFlagShorthand     = "d"
	includeHiddenFlagName     = "include-hidden"
	includeHiddenFlagShortcut = "i"
	ignoreFlagName            = "ignore"
	ignoreFlagShorthand       = "g"
	gitignoreFlagName         = "gitignore"
	copyFlagName              = "copy"
	copyFlagShorthand         = "c"
	configFlagName            = "config"
	versionFlagName           = "version"

	rootUse              = "foldertree <path>"
	rootShortDescription = "print a directory as a tree"
	rootLongDescription  = `foldertree renders the contents of a directory as a text tree.
Directories are listed before files, each group sorted by name.
Use --folders-only to hide files, --max-depth to limit nesting, --include-hidden
to show dot entries, and --ignore to drop folders and files by name.`
	rootUsageExample = `  foldertree /path/to/folder
  foldertree /path/to/folder --folders-only
  foldertree /path/to/folder --max-depth 2
  foldertree . --folders-only --max-depth 3
  foldertree /path/to/folder --ignore "/node_modules,/dist,.env,package-lock.json"
  foldertree . --ignore "/build,/target,*.log,temp.txt"`
	versionTemplate = "foldertree version: %s\n"

	foldersOnlyFlagDescription   = "show only folders, exclude files"
	maxDepthFlagDescription      = "maximum depth to traverse (default: unlimited)"
	includeHiddenFlagDescription = "include hidden files and folders (starting with .)"
	ignoreFlagDescription        = "comma-separated folders (prefixed with /) and files to ignore, e.g. '/node_modules,/dist,.env,*.log'"
	gitignoreFlagDescription     = "also hide entries matched by .gitignore files"
	copyFlagDescription          = "copy the rendered tree to the clipboard"
	configFlagDescription        = "configuration file (default ./" + utils.ConfigFileName + ")"
	versionFlagDescription       = "print the foldertree version and exit"

	ignoreTokenSeparator     = ","
	errorNegativeDepthFlagFormat   = "invalid --%s value %d: must be zero or greater"
	errorNegativeDepthConfigFormat = "invalid %s value %d in configuration: must be zero or greater"
	maxDepthConfigurationKey       = "max_depth"
	warningCopyFormat              = "Warning: %v"
	warningConfigurationFormat     = "Warning: ignoring configuration files: %v"
)

// Dependencies are the collaborators used by the root command. Zero fields get defaults.
type Dependencies struct {
	Logger        *zap.Logger
	Copier        clipboard.Copier
	Configuration config.LoadOptions
	// ResolveVersion is called only when --version is requested.
	ResolveVersion func() string
}

func (dependencies Dependencies) withDefaults() Dependencies {
	if dependencies.Logger == nil {
		dependencies.Logger = zap.NewNop()
	}
	if dependencies.Copier == nil {
		dependencies.Copier = clipboard.NewService()
	}
	if dependencies.ResolveVersion == nil {
		dependencies.ResolveVersion = utils.GetApplicationVersion
	}
	return dependencies
}

// commandOptions stores the raw flag values.
type commandOptions struct {
	foldersOnly       bool
	maxDepth          int
	includeHidden     bool
	ignoreList        string
	useGitignore      bool
	copyToClipboard   bool
	configurationPath string
	showVersion       bool
}

// treeSettings is the outcome of combining flags with configuration files.
type treeSettings struct {
	configuration   tree.Configuration
	copyToClipboard bool
}

// Execute runs the foldertree application with the process arguments.
func Execute(logger *zap.Logger) error {
	rootCommand := NewRootCommand(Dependencies{Logger: logger})
	rootCommand.SetArgs(normalizeBooleanFlagArguments(rootCommand, os.Args[1:]))
	return rootCommand.Execute()
}

// NewRootCommand builds the foldertree command.
func NewRootCommand(dependencies Dependencies) *cobra.Command {
	dependencies = dependencies.withDefaults()
	var options commandOptions

	rootCommand := &cobra.Command{
		Use:           rootUse,
		Short:         rootShortDescription,
		Long:          rootLongDescription,
		Example:       rootUsageExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				return nil
			}
			return cobra.ExactArgs(1)(command, arguments)
		},
		RunE: func(command *cobra.Command, arguments []string) error {
			if options.showVersion {
				_, printError := fmt.Fprintf(command.OutOrStdout(), versionTemplate, dependencies.ResolveVersion())
				return printError
			}
			return runTree(command, arguments[0], options, dependencies)
		},
	}

	flagSet := rootCommand.Flags()
	registerBooleanFlag(flagSet, &options.foldersOnly, foldersOnlyFlagName, foldersOnlyFlagShorthand, false, foldersOnlyFlagDescription)
	flagSet.IntVarP(&options.maxDepth, maxDepthFlagName, maxDepthFlagShorthand, 0, maxDepthFlagDescription)
	registerBooleanFlag(flagSet, &options.includeHidden, includeHiddenFlagName, includeHiddenFlagShortcut, false, includeHiddenFlagDescription)
	flagSet.StringVarP(&options.ignoreList, ignoreFlagName, ignoreFlagShorthand, "", ignoreFlagDescription)
	registerBooleanFlag(flagSet, &options.useGitignore, gitignoreFlagName, "", false, gitignoreFlagDescription)
	registerBooleanFlag(flagSet, &options.copyToClipboard, copyFlagName, copyFlagShorthand, false, copyFlagDescription)
	flagSet.StringVar(&options.configurationPath, configFlagName, "", configFlagDescription)
	flagSet.BoolVar(&options.showVersion, versionFlagName, false, versionFlagDescription)
	return rootCommand
}

// runTree renders the tree for rootPath and prints it. Invalid roots are part of
// the printed output, not errors.
func runTree(command *cobra.Command, rootPath string, options commandOptions, dependencies Dependencies) error {
	loadOptions := dependencies.Configuration
	if options.configurationPath != "" {
		loadOptions.ExplicitFilePath = options.configurationPath
	}
	logger := dependencies.Logger
	applicationConfiguration, loadError := config.LoadApplicationConfiguration(loadOptions)
	if loadError != nil {
		if loadOptions.ExplicitFilePath != "" {
			return loadError
		}
		logger.Warn(fmt.Sprintf(warningConfigurationFormat, loadError))
		applicationConfiguration = config.ApplicationConfiguration{}
	}

	settings, settingsError := resolveSettings(command.Flags(), options, applicationConfiguration)
	if settingsError != nil {
		return settingsError
	}

	treeBuilder := tree.NewTreeBuilder(settings.configuration, tree.WithWarningHandler(func(message string) {
		logger.Warn(message)
	}))
	renderedTree := treeBuilder.GenerateTree(rootPath)
	fmt.Fprintln(command.OutOrStdout(), renderedTree)

	if settings.copyToClipboard {
		if copyError := dependencies.Copier.Copy(renderedTree); copyError != nil {
			logger.Warn(fmt.Sprintf(warningCopyFormat, copyError))
		}
	}
	return nil
}

// resolveSettings applies flags set on the command line over configuration file values.
// Ignore tokens from both sources are combined.
func resolveSettings(flagSet *pflag.FlagSet, options commandOptions, applicationConfiguration config.ApplicationConfiguration) (treeSettings, error) {
	foldersOnly := resolveBool(flagSet, foldersOnlyFlagName, options.foldersOnly, applicationConfiguration.FoldersOnly)
	includeHidden := resolveBool(flagSet, includeHiddenFlagName, options.includeHidden, applicationConfiguration.IncludeHidden)
	useGitignore := resolveBool(flagSet, gitignoreFlagName, options.useGitignore, applicationConfiguration.Gitignore)
	copyToClipboard := resolveBool(flagSet, copyFlagName, options.copyToClipboard, applicationConfiguration.Copy)

	var maxDepth *int
	if flagSet.Changed(maxDepthFlagName) {
		if options.maxDepth < 0 {
			return treeSettings{}, fmt.Errorf(errorNegativeDepthFlagFormat, maxDepthFlagName, options.maxDepth)
		}
		flagDepth := options.maxDepth
		maxDepth = &flagDepth
	} else if applicationConfiguration.MaxDepth != nil {
		if *applicationConfiguration.MaxDepth < 0 {
			return treeSettings{}, fmt.Errorf(errorNegativeDepthConfigFormat, maxDepthConfigurationKey, *applicationConfiguration.MaxDepth)
		}
		configuredDepth := *applicationConfiguration.MaxDepth
		maxDepth = &configuredDepth
	}

	ignoreTokens := append([]string{}, applicationConfiguration.Ignore...)
	if strings.TrimSpace(options.ignoreList) != "" {
		ignoreTokens = append(ignoreTokens, options.ignoreList)
	}

	configuration := tree.NewConfiguration(!foldersOnly, maxDepth, includeHidden, strings.Join(ignoreTokens, ignoreTokenSeparator))
	configuration.UseGitignore = useGitignore
	return treeSettings{configuration: configuration, copyToClipboard: copyToClipboard}, nil
}

// resolveBool prefers an explicitly set flag, then the configured value, then the flag default.
func resolveBool(flagSet *pflag.FlagSet, flagName string, flagValue bool, configuredValue *bool) bool {
	if flagSet.Changed(flagName) || configuredValue == nil {
		return flagValue
	}
	return *configuredValue
}
