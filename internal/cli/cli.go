// Package cli provides the command line interface.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mazeincoding/twiggy/internal/commands"
	"github.com/mazeincoding/twiggy/internal/config"
	"github.com/mazeincoding/twiggy/internal/services/clipboard"
	"github.com/mazeincoding/twiggy/internal/tokenizer"
	"github.com/mazeincoding/twiggy/internal/types"
	"github.com/mazeincoding/twiggy/internal/utils"
	"github.com/mazeincoding/twiggy/internal/watch"
)

const (
	exclusionFlagName    = "e"
	noGitignoreFlagName  = "no-gitignore"
	formatFlagName       = "format"
	configOnlyFlagName   = "config-only"
	forceFlagName        = "force"
	copyFlagName         = "copy"
	tokensFlagName       = "tokens"
	modelFlagName        = "model"
	debounceFlagName     = "debounce"
	versionFlagName      = "version"
	versionTemplate      = "twiggy version: %s\n"
	rootUse              = "twiggy"
	rootShortDescription = "keep an auto-updating file-structure rule for Cursor"
	rootLongDescription  = `twiggy generates a Cursor rules file describing the project's directory
structure and keeps it current by watching the filesystem.
Run 'twiggy init' once, then 'twiggy watch' while you work.`
	versionFlagDescription = "display application version"

	initUse              = "init"
	initShortDescription = "initialize twiggy in the current directory"
	initLongDescription  = `Create the .cursor/rules scaffold, write the default twiggy.yaml,
register the generated file in .gitignore, and write an initial structure snapshot.`
	initUsageExample = `  # Initialize and write the first snapshot
  twiggy init

  # Only write configuration, skip the initial snapshot
  twiggy init --config-only`

	scanUse              = "scan"
	scanShortDescription = "regenerate the structure file once"
	scanLongDescription  = `Run a single scan of the project and rewrite the generated region of
.cursor/rules/file-structure.mdc. Use --copy to place the rendered document on
the clipboard and --tokens to report its token count.`
	scanUsageExample = `  # Regenerate the structure file
  twiggy scan

  # Regenerate in XML format and copy the document
  twiggy scan --format xml --copy`

	watchUse              = "watch"
	watchShortDescription = "watch the project and keep the structure file current"
	watchLongDescription  = `Write an initial snapshot, then watch the project for file and directory
changes and regenerate the structure file after each debounced burst of
events. Runs until interrupted.`
	watchUsageExample = `  # Watch with configured settings
  twiggy watch

  # Watch with a one-second debounce window
  twiggy watch --debounce 1s`

	exclusionFlagDescription        = "exclude path pattern"
	disableGitignoreFlagDescription = "do not use .gitignore patterns"
	formatFlagDescription           = "output format (tree or xml)"
	configOnlyFlagDescription       = "only create configuration without scanning"
	forceFlagDescription            = "overwrite an existing configuration file"
	copyFlagDescription             = "copy the rendered document to the clipboard"
	tokensFlagDescription           = "report the token count of the rendered document"
	modelFlagDescription            = "tokenizer model to use for token counting"
	debounceFlagDescription         = "debounce window for regeneration (overrides configuration)"

	invalidFormatMessage        = "invalid format value '%s'"
	workingDirectoryErrorFormat = "unable to determine working directory: %w"
	missingConfigurationMessage = "no configuration found; run 'twiggy init' first"

	messageInitializing       = "Initializing twiggy in: %s"
	messageConfigWritten      = "Created %s - edit it to customize ignores and output"
	messageConfigKept         = "Configuration already exists at %s (use --force to overwrite)"
	messageGitIgnoreUpdated   = "Added %s to .gitignore"
	messageConfigOnlyDone     = "Configuration saved. Run 'twiggy watch' to start monitoring."
	messageStructureWritten   = "Structure written to %s (%d directories, %d files)"
	messageStructureUnchanged = "Structure unchanged (%d directories, %d files)"
	messageDocumentCopied     = "Rendered document copied to clipboard"
	messageTokenCount         = "Rendered document: %d tokens (model: %s)"
	messageWatching           = "Watching for changes... (press Ctrl+C to stop)"
	messageStoppedWatching    = "Stopped watching"
)

// Execute runs the twiggy application.
func Execute(logger *zap.Logger) error {
	rootCommand := createRootCommand(logger)
	return rootCommand.Execute()
}

// createRootCommand builds the root Cobra command.
func createRootCommand(logger *zap.Logger) *cobra.Command {
	var showVersion bool

	rootCommand := &cobra.Command{
		Use:          rootUse,
		Short:        rootShortDescription,
		Long:         rootLongDescription,
		SilenceUsage: true,
		RunE: func(command *cobra.Command, arguments []string) error {
			return command.Help()
		},
		PersistentPreRun: func(command *cobra.Command, arguments []string) {
			if showVersion {
				fmt.Printf(versionTemplate, utils.GetApplicationVersion())
				os.Exit(0)
			}
		},
	}
	rootCommand.PersistentFlags().BoolVar(&showVersion, versionFlagName, false, versionFlagDescription)
	rootCommand.AddCommand(
		createInitCommand(logger),
		createScanCommand(logger),
		createWatchCommand(logger),
	)
	rootCommand.InitDefaultHelpCmd()
	rootCommand.InitDefaultCompletionCmd()
	return rootCommand
}

// passOptions stores flags shared by commands that run a regeneration pass.
type passOptions struct {
	exclusionPatterns []string
	disableGitignore  bool
	outputFormat      string
}

// addPassFlags registers pass-related flags on the command.
func addPassFlags(command *cobra.Command, options *passOptions) {
	command.Flags().StringArrayVarP(&options.exclusionPatterns, exclusionFlagName, exclusionFlagName, nil, exclusionFlagDescription)
	command.Flags().BoolVar(&options.disableGitignore, noGitignoreFlagName, false, disableGitignoreFlagDescription)
	command.Flags().StringVar(&options.outputFormat, formatFlagName, "", formatFlagDescription)
}

// buildPipeline assembles the scan → render → write pipeline for a project,
// overlaying command flags onto the loaded settings.
func buildPipeline(projectRoot string, settings config.Settings, options passOptions, logger *zap.Logger) (*commands.Pipeline, error) {
	if options.disableGitignore {
		gitignoreDisabled := false
		settings.UseGitignore = &gitignoreDisabled
	}

	outputFormat := settings.Format
	if options.outputFormat != "" {
		outputFormat = strings.ToLower(options.outputFormat)
	}
	if !types.IsSupportedFormat(outputFormat) {
		return nil, fmt.Errorf(invalidFormatMessage, outputFormat)
	}

	rules, rulesError := config.BuildRuleSet(projectRoot, settings, options.exclusionPatterns)
	if rulesError != nil {
		return nil, rulesError
	}

	return &commands.Pipeline{
		ProjectRoot: projectRoot,
		Rules:       rules,
		Format:      outputFormat,
		Logger:      logger,
	}, nil
}

// requireSettings loads project settings, failing when no configuration file
// exists yet.
func requireSettings(projectRoot string) (config.Settings, error) {
	configurationPath := filepath.Join(projectRoot, utils.ConfigFileName)
	if _, statError := os.Stat(configurationPath); statError != nil {
		if os.IsNotExist(statError) {
			return config.Settings{}, fmt.Errorf(missingConfigurationMessage)
		}
		return config.Settings{}, fmt.Errorf("inspect configuration %s: %w", configurationPath, statError)
	}
	return config.LoadSettings(config.LoadOptions{WorkingDirectory: projectRoot})
}

// reportPassResult prints the outcome of one regeneration pass.
func reportPassResult(result *commands.PassResult) {
	if result.Written {
		printStyled(successStyle, fmt.Sprintf(messageStructureWritten, result.DestinationPath, result.TotalDirectories, result.TotalFiles))
		return
	}
	printStyled(infoStyle, fmt.Sprintf(messageStructureUnchanged, result.TotalDirectories, result.TotalFiles))
}

// createInitCommand returns the init subcommand.
func createInitCommand(logger *zap.Logger) *cobra.Command {
	var configOnly bool
	var forceOverwrite bool
	var passConfiguration passOptions

	initCommand := &cobra.Command{
		Use:     initUse,
		Short:   initShortDescription,
		Long:    initLongDescription,
		Example: initUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			projectRoot, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
			}
			printStyled(infoStyle, fmt.Sprintf(messageInitializing, projectRoot))

			if _, rulesDirectoryError := config.EnsureRulesDirectory(projectRoot); rulesDirectoryError != nil {
				return rulesDirectoryError
			}

			entryAdded, gitIgnoreError := config.EnsureGitIgnoreEntry(projectRoot)
			if gitIgnoreError != nil {
				return gitIgnoreError
			}
			if entryAdded {
				printStyled(successStyle, fmt.Sprintf(messageGitIgnoreUpdated, types.DestinationRelativePath))
			}

			configurationPath := filepath.Join(projectRoot, utils.ConfigFileName)
			_, configurationStatError := os.Stat(configurationPath)
			configurationExists := configurationStatError == nil
			if configurationExists && !forceOverwrite {
				printStyled(warningStyle, fmt.Sprintf(messageConfigKept, configurationPath))
			} else {
				writtenPath, initializeError := config.InitializeConfiguration(config.InitOptions{
					WorkingDirectory: projectRoot,
					Force:            forceOverwrite,
				})
				if initializeError != nil {
					return initializeError
				}
				printStyled(successStyle, fmt.Sprintf(messageConfigWritten, writtenPath))
			}

			if configOnly {
				printStyled(successStyle, messageConfigOnlyDone)
				return nil
			}

			settings, loadError := config.LoadSettings(config.LoadOptions{WorkingDirectory: projectRoot})
			if loadError != nil {
				return loadError
			}
			pipeline, pipelineError := buildPipeline(projectRoot, settings, passConfiguration, logger)
			if pipelineError != nil {
				return pipelineError
			}
			result, passError := pipeline.RunPass()
			if passError != nil {
				return passError
			}
			reportPassResult(result)
			return nil
		},
	}

	addPassFlags(initCommand, &passConfiguration)
	initCommand.Flags().BoolVar(&configOnly, configOnlyFlagName, false, configOnlyFlagDescription)
	initCommand.Flags().BoolVar(&forceOverwrite, forceFlagName, false, forceFlagDescription)
	return initCommand
}

// createScanCommand returns the scan subcommand.
func createScanCommand(logger *zap.Logger) *cobra.Command {
	var passConfiguration passOptions
	var copyToClipboard bool
	var reportTokens bool
	var tokenizerModel string

	scanCommand := &cobra.Command{
		Use:     scanUse,
		Short:   scanShortDescription,
		Long:    scanLongDescription,
		Example: scanUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			projectRoot, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
			}
			settings, settingsError := requireSettings(projectRoot)
			if settingsError != nil {
				return settingsError
			}
			pipeline, pipelineError := buildPipeline(projectRoot, settings, passConfiguration, logger)
			if pipelineError != nil {
				return pipelineError
			}
			result, passError := pipeline.RunPass()
			if passError != nil {
				return passError
			}
			reportPassResult(result)

			if reportTokens || settings.TokensEnabled() {
				model := tokenizerModel
				if model == "" {
					model = settings.Tokens.Model
				}
				counter, counterName, counterError := tokenizer.NewCounter(model)
				if counterError != nil {
					return counterError
				}
				tokenCount, countError := counter.CountString(result.Document)
				if countError != nil {
					return fmt.Errorf("counting tokens: %w", countError)
				}
				printStyled(infoStyle, fmt.Sprintf(messageTokenCount, tokenCount, counterName))
			}

			if copyToClipboard {
				if copyError := clipboard.NewSystemCopier().Copy(result.Document); copyError != nil {
					return fmt.Errorf("copying document to clipboard: %w", copyError)
				}
				printStyled(successStyle, messageDocumentCopied)
			}
			return nil
		},
	}

	addPassFlags(scanCommand, &passConfiguration)
	scanCommand.Flags().BoolVar(&copyToClipboard, copyFlagName, false, copyFlagDescription)
	scanCommand.Flags().BoolVar(&reportTokens, tokensFlagName, false, tokensFlagDescription)
	scanCommand.Flags().StringVar(&tokenizerModel, modelFlagName, "", modelFlagDescription)
	return scanCommand
}

// createWatchCommand returns the watch subcommand.
func createWatchCommand(logger *zap.Logger) *cobra.Command {
	var passConfiguration passOptions
	var debounceOverride time.Duration

	watchCommand := &cobra.Command{
		Use:     watchUse,
		Short:   watchShortDescription,
		Long:    watchLongDescription,
		Example: watchUsageExample,
		Args:    cobra.NoArgs,
		RunE: func(command *cobra.Command, arguments []string) error {
			projectRoot, workingDirectoryError := os.Getwd()
			if workingDirectoryError != nil {
				return fmt.Errorf(workingDirectoryErrorFormat, workingDirectoryError)
			}
			settings, settingsError := requireSettings(projectRoot)
			if settingsError != nil {
				return settingsError
			}
			pipeline, pipelineError := buildPipeline(projectRoot, settings, passConfiguration, logger)
			if pipelineError != nil {
				return pipelineError
			}

			initialResult, initialPassError := pipeline.RunPass()
			if initialPassError != nil {
				return initialPassError
			}
			reportPassResult(initialResult)

			debounce := settings.Debounce()
			if debounceOverride > 0 {
				debounce = debounceOverride
			}

			watcher, watcherError := watch.New(watch.Options{
				ProjectRoot:    projectRoot,
				Rules:          pipeline.Rules,
				Debounce:       debounce,
				RescanInterval: settings.RescanInterval(),
				Logger:         logger,
				OnTrigger: func(triggerContext context.Context) error {
					result, passError := pipeline.RunPass()
					if passError != nil {
						return passError
					}
					if result.Written {
						reportPassResult(result)
					}
					return nil
				},
			})
			if watcherError != nil {
				return watcherError
			}

			signalContext, stopSignals := signal.NotifyContext(command.Context(), os.Interrupt, syscall.SIGTERM)
			defer stopSignals()

			printStyled(infoStyle, messageWatching)
			runError := watcher.Run(signalContext)
			printStyled(warningStyle, messageStoppedWatching)
			return runError
		},
	}

	addPassFlags(watchCommand, &passConfiguration)
	watchCommand.Flags().DurationVar(&debounceOverride, debounceFlagName, 0, debounceFlagDescription)
	return watchCommand
}
