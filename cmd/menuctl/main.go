package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"menu-portal/internal/menu/domain/model"
	"menu-portal/internal/menuclient"
	"menu-portal/internal/shared/logger"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	commandUseName          = "menuctl"
	commandShortDescription = "Manage the portal menu"
	commandLongDescription  = "Read and edit the portal menu through the collection endpoint, falling back to a local cache when the endpoint is unreachable"

	flagNameAPIURL    = "api-url"
	flagNameCachePath = "cache-path"
	flagNameTimeout   = "timeout"
	flagNameVerbose   = "verbose"

	flagNameName      = "name"
	flagNameIcon      = "icon"
	flagNameType      = "type"
	flagNameConfig    = "config"
	flagNameOrder     = "order"
	flagNameCreatedBy = "created-by"

	environmentKeyAPIURL    = "MENU_API_URL"
	environmentKeyCachePath = "MENU_CACHE_PATH"
	environmentKeyTimeout   = "MENU_API_TIMEOUT"

	defaultAPIURL      = "http://localhost:3000"
	defaultTimeout     = 10 * time.Second
	cacheDirectoryName = "menu-portal"
	cacheFileName      = "menu_cache.db"

	breakerFailureThreshold = 3
	breakerOpenTimeout      = 30 * time.Second

	flagNotDefinedMessage = "flag %s not defined"
)

// ErrItemNotFound is returned by update and delete when no item has the given id
var ErrItemNotFound = errors.New("menu item not found")

// Settings is the resolved CLI configuration
type Settings struct {
	APIURL    string
	CachePath string
	Timeout   time.Duration
	Verbose   bool
}

// FacadeFactory builds the facade a command runs against. The returned closer releases
// whatever the facade holds open.
type FacadeFactory func(settings Settings, log logger.Logger) (*menuclient.Facade, func() error, error)

// CLIApplication constructs and executes the menuctl command tree
type CLIApplication struct {
	configurationLoader *viper.Viper
	facadeFactory       FacadeFactory
}

// NewCLIApplication creates a CLIApplication backed by the HTTP endpoint and a SQLite cache
func NewCLIApplication() *CLIApplication {
	return &CLIApplication{
		configurationLoader: viper.New(),
		facadeFactory:       newFacade,
	}
}

// WithFacadeFactory overrides how the facade is built
func (app *CLIApplication) WithFacadeFactory(factory FacadeFactory) *CLIApplication {
	app.facadeFactory = factory
	return app
}

// Command builds the root cobra command with every subcommand attached
func (app *CLIApplication) Command() (*cobra.Command, error) {
	root := &cobra.Command{
		Use:           commandUseName,
		Short:         commandShortDescription,
		Long:          commandLongDescription,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := root.PersistentFlags()
	flags.String(flagNameAPIURL, defaultAPIURL, "base URL of the portal server")
	flags.String(flagNameCachePath, defaultCachePath(), "path of the local cache database")
	flags.Duration(flagNameTimeout, defaultTimeout, "timeout for each request to the portal server")
	flags.Bool(flagNameVerbose, false, "log diagnostics to stderr")

	bindings := []struct {
		flag string
		env  string
	}{
		{flagNameAPIURL, environmentKeyAPIURL},
		{flagNameCachePath, environmentKeyCachePath},
		{flagNameTimeout, environmentKeyTimeout},
		{flagNameVerbose, ""},
	}
	for _, binding := range bindings {
		if err := app.bindFlag(flags, binding.flag, binding.env); err != nil {
			return nil, err
		}
	}

	root.AddCommand(
		app.listCommand(),
		app.addCommand(),
		app.updateCommand(),
		app.deleteCommand(),
		app.reorderCommand(),
	)
	return root, nil
}

func (app *CLIApplication) bindFlag(flagSet *pflag.FlagSet, flagName, environmentKey string) error {
	flag := flagSet.Lookup(flagName)
	if flag == nil {
		return fmt.Errorf(flagNotDefinedMessage, flagName)
	}
	if err := app.configurationLoader.BindPFlag(flagName, flag); err != nil {
		return err
	}
	if environmentKey == "" {
		return nil
	}
	return app.configurationLoader.BindEnv(flagName, environmentKey)
}

// Settings resolves flags, environment and defaults in that order of precedence
func (app *CLIApplication) Settings() Settings {
	return Settings{
		APIURL:    app.configurationLoader.GetString(flagNameAPIURL),
		CachePath: app.configurationLoader.GetString(flagNameCachePath),
		Timeout:   app.configurationLoader.GetDuration(flagNameTimeout),
		Verbose:   app.configurationLoader.GetBool(flagNameVerbose),
	}
}

func (app *CLIApplication) listCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print the menu collection",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return app.withFacade(cmd, func(ctx context.Context, facade *menuclient.Facade) error {
				return printJSON(cmd, facade.FetchMenuItems(ctx))
			})
		},
	}
}

func (app *CLIApplication) addCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Append a menu item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			flags := cmd.Flags()
			in := model.NewMenuItem{}
			in.Name, _ = flags.GetString(flagNameName)
			in.Icon, _ = flags.GetString(flagNameIcon)
			itemType, _ := flags.GetString(flagNameType)
			in.Type = model.ItemType(itemType)
			in.Config, _ = flags.GetStringToString(flagNameConfig)
			if in.Config == nil {
				in.Config = map[string]string{}
			}
			in.Order, _ = flags.GetInt(flagNameOrder)
			in.CreatedBy, _ = flags.GetString(flagNameCreatedBy)

			return app.withFacade(cmd, func(ctx context.Context, facade *menuclient.Facade) error {
				return printJSON(cmd, facade.AddMenuItem(ctx, in))
			})
		},
	}
	addItemFlags(cmd.Flags(), model.DefaultCreator)
	_ = cmd.MarkFlagRequired(flagNameName)
	_ = cmd.MarkFlagRequired(flagNameType)
	return cmd
}

func (app *CLIApplication) updateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change fields of a menu item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch := patchFromFlags(cmd.Flags())
			return app.withFacade(cmd, func(ctx context.Context, facade *menuclient.Facade) error {
				updated := facade.UpdateMenuItem(ctx, args[0], patch)
				if updated == nil {
					return fmt.Errorf("%w: %s", ErrItemNotFound, args[0])
				}
				return printJSON(cmd, updated)
			})
		},
	}
	addItemFlags(cmd.Flags(), "")
	return cmd
}

func (app *CLIApplication) deleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Remove a menu item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withFacade(cmd, func(ctx context.Context, facade *menuclient.Facade) error {
				if !facade.DeleteMenuItem(ctx, args[0]) {
					return fmt.Errorf("%w: %s", ErrItemNotFound, args[0])
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", args[0])
				return err
			})
		},
	}
}

func (app *CLIApplication) reorderCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "reorder <id>...",
		Short: "Rewrite the menu in the given id order",
		Long:  "Rewrite the menu in the given id order. Items whose id is not listed are removed from the menu.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.withFacade(cmd, func(ctx context.Context, facade *menuclient.Facade) error {
				return printJSON(cmd, facade.ReorderMenuItems(ctx, args))
			})
		},
	}
}

func (app *CLIApplication) withFacade(cmd *cobra.Command, run func(context.Context, *menuclient.Facade) error) error {
	settings := app.Settings()

	log := logger.NewNopLogger()
	if settings.Verbose {
		log = logger.New(logger.Config{Backend: "zap", Level: "debug"}, cmd.ErrOrStderr())
	}

	facade, closeFacade, err := app.facadeFactory(settings, log)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := closeFacade(); closeErr != nil {
			log.Warnf("Failed to close local cache: %v", closeErr)
		}
	}()

	return run(cmd.Context(), facade)
}

func addItemFlags(flags *pflag.FlagSet, createdBy string) {
	flags.String(flagNameName, "", "item label")
	flags.String(flagNameIcon, "", "icon identifier")
	flags.String(flagNameType, "", "provider type, e.g. copilot or powerbi")
	flags.StringToString(flagNameConfig, nil, "provider configuration as key=value pairs")
	flags.Int(flagNameOrder, 0, "display position")
	flags.String(flagNameCreatedBy, createdBy, "creator recorded on the item")
}

// patchFromFlags only carries the flags the caller actually set
func patchFromFlags(flags *pflag.FlagSet) model.MenuItemPatch {
	var patch model.MenuItemPatch
	if flags.Changed(flagNameName) {
		value, _ := flags.GetString(flagNameName)
		patch.Name = &value
	}
	if flags.Changed(flagNameIcon) {
		value, _ := flags.GetString(flagNameIcon)
		patch.Icon = &value
	}
	if flags.Changed(flagNameType) {
		value, _ := flags.GetString(flagNameType)
		itemType := model.ItemType(value)
		patch.Type = &itemType
	}
	if flags.Changed(flagNameConfig) {
		value, _ := flags.GetStringToString(flagNameConfig)
		if value == nil {
			value = map[string]string{}
		}
		patch.Config = value
	}
	if flags.Changed(flagNameOrder) {
		value, _ := flags.GetInt(flagNameOrder)
		patch.Order = &value
	}
	if flags.Changed(flagNameCreatedBy) {
		value, _ := flags.GetString(flagNameCreatedBy)
		patch.CreatedBy = &value
	}
	return patch
}

func printJSON(cmd *cobra.Command, value interface{}) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func defaultCachePath() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		dir = os.TempDir()
	}
	return filepath.Join(dir, cacheDirectoryName, cacheFileName)
}

func newFacade(settings Settings, log logger.Logger) (*menuclient.Facade, func() error, error) {
	if settings.CachePath == "" {
		return nil, nil, menuclient.ErrMissingCachePath
	}
	if err := os.MkdirAll(filepath.Dir(settings.CachePath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("failed to create cache directory: %w", err)
	}
	cache, err := menuclient.OpenSQLiteCache(settings.CachePath)
	if err != nil {
		return nil, nil, err
	}

	api := menuclient.NewAPIClient(settings.APIURL,
		menuclient.WithTimeout(settings.Timeout),
		menuclient.WithBreaker(breakerFailureThreshold, breakerOpenTimeout),
		menuclient.WithClientLogger(log),
	)
	return menuclient.NewFacade(api, cache, log), cache.Close, nil
}

func main() {
	command, err := NewCLIApplication().Command()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if err := command.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
