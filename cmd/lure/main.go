package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/foxzi/lure/internal/client"
	"github.com/foxzi/lure/internal/config"
	"github.com/foxzi/lure/internal/metrics"
	"github.com/foxzi/lure/internal/models"
	"github.com/foxzi/lure/internal/notify"
	"github.com/foxzi/lure/internal/session"
	"github.com/foxzi/lure/internal/views"
)

var (
	cfgFile     string
	profileName string
	assumeYes   bool
	noColor     bool

	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lure",
	Short: "Lure - phishing simulation admin client",
	Long:  `Lure manages groups, campaigns and the rest of a phishing simulation server through its REST API.`,
	SilenceUsage: true,
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Configuration commands",
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate configuration file",
	RunE:  runConfigValidate,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("lure version %s\n", version)
		if commit != "unknown" {
			fmt.Printf("  commit: %s\n", commit)
		}
		if buildTime != "unknown" {
			fmt.Printf("  built:  %s\n", buildTime)
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().StringVar(&profileName, "profile", "", "server profile to use")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompts")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	configCmd.AddCommand(configValidateCmd)
	rootCmd.AddCommand(configCmd, versionCmd)
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return fmt.Errorf("configuration is invalid: %w", err)
	}

	server := cfg.Server.BaseURL
	if server == "" {
		server = "(from profile)"
	}

	fmt.Printf("Configuration is valid\n")
	fmt.Printf("  Server: %s\n", server)
	fmt.Printf("  Timeout: %s\n", cfg.Server.Timeout)
	fmt.Printf("  Profiles: %s\n", cfg.Profiles.Path)
	fmt.Printf("  Logging: %s (%s)\n", cfg.Logging.Level, cfg.Logging.Format)
	if cfg.Metrics.Enabled {
		fmt.Printf("  Metrics: %s%s\n", cfg.Metrics.ListenAddr, cfg.Metrics.Path)
	}

	return nil
}

// app bundles what a command needs to talk to the server
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	client   *client.Client
	profile  string
	metrics  *metrics.Metrics
	notifier *notify.Recorder
	confirm  notify.Confirmer
}

// newApp loads configuration, sets up logging and resolves the session
func newApp(cmd *cobra.Command) (*app, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, err
	}

	sess, profile, err := resolveSession(cfg, profileName)
	if err != nil {
		return nil, err
	}

	m := metrics.New()
	c, err := client.New(sess,
		client.WithTimeout(cfg.Server.Timeout),
		client.WithInsecureSkipVerify(cfg.Server.InsecureSkipVerify),
		client.WithUserAgent(cfg.Server.UserAgent),
		client.WithMetrics(m),
		client.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	return &app{
		cfg:      cfg,
		logger:   logger,
		client:   c,
		profile:  profile,
		metrics:  m,
		notifier: notify.NewRecorder(notify.NewConsole(cmd.ErrOrStderr(), cfg.ColorEnabled() && !noColor)),
		confirm:  newConfirmer(),
	}, nil
}

// newConfirmer prompts on the terminal unless --yes was given
func newConfirmer() notify.Confirmer {
	if assumeYes {
		return &notify.StaticConfirmer{Answer: true}
	}
	return notify.HuhConfirmer{}
}

// surface routes tables to stdout and progress lines to stderr
func (a *app) surface(cmd *cobra.Command) views.Surface {
	return views.Surface{
		Out:      cmd.OutOrStdout(),
		Status:   cmd.ErrOrStderr(),
		Notifier: a.notifier,
	}
}

func loadConfig() (*config.Config, *slog.Logger, error) {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	// Setup logger
	var handler slog.Handler
	if cfg.Logging.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
			Level: parseLogLevel(cfg.Logging.Level),
		})
	} else {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: parseLogLevel(cfg.Logging.Level),
		})
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)

	return cfg, logger, nil
}

// resolveSession picks credentials: an explicit profile first, then the
// config file and environment, then the default or current profile. The
// name of the profile used is returned, empty when none was.
func resolveSession(cfg *config.Config, name string) (*session.Session, string, error) {
	if name == "" && cfg.HasServer() {
		return session.New(cfg.Server.BaseURL, cfg.Server.APIKey), "", nil
	}

	store, err := session.OpenProfileStore(cfg.Profiles.Path)
	if err != nil {
		return nil, "", err
	}
	defer store.Close()

	if name == "" {
		name = cfg.Profiles.Default
	}

	var p *session.Profile
	if name != "" {
		p, err = store.Get(name)
	} else {
		p, err = store.Current()
	}
	if err != nil {
		return nil, "", fmt.Errorf("failed to read profile: %w", err)
	}
	if p == nil {
		if name != "" {
			return nil, "", fmt.Errorf("profile not found: %s", name)
		}
		return nil, "", fmt.Errorf("no server configured (set %s and %s, or run 'lure profile add')",
			config.EnvURL, config.EnvAPIKey)
	}

	sess := p.Session()
	if p.Username != "" {
		sess.User = &models.User{Username: p.Username}
	}
	return sess, p.Name, nil
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid id: %s", s)
	}
	return id, nil
}

// readJSONFile decodes a resource definition from path, or stdin for "-"
func readJSONFile(path string, v any) error {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
