package main

import (
	"context"
	"fmt"
	"log/slog"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/foxzi/lure/internal/client"
	"github.com/foxzi/lure/internal/config"
	"github.com/foxzi/lure/internal/notify"
	"github.com/foxzi/lure/internal/session"
	"github.com/foxzi/lure/internal/views"
)

var (
	profileURL    string
	profileAPIKey string
	profileUse    bool
)

var profileCmd = &cobra.Command{
	Use:     "profile",
	Aliases: []string{"profiles"},
	Short:   "Manage saved server profiles",
}

var profileAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add or replace a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileAdd,
}

var profileListCmd = &cobra.Command{
	Use:   "list",
	Short: "List profiles",
	Args:  cobra.NoArgs,
	RunE:  runProfileList,
}

var profileUseCmd = &cobra.Command{
	Use:   "use <name>",
	Short: "Make a profile the current one",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileUse,
}

var profileRemoveCmd = &cobra.Command{
	Use:   "remove <name>",
	Short: "Remove a profile",
	Args:  cobra.ExactArgs(1),
	RunE:  runProfileRemove,
}

func init() {
	profileAddCmd.Flags().StringVar(&profileURL, "url", "", "Server URL, e.g. https://localhost:3333 (required)")
	profileAddCmd.Flags().StringVar(&profileAPIKey, "api-key", "", "API key (prompted when omitted)")
	profileAddCmd.Flags().BoolVar(&profileUse, "use", false, "Make the profile current")
	profileAddCmd.MarkFlagRequired("url")

	profileCmd.AddCommand(profileAddCmd, profileListCmd, profileUseCmd, profileRemoveCmd)
	rootCmd.AddCommand(profileCmd)
}

func openProfiles() (*config.Config, *slog.Logger, *session.ProfileStore, error) {
	cfg, logger, err := loadConfig()
	if err != nil {
		return nil, nil, nil, err
	}

	store, err := session.OpenProfileStore(cfg.Profiles.Path)
	if err != nil {
		return nil, nil, nil, err
	}
	return cfg, logger, store, nil
}

func runProfileAdd(cmd *cobra.Command, args []string) error {
	cfg, logger, store, err := openProfiles()
	if err != nil {
		return err
	}
	defer store.Close()

	key := profileAPIKey
	if key == "" {
		key, err = notify.PromptSecret(cmd.Context(), "API key for "+profileURL)
		if err != nil {
			return err
		}
	}

	p := &session.Profile{Name: args[0], BaseURL: profileURL, APIKey: key}
	if err := p.Session().Validate(); err != nil {
		return fmt.Errorf("invalid profile: %w", err)
	}

	if profileUse {
		p.Username = resolveOwner(cmd.Context(), cfg, logger, p.Session())
	}
	if err := store.Save(p); err != nil {
		return err
	}
	if profileUse {
		if err := store.SetCurrent(p.Name); err != nil {
			return err
		}
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Profile %s saved\n", p.Name)
	return nil
}

func runProfileList(cmd *cobra.Command, args []string) error {
	_, _, store, err := openProfiles()
	if err != nil {
		return err
	}
	defer store.Close()

	profiles, err := store.List()
	if err != nil {
		return err
	}
	if len(profiles) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No profiles. Add one with 'lure profile add'.")
		return nil
	}

	current, err := store.Current()
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "\tNAME\tURL\tUSER\tUPDATED")
	for _, p := range profiles {
		mark := ""
		if current != nil && current.Name == p.Name {
			mark = "*"
		}
		user := p.Username
		if user == "" {
			user = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", mark, p.Name, p.BaseURL, user, views.FormatTime(p.UpdatedAt))
	}
	return w.Flush()
}

func runProfileUse(cmd *cobra.Command, args []string) error {
	cfg, logger, store, err := openProfiles()
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := store.Get(args[0])
	if err != nil {
		return err
	}
	if p == nil {
		return fmt.Errorf("profile not found: %s", args[0])
	}

	if user := resolveOwner(cmd.Context(), cfg, logger, p.Session()); user != "" && user != p.Username {
		p.Username = user
		if err := store.Save(p); err != nil {
			return err
		}
	}
	if err := store.SetCurrent(p.Name); err != nil {
		return err
	}

	if p.Username != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "Using profile %s (%s)\n", p.Name, p.Username)
	} else {
		fmt.Fprintf(cmd.OutOrStdout(), "Using profile %s\n", p.Name)
	}
	return nil
}

func runProfileRemove(cmd *cobra.Command, args []string) error {
	_, _, store, err := openProfiles()
	if err != nil {
		return err
	}
	defer store.Close()

	ok, err := newConfirmer().Confirm(cmd.Context(), notify.Prompt{
		Title:       "Remove profile " + args[0] + "?",
		Description: "The API key stored with it is deleted.",
		Affirmative: "Remove",
	})
	if err != nil {
		return err
	}
	if !ok {
		return notify.ErrDeclined
	}

	if err := store.Delete(args[0]); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Profile %s removed\n", args[0])
	return nil
}

// resolveOwner looks up the user owning the session's API key. Only
// admins can list users, so any failure yields an empty name.
func resolveOwner(ctx context.Context, cfg *config.Config, logger *slog.Logger, sess *session.Session) string {
	c, err := client.New(sess,
		client.WithTimeout(cfg.Server.Timeout),
		client.WithInsecureSkipVerify(cfg.Server.InsecureSkipVerify),
		client.WithUserAgent(cfg.Server.UserAgent),
		client.WithLogger(logger),
	)
	if err != nil {
		return ""
	}

	users, err := c.Users(ctx).Await(ctx)
	if err != nil {
		logger.Debug("cannot resolve API key owner", "error", err)
		return ""
	}
	for _, u := range users {
		if u.APIKey == sess.APIKey {
			return u.Username
		}
	}
	return ""
}
