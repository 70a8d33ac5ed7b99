package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/foxzi/lure/internal/client"
	"github.com/foxzi/lure/internal/editor"
	"github.com/foxzi/lure/internal/models"
	"github.com/foxzi/lure/internal/notify"
	"github.com/foxzi/lure/internal/views"
)

var (
	groupName      string
	groupTargets   []string
	groupRemove    []string
	groupImports   []string
	groupOutputDir string
	groupTemplate  string
)

var groupsCmd = &cobra.Command{
	Use:     "groups",
	Aliases: []string{"group"},
	Short:   "Manage target groups",
}

var groupsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups",
	Args:  cobra.NoArgs,
	RunE:  runGroupsList,
}

var groupsShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show group members",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsShow,
}

var groupsExportCmd = &cobra.Command{
	Use:   "export <id>",
	Short: "Export group members to CSV",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsExport,
}

var groupsTemplateCmd = &cobra.Command{
	Use:   "template",
	Short: "Write an example import CSV",
	Args:  cobra.NoArgs,
	RunE:  runGroupsTemplate,
}

var groupsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a group",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupsDelete,
}

var groupsEditCmd = &cobra.Command{
	Use:   "edit <id|new>",
	Short: "Create or edit a group",
	Long: `Open a group (or a new one), apply the given changes and save.

Targets are given as "first,last,email,position,custom". A target whose email
is already in the group replaces that member. Imported files are parsed by
the server and merged the same way.`,
	Args: cobra.ExactArgs(1),
	RunE: runGroupsEdit,
}

func init() {
	groupsExportCmd.Flags().StringVarP(&groupOutputDir, "output", "o", "", "Output directory (default: output.download_dir)")
	groupsTemplateCmd.Flags().StringVarP(&groupTemplate, "output", "o", "group_template.csv", "Output file, - for stdout")

	groupsEditCmd.Flags().StringVar(&groupName, "name", "", "Group name")
	groupsEditCmd.Flags().StringArrayVar(&groupTargets, "target", nil, "Add or update a target (repeatable)")
	groupsEditCmd.Flags().StringArrayVar(&groupRemove, "remove", nil, "Remove the target with this email (repeatable)")
	groupsEditCmd.Flags().StringArrayVar(&groupImports, "import", nil, "Import targets from a .csv or .txt file (repeatable)")

	groupsCmd.AddCommand(
		groupsListCmd,
		groupsShowCmd,
		groupsExportCmd,
		groupsTemplateCmd,
		groupsDeleteCmd,
		groupsEditCmd,
	)
	rootCmd.AddCommand(groupsCmd)
}

func parseExistingGroupID(s string) (models.GroupID, error) {
	id, err := models.ParseGroupID(s)
	if err != nil || id.IsNew() {
		return 0, fmt.Errorf("invalid group id: %s", s)
	}
	return id, nil
}

func runGroupsList(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	return views.Groups(a.client, a.surface(cmd)).Load(cmd.Context())
}

func runGroupsShow(cmd *cobra.Command, args []string) error {
	id, err := parseExistingGroupID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	g, err := a.client.Group(ctx, id).Await(ctx)
	if err != nil {
		a.notifier.Error(client.Message(err, "Error fetching group"))
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:       %s\n", g.ID)
	fmt.Fprintf(out, "Name:     %s\n", views.Sanitize(g.Name))
	fmt.Fprintf(out, "Members:  %d\n", len(g.Targets))
	fmt.Fprintf(out, "Modified: %s\n\n", views.FormatTime(g.ModifiedDate))

	return writeTargets(out, g.Targets)
}

func writeTargets(out io.Writer, targets []models.Target) error {
	if len(targets) == 0 {
		fmt.Fprintln(out, "No targets.")
		return nil
	}

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "#\tFIRST NAME\tLAST NAME\tEMAIL\tPOSITION\tCUSTOM")
	for i, t := range targets {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n", i+1,
			views.Sanitize(t.FirstName),
			views.Sanitize(t.LastName),
			views.Sanitize(t.Email),
			views.Sanitize(t.Position),
			views.Sanitize(t.Custom),
		)
	}
	return w.Flush()
}

func runGroupsExport(cmd *cobra.Command, args []string) error {
	id, err := parseExistingGroupID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	ed := editor.New(a.client, a.notifier, nil, a.logger)
	file, err := ed.Export(cmd.Context(), id)
	if err != nil {
		return err
	}

	dir := groupOutputDir
	if dir == "" {
		dir = a.cfg.Output.DownloadDir
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	path := filepath.Join(dir, file.Filename)
	if err := os.WriteFile(path, file.Data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	a.notifier.Success(fmt.Sprintf("Exported group to %s", path))
	return nil
}

func runGroupsTemplate(cmd *cobra.Command, args []string) error {
	if groupTemplate == "-" {
		return editor.TemplateCSV(cmd.OutOrStdout())
	}

	f, err := os.Create(groupTemplate)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", groupTemplate, err)
	}
	defer f.Close()

	if err := editor.TemplateCSV(f); err != nil {
		return fmt.Errorf("failed to write template: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Template written to %s\n", groupTemplate)
	return nil
}

func runGroupsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseExistingGroupID(args[0])
	if err != nil {
		return err
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	list := views.Groups(a.client, a.surface(cmd))
	ed := editor.New(a.client, a.notifier, list, a.logger)
	return ed.DeleteGroup(cmd.Context(), id, a.confirm)
}

// groupEdits are the changes requested on the command line, applied in
// the order name, imports, targets, removals
type groupEdits struct {
	name    *string
	targets []string
	remove  []string
	imports []string
}

func runGroupsEdit(cmd *cobra.Command, args []string) error {
	id, err := models.ParseGroupID(args[0])
	if err != nil {
		return fmt.Errorf("invalid group id: %s", args[0])
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}

	edits := groupEdits{
		targets: groupTargets,
		remove:  groupRemove,
		imports: groupImports,
	}
	if cmd.Flags().Changed("name") {
		edits.name = &groupName
	}

	list := views.Groups(a.client, a.surface(cmd))
	ed := editor.New(a.client, a.notifier, list, a.logger)

	saved, err := editGroup(cmd.Context(), ed, a.notifier, id, edits)
	if err != nil {
		return err
	}

	a.logger.Debug("group saved", "id", saved.ID, "name", saved.Name)
	return nil
}

// editGroup runs one full edit session: open, apply, save. On failure the
// session is left open with the modal error set.
func editGroup(ctx context.Context, ed *editor.Editor, n notify.Notifier, id models.GroupID, e groupEdits) (models.Group, error) {
	if err := ed.Open(ctx, id); err != nil {
		return models.Group{}, err
	}

	if err := applyGroupEdits(ctx, ed, n, e); err != nil {
		return models.Group{}, err
	}

	return ed.Save(ctx)
}

func applyGroupEdits(ctx context.Context, ed *editor.Editor, n notify.Notifier, e groupEdits) error {
	if e.name != nil {
		ed.SetName(*e.name)
	}

	for _, path := range e.imports {
		f, err := os.Open(path)
		if err != nil {
			n.ModalError(fmt.Sprintf("Cannot read %s", path))
			return fmt.Errorf("failed to open %s: %w", path, err)
		}
		_, err = ed.ImportCSV(ctx, filepath.Base(path), f)
		f.Close()
		if err != nil {
			return err
		}
	}

	for _, entry := range e.targets {
		t, err := editor.ParseTarget(entry)
		if err != nil {
			n.ModalError(err.Error())
			return err
		}
		if !ed.AddOrUpdateTarget(t) {
			return editor.ErrClosed
		}
	}

	for _, email := range e.remove {
		if !ed.RemoveEmail(email) {
			err := fmt.Errorf("no target with email %s", email)
			n.ModalError(err.Error())
			return err
		}
	}

	return nil
}
