package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yjpartners/valet/internal/classify"
	"github.com/yjpartners/valet/internal/cli"
	"github.com/yjpartners/valet/internal/model"
	"github.com/yjpartners/valet/internal/store"
)

func organizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organize [path]",
		Short: "File everything in a folder into category folders",
		Long: `Classify every document in a folder and move each one into its
category folder. Extension rules run first across all categories,
then keyword rules; whatever matches nothing lands in the catch-all.

Documents are only ever moved, never deleted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runOrganize,
	}

	// Flags
	cmd.Flags().String("rules", "", "rules file (default: configured rules.path)")
	cmd.Flags().String("drive", "", "organize a Google Drive folder by ID instead of a local path")
	cmd.Flags().Bool("dry-run", false, "print the filing plan without moving anything")

	// Bind to viper
	_ = viper.BindPFlag("organize.rules", cmd.Flags().Lookup("rules"))
	_ = viper.BindPFlag("organize.drive", cmd.Flags().Lookup("drive"))
	_ = viper.BindPFlag("organize.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runOrganize(cmd *cobra.Command, args []string) error {
	handler := cli.NewInterruptHandler(os.Stdout)
	ctx := handler.HandleInterrupts(cmd.Context(), true)

	rs, err := loadRuleset(viper.GetString("organize.rules"))
	if err != nil {
		return err
	}

	var (
		st     store.Store
		parent string
	)
	if driveFolder := viper.GetString("organize.drive"); driveFolder != "" {
		ds, derr := newDriveStore(ctx)
		if derr != nil {
			return derr
		}
		st, parent = ds, driveFolder
		slog.Info(cli.FormatInfo(cli.DriveIcon + " Organizing Google Drive folder " + driveFolder))
	} else {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		st, parent = store.NewLocalStore(), dir
	}

	slog.Info(cli.FormatTitle("Taking inventory..."))

	items, err := st.List(ctx, parent)
	if err != nil {
		return fmt.Errorf("failed to list %s: %w", parent, err)
	}

	organizable := classify.Organizable(items, rs)
	if len(organizable) == 0 {
		slog.Info(cli.FormatInfo("Nothing to organize."))
		return nil
	}

	assignments := classify.Classify(organizable, rs)

	if viper.GetBool("organize.dry_run") {
		printPlan(organizable, assignments)
		return nil
	}

	bar := newOrganizeBar(len(organizable))
	router := classify.NewRouter(st, parent)
	router.OnResult = func(_ model.Item, _ string, _ error) {
		_ = bar.Add(1)
	}

	summary, applyErr := router.Apply(ctx, organizable, assignments)
	_ = bar.Finish()

	content := fmt.Sprintf("Moved:  %d\nFailed: %d", summary.Moved, summary.Failed)
	slog.Info(cli.RenderBox(cli.FolderIcon+" Organize Summary", content))

	if handler.WasInterrupted() {
		// The handler already explained what happens to partial runs.
		return nil
	}
	if applyErr != nil {
		return applyErr
	}
	if summary.Failed > 0 {
		return fmt.Errorf("%d documents could not be filed", summary.Failed)
	}

	slog.Info(cli.FormatSuccess("All documents are in their place."))
	return nil
}

func printPlan(items []model.Item, assignments classify.Assignment) {
	var b strings.Builder
	for _, item := range items {
		b.WriteString(classify.MoveLine(item.Name, assignments[item.ID]))
		b.WriteString("\n")
	}
	b.WriteString(fmt.Sprintf("\n%d documents, nothing moved.", len(items)))

	slog.Info(cli.RenderBox("Filing Plan (dry run)", b.String()))
}

func newOrganizeBar(total int) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stdout),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Filing documents...[reset]"),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)
}
