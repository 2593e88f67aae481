package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/yjpartners/valet/internal/classify"
	"github.com/yjpartners/valet/internal/cli"
	"github.com/yjpartners/valet/internal/config"
	"github.com/yjpartners/valet/internal/model"
	"github.com/yjpartners/valet/internal/rules"
)

func rulesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Manage the category ruleset",
		Long: `🛎️  Category Rules

Rules decide where each document belongs. Every category names the
file extensions and the filename keywords it claims; declaration
order is precedence order, and the final catch-all takes whatever is
left over.`,
	}

	// Add subcommands
	cmd.AddCommand(rulesListCmd())
	cmd.AddCommand(rulesInitCmd())
	cmd.AddCommand(rulesCheckCmd())

	return cmd
}

func rulesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Show the effective ruleset",
		Long:  `Display every category with the extensions and keywords it claims, in precedence order.`,
		RunE: func(_ *cobra.Command, _ []string) error {
			rs, err := loadRuleset("")
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				cli.TableHeaderStyle.Render("CATEGORY"),
				cli.TableHeaderStyle.Render("EXTENSIONS"),
				cli.TableHeaderStyle.Render("KEYWORDS"))

			for _, rule := range rs.Rules {
				if rule.IsCatchAll() {
					fmt.Fprintf(w, "%s\t%s\t\n", cli.BoldStyle.Render(rule.ID), cli.SubtleStyle.Render("(catch-all)"))
					continue
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n",
					cli.BoldStyle.Render(rule.ID),
					strings.Join(rule.Extensions, ", "),
					strings.Join(rule.Keywords, ", "))
			}

			return w.Flush()
		},
	}
}

func rulesInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write a starter rules file",
		Long:  `Write the built-in starter ruleset to the configured rules path so it can be customized.`,
		RunE:  runRulesInit,
	}

	cmd.Flags().Bool("force", false, "overwrite an existing rules file without asking")
	_ = viper.BindPFlag("rules.force", cmd.Flags().Lookup("force"))

	return cmd
}

func runRulesInit(cmd *cobra.Command, _ []string) error {
	path := config.ExpandPath(viper.GetString("rules.path"))

	if _, err := os.Stat(path); err == nil && !viper.GetBool("rules.force") {
		prompter := cli.NewPrompter(os.Stdin, os.Stdout)
		overwrite, perr := prompter.Confirm(cmd.Context(), fmt.Sprintf("Overwrite %s?", path), false)
		if perr != nil {
			return perr
		}
		if !overwrite {
			fmt.Println(cli.FormatInfo("Keeping the existing rules file."))
			return nil
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(rules.StarterYAML), 0o600); err != nil {
		return fmt.Errorf("failed to write rules file: %w", err)
	}

	fmt.Println(cli.FormatSuccess("Starter rules written to " + path))
	fmt.Println(cli.SubtleStyle.Render("Edit the file, then run 'valet rules check' to validate."))
	return nil
}

func rulesCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [name]",
		Short: "Validate the rules file",
		Long: `Validate the rules file. With a name argument, also preview which
category that filename would file under.`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRulesCheck,
	}

	cmd.Flags().String("rules", "", "rules file (default: configured rules.path)")
	_ = viper.BindPFlag("rules.check_path", cmd.Flags().Lookup("rules"))

	return cmd
}

func runRulesCheck(_ *cobra.Command, args []string) error {
	path := viper.GetString("rules.check_path")
	if path == "" {
		path = viper.GetString("rules.path")
	}
	path = config.ExpandPath(path)

	rs, err := rules.Load(path)
	if err != nil {
		return fmt.Errorf("rules file %s: %w", path, err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Rules file is valid: %d categories.", len(rs.Rules))))

	if len(args) == 1 {
		name := args[0]
		item := model.Item{ID: name, Name: name, Kind: model.KindFile}
		fmt.Println(cli.FormatInfo(classify.MoveLine(name, classify.ClassifyItem(item, rs))))
	}

	return nil
}
