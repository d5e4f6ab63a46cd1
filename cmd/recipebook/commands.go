package main

import (
	"github.com/spf13/cobra"

	"github.com/skosovsky/recipebook"
)

// recipeFlags binds the recipe field flags shared by create and update.
type recipeFlags struct {
	file           string
	name           string
	description    string
	tags           []string
	categories     []string
	datasets       []string
	promptTemplate []string
	metrics        []string
	attackModules  []string
	gradingScale   string
}

func (f *recipeFlags) bind(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVarP(&f.file, "file", "f", "", "Read fields from a YAML/JSON manifest instead of flags")
	fl.StringVar(&f.name, "name", "", "Recipe name (its slug becomes the id)")
	fl.StringVar(&f.description, "description", "", "Recipe description")
	fl.StringSliceVar(&f.tags, "tag", nil, "Tag (repeatable)")
	fl.StringSliceVar(&f.categories, "category", nil, "Category (repeatable)")
	fl.StringSliceVar(&f.datasets, "dataset", nil, "Dataset id (repeatable)")
	fl.StringSliceVar(&f.promptTemplate, "prompt-template", nil, "Prompt template id (repeatable)")
	fl.StringSliceVar(&f.metrics, "metric", nil, "Metric id (repeatable)")
	fl.StringSliceVar(&f.attackModules, "attack-module", nil, "Attack module id (repeatable)")
	fl.StringVar(&f.gradingScale, "grading-scale", "", `Grading scale as JSON, e.g. '{"A":[80,100]}'`)
}

func buildRecipeCmd(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "recipe",
		Short: "Create, inspect and manage recipes",
		Long: `Manage recipes stored in the configured backend.

A recipe's id is the lowercase slug of its name. Statistics (list sizes and
per-dataset prompt counts) are derived on every read and never stored.`,
	}
	cmd.AddCommand(
		buildRecipeCreateCmd(configPath),
		buildRecipeGetCmd(configPath),
		buildRecipeListCmd(configPath),
		buildRecipeUpdateCmd(configPath),
		buildRecipeDeleteCmd(configPath),
		buildRecipeImportCmd(configPath),
		buildRecipeSeedCmd(configPath),
	)
	return cmd
}

func buildRecipeCreateCmd(configPath *string) *cobra.Command {
	var flags recipeFlags
	var strict bool
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a recipe and print its id",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecipeCreate(cmd, *configPath, &flags, strict)
		},
	}
	flags.bind(cmd)
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail if a recipe with the same id exists")
	return cmd
}

func buildRecipeGetCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print a recipe with derived statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecipeGet(cmd, *configPath, args[0])
		},
	}
}

func buildRecipeListCmd(configPath *string) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecipeList(cmd, *configPath, output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "table", "Output format: table|json")
	return cmd
}

func buildRecipeUpdateCmd(configPath *string) *cobra.Command {
	var flags recipeFlags
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Replace the fields of an existing recipe",
		Long: `Replace every field of the recipe with the given values.

Fields that are not supplied are cleared; use --file with a complete manifest
to keep them. The id never changes, even when the name does.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecipeUpdate(cmd, *configPath, args[0], &flags)
		},
	}
	flags.bind(cmd)
	return cmd
}

func buildRecipeDeleteCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecipeDelete(cmd, *configPath, args[0])
		},
	}
}

func buildRecipeImportCmd(configPath *string) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "import <manifest>...",
		Short: "Create recipes from manifest files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecipeImport(cmd, *configPath, args, strict)
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Fail if a recipe with the same id exists")
	return cmd
}

func buildRecipeSeedCmd(configPath *string) *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Copy the built-in sample recipes and datasets into the store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRecipeSeed(cmd, *configPath, force)
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite records that already exist")
	return cmd
}

func buildScoreCmd(configPath *string) *cobra.Command {
	var targetsPath, predictionsPath string
	var kinds []string
	cmd := &cobra.Command{
		Use:   "score",
		Short: "Score predictions against targets with ROUGE",
		Long: `Score each prediction against the target at the same position and print
per-pair and averaged recall, precision and F-measure.

Both files hold a JSON array of strings of equal, non-zero length.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runScore(cmd, *configPath, targetsPath, predictionsPath, kinds)
		},
	}
	cmd.Flags().StringVar(&targetsPath, "targets", "", "JSON file with target texts")
	cmd.Flags().StringVar(&predictionsPath, "predictions", "", "JSON file with predicted texts")
	cmd.Flags().StringSliceVar(&kinds, "kind", nil, "ROUGE kind (repeatable; default rouge1,rouge2,rougeLsum)")
	_ = cmd.MarkFlagRequired("targets")
	_ = cmd.MarkFlagRequired("predictions")
	return cmd
}

func buildMetricCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "metric",
		Short: "Inspect available metrics",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List metric metadata",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMetricList(cmd)
		},
	})
	return cmd
}

// fields assembles recipe fields from the manifest file or the individual flags.
func (f *recipeFlags) fields() (recipebook.Fields, error) {
	if f.file != "" {
		return parseManifestFile(f.file)
	}
	scale, err := parseGradingScale(f.gradingScale)
	if err != nil {
		return recipebook.Fields{}, err
	}
	return recipebook.Fields{
		Name:            f.name,
		Description:     f.description,
		Tags:            f.tags,
		Categories:      f.categories,
		Datasets:        f.datasets,
		PromptTemplates: f.promptTemplate,
		Metrics:         f.metrics,
		AttackModules:   f.attackModules,
		GradingScale:    scale,
	}, nil
}
