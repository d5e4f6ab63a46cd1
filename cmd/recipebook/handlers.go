package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/skosovsky/recipebook"
	"github.com/skosovsky/recipebook/manifest"
	"github.com/skosovsky/recipebook/metric"
	"github.com/skosovsky/recipebook/metric/rougescorer"
	"github.com/skosovsky/recipebook/rouge"
	"github.com/skosovsky/recipebook/storage/embedstore"
)

func runRecipeCreate(cmd *cobra.Command, configPath string, flags *recipeFlags, strict bool) error {
	f, err := flags.fields()
	if err != nil {
		return err
	}
	return withApp(cmd, configPath, func(a *app) error {
		reg := a.registry
		if strict {
			reg = a.strictRegistry()
		}
		id, err := reg.Create(cmd.Context(), f)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	})
}

func runRecipeGet(cmd *cobra.Command, configPath, id string) error {
	return withApp(cmd, configPath, func(a *app) error {
		rec, err := a.registry.Load(cmd.Context(), id)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), rec)
	})
}

func runRecipeList(cmd *cobra.Command, configPath, output string) error {
	if output != "table" && output != "json" {
		return fmt.Errorf("unknown output format %q (want table or json)", output)
	}
	return withApp(cmd, configPath, func(a *app) error {
		_, recs, err := a.registry.ListAll(cmd.Context())
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		if output == "json" {
			return writeJSON(out, recs)
		}
		if len(recs) == 0 {
			fmt.Fprintln(out, "No recipes found.")
			return nil
		}
		w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tDATASETS\tPROMPTS\tMETRICS")
		for _, r := range recs {
			prompts := 0
			for _, n := range r.Stats.NumDatasetsPrompts {
				prompts += n
			}
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%s\n", r.ID, r.Name, r.Stats.NumDatasets, prompts, strings.Join(r.Metrics, ","))
		}
		return w.Flush()
	})
}

func runRecipeUpdate(cmd *cobra.Command, configPath, id string, flags *recipeFlags) error {
	f, err := flags.fields()
	if err != nil {
		return err
	}
	f.ID = id
	return withApp(cmd, configPath, func(a *app) error {
		exists, err := a.registry.Exists(cmd.Context(), id)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %q", recipebook.ErrNotFound, id)
		}
		if err := a.registry.Update(cmd.Context(), f); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), id)
		return nil
	})
}

func runRecipeDelete(cmd *cobra.Command, configPath, id string) error {
	return withApp(cmd, configPath, func(a *app) error {
		if err := a.registry.Delete(cmd.Context(), id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %s\n", id)
		return nil
	})
}

func runRecipeImport(cmd *cobra.Command, configPath string, paths []string, strict bool) error {
	fields := make([]recipebook.Fields, 0, len(paths))
	for _, p := range paths {
		f, err := parseManifestFile(p)
		if err != nil {
			return err
		}
		fields = append(fields, f)
	}
	return withApp(cmd, configPath, func(a *app) error {
		reg := a.registry
		if strict {
			reg = a.strictRegistry()
		}
		for i, f := range fields {
			id, err := reg.Create(cmd.Context(), f)
			if err != nil {
				return fmt.Errorf("%s: %w", paths[i], err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), id)
		}
		return nil
	})
}

// runRecipeSeed copies the embedded sample namespaces into the configured store.
func runRecipeSeed(cmd *cobra.Command, configPath string, force bool) error {
	src, err := embedstore.New(builtinFS, "builtin")
	if err != nil {
		return err
	}
	return withApp(cmd, configPath, func(a *app) error {
		ctx := cmd.Context()
		targets := map[string]string{
			"datasets": a.cfg.Namespaces.Datasets,
			"recipes":  a.cfg.Namespaces.Recipes,
		}
		for _, srcNS := range []string{"datasets", "recipes"} {
			keys, err := src.GetObjects(ctx, srcNS, recipebook.FormatJSON)
			if err != nil {
				return err
			}
			for _, key := range keys {
				id := recipebook.KeyStem(key)
				dst := targets[srcNS]
				if !force {
					exists, err := a.store.ObjectExists(ctx, dst, id, a.format)
					if err != nil {
						return err
					}
					if exists {
						a.logger.Info("seed record exists, skipping", "namespace", dst, "id", id)
						continue
					}
				}
				payload, err := src.ReadObject(ctx, srcNS, id, recipebook.FormatJSON)
				if err != nil {
					return err
				}
				if err := a.store.CreateObject(ctx, dst, id, payload, a.format); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s/%s\n", dst, id)
			}
		}
		return nil
	})
}

func runScore(cmd *cobra.Command, configPath, targetsPath, predictionsPath string, kinds []string) error {
	targets, err := readStrings(targetsPath)
	if err != nil {
		return err
	}
	predictions, err := readStrings(predictionsPath)
	if err != nil {
		return err
	}
	return withApp(cmd, configPath, func(a *app) error {
		opts := []rougescorer.Option{
			rougescorer.WithLogger(a.logger),
			rougescorer.WithRecorder(a.recorder),
		}
		if len(kinds) > 0 {
			ks := make([]rouge.Kind, len(kinds))
			for i, k := range kinds {
				ks[i] = rouge.Kind(k)
			}
			opts = append(opts, rougescorer.WithKinds(ks...))
		}
		b, err := rougescorer.New(opts...).Score(cmd.Context(), targets, predictions)
		if err != nil {
			return err
		}
		return writeJSON(cmd.OutOrStdout(), b.Result())
	})
}

func runMetricList(cmd *cobra.Command) error {
	reg, err := metric.NewRegistry(rougescorer.New())
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tDESCRIPTION")
	for _, m := range reg.List() {
		fmt.Fprintf(w, "%s\t%s\t%s\n", m.ID, m.Name, m.Description)
	}
	return w.Flush()
}

// strictRegistry is a registry over the same store that rejects id collisions on create.
func (a *app) strictRegistry() *recipebook.Registry {
	return recipebook.New(a.store, a.catalog, a.registryOptions(recipebook.WithStrictCreate(true))...)
}

func parseManifestFile(path string) (recipebook.Fields, error) {
	f, err := manifest.ParseFile(path)
	if err != nil {
		return recipebook.Fields{}, fmt.Errorf("%s: %w", path, err)
	}
	return f, nil
}

func parseGradingScale(s string) (map[string]any, error) {
	if s == "" {
		return map[string]any{}, nil
	}
	var scale map[string]any
	if err := json.Unmarshal([]byte(s), &scale); err != nil {
		return nil, fmt.Errorf("--grading-scale: %w", err)
	}
	return scale, nil
}

func readStrings(path string) ([]string, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is a CLI argument
	if err != nil {
		return nil, err
	}
	var out []string
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("%s: expected a JSON array of strings: %w", path, err)
	}
	return out, nil
}

func writeJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}
