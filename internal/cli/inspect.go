package cli

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"housingd/internal/artifact"
	"housingd/internal/registry"
	"housingd/internal/report"
)

func newInspectCmd(o *Options) *cobra.Command {
	var model, plot string
	var asJSON bool
	cmd := &cobra.Command{
		Use:     "inspect",
		Short:   "Print artifact metadata and feature importances",
		Example: "  housingctl inspect --model models/\n  housingctl inspect --model models/model.gob --json",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, path, err := loadArtifact(o, model)
			if err != nil {
				return err
			}
			info := a.Meta
			info.Path = path
			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			printSummary(w, info, path)
			fmt.Fprintf(w, "algorithm  %s\n", info.Algorithm)
			keys := make([]string, 0, len(info.Params))
			for k := range info.Params {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				fmt.Fprintf(w, "param      %s=%v\n", k, info.Params[k])
			}
			names := append([]string(nil), info.FeatureNames...)
			sort.SliceStable(names, func(i, j int) bool {
				return info.FeatureImportances[names[i]] > info.FeatureImportances[names[j]]
			})
			for _, n := range names {
				fmt.Fprintf(w, "importance %-10s %.4f\n", n, info.FeatureImportances[n])
			}
			if plot != "" {
				imp := make([]float64, len(info.FeatureNames))
				for i, n := range info.FeatureNames {
					imp[i] = info.FeatureImportances[n]
				}
				return report.FeatureImportanceChart(info.FeatureNames, imp, plot)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "Artifact file or directory (defaults to the configured server model)")
	cmd.Flags().StringVar(&plot, "plot", "", "Optional feature importance chart (.png, .svg, .pdf)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print metadata as JSON")
	return cmd
}

// loadArtifact resolves path (or the configured server model) and reads it.
func loadArtifact(o *Options, path string) (*artifact.Artifact, string, error) {
	if path == "" {
		path = o.cfg.Server.Model
	}
	resolved, err := registry.Resolve(path)
	if err != nil {
		return nil, "", err
	}
	a, err := artifact.Load(resolved)
	if err != nil {
		return nil, "", err
	}
	return a, resolved, nil
}
