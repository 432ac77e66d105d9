package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"housingd/internal/artifact"
	"housingd/internal/dataset"
	"housingd/internal/forest"
	"housingd/internal/metrics"
	"housingd/internal/report"
	"housingd/pkg/types"
)

func newTrainCmd(o *Options) *cobra.Command {
	var (
		data, out, plot string
		testSize        float64
		seed            int64
		nEstimators     int
		maxDepth        int
		minSplit        int
		minLeaf         int
		maxFeatures     float64
		bootstrap       bool
		oob             bool
		nJobs           int
	)
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit a random forest on a housing CSV and write the model artifact",
		Example: "  housingctl train --data housing.csv --out models/model.gob\n" +
			"  housingctl train --data housing.csv --n-estimators 200 --max-depth 20 --oob-score",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tc := &o.cfg.Train
			f := cmd.Flags()
			if f.Changed("data") || tc.Data == "" {
				tc.Data = data
			}
			if f.Changed("out") {
				tc.Out = out
			}
			if f.Changed("test-size") {
				tc.TestSize = testSize
			}
			if f.Changed("seed") {
				tc.Seed = &seed
			}
			if f.Changed("n-estimators") {
				tc.NEstimators = nEstimators
			}
			if f.Changed("max-depth") {
				tc.MaxDepth = maxDepth
			}
			if f.Changed("min-samples-split") {
				tc.MinSamplesSplit = minSplit
			}
			if f.Changed("min-samples-leaf") {
				tc.MinSamplesLeaf = minLeaf
			}
			if f.Changed("max-features") {
				tc.MaxFeatures = maxFeatures
			}
			if f.Changed("bootstrap") {
				tc.Bootstrap = &bootstrap
			}
			if f.Changed("oob-score") {
				tc.OOBScore = oob
			}
			if f.Changed("n-jobs") {
				tc.NJobs = nJobs
			}
			if tc.Data == "" {
				return fmt.Errorf("--data is required")
			}
			if err := o.cfg.Validate(); err != nil {
				return err
			}

			ds, err := dataset.Load(tc.Data)
			if err != nil {
				return err
			}
			o.log.Info().Str("path", tc.Data).Int("rows", ds.Len()).Int("skipped", ds.Skipped).Str("layout", string(ds.Layout)).Msg("dataset loaded")
			train, test, err := dataset.TrainTestSplit(ds, tc.TestSize, *tc.Seed)
			if err != nil {
				return err
			}

			m := forest.NewRegressor(
				forest.WithNEstimators(tc.NEstimators),
				forest.WithMaxDepth(tc.MaxDepth),
				forest.WithMinSamplesSplit(tc.MinSamplesSplit),
				forest.WithMinSamplesLeaf(tc.MinSamplesLeaf),
				forest.WithMaxFeatures(tc.MaxFeatures),
				forest.WithBootstrap(*tc.Bootstrap),
				forest.WithOOBScore(tc.OOBScore),
				forest.WithRandomState(*tc.Seed),
				forest.WithNJobs(tc.NJobs),
				forest.WithLogger(o.log),
			)
			if err := m.Fit(cmd.Context(), train.X, train.Y); err != nil {
				return err
			}
			pred, err := m.Predict(test.X)
			if err != nil {
				return err
			}
			holdout, err := metrics.Evaluate(test.Y, pred)
			if err != nil {
				return err
			}

			a := artifact.New(m)
			a.Meta.TestSamples = test.Len()
			a.Meta.Holdout = &holdout
			if err := artifact.Save(tc.Out, a); err != nil {
				return err
			}
			o.log.Info().Str("model_id", a.Meta.ID).Str("out", tc.Out).Msg("artifact written")
			if plot != "" {
				imp, _ := m.FeatureImportances()
				if err := report.FeatureImportanceChart(types.FeatureNames, imp, plot); err != nil {
					return err
				}
			}
			printSummary(cmd.OutOrStdout(), a.Meta, tc.Out)
			return nil
		},
	}
	f := cmd.Flags()
	f.StringVar(&data, "data", "", "Training CSV (scikit-learn frame or raw StatLib layout)")
	f.StringVar(&out, "out", "models/model.gob", "Artifact output path")
	f.StringVar(&plot, "importances-plot", "", "Optional feature importance chart (.png, .svg, .pdf)")
	f.Float64Var(&testSize, "test-size", 0.2, "Holdout fraction in (0,1)")
	f.Int64Var(&seed, "seed", 42, "Random seed for the split and the forest")
	f.IntVar(&nEstimators, "n-estimators", 100, "Number of trees")
	f.IntVar(&maxDepth, "max-depth", 0, "Maximum tree depth (0 = unlimited)")
	f.IntVar(&minSplit, "min-samples-split", 2, "Minimum samples to split a node")
	f.IntVar(&minLeaf, "min-samples-leaf", 1, "Minimum samples per leaf")
	f.Float64Var(&maxFeatures, "max-features", 1.0, "Fraction of features considered per split")
	f.BoolVar(&bootstrap, "bootstrap", true, "Fit each tree on a bootstrap sample")
	f.BoolVar(&oob, "oob-score", false, "Compute the out-of-bag R^2")
	f.IntVar(&nJobs, "n-jobs", 0, "Trees fitted concurrently (0 = all CPUs)")
	return cmd
}

func printSummary(w io.Writer, m types.ModelInfo, path string) {
	fmt.Fprintf(w, "model      %s\n", m.ID)
	fmt.Fprintf(w, "artifact   %s\n", path)
	fmt.Fprintf(w, "samples    train=%d test=%d\n", m.TrainSamples, m.TestSamples)
	if h := m.Holdout; h != nil {
		fmt.Fprintf(w, "holdout    r2=%.4f rmse=%.4f mae=%.4f mse=%.4f\n", h.R2, h.RMSE, h.MAE, h.MSE)
	}
	if m.OOBScore != nil {
		fmt.Fprintf(w, "oob        r2=%.4f\n", *m.OOBScore)
	}
}
