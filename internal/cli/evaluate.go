package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"housingd/internal/dataset"
	"housingd/internal/metrics"
	"housingd/internal/report"
)

func newEvaluateCmd(o *Options) *cobra.Command {
	var model, data, plot string
	cmd := &cobra.Command{
		Use:     "evaluate",
		Short:   "Score a model artifact against a housing CSV",
		Example: "  housingctl evaluate --model models/model.gob --data housing.csv --plot scatter.png",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if data == "" {
				return fmt.Errorf("--data is required")
			}
			a, path, err := loadArtifact(o, model)
			if err != nil {
				return err
			}
			ds, err := dataset.Load(data)
			if err != nil {
				return err
			}
			pred, err := a.Model.Predict(ds.X)
			if err != nil {
				return err
			}
			m, err := metrics.Evaluate(ds.Y, pred)
			if err != nil {
				return err
			}
			o.log.Debug().Str("model", path).Int("rows", ds.Len()).Msg("evaluated")
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "model      %s\n", a.Meta.ID)
			fmt.Fprintf(w, "rows       %d (skipped %d)\n", ds.Len(), ds.Skipped)
			fmt.Fprintf(w, "r2         %.4f\n", m.R2)
			fmt.Fprintf(w, "rmse       %.4f\n", m.RMSE)
			fmt.Fprintf(w, "mae        %.4f\n", m.MAE)
			fmt.Fprintf(w, "mse        %.4f\n", m.MSE)
			if plot != "" {
				if err := report.PredictionScatter(ds.Y, pred, plot); err != nil {
					return err
				}
				fmt.Fprintf(w, "plot       %s\n", plot)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "Artifact file or directory (defaults to the configured server model)")
	cmd.Flags().StringVar(&data, "data", "", "CSV to score")
	cmd.Flags().StringVar(&plot, "plot", "", "Optional predicted-vs-actual scatter (.png, .svg, .pdf)")
	return cmd
}
