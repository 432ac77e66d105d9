package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"housingd/internal/predictor"
	"housingd/pkg/types"
)

func newPredictCmd(o *Options) *cobra.Command {
	var model, doc, features string
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict one median house value locally",
		Example: "  housingctl predict --features 8.3252,41,6.98,1.02,322,2.55,37.88,-122.23\n" +
			"  echo '{\"MedInc\":8.3,...}' | housingctl predict --json -",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rec, err := readRecord(cmd.InOrStdin(), doc, features)
			if err != nil {
				return err
			}
			a, path, err := loadArtifact(o, model)
			if err != nil {
				return err
			}
			p := predictor.NewFromArtifact(a, predictor.Config{ModelPath: path, Logger: o.log})
			v, err := p.Predict(cmd.Context(), rec)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			return enc.Encode(types.PredictResponse{PredictedPrice: v})
		},
	}
	cmd.Flags().StringVar(&model, "model", "", "Artifact file or directory (defaults to the configured server model)")
	cmd.Flags().StringVar(&doc, "json", "", "Request document: inline JSON, a file path, or - for stdin")
	cmd.Flags().StringVar(&features, "features", "", "Comma-separated values in order "+strings.Join(types.FeatureNames, ","))
	return cmd
}

func readRecord(stdin io.Reader, doc, features string) (types.HousingFeatures, error) {
	var rec types.HousingFeatures
	switch {
	case doc != "" && features != "":
		return rec, fmt.Errorf("use either --json or --features")
	case features != "":
		parts := strings.Split(features, ",")
		if len(parts) != types.NumFeatures {
			return rec, fmt.Errorf("--features needs %d values, got %d", types.NumFeatures, len(parts))
		}
		v := make([]float64, len(parts))
		for i, s := range parts {
			f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
			if err != nil {
				return rec, fmt.Errorf("%s: %w", types.FeatureNames[i], err)
			}
			v[i] = f
		}
		return types.NewHousingFeatures(v), nil
	case doc != "":
		var b []byte
		var err error
		switch {
		case doc == "-":
			b, err = io.ReadAll(stdin)
		case strings.HasPrefix(strings.TrimSpace(doc), "{"):
			b = []byte(doc)
		default:
			b, err = os.ReadFile(doc)
		}
		if err != nil {
			return rec, err
		}
		if err := json.Unmarshal(b, &rec); err != nil {
			return rec, fmt.Errorf("invalid JSON document: %w", err)
		}
		return rec, nil
	}
	return rec, fmt.Errorf("one of --json or --features is required")
}
