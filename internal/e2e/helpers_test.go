package e2e

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"housingd/internal/cli"
	"housingd/internal/httpapi"
	"housingd/internal/predictor"
	"housingd/pkg/types"
)

// writeRawCSV writes a CSV in the raw StatLib layout, the one the CI
// workflow downloads.
func writeRawCSV(t *testing.T, dir string, n int) string {
	t.Helper()
	rng := rand.New(rand.NewSource(11))
	var b strings.Builder
	b.WriteString("longitude,latitude,housing_median_age,total_rooms,total_bedrooms,population,households,median_income,median_house_value,ocean_proximity\n")
	for i := 0; i < n; i++ {
		hh := 100 + rng.Intn(900)
		inc := 1 + rng.Float64()*8
		fmt.Fprintf(&b, "%.2f,%.2f,%d,%d,%d,%d,%d,%.4f,%.0f,NEAR BAY\n",
			-124+rng.Float64()*10, 33+rng.Float64()*8, 5+rng.Intn(45),
			hh*(3+rng.Intn(4)), hh+rng.Intn(hh/4+1), hh*(2+rng.Intn(2)), hh,
			inc, 50000*inc+rng.Float64()*10000)
	}
	p := filepath.Join(dir, "housing.csv")
	if err := os.WriteFile(p, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write csv: %v", err)
	}
	return p
}

// trainModel runs housingctl train and returns the artifact path.
func trainModel(t *testing.T, csv, out string, trees int) string {
	t.Helper()
	var stdout, stderr bytes.Buffer
	args := []string{"train", "--data", csv, "--out", out, "--n-estimators", fmt.Sprint(trees), "--log-level", "error"}
	if err := cli.Run(context.Background(), args, &stdout, &stderr); err != nil {
		t.Fatalf("train: %v\n%s", err, stderr.String())
	}
	return out
}

func newServer(t *testing.T, modelPath string) (*httptest.Server, *predictor.Predictor, *predictor.MemoryPublisher) {
	t.Helper()
	httpapi.SetLogger(zerolog.Nop())
	pub := predictor.NewMemoryPublisher()
	p := predictor.New(predictor.Config{
		ModelPath: modelPath,
		Logger:    zerolog.Nop(),
		Publisher: predictor.MultiPublisher{pub, httpapi.MetricsPublisher{}},
	})
	srv := httptest.NewServer(httpapi.NewMux(p))
	t.Cleanup(srv.Close)
	return srv, p, pub
}

func httpGet(t *testing.T, url string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("get %s: %v", url, err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

func httpPostJSON(t *testing.T, url, body string) (*http.Response, []byte) {
	t.Helper()
	resp, err := http.Post(url, "application/json", bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("post %s: %v", url, err)
	}
	b, _ := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	return resp, b
}

const sampleRequest = `{"MedInc":8.3252,"HouseAge":41,"AveRooms":6.984127,"AveBedrms":1.02381,"Population":322,"AveOccup":2.555556,"Latitude":37.88,"Longitude":-122.23}`

func sampleFeatures() types.HousingFeatures {
	return types.NewHousingFeatures([]float64{8.3252, 41, 6.984127, 1.02381, 322, 2.555556, 37.88, -122.23})
}
