// Package dataset loads the California housing data used to train the
// price model.
//
// Two CSV layouts are accepted. The frame layout carries the eight model
// features by name plus a MedHouseVal target already expressed in units of
// 100,000 USD. The raw StatLib layout carries block-group totals; per
// household averages are derived from it and the target is rescaled.
package dataset

import (
	"encoding/csv"
	"io"
	"math"
	"math/rand"
	"os"
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"gonum.org/v1/gonum/mat"

	"housingd/internal/common/fsutil"
	"housingd/pkg/types"
)

// TargetName is the target column of the frame layout.
const TargetName = "MedHouseVal"

// Layout identifies the CSV flavor a dataset was read from.
type Layout string

const (
	LayoutFrame Layout = "frame"
	LayoutRaw   Layout = "raw"
)

var (
	ErrEmpty         = errors.New("dataset: empty input")
	ErrUnknownLayout = errors.New("dataset: unrecognized header")
	ErrNoRows        = errors.New("dataset: no usable rows")
)

// Dataset is a dense feature matrix with its regression target.
type Dataset struct {
	X            *mat.Dense
	Y            []float64
	FeatureNames []string
	Layout       Layout
	// Skipped counts input rows dropped for missing or degenerate values.
	Skipped int
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.Y) }

// Row returns a copy of row i.
func (d *Dataset) Row(i int) []float64 {
	return mat.Row(nil, i, d.X)
}

// Load reads a CSV dataset from path.
func Load(path string) (*Dataset, error) {
	p, err := fsutil.ExpandHome(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: open %s", p)
	}
	defer f.Close()
	ds, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "dataset: %s", p)
	}
	return ds, nil
}

// Read parses a CSV dataset with a header row.
func Read(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true
	header, err := cr.Read()
	if err == io.EOF {
		return nil, ErrEmpty
	}
	if err != nil {
		return nil, errors.Wrap(err, "dataset: read header")
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}

	var (
		layout Layout
		conv   func(rec []string, line int) ([]float64, float64, bool, error)
	)
	switch {
	case hasAll(cols, append(append([]string(nil), types.FeatureNames...), TargetName)):
		layout, conv = LayoutFrame, frameRow(cols)
	case hasAll(cols, rawColumns):
		layout, conv = LayoutRaw, rawRow(cols)
	default:
		return nil, errors.Wrapf(ErrUnknownLayout, "columns %v", header)
	}

	ds := &Dataset{FeatureNames: append([]string(nil), types.FeatureNames...), Layout: layout}
	var flat []float64
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "dataset: line %d", line)
		}
		x, y, ok, err := conv(rec, line)
		if err != nil {
			return nil, err
		}
		if !ok {
			ds.Skipped++
			continue
		}
		flat = append(flat, x...)
		ds.Y = append(ds.Y, y)
	}
	if len(ds.Y) == 0 {
		return nil, ErrNoRows
	}
	ds.X = mat.NewDense(len(ds.Y), types.NumFeatures, flat)
	return ds, nil
}

func hasAll(cols map[string]int, names []string) bool {
	for _, n := range names {
		if _, ok := cols[n]; !ok {
			return false
		}
	}
	return true
}

func frameRow(cols map[string]int) func([]string, int) ([]float64, float64, bool, error) {
	idx := make([]int, types.NumFeatures)
	for i, n := range types.FeatureNames {
		idx[i] = cols[n]
	}
	ti := cols[TargetName]
	return func(rec []string, line int) ([]float64, float64, bool, error) {
		x := make([]float64, types.NumFeatures)
		for i, c := range idx {
			v, err := parseCell(rec, c)
			if err != nil {
				return nil, 0, false, errors.Wrapf(err, "dataset: line %d column %s", line, types.FeatureNames[i])
			}
			x[i] = v
		}
		y, err := parseCell(rec, ti)
		if err != nil {
			return nil, 0, false, errors.Wrapf(err, "dataset: line %d column %s", line, TargetName)
		}
		return x, y, true, nil
	}
}

var rawColumns = []string{
	"longitude", "latitude", "housing_median_age", "total_rooms",
	"total_bedrooms", "population", "households", "median_income",
	"median_house_value",
}

// rawRow derives the frame features from block-group totals. Rows with an
// empty or unparsable cell or zero households are skipped; the StatLib
// export leaves total_bedrooms blank for a couple hundred block groups.
func rawRow(cols map[string]int) func([]string, int) ([]float64, float64, bool, error) {
	return func(rec []string, _ int) ([]float64, float64, bool, error) {
		var v [9]float64
		for i, n := range rawColumns {
			f, err := parseCell(rec, cols[n])
			if err != nil {
				return nil, 0, false, nil
			}
			v[i] = f
		}
		lon, lat, age, rooms, beds, pop, hh, inc, val := v[0], v[1], v[2], v[3], v[4], v[5], v[6], v[7], v[8]
		if hh <= 0 {
			return nil, 0, false, nil
		}
		x := []float64{inc, age, rooms / hh, beds / hh, pop, pop / hh, lat, lon}
		return x, val / 100000, true, nil
	}
}

func parseCell(rec []string, i int) (float64, error) {
	if i >= len(rec) {
		return 0, errors.New("missing cell")
	}
	s := strings.TrimSpace(rec[i])
	if s == "" {
		return 0, errors.New("empty cell")
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.Newf("non-finite value %q", s)
	}
	return f, nil
}

// TrainTestSplit shuffles the rows with seed and holds out a testSize
// fraction. testSize must lie in (0, 1) and leave both sides non-empty.
func TrainTestSplit(ds *Dataset, testSize float64, seed int64) (train, test *Dataset, err error) {
	if testSize <= 0 || testSize >= 1 {
		return nil, nil, errors.Newf("dataset: test size must be in (0, 1), got %v", testSize)
	}
	n := ds.Len()
	nTest := int(math.Ceil(testSize * float64(n)))
	if nTest < 1 || nTest >= n {
		return nil, nil, errors.Newf("dataset: cannot split %d rows with test size %v", n, testSize)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n)
	return ds.Subset(perm[nTest:]), ds.Subset(perm[:nTest]), nil
}

// Subset returns a new dataset holding the given rows in order. rows must
// not be empty.
func (d *Dataset) Subset(rows []int) *Dataset {
	_, c := d.X.Dims()
	out := &Dataset{
		X:            mat.NewDense(len(rows), c, nil),
		Y:            make([]float64, len(rows)),
		FeatureNames: append([]string(nil), d.FeatureNames...),
		Layout:       d.Layout,
	}
	for i, r := range rows {
		out.X.SetRow(i, d.X.RawRowView(r))
		out.Y[i] = d.Y[r]
	}
	return out
}
