package dataset

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const frameCSV = `MedInc,HouseAge,AveRooms,AveBedrms,Population,AveOccup,Latitude,Longitude,MedHouseVal
8.3252,41,6.984127,1.02381,322,2.555556,37.88,-122.23,4.526
8.3014,21,6.238137,0.97188,2401,2.109842,37.86,-122.22,3.585
7.2574,52,8.288136,1.073446,496,2.80226,37.85,-122.24,3.521
`

const rawCSV = `longitude,latitude,housing_median_age,total_rooms,total_bedrooms,population,households,median_income,median_house_value,ocean_proximity
-122.23,37.88,41.0,880.0,129.0,322.0,126.0,8.3252,452600.0,NEAR BAY
-122.22,37.86,21.0,7099.0,,2401.0,1138.0,8.3014,358500.0,NEAR BAY
-122.24,37.85,52.0,1467.0,190.0,496.0,177.0,7.2574,352100.0,NEAR BAY
-122.25,37.85,52.0,1274.0,235.0,558.0,0,5.6431,341300.0,NEAR BAY
`

func TestReadFrameLayout(t *testing.T) {
	ds, err := Read(strings.NewReader(frameCSV))
	require.NoError(t, err)
	assert.Equal(t, LayoutFrame, ds.Layout)
	assert.Equal(t, 3, ds.Len())
	assert.Equal(t, 0, ds.Skipped)
	assert.InDelta(t, 4.526, ds.Y[0], 1e-12)
	row := ds.Row(1)
	assert.InDelta(t, 8.3014, row[0], 1e-12)
	assert.InDelta(t, -122.22, row[7], 1e-12)
}

func TestReadRawLayoutDerivesFeatures(t *testing.T) {
	ds, err := Read(strings.NewReader(rawCSV))
	require.NoError(t, err)
	assert.Equal(t, LayoutRaw, ds.Layout)
	// blank total_bedrooms and zero households are skipped
	assert.Equal(t, 2, ds.Len())
	assert.Equal(t, 2, ds.Skipped)

	row := ds.Row(0)
	assert.InDelta(t, 8.3252, row[0], 1e-12)
	assert.InDelta(t, 41, row[1], 1e-12)
	assert.InDelta(t, 880.0/126.0, row[2], 1e-12)
	assert.InDelta(t, 129.0/126.0, row[3], 1e-12)
	assert.InDelta(t, 322, row[4], 1e-12)
	assert.InDelta(t, 322.0/126.0, row[5], 1e-12)
	assert.InDelta(t, 37.88, row[6], 1e-12)
	assert.InDelta(t, -122.23, row[7], 1e-12)
	assert.InDelta(t, 4.526, ds.Y[0], 1e-12)
}

func TestReadErrors(t *testing.T) {
	_, err := Read(strings.NewReader(""))
	assert.True(t, errors.Is(err, ErrEmpty))

	_, err = Read(strings.NewReader("a,b,c\n1,2,3\n"))
	assert.True(t, errors.Is(err, ErrUnknownLayout))

	header := strings.SplitN(frameCSV, "\n", 2)[0]
	_, err = Read(strings.NewReader(header + "\n"))
	assert.True(t, errors.Is(err, ErrNoRows))

	_, err = Read(strings.NewReader(header + "\nx,41,6.9,1.0,322,2.5,37.88,-122.23,4.5\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MedInc")
}

func TestLoadFromFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "housing.csv")
	require.NoError(t, os.WriteFile(p, []byte(frameCSV), 0o644))
	ds, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 3, ds.Len())

	_, err = Load(filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
}

func TestTrainTestSplit(t *testing.T) {
	var b strings.Builder
	b.WriteString(strings.SplitN(frameCSV, "\n", 2)[0] + "\n")
	for i := 0; i < 10; i++ {
		b.WriteString("1,2,3,4,5,6,7,8,")
		b.WriteString(string(rune('0' + i)))
		b.WriteString("\n")
	}
	ds, err := Read(strings.NewReader(b.String()))
	require.NoError(t, err)

	train, test, err := TrainTestSplit(ds, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, 8, train.Len())
	assert.Equal(t, 2, test.Len())

	seen := map[float64]bool{}
	for _, y := range append(append([]float64(nil), train.Y...), test.Y...) {
		assert.False(t, seen[y], "row %v appears twice", y)
		seen[y] = true
	}
	assert.Len(t, seen, 10)

	train2, test2, err := TrainTestSplit(ds, 0.2, 42)
	require.NoError(t, err)
	assert.Equal(t, train.Y, train2.Y)
	assert.Equal(t, test.Y, test2.Y)

	_, _, err = TrainTestSplit(ds, 0, 1)
	assert.Error(t, err)
	_, _, err = TrainTestSplit(ds, 1, 1)
	assert.Error(t, err)
}
