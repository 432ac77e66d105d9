package types

import (
	"bytes"
	"encoding/json"
	"strings"
)

// FeatureNames is the canonical feature order used by the dataset loader,
// the trained model and the HTTP API.
var FeatureNames = []string{
	"MedInc",
	"HouseAge",
	"AveRooms",
	"AveBedrms",
	"Population",
	"AveOccup",
	"Latitude",
	"Longitude",
}

// NumFeatures is len(FeatureNames).
const NumFeatures = 8

// HousingFeatures is one block group of the California housing data.
// All fields are required; pointers distinguish "absent" from zero.
type HousingFeatures struct {
	// Median income in the block group, in tens of thousands of USD.
	// example: 8.3252
	MedInc *float64 `json:"MedInc" validate:"required" example:"8.3252"`
	// Median house age in the block group, in years.
	// example: 41
	HouseAge *float64 `json:"HouseAge" validate:"required" example:"41"`
	// Average number of rooms per household.
	// example: 6.984127
	AveRooms *float64 `json:"AveRooms" validate:"required" example:"6.984127"`
	// Average number of bedrooms per household.
	// example: 1.02381
	AveBedrms *float64 `json:"AveBedrms" validate:"required" example:"1.02381"`
	// Block group population.
	// example: 322
	Population *float64 `json:"Population" validate:"required" example:"322"`
	// Average number of household members.
	// example: 2.555556
	AveOccup *float64 `json:"AveOccup" validate:"required" example:"2.555556"`
	// Block group latitude.
	// example: 37.88
	Latitude *float64 `json:"Latitude" validate:"required" example:"37.88"`
	// Block group longitude.
	// example: -122.23
	Longitude *float64 `json:"Longitude" validate:"required" example:"-122.23"`

	nonNumeric []string
}

// UnmarshalJSON decodes a record without stopping at the first bad value.
// A field holding anything other than a number is left nil and reported by
// NonNumeric, so validation can list every offending field at once. Keys
// match case-insensitively, as with plain struct decoding.
func (h *HousingFeatures) UnmarshalJSON(b []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	*h = HousingFeatures{}
	slots := h.slots()
	for i, name := range FeatureNames {
		v, ok := lookup(raw, name)
		if !ok || bytes.Equal(bytes.TrimSpace(v), []byte("null")) {
			continue
		}
		var f float64
		if err := json.Unmarshal(v, &f); err != nil {
			h.nonNumeric = append(h.nonNumeric, name)
			continue
		}
		*slots[i] = &f
	}
	return nil
}

// lookup prefers an exact key and falls back to a case-insensitive match.
func lookup(raw map[string]json.RawMessage, name string) (json.RawMessage, bool) {
	if v, ok := raw[name]; ok {
		return v, true
	}
	for k, v := range raw {
		if strings.EqualFold(k, name) {
			return v, true
		}
	}
	return nil, false
}

// NonNumeric returns the JSON names of fields that were present but not
// numbers when the record was decoded.
func (h HousingFeatures) NonNumeric() []string {
	return append([]string(nil), h.nonNumeric...)
}

// NewHousingFeatures builds a fully populated record from a vector in
// FeatureNames order. It panics if len(v) != NumFeatures.
func NewHousingFeatures(v []float64) HousingFeatures {
	if len(v) != NumFeatures {
		panic("types: feature vector must have 8 elements")
	}
	c := append([]float64(nil), v...)
	return HousingFeatures{
		MedInc: &c[0], HouseAge: &c[1], AveRooms: &c[2], AveBedrms: &c[3],
		Population: &c[4], AveOccup: &c[5], Latitude: &c[6], Longitude: &c[7],
	}
}

// fields returns the field pointers in FeatureNames order.
func (h HousingFeatures) fields() [NumFeatures]*float64 {
	return [NumFeatures]*float64{
		h.MedInc, h.HouseAge, h.AveRooms, h.AveBedrms,
		h.Population, h.AveOccup, h.Latitude, h.Longitude,
	}
}

func (h *HousingFeatures) slots() [NumFeatures]**float64 {
	return [NumFeatures]**float64{
		&h.MedInc, &h.HouseAge, &h.AveRooms, &h.AveBedrms,
		&h.Population, &h.AveOccup, &h.Latitude, &h.Longitude,
	}
}

// Missing returns the JSON names of absent fields.
func (h HousingFeatures) Missing() []string {
	var out []string
	for i, p := range h.fields() {
		if p == nil {
			out = append(out, FeatureNames[i])
		}
	}
	return out
}

// Vector returns the features in FeatureNames order. Absent fields are zero;
// callers validate first.
func (h HousingFeatures) Vector() []float64 {
	v := make([]float64, NumFeatures)
	for i, p := range h.fields() {
		if p != nil {
			v[i] = *p
		}
	}
	return v
}
