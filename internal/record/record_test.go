package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClone_DeepCopy(t *testing.T) {
	orig := Record{
		"vehicleInfo": map[string]any{
			"vin":               "5YJ3E1EA7KF000001",
			"dashboardImageUris": []any{"file:///a.jpg"},
		},
		"batteryCells": []any{
			map[string]any{"voltage": 3.7},
		},
	}

	clone := orig.Clone()
	require.Equal(t, orig, clone)

	clone["vehicleInfo"].(map[string]any)["vin"] = "changed"
	clone["batteryCells"].([]any)[0].(map[string]any)["voltage"] = 0.0

	assert.Equal(t, "5YJ3E1EA7KF000001", orig["vehicleInfo"].(map[string]any)["vin"])
	assert.Equal(t, 3.7, orig["batteryCells"].([]any)[0].(map[string]any)["voltage"])
}

func TestClone_Nil(t *testing.T) {
	var r Record
	assert.Nil(t, r.Clone())
}

func TestChildPath(t *testing.T) {
	assert.Equal(t, "photo", ChildPath("", "photo"))
	assert.Equal(t, "vehicleInfo_vin", ChildPath("vehicleInfo", "vin"))
}

func TestIndexPath(t *testing.T) {
	assert.Equal(t, "nested_0", IndexPath("nested", 0))
	assert.Equal(t, "vehicleInfo_dashboardImageUris_2", IndexPath("vehicleInfo_dashboardImageUris", 2))
}

func TestLookup(t *testing.T) {
	r := Record{
		"notes": "rattle over 60mph",
		"vehicleInfo": map[string]any{
			"mileage": "15000",
		},
	}

	v, ok := r.Lookup("vehicleInfo.mileage")
	require.True(t, ok)
	assert.Equal(t, "15000", v)

	v, ok = r.Lookup("notes")
	require.True(t, ok)
	assert.Equal(t, "rattle over 60mph", v)

	_, ok = r.Lookup("vehicleInfo.vin")
	assert.False(t, ok)

	_, ok = r.Lookup("notes.deeper")
	assert.False(t, ok)
}

func TestIsEmptyValue(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"string", "x", false},
		{"false", false, true},
		{"true", true, false},
		{"zero float", 0.0, true},
		{"float", 3.7, false},
		{"empty slice", []any{}, true},
		{"slice", []any{"a"}, false},
		{"empty map", map[string]any{}, true},
		{"map", map[string]any{"a": 1}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsEmptyValue(tc.v))
		})
	}
}
