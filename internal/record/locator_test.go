package record

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	loc := DefaultLocator()

	tests := []struct {
		name      string
		value     any
		wantAsset bool
		wantKind  AssetKind
	}{
		{"local file", "file:///photos/a.jpg", true, KindLocalFile},
		{"content uri", "content://media/external/images/1", true, KindLocalFile},
		{"inline signature", "data:image/png;base64,iVBORw0KGgo=", true, KindInlineImage},
		{"https already durable", "https://cdn.example.com/a.jpg", false, KindRemote},
		{"s3 already durable", "s3://bucket/key", false, KindRemote},
		{"plain text", "15000", false, KindNone},
		{"empty string", "", false, KindNone},
		{"number", 3.7, false, KindNone},
		{"bool", true, false, KindNone},
		{"nil", nil, false, KindNone},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := loc.Classify("anyPath", tc.value)
			assert.Equal(t, tc.wantAsset, got.IsAsset)
			assert.Equal(t, tc.wantKind, got.Kind)
		})
	}
}

func TestClassify_IndependentOfPath(t *testing.T) {
	loc := DefaultLocator()

	a := loc.Classify("vehicleInfo_dashboardImageUris_0", "file:///a.jpg")
	b := loc.Classify("somewhere_else_entirely", "file:///a.jpg")
	assert.Equal(t, a, b)
}

func TestIsAssetKey(t *testing.T) {
	loc := DefaultLocator()

	tests := []struct {
		field string
		want  bool
	}{
		{"signature", true},
		{"Signature", true},
		{"signatures", true},
		{"dashboardImageUri", true},
		{"dashboardImageUris", true},
		{"exteriorPhotoUris", true},
		{"mileage", false},
		{"vin", false},
		{"imageCount", false},
	}

	for _, tc := range tests {
		t.Run(tc.field, func(t *testing.T) {
			assert.Equal(t, tc.want, loc.IsAssetKey(tc.field))
		})
	}
}
