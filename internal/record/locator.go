package record

import "strings"

// AssetKind classifies a string value found in the record tree.
type AssetKind int

const (
	// KindNone marks a value that is not an asset reference at all.
	KindNone AssetKind = iota
	// KindLocalFile marks a device-resident file reference (file:// etc.).
	KindLocalFile
	// KindInlineImage marks an inline-encoded image, e.g. a signature
	// captured as a data: URI.
	KindInlineImage
	// KindRemote marks a reference that is already durable. Remote values
	// are never re-uploaded, which is what makes materialization idempotent.
	KindRemote
)

// Classification is the result of Locator.Classify for one tree position.
type Classification struct {
	// IsAsset is true when the value must be uploaded before submission.
	IsAsset bool
	Kind    AssetKind
}

// Locator decides whether a value at a given tree position is a
// locally-resident asset reference. The rules are data, not code: schemes,
// prefixes, and asset-bearing field names are plain slices so the inspection
// schema can extend them without touching the traversal.
type Locator struct {
	// LocalSchemes are URI schemes that identify device-local files.
	LocalSchemes []string
	// InlinePrefixes identify inline-encoded image payloads.
	InlinePrefixes []string
	// RemoteSchemes identify references that are already durable.
	RemoteSchemes []string
	// AssetKeys are field names that always carry assets (exact match,
	// case-insensitive, singular or plural).
	AssetKeys []string
	// AssetKeySuffixes match field names by suffix, so vehicleInfo can hold
	// dashboardImageUris next to odometerImageUri without listing each.
	AssetKeySuffixes []string
}

// DefaultLocator returns the locator for the stock inspection schema.
func DefaultLocator() *Locator {
	return &Locator{
		LocalSchemes:     []string{"file://", "content://"},
		InlinePrefixes:   []string{"data:image/"},
		RemoteSchemes:    []string{"http://", "https://", "s3://"},
		AssetKeys:        []string{"signature", "signatureuri"},
		AssetKeySuffixes: []string{"imageuri", "imageuris", "photouri", "photouris"},
	}
}

// Classify decides whether the value at path is a locally-resident asset.
// Only strings can be assets; already-remote strings are recognized but not
// flagged for upload. The path argument exists for rule sets that key off
// position rather than content; the default rules do not use it.
func (l *Locator) Classify(path string, v any) Classification {
	s, ok := v.(string)
	if !ok || s == "" {
		return Classification{}
	}

	for _, p := range l.InlinePrefixes {
		if strings.HasPrefix(s, p) {
			return Classification{IsAsset: true, Kind: KindInlineImage}
		}
	}
	for _, scheme := range l.LocalSchemes {
		if strings.HasPrefix(s, scheme) {
			return Classification{IsAsset: true, Kind: KindLocalFile}
		}
	}
	for _, scheme := range l.RemoteSchemes {
		if strings.HasPrefix(s, scheme) {
			return Classification{Kind: KindRemote}
		}
	}
	return Classification{}
}

// IsAssetKey reports whether a field name is asset-bearing under the
// configured rules. Comparison is case-insensitive and tolerates a trailing
// plural "s" on exact-match keys.
func (l *Locator) IsAssetKey(field string) bool {
	name := strings.ToLower(field)
	singular := strings.TrimSuffix(name, "s")

	for _, k := range l.AssetKeys {
		if name == k || singular == k {
			return true
		}
	}
	for _, suffix := range l.AssetKeySuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return false
}
