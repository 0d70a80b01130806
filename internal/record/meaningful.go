package record

// Classifier decides whether a loaded draft represents real user work, as
// opposed to the empty scaffolding every new session starts from. A draft
// that is not meaningful is never offered for recovery and never blocks a
// fresh start.
type Classifier struct {
	locator *Locator
	// primaryFields are dotted paths to the scalar fields a technician fills
	// first; any one of them being non-empty makes the draft meaningful.
	primaryFields []string
}

// DefaultPrimaryFields are the scalars checked by the stock inspection
// schema. Both record shapes are listed: the nested vehicleInfo form the
// current forms produce, and the flat top-level form older drafts carry.
var DefaultPrimaryFields = []string{
	"vehicleInfo.vin",
	"vehicleInfo.mileage",
	"vehicleInfo.licensePlate",
	"vin",
	"mileage",
	"licensePlate",
	"notes",
}

func NewClassifier(locator *Locator, primaryFields []string) *Classifier {
	if primaryFields == nil {
		primaryFields = DefaultPrimaryFields
	}
	return &Classifier{locator: locator, primaryFields: primaryFields}
}

// IsMeaningful reports whether rec holds user work: a non-empty primary
// field, or any populated asset-bearing field anywhere in the tree. The
// asset scan shares the locator's key rules, so a single captured photo deep
// inside a checklist section counts.
func (c *Classifier) IsMeaningful(rec Record) bool {
	if len(rec) == 0 {
		return false
	}

	for _, path := range c.primaryFields {
		if v, ok := rec.Lookup(path); ok && !IsEmptyValue(v) {
			return true
		}
	}

	return c.hasPopulatedAsset(map[string]any(rec))
}

func (c *Classifier) hasPopulatedAsset(node any) bool {
	switch value := node.(type) {
	case Record:
		return c.hasPopulatedAsset(map[string]any(value))
	case map[string]any:
		for k, v := range value {
			if c.locator.IsAssetKey(k) && hasNonEmptyString(v) {
				return true
			}
			if c.hasPopulatedAsset(v) {
				return true
			}
		}
	case []any:
		for _, v := range value {
			if c.hasPopulatedAsset(v) {
				return true
			}
		}
	}
	return false
}

// hasNonEmptyString accepts either a single string value or an array of
// them, matching the singular/plural shapes asset fields come in.
func hasNonEmptyString(v any) bool {
	switch value := v.(type) {
	case string:
		return value != ""
	case []any:
		for _, e := range value {
			if s, ok := e.(string); ok && s != "" {
				return true
			}
		}
	}
	return false
}
