package converters

// Config is the opaque extra-configuration map threaded from the conversion
// entry point down to every converter body. Converters read only the keys
// they understand and tolerate absence; unknown keys pass through untouched.
type Config map[string]any

// Config keys converters understand.
const (
	// KeyNFeatures overrides the input feature count for models that do
	// not record it. The value must be an int.
	KeyNFeatures = "n_features"
)

// IntValue reads an integer key from the config, tolerating int and int64
// values. Returns ok=false when the key is absent or has a foreign type.
func (c Config) IntValue(key string) (int, bool) {
	v, ok := c[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	default:
		return 0, false
	}
}
