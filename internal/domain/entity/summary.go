package entity

// DetailLevel selects one of the fixed summary verbosity presets.
type DetailLevel string

const (
	DetailShort    DetailLevel = "short"
	DetailNormal   DetailLevel = "normal"
	DetailDetailed DetailLevel = "detailed"
)

// Valid reports whether the level is one of the known presets.
func (l DetailLevel) Valid() bool {
	switch l {
	case DetailShort, DetailNormal, DetailDetailed:
		return true
	}
	return false
}

// CacheEntry is a previously computed summary, keyed by the SHA-256 of
// the source text plus the detail level. The model name is stored for
// reference but is not part of the key.
type CacheEntry struct {
	Hash        string      `json:"hash"`
	DetailLevel DetailLevel `json:"detail_level"`
	Model       string      `json:"model"`
	Summary     string      `json:"summary"`
}
