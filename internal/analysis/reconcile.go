package analysis

import (
	"net/url"
	"sort"
	"strings"
)

// Tier identifies which matching strategy resolved a display row. Tiers are
// tried in order and the first match wins; there is no backtracking.
type Tier int

const (
	TierUnresolved Tier = iota
	TierExact
	TierBasename
	TierSubstring
)

func (t Tier) String() string {
	switch t {
	case TierExact:
		return "exact"
	case TierBasename:
		return "basename"
	case TierSubstring:
		return "substring"
	default:
		return "unresolved"
	}
}

// Resolution joins a display row's identifier to a classification result.
// Result is nil exactly when Tier is TierUnresolved; renderers show the
// unresolved marker for those rows rather than zero.
type Resolution struct {
	DisplayKey string
	Tier       Tier
	Result     *FileResult
}

// Resolved reports whether a classification result was found.
func (r Resolution) Resolved() bool {
	return r.Result != nil
}

// Reconciler matches display-row identifiers against the keys used during
// classification. Display identifiers may be absolute paths, bare filenames,
// URL-encoded forms, or partial overlaps of the analysis keys; the matching
// strategy is a ranked list of pure matchers so every consumption site joins
// the same way.
type Reconciler struct {
	byKey      map[string]*FileResult
	byBasename map[string]*FileResult
	// keysByLength orders analysis keys longest first so the substring tier
	// is deterministic when keys contain each other.
	keysByLength []string
}

// NewReconciler indexes per-file results for resolution. When two keys share
// a basename the first result keeps the basename slot.
func NewReconciler(results []FileResult) *Reconciler {
	r := &Reconciler{
		byKey:      make(map[string]*FileResult, len(results)),
		byBasename: make(map[string]*FileResult, len(results)),
	}
	for i := range results {
		fr := &results[i]
		if _, dup := r.byKey[fr.SourceKey]; !dup {
			r.byKey[fr.SourceKey] = fr
			r.keysByLength = append(r.keysByLength, fr.SourceKey)
		}
		base := baseName(fr.SourceKey)
		if _, dup := r.byBasename[base]; !dup {
			r.byBasename[base] = fr
		}
	}
	sort.SliceStable(r.keysByLength, func(i, j int) bool {
		a, b := r.keysByLength[i], r.keysByLength[j]
		if len(a) != len(b) {
			return len(a) > len(b)
		}
		return a < b
	})
	return r
}

// Resolve matches one display identifier. Tier order: exact key, basename,
// then substring containment in either direction scanned longest key first.
// Unmatched rows get the explicit unresolved marker.
func (r *Reconciler) Resolve(displayKey string) Resolution {
	for _, key := range candidateForms(displayKey) {
		if fr, ok := r.byKey[key]; ok {
			return Resolution{DisplayKey: displayKey, Tier: TierExact, Result: fr}
		}
	}

	for _, key := range candidateForms(displayKey) {
		if fr, ok := r.byBasename[baseName(key)]; ok {
			return Resolution{DisplayKey: displayKey, Tier: TierBasename, Result: fr}
		}
	}

	for _, key := range r.keysByLength {
		if strings.Contains(displayKey, key) || strings.Contains(key, displayKey) {
			return Resolution{DisplayKey: displayKey, Tier: TierSubstring, Result: r.byKey[key]}
		}
	}

	return Resolution{DisplayKey: displayKey, Tier: TierUnresolved}
}

// ResolveAll resolves a batch of display identifiers, one resolution per
// input in order.
func (r *Reconciler) ResolveAll(displayKeys []string) []Resolution {
	out := make([]Resolution, len(displayKeys))
	for i, key := range displayKeys {
		out[i] = r.Resolve(key)
	}
	return out
}

// candidateForms returns the identifier forms tried at each tier: the raw key
// and, when it differs, its URL-decoded form.
func candidateForms(key string) []string {
	if decoded, err := url.PathUnescape(key); err == nil && decoded != key {
		return []string{key, decoded}
	}
	return []string{key}
}

// baseName returns the final path segment of an identifier, treating both
// slash styles as separators since display rows may carry paths from either
// convention.
func baseName(key string) string {
	if i := strings.LastIndexAny(key, `/\`); i >= 0 {
		return key[i+1:]
	}
	return key
}
