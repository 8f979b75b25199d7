package viewstate

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/meur/gamelib/internal/models"
)

// Persisted keys, one per ViewState field
const (
	KeySearchQuery       = "searchQuery"
	KeySelectedPlatforms = "selectedPlatforms"
	KeySelectedFriends   = "selectedFriends"
	KeyViewMode          = "viewMode"
	KeyShowCompleted     = "showCompleted"
	KeyShowNotCompleted  = "showNotCompleted"
	KeyShowMasterpiece   = "showMasterpiece"
)

// KV persists string values by key for a single session
type KV interface {
	Load(ctx context.Context) (map[string]string, error)
	Save(ctx context.Context, values map[string]string) error
}

// MemoryKV is an in-process KV
type MemoryKV struct {
	mu     sync.Mutex
	values map[string]string
}

// NewMemoryKV creates an empty MemoryKV
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{values: map[string]string{}}
}

// Load returns a copy of the stored values
func (m *MemoryKV) Load(ctx context.Context) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.values))
	for k, v := range m.values {
		out[k] = v
	}
	return out, nil
}

// Save upserts values
func (m *MemoryKV) Save(ctx context.Context, values map[string]string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k, v := range values {
		m.values[k] = v
	}
	return nil
}

// Encode serialises every field of vs under its key
func Encode(vs models.ViewState) map[string]string {
	return map[string]string{
		KeySearchQuery:       vs.SearchQuery,
		KeySelectedPlatforms: encodeSet(vs.SelectedPlatforms),
		KeySelectedFriends:   encodeSet(vs.SelectedFriends),
		KeyViewMode:          string(vs.ViewMode),
		KeyShowCompleted:     encodeBool(vs.ShowCompleted),
		KeyShowNotCompleted:  encodeBool(vs.ShowNotCompleted),
		KeyShowMasterpiece:   encodeBool(vs.ShowMasterpiece),
	}
}

// Decode overlays the persisted values onto defaults. Missing or unparsable
// keys keep the default.
func Decode(values map[string]string, defaults models.ViewState) models.ViewState {
	vs := defaults.Clone()

	if v, ok := values[KeySearchQuery]; ok {
		vs.SearchQuery = v
	}
	if set, ok := decodeSet(values, KeySelectedPlatforms); ok {
		vs.SelectedPlatforms = set
	}
	if set, ok := decodeSet(values, KeySelectedFriends); ok {
		vs.SelectedFriends = set
	}
	if v, ok := values[KeyViewMode]; ok && models.ViewMode(v).Valid() {
		vs.ViewMode = models.ViewMode(v)
	}
	if b, ok := decodeBool(values, KeyShowCompleted); ok {
		vs.ShowCompleted = b
	}
	if b, ok := decodeBool(values, KeyShowNotCompleted); ok {
		vs.ShowNotCompleted = b
	}
	if b, ok := decodeBool(values, KeyShowMasterpiece); ok {
		vs.ShowMasterpiece = b
	}
	return vs
}

func encodeBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func decodeBool(values map[string]string, key string) (bool, bool) {
	switch values[key] {
	case "true":
		return true, true
	case "false":
		return false, true
	}
	return false, false
}

func encodeSet(set []string) string {
	if set == nil {
		set = []string{}
	}
	b, _ := json.Marshal(set)
	return string(b)
}

func decodeSet(values map[string]string, key string) ([]string, bool) {
	raw, ok := values[key]
	if !ok {
		return nil, false
	}
	var set []string
	if err := json.Unmarshal([]byte(raw), &set); err != nil || set == nil {
		return nil, false
	}
	return dedupe(set), true
}

func dedupe(set []string) []string {
	seen := make(map[string]struct{}, len(set))
	out := make([]string, 0, len(set))
	for _, s := range set {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
