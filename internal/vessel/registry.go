package vessel

import (
	"encoding/json"
	"fmt"
	"os"
	"sync/atomic"

	"github.com/yhseo-kgs/chatbot-proxy/internal/domain"
)

type snapshot struct {
	vessels []Vessel
	byCode  map[string]int
}

// Registry holds an immutable snapshot of the vessel list. Reload swaps the
// snapshot atomically; readers never block.
type Registry struct {
	path string
	snap atomic.Pointer[snapshot]
}

// NewRegistry creates an empty registry backed by path.
func NewRegistry(path string) *Registry {
	r := &Registry{path: path}
	r.snap.Store(&snapshot{byCode: map[string]int{}})
	return r
}

// Load creates a registry and reads path once.
func Load(path string) (*Registry, error) {
	r := NewRegistry(path)
	if err := r.Reload(); err != nil {
		return nil, err
	}
	return r, nil
}

// Path returns the backing file.
func (r *Registry) Path() string { return r.path }

// Reload re-reads the backing file. On failure the previous snapshot stays.
func (r *Registry) Reload() error {
	data, err := os.ReadFile(r.path)
	if err != nil {
		return domain.LoadError("read vessel data", err)
	}
	vessels, err := Parse(data)
	if err != nil {
		return err
	}
	r.Replace(vessels)
	return nil
}

// Parse decodes a JSON array of vessels.
func Parse(data []byte) ([]Vessel, error) {
	var vessels []Vessel
	if err := json.Unmarshal(data, &vessels); err != nil {
		return nil, domain.LoadError("parse vessel data", err)
	}
	return vessels, nil
}

// Replace installs vessels as the current snapshot. Codes and management
// numbers are both indexed; the first vessel claiming a key wins.
func (r *Registry) Replace(vessels []Vessel) {
	s := &snapshot{
		vessels: vessels,
		byCode:  make(map[string]int, len(vessels)*2),
	}
	for i, v := range vessels {
		for _, key := range []string{NormalizeCode(v.Code), NormalizeCode(v.MgmtNo)} {
			if key == "" {
				continue
			}
			if _, taken := s.byCode[key]; !taken {
				s.byCode[key] = i
			}
		}
	}
	r.snap.Store(s)
}

// Lookup finds a vessel by QR code or management number, ignoring case,
// hyphens and whitespace.
func (r *Registry) Lookup(code string) (Vessel, bool) {
	key := NormalizeCode(code)
	if key == "" {
		return Vessel{}, false
	}
	s := r.snap.Load()
	i, ok := s.byCode[key]
	if !ok {
		return Vessel{}, false
	}
	return s.vessels[i], true
}

// Len returns the number of vessels in the current snapshot.
func (r *Registry) Len() int {
	return len(r.snap.Load().vessels)
}

func (r *Registry) String() string {
	return fmt.Sprintf("vessel.Registry(%s, %d vessels)", r.path, r.Len())
}
