package store

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"dealradar-engine/internal/domain"
)

// Load reads the snapshot file into the store. A missing file starts the
// store empty; a malformed one is treated the same way instead of failing.
func (s *Store) Load() {
	b, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return
	}
	if err != nil {
		s.log.Warn("snapshot read failed, starting empty", zap.String("path", s.path), zap.Error(err))
		return
	}

	var ads []domain.Ad
	if err := json.Unmarshal(b, &ads); err != nil {
		s.log.Warn("snapshot malformed, starting empty", zap.String("path", s.path), zap.Error(err))
		return
	}

	ids := make(map[int64]struct{}, len(ads))
	for _, ad := range ads {
		ids[ad.ID] = struct{}{}
	}

	s.mu.Lock()
	s.ads = ads
	s.ids = ids
	s.mu.Unlock()

	s.log.Info("snapshot loaded", zap.Int("ads", len(ads)))
}

// Persist writes the full current set, pretty-printed. A write failure is
// logged and swallowed: RAM stays authoritative until the next attempt.
func (s *Store) Persist() {
	s.mu.RLock()
	ads := make([]domain.Ad, len(s.ads))
	copy(ads, s.ads)
	s.mu.RUnlock()

	b, err := json.MarshalIndent(ads, "", "  ")
	if err != nil {
		s.log.Error("snapshot marshal failed", zap.Error(err))
		return
	}
	if err := os.WriteFile(s.path, b, 0o644); err != nil {
		s.log.Error("snapshot write failed", zap.String("path", s.path), zap.Error(err))
	}
}
