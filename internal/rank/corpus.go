package rank

import (
	"encoding/json"
	"os"
	"sync"

	"go.uber.org/zap"
)

// CorpusStore owns the two labeled title lists and their JSON files. A title
// lives in at most one corpus; Move keeps that invariant before the model is
// next rebuilt. Write failures are logged and swallowed: the in-memory lists
// stay authoritative until the next successful write.
type CorpusStore struct {
	mu      sync.Mutex
	posPath string
	negPath string
	pos     []string
	neg     []string
	log     *zap.Logger
}

func NewCorpusStore(posPath, negPath string, log *zap.Logger) *CorpusStore {
	return &CorpusStore{posPath: posPath, negPath: negPath, log: log}
}

// Load reads both corpus files. A missing file is created empty; a malformed
// one is treated as empty rather than failing startup.
func (s *CorpusStore) Load() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pos = s.loadFile(s.posPath)
	s.neg = s.loadFile(s.negPath)
}

// Titles returns copies of both lists, positives first.
func (s *CorpusStore) Titles() (pos, neg []string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos = append([]string(nil), s.pos...)
	neg = append([]string(nil), s.neg...)
	return pos, neg
}

// Move puts title into the label's corpus and removes it from the opposite
// one, persisting whichever file changed.
func (s *CorpusStore) Move(title string, label Label) {
	s.mu.Lock()
	defer s.mu.Unlock()

	target, opposite := &s.pos, &s.neg
	targetPath, oppositePath := s.posPath, s.negPath
	if label == LabelNeg {
		target, opposite = &s.neg, &s.pos
		targetPath, oppositePath = s.negPath, s.posPath
	}

	if !contains(*target, title) {
		*target = append(*target, title)
		s.saveFile(targetPath, *target)
	}
	if contains(*opposite, title) {
		*opposite = remove(*opposite, title)
		s.saveFile(oppositePath, *opposite)
	}
}

func (s *CorpusStore) loadFile(path string) []string {
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		s.saveFile(path, []string{})
		return []string{}
	}
	if err != nil {
		s.log.Warn("corpus read failed, starting empty", zap.String("path", path), zap.Error(err))
		return []string{}
	}
	var titles []string
	if err := json.Unmarshal(b, &titles); err != nil {
		s.log.Warn("corpus file malformed, starting empty", zap.String("path", path), zap.Error(err))
		return []string{}
	}
	return titles
}

func (s *CorpusStore) saveFile(path string, titles []string) {
	b, err := json.MarshalIndent(titles, "", "  ")
	if err != nil {
		s.log.Error("corpus marshal failed", zap.String("path", path), zap.Error(err))
		return
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		s.log.Error("corpus write failed", zap.String("path", path), zap.Error(err))
	}
}

func contains(list []string, v string) bool {
	for _, t := range list {
		if t == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := list[:0]
	for _, t := range list {
		if t != v {
			out = append(out, t)
		}
	}
	return out
}
