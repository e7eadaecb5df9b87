package feedback

import (
	"errors"
	"strings"

	"go.uber.org/zap"

	"dealradar-engine/internal/domain"
	"dealradar-engine/internal/events"
	"dealradar-engine/internal/metrics"
	"dealradar-engine/internal/rank"
	"dealradar-engine/internal/store"
)

// ErrEmptyTitle rejects votes that carry no trainable text.
var ErrEmptyTitle = errors.New("vote title is empty")

// Service turns a curator vote into training data: move the title between
// corpora, rebuild the model, annotate the ad and rescore everything. The
// steps after validation are best-effort sequential; persistence problems are
// logged by the stores and never abort the rest of the chain.
type Service struct {
	corpus     *rank.CorpusStore
	classifier *rank.Classifier
	store      *store.Store
	hub        *events.Hub
	log        *zap.Logger
}

func New(corpus *rank.CorpusStore, classifier *rank.Classifier, st *store.Store, hub *events.Hub, log *zap.Logger) *Service {
	return &Service{corpus: corpus, classifier: classifier, store: st, hub: hub, log: log}
}

// Vote applies one binary judgment. The id may already be evicted; the title
// is still worth training on, so only an empty title is an error.
func (s *Service) Vote(id int64, title string, vote domain.Vote) error {
	if strings.TrimSpace(title) == "" {
		return ErrEmptyTitle
	}

	label := rank.LabelNeg
	if vote == domain.VotePositive {
		label = rank.LabelPos
	}

	s.corpus.Move(title, label)
	s.classifier.Reload()

	if !s.store.ApplyVote(id, vote) {
		s.log.Debug("vote for unknown ad, corpus updated anyway", zap.Int64("id", id))
	}
	s.store.RescoreAll(s.classifier)
	s.store.Persist()

	metrics.VotesTotal.WithLabelValues(string(label)).Inc()
	s.hub.Publish(events.VoteApplied(id, vote))

	s.log.Info("vote applied", zap.Int64("id", id), zap.String("label", string(label)))
	return nil
}
