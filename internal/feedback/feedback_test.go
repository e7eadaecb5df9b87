package feedback

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"dealradar-engine/internal/domain"
	"dealradar-engine/internal/events"
	"dealradar-engine/internal/geo"
	"dealradar-engine/internal/rank"
	"dealradar-engine/internal/store"
)

func newTestService(t *testing.T) (*Service, *rank.CorpusStore, *store.Store) {
	t.Helper()
	dir := t.TempDir()
	corpus := rank.NewCorpusStore(filepath.Join(dir, "positives.json"), filepath.Join(dir, "negatives.json"), zap.NewNop())
	corpus.Load()
	classifier := rank.NewClassifier(corpus, zap.NewNop())
	st := store.New(filepath.Join(dir, "ads.json"), 48.85, 2.35, zap.NewNop())
	return New(corpus, classifier, st, events.NewHub(), zap.NewNop()), corpus, st
}

func allAds(st *store.Store) []domain.Ad {
	return st.Query(store.Filter{MaxDistanceKm: geo.UnknownDistance})
}

func TestVoteRejectsEmptyTitle(t *testing.T) {
	s, corpus, st := newTestService(t)
	st.Ingest(domain.Ad{ID: 1, Title: "free tv"}, time.Now())

	err := s.Vote(1, "   ", domain.VotePositive)
	require.ErrorIs(t, err, ErrEmptyTitle)

	// Nothing moved, nothing annotated.
	pos, neg := corpus.Titles()
	assert.Empty(t, pos)
	assert.Empty(t, neg)
	assert.Equal(t, domain.VoteNone, allAds(st)[0].UserVote)
}

func TestVoteMovesTitleAndAnnotates(t *testing.T) {
	s, corpus, st := newTestService(t)
	st.Ingest(domain.Ad{ID: 1, Title: "Free Gift Card"}, time.Now())

	require.NoError(t, s.Vote(1, "Free Gift Card", domain.VotePositive))
	require.NoError(t, s.Vote(1, "Free Gift Card", domain.VoteNegative))

	pos, neg := corpus.Titles()
	assert.Empty(t, pos)
	assert.Equal(t, []string{"Free Gift Card"}, neg)
	assert.Equal(t, domain.VoteNegative, allAds(st)[0].UserVote)
}

func TestVoteRescoresStore(t *testing.T) {
	s, _, st := newTestService(t)
	now := time.Now()
	st.Ingest(domain.Ad{ID: 1, Title: "amazing free telly"}, now)
	st.Ingest(domain.Ad{ID: 2, Title: "rusty exhaust pipe"}, now)

	require.NoError(t, s.Vote(1, "amazing free telly", domain.VotePositive))
	require.NoError(t, s.Vote(2, "rusty exhaust pipe", domain.VoteNegative))

	ads := allAds(st)
	// Sorted by score descending: the liked title must rank first and no ad
	// may keep a stale neutral score.
	assert.Equal(t, int64(1), ads[0].ID)
	assert.Greater(t, ads[0].AIScore, 50)
	assert.Less(t, ads[1].AIScore, 50)
}

func TestVoteForEvictedAdStillTrains(t *testing.T) {
	s, corpus, _ := newTestService(t)

	require.NoError(t, s.Vote(404, "long gone listing", domain.VoteNegative))

	_, neg := corpus.Titles()
	assert.Equal(t, []string{"long gone listing"}, neg)
}
