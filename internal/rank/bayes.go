package rank

import (
	"math"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Scorer turns a listing title into a 0-100 relevance score.
type Scorer interface {
	Score(title string) int
}

// Label is a corpus membership: curator liked it, or curator did not.
type Label string

const (
	LabelPos Label = "pos"
	LabelNeg Label = "neg"
)

// Classifier is a two-class Naive Bayes model over listing titles. The model
// is never persisted; it is rebuilt wholesale from the corpus store, which
// keeps counts correct no matter how often titles move between labels.
type Classifier struct {
	mu         sync.RWMutex
	wordCounts map[Label]map[string]int
	totalDocs  map[Label]int
	vocab      map[string]struct{}

	corpus *CorpusStore
	log    *zap.Logger
}

func NewClassifier(corpus *CorpusStore, log *zap.Logger) *Classifier {
	c := &Classifier{corpus: corpus, log: log}
	c.reset()
	return c
}

func (c *Classifier) reset() {
	c.wordCounts = map[Label]map[string]int{
		LabelPos: {},
		LabelNeg: {},
	}
	c.totalDocs = map[Label]int{}
	c.vocab = map[string]struct{}{}
}

// tokenPattern strips everything outside lowercase letters (including the
// accented letters seen in marketplace titles), digits and whitespace.
var tokenPattern = regexp.MustCompile(`[^a-z0-9àâçéèêëîïôûùüÿñæœ\s]+`)

// Tokenize lowercases, strips punctuation and splits on whitespace, dropping
// tokens of length <= 2. Empty input yields no tokens.
func Tokenize(text string) []string {
	cleaned := tokenPattern.ReplaceAllString(strings.ToLower(text), "")
	fields := strings.Fields(cleaned)
	tokens := fields[:0]
	for _, w := range fields {
		if utf8.RuneCountInString(w) > 2 {
			tokens = append(tokens, w)
		}
	}
	return tokens
}

// Train folds one labeled title into the in-memory model. Corpus persistence
// is the caller's concern.
func (c *Classifier) Train(text string, label Label) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.train(text, label)
}

func (c *Classifier) train(text string, label Label) {
	tokens := Tokenize(text)
	c.totalDocs[label]++
	for _, tok := range tokens {
		c.vocab[tok] = struct{}{}
		c.wordCounts[label][tok]++
	}
}

// Predict returns the probability in [0,1] that the text belongs to the
// positive class. Degenerate input (no tokens, empty model) yields exactly
// 0.5: a neutral default, not an error.
func (c *Classifier) Predict(text string) float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	var scorePos, scoreNeg float64
	for _, tok := range Tokenize(text) {
		countPos := float64(c.wordCounts[LabelPos][tok] + 1)
		countNeg := float64(c.wordCounts[LabelNeg][tok] + 1)
		scorePos += math.Log(countPos / float64(c.totalDocs[LabelPos]+len(c.vocab)))
		scoreNeg += math.Log(countNeg / float64(c.totalDocs[LabelNeg]+len(c.vocab)))
	}

	res := math.Exp(scorePos) / (math.Exp(scorePos) + math.Exp(scoreNeg))
	if math.IsNaN(res) {
		return 0.5
	}
	return res
}

// Score implements Scorer: the predicted probability scaled to 0-100.
func (c *Classifier) Score(title string) int {
	return int(math.Round(c.Predict(title) * 100))
}

// Reload discards the model and retrains from every title in both corpora.
// A vote can move a title between labels, so incremental updates would have
// to decrement counts; replaying the small corpora is always correct.
func (c *Classifier) Reload() {
	pos, neg := c.corpus.Titles()

	c.mu.Lock()
	c.reset()
	for _, t := range pos {
		c.train(t, LabelPos)
	}
	for _, t := range neg {
		c.train(t, LabelNeg)
	}
	c.mu.Unlock()

	c.log.Info("classifier reloaded",
		zap.Int("positives", len(pos)),
		zap.Int("negatives", len(neg)),
	)
}
