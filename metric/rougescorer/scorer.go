// Package rougescorer scores batches of predictions against targets with ROUGE and averages the results.
package rougescorer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/skosovsky/recipebook"
	"github.com/skosovsky/recipebook/metric"
	"github.com/skosovsky/recipebook/rouge"
)

// ErrScoring is returned when a batch cannot be scored. No partial result accompanies it.
var ErrScoring = errors.New("rougescorer: unable to calculate rouge score")

const (
	// ID is the metric id of the scorer.
	ID = "rougescorer"
	// OpScore names scoring in recorded operations.
	OpScore = "score"

	resultKey  = "rouge"
	pairsKey   = "rouge-scores"
	avgPrefix  = "avg_"
	scorerName = "RougeScorer"
	scorerDesc = "RougeScorer returns the various rouge scores."
)

// DefaultKinds are the kinds scored when WithKinds is not given.
var DefaultKinds = []rouge.Kind{rouge.Rouge1, rouge.Rouge2, rouge.RougeLsum}

// OverlapFunc computes one pair score. rouge.Overlap is the default.
type OverlapFunc func(reference, hypothesis string, kind rouge.Kind) (rouge.Score, error)

var _ metric.Metric = (*Scorer)(nil)

// Scorer is stateless between calls and safe for concurrent use.
type Scorer struct {
	kinds    []rouge.Kind
	overlap  OverlapFunc
	logger   *slog.Logger
	recorder recipebook.Recorder
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithKinds replaces the scored kinds. An empty list is ignored.
func WithKinds(kinds ...rouge.Kind) Option {
	return func(s *Scorer) {
		if len(kinds) > 0 {
			s.kinds = append([]rouge.Kind(nil), kinds...)
		}
	}
}

// WithOverlap replaces the pair scoring function.
func WithOverlap(fn OverlapFunc) Option {
	return func(s *Scorer) {
		if fn != nil {
			s.overlap = fn
		}
	}
}

// WithLogger sets the logger for failure diagnostics and timings.
func WithLogger(l *slog.Logger) Option {
	return func(s *Scorer) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRecorder sets the recorder that observes each Score call.
func WithRecorder(rec recipebook.Recorder) Option {
	return func(s *Scorer) {
		if rec != nil {
			s.recorder = rec
		}
	}
}

// New creates a Scorer.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		kinds:    DefaultKinds,
		overlap:  rouge.Overlap,
		logger:   slog.New(slog.DiscardHandler),
		recorder: recipebook.NopRecorder(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Metadata returns the scorer's id, name and description.
func (s *Scorer) Metadata() metric.Metadata {
	return metric.Metadata{ID: ID, Name: scorerName, Description: scorerDesc}
}

// Kinds returns the scored kinds in output order.
func (s *Scorer) Kinds() []rouge.Kind {
	return append([]rouge.Kind(nil), s.kinds...)
}

// Batch is the outcome of scoring a batch. Pairs[i] holds the scores of the i-th (target, prediction) pair.
type Batch struct {
	Kinds    []rouge.Kind
	Pairs    []map[rouge.Kind]rouge.Score
	Averages map[rouge.Kind]rouge.Score
}

// Result renders the batch as
//
//	{"rouge": {"rouge-scores": [{"rouge1": {"r","p","f"}, ...}, ...], "avg_rouge1": {"r","p","f"}, ...}}
func (b *Batch) Result() map[string]any {
	pairs := make([]map[string]rouge.Score, len(b.Pairs))
	for i, p := range b.Pairs {
		m := make(map[string]rouge.Score, len(p))
		for k, sc := range p {
			m[string(k)] = sc
		}
		pairs[i] = m
	}
	inner := map[string]any{pairsKey: pairs}
	for _, k := range b.Kinds {
		inner[avgPrefix+string(k)] = b.Averages[k]
	}
	return map[string]any{resultKey: inner}
}

// Score scores predictions[i] against targets[i] for every configured kind and averages each
// component per kind over the batch. The inputs are validated before any pair is scored.
func (s *Scorer) Score(ctx context.Context, targets, predictions []string) (*Batch, error) {
	start := time.Now()
	b, err := s.score(ctx, targets, predictions)
	elapsed := time.Since(start)
	s.recorder.ObserveOperation(OpScore, elapsed, err)
	if err != nil {
		s.logger.ErrorContext(ctx, "rouge scoring failed", "pairs", len(targets), "err", err)
		return nil, err
	}
	s.logger.DebugContext(ctx, "rouge scoring completed", "pairs", len(targets), "duration", elapsed)
	return b, nil
}

func (s *Scorer) score(ctx context.Context, targets, predictions []string) (*Batch, error) {
	if len(targets) != len(predictions) {
		return nil, fmt.Errorf("%w: %d targets but %d predictions", ErrScoring, len(targets), len(predictions))
	}
	if len(targets) == 0 {
		return nil, fmt.Errorf("%w: empty batch", ErrScoring)
	}
	for _, k := range s.kinds {
		if !k.Valid() {
			return nil, fmt.Errorf("%w: %w: %q", ErrScoring, rouge.ErrUnknownKind, k)
		}
	}

	b := &Batch{
		Kinds:    s.Kinds(),
		Pairs:    make([]map[rouge.Kind]rouge.Score, 0, len(targets)),
		Averages: make(map[rouge.Kind]rouge.Score, len(s.kinds)),
	}
	recall := make(map[rouge.Kind]stats.Float64Data, len(s.kinds))
	precision := make(map[rouge.Kind]stats.Float64Data, len(s.kinds))
	fmeasure := make(map[rouge.Kind]stats.Float64Data, len(s.kinds))
	for i, target := range targets {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScoring, err)
		}
		pair := make(map[rouge.Kind]rouge.Score, len(s.kinds))
		for _, k := range s.kinds {
			sc, err := s.overlap(target, predictions[i], k)
			if err != nil {
				return nil, fmt.Errorf("%w: pair %d: %w", ErrScoring, i, err)
			}
			pair[k] = sc
			recall[k] = append(recall[k], sc.Recall)
			precision[k] = append(precision[k], sc.Precision)
			fmeasure[k] = append(fmeasure[k], sc.FMeasure)
		}
		b.Pairs = append(b.Pairs, pair)
	}
	for _, k := range s.kinds {
		r, err := stats.Mean(recall[k])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScoring, err)
		}
		p, err := stats.Mean(precision[k])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScoring, err)
		}
		f, err := stats.Mean(fmeasure[k])
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScoring, err)
		}
		b.Averages[k] = rouge.Score{Recall: r, Precision: p, FMeasure: f}
	}
	return b, nil
}

// Results implements metric.Metric. prompts are not used by ROUGE.
func (s *Scorer) Results(ctx context.Context, _ []string, predictions, targets []string) (map[string]any, error) {
	b, err := s.Score(ctx, targets, predictions)
	if err != nil {
		return nil, err
	}
	return b.Result(), nil
}
