// Package rouge computes ROUGE overlap scores between a reference text and a hypothesis.
//
// Supported kinds are rouge1 … rouge9 (n-gram overlap), rougeL (longest common
// subsequence over the whole text) and rougeLsum (summary-level LCS over
// newline-separated sentences). Scores are case-insensitive and ignore punctuation.
package rouge

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Sentinel errors. Callers should use errors.Is to check.
var (
	// ErrUnknownKind indicates a kind other than rougeN, rougeL or rougeLsum.
	ErrUnknownKind = errors.New("rouge: unknown kind")
	// ErrInvalidText indicates an input that is not valid UTF-8.
	ErrInvalidText = errors.New("rouge: text is not valid UTF-8")
)

// Kind names a ROUGE variant.
type Kind string

// Common kinds.
const (
	Rouge1    Kind = "rouge1"
	Rouge2    Kind = "rouge2"
	RougeL    Kind = "rougeL"
	RougeLsum Kind = "rougeLsum"
)

// Score is a recall/precision/F1 triple. JSON keys follow the short r/p/f form.
type Score struct {
	Recall    float64 `json:"r" yaml:"r"`
	Precision float64 `json:"p" yaml:"p"`
	FMeasure  float64 `json:"f" yaml:"f"`
}

// Overlap scores hypothesis against reference for the given kind.
func Overlap(reference, hypothesis string, kind Kind) (Score, error) {
	if !utf8.ValidString(reference) || !utf8.ValidString(hypothesis) {
		return Score{}, ErrInvalidText
	}
	switch kind {
	case RougeL:
		return lcsScore(Tokenize(reference), Tokenize(hypothesis)), nil
	case RougeLsum:
		return summaryLCSScore(sentences(reference), sentences(hypothesis)), nil
	}
	n, err := ngramOrder(kind)
	if err != nil {
		return Score{}, err
	}
	return ngramScore(Tokenize(reference), Tokenize(hypothesis), n), nil
}

// Valid reports whether k is a supported kind.
func (k Kind) Valid() bool {
	if k == RougeL || k == RougeLsum {
		return true
	}
	_, err := ngramOrder(k)
	return err == nil
}

func ngramOrder(k Kind) (int, error) {
	rest, ok := strings.CutPrefix(string(k), "rouge")
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	n, err := strconv.Atoi(rest)
	if err != nil || n < 1 || n > 9 {
		return 0, fmt.Errorf("%w: %q", ErrUnknownKind, k)
	}
	return n, nil
}

func fmeasure(precision, recall float64) float64 {
	if precision+recall == 0 {
		return 0
	}
	return 2 * precision * recall / (precision + recall)
}
