package scorer

import (
	"context"
	"time"
)

const (
	PatternDictionary = "dictionary"
	PatternPwned      = "pwned"
	PatternSpatial    = "spatial"

	// DictionaryUserInputs is the dictionary name the base estimator uses
	// for context tokens
	DictionaryUserInputs = "user_inputs"

	MinScore = 0
	MaxScore = 4
)

// Result is the outcome of scoring a single password
type Result struct {
	Score            int           `json:"score"`
	Feedback         Feedback      `json:"feedback"`
	Guesses          float64       `json:"guesses"`
	GuessesLog10     float64       `json:"guessesLog10"`
	Entropy          float64       `json:"entropy"`
	CrackTimeDisplay string        `json:"crackTimeDisplay"`
	Sequence         []Match       `json:"sequence"`
	CalcTime         time.Duration `json:"calcTime"`
}

type Feedback struct {
	Warning     string   `json:"warning"`
	Suggestions []string `json:"suggestions"`
}

// Match is a span [I, J] of the password recognised by one of the matchers
type Match struct {
	Pattern        string  `json:"pattern"`
	I              int     `json:"i"`
	J              int     `json:"j"`
	Token          string  `json:"token"`
	DictionaryName string  `json:"dictionaryName,omitempty"`
	Rank           int     `json:"rank,omitempty"`
	Graph          string  `json:"graph,omitempty"`
	Entropy        float64 `json:"entropy,omitempty"`

	// Count is the number of times the password was seen in a breach,
	// only set on pwned matches
	Count int `json:"count,omitempty"`
}

func (m Match) length() int {
	return m.J - m.I + 1
}

// Matcher is an extension registered on Options that inspects the whole
// password, it may perform network calls and should honour `ctx`
type Matcher interface {
	Match(ctx context.Context, password string) ([]Match, error)
}

// MatcherFunc adapts a plain function to the Matcher interface
type MatcherFunc func(ctx context.Context, password string) ([]Match, error)

func (f MatcherFunc) Match(ctx context.Context, password string) ([]Match, error) {
	return f(ctx, password)
}

// MatcherFactory builds a Matcher against the options it will be
// registered on
type MatcherFactory func(options *Options) Matcher
