package scorer

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/ccojocar/zxcvbn-go"
	"github.com/ccojocar/zxcvbn-go/scoring"
)

// Estimator is the base strength estimator the Engine refines
type Estimator func(password string, userInputs []string) scoring.MinEntropyMatch

func zxcvbnEstimator(password string, userInputs []string) scoring.MinEntropyMatch {
	return zxcvbn.PasswordStrength(password, userInputs)
}

// Engine scores passwords against an Options configuration
type Engine struct {
	estimate Estimator
	options  *Options
}

func NewEngine(options *Options) *Engine {
	return &Engine{
		estimate: zxcvbnEstimator,
		options:  options,
	}
}

// Score estimates the strength of `password`. Values in `userInputs` are
// treated as known to an attacker (e.g. the user's name and email) and
// penalised when they appear in the password
func (e *Engine) Score(ctx context.Context, password string, userInputs []string) (*Result, error) {
	if !e.options.IsConfigured() {
		return nil, ErrNotConfigured
	}
	start := time.Now()
	options := e.options.snapshot()

	result := &Result{Sequence: []Match{}}
	if password == "" {
		result.Feedback = getDefaultFeedback(options.translations)
		result.CalcTime = time.Since(start)
		return result, nil
	}

	base := e.estimate(password, normaliseUserInputs(userInputs))
	result.Score = clampScore(base.Score)
	result.Entropy = base.Entropy
	// saturates instead of overflowing to +Inf, which json cannot encode
	result.Guesses = math.Min(math.Pow(2, base.Entropy), math.MaxFloat64)
	result.GuessesLog10 = base.Entropy * math.Log10(2)
	result.CrackTimeDisplay = base.CrackTimeDisplay
	runes := []rune(password)
	runeStarts := getRuneStarts(password)
	for _, match := range base.MatchSequence {
		i, j, ok := toRuneSpan(runeStarts, match.I, match.J)
		if !ok {
			continue
		}
		result.Sequence = append(result.Sequence, Match{
			Pattern:        match.Pattern,
			I:              i,
			J:              j,
			Token:          string(runes[i : j+1]),
			DictionaryName: match.DictionaryName,
			Entropy:        match.Entropy,
		})
	}

	passwordLength := len(runes)
	extras := matchDictionaries(options.dictionary, password)
	extras = append(extras, matchSpatial(options.graphs, password)...)
	for _, named := range options.matchers {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		matches, err := named.matcher.Match(ctx, password)
		if err != nil {
			return nil, fmt.Errorf("failed to run matcher[%s]: %w", named.name, err)
		}
		extras = append(extras, matches...)
	}
	for _, match := range extras {
		if scoreCap, ok := getScoreCap(match, passwordLength); ok && scoreCap < result.Score {
			result.Score = scoreCap
		}
	}
	result.Sequence = append(result.Sequence, extras...)
	result.Feedback = getFeedback(options.translations, result.Score, result.Sequence)
	result.CalcTime = time.Since(start)
	return result, nil
}

// getRuneStarts returns the byte offset at which each rune of `password`
// begins
func getRuneStarts(password string) []int {
	starts := make([]int, 0, len(password))
	for offset := 0; offset < len(password); {
		_, size := utf8.DecodeRuneInString(password[offset:])
		starts = append(starts, offset)
		offset += size
	}
	return starts
}

// toRuneSpan converts the inclusive byte span [i, j] reported by the base
// estimator into a rune span. A span starting inside a multi-byte rune
// begins at the next rune so neighbouring spans never overlap; spans that
// cover no complete rune start are dropped
func toRuneSpan(runeStarts []int, i, j int) (int, int, bool) {
	if i < 0 || j < i {
		return 0, 0, false
	}
	runeI := sort.SearchInts(runeStarts, i)
	runeJ := sort.SearchInts(runeStarts, j+1) - 1
	if runeI > runeJ || runeI >= len(runeStarts) {
		return 0, 0, false
	}
	return runeI, runeJ, true
}

// getScoreCap returns the maximum score a password containing `match`
// may receive
func getScoreCap(match Match, passwordLength int) (int, bool) {
	if match.Pattern == PatternPwned {
		if match.Count > 0 {
			return MinScore, true
		}
		return 0, false
	}
	isFullCover := match.I == 0 && match.J == passwordLength-1
	if !isFullCover {
		return 0, false
	}
	switch match.Pattern {
	case PatternDictionary:
		if strings.Contains(strings.ToLower(match.DictionaryName), "password") {
			return MinScore, true
		}
		return 1, true
	case PatternSpatial:
		return 1, true
	}
	return 0, false
}

func normaliseUserInputs(userInputs []string) []string {
	normalised := []string{}
	for _, input := range userInputs {
		input = strings.ToLower(strings.TrimSpace(input))
		if input == "" {
			continue
		}
		normalised = append(normalised, input)
	}
	return normalised
}

func clampScore(score int) int {
	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}
