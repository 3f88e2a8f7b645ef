package scorer

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/ccojocar/zxcvbn-go/match"
	"github.com/ccojocar/zxcvbn-go/scoring"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMessages = map[string]map[string]string{
	"warnings": {
		"pwned":        "breached",
		"topTen":       "top ten",
		"straightRow":  "straight row",
		"userInputs":   "personal data",
		"wordByItself": "single word",
	},
	"suggestions": {
		"anotherWord":           "add another word",
		"useWords":              "use words",
		"noNeed":                "no need for symbols",
		"pwned":                 "change it",
		"longerKeyboardPattern": "longer keyboard pattern",
		"capitalization":        "capitalize more",
	},
}

func newTestOptions(t *testing.T) *Options {
	translations, err := NewTranslations("en", testMessages)
	require.NoError(t, err)
	options := NewOptions()
	options.SetOptions(OptionsConfig{
		Dictionary: map[string][]string{
			"passwords":   {"hunter2", "letmein"},
			"commonWords": {"horse", "battery"},
		},
		Graphs: map[string]map[string][]string{
			"qwerty": {
				"q": {"", "1!", "2@", "wW", "aA", ""},
				"w": {"qQ", "2@", "3#", "eE", "sS", "aA"},
				"e": {"wW", "3#", "4$", "rR", "dD", "sS"},
				"r": {"eE", "4$", "5%", "tT", "fF", "dD"},
			},
		},
		Translations: translations,
	})
	return options
}

func fixedEstimator(score int) Estimator {
	return func(password string, userInputs []string) scoring.MinEntropyMatch {
		return scoring.MinEntropyMatch{
			Password:         password,
			Entropy:          40,
			Score:            score,
			CrackTimeDisplay: "centuries",
		}
	}
}

func newTestEngine(t *testing.T, score int) *Engine {
	engine := NewEngine(newTestOptions(t))
	engine.estimate = fixedEstimator(score)
	return engine
}

func TestEngineRequiresConfiguration(t *testing.T) {
	engine := NewEngine(NewOptions())
	_, err := engine.Score(context.Background(), "password", nil)
	assert.ErrorIs(t, err, ErrNotConfigured)
}

func TestEngineEmptyPassword(t *testing.T) {
	engine := newTestEngine(t, 4)
	result, err := engine.Score(context.Background(), "", []string{"alice"})
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.Empty(t, result.Feedback.Warning)
	assert.Equal(t, []string{"use words", "no need for symbols"}, result.Feedback.Suggestions)
}

func TestEngineStrongPasswordHasNoFeedback(t *testing.T) {
	engine := newTestEngine(t, 4)
	result, err := engine.Score(context.Background(), "z8#Lm!pq0vT", nil)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Score)
	assert.Empty(t, result.Feedback.Warning)
	assert.Empty(t, result.Feedback.Suggestions)
	assert.Equal(t, "centuries", result.CrackTimeDisplay)
	assert.InDelta(t, 1<<40, result.Guesses, 1)
}

func TestEngineCommonPasswordIsCapped(t *testing.T) {
	engine := newTestEngine(t, 4)
	result, err := engine.Score(context.Background(), "Hunter2", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, "top ten", result.Feedback.Warning)
	assert.Equal(t, []string{"add another word", "capitalize more"}, result.Feedback.Suggestions)
	require.Len(t, result.Sequence, 1)
	assert.Equal(t, PatternDictionary, result.Sequence[0].Pattern)
	assert.Equal(t, "Hunter2", result.Sequence[0].Token)
	assert.Equal(t, 1, result.Sequence[0].Rank)
}

func TestEnginePartialDictionaryMatchIsNotCapped(t *testing.T) {
	engine := newTestEngine(t, 4)
	result, err := engine.Score(context.Background(), "horse-staple-9!", nil)
	require.NoError(t, err)
	assert.Equal(t, 4, result.Score)
	require.Len(t, result.Sequence, 1)
	assert.Equal(t, "commonWords", result.Sequence[0].DictionaryName)
	assert.Equal(t, 0, result.Sequence[0].I)
	assert.Equal(t, 4, result.Sequence[0].J)
}

func TestEngineKeyboardWalkIsCapped(t *testing.T) {
	engine := newTestEngine(t, 3)
	result, err := engine.Score(context.Background(), "qwer", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, "straight row", result.Feedback.Warning)
	assert.Contains(t, result.Feedback.Suggestions, "longer keyboard pattern")
}

func TestEnginePwnedMatcherCapsScore(t *testing.T) {
	engine := newTestEngine(t, 4)
	engine.options.AddMatcher(MatcherPwned, MatcherFunc(func(ctx context.Context, password string) ([]Match, error) {
		return []Match{{Pattern: PatternPwned, I: 0, J: len(password) - 1, Token: password, Count: 3}}, nil
	}))
	result, err := engine.Score(context.Background(), "z8#Lm!pq0vT", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, result.Score)
	assert.Equal(t, "breached", result.Feedback.Warning)
	assert.Equal(t, []string{"change it"}, result.Feedback.Suggestions)
}

func TestEngineMatcherErrorPropagates(t *testing.T) {
	engine := newTestEngine(t, 4)
	lookupErr := errors.New("range api unavailable")
	engine.options.AddMatcher(MatcherPwned, MatcherFunc(func(ctx context.Context, password string) ([]Match, error) {
		return nil, lookupErr
	}))
	_, err := engine.Score(context.Background(), "z8#Lm!pq0vT", nil)
	assert.ErrorIs(t, err, lookupErr)
}

func TestEngineNormalisesUserInputs(t *testing.T) {
	engine := newTestEngine(t, 2)
	var received []string
	engine.estimate = func(password string, userInputs []string) scoring.MinEntropyMatch {
		received = userInputs
		return scoring.MinEntropyMatch{Score: 2}
	}
	_, err := engine.Score(context.Background(), "whatever", []string{"Alice", " ", "Bob@Example.com"})
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob@example.com"}, received)
}

func TestEngineWithBaseEstimator(t *testing.T) {
	engine := NewEngine(newTestOptions(t))

	weak, err := engine.Score(context.Background(), "letmein", nil)
	require.NoError(t, err)
	assert.Equal(t, 0, weak.Score)
	assert.NotEmpty(t, weak.Feedback.Warning)

	strong, err := engine.Score(context.Background(), "correct-staple-Quartz-7-violin", nil)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, strong.Score, 3)
}

func TestTranslationsFallBackToMessageId(t *testing.T) {
	translations, err := NewTranslations("en", testMessages)
	require.NoError(t, err)
	assert.Equal(t, "breached", translations.T("warnings.pwned"))
	assert.Equal(t, "warnings.unknown", translations.T("warnings.unknown"))

	var missing *Translations
	assert.Equal(t, "warnings.pwned", missing.T("warnings.pwned"))
}

func TestMergeDictionariesPrefersLaterEntries(t *testing.T) {
	merged := MergeDictionaries(
		map[string][]string{"passwords": {"a"}, "names": {"b"}},
		map[string][]string{"passwords": {"c"}},
	)
	assert.Equal(t, []string{"c"}, merged["passwords"])
	assert.Equal(t, []string{"b"}, merged["names"])
}

func TestEngineHighEntropyResultIsEncodable(t *testing.T) {
	engine := newTestEngine(t, 4)
	engine.estimate = func(password string, userInputs []string) scoring.MinEntropyMatch {
		return scoring.MinEntropyMatch{Password: password, Entropy: 1500, Score: 4}
	}
	result, err := engine.Score(context.Background(), "z8#Lm!pq0vT", nil)
	require.NoError(t, err)
	assert.False(t, math.IsInf(result.Guesses, 0))
	assert.Equal(t, math.MaxFloat64, result.Guesses)
	assert.InDelta(t, 1500*math.Log10(2), result.GuessesLog10, 1e-9)

	_, err = json.Marshal(result)
	assert.NoError(t, err)
}

func TestEngineLongPasswordWithBaseEstimator(t *testing.T) {
	engine := NewEngine(newTestOptions(t))
	password := strings.Repeat("aB3$xQ9!zK", 25)

	result, err := engine.Score(context.Background(), password, nil)
	require.NoError(t, err)
	assert.False(t, math.IsInf(result.Guesses, 0))
	output, err := json.Marshal(result)
	require.NoError(t, err)
	assert.NotEmpty(t, output)
}

func TestEngineConvertsByteSpansToRuneSpans(t *testing.T) {
	engine := newTestEngine(t, 1)
	// é is two bytes: runes start at bytes 0, 2, 4 and "password" at 6
	engine.estimate = func(password string, userInputs []string) scoring.MinEntropyMatch {
		return scoring.MinEntropyMatch{
			Password: password,
			Score:    1,
			MatchSequence: []match.Match{
				{Pattern: "bruteforce", I: 0, J: 2, Token: password[0:3]},
				{Pattern: "bruteforce", I: 3, J: 5, Token: password[3:6]},
				{Pattern: "dictionary", I: 6, J: 13, Token: password[6:14], DictionaryName: "passwords"},
				{Pattern: "date", I: 14, J: 17, Token: password[14:18]},
			},
		}
	}
	result, err := engine.Score(context.Background(), "ééépassword1990", nil)
	require.NoError(t, err)
	require.Len(t, result.Sequence, 4)

	expected := []Match{
		{Pattern: "bruteforce", I: 0, J: 1, Token: "éé"},
		{Pattern: "bruteforce", I: 2, J: 2, Token: "é"},
		{Pattern: "dictionary", I: 3, J: 10, Token: "password", DictionaryName: "passwords"},
		{Pattern: "date", I: 11, J: 14, Token: "1990"},
	}
	assert.Equal(t, expected, result.Sequence)
}

func TestEngineNonAsciiPasswordWithBaseEstimator(t *testing.T) {
	engine := NewEngine(newTestOptions(t))
	password := "ééépassword1990"
	runes := []rune(password)

	result, err := engine.Score(context.Background(), password, nil)
	require.NoError(t, err)
	require.NotEmpty(t, result.Sequence)
	for _, m := range result.Sequence {
		assert.True(t, utf8.ValidString(m.Token), "token %q is not valid utf-8", m.Token)
		require.GreaterOrEqual(t, m.I, 0)
		require.GreaterOrEqual(t, m.J, m.I)
		require.Less(t, m.J, len(runes))
		assert.Equal(t, string(runes[m.I:m.J+1]), m.Token)
	}
}
