package scorer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatchDictionariesKeepsLongestToken(t *testing.T) {
	dictionary := compileDictionary(map[string][]string{
		"commonWords": {"pass", "password", "word"},
	})
	matches := matchDictionaries(dictionary, "xPassword1")
	require.Len(t, matches, 1)
	assert.Equal(t, "Password", matches[0].Token)
	assert.Equal(t, 1, matches[0].I)
	assert.Equal(t, 8, matches[0].J)
	assert.Equal(t, 2, matches[0].Rank)
}

func TestMatchDictionariesIgnoresShortTokens(t *testing.T) {
	dictionary := compileDictionary(map[string][]string{"names": {"al", "bo"}})
	assert.Empty(t, matchDictionaries(dictionary, "albo"))
}

func TestMatchSpatialFindsRuns(t *testing.T) {
	graphs := compileGraphs(map[string]map[string][]string{
		"keypad": {
			"7": {"", "", "", "", "8", "5", "4", ""},
			"8": {"7", "", "", "", "9", "6", "5", "4"},
			"9": {"8", "", "", "", "+", "", "6", "5"},
			"6": {"5", "8", "9", "+", "", "3", "2", ""},
		},
	})
	matches := matchSpatial(graphs, "x7896y")
	require.Len(t, matches, 1)
	assert.Equal(t, "7896", matches[0].Token)
	assert.Equal(t, "keypad", matches[0].Graph)
	assert.Equal(t, 1, matches[0].I)
	assert.Equal(t, 4, matches[0].J)

	assert.Empty(t, matchSpatial(graphs, "789"))
}

func TestGetScoreCap(t *testing.T) {
	scoreCap, ok := getScoreCap(Match{Pattern: PatternPwned, Count: 10}, 8)
	assert.True(t, ok)
	assert.Equal(t, 0, scoreCap)

	_, ok = getScoreCap(Match{Pattern: PatternPwned, Count: 0}, 8)
	assert.False(t, ok)

	scoreCap, ok = getScoreCap(Match{Pattern: PatternDictionary, DictionaryName: "firstnames", I: 0, J: 4}, 5)
	assert.True(t, ok)
	assert.Equal(t, 1, scoreCap)

	_, ok = getScoreCap(Match{Pattern: PatternDictionary, DictionaryName: "firstnames", I: 0, J: 4}, 9)
	assert.False(t, ok)
}
