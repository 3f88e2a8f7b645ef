package scorer

import (
	"sort"
	"strings"
)

const (
	minDictionaryTokenLength = 3
	maxDictionaryTokenLength = 32
)

// compiledDictionary maps a dictionary name to lower-cased word to
// 1-based rank
type compiledDictionary map[string]map[string]int

func compileDictionary(raw map[string][]string) compiledDictionary {
	compiled := compiledDictionary{}
	for name, words := range raw {
		ranked := make(map[string]int, len(words))
		for i, word := range words {
			word = strings.ToLower(strings.TrimSpace(word))
			if word == "" {
				continue
			}
			if _, ok := ranked[word]; !ok {
				ranked[word] = i + 1
			}
		}
		compiled[name] = ranked
	}
	return compiled
}

// matchDictionaries returns every token of the password found in one of
// the dictionaries, tokens contained in a longer match of the same
// dictionary are dropped
func matchDictionaries(dictionary compiledDictionary, password string) []Match {
	runes := []rune(password)
	lowered := []rune(strings.ToLower(password))
	if len(lowered) != len(runes) {
		lowered = runes
	}
	names := make([]string, 0, len(dictionary))
	for name := range dictionary {
		names = append(names, name)
	}
	sort.Strings(names)

	matches := []Match{}
	for _, name := range names {
		words := dictionary[name]
		found := []Match{}
		for i := 0; i < len(lowered); i++ {
			for j := i + minDictionaryTokenLength - 1; j < len(lowered) && j-i < maxDictionaryTokenLength; j++ {
				rank, ok := words[string(lowered[i:j+1])]
				if !ok {
					continue
				}
				found = append(found, Match{
					Pattern:        PatternDictionary,
					I:              i,
					J:              j,
					Token:          string(runes[i : j+1]),
					DictionaryName: name,
					Rank:           rank,
				})
			}
		}
		matches = append(matches, keepMaximal(found)...)
	}
	return matches
}

func keepMaximal(matches []Match) []Match {
	maximal := []Match{}
	for i, candidate := range matches {
		isContained := false
		for j, other := range matches {
			if i == j {
				continue
			}
			if other.I <= candidate.I && other.J >= candidate.J && other.length() > candidate.length() {
				isContained = true
				break
			}
		}
		if !isContained {
			maximal = append(maximal, candidate)
		}
	}
	return maximal
}
