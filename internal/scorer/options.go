package scorer

import (
	"sort"
	"sync"

	"golang.org/x/sync/singleflight"
)

// DefaultOptions is the process-wide scorer configuration
var DefaultOptions = NewOptions()

type OptionsConfig struct {
	// Dictionary maps a dictionary name to its words ordered by
	// frequency, most common first
	Dictionary map[string][]string

	// Graphs maps a keyboard layout name to its adjacency graph: each key
	// maps to its neighbours, each neighbour being the unshifted and
	// shifted characters of that key
	Graphs map[string]map[string][]string

	Translations *Translations
}

// Options holds the configuration shared by every Engine built on it
type Options struct {
	dictionary   compiledDictionary
	graphs       compiledGraphs
	translations *Translations
	matchers     map[string]Matcher
	isConfigured bool

	// configureGroup is shared by every Loader writing to these options
	configureGroup singleflight.Group
	mutex          sync.RWMutex
}

func NewOptions() *Options {
	return &Options{
		dictionary: compiledDictionary{},
		graphs:     compiledGraphs{},
		matchers:   map[string]Matcher{},
	}
}

// SetOptions replaces the dictionary, graphs and translations; matchers
// registered with AddMatcher are kept
func (o *Options) SetOptions(config OptionsConfig) {
	dictionary := compileDictionary(config.Dictionary)
	graphs := compileGraphs(config.Graphs)
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.dictionary = dictionary
	o.graphs = graphs
	o.translations = config.Translations
	o.isConfigured = true
}

func (o *Options) AddMatcher(name string, matcher Matcher) {
	o.mutex.Lock()
	defer o.mutex.Unlock()
	o.matchers[name] = matcher
}

func (o *Options) HasMatcher(name string) bool {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	_, ok := o.matchers[name]
	return ok
}

func (o *Options) IsConfigured() bool {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.isConfigured
}

// GetDictionaryNames returns the sorted names of the loaded dictionaries
func (o *Options) GetDictionaryNames() []string {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	names := make([]string, 0, len(o.dictionary))
	for name := range o.dictionary {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetRank returns the 1-based frequency rank of `word` in dictionary
// `name`, or 0 when the word is absent
func (o *Options) GetRank(name, word string) int {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.dictionary[name][word]
}

func (o *Options) GetTranslations() *Translations {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	return o.translations
}

type namedMatcher struct {
	name    string
	matcher Matcher
}

type optionsSnapshot struct {
	dictionary   compiledDictionary
	graphs       compiledGraphs
	translations *Translations
	matchers     []namedMatcher
}

func (o *Options) snapshot() optionsSnapshot {
	o.mutex.RLock()
	defer o.mutex.RUnlock()
	matchers := make([]namedMatcher, 0, len(o.matchers))
	for name, matcher := range o.matchers {
		matchers = append(matchers, namedMatcher{name: name, matcher: matcher})
	}
	sort.Slice(matchers, func(i, j int) bool { return matchers[i].name < matchers[j].name })
	return optionsSnapshot{
		dictionary:   o.dictionary,
		graphs:       o.graphs,
		translations: o.translations,
		matchers:     matchers,
	}
}

// MergeDictionaries merges dictionaries left to right, a later
// dictionary replaces an earlier one with the same name
func MergeDictionaries(dictionaries ...map[string][]string) map[string][]string {
	merged := map[string][]string{}
	for _, dictionary := range dictionaries {
		for name, words := range dictionary {
			merged[name] = words
		}
	}
	return merged
}
