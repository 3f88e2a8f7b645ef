package scorer

import (
	"sort"
	"strings"
)

const minSpatialLength = 4

// compiledGraphs maps a layout name to an undirected adjacency set
type compiledGraphs map[string]map[rune]map[rune]struct{}

func compileGraphs(raw map[string]map[string][]string) compiledGraphs {
	compiled := compiledGraphs{}
	for layout, graph := range raw {
		adjacency := map[rune]map[rune]struct{}{}
		link := func(a, b rune) {
			if a == b {
				return
			}
			if adjacency[a] == nil {
				adjacency[a] = map[rune]struct{}{}
			}
			adjacency[a][b] = struct{}{}
		}
		for key, neighbours := range graph {
			keyRunes := []rune(strings.ToLower(key))
			if len(keyRunes) == 0 {
				continue
			}
			for _, neighbour := range neighbours {
				for _, r := range strings.ToLower(neighbour) {
					link(keyRunes[0], r)
					link(r, keyRunes[0])
				}
			}
		}
		compiled[layout] = adjacency
	}
	return compiled
}

func (g compiledGraphs) isAdjacent(layout string, a, b rune) bool {
	_, ok := g[layout][a][b]
	return ok
}

// matchSpatial returns runs of at least minSpatialLength characters in
// which every consecutive pair is adjacent on the same layout
func matchSpatial(graphs compiledGraphs, password string) []Match {
	runes := []rune(password)
	lowered := []rune(strings.ToLower(password))
	if len(lowered) != len(runes) {
		lowered = runes
	}
	layouts := make([]string, 0, len(graphs))
	for layout := range graphs {
		layouts = append(layouts, layout)
	}
	sort.Strings(layouts)

	matches := []Match{}
	for _, layout := range layouts {
		start := 0
		for i := 1; i <= len(lowered); i++ {
			if i < len(lowered) && graphs.isAdjacent(layout, lowered[i-1], lowered[i]) {
				continue
			}
			if i-start >= minSpatialLength {
				matches = append(matches, Match{
					Pattern: PatternSpatial,
					I:       start,
					J:       i - 1,
					Token:   string(runes[start:i]),
					Graph:   layout,
				})
			}
			start = i
		}
	}
	return matches
}
