package tools

import (
	"sort"
	"strings"

	"github.com/roelfdiedericks/devkit/internal/types"
)

// CategoryCount is one entry of the category listing.
type CategoryCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Search returns the metadata of tools matching query, in catalog order.
// Every whitespace-separated term must occur (case-insensitively) in the
// tool's id, name, description, category or one of its keywords.
// An empty query matches everything.
func (r *Registry) Search(query string) []types.Metadata {
	terms := strings.Fields(strings.ToLower(strings.TrimSpace(query)))

	r.mu.RLock()
	out := []types.Metadata{}
	for _, tool := range r.tools {
		meta := tool.Metadata()
		if matches(meta, terms) {
			out = append(out, meta)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return lessMetadata(out[i], out[j]) })
	return out
}

// Categories lists categories in display order with their tool counts.
// Categories without tools are omitted.
func (r *Registry) Categories() []CategoryCount {
	counts := make(map[string]int)
	r.mu.RLock()
	for _, tool := range r.tools {
		counts[tool.Metadata().Category]++
	}
	r.mu.RUnlock()

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		ci, cj := types.CategoryIndex(names[i]), types.CategoryIndex(names[j])
		if ci != cj {
			return ci < cj
		}
		return names[i] < names[j]
	})

	out := make([]CategoryCount, 0, len(names))
	for _, name := range names {
		out = append(out, CategoryCount{Name: name, Count: counts[name]})
	}
	return out
}

func matches(meta types.Metadata, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	haystack := []string{
		strings.ToLower(meta.ID),
		strings.ToLower(meta.Name),
		strings.ToLower(meta.Description),
		strings.ToLower(meta.Category),
	}
	for _, kw := range meta.Keywords {
		haystack = append(haystack, strings.ToLower(kw))
	}

	for _, term := range terms {
		found := false
		for _, field := range haystack {
			if strings.Contains(field, term) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func lessMetadata(a, b types.Metadata) bool {
	ca, cb := types.CategoryIndex(a.Category), types.CategoryIndex(b.Category)
	if ca != cb {
		return ca < cb
	}
	if a.Name != b.Name {
		return a.Name < b.Name
	}
	return a.ID < b.ID
}
