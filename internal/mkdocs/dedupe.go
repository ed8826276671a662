package mkdocs

import (
	"reflect"

	"gopkg.in/yaml.v3"
)

// dedupeMappingKeys removes repeated keys from every mapping in the node
// tree, keeping the last occurrence. Repeated top-level keys accumulate when
// older versions of the tool appended to mkdocs.yml instead of rewriting it;
// decoding into a map would reject them outright.
func dedupeMappingKeys(n *yaml.Node) {
	if n == nil {
		return
	}
	switch n.Kind {
	case yaml.DocumentNode, yaml.SequenceNode:
		for _, c := range n.Content {
			dedupeMappingKeys(c)
		}
	case yaml.MappingNode:
		// Content holds alternating key/value nodes.
		lastIndex := map[string]int{}
		for i := 0; i+1 < len(n.Content); i += 2 {
			lastIndex[n.Content[i].Value] = i
		}
		kept := make([]*yaml.Node, 0, len(n.Content))
		for i := 0; i+1 < len(n.Content); i += 2 {
			if lastIndex[n.Content[i].Value] != i {
				continue
			}
			kept = append(kept, n.Content[i], n.Content[i+1])
		}
		n.Content = kept
		for i := 1; i < len(n.Content); i += 2 {
			dedupeMappingKeys(n.Content[i])
		}
	}
}

// DedupeAPISections removes structurally identical children from every
// section titled apiTitle anywhere in the document's nav, keeping first
// occurrences. Idempotent: a second application is a no-op.
func DedupeAPISections(doc map[string]any, apiTitle string) {
	nav, ok := doc["nav"].([]any)
	if !ok {
		return
	}
	dedupeAPISectionsIn(nav, apiTitle)
}

func dedupeAPISectionsIn(nav []any, apiTitle string) {
	for _, item := range nav {
		m, ok := item.(map[string]any)
		if !ok {
			continue
		}
		for key, value := range m {
			seq, ok := value.([]any)
			if !ok {
				continue
			}
			if key == apiTitle {
				m[key] = dedupeEntries(seq)
				seq, _ = m[key].([]any)
			}
			dedupeAPISectionsIn(seq, apiTitle)
		}
	}
}

// dedupeEntries drops entries deep-equal to an earlier entry, preserving
// first-occurrence order.
func dedupeEntries(seq []any) []any {
	out := make([]any, 0, len(seq))
	for _, candidate := range seq {
		dup := false
		for _, kept := range out {
			if reflect.DeepEqual(candidate, kept) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, candidate)
		}
	}
	return out
}
