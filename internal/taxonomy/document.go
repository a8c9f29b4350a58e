package taxonomy

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// EncodeDocument serializes the graph as one YAML document with
// deterministic key order: map keys sorted, term lists kept in their
// append order. Stable output keeps on-disk diffs readable across turns.
func EncodeDocument(g *Graph) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.MappingNode}

	topics := &yaml.Node{Kind: yaml.MappingNode}
	for _, category := range sortedCategoryKeys(g.Topics) {
		categoryNode := &yaml.Node{Kind: yaml.MappingNode}
		subcategories := g.Topics[category]
		for _, subcategory := range sortedTermKeys(subcategories) {
			appendPair(categoryNode, subcategory, sequenceNode(subcategories[subcategory]))
		}
		appendPair(topics, category, categoryNode)
	}

	appendPair(root, "topics", topics)
	appendPair(root, "relationships", sequenceNode(g.Relationships))
	appendPair(root, "contexts", sequenceNode(g.Contexts))
	appendPair(root, "dependencies", sequenceNode(g.Dependencies))

	data, err := yaml.Marshal(root)
	if err != nil {
		return nil, fmt.Errorf("failed to encode taxonomy document: %w", err)
	}

	return data, nil
}

// DecodeDocument parses one taxonomy document back into a graph
func DecodeDocument(data []byte) (*Graph, error) {
	var doc struct {
		Topics        map[string]map[string][]string `yaml:"topics"`
		Relationships []string                       `yaml:"relationships"`
		Contexts      []string                       `yaml:"contexts"`
		Dependencies  []string                       `yaml:"dependencies"`
	}

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to decode taxonomy document: %w", err)
	}

	graph := &Graph{
		Topics:        make(map[string]TopicCategory, len(doc.Topics)),
		Relationships: doc.Relationships,
		Contexts:      doc.Contexts,
		Dependencies:  doc.Dependencies,
	}

	for category, subcategories := range doc.Topics {
		topicCategory := make(TopicCategory, len(subcategories))
		for subcategory, terms := range subcategories {
			if terms == nil {
				terms = []string{}
			}
			topicCategory[subcategory] = terms
		}
		graph.Topics[category] = topicCategory
	}

	return graph, nil
}

func sortedCategoryKeys(m map[string]TopicCategory) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func sortedTermKeys(m map[string][]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func appendPair(mapping *yaml.Node, key string, value *yaml.Node) {
	mapping.Content = append(mapping.Content,
		&yaml.Node{Kind: yaml.ScalarNode, Value: key},
		value,
	)
}

func sequenceNode(values []string) *yaml.Node {
	node := &yaml.Node{Kind: yaml.SequenceNode}
	for _, v := range values {
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: v})
	}
	return node
}
