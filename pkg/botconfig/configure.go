package botconfig

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/beeper/search-bot/pkg/search"
	"github.com/beeper/search-bot/pkg/shared/stringutil"
)

const (
	regionPrompt     = "What region should I use for DuckDuckGo searches? (see https://duckduckgo.com/params for options)"
	safeSearchPrompt = "Choose a SafeSearch level for searches using this plugin: on/moderate/off"
)

// LineReader reads one line of user input. *readline.Instance implements it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// Configure asks for the search region and SafeSearch level and writes the
// answers into the config document. Everything else in the document,
// comments included, is kept.
func Configure(rl LineReader, out io.Writer, data []byte) ([]byte, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if len(doc.Content) == 0 {
		if err := yaml.Unmarshal([]byte(ExampleConfig), &doc); err != nil {
			return nil, fmt.Errorf("failed to parse example config: %w", err)
		}
	}
	searchNode := mappingChild(doc.Content[0], "search")
	regionNode := mappingChild(searchNode, "region")
	safeSearchNode := mappingChild(searchNode, "safesearch")

	region, err := ask(rl, out, regionPrompt, stringutil.FirstNonEmpty(regionNode.Value, search.DefaultRegion), func(answer string) (string, bool) {
		answer = strings.ToLower(answer)
		return answer, regionPattern.MatchString(answer)
	})
	if err != nil {
		return nil, err
	}
	safeSearch, err := ask(rl, out, safeSearchPrompt, stringutil.FirstNonEmpty(safeSearchNode.Value, string(search.SafeSearchModerate)), func(answer string) (string, bool) {
		level := search.SafeSearch(strings.ToLower(answer))
		return string(level), slices.Contains(search.SafeSearchLevels, level)
	})
	if err != nil {
		return nil, err
	}
	setScalar(regionNode, region)
	setScalar(safeSearchNode, safeSearch)

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(4)
	if err = enc.Encode(&doc); err != nil {
		return nil, fmt.Errorf("failed to encode config: %w", err)
	}
	if err = enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// ConfigureFile runs Configure on the file at path, starting from the
// example config if the file doesn't exist yet.
func ConfigureFile(rl LineReader, out io.Writer, path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		data = []byte(ExampleConfig)
	} else if err != nil {
		return fmt.Errorf("failed to read config: %w", err)
	}
	updated, err := Configure(rl, out, data)
	if err != nil {
		return err
	}
	if err = writeFileAtomic(path, updated); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	_, _ = fmt.Fprintf(out, "Saved %s\n", path)
	return nil
}

func ask(rl LineReader, out io.Writer, question, current string, accept func(string) (string, bool)) (string, error) {
	_, _ = fmt.Fprintln(out, question)
	rl.SetPrompt(fmt.Sprintf("[%s] > ", current))
	for {
		line, err := rl.Readline()
		if err != nil {
			return "", fmt.Errorf("configuration aborted: %w", err)
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return current, nil
		}
		if value, ok := accept(line); ok {
			return value, nil
		}
		_, _ = fmt.Fprintf(out, "%q is not a valid answer.\n", line)
	}
}

// mappingChild returns the value node for key in a mapping node, adding an
// empty one if it's missing.
func mappingChild(node *yaml.Node, key string) *yaml.Node {
	if node.Kind != yaml.MappingNode {
		node.Kind = yaml.MappingNode
		node.Tag = "!!map"
		node.Value = ""
		node.Content = nil
	}
	for i := 0; i+1 < len(node.Content); i += 2 {
		if node.Content[i].Value == key {
			return node.Content[i+1]
		}
	}
	value := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str"}
	node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key}, value)
	return value
}

func setScalar(node *yaml.Node, value string) {
	node.Kind = yaml.ScalarNode
	node.Tag = "!!str"
	node.Style = 0
	node.Value = value
	node.Content = nil
}
