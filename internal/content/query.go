package content

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// QueryResult is the shape the content query returns for one page.
type QueryResult struct {
	HTML   string      `yaml:"html" json:"html"`
	Fields QueryFields `yaml:"fields" json:"fields"`
}

// QueryFields carries the derived fields of a page.
type QueryFields struct {
	Slug string `yaml:"slug" json:"slug"`
}

// PageData converts the result, trusting its markup.
func (q QueryResult) PageData() PageData {
	return PageData{HTML: Trust(q.HTML), Slug: q.Fields.Slug}
}

// envelope is the full response of the query as the site generator emits it.
type envelope struct {
	Data struct {
		MarkdownRemark *QueryResult `yaml:"markdownRemark" json:"markdownRemark"`
	} `yaml:"data" json:"data"`
}

// Decode reads query results from r. The input may be JSON or YAML and may
// hold a single result, a list of results, or the full query response wrapped
// in data.markdownRemark. Input starting with '{' or '[' is read as a stream
// of JSON values; anything else as a multi-document YAML stream.
func Decode(r io.Reader) ([]QueryResult, error) {
	br := bufio.NewReader(r)
	first, err := firstByte(br)
	if err != nil {
		return nil, fmt.Errorf("decoding query result: %w", err)
	}
	if first == '{' || first == '[' {
		return decodeJSON(br)
	}
	return decodeYAML(br)
}

// firstByte peeks at the first byte that is not whitespace or a byte order
// mark. It returns 0 for empty input.
func firstByte(br *bufio.Reader) (byte, error) {
	bom := []byte{0xEF, 0xBB, 0xBF}
	for {
		peek, err := br.Peek(1)
		if errors.Is(err, io.EOF) {
			return 0, nil
		}
		if err != nil {
			return 0, err
		}
		switch peek[0] {
		case ' ', '\t', '\r', '\n':
			_, _ = br.Discard(1)
			continue
		case bom[0]:
			if head, _ := br.Peek(len(bom)); bytes.Equal(head, bom) {
				_, _ = br.Discard(len(bom))
				continue
			}
		}
		return peek[0], nil
	}
}

func decodeJSON(r io.Reader) ([]QueryResult, error) {
	dec := json.NewDecoder(r)
	var results []QueryResult
	for {
		var raw json.RawMessage
		err := dec.Decode(&raw)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding query result: %w", err)
		}
		decoded, err := decodeRaw(raw)
		if err != nil {
			return nil, err
		}
		results = append(results, decoded...)
	}
	return results, nil
}

func decodeRaw(raw json.RawMessage) ([]QueryResult, error) {
	switch bytes.TrimSpace(raw)[0] {
	case '[':
		var list []QueryResult
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("decoding query result list: %w", err)
		}
		return list, nil
	case '{':
		var keys map[string]json.RawMessage
		if err := json.Unmarshal(raw, &keys); err != nil {
			return nil, fmt.Errorf("decoding query result: %w", err)
		}
		if _, ok := keys["data"]; ok {
			var env envelope
			if err := json.Unmarshal(raw, &env); err != nil {
				return nil, fmt.Errorf("decoding query response: %w", err)
			}
			if env.Data.MarkdownRemark == nil {
				return nil, fmt.Errorf("query response has no markdownRemark")
			}
			return []QueryResult{*env.Data.MarkdownRemark}, nil
		}
		var single QueryResult
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("decoding query result: %w", err)
		}
		return []QueryResult{single}, nil
	case 'n':
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected query result %.20s", raw)
	}
}

func decodeYAML(r io.Reader) ([]QueryResult, error) {
	dec := yaml.NewDecoder(r)
	var results []QueryResult
	for {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding query result: %w", err)
		}
		decoded, err := decodeNode(&node)
		if err != nil {
			return nil, err
		}
		results = append(results, decoded...)
	}
	return results, nil
}

func decodeNode(node *yaml.Node) ([]QueryResult, error) {
	doc := node
	if doc.Kind == yaml.DocumentNode && len(doc.Content) > 0 {
		doc = doc.Content[0]
	}

	switch doc.Kind {
	case yaml.SequenceNode:
		var list []QueryResult
		if err := doc.Decode(&list); err != nil {
			return nil, fmt.Errorf("decoding query result list: %w", err)
		}
		return list, nil
	case yaml.MappingNode:
		if hasKey(doc, "data") {
			var env envelope
			if err := doc.Decode(&env); err != nil {
				return nil, fmt.Errorf("decoding query response: %w", err)
			}
			if env.Data.MarkdownRemark == nil {
				return nil, fmt.Errorf("query response has no markdownRemark")
			}
			return []QueryResult{*env.Data.MarkdownRemark}, nil
		}
		var single QueryResult
		if err := doc.Decode(&single); err != nil {
			return nil, fmt.Errorf("decoding query result: %w", err)
		}
		return []QueryResult{single}, nil
	case 0, yaml.DocumentNode:
		return nil, nil
	default:
		return nil, fmt.Errorf("unexpected query result of kind %d at line %d", doc.Kind, doc.Line)
	}
}

func hasKey(mapping *yaml.Node, key string) bool {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if mapping.Content[i].Value == key {
			return true
		}
	}
	return false
}
