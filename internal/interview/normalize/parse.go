package normalize

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Mode records which parser stage produced the items.
type Mode string

const (
	ModeStrict      Mode = "strict"
	ModeLenient     Mode = "lenient"
	ModeUnparseable Mode = "unparseable"
)

// Item is one question recovered from a reply, before indexing and labelling.
type Item struct {
	Text  string
	Skill string
}

// Parsed is the outcome of parsing a raw reply.
type Parsed struct {
	Mode  Mode
	Items []Item
}

const schemaURL = "schema://interview-questions.json"

const schemaDoc = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "anyOf": [
    {
      "type": "object",
      "required": ["questions"],
      "properties": {"questions": {"$ref": "#/$defs/items"}}
    },
    {"$ref": "#/$defs/items"}
  ],
  "$defs": {
    "items": {
      "type": "array",
      "items": {
        "anyOf": [
          {"type": "string"},
          {
            "type": "object",
            "anyOf": [{"required": ["text"]}, {"required": ["question"]}],
            "properties": {
              "text": {"type": "string"},
              "question": {"type": "string"},
              "skill": {"type": "string"}
            }
          }
        ]
      }
    }
  }
}`

var questionSchema = mustCompileSchema()

func mustCompileSchema() *jsonschema.Schema {
	var doc any
	if err := json.Unmarshal([]byte(schemaDoc), &doc); err != nil {
		panic(fmt.Sprintf("normalize: parse schema: %v", err))
	}
	c := jsonschema.NewCompiler()
	if err := c.AddResource(schemaURL, doc); err != nil {
		panic(fmt.Sprintf("normalize: add schema: %v", err))
	}
	s, err := c.Compile(schemaURL)
	if err != nil {
		panic(fmt.Sprintf("normalize: compile schema: %v", err))
	}
	return s
}

// Parse runs the strict stage and falls back to the lenient stage.
func Parse(raw string) Parsed {
	if items, err := parseStrict(raw); err == nil {
		return Parsed{Mode: ModeStrict, Items: items}
	}
	if items := parseLenient(raw); len(items) > 0 {
		return Parsed{Mode: ModeLenient, Items: items}
	}
	return Parsed{Mode: ModeUnparseable}
}

// parseStrict decodes the outermost JSON value of raw and validates it
// against the question schema.
func parseStrict(raw string) ([]Item, error) {
	body, ok := outermostJSON(stripFences(raw))
	if !ok {
		return nil, fmt.Errorf("no json value found")
	}

	var doc any
	if err := json.Unmarshal([]byte(body), &doc); err != nil {
		return nil, fmt.Errorf("invalid json: %w", err)
	}
	if err := questionSchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("schema validation failed: %w", err)
	}

	list, _ := doc.([]any)
	if obj, ok := doc.(map[string]any); ok {
		list, _ = obj["questions"].([]any)
	}

	items := make([]Item, 0, len(list))
	for _, entry := range list {
		var it Item
		switch v := entry.(type) {
		case string:
			it.Text = v
		case map[string]any:
			it.Text, _ = v["text"].(string)
			if strings.TrimSpace(it.Text) == "" {
				it.Text, _ = v["question"].(string)
			}
			it.Skill, _ = v["skill"].(string)
		}
		it.Text = cleanText(it.Text)
		if it.Text != "" {
			items = append(items, it)
		}
	}
	return items, nil
}

func stripFences(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		if nl := strings.IndexByte(raw, '\n'); nl != -1 {
			raw = raw[nl+1:]
		} else {
			raw = strings.TrimLeft(raw, "`")
		}
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.TrimSpace(raw)
}

// outermostJSON cuts raw to the span between the first opening bracket and
// its last matching closing bracket. The span must stand on its own: only a
// preamble ending in ':' may precede it and nothing may follow the closer on
// its line.
func outermostJSON(raw string) (string, bool) {
	start := strings.IndexAny(raw, "{[")
	if start == -1 {
		return "", false
	}
	if prefix := strings.TrimSpace(raw[:start]); prefix != "" && !strings.HasSuffix(prefix, ":") {
		return "", false
	}
	closer := "}"
	if raw[start] == '[' {
		closer = "]"
	}
	end := strings.LastIndex(raw, closer)
	if end <= start {
		return "", false
	}
	rest, _, _ := strings.Cut(raw[end+1:], "\n")
	if strings.TrimSpace(rest) != "" {
		return "", false
	}
	return raw[start : end+1], true
}

var (
	listMarker = regexp.MustCompile(`^(?:[-*•+]\s+|\(?\d{1,3}\s*[.):\]]\s*|(?i:q(?:uestion)?\s*\d{1,3}\s*[.):-]\s*))+`)
	jsonNoise  = regexp.MustCompile(`^[\s\[\]{}(),"]*$`)
	jsonKey    = regexp.MustCompile(`^"?\w+"?\s*:\s*[\[{]?$`)
	emphasis   = strings.NewReplacer("**", "", "__", "")
)

const trimSet = "\", "

// parseLenient recovers questions from free text, one per non-empty line.
func parseLenient(raw string) []Item {
	var items []Item
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "```") || jsonNoise.MatchString(line) || jsonKey.MatchString(line) {
			continue
		}
		// Fragments of a JSON document the strict stage rejected.
		if line[0] == '{' || line[0] == '[' {
			continue
		}
		line = cleanText(listMarker.ReplaceAllString(line, ""))
		if line == "" {
			continue
		}
		if strings.HasSuffix(line, ":") && !strings.Contains(line, "?") {
			continue
		}
		items = append(items, Item{Text: line})
	}
	return items
}

func cleanText(s string) string {
	s = emphasis.Replace(strings.TrimSpace(s))
	s = strings.Trim(s, trimSet)
	return strings.Join(strings.Fields(s), " ")
}
