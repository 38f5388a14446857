package ai

import "fmt"

// Schemas names the JSON shapes the extraction service must follow in its
// responses. They are serialized verbatim into the system prompt.
var Schemas = map[string]string{
	"url_collection": `{
  "type": "array",
  "items": {"type": "string", "format": "uri"}
}`,
	"story_collection": `{
  "title": "string",
  "created": {"type": "string", "format": "date-time"},
  "updated": {"type": "string", "format": "date-time"},
  "author": "string",
  "story": "string",
  "summary": "string",
  "image_url": {"type": "string", "format": "uri"}
}`,
	"story_summary": `{
  "summary": "string"
}`,
	"summary_validation": `{
  "validation": "string"
}`,
	"story_labels": `{
  "type": "array",
  "items": {
    "type": "object",
    "properties": {
      "name": {"type": "string"},
      "type": {"type": "string"},
      "confidence": {"type": "number", "minimum": 0, "maximum": 1}
    },
    "required": ["name", "type", "confidence"]
  }
}`,
}

// schemaJSON resolves a named schema to its serialized form.
func schemaJSON(key string) (string, error) {
	schema, ok := Schemas[key]
	if !ok {
		return "", fmt.Errorf("unknown schema %q", key)
	}
	return schema, nil
}
