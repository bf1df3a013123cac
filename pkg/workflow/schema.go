package workflow

import (
	"bytes"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v6"

	"github.com/matzehuels/flowgraph/pkg/errors"
)

const closureSchemaURL = "https://flowgraph.dev/schemas/closure.json"

// closureSchemaJSON checks the parts of a closure the graph builder relies
// on. Unknown fields are allowed; real closures carry many more.
const closureSchemaJSON = `{
  "$schema": "https://json-schema.org/draft/2020-12/schema",
  "$id": "https://flowgraph.dev/schemas/closure.json",
  "type": "object",
  "required": ["primary"],
  "properties": {
    "primary": { "$ref": "#/$defs/workflow" },
    "subWorkflows": {
      "type": "array",
      "items": { "$ref": "#/$defs/workflow" }
    },
    "tasks": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["template"],
        "properties": {
          "template": {
            "type": "object",
            "required": ["id"],
            "properties": {
              "id": { "$ref": "#/$defs/identifier" },
              "type": { "type": "string" }
            }
          }
        }
      }
    }
  },
  "$defs": {
    "identifier": {
      "type": "object",
      "required": ["name"],
      "properties": {
        "resourceType": { "type": "string" },
        "project": { "type": "string" },
        "domain": { "type": "string" },
        "name": { "type": "string", "minLength": 1 },
        "version": { "type": "string" }
      }
    },
    "workflow": {
      "type": "object",
      "required": ["template"],
      "properties": {
        "template": {
          "type": "object",
          "required": ["id", "nodes"],
          "properties": {
            "id": { "$ref": "#/$defs/identifier" },
            "nodes": {
              "type": "array",
              "items": { "$ref": "#/$defs/node" }
            }
          }
        },
        "connections": {
          "type": "object",
          "properties": {
            "downstream": { "$ref": "#/$defs/adjacency" },
            "upstream": { "$ref": "#/$defs/adjacency" }
          }
        }
      }
    },
    "adjacency": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "properties": {
          "ids": { "type": "array", "items": { "type": "string" } }
        }
      }
    },
    "node": {
      "type": "object",
      "required": ["id"],
      "properties": {
        "id": { "type": "string", "minLength": 1 },
        "metadata": {
          "type": "object",
          "properties": { "name": { "type": "string" } }
        },
        "taskNode": {
          "type": "object",
          "required": ["referenceId"],
          "properties": { "referenceId": { "$ref": "#/$defs/identifier" } }
        },
        "workflowNode": {
          "type": "object",
          "properties": {
            "subWorkflowRef": { "$ref": "#/$defs/identifier" },
            "launchplanRef": { "$ref": "#/$defs/identifier" }
          }
        },
        "branchNode": {
          "type": "object",
          "required": ["ifElse"],
          "properties": {
            "ifElse": {
              "type": "object",
              "properties": {
                "case": { "$ref": "#/$defs/ifBlock" },
                "other": { "type": "array", "items": { "$ref": "#/$defs/ifBlock" } },
                "elseNode": { "$ref": "#/$defs/node" }
              }
            }
          }
        }
      }
    },
    "ifBlock": {
      "type": "object",
      "properties": {
        "thenNode": { "$ref": "#/$defs/node" }
      }
    }
  }
}`

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
	schemaErr  error
)

func closureSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(closureSchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("unmarshal closure schema: %w", err)
			return
		}
		if err := c.AddResource(closureSchemaURL, doc); err != nil {
			schemaErr = fmt.Errorf("add closure schema resource: %w", err)
			return
		}
		schema, schemaErr = c.Compile(closureSchemaURL)
	})
	return schema, schemaErr
}

// ValidateDocument checks a JSON closure document against the closure
// schema. Violations are reported as a single SCHEMA_VIOLATION error listing
// each failing instance location.
func ValidateDocument(doc []byte) error {
	sch, err := closureSchema()
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "closure schema")
	}

	inst, err := jsonschema.UnmarshalJSON(bytes.NewReader(doc))
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "parse closure json")
	}

	if err := sch.Validate(inst); err != nil {
		verr, ok := err.(*jsonschema.ValidationError)
		if !ok {
			return errors.Wrap(errors.ErrCodeSchemaViolation, err, "closure does not match schema")
		}
		violations := collectViolations(verr)
		if len(violations) == 1 {
			return errors.New(errors.ErrCodeSchemaViolation, "%s", violations[0])
		}
		return errors.New(errors.ErrCodeSchemaViolation, "closure has %d schema violations: %s",
			len(violations), strings.Join(violations, "; "))
	}
	return nil
}

func collectViolations(verr *jsonschema.ValidationError) []string {
	if len(verr.Causes) == 0 {
		loc := "/" + strings.Join(verr.InstanceLocation, "/")
		return []string{fmt.Sprintf("%s: %s", loc, verr.Error())}
	}
	var out []string
	for _, cause := range verr.Causes {
		out = append(out, collectViolations(cause)...)
	}
	return out
}
