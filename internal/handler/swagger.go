package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/jhservicos/orcamentos/orcamentos-backend/docs"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
	"github.com/swaggo/swag"
)

// OpenAPI3Spec is the OpenAPI 3.0 rendering of the generated Swagger 2.0 document
type OpenAPI3Spec struct {
	OpenAPI    string                 `json:"openapi"`
	Info       map[string]interface{} `json:"info"`
	Servers    []Server               `json:"servers"`
	Paths      map[string]interface{} `json:"paths"`
	Components map[string]interface{} `json:"components,omitempty"`
}

// Server represents an OpenAPI 3.0 server
type Server struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

var openAPIServers = []Server{
	{URL: "/api/v1", Description: "This server"},
	{URL: "http://localhost:8080/api/v1", Description: "Local Development"},
}

// rewriteRefs points every $ref at components/schemas instead of definitions
func rewriteRefs(data interface{}) interface{} {
	switch v := data.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for key, value := range v {
			if ref, ok := value.(string); ok && key == "$ref" {
				out[key] = strings.Replace(ref, "#/definitions/", "#/components/schemas/", 1)
				continue
			}
			out[key] = rewriteRefs(value)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = rewriteRefs(item)
		}
		return out
	default:
		return data
	}
}

// convertParameter moves the type fields of a path or query parameter under schema
func convertParameter(param map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{})
	for _, field := range []string{"name", "in", "description", "required"} {
		if val, ok := param[field]; ok {
			out[field] = val
		}
	}

	schema := make(map[string]interface{})
	for _, field := range []string{"type", "format", "enum", "default", "minimum", "maximum", "items"} {
		if val, ok := param[field]; ok {
			schema[field] = rewriteRefs(val)
		}
	}
	if len(schema) > 0 {
		out["schema"] = schema
	}
	return out
}

func mediaTypes(op map[string]interface{}, key string) []string {
	raw, _ := op[key].([]interface{})
	types := make([]string, 0, len(raw))
	for _, t := range raw {
		if s, ok := t.(string); ok {
			types = append(types, s)
		}
	}
	if len(types) == 0 {
		types = append(types, echo.MIMEApplicationJSON)
	}
	return types
}

func content(types []string, schema interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(types))
	for _, t := range types {
		out[t] = map[string]interface{}{"schema": rewriteRefs(schema)}
	}
	return out
}

// convertOperation turns body parameters into a requestBody and response
// schemas into content entries
func convertOperation(op map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(op))
	for key, value := range op {
		switch key {
		case "consumes", "produces", "parameters", "responses":
		default:
			out[key] = rewriteRefs(value)
		}
	}

	if params, ok := op["parameters"].([]interface{}); ok {
		converted := make([]interface{}, 0, len(params))
		for _, p := range params {
			param, ok := p.(map[string]interface{})
			if !ok {
				continue
			}
			if param["in"] == "body" {
				body := map[string]interface{}{"content": content(mediaTypes(op, "consumes"), param["schema"])}
				if required, ok := param["required"]; ok {
					body["required"] = required
				}
				if desc, ok := param["description"]; ok {
					body["description"] = desc
				}
				out["requestBody"] = body
				continue
			}
			converted = append(converted, convertParameter(param))
		}
		if len(converted) > 0 {
			out["parameters"] = converted
		}
	}

	if responses, ok := op["responses"].(map[string]interface{}); ok {
		produces := mediaTypes(op, "produces")
		converted := make(map[string]interface{}, len(responses))
		for code, r := range responses {
			resp, ok := r.(map[string]interface{})
			if !ok {
				continue
			}
			c := map[string]interface{}{"description": resp["description"]}
			if schema, ok := resp["schema"]; ok {
				c["content"] = content(produces, schema)
			}
			converted[code] = c
		}
		out["responses"] = converted
	}

	return out
}

// convertSwagger2 converts a Swagger 2.0 document to OpenAPI 3.0
func convertSwagger2(doc string) (*OpenAPI3Spec, error) {
	var swagger2 map[string]interface{}
	if err := json.Unmarshal([]byte(doc), &swagger2); err != nil {
		return nil, fmt.Errorf("parse swagger doc: %w", err)
	}

	info, _ := swagger2["info"].(map[string]interface{})
	spec := &OpenAPI3Spec{
		OpenAPI:    "3.0.3",
		Info:       info,
		Servers:    openAPIServers,
		Paths:      make(map[string]interface{}),
		Components: make(map[string]interface{}),
	}

	paths, _ := swagger2["paths"].(map[string]interface{})
	for path, item := range paths {
		ops, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		converted := make(map[string]interface{}, len(ops))
		for method, op := range ops {
			if opMap, ok := op.(map[string]interface{}); ok {
				converted[method] = convertOperation(opMap)
			}
		}
		spec.Paths[path] = converted
	}

	if secDefs, ok := swagger2["securityDefinitions"].(map[string]interface{}); ok {
		spec.Components["securitySchemes"] = secDefs
	}
	if definitions, ok := swagger2["definitions"].(map[string]interface{}); ok {
		spec.Components["schemas"] = rewriteRefs(definitions)
	}

	return spec, nil
}

// ServeOpenAPI3Spec serves the swagger spec converted to OpenAPI 3.0 with multiple servers
func ServeOpenAPI3Spec(c echo.Context) error {
	doc, err := swag.ReadDoc(docs.SwaggerInfo.InstanceName())
	if err != nil {
		log.Error().Err(err).Msg("Failed to read swagger doc")
		return NewInternalError(c, "Failed to read swagger doc")
	}

	spec, err := convertSwagger2(doc)
	if err != nil {
		log.Error().Err(err).Msg("Failed to convert swagger doc")
		return NewInternalError(c, "Failed to parse swagger doc")
	}

	return c.JSON(http.StatusOK, spec)
}
