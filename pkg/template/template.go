// Package template renders node configuration values against the live
// execution context, letting downstream nodes reference upstream outputs and
// graph variables from their config.
package template

import (
	"crypto/rand"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/template"
	"time"

	"github.com/JudgeZ/stepflow/pkg/models"
)

// NeedsRendering reports whether a config value contains template syntax.
func NeedsRendering(input string) bool {
	return strings.Contains(input, "{{")
}

// RenderWithContext renders one config string against the execution context.
// Templates can reference .outputs (settled node outputs), .vars or
// .variables, .metadata, .env, and .execution (id and graph_id).
func RenderWithContext(input string, ectx *models.ExecutionContext) (any, error) {
	variables := ectx.Variables()

	data := map[string]any{
		"outputs":   ectx.Outputs(),
		"vars":      variables,
		"variables": variables,
		"metadata":  ectx.Metadata,
		"env":       envVars(),
		"execution": map[string]any{
			"id":       ectx.ExecutionID,
			"graph_id": ectx.GraphID,
		},
	}

	return Render(input, data)
}

// RenderConfig renders every templated string value of a node config map.
// Non-string values and strings without template syntax pass through
// untouched. The input map is never mutated.
func RenderConfig(config map[string]any, ectx *models.ExecutionContext) (map[string]any, error) {
	if len(config) == 0 {
		return config, nil
	}

	rendered := make(map[string]any, len(config))

	for key, value := range config {
		str, ok := value.(string)
		if !ok || !NeedsRendering(str) {
			rendered[key] = value

			continue
		}

		out, err := RenderWithContext(str, ectx)
		if err != nil {
			return nil, fmt.Errorf("config key %q: %w", key, err)
		}

		rendered[key] = out
	}

	return rendered, nil
}

// Render executes a template string against arbitrary data. Results that
// look like JSON, numbers, or booleans are coerced to the matching Go value;
// everything else comes back as a string.
func Render(templateStr string, data any) (any, error) {
	tmpl, err := template.
		New("config").
		Funcs(template.FuncMap{
			"now": func() string {
				return time.Now().UTC().Format(time.RFC3339)
			},
			"rand": func(max int) int {
				if max <= 0 {
					return 0
				}

				num := make([]byte, 1)
				if _, err := rand.Read(num); err != nil {
					return 0
				}

				return int(num[0]) % max
			},
		}).Parse(templateStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse template '%s': %w", templateStr, err)
	}

	var buf strings.Builder

	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template '%s': %w", templateStr, err)
	}

	result := strings.TrimSpace(buf.String())

	if (strings.HasPrefix(result, "{") && strings.HasSuffix(result, "}")) ||
		(strings.HasPrefix(result, "[") && strings.HasSuffix(result, "]")) {
		var jsonResult any

		if err := json.Unmarshal([]byte(result), &jsonResult); err == nil {
			return jsonResult, nil
		}
	}

	if num, err := strconv.ParseFloat(result, 64); err == nil {
		return num, nil
	}

	if b, err := strconv.ParseBool(result); err == nil {
		return b, nil
	}

	return result, nil
}

// envVars returns environment variables as a map.
func envVars() map[string]any {
	envMap := make(map[string]any)

	for _, env := range os.Environ() {
		parts := strings.SplitN(env, "=", 2)
		if len(parts) == 2 {
			envMap[parts[0]] = parts[1]
		}
	}

	return envMap
}
