package tools

import (
	"encoding/json"
	"regexp"
)

const redactedValue = "***REDACTED***"

var sensitiveKey = regexp.MustCompile(`(?i)(password|passwd|secret|token|api_?key|community)`)

// RedactInput marshals input to JSON with the values of credential-like keys
// masked. It is used for the audit log only.
func RedactInput(input any) string {
	raw, err := json.Marshal(input)
	if err != nil {
		return ""
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return string(raw)
	}
	masked, err := json.Marshal(redactValue(decoded))
	if err != nil {
		return string(raw)
	}
	return string(masked)
}

func redactValue(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		for key, inner := range typed {
			if sensitiveKey.MatchString(key) {
				if inner != nil && inner != "" {
					typed[key] = redactedValue
				}
				continue
			}
			typed[key] = redactValue(inner)
		}
		return typed
	case []any:
		for i, inner := range typed {
			typed[i] = redactValue(inner)
		}
		return typed
	default:
		return value
	}
}
