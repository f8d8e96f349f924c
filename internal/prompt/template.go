package prompt

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	varRe      = regexp.MustCompile(`\{\{([a-zA-Z_][a-zA-Z0-9_]*)\}\}`)
	ifOpenRe   = regexp.MustCompile(`\{\{#if\s+([a-zA-Z_][a-zA-Z0-9_]*)\s*\}\}`)
	ifCloseStr = "{{/if}}"
)

// Vars is a map of variable names to values for template rendering.
type Vars map[string]string

// Render expands a template string with the given variables.
// {{variable}} is replaced with its value. Missing required variables cause
// an error. {{#if variable}}...{{/if}} blocks are included only if the
// variable is non-empty.
func Render(tmpl string, vars Vars) (string, error) {
	result, err := processConditionals(tmpl, vars)
	if err != nil {
		return "", err
	}

	var missing []string
	expanded := varRe.ReplaceAllStringFunc(result, func(match string) string {
		m := varRe.FindStringSubmatch(match)
		if m == nil {
			return match
		}
		if val, ok := vars[m[1]]; ok {
			return val
		}
		missing = append(missing, m[1])
		return match // leave placeholder for error reporting
	})

	if len(missing) > 0 {
		return "", fmt.Errorf("missing template variables: %s", strings.Join(missing, ", "))
	}
	return expanded, nil
}

// processConditionals handles {{#if var}}...{{/if}} blocks, supporting
// nesting. Innermost blocks are resolved first.
func processConditionals(tmpl string, vars Vars) (string, error) {
	result := tmpl
	for {
		closeIdx := strings.Index(result, ifCloseStr)
		if closeIdx == -1 {
			break
		}

		// The last {{#if ...}} before this {{/if}} is the innermost.
		prefix := result[:closeIdx]
		openLocs := ifOpenRe.FindAllStringIndex(prefix, -1)
		if openLocs == nil {
			return "", fmt.Errorf("dangling {{/if}} without matching {{#if}}")
		}
		lastOpen := openLocs[len(openLocs)-1]
		openStart, openEnd := lastOpen[0], lastOpen[1]

		m := ifOpenRe.FindStringSubmatch(prefix[openStart:openEnd])
		if m == nil {
			return "", fmt.Errorf("failed to parse conditional tag: %s", prefix[openStart:openEnd])
		}

		body := result[openEnd:closeIdx]
		closeEnd := closeIdx + len(ifCloseStr)

		var replacement string
		if val, ok := vars[m[1]]; ok && val != "" {
			replacement = body
		}
		result = result[:openStart] + replacement + result[closeEnd:]
	}

	if ifOpenRe.MatchString(result) {
		return "", fmt.Errorf("unclosed conditional block: %s", ifOpenRe.FindString(result))
	}
	return result, nil
}
