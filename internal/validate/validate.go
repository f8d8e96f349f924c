// Package validate runs deterministic structural checks over generated game
// artifacts. Checks are cheap, offline, and run before any model-based
// review; their issue list feeds the orchestrator's retry decision.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/lucasnoah/gamesmith/internal/pipeline"
)

// minArtifactBytes is the smallest trimmed size a plausible artifact can have.
const minArtifactBytes = 100

// patternCheck pairs a compiled pattern with its issue label, keeping the
// completeness checks data rather than control flow.
type patternCheck struct {
	re    *regexp.Regexp
	label string
}

// incompletePatterns flag unfinished work: markers, placeholders, and
// structurally empty function bodies.
var incompletePatterns = []patternCheck{
	{regexp.MustCompile(`(?i)\bTODO\b`), "TODO marker"},
	{regexp.MustCompile(`(?i)//\s*implement`), "implement-later comment"},
	{regexp.MustCompile(`(?i)//\s*add\s`), "add-later comment"},
	{regexp.MustCompile(`(?i)PLACEHOLDER`), "placeholder text"},
	{regexp.MustCompile(`function\s+\w+\s*\(\s*\)\s*\{\s*\}`), "empty function body"},
	{regexp.MustCompile(`=>\s*\{\s*\}`), "empty arrow function"},
}

var updateFuncRe = regexp.MustCompile(`function\s+update\s*\(`)

// Run executes every structural check and returns the aggregated result.
// Presence failures abort immediately: later checks would only report noise
// against absent data. The issue list is never truncated.
func Run(artifacts map[string]string, plan *pipeline.Plan) (bool, []string) {
	var issues []string

	for _, name := range pipeline.RequiredArtifacts {
		if strings.TrimSpace(artifacts[name]) == "" {
			issues = append(issues, fmt.Sprintf("missing or empty file: %s", name))
		}
	}
	if len(issues) > 0 {
		return false, issues
	}

	for _, name := range pipeline.RequiredArtifacts {
		if n := len(strings.TrimSpace(artifacts[name])); n < minArtifactBytes {
			issues = append(issues, fmt.Sprintf("%s is suspiciously short (%d bytes)", name, n))
		}
	}

	for _, name := range []string{"index.html", "game.js"} {
		issues = append(issues, checkCompleteness(name, artifacts[name])...)
	}

	issues = append(issues, checkMarkup(artifacts["index.html"])...)
	issues = append(issues, checkScript(artifacts["game.js"])...)

	if plan != nil {
		issues = append(issues, checkFramework(plan, artifacts["index.html"], artifacts["game.js"])...)
	}

	return len(issues) == 0, issues
}

// checkCompleteness scans one artifact for stub indicators. Every match is
// reported with the matched text (truncated) and the pattern label.
func checkCompleteness(name string, code string) []string {
	var issues []string
	for _, pc := range incompletePatterns {
		matches := pc.re.FindAllString(code, -1)
		if len(matches) == 0 {
			continue
		}
		if len(matches) > 3 {
			matches = matches[:3]
		}
		for i, m := range matches {
			matches[i] = truncate(m, 40)
		}
		issues = append(issues, fmt.Sprintf("[%s] found %s: %s", name, pc.label, strings.Join(matches, ", ")))
	}
	return issues
}

// checkMarkup verifies index.html carries the essential boilerplate: a
// doctype, a canvas (or Phaser container), and at least one script tag.
func checkMarkup(html string) []string {
	var issues []string
	lower := strings.ToLower(html)

	if !strings.Contains(lower, "<!doctype html>") {
		issues = append(issues, "[index.html] missing <!DOCTYPE html>")
	}
	if !strings.Contains(lower, "<canvas") && !strings.Contains(lower, "phaser") {
		issues = append(issues, "[index.html] missing <canvas> element (or Phaser container)")
	}
	if !strings.Contains(lower, "<script") {
		issues = append(issues, "[index.html] missing <script> tag")
	}
	return issues
}

// checkScript verifies game.js shows evidence of a game loop and of input
// event binding. Each absence is a separate issue.
func checkScript(js string) []string {
	var issues []string

	hasLoop := strings.Contains(js, "requestAnimationFrame") ||
		strings.Contains(js, "setInterval") ||
		updateFuncRe.MatchString(js) ||
		strings.Contains(js, "Phaser.Game")
	if !hasLoop {
		issues = append(issues, "[game.js] no game loop detected (requestAnimationFrame / setInterval / update / Phaser)")
	}

	hasInput := strings.Contains(js, "addEventListener") ||
		strings.Contains(js, "this.input") ||
		strings.Contains(js, "cursors")
	if !hasInput {
		issues = append(issues, "[game.js] no input event listeners detected")
	}
	return issues
}

// checkFramework ensures the plan's declared framework and the generated
// code agree, in both directions.
func checkFramework(plan *pipeline.Plan, html string, js string) []string {
	var issues []string
	framework := plan.Framework()

	switch {
	case strings.Contains(framework, "phaser"):
		if !strings.Contains(js, "Phaser") && !strings.Contains(strings.ToLower(html), "phaser") {
			issues = append(issues, "plan specifies Phaser but the generated code does not use it")
		}
	case strings.Contains(framework, "vanilla"):
		if strings.Contains(js, "Phaser") {
			issues = append(issues, "plan specifies Vanilla JS but the generated code uses Phaser")
		}
	}
	return issues
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
