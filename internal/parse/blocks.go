package parse

import (
	"regexp"
	"strings"
)

// fencedBlockRe matches one fenced code block, capturing the optional
// language tag and the body.
var fencedBlockRe = regexp.MustCompile("(?is)```(html|css|javascript|js)?[ \t]*\n(.*?)```")

// langToArtifact maps fence language tags to artifact names.
var langToArtifact = map[string]string{
	"html":       "index.html",
	"css":        "style.css",
	"javascript": "game.js",
	"js":         "game.js",
}

// Artifacts extracts the three game files from fenced blocks in raw model
// output. Language-tagged blocks are preferred, first match winning per
// artifact; if any artifact is still missing a second pass classifies every
// block by content signature. Artifacts that cannot be recovered are set to
// the empty string and returned in missing.
func Artifacts(raw string) (files map[string]string, missing []string) {
	files = make(map[string]string, 3)

	blocks := fencedBlockRe.FindAllStringSubmatch(raw, -1)

	// First pass: trust the language tags.
	for _, m := range blocks {
		lang := strings.ToLower(strings.TrimSpace(m[1]))
		name, ok := langToArtifact[lang]
		if !ok {
			continue
		}
		if _, taken := files[name]; !taken {
			files[name] = strings.TrimSpace(m[2])
		}
	}

	// Second pass: classify untagged or mistagged blocks by content. Each
	// signature check is skipped once its artifact is filled, so a script
	// that happens to mention "canvas" still lands on game.js.
	if len(files) < 3 {
		for _, m := range blocks {
			body := strings.TrimSpace(m[2])
			if body == "" {
				continue
			}
			lower := strings.ToLower(body)
			switch {
			case !filled(files, "index.html") &&
				(strings.Contains(lower, "<!doctype") || strings.Contains(lower, "<html")):
				files["index.html"] = body
			case !filled(files, "style.css") &&
				strings.Contains(body, "{") && containsAny(lower, "margin", "padding", "body", "canvas"):
				files["style.css"] = body
			case !filled(files, "game.js") &&
				containsAny(body, "function", "const ", "var ", "class "):
				files["game.js"] = body
			}
		}
	}

	for _, name := range []string{"index.html", "style.css", "game.js"} {
		if _, ok := files[name]; !ok {
			files[name] = ""
			missing = append(missing, name)
		}
	}
	return files, missing
}

func filled(files map[string]string, name string) bool {
	_, ok := files[name]
	return ok
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
