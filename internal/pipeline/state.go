package pipeline

import "strings"

// Merge fills empty fields of r from in. A field that already holds a value
// is never downgraded, so partial clarifier replies can only add information.
func (r *Requirements) Merge(in *Requirements) {
	if in == nil {
		return
	}
	mergeField(&r.GameType, in.GameType)
	mergeField(&r.CoreMechanic, in.CoreMechanic)
	mergeField(&r.WinCondition, in.WinCondition)
	mergeField(&r.LoseCondition, in.LoseCondition)
	mergeField(&r.ControlScheme, in.ControlScheme)
	mergeField(&r.VisualStyle, in.VisualStyle)
	if len(r.AdditionalFeatures) == 0 && len(in.AdditionalFeatures) > 0 {
		r.AdditionalFeatures = append([]string(nil), in.AdditionalFeatures...)
	}
}

func mergeField(dst *string, src string) {
	if strings.TrimSpace(*dst) == "" && strings.TrimSpace(src) != "" {
		*dst = src
	}
}

// FilledCount reports how many requirement fields hold a value. The
// "Agent will decide" sentinel is a value like any other.
func (r *Requirements) FilledCount() int {
	if r == nil {
		return 0
	}
	n := 0
	for _, f := range []string{
		r.GameType, r.CoreMechanic, r.WinCondition,
		r.LoseCondition, r.ControlScheme, r.VisualStyle,
	} {
		if strings.TrimSpace(f) != "" {
			n++
		}
	}
	if len(r.AdditionalFeatures) > 0 {
		n++
	}
	return n
}

// Framework returns the plan's declared framework, preferring the explicit
// framework choice over the metadata field. Lowercased; empty when the plan
// declares nothing.
func (p *Plan) Framework() string {
	if p == nil {
		return ""
	}
	if f := strings.TrimSpace(p.Architecture.FrameworkChoice.Selected); f != "" {
		return strings.ToLower(f)
	}
	return strings.ToLower(strings.TrimSpace(p.Metadata.Framework))
}

// Title returns the plan's game title, falling back to a generic name.
func (p *Plan) Title() string {
	if p != nil && strings.TrimSpace(p.Metadata.GameTitle) != "" {
		return p.Metadata.GameTitle
	}
	return "generated-game"
}
