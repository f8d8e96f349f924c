package prompt

import (
	"strings"
	"testing"
)

func TestRender_Variables(t *testing.T) {
	got, err := Render("Build a {{kind}} game called {{title}}.", Vars{
		"kind":  "puzzle",
		"title": "Blockfall",
	})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "Build a puzzle game called Blockfall." {
		t.Errorf("got %q", got)
	}
}

func TestRender_MissingVariable(t *testing.T) {
	_, err := Render("{{present}} and {{absent}}", Vars{"present": "x"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "absent") {
		t.Errorf("error does not name the missing variable: %v", err)
	}
}

func TestRender_ConditionalIncluded(t *testing.T) {
	got, err := Render("head{{#if extra}} [{{extra}}]{{/if}} tail", Vars{"extra": "more"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "head [more] tail" {
		t.Errorf("got %q", got)
	}
}

func TestRender_ConditionalSkipped(t *testing.T) {
	got, err := Render("head{{#if extra}} [{{extra}}]{{/if}} tail", Vars{"extra": ""})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "head tail" {
		t.Errorf("got %q", got)
	}
}

func TestRender_NestedConditionals(t *testing.T) {
	tmpl := "{{#if outer}}O{{#if inner}}I{{/if}}{{/if}}"

	got, err := Render(tmpl, Vars{"outer": "y", "inner": "y"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "OI" {
		t.Errorf("both set: %q", got)
	}

	got, err = Render(tmpl, Vars{"outer": "y", "inner": ""})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "O" {
		t.Errorf("inner empty: %q", got)
	}

	got, err = Render(tmpl, Vars{"outer": "", "inner": "y"})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if got != "" {
		t.Errorf("outer empty: %q", got)
	}
}

func TestRender_DanglingClose(t *testing.T) {
	if _, err := Render("text {{/if}}", nil); err == nil {
		t.Fatal("expected error for dangling close tag")
	}
}

func TestRender_UnclosedConditional(t *testing.T) {
	if _, err := Render("{{#if a}} never closed", Vars{"a": "x"}); err == nil {
		t.Fatal("expected error for unclosed conditional")
	}
}

func TestBuiltinContextsRender(t *testing.T) {
	// The built-in context templates must render with their expected vars.
	cases := []struct {
		name string
		tmpl string
		vars Vars
	}{
		{"clarifier", ClarifierContext, Vars{"idea": "pong", "dialogue": "", "requirements": ""}},
		{"planner", PlannerContext, Vars{"requirements": "- Game Type: pong", "idea": "pong"}},
		{"executor", ExecutorContext, Vars{"plan": "metadata: {}", "issues": ""}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Render(tc.tmpl, tc.vars); err != nil {
				t.Errorf("Render(%s): %v", tc.name, err)
			}
		})
	}
}
