package hook_test

import (
	"testing"

	"github.com/xraph/graft/hook"
)

func TestSymbol_FollowsConvention(t *testing.T) {
	cases := []struct {
		ext  string
		h    hook.Name
		want string
	}{
		{"childA", hook.GatherDependencies, "childA_dependencies"},
		{"childA", hook.AlterDependencies, "childA_dependencies_alter"},
		{"base", hook.GatherTasks, "base_install_tasks"},
		{"base", hook.AlterTasks, "base_install_tasks_alter"},
		{"base", hook.PerformInstall, "base_install"},
		{"childA", hook.AlterForm, "childA_form_alter"},
		{"childA", hook.SubmitForm, "childA_form_submit"},
	}
	for _, c := range cases {
		if got := hook.Symbol(c.ext, c.h); got != c.want {
			t.Errorf("Symbol(%q, %s) = %q, want %q", c.ext, c.h, got, c.want)
		}
	}
}

func TestSymbol_NonStandardHookUsesNameVerbatim(t *testing.T) {
	if got := hook.Symbol("ext", hook.Name("custom_phase")); got != "ext_custom_phase" {
		t.Errorf("Symbol = %q", got)
	}
}

func TestKind_PerHook(t *testing.T) {
	cases := map[hook.Name]hook.Kind{
		hook.GatherDependencies: hook.KindGather,
		hook.AlterDependencies:  hook.KindGather,
		hook.GatherTasks:        hook.KindTasks,
		hook.AlterTasks:         hook.KindTasks,
		hook.PerformInstall:     hook.KindAction,
		hook.AlterForm:          hook.KindForm,
		hook.SubmitForm:         hook.KindForm,
		hook.Name("custom"):     hook.KindAction,
	}
	for h, want := range cases {
		if got := h.Kind(); got != want {
			t.Errorf("%s.Kind() = %v, want %v", h, got, want)
		}
	}
}

func TestStandard_CoversAllSuffixes(t *testing.T) {
	std := hook.Standard()
	if len(std) != 7 {
		t.Fatalf("Standard() has %d hooks, want 7", len(std))
	}
	seen := map[string]hook.Name{}
	for _, h := range std {
		s := h.Suffix()
		if prev, dup := seen[s]; dup {
			t.Errorf("suffix %q shared by %s and %s", s, prev, h)
		}
		seen[s] = h
	}
}

func TestNewPayload_InitializesDependencySet(t *testing.T) {
	p := hook.NewPayload()
	if p.Dependencies == nil {
		t.Fatal("Dependencies set not initialized")
	}
	p.Dependencies.Add("moduleX")
	if !p.Dependencies.Contains("moduleX") {
		t.Error("dependency set unusable")
	}
}
