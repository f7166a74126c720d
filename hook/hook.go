// Package hook defines the lifecycle hook vocabulary: hook names, the
// symbol naming convention extensions use to contribute implementations,
// and the payload/state values threaded through a dispatch pass.
package hook

import (
	"context"

	mapset "github.com/deckarep/golang-set/v2"
)

// Name identifies a lifecycle hook.
type Name string

// Standard hook names. The host may extend this vocabulary via
// graft.Config; these cover the composition lifecycle.
const (
	// GatherDependencies collects dependency identifiers from every
	// extension in the graph.
	GatherDependencies Name = "gather_dependencies"

	// AlterDependencies lets extensions adjust the gathered set.
	AlterDependencies Name = "alter_dependencies"

	// GatherTasks collects install tasks contributed by extensions.
	GatherTasks Name = "gather_tasks"

	// AlterTasks lets extensions adjust the gathered task list.
	AlterTasks Name = "alter_tasks"

	// PerformInstall runs side-effecting setup actions. It carries no
	// lifecycle state and fires at most once per process.
	PerformInstall Name = "perform_install"

	// AlterForm lets extensions modify the configuration form.
	AlterForm Name = "alter_form"

	// SubmitForm lets extensions react to configuration form submission.
	SubmitForm Name = "submit_form"
)

// suffixes maps each standard hook to the symbol suffix extensions use.
// An extension named "childA" implements GatherTasks by registering a
// callable under the symbol "childA_install_tasks".
var suffixes = map[Name]string{
	GatherDependencies: "dependencies",
	AlterDependencies:  "dependencies_alter",
	GatherTasks:        "install_tasks",
	AlterTasks:         "install_tasks_alter",
	PerformInstall:     "install",
	AlterForm:          "form_alter",
	SubmitForm:         "form_submit",
}

// Standard returns the standard hook set in its canonical order.
func Standard() []Name {
	return []Name{
		GatherDependencies,
		AlterDependencies,
		GatherTasks,
		AlterTasks,
		PerformInstall,
		AlterForm,
		SubmitForm,
	}
}

// Suffix returns the symbol suffix for h. Hooks outside the standard
// vocabulary use their name verbatim as suffix.
func (n Name) Suffix() string {
	if s, ok := suffixes[n]; ok {
		return s
	}
	return string(n)
}

// Symbol derives the conventional implementation symbol for an
// extension and hook: "<extension>_<suffix>".
func Symbol(extension string, h Name) string {
	return extension + "_" + h.Suffix()
}

// Kind describes how a hook merges values returned by its
// implementations into the payload.
type Kind int

const (
	// KindGather hooks union returned []string identifiers into the
	// payload's dependency set.
	KindGather Kind = iota

	// KindTasks hooks append returned []Task entries to the payload's
	// task list.
	KindTasks

	// KindForm hooks replace the payload's form with the returned Form.
	KindForm

	// KindAction hooks are side-effecting; returned values are ignored.
	KindAction
)

// kinds maps standard hooks to their merge kind.
var kinds = map[Name]Kind{
	GatherDependencies: KindGather,
	AlterDependencies:  KindGather,
	GatherTasks:        KindTasks,
	AlterTasks:         KindTasks,
	PerformInstall:     KindAction,
	AlterForm:          KindForm,
	SubmitForm:         KindForm,
}

// Kind returns the merge kind for h. Unknown hooks default to
// KindAction (mutate-in-place only).
func (n Name) Kind() Kind {
	if k, ok := kinds[n]; ok {
		return k
	}
	return KindAction
}

// State is the opaque lifecycle context supplied by the host: install
// state, form state, or nil for stateless hooks. Two states are the
// same dispatch context iff their canonical serializations are
// byte-identical (see statekey).
type State map[string]any

// Form is a configuration-form structure, passed through form hooks by
// mutation or wholesale replacement.
type Form map[string]any

// Task is an install task contributed by an extension. The host
// executes tasks; the engine only gathers and orders them.
type Task struct {
	// Name uniquely identifies the task.
	Name string

	// Title is the human-readable task description.
	Title string

	// Run performs the task against the current lifecycle state.
	Run func(ctx context.Context, st State) error
}

// Payload is the value built up across a dispatch pass: a dependency
// set, a task list, or a form, depending on the hook. Implementations
// may mutate it in place, return a value for the engine to merge, or
// both.
type Payload struct {
	Dependencies mapset.Set[string]
	Tasks        []Task
	Form         Form
}

// NewPayload returns an empty payload with an initialized dependency set.
func NewPayload() *Payload {
	return &Payload{Dependencies: mapset.NewSet[string]()}
}

// Callable is a single hook implementation. It receives the mutable
// payload and the lifecycle state. A non-nil returned value is merged
// into the payload according to the hook's Kind; returning nil means
// the implementation mutated the payload in place (or had nothing to
// contribute).
type Callable func(ctx context.Context, p *Payload, st State) (any, error)

// Implementation is one extension's contribution to one hook, located
// during catalog building.
type Implementation struct {
	// Hook is the hook this implementation serves.
	Hook Name

	// Extension is the owning extension identifier.
	Extension string

	// Symbol is the conventional name the callable was registered
	// under: "<extension>_<suffix>".
	Symbol string

	// Location is where the implementation lives (declaration file
	// path or registration site), for diagnostics.
	Location string

	// Fn is the callable itself.
	Fn Callable
}
