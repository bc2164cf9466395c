package runner

import "fmt"

// Phase represents the run phase for color coding.
type Phase string

// Phase constants for run stages.
const (
	PhaseSetup Phase = "setup" // resolving kernel, opening pages (cyan)
	PhaseStep  Phase = "step"  // executing scenario steps (green)
	PhasePass  Phase = "pass"  // scenario passed (bright green)
	PhaseFail  Phase = "fail"  // scenario failed (red)
)

// SectionType represents the semantic type of a section header.
// the web layer uses it to emit scenario boundary events:
//   - SectionScenario: emits scenario_start, Index > 0
//   - SectionGeneric: header only, Index == 0
type SectionType int

const (
	// SectionGeneric is a static section header.
	SectionGeneric SectionType = iota
	// SectionScenario starts a scenario of a suite.
	SectionScenario
)

// Section carries structured information about a section header.
type Section struct {
	Type  SectionType
	Index int    // 1-based scenario index, 0 for generic sections
	Label string // human-readable display text
}

// NewScenarioSection creates a section for the index-th scenario of a suite.
func NewScenarioSection(index int, name string) Section {
	return Section{
		Type:  SectionScenario,
		Index: index,
		Label: fmt.Sprintf("scenario %d: %s", index, name),
	}
}

// NewGenericSection creates a static section header.
func NewGenericSection(label string) Section {
	return Section{Type: SectionGeneric, Label: label}
}
