// Package scenario defines browser test scenarios as ordered step lists,
// the built-in conda dashboard and kernel scenarios, and YAML suite files.
package scenario

import (
	"errors"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
)

// Target is the page a scenario starts on.
type Target string

// target constants.
const (
	TargetDashboard Target = "dashboard" // notebook server tree view
	TargetNotebook  Target = "notebook"  // scratch notebook bound to a kernel
)

// StepKind identifies what a step does.
type StepKind string

// step kinds.
const (
	StepViewport    StepKind = "viewport"
	StepScreenshot  StepKind = "screenshot"
	StepClick       StepKind = "click" // wait until visible, then click
	StepAssertText  StepKind = "assert_text"
	StepWaitVisible StepKind = "wait_visible"
)

// Viewport is a browser viewport size in CSS pixels.
type Viewport struct {
	Width  int `yaml:"width" json:"width"`
	Height int `yaml:"height" json:"height"`
}

// DefaultViewport is the viewport both built-in scenarios use.
var DefaultViewport = Viewport{Width: 1440, Height: 900}

// String returns viewport as WxH.
func (v Viewport) String() string {
	return fmt.Sprintf("%dx%d", v.Width, v.Height)
}

// Kernel identifies the kernel a notebook scenario runs against.
// Prefix and Suffix select a kernelspec name, Label is the expected indicator text.
type Kernel struct {
	Prefix string `yaml:"prefix" json:"prefix"`
	Suffix string `yaml:"suffix" json:"suffix"`
	Label  string `yaml:"label" json:"label"`
}

// Step is a single ordered action of a scenario.
type Step struct {
	Kind        StepKind  `yaml:"kind" json:"kind"`
	Description string    `yaml:"description,omitempty" json:"description,omitempty"`
	Selector    string    `yaml:"selector,omitempty" json:"selector,omitempty"`
	Text        string    `yaml:"text,omitempty" json:"text,omitempty"` // expected text for assert_text
	Name        string    `yaml:"name,omitempty" json:"name,omitempty"` // screenshot name
	Viewport    *Viewport `yaml:"viewport,omitempty" json:"viewport,omitempty"`
}

// Label returns a human readable step label used in logs and errors.
func (s Step) Label() string {
	switch s.Kind {
	case StepViewport:
		if s.Viewport != nil {
			return "set viewport " + s.Viewport.String()
		}
		return "set viewport"
	case StepScreenshot:
		return "screenshot " + s.Name
	case StepAssertText:
		return fmt.Sprintf("assert %s has text %q", s.Selector, s.Text)
	}
	if s.Description != "" {
		return fmt.Sprintf("%s %s (%s)", s.verb(), s.Description, s.Selector)
	}
	return s.verb() + " " + s.Selector
}

func (s Step) verb() string {
	if s.Kind == StepWaitVisible {
		return "see"
	}
	return "see and click"
}

// Scenario is a named ordered list of steps run against one page.
type Scenario struct {
	Name             string  `yaml:"name" json:"name"`
	Target           Target  `yaml:"target" json:"target"`
	Kernel           *Kernel `yaml:"kernel,omitempty" json:"kernel,omitempty"`
	ScreenshotPrefix string  `yaml:"screenshot_prefix,omitempty" json:"screenshot_prefix,omitempty"`
	Steps            []Step  `yaml:"steps" json:"steps"`
}

// Prefix returns the screenshot prefix, falling back to scenario name.
func (s Scenario) Prefix() string {
	if s.ScreenshotPrefix != "" {
		return s.ScreenshotPrefix
	}
	return s.Name
}

// Validate checks the scenario is runnable: known target, kernel for notebooks,
// compilable selectors and positive viewports.
func (s Scenario) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return errors.New("scenario name is required")
	}
	switch s.Target {
	case TargetDashboard:
	case TargetNotebook:
		if s.Kernel == nil {
			return fmt.Errorf("scenario %s: notebook target requires kernel", s.Name)
		}
		if s.Kernel.Prefix == "" && s.Kernel.Suffix == "" {
			return fmt.Errorf("scenario %s: kernel prefix or suffix is required", s.Name)
		}
	default:
		return fmt.Errorf("scenario %s: unknown target %q", s.Name, s.Target)
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("scenario %s: no steps", s.Name)
	}
	for i, st := range s.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("scenario %s: step %d: %w", s.Name, i+1, err)
		}
	}
	return nil
}

func (s Step) validate() error {
	switch s.Kind {
	case StepViewport:
		if s.Viewport == nil {
			return errors.New("viewport step requires viewport")
		}
		if s.Viewport.Width <= 0 || s.Viewport.Height <= 0 {
			return fmt.Errorf("invalid viewport %s", s.Viewport)
		}
		return nil
	case StepScreenshot:
		if SanitizeName(s.Name) == "" {
			return errors.New("screenshot step requires name")
		}
		return nil
	case StepClick, StepWaitVisible, StepAssertText:
		return ValidateSelector(s.Selector)
	default:
		return fmt.Errorf("unknown step kind %q", s.Kind)
	}
}

// ValidateSelector reports whether sel compiles as a CSS selector group.
func ValidateSelector(sel string) error {
	if strings.TrimSpace(sel) == "" {
		return errors.New("selector is required")
	}
	if _, err := cascadia.ParseGroup(sel); err != nil {
		return fmt.Errorf("invalid selector %q: %w", sel, err)
	}
	return nil
}

// SanitizeName makes a string safe for use in a file name:
// letters, digits, '-', '_' and '.' are kept, everything else becomes '_'.
// leading and trailing separators are trimmed.
func SanitizeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	return strings.Trim(b.String(), "_.-")
}
