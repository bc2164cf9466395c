package runner

import "fmt"

// StepError is a failed step, wrapping the driver or assertion error.
type StepError struct {
	Index    int    // 1-based step number
	Step     string // step label
	Selector string
	Err      error
}

func (e *StepError) Error() string {
	if e.Selector != "" {
		return fmt.Sprintf("step %d %q on %s: %v", e.Index, e.Step, e.Selector, e.Err)
	}
	return fmt.Sprintf("step %d %q: %v", e.Index, e.Step, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// TextMismatchError is returned by assert_text when the element text differs from the expected one.
type TextMismatchError struct {
	Selector string
	Expected string
	Actual   string
	Contains bool // expected is a substring match
}

func (e *TextMismatchError) Error() string {
	if e.Contains {
		return fmt.Sprintf("selector %q: expected text containing %q, got %q", e.Selector, e.Expected, e.Actual)
	}
	return fmt.Sprintf("selector %q: expected text %q, got %q", e.Selector, e.Expected, e.Actual)
}
