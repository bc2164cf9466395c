package scenario

import "fmt"

// built-in scenario names.
const (
	BasicName  = "basic"
	KernelName = "kernel"
)

// selectors of the conda dashboard and notebook UI. changing them in the UI breaks
// the scenarios, which is the point of the regression check.
const (
	SelectorBody             = "body"
	SelectorCondaTab         = "#conda_tab"
	SelectorEnvLink          = "#env_list_body .list_item .col-xs-3 a"
	SelectorInstalledPackage = "#installed_packages .list_item input[type=checkbox]"
	SelectorAvailablePackage = "#available_packages .list_item input[type=checkbox]"
	SelectorKernelIndicator  = ".kernel_indicator_name"
)

// DefaultKernel is the conda R environment kernel checked by default.
var DefaultKernel = Kernel{Prefix: "conda-env", Suffix: "r", Label: "R"}

// Basic returns the dashboard smoke scenario: set viewport, take one screenshot,
// then see-and-click body, conda tab, an environment, an installed and an available package.
func Basic() Scenario {
	vp := DefaultViewport
	return Scenario{
		Name:             BasicName,
		Target:           TargetDashboard,
		ScreenshotPrefix: "basic",
		Steps: []Step{
			{Kind: StepViewport, Viewport: &vp},
			{Kind: StepScreenshot, Name: "dashboard"},
			{Kind: StepClick, Description: "the body", Selector: SelectorBody},
			{Kind: StepClick, Description: "the conda tab", Selector: SelectorCondaTab},
			{Kind: StepClick, Description: "some env", Selector: SelectorEnvLink},
			{Kind: StepClick, Description: "some installed package", Selector: SelectorInstalledPackage},
			{Kind: StepClick, Description: "some available package", Selector: SelectorAvailablePackage},
		},
	}
}

// KernelLabel returns the kernel indicator scenario for k: open a notebook backed by
// the matching kernel, take a screenshot and assert the indicator shows k.Label.
func KernelLabel(k Kernel) Scenario {
	vp := DefaultViewport
	return Scenario{
		Name:             KernelName,
		Target:           TargetNotebook,
		Kernel:           &k,
		ScreenshotPrefix: fmt.Sprintf("env-%s-kernel", SanitizeName(k.Suffix)),
		Steps: []Step{
			{Kind: StepViewport, Viewport: &vp},
			{Kind: StepScreenshot, Name: "kernel_indicator_name"},
			{Kind: StepAssertText, Selector: SelectorKernelIndicator, Text: k.Label},
		},
	}
}

// Builtin returns a built-in scenario by name. kernel is used for the kernel scenario.
func Builtin(name string, kernel Kernel) (Scenario, bool) {
	switch name {
	case BasicName:
		return Basic(), true
	case KernelName:
		return KernelLabel(kernel), true
	}
	return Scenario{}, false
}
