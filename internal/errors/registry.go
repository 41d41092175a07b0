package errors

import "sort"

// ErrorTemplate defines a registered error type.
type ErrorTemplate struct {
	Category Category
	Message  string
	Detail   string
}

// registry maps error codes to their templates.
var registry = map[string]ErrorTemplate{
	// ============================================
	// Runtime Errors (G001-G099)
	// ============================================

	"G001": {
		Category: CategoryRuntime,
		Message:  "Hook called outside component owner",
		Detail:   "Effect hooks must be called while an Owner is current, between StartRender and EndRender inside reactive.WithOwner.",
	},
	"G002": {
		Category: CategoryRuntime,
		Message:  "Hook order changed",
		Detail:   "Hooks must be called in the same order on every render of a component. Do not call hooks conditionally or inside loops with a varying count.",
	},
	"G003": {
		Category: CategoryRuntime,
		Message:  "Hook slot type mismatch",
		Detail:   "The hook slot at this position holds state from a different hook. The component's hook order changed between renders.",
	},

	// ============================================
	// Usage Errors (G100-G199)
	// ============================================

	"G101": {
		Category: CategoryUsage,
		Message:  "Nil comparator",
		Detail:   "UseCustomCompareEffect needs a comparator to decide whether the effect runs. The comparator returns true when the lists are equal, which suppresses the effect.",
	},

	// ============================================
	// Scenario Errors (G200-G299)
	// ============================================

	"G201": {
		Category: CategoryScenario,
		Message:  "Scenario could not be parsed",
		Detail:   "The scenario file is not valid YAML or JSON, or its shape does not match {name, comparator, cycles: [{deps: [...]}]}.",
	},
	"G202": {
		Category: CategoryScenario,
		Message:  "Unknown comparator",
		Detail:   "The scenario names a comparator that is not registered.",
	},
	"G203": {
		Category: CategoryScenario,
		Message:  "Scenario source unavailable",
		Detail:   "The scenario file or S3 object could not be read.",
	},

	// ============================================
	// Config Errors (G300-G399)
	// ============================================

	"G301": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "gatefx.json contains a value that cannot be used.",
	},
}

// GetAllCodes returns all registered error codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for an error code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}
