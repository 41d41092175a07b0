// Package errors provides coded, formatted diagnostics for gatefx.
//
// Every diagnostic has a code (e.g. "G101") registered with a category, a
// short message and a longer detail. Codes are stable and appear in panics
// raised by the hook runtime, in scenario loading failures and in CLI output.
//
// # Categories
//
//   - runtime: hook misuse during render (no owner, changed hook order)
//   - usage: invalid arguments to a gated effect hook
//   - scenario: scenario files that cannot be parsed, resolved or fetched
//   - config: invalid gatefx.json values
//
// # Usage
//
//	err := errors.New("G201").
//	    WithLocation("scenarios/tabs.yaml", 12, 5).
//	    WithSuggestion("Cycle deps must be a YAML sequence")
//
//	fmt.Println(err.Format())
//	// ERROR G201: Scenario could not be parsed
//	//
//	//   scenarios/tabs.yaml:12:5
//	//   ...
package errors
