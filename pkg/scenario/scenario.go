package scenario

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"path"
	"regexp"
	"strconv"
	"strings"

	"github.com/vango-dev/gatefx/internal/errors"
	"gopkg.in/yaml.v3"
)

var (
	// ErrEmptyScenario is returned for a scenario with no cycles.
	ErrEmptyScenario = stderrors.New("scenario: no cycles")

	// ErrUnknownComparator is returned when a scenario names a comparator
	// that is not registered.
	ErrUnknownComparator = stderrors.New("scenario: unknown comparator")

	// ErrComparatorPanic is returned by Run when the comparator panics.
	ErrComparatorPanic = stderrors.New("scenario: comparator panicked")

	// ErrRenderPanic is returned by Run when a render or commit panics
	// outside the comparator, e.g. in an observer or through hook misuse.
	ErrRenderPanic = stderrors.New("scenario: render panicked")
)

// DefaultComparator is used when a scenario does not name one.
const DefaultComparator = "deep"

// Scenario is a named sequence of render cycles.
type Scenario struct {
	Name        string  `yaml:"name" json:"name"`
	Description string  `yaml:"description,omitempty" json:"description,omitempty"`
	Comparator  string  `yaml:"comparator,omitempty" json:"comparator,omitempty"`
	Cycles      []Cycle `yaml:"cycles" json:"cycles"`
}

// Cycle is one render.
type Cycle struct {
	// Deps is the dependency list passed on this render.
	Deps []any `yaml:"deps" json:"deps"`

	// Panic makes the comparator panic on this render. It has no effect on
	// the first cycle, where the comparator is not called.
	Panic bool `yaml:"panic,omitempty" json:"panic,omitempty"`
}

// Format is a scenario encoding.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatJSON Format = "json"
)

// FormatFromPath picks the format from a file or object name extension.
// Anything other than .json is YAML.
func FormatFromPath(name string) Format {
	if strings.EqualFold(path.Ext(name), ".json") {
		return FormatJSON
	}
	return FormatYAML
}

// FormatFromContentType picks the format from an HTTP Content-Type.
func FormatFromContentType(contentType string) Format {
	if strings.Contains(contentType, "json") {
		return FormatJSON
	}
	return FormatYAML
}

// Parse decodes and validates a scenario. source names the file or object
// in error messages and locations.
func Parse(data []byte, format Format, source string) (*Scenario, error) {
	var sc Scenario

	var err error
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err = dec.Decode(&sc)
	default:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		err = dec.Decode(&sc)
	}
	if err != nil {
		ge := errors.New("G201").Wrap(err)
		if line := errorLine(data, err); line > 0 {
			ge.WithLocation(source, line, 0)
		}
		return nil, ge
	}

	for i, cyc := range sc.Cycles {
		if key, ok := nonStringKey(cyc.Deps); ok {
			return nil, errors.New("G201").
				WithDetail(fmt.Sprintf("cycle %d: mapping key %v is not a string", i, key)).
				WithSuggestion("quote mapping keys in deps, e.g. \"1\": a")
		}
	}

	if err := sc.Validate(); err != nil {
		return nil, err
	}
	if sc.Name == "" {
		sc.Name = strings.TrimSuffix(path.Base(source), path.Ext(source))
	}
	return &sc, nil
}

// Validate checks that the scenario has cycles and a known comparator.
// An empty comparator is set to DefaultComparator.
func (s *Scenario) Validate() error {
	if len(s.Cycles) == 0 {
		return errors.New("G201").
			WithSuggestion("add at least one entry under cycles").
			Wrap(ErrEmptyScenario)
	}
	if s.Comparator == "" {
		s.Comparator = DefaultComparator
	}
	if _, err := Lookup(s.Comparator); err != nil {
		return err
	}
	return nil
}

// nonStringKey finds a YAML mapping with a non-string key anywhere in v.
// yaml.v3 decodes such mappings to map[any]any, which has no JSON form, so
// the replay report could not be encoded.
func nonStringKey(v any) (any, bool) {
	switch v := v.(type) {
	case []any:
		for _, e := range v {
			if key, ok := nonStringKey(e); ok {
				return key, true
			}
		}
	case map[string]any:
		for _, e := range v {
			if key, ok := nonStringKey(e); ok {
				return key, true
			}
		}
	case map[any]any:
		for k := range v {
			if _, ok := k.(string); !ok {
				return k, true
			}
		}
		for _, e := range v {
			if key, ok := nonStringKey(e); ok {
				return key, true
			}
		}
	}
	return nil, false
}

var yamlLine = regexp.MustCompile(`line (\d+)`)

// errorLine extracts the 1-based line a decode error points at, or 0.
func errorLine(data []byte, err error) int {
	var syntaxErr *json.SyntaxError
	if stderrors.As(err, &syntaxErr) {
		return offsetLine(data, syntaxErr.Offset)
	}
	var typeErr *json.UnmarshalTypeError
	if stderrors.As(err, &typeErr) {
		return offsetLine(data, typeErr.Offset)
	}
	if m := yamlLine.FindStringSubmatch(err.Error()); m != nil {
		n, _ := strconv.Atoi(m[1])
		return n
	}
	return 0
}

func offsetLine(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return bytes.Count(data[:offset], []byte("\n")) + 1
}

// String returns a short description for logs.
func (s *Scenario) String() string {
	return fmt.Sprintf("%s (%s, %d cycles)", s.Name, s.Comparator, len(s.Cycles))
}
