package scenario

import (
	"bytes"
	"context"
	stderrors "errors"
	"io"
	"io/fs"
	"strings"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	gferrors "github.com/vango-dev/gatefx/internal/errors"
)

func TestLoadFileYAML(t *testing.T) {
	sc, err := LoadFile("testdata/tag-filter.yaml")
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if sc.Name != "tag-filter" || sc.Comparator != "unordered" {
		t.Errorf("scenario = %s", sc)
	}
	if len(sc.Cycles) != 5 {
		t.Fatalf("cycles = %d, want 5", len(sc.Cycles))
	}
	tags, ok := sc.Cycles[0].Deps[0].([]any)
	if !ok || len(tags) != 2 || tags[0] != "a" {
		t.Errorf("cycle 0 deps = %#v", sc.Cycles[0].Deps)
	}
}

func TestLoadFileJSON(t *testing.T) {
	sc, err := LoadFile("testdata/fault.json")
	if err != nil {
		t.Fatalf("LoadFile() error: %v", err)
	}
	if !sc.Cycles[2].Panic || sc.Cycles[1].Panic {
		t.Errorf("panic flags = %+v", sc.Cycles)
	}
}

func TestParseDefaults(t *testing.T) {
	sc, err := Parse([]byte("cycles:\n  - deps: [1]\n"), FormatYAML, "dir/minimal.yaml")
	if err != nil {
		t.Fatalf("Parse() error: %v", err)
	}
	if sc.Name != "minimal" {
		t.Errorf("Name = %q, want minimal", sc.Name)
	}
	if sc.Comparator != DefaultComparator {
		t.Errorf("Comparator = %q, want %q", sc.Comparator, DefaultComparator)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name     string
		data     string
		format   Format
		wantCode string
		wantIs   error
		wantLine int
	}{
		{
			name:     "yaml type error",
			data:     "name: x\ncycles:\n  - deps: 3\n",
			format:   FormatYAML,
			wantCode: "G201",
			wantLine: 3,
		},
		{
			name:     "yaml unknown field",
			data:     "name: x\ncycle: []\n",
			format:   FormatYAML,
			wantCode: "G201",
			wantLine: 2,
		},
		{
			name:     "json syntax error",
			data:     "{\n  \"name\": \"x\",\n  \"cycles\": [\n}",
			format:   FormatJSON,
			wantCode: "G201",
			wantLine: 4,
		},
		{
			name:     "no cycles",
			data:     "name: x\ncycles: []\n",
			format:   FormatYAML,
			wantCode: "G201",
			wantIs:   ErrEmptyScenario,
		},
		{
			name:     "unknown comparator",
			data:     "comparator: fuzzy\ncycles:\n  - deps: [1]\n",
			format:   FormatYAML,
			wantCode: "G202",
			wantIs:   ErrUnknownComparator,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), tt.format, "inline")
			if err == nil {
				t.Fatal("expected error")
			}
			var ge *gferrors.GateError
			if !stderrors.As(err, &ge) {
				t.Fatalf("error %T is not a GateError", err)
			}
			if ge.Code != tt.wantCode {
				t.Errorf("Code = %s, want %s", ge.Code, tt.wantCode)
			}
			if tt.wantIs != nil && !stderrors.Is(err, tt.wantIs) {
				t.Errorf("errors.Is(%v, %v) = false", err, tt.wantIs)
			}
			if tt.wantLine > 0 {
				if ge.Location == nil || ge.Location.Line != tt.wantLine {
					t.Errorf("Location = %v, want line %d", ge.Location, tt.wantLine)
				}
			}
		})
	}
}

func TestFormatSelection(t *testing.T) {
	if FormatFromPath("a/b.JSON") != FormatJSON {
		t.Error(".JSON should be json")
	}
	if FormatFromPath("a/b.yml") != FormatYAML {
		t.Error(".yml should be yaml")
	}
	if FormatFromContentType("application/json; charset=utf-8") != FormatJSON {
		t.Error("application/json should be json")
	}
	if FormatFromContentType("application/yaml") != FormatYAML {
		t.Error("application/yaml should be yaml")
	}
}

type fakeS3 struct {
	objects map[string]string
	gotKey  string
}

func (f *fakeS3) GetObject(ctx context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.gotKey = aws.ToString(in.Bucket) + "/" + aws.ToString(in.Key)
	body, ok := f.objects[f.gotKey]
	if !ok {
		return nil, stderrors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(strings.NewReader(body))}, nil
}

func TestLoadS3(t *testing.T) {
	client := &fakeS3{objects: map[string]string{
		"scenarios/runs/always.json": `{"comparator":"always-equal","cycles":[{"deps":[1]},{"deps":[2]}]}`,
	}}

	sc, err := Load(context.Background(), "s3://scenarios/runs/always.json", client)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if client.gotKey != "scenarios/runs/always.json" {
		t.Errorf("fetched %q", client.gotKey)
	}
	if sc.Name != "always" || sc.Comparator != "always-equal" {
		t.Errorf("scenario = %s", sc)
	}

	_, err = Load(context.Background(), "s3://scenarios/missing.yaml", client)
	var ge *gferrors.GateError
	if !stderrors.As(err, &ge) || ge.Code != "G203" {
		t.Errorf("missing object error = %v, want G203", err)
	}

	if _, err := Load(context.Background(), "s3://scenarios/x.yaml", nil); err == nil {
		t.Error("nil client should fail")
	}
}

type bigBody struct{ io.Reader }

func (bigBody) Close() error { return nil }

type bigS3 struct{}

func (bigS3) GetObject(context.Context, *s3.GetObjectInput, ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	return &s3.GetObjectOutput{Body: bigBody{bytes.NewReader(make([]byte, MaxScenarioSize+10))}}, nil
}

func TestLoadS3TooLarge(t *testing.T) {
	_, err := LoadS3(context.Background(), bigS3{}, "b", "k.yaml")
	if err == nil || !strings.Contains(err.Error(), "larger than") {
		t.Errorf("err = %v, want size error", err)
	}
}

func TestParseS3URI(t *testing.T) {
	tests := []struct {
		ref    string
		bucket string
		key    string
		ok     bool
	}{
		{"s3://b/k.yaml", "b", "k.yaml", true},
		{"s3://b/dir/k.yaml", "b", "dir/k.yaml", true},
		{"s3://b", "", "", false},
		{"s3:///k", "", "", false},
		{"file.yaml", "", "", false},
	}
	for _, tt := range tests {
		bucket, key, ok := ParseS3URI(tt.ref)
		if bucket != tt.bucket || key != tt.key || ok != tt.ok {
			t.Errorf("ParseS3URI(%q) = %q, %q, %v", tt.ref, bucket, key, ok)
		}
	}
}

func TestParseRejectsNonStringMappingKeys(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"int key", "cycles: [{deps: [{1: a}]}, {deps: [{1: b}]}]"},
		{"nested", "cycles:\n  - deps: [[{tags: {true: x}}]]\n"},
		{"null key", "cycles:\n  - deps: [{~: a}]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), FormatYAML, "keys.yaml")
			var ge *gferrors.GateError
			if !stderrors.As(err, &ge) || ge.Code != "G201" {
				t.Fatalf("Parse() error = %v, want G201", err)
			}
		})
	}

	sc, err := Parse([]byte(`cycles: [{deps: [{"1": a, b: {c: 2}}]}]`), FormatYAML, "keys.yaml")
	if err != nil {
		t.Fatalf("string keys should parse: %v", err)
	}
	if _, ok := sc.Cycles[0].Deps[0].(map[string]any); !ok {
		t.Errorf("deps[0] = %#v, want map[string]any", sc.Cycles[0].Deps[0])
	}
}

func TestLoadFileMissing(t *testing.T) {
	_, err := LoadFile("testdata/missing.yaml")
	var ge *gferrors.GateError
	if !stderrors.As(err, &ge) || ge.Code != "G203" {
		t.Fatalf("LoadFile() error = %v, want G203", err)
	}
	if !stderrors.Is(err, fs.ErrNotExist) {
		t.Error("error should wrap fs.ErrNotExist")
	}
}
