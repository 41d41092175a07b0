package gate

import "testing"

func TestDeepEqual(t *testing.T) {
	tests := []struct {
		name       string
		prev, next []any
		want       bool
	}{
		{"both empty", nil, []any{}, true},
		{"length mismatch", []any{1}, []any{1, 2}, false},
		{"nested equal", []any{map[string][]int{"a": {1}}}, []any{map[string][]int{"a": {1}}}, true},
		{"nested differ", []any{[]int{1, 2}}, []any{[]int{2, 1}}, false},
		{"non-nil funcs never equal", []any{func() {}}, []any{func() {}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeepEqual(tt.prev, tt.next); got != tt.want {
				t.Errorf("DeepEqual = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestShallowEqual(t *testing.T) {
	inner := []int{1}
	fn := func() {}

	tests := []struct {
		name       string
		prev, next []any
		want       bool
	}{
		{"primitives", []any{1, "a"}, []any{1, "a"}, true},
		{"fresh slice same items", []any{[]string{"a"}}, []any{[]string{"a"}}, true},
		{"slice order matters", []any{[]int{1, 2}}, []any{[]int{2, 1}}, false},
		{"one level only", []any{[][]int{{1}}}, []any{[][]int{{1}}}, false},
		{"shared inner slice", []any{[][]int{inner}}, []any{[][]int{inner}}, true},
		{"maps", []any{map[string]int{"a": 1}}, []any{map[string]int{"a": 1}}, true},
		{"map missing key", []any{map[string]int{"a": 1}}, []any{map[string]int{"b": 1}}, false},
		{"nil vs empty slice", []any{[]int(nil)}, []any{[]int{}}, false},
		{"same func", []any{fn}, []any{fn}, true},
		{"arrays", []any{[2]int{1, 2}}, []any{[2]int{1, 2}}, true},
		{"type mismatch", []any{[]int{1}}, []any{[]int64{1}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShallowEqual(tt.prev, tt.next); got != tt.want {
				t.Errorf("ShallowEqual = %v, want %v", got, tt.want)
			}
		})
	}
}
