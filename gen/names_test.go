package gen

import (
	"reflect"
	"testing"
)

func TestParamNames(t *testing.T) {
	tests := []struct {
		in   []string
		want []string
	}{
		{[]string{"type", "func"}, []string{"type_", "func_"}},
		{[]string{"x", "", "y"}, []string{"x", "arg1", "y"}},
		{[]string{"ctx", "s"}, []string{"ctx_", "s_"}},
		{[]string{"a", "a"}, []string{"a", "a_"}},
		{[]string{"1st", "range"}, []string{"arg0", "range_"}},
	}
	for _, tt := range tests {
		if got := paramNames(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("paramNames(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
