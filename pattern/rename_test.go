package pattern

import "testing"

func TestStripGP(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"GP_FOO", "FOO"},
		{"gp_text", "text"},
		{"GP_ALIGN_LEFT", "ALIGN_LEFT"},
		{"text", "text"},
		{"xgp_text", "xgp_text"},
		{"gp_gp_x", "gp_x"},
	}
	for _, tt := range tests {
		if got := StripGP(tt.in); got != tt.want {
			t.Errorf("StripGP(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestStripPrefixMalformed(t *testing.T) {
	if _, err := StripPrefix(`^gp_(`); err == nil {
		t.Error("StripPrefix accepted a malformed expression")
	}
}

func TestChain(t *testing.T) {
	upper := func(s string) string {
		b := []byte(s)
		for i, c := range b {
			if c >= 'a' && c <= 'z' {
				b[i] = c - 'a' + 'A'
			}
		}
		return string(b)
	}
	r := Chain(StripGP, nil, upper)
	if got := r("gp_text"); got != "TEXT" {
		t.Errorf("Chain(StripGP, upper)(%q) = %q, want %q", "gp_text", got, "TEXT")
	}
	if got := Identity("gp_text"); got != "gp_text" {
		t.Errorf("Identity(%q) = %q", "gp_text", got)
	}
}
