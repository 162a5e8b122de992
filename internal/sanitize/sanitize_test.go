package sanitize

import "testing"

func TestEscape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "ampersand",
			input: "a & b",
			want:  "a &amp; b",
		},
		{
			name:  "angle brackets",
			input: "<b>Al</b>",
			want:  "&lt;b&gt;Al&lt;&#x2F;b&gt;",
		},
		{
			name:  "quotes",
			input: `say "hi" won't you`,
			want:  "say &quot;hi&quot; won&#x27;t you",
		},
		{
			name:  "slash",
			input: "a/b/c",
			want:  "a&#x2F;b&#x2F;c",
		},
		{
			name:  "all occurrences replaced",
			input: "<<>>",
			want:  "&lt;&lt;&gt;&gt;",
		},
		{
			name:  "clean string untouched",
			input: "plain text with spaces",
			want:  "plain text with spaces",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Escape(tt.input); got != tt.want {
				t.Errorf("Escape(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEscapeEmptyFixedPoint(t *testing.T) {
	if got := Escape(Escape("")); got != "" {
		t.Errorf("Escape(Escape(\"\")) = %q, want empty", got)
	}
}

func TestEscapeNotIdempotent(t *testing.T) {
	// Re-sanitizing doubly escapes: the entity's own ampersand gets replaced.
	once := Escape("<")
	twice := Escape(once)
	if twice != "&amp;lt;" {
		t.Errorf("double escape = %q, want %q", twice, "&amp;lt;")
	}
}
