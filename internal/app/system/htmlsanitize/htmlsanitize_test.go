package htmlsanitize

import (
	"strings"
	"testing"
)

func TestPlainText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		want     string
		excludes []string // Strings that should NOT be in output
	}{
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "plain text",
			input: "Ana Souza",
			want:  "Ana Souza",
		},
		{
			name:  "ampersand kept",
			input: "Ana & Bia",
			want:  "Ana & Bia",
		},
		{
			name:  "formatting tags removed",
			input: "<b>Ana</b>",
			want:  "Ana",
		},
		{
			name:     "script removed",
			input:    "Ana<script>alert('xss')</script>",
			excludes: []string{"<script>", "</script>"},
		},
		{
			name:     "event handler removed",
			input:    `<img src=x onerror="alert(1)">Ana`,
			excludes: []string{"<img", "onerror"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := PlainText(tt.input)
			if tt.want != "" || tt.input == "" {
				if got != tt.want {
					t.Errorf("PlainText(%q) = %q, want %q", tt.input, got, tt.want)
				}
			}
			for _, ex := range tt.excludes {
				if strings.Contains(got, ex) {
					t.Errorf("PlainText(%q) = %q, should not contain %q", tt.input, got, ex)
				}
			}
		})
	}
}
