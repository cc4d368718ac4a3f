package sanitizer

import "testing"

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "valid E.164 format",
			input: "+212612345678",
			want:  "+212612345678",
		},
		{
			name:  "moroccan local format",
			input: "0612345678",
			want:  "+212612345678",
		},
		{
			name:  "with spaces",
			input: "+212 612 345 678",
			want:  "+212612345678",
		},
		{
			name:  "french number",
			input: "+33 6 12 34 56 78",
			want:  "+33612345678",
		},
		{
			name:  "us number with punctuation",
			input: "(212) 555-0123",
			want:  "+12125550123",
		},
		{
			name:  "leading and trailing spaces",
			input: "  +212612345678  ",
			want:  "+212612345678",
		},
		{
			name:  "empty string",
			input: "",
			want:  "",
		},
		{
			name:  "only whitespace",
			input: "   ",
			want:  "",
		},
		{
			name:  "unparsable input",
			input: "not a phone",
			want:  "",
		},
		{
			name:  "too short",
			input: "12345",
			want:  "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizePhone(tt.input)
			if got != tt.want {
				t.Errorf("NormalizePhone(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
