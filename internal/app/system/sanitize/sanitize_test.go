package sanitize

import "testing"

func TestText(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"plain text", "plain text"},
		{"  padded  ", "padded"},
		{"<b>bold</b> claim", "bold claim"},
		{"<script>alert(1)</script>left early", "left early"},
		{"a &amp; b", "a & b"},
		{"<img src=x onerror=alert(1)>", ""},
		{"", ""},
		{"   ", ""},
	}
	for _, tc := range cases {
		if got := Text(tc.in); got != tc.want {
			t.Errorf("Text(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
