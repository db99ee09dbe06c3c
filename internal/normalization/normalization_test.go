package normalization

import "testing"

func TestPhone(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"+91 98765-43210", "9876543210"},
		{"9876543210", "9876543210"},
		{"+91-9876543210", "9876543210"},
		{"(987) 654-3210", "9876543210"},
		{"0091 98765 43210", "9876543210"},
		{"12345", "12345"},
		{"", ""},
		{"abc", ""},
		{"ext. 42", "42"},
	}
	for _, tc := range cases {
		if got := Phone(tc.in); got != tc.want {
			t.Fatalf("Phone(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestParseInputString(t *testing.T) {
	if got := ParseInputString("  hello "); got != "hello" {
		t.Fatalf("ParseInputString: got %q", got)
	}
}
