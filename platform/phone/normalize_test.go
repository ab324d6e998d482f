package phone

import "testing"

func TestDigits(t *testing.T) {
	if got := Digits("(662) 123-4567"); got != "6621234567" {
		t.Fatalf("expected 6621234567, got %q", got)
	}
}

func TestNormalizeE164(t *testing.T) {
	cases := map[string]string{
		"5512345678": "+525512345678",
		"":           "",
		"  abc  ":    "abc",
	}
	for in, want := range cases {
		if got := NormalizeE164(in); got != want {
			t.Fatalf("NormalizeE164(%q) = %q, want %q", in, got, want)
		}
	}
}
