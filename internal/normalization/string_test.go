package normalization

import "testing"

func TestIDText(t *testing.T) {
	cases := map[int]string{
		0:  "",
		-3: "",
		7:  "7",
		42: "42",
	}
	for in, want := range cases {
		if got := IDText(in); got != want {
			t.Fatalf("IDText(%d): want=%q got=%q", in, want, got)
		}
	}
}

func TestTrimText(t *testing.T) {
	if got := TrimText("  Oak 12 \t"); got != "Oak 12" {
		t.Fatalf("TrimText: got=%q", got)
	}
	if got := ParseInputString("  CENTRO "); got != "centro" {
		t.Fatalf("ParseInputString: got=%q", got)
	}
}
