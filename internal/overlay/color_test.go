package overlay

import "testing"

func TestParseColor(t *testing.T) {
	for in, want := range map[string]Color{
		"blue":     Blue,
		" Orange ": Orange,
		"#00ff00":  Green,
		"#FF00FF":  Magenta,
	} {
		got, err := ParseColor(in)
		if err != nil {
			t.Fatalf("ParseColor(%q): %v", in, err)
		}
		if got != want {
			t.Fatalf("ParseColor(%q)=%v want %v", in, got, want)
		}
	}
	for _, in := range []string{"", "chartreuse", "#fff", "#gggggg"} {
		if _, err := ParseColor(in); err == nil {
			t.Fatalf("ParseColor(%q) expected error", in)
		}
	}
}

func TestHex(t *testing.T) {
	if Green.Hex() != "#00ff00" || Magenta.Hex() != "#ff00ff" || Orange.Hex() != "#ff8000" {
		t.Fatalf("hex=%s %s %s", Green.Hex(), Magenta.Hex(), Orange.Hex())
	}
}

func TestParseCategory(t *testing.T) {
	cases := map[string]Category{
		"0": CategoryGeneric, "1": CategoryRide, "2": CategoryFood, "3": CategoryFirstAid,
		"": CategoryGeneric, "bogus": CategoryGeneric, "-1": CategoryGeneric, "4": CategoryGeneric, " 2 ": CategoryFood,
	}
	for in, want := range cases {
		if got := ParseCategory(in); got != want {
			t.Fatalf("ParseCategory(%q)=%v want %v", in, got, want)
		}
	}
	if Category(42).String() != "generic" {
		t.Fatalf("out-of-range category must print as generic")
	}
}
