package shaper

import "testing"

func TestShapeStripsQuotesAndBannedPrefix(t *testing.T) {
	cases := []struct {
		name string
		in   string
		max  int
		want string
	}{
		{
			name: "quoted with leading phrase",
			in:   `  "Image of a red leather handbag."  `,
			max:  300,
			want: "A red leather handbag",
		},
		{
			name: "photo prefix",
			in:   "Photo of a ceramic vase with dried flowers",
			max:  300,
			want: "A ceramic vase with dried flowers",
		},
		{
			name: "alt text label",
			in:   "alt text: red canvas sneakers with white soles",
			max:  300,
			want: "Red canvas sneakers with white soles",
		},
		{
			name: "single quotes",
			in:   "'Minimalist oak desk in a bright room.'",
			max:  300,
			want: "Minimalist oak desk in a bright room",
		},
		{
			name: "no banned prefix untouched",
			in:   "a stack of linen napkins in earth tones",
			max:  300,
			want: "A stack of linen napkins in earth tones",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Shape(tc.in, tc.max); got != tc.want {
				t.Fatalf("Shape(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestShapeTruncatesAtSentenceBoundary(t *testing.T) {
	in := "Image of a red running shoe on a white background. Side profile view shown."

	// The first sentence terminator lands inside the limit, so the second
	// sentence is dropped whole.
	if got := Shape(in, 50); got != "A red running shoe on a white background" {
		t.Fatalf("sentence truncation: got %q", got)
	}
}

func TestShapeHardCutWithoutTerminator(t *testing.T) {
	in := "Blue ceramic vase with tulips on wooden table"

	got := Shape(in, 20)
	if got != "Blue ceramic vase wi" {
		t.Fatalf("hard cut: got %q", got)
	}
	if len(got) > 20 {
		t.Fatalf("hard cut exceeded limit: %d chars", len(got))
	}
}

func TestShapeIdempotent(t *testing.T) {
	inputs := []string{
		`"Image of a red leather handbag."`,
		"Photo of a ceramic vase with dried flowers on a shelf. Warm afternoon light.",
		"a stack of linen napkins in earth tones",
		"Blue ceramic vase with tulips on wooden table",
		"éclair pastry dusted with cocoa",
	}

	for _, in := range inputs {
		for _, max := range []int{150, 300, 20} {
			once := Shape(in, max)
			twice := Shape(once, max)
			if once != twice {
				t.Fatalf("Shape not idempotent for %q (max %d): %q vs %q", in, max, once, twice)
			}
		}
	}
}

func TestShapeUpperFirstMultibyte(t *testing.T) {
	if got := Shape("éclair pastry on a plate", 150); got != "Éclair pastry on a plate" {
		t.Fatalf("multibyte upperFirst: got %q", got)
	}
}

func TestShapeEmptyInput(t *testing.T) {
	if got := Shape("   ", 150); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}

func TestStripHTML(t *testing.T) {
	in := "<p>Hand-thrown <b>stoneware</b> mug.<br/>Holds 350ml.</p>"
	want := "Hand-thrown stoneware mug. Holds 350ml."
	if got := StripHTML(in); got != want {
		t.Fatalf("StripHTML = %q, want %q", got, want)
	}
}

func TestTruncateDescription(t *testing.T) {
	if got := TruncateDescription("short", 10); got != "short" {
		t.Fatalf("short description altered: %q", got)
	}
	if got := TruncateDescription("abcdefghij", 4); got != "abcd..." {
		t.Fatalf("truncated description: %q", got)
	}
}
