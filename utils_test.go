package main

import (
	"strings"
	"testing"
)

func TestExtractTextFromHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"bold", "<b>merge</b> 3 &amp; 4", "merge 3 & 4"},
		{"breaks", "dist: 1.5<br>size: 3<br/>", "dist: 1.5\nsize: 3"},
		{"paragraphs", "<p>one</p><p>two</p>", "one\n\ntwo"},
		{"attributes", `<span style="color:red">x &lt; y</span>`, "x < y"},
		{"empty tag", "a<>b", "ab"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := extractTextFromHTML(tt.in); got != tt.want {
				t.Errorf("extractTextFromHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestSelectionSummary(t *testing.T) {
	st := NewAppState(100, 100, testPalette(t, PaletteOptions{}))
	if _, ok := selectionSummary(st); ok {
		t.Fatal("summary without a dataset")
	}

	st.Dataset = mustDataset(t, twoFrameDataset)
	st.Frame = 1
	st.Selection.SelectAt(st.Dataset, Vec{10, 0}, 1, 1, false)
	got, ok := selectionSummary(st)
	if !ok {
		t.Fatal("no summary for selected point")
	}
	for _, want := range []string{"point 1", "(10.00, 0.00)", "frame 1", "label 1", "density=0.5"} {
		if !strings.Contains(got, want) {
			t.Errorf("summary %q missing %q", got, want)
		}
	}
}
