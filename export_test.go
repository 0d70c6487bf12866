package main

import (
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func TestExportPNG(t *testing.T) {
	surface := newGGSurface(120, 80)
	st := NewAppState(120, 80, testPalette(t, PaletteOptions{}))
	path := filepath.Join(t.TempDir(), exportFilename(3))

	if _, err := snapshotFrame(surface, st); err == nil {
		t.Fatal("snapshot with no dataset")
	}
	if msg := exportCmd(surface, st, path)().(exportedMsg); msg.err == nil {
		t.Fatal("exported with no dataset")
	}

	st.Dataset = mustDataset(t, twoFrameDataset)
	if err := NewRenderer(surface, discardLogger()).RenderFrame(st); err != nil {
		t.Fatal(err)
	}
	cmd := exportCmd(surface, st, path)
	// Later renders must not leak into an export already requested.
	surface.Clear()
	if msg := cmd().(exportedMsg); msg.err != nil || msg.path != path {
		t.Fatalf("export = %+v", msg)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	b := img.Bounds()
	if b.Dx() != 120 || b.Dy() <= 80 {
		t.Errorf("exported image is %dx%d, want 120 wide with a caption band", b.Dx(), b.Dy())
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	surface := newGGSurface(10, 10)
	st := NewAppState(10, 10, testPalette(t, PaletteOptions{}))
	st.Dataset = mustDataset(t, twoFrameDataset)

	surface.FillCircle(5, 5, 5, color.Black)
	snap, err := snapshotFrame(surface, st)
	if err != nil {
		t.Fatal(err)
	}
	surface.Clear()
	if r, _, _, _ := snap.image.At(5, 5).RGBA(); r != 0 {
		t.Errorf("snapshot pixel changed after Clear: r=%d", r)
	}
	if r, _, _, _ := surface.Image().At(5, 5).RGBA(); r == 0 {
		t.Error("surface was not cleared")
	}
}

func TestCaptionLines(t *testing.T) {
	st := &AppState{Frame: 2, MaxFrame: 4, Panel: Panel{Status: StatusPass, Info: "<b>merge</b><br>d = 1.5"}}
	got := captionLines(st)
	want := []string{"frame 2/4  PASS", "merge", "d = 1.5"}
	if len(got) != len(want) {
		t.Fatalf("captionLines = %q", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d = %q, want %q", i, got[i], want[i])
		}
	}
	if exportFilename(7) != "frame_0007.png" {
		t.Errorf("exportFilename(7) = %q", exportFilename(7))
	}
}
