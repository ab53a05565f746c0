package domain

import (
	"testing"
)

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func TestFilterFormats_Empty(t *testing.T) {
	if got := FilterFormats(nil); len(got) != 0 {
		t.Errorf("FilterFormats(nil) = %v, want empty", got)
	}
	if got := FilterFormats([]FormatDescriptor{}); len(got) != 0 {
		t.Errorf("FilterFormats([]) = %v, want empty", got)
	}
	if FilterFormats(nil) == nil {
		t.Error("FilterFormats(nil) should return an empty slice, not nil")
	}
}

func TestFilterFormats_DropsMetadataRenditions(t *testing.T) {
	raw := []FormatDescriptor{
		{FormatID: "sb0", Ext: "mhtml"},
		{FormatID: "137", Ext: "mp4", Height: intPtr(1080)},
		{FormatID: "page", Ext: "html"},
		{FormatID: "251", Ext: "webm"},
	}

	got := FilterFormats(raw)
	if len(got) != 2 {
		t.Fatalf("got %d formats, want 2", len(got))
	}
	for _, f := range got {
		if f.Ext == "mhtml" || f.Ext == "html" {
			t.Errorf("format %q with ext %q survived the filter", f.FormatID, f.Ext)
		}
	}
}

func TestFilterFormats_SortsByHeightDescending(t *testing.T) {
	raw := []FormatDescriptor{
		{FormatID: "a", Ext: "mp4", Height: intPtr(480)},
		{FormatID: "b", Ext: "mp4"}, // no height, sorts as 0
		{FormatID: "c", Ext: "mp4", Height: intPtr(1080)},
		{FormatID: "d", Ext: "mp4", Height: intPtr(720)},
	}

	got := FilterFormats(raw)
	wantOrder := []string{"c", "d", "a", "b"}
	for i, id := range wantOrder {
		if got[i].FormatID != id {
			t.Errorf("position %d = %q, want %q", i, got[i].FormatID, id)
		}
	}
}

func TestFilterFormats_StableForEqualHeights(t *testing.T) {
	raw := []FormatDescriptor{
		{FormatID: "first", Ext: "mp4", Height: intPtr(720)},
		{FormatID: "second", Ext: "webm", Height: intPtr(720)},
		{FormatID: "third", Ext: "mp4", Height: intPtr(720)},
		{FormatID: "audio-a", Ext: "m4a"},
		{FormatID: "audio-b", Ext: "webm"},
	}

	got := FilterFormats(raw)
	wantOrder := []string{"first", "second", "third", "audio-a", "audio-b"}
	if len(got) != len(wantOrder) {
		t.Fatalf("got %d formats, want %d", len(got), len(wantOrder))
	}
	for i, id := range wantOrder {
		if got[i].FormatID != id {
			t.Errorf("position %d = %q, want %q (input order must be kept for ties)", i, got[i].FormatID, id)
		}
	}
}

func TestFilterFormats_PreservesAbsentFields(t *testing.T) {
	raw := []FormatDescriptor{
		{FormatID: "x", Ext: "mp4", Resolution: strPtr("1280x720"), Height: intPtr(720)},
		{FormatID: "y", Ext: "mp4"},
	}

	got := FilterFormats(raw)
	if got[0].Resolution == nil || *got[0].Resolution != "1280x720" {
		t.Error("present resolution was not carried over")
	}
	if got[1].Height != nil {
		t.Errorf("absent height became %d, want nil", *got[1].Height)
	}
	if got[1].Resolution != nil {
		t.Error("absent resolution became non-nil")
	}
}

func TestDisplayTitle(t *testing.T) {
	m := &VideoMetadata{Title: "A Video"}
	if got := m.DisplayTitle(); got != "A Video" {
		t.Errorf("DisplayTitle() = %q, want %q", got, "A Video")
	}

	m = &VideoMetadata{}
	if got := m.DisplayTitle(); got != DefaultTitle {
		t.Errorf("DisplayTitle() = %q, want %q", got, DefaultTitle)
	}
}
