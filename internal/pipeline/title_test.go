package pipeline

import "testing"

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		filename string
		want     string
	}{
		{"my.video.file.mkv", "My Video File"},
		{"Some_Sample-Title (2021).mp4", "Some Sample Title 2021"},
		{"lecture 01.mov", "Lecture 01"},
		{"UPPER.mkv", "Upper"},
		{"---.mkv", "Untitled Video"},
		{"", "Untitled Video"},
	}
	for _, tt := range tests {
		if got := deriveTitle(tt.filename); got != tt.want {
			t.Fatalf("deriveTitle(%q) = %q, want %q", tt.filename, got, tt.want)
		}
	}
}
