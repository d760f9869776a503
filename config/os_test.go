package config

import (
	"os"
	"testing"
)

func TestCleanFileName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "card", "card"},
		{"spaces kept", "My Card", "My Card"},
		{"separator removed", "a" + string(os.PathSeparator) + "b", "ab"},
		{"list separator removed", "a" + string(os.PathListSeparator) + "b", "ab"},
		{"leading dots", ".hidden", "hidden"},
		{"only dots", "..", "_bad_file_name_"},
		{"empty", "", "_bad_file_name_"},
		{"nul", "a\x00b", "ab"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CleanFileName(tt.in); got != tt.want {
				t.Errorf("CleanFileName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestEnableColorOutput_NoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if EnableColorOutput(os.Stderr) {
		t.Error("EnableColorOutput() = true with NO_COLOR set")
	}
}

func TestEnableColorOutput_NotTerminal(t *testing.T) {
	f, err := os.CreateTemp(t.TempDir(), "out")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if EnableColorOutput(f) {
		t.Error("EnableColorOutput() = true for regular file")
	}
}
