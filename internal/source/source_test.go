package source

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "one request per line",
			input: "Need 500 bags of cement\nGet 2.5 tons of steel\n",
			want:  []string{"Need 500 bags of cement", "Get 2.5 tons of steel"},
		},
		{
			name:  "skips blank lines and comments",
			input: "# test inputs\n\nNeed bricks\n   \n# another comment\nNeed sand\n",
			want:  []string{"Need bricks", "Need sand"},
		},
		{
			name:  "trims whitespace",
			input: "  Need gravel  \n",
			want:  []string{"Need gravel"},
		},
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(strings.NewReader(tt.input))
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Read() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inputs.txt")
	if err := os.WriteFile(path, []byte("# header\nNeed cement\n"), 0o644); err != nil {
		t.Fatalf("failed to write input file: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(got) != 1 || got[0] != "Need cement" {
		t.Errorf("Load() = %v", got)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Error("expected error for missing file")
	}
}
