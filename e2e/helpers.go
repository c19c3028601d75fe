package e2e

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

// buildProsimBinary builds the prosim CLI into a temp dir
func buildProsimBinary(t *testing.T) string {
	t.Helper()

	binaryPath := filepath.Join(t.TempDir(), "prosim")

	// Build from the project root (one level up from e2e directory)
	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/prosim")
	projectRoot, err := filepath.Abs("..")
	if err != nil {
		t.Fatalf("Failed to get project root: %v", err)
	}
	cmd.Dir = projectRoot

	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build prosim binary: %v\n%s", err, out)
	}

	return binaryPath
}

// createCorpusFile writes one delimited corpus document with a phrase and a
// pos column
func createCorpusFile(t *testing.T, dir, filename string, pos ...string) {
	t.Helper()

	var b strings.Builder
	b.WriteString("phrase,pos\n")
	for _, p := range pos {
		b.WriteString("p1," + p + "\n")
	}
	if err := os.WriteFile(filepath.Join(dir, filename), []byte(b.String()), 0o644); err != nil {
		t.Fatalf("Failed to create corpus file: %v", err)
	}
}

// createTestConfigFile creates a .prosim.toml limited to the pos channel
// that directs report files to outputDir
func createTestConfigFile(t *testing.T, testDir, outputDir string) {
	t.Helper()
	configContent := fmt.Sprintf(`[engine]
window_size = 2
weighting_power = 1.0

[corpus]
[[corpus.channels]]
name = "pos"
weight = 1

[output]
directory = %q
`, filepath.ToSlash(outputDir))
	if err := os.WriteFile(filepath.Join(testDir, ".prosim.toml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("Failed to create config file: %v", err)
	}
}
