// Package e2e contains end-to-end tests for the webpkit CLI.
// They build the binary once per test unless WEBPKIT_BINARY points at a
// pre-built one.
package e2e

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// getBinaryName returns the test binary name with platform-specific extension
func getBinaryName() string {
	if runtime.GOOS == "windows" {
		return "webpkit-test.exe"
	}
	return "webpkit-test"
}

// getBinaryPath returns the path to execute the test binary
func getBinaryPath(t *testing.T) string {
	if path := os.Getenv("WEBPKIT_BINARY"); path != "" {
		return path
	}
	return filepath.Join(getProjectRoot(t), getBinaryName())
}

// buildBinary builds the CLI unless a pre-built binary is provided and
// returns a cleanup function.
func buildBinary(t *testing.T) func() {
	t.Helper()
	if os.Getenv("WEBPKIT_E2E") != "1" {
		t.Skip("Skipping E2E test (set WEBPKIT_E2E=1 to run)")
	}
	if os.Getenv("WEBPKIT_BINARY") != "" {
		return func() {}
	}

	buildCmd := exec.Command("go", "build", "-o", getBinaryName(), "./cmd/webpkit")
	buildCmd.Dir = getProjectRoot(t)
	if out, err := buildCmd.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build CLI: %v\n%s", err, out)
	}
	return func() { os.Remove(filepath.Join(getProjectRoot(t), getBinaryName())) }
}

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := exec.Command(getBinaryPath(t), args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

func writeFrame(t *testing.T, path string, shade uint8) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 64, 32))
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: shade, G: uint8(x * 4), B: uint8(y * 8), A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("Failed to encode frame: %v", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatalf("Failed to write frame: %v", err)
	}
}

// TestAnimateAndInspect builds an animation and checks the info report.
func TestAnimateAndInspect(t *testing.T) {
	defer buildBinary(t)()

	dir := t.TempDir()
	var frames []string
	for i := 0; i < 4; i++ {
		path := filepath.Join(dir, "frame"+string(rune('0'+i))+".png")
		writeFrame(t, path, uint8(i*60))
		frames = append(frames, path)
	}

	anim := filepath.Join(dir, "anim.webp")
	args := append([]string{"--log-level", "error", "animate", "--fps", "8", "--loop", "3", "--quality", "70", anim}, frames...)
	if _, stderr, err := runCLI(t, args...); err != nil {
		t.Fatalf("animate failed: %v\nstderr: %s", err, stderr)
	}

	data, err := os.ReadFile(anim)
	if err != nil {
		t.Fatalf("Output file not found: %v", err)
	}
	if len(data) < 12 || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WEBP" {
		t.Error("Invalid WebP file")
	}

	stdout, stderr, err := runCLI(t, "info", "--markdown", anim)
	if err != nil {
		t.Fatalf("info failed: %v\nstderr: %s", err, stderr)
	}
	for _, want := range []string{"64x32", "| Frame Count | 4 |", "| Duration | 500 ms |", "| Loop Count | 3 |"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("expected info output to contain %q:\n%s", want, stdout)
		}
	}
}

// TestEncodeDecodeStill checks a lossless still round trip.
func TestEncodeDecodeStill(t *testing.T) {
	defer buildBinary(t)()

	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeFrame(t, in, 200)

	webp := filepath.Join(dir, "out.webp")
	if _, stderr, err := runCLI(t, "--engine", "native", "encode", "--lossless", in, webp); err != nil {
		t.Fatalf("encode failed: %v\nstderr: %s", err, stderr)
	}
	out := filepath.Join(dir, "out.png")
	if _, stderr, err := runCLI(t, "decode", webp, out); err != nil {
		t.Fatalf("decode failed: %v\nstderr: %s", err, stderr)
	}

	want, _ := os.ReadFile(in)
	got, _ := os.ReadFile(out)
	a, err := png.Decode(bytes.NewReader(want))
	if err != nil {
		t.Fatalf("decode input: %v", err)
	}
	b, err := png.Decode(bytes.NewReader(got))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if a.Bounds() != b.Bounds() {
		t.Fatalf("expected %v, got %v", a.Bounds(), b.Bounds())
	}
	for y := 0; y < 32; y++ {
		for x := 0; x < 64; x++ {
			if color.NRGBAModel.Convert(a.At(x, y)) != color.NRGBAModel.Convert(b.At(x, y)) {
				t.Fatalf("pixel (%d,%d) differs", x, y)
			}
		}
	}
}

// TestVersionFlag checks the version output.
func TestVersionFlag(t *testing.T) {
	defer buildBinary(t)()

	// urfave/cli uses --version flag instead of version subcommand
	stdout, _, err := runCLI(t, "--version")
	if err != nil {
		t.Fatalf("Version command failed: %v", err)
	}
	if !strings.Contains(stdout, "webpkit version") {
		t.Errorf("Unexpected version output: %s", stdout)
	}
}

// getProjectRoot returns the project root directory
func getProjectRoot(t *testing.T) string {
	// Start from current working directory and find go.mod
	dir, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			t.Fatal("Could not find project root (go.mod)")
		}
		dir = parent
	}
}
