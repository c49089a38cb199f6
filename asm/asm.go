// Package asm writes generated assembly to disk and runs the external
// assembler on it.
package asm

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/strager/jaic/logger"
)

const DefaultTool = "fasm"

// Assembler runs Path with Args followed by the source file.
type Assembler struct {
	Path string
	Args []string
}

func Default() *Assembler {
	return &Assembler{Path: DefaultTool}
}

// ArtifactPath returns the .asm file written for output base out.
func ArtifactPath(out string) string {
	if strings.HasSuffix(out, ".asm") {
		return out
	}
	return out + ".asm"
}

// WriteArtifact writes text to path, creating parent directories.
func WriteArtifact(path, text string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("write assembly: %w", err)
	}
	return nil
}

// Run assembles path. A missing tool or a non-zero exit is an error that
// carries the tool's combined output.
func (a *Assembler) Run(ctx context.Context, path string) error {
	tool := a.Path
	if tool == "" {
		tool = DefaultTool
	}
	args := append(append([]string{}, a.Args...), path)

	logger.LogAssemble(tool, path)
	cmd := exec.CommandContext(ctx, tool, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(out.String())
		if msg == "" {
			return fmt.Errorf("%s %s: %w", tool, path, err)
		}
		return fmt.Errorf("%s %s: %w\n%s", tool, path, err, msg)
	}
	logger.Debug("Assembler output", "output", out.String())
	return nil
}
