package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSource(t *testing.T, src string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "prog.jai")
	be.Err(t, os.WriteFile(path, []byte(src), 0o644), nil)
	return path
}

func TestVersion(t *testing.T) {
	out, err := runCLI(t, "version")
	be.Err(t, err, nil)
	be.Equal(t, out, "jaic dev\n")
}

func TestCheckCommand(t *testing.T) {
	file := writeSource(t, "main :: () { return 0; }")
	out, err := runCLI(t, "check", file)
	be.Err(t, err, nil)
	be.Equal(t, out, file+": ok\n")
}

func TestCheckReportsParseErrors(t *testing.T) {
	file := writeSource(t, "main :: () { x := ; }")
	out, err := runCLI(t, "check", file)
	be.Err(t, err, "parse failed")
	be.True(t, strings.HasPrefix(out, "[Line 1, Col 16] Parser Error at ':=': Expected expression\n"))
}

func TestTokensCommand(t *testing.T) {
	file := writeSource(t, "x := 42;")
	out, err := runCLI(t, "tokens", file)
	be.Err(t, err, nil)
	be.Equal(t, out, `Token{type=IDENTIFIER, lexeme="x", line=1, col=1}
Token{type=ASSIGN, lexeme=":=", line=1, col=3}
Token{type=NUMBER, lexeme="42", line=1, col=6, value=42}
Token{type=SEMICOLON, lexeme=";", line=1, col=8}
Token{type=EOF, lexeme="", line=1, col=9}
`)
}

func TestASTCommand(t *testing.T) {
	file := writeSource(t, "main :: () { return 1 + 2; }")
	out, err := runCLI(t, "ast", file)
	be.Err(t, err, nil)
	be.Equal(t, out, `(program (proc "main" (params) nil (block (return (binary "+" (number 1) (number 2))))))`+"\n")
}

func TestASTCommandPartial(t *testing.T) {
	file := writeSource(t, "a :: () { return 1; }\nb :: ( {")
	out, err := runCLI(t, "ast", "--partial", file)
	be.Err(t, err, "parse failed")
	be.True(t, strings.Contains(out, `(proc "a"`))
}

func TestTACCommand(t *testing.T) {
	file := writeSource(t, "main :: (n) { while n > 0 { n := n - 1; } }")
	out, err := runCLI(t, "tac", file)
	be.Err(t, err, nil)
	be.Equal(t, out, `proc main:
_L0:
_t0 = n > 0
ifnot _t0 goto _L1
_t1 = n - 1
n = _t1
goto _L0
_L1:
`)
}

func TestBuildNoAssemble(t *testing.T) {
	file := writeSource(t, "main :: () { return 0; }")
	outBase := filepath.Join(t.TempDir(), "out", "prog")

	_, err := runCLI(t, "build", "--no-assemble", "-o", outBase, file)
	be.Err(t, err, nil)

	data, err := os.ReadFile(outBase + ".asm")
	be.Err(t, err, nil)
	be.True(t, strings.HasPrefix(string(data), "; Generated by jaic\n"))
}

func TestBuildWithConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "jaic.yaml")
	cfg := "assembler:\n  path: sh\n  args: [\"-c\", \"exit 4\", \"fasm\"]\ncodegen:\n  lowering: linear\n"
	be.Err(t, os.WriteFile(cfgPath, []byte(cfg), 0o644), nil)
	file := writeSource(t, "main :: () { return 0; }")

	_, err := runCLI(t, "--config", cfgPath, "build", "-o", filepath.Join(dir, "out"), file)
	be.Err(t, err, "exit status 4")
}

func TestBadConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "jaic.toml")
	be.Err(t, os.WriteFile(cfgPath, []byte("[codegen]\nlowering = \"sideways\"\n"), 0o644), nil)

	_, err := runCLI(t, "--config", cfgPath, "version")
	be.Err(t, err, "unknown lowering mode")
}

func TestMissingFile(t *testing.T) {
	_, err := runCLI(t, "check", filepath.Join(t.TempDir(), "nope.jai"))
	be.Err(t, err, "read ")
}

func TestArgumentCount(t *testing.T) {
	_, err := runCLI(t, "build")
	be.Err(t, err, "accepts 1 arg")
}
