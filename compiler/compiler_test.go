package compiler

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nalgeon/be"
	"github.com/strager/jaic/config"
	"github.com/strager/jaic/lexer"
)

func TestTokens(t *testing.T) {
	u := New(nil)
	toks := u.Tokens("main :: () { return 0; }")
	be.Equal(t, len(toks), 10)
	be.Equal(t, toks[0].Type, lexer.IDENT)
	be.Equal(t, toks[1].Type, lexer.PROC)
	be.Equal(t, toks[len(toks)-1].Type, lexer.EOF)
}

func TestParseFailureSuppressesCodegen(t *testing.T) {
	var diags bytes.Buffer
	u := New(nil, WithDiagnostics(&diags))

	// a[0] would be a codegen error, but parsing fails first.
	_, err := u.Emit("main :: () { x := a[0] }")
	be.Err(t, err, "parse failed")
	be.True(t, !strings.Contains(err.Error(), "Codegen Error"))
	be.Equal(t, diags.String(), "[Line 1, Col 22] Parser Error at ']': Expected ';' after assignment\n")

	be.Equal(t, len(u.Diagnostics()), 1)
	be.True(t, u.Partial() != nil)
}

func TestPartialBeforeParse(t *testing.T) {
	u := New(nil)
	be.True(t, u.Partial() == nil)
	be.Equal(t, len(u.Diagnostics()), 0)
}

func TestArenaIsResetPerParse(t *testing.T) {
	u := New(nil, WithDiagnostics(io.Discard))
	src := "main :: () { x := 1 + 2; }"

	_, err := u.Parse(src)
	be.Err(t, err, nil)
	first := u.arena.Len()

	_, err = u.Parse(src)
	be.Err(t, err, nil)
	be.Equal(t, u.arena.Len(), first)
}

func TestUnitsAreIndependent(t *testing.T) {
	a := New(nil)
	b := New(nil)
	outA, err := a.Emit("P :: struct { x: int; }\nmain :: () { p: P; }")
	be.Err(t, err, nil)

	// b has never seen P, so it falls back to the default size.
	outB, err := b.Emit("main :: () { p: P; }")
	be.Err(t, err, nil)
	be.True(t, strings.Contains(outA, "_DeclareVar p, 8\n"))
	be.True(t, strings.Contains(outB, "_DeclareVar p, 8\n"))
	be.True(t, !strings.Contains(outB, "struc P"))
}

func TestConfigSelectsLowering(t *testing.T) {
	cfg := config.Default()
	cfg.Codegen.Lowering = "linear"
	cfg.Runtime.Include = "rt.asm"

	out, err := New(cfg).Emit("main :: (x) { while x { x := x - 1; } }")
	be.Err(t, err, nil)
	be.True(t, strings.Contains(out, "include 'rt.asm'\n"))
	be.True(t, strings.Contains(out, "    _Label _L0\n"))
	be.True(t, strings.Contains(out, "    _JumpIfNot <_Var x>, _L1\n"))
	be.True(t, !strings.Contains(out, "_BeginWhile"))
}

func TestConfigAllowsBareAssign(t *testing.T) {
	src := "main :: () { x := 1; x = 2; }"
	be.Err(t, New(nil, WithDiagnostics(io.Discard)).Check(src), "Single '='")

	cfg := config.Default()
	cfg.Language.AllowBareAssign = true
	be.Err(t, New(cfg).Check(src), nil)

	err := New(cfg).Check("main :: () { y = 2; }")
	be.Err(t, err, "assignment to undeclared variable y")
}

func TestTACListings(t *testing.T) {
	u := New(nil)
	listings, err := u.TAC("P :: struct { a: int; }\nf :: () { return 1; }\ng :: (n) { return n * 2; }")
	be.Err(t, err, nil)
	be.Equal(t, len(listings), 2)
	be.Equal(t, listings[0].Proc, "f")
	be.Equal(t, listings[0].String(), "return 1\n")
	be.Equal(t, listings[1].Proc, "g")
	be.Equal(t, listings[1].Temps, 1)
	be.Equal(t, listings[1].String(), "_t0 = n * 2\nreturn _t0\n")
}

func TestTACReportsLoweringErrors(t *testing.T) {
	listings, err := New(nil).TAC("main :: () { x := a.b; y := 1; }")
	be.Err(t, err, "field access .b is not supported")
	be.Equal(t, len(listings), 1)
	be.Equal(t, listings[0].String(), "x = 0\ny = 1\n")
}

func TestExpressionTAC(t *testing.T) {
	insts, result, err := New(nil).ExpressionTAC("1 + 2 * 3")
	be.Err(t, err, nil)
	be.Equal(t, len(insts), 2)
	be.Equal(t, result.String(), "_t1")

	_, result, err = New(nil).ExpressionTAC("42")
	be.Err(t, err, nil)
	be.Equal(t, result.String(), "42")
}

func TestWriteAssembly(t *testing.T) {
	out := filepath.Join(t.TempDir(), "build", "prog")
	path, err := New(nil).WriteAssembly("main :: () { return 0; }", out)
	be.Err(t, err, nil)
	be.Equal(t, path, out+".asm")

	data, err := os.ReadFile(path)
	be.Err(t, err, nil)
	be.True(t, strings.Contains(string(data), "_FuncBeginWithLocals func_main, 0\n"))
}

func TestWriteAssemblySkipsFileOnError(t *testing.T) {
	out := filepath.Join(t.TempDir(), "prog")
	_, err := New(nil).WriteAssembly("x := 1;", out)
	be.Err(t, err, "top level")
	_, statErr := os.Stat(out + ".asm")
	be.True(t, os.IsNotExist(statErr))
}

func shConfig(t *testing.T, script string) *config.Config {
	t.Helper()
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("no sh")
	}
	cfg := config.Default()
	cfg.Assembler.Path = "sh"
	cfg.Assembler.Args = []string{"-c", script, "fasm"}
	return cfg
}

func TestBuildRunsAssembler(t *testing.T) {
	cfg := shConfig(t, `cp "$1" "${1%.asm}.bin"`)
	out := filepath.Join(t.TempDir(), "out", "out")

	path, err := New(cfg).Build(context.Background(), "main :: () { return 7; }", out)
	be.Err(t, err, nil)
	be.Equal(t, path, out+".asm")

	bin, err := os.ReadFile(out + ".bin")
	be.Err(t, err, nil)
	be.True(t, strings.Contains(string(bin), "    _Return _Num 7\n"))
}

func TestBuildAssemblerFailure(t *testing.T) {
	cfg := shConfig(t, "echo 'error: illegal instruction' >&2; exit 2")
	_, err := New(cfg).Build(context.Background(), "main :: () {}", filepath.Join(t.TempDir(), "out"))
	be.Err(t, err, "exit status 2")
	be.Err(t, err, "illegal instruction")
}

func TestBuildAssemblerTimeout(t *testing.T) {
	cfg := shConfig(t, "exec sleep 5")
	cfg.Assembler.Timeout = config.Duration{Duration: 50 * time.Millisecond}

	start := time.Now()
	_, err := New(cfg).Build(context.Background(), "main :: () {}", filepath.Join(t.TempDir(), "out"))
	be.Err(t, err)
	be.True(t, time.Since(start) < 4*time.Second)
}

func TestBuildZeroTimeoutIsUnbounded(t *testing.T) {
	cfg := shConfig(t, "exit 0")
	cfg.Assembler.Timeout = config.Duration{}
	_, err := New(cfg).Build(context.Background(), "main :: () {}", filepath.Join(t.TempDir(), "out"))
	be.Err(t, err, nil)
}

func TestTACListingsSeparateNestedIterators(t *testing.T) {
	listings, err := New(nil).TAC("main :: (it) { for 0..1 { f(it); } }")
	be.Err(t, err, nil)
	be.True(t, strings.Contains(listings[0].String(), "param it_1\n"))
}

func TestBuildParseErrorDoesNotWrite(t *testing.T) {
	cfg := shConfig(t, "exit 0")
	out := filepath.Join(t.TempDir(), "out")
	_, err := New(cfg, WithDiagnostics(io.Discard)).Build(context.Background(), "main :: ( {", out)
	be.Err(t, err, "parse failed")
	_, statErr := os.Stat(out + ".asm")
	be.True(t, os.IsNotExist(statErr))
}
