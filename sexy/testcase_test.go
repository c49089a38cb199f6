package sexy

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

const fence = "```"

func TestExtractTestCases_BasicTest(t *testing.T) {
	markdown := `# Binary expressions

## Test: +
` + fence + `jai-expr
1 + 2
` + fence + `
` + fence + `ast
(binary "+" (number 1) (number 2))
` + fence + `

## Test: -
` + fence + `jai-expr
1 - 2
` + fence + `
` + fence + `ast
(binary "-" (number 1) (number 2))
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 2)

	tc1 := testCases[0]
	be.Equal(t, tc1.Name, "+")
	be.Equal(t, tc1.Input, "1 + 2")
	be.Equal(t, tc1.InputType, InputTypeExpr)
	be.Equal(t, len(tc1.Assertions), 1)
	be.Equal(t, tc1.Assertions[0].Type, AssertionTypeAST)
	be.Equal(t, tc1.Assertions[0].Content, `(binary "+" (number 1) (number 2))`)
	be.Equal(t, tc1.Assertions[0].ParsedSexy.String(), `(binary "+" (number 1) (number 2))`)

	tc2 := testCases[1]
	be.Equal(t, tc2.Name, "-")
	be.Equal(t, tc2.Input, "1 - 2")
	be.Equal(t, tc2.Assertions[0].ParsedSexy.String(), `(binary "-" (number 1) (number 2))`)
}

func TestExtractTestCases_AllAssertionTypes(t *testing.T) {
	markdown := `## Test: everything
` + fence + `jai-program
main :: () {
    x := 1 + 2;
}
` + fence + `
` + fence + `ast
(program (proc "main" ...))
` + fence + `
` + fence + `tac
_t0 = 1 + 2
x = _t0
` + fence + `
` + fence + `asm
    _Assign x, <_Var _t0>
` + fence + `
` + fence + `compile-error
nothing
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)

	tc := testCases[0]
	be.Equal(t, tc.InputType, InputTypeProgram)
	be.Equal(t, tc.Input, "main :: () {\n    x := 1 + 2;\n}")
	be.Equal(t, len(tc.Assertions), 4)
	be.Equal(t, tc.Assertions[0].Type, AssertionTypeAST)
	be.Equal(t, tc.Assertions[1].Type, AssertionTypeTAC)
	be.Equal(t, tc.Assertions[1].Content, "_t0 = 1 + 2\nx = _t0")
	be.Equal(t, tc.Assertions[2].Type, AssertionTypeASM)
	be.Equal(t, tc.Assertions[2].Content, "    _Assign x, <_Var _t0>")
	be.Equal(t, tc.Assertions[3].Type, AssertionTypeCompileError)

	// Only ast fences are parsed.
	be.True(t, tc.Assertions[0].ParsedSexy != nil)
	be.True(t, tc.Assertions[1].ParsedSexy == nil)
	be.True(t, tc.Assertions[2].ParsedSexy == nil)
}

func TestExtractTestCases_EmptyFile(t *testing.T) {
	testCases, err := ExtractTestCases("")
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 0)
}

func TestExtractTestCases_NoTestCases(t *testing.T) {
	markdown := `# Notes

Just prose, and a plain block:

` + fence + `
not a test
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 0)
}

func TestExtractTestCases_EmptyProgramInput(t *testing.T) {
	markdown := `## Test: empty
` + fence + `jai-program
` + fence + `
` + fence + `ast
(program)
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, testCases[0].Input, "")
	be.Equal(t, testCases[0].InputType, InputTypeProgram)
}

func TestExtractTestCases_Errors(t *testing.T) {
	tests := []struct {
		name     string
		markdown string
		err      string
	}{
		{
			"fence outside test",
			fence + "jai-expr\n1\n" + fence + "\n",
			"jai-expr fence found outside of test case",
		},
		{
			"unknown fence outside test",
			fence + "go\nx := 1\n" + fence + "\n",
			"unknown fence language 'go' found outside of test case",
		},
		{
			"unknown fence in test",
			"## Test: t\n" + fence + "jai-expr\n1\n" + fence + "\n" + fence + "python\nprint()\n" + fence + "\n",
			"unknown fence language 'python' in test 't'",
		},
		{
			"invalid ast",
			"## Test: t\n" + fence + "jai-expr\n1\n" + fence + "\n" + fence + "ast\n(number 1\n" + fence + "\n",
			"failed to parse ast assertion in test 't'",
		},
		{
			"missing input",
			"## Test: no input\n" + fence + "ast\n(number 1)\n" + fence + "\n",
			"test 'no input' has no input fence",
		},
		{
			"missing assertions",
			"## Test: no assertions\n" + fence + "jai-expr\n1\n" + fence + "\n",
			"test 'no assertions' has no assertion fences",
		},
		{
			"multiple inputs",
			"## Test: twice\n" + fence + "jai-expr\n1\n" + fence + "\n" + fence + "jai-expr\n2\n" + fence + "\n",
			"multiple input fences found in test 'twice'",
		},
		{
			"error in second test",
			"## Test: ok\n" + fence + "jai-expr\n1\n" + fence + "\n" + fence + "ast\n_\n" + fence + "\n## Test: broken\n" + fence + "ast\n_\n" + fence + "\n",
			"test 'broken' has no input fence",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractTestCases(tt.markdown)
			be.Err(t, err, tt.err)
		})
	}
}

func TestExtractTestCases_LineNumbers(t *testing.T) {
	markdown := "# Title\n\nprose\n\n" + fence + "rust\nfn main() {}\n" + fence + "\n"
	_, err := ExtractTestCases(markdown)
	be.Err(t, err, "line 6:")

	markdown = "## Test: t\n" + fence + "jai-expr\n1\n" + fence + "\n\n" + fence + "tac\n_t0 = 1\n" + fence + "\n"
	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, testCases[0].Assertions[0].Line, 7)
}

func TestExtractTestCases_HeadingsWithoutPrefix(t *testing.T) {
	markdown := `## Test: first
` + fence + `jai-expr
a
` + fence + `

### Details

` + fence + `ast
(ident "a")
` + fence

	testCases, err := ExtractTestCases(markdown)
	be.Err(t, err, nil)
	be.Equal(t, len(testCases), 1)
	be.Equal(t, len(testCases[0].Assertions), 1)
	be.True(t, strings.HasPrefix(testCases[0].Assertions[0].Content, "(ident"))
}
