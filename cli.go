package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/strager/jaic/ast"
	"github.com/strager/jaic/logger"
)

func (a *app) buildCmd() *cobra.Command {
	var out string
	var noAssemble bool

	cmd := &cobra.Command{
		Use:   "build <file>",
		Short: "Compile a file and assemble it",
		Long: `Compile a file to <out>.asm and run the configured assembler on it.

Examples:
  jaic build hello.jai
  jaic build -o bin/hello --no-assemble hello.jai`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			u := a.unit(cmd, args[0])

			var path string
			if noAssemble {
				path, err = u.WriteAssembly(src, out)
			} else {
				path, err = u.Build(cmd.Context(), src, out)
			}
			if err != nil {
				return err
			}
			logger.Info("Build finished", "file", args[0], "output", path)
			if a.verbose {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "output", "o", "out/out", "output base name; .asm is appended")
	cmd.Flags().BoolVar(&noAssemble, "no-assemble", false, "write the assembly without running the assembler")
	return cmd
}

func (a *app) checkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check <file>",
		Short: "Parse and generate code without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			if err := a.unit(cmd, args[0]).Check(src); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", args[0])
			return nil
		},
	}
}

func (a *app) tokensCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tokens <file>",
		Short: "Print the token stream of a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			for _, tok := range a.unit(cmd, args[0]).Tokens(src) {
				fmt.Fprintln(cmd.OutOrStdout(), tok)
			}
			return nil
		},
	}
}

func (a *app) astCmd() *cobra.Command {
	var partial bool

	cmd := &cobra.Command{
		Use:   "ast <file>",
		Short: "Print the syntax tree of a file as an S-expression",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			u := a.unit(cmd, args[0])
			prog, err := u.Parse(src)
			if err != nil {
				if partial && u.Partial() != nil {
					fmt.Fprintln(cmd.OutOrStdout(), ast.Dump(u.Partial()))
				}
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ast.Dump(prog))
			return nil
		},
	}
	cmd.Flags().BoolVar(&partial, "partial", false, "print the incomplete tree when parsing fails")
	return cmd
}

func (a *app) tacCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "tac <file>",
		Short: "Print the three-address code of every procedure",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readSource(args[0])
			if err != nil {
				return err
			}
			listings, err := a.unit(cmd, args[0]).TAC(src)
			for _, l := range listings {
				fmt.Fprintf(cmd.OutOrStdout(), "proc %s:\n%s", l.Proc, l)
			}
			return err
		},
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "jaic %s\n", version)
		},
	}
}
