package main

import (
	"context"
	"errors"
	"fmt"

	flag "github.com/spf13/pflag"

	md2latex "github.com/alnah/go-md2latex"
	"github.com/alnah/go-md2latex/internal/yamlutil"
)

// run dispatches the command in args[1] and returns the process exit code.
func run(ctx context.Context, args []string, env *Environment) int {
	if len(args) < 2 {
		printUsage(env.Stderr)
		return ExitUsage
	}

	cmd, cmdArgs := args[1], args[2:]

	switch cmd {
	case "latex":
		return runConvertCmd(ctx, modeLaTeX, cmdArgs, env)
	case "pdf":
		return runConvertCmd(ctx, modePDF, cmdArgs, env)
	case "meta":
		return report(runMeta(cmdArgs, env), env)
	case "doctor":
		return runDoctorCmd(ctx, cmdArgs, env)
	case "version", "--version":
		fmt.Fprintf(env.Stdout, "md2latex %s\n", Version)
		return ExitSuccess
	case "help", "-h", "--help":
		return runHelp(cmdArgs, env)
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", cmd)
		printUsage(env.Stderr)
		return ExitUsage
	}
}

// runConvertCmd parses flags and runs the latex or pdf command.
func runConvertCmd(ctx context.Context, mode outputMode, args []string, env *Environment) int {
	flags, positional, err := parseConvertFlags(mode, args, env.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return ExitSuccess
		}
		fmt.Fprintln(env.Stderr, err)
		return ExitUsage
	}
	return report(runConvert(ctx, mode, positional, flags, env), env)
}

// report prints err, if any, and maps it to an exit code.
func report(err error, env *Environment) int {
	if err != nil {
		fmt.Fprintf(env.Stderr, "error: %v\n", err)
	}
	return exitCodeFor(err)
}

// runMeta prints the front matter of a Markdown file as YAML.
func runMeta(args []string, env *Environment) error {
	if len(args) != 1 {
		return fmt.Errorf("%w: meta expects exactly one file", ErrUsage)
	}

	meta, err := md2latex.ExtractFrontMatter(args[0])
	if err != nil {
		return fmt.Errorf("%s: %w", args[0], err)
	}

	out, err := yamlutil.Marshal(meta)
	if err != nil {
		return fmt.Errorf("encoding front matter: %w", err)
	}
	_, err = env.Stdout.Write(out)
	return err
}
