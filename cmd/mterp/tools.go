package main

import (
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"mterp/pkg/dex"
	"mterp/pkg/profile"
)

func asmCommand(args []string) error {
	fs := flag.NewFlagSet("asm", flag.ExitOnError)
	out := fs.String("o", "", "Output container path")
	fs.Parse(args)
	if fs.NArg() != 1 || *out == "" {
		return fmt.Errorf("usage: mterp asm -o out.mtb program.s")
	}
	src, err := os.ReadFile(fs.Arg(0))
	if err != nil {
		return err
	}
	prog, err := dex.Assemble(string(src))
	if err != nil {
		return fmt.Errorf("%s: %w", fs.Arg(0), err)
	}
	if err := os.WriteFile(*out, prog.Encode(), 0o644); err != nil {
		return err
	}
	fmt.Printf("%s: %d methods, hash %x\n", *out, len(prog.Methods), prog.Hash[:8])
	return nil
}

func disasmCommand(args []string) error {
	fs := flag.NewFlagSet("disasm", flag.ExitOnError)
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: mterp disasm program")
	}
	prog, err := loadProgram(fs.Arg(0))
	if err != nil {
		return err
	}
	return prog.Disassemble(os.Stdout)
}

func profileCommand(args []string) error {
	fs := flag.NewFlagSet("profile", flag.ExitOnError)
	opts := addCommonFlags(fs)
	path := fs.String("profile", "", "Profile pebble directory")
	reset := fs.Bool("reset", false, "Delete the program's counts instead of listing them")
	fs.Parse(args)
	if fs.NArg() != 1 {
		return fmt.Errorf("usage: mterp profile -profile dir program")
	}
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	if *path != "" {
		cfg.Profile.Path = *path
	}
	if cfg.Profile.Path == "" {
		return fmt.Errorf("no profile directory configured")
	}
	prog, err := loadProgram(fs.Arg(0))
	if err != nil {
		return err
	}
	store, err := profile.Open(cfg.Profile.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	if *reset {
		return store.Reset(prog.Hash)
	}
	entries, err := store.Methods(prog.Hash)
	if err != nil {
		return err
	}
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "BRANCHES\tMETHOD")
	for _, e := range entries {
		fmt.Fprintf(w, "%d\t%s\n", e.Count, e.Method)
	}
	return w.Flush()
}
