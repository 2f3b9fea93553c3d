//go:build ignore
// +build ignore

// run : go run config_gen.go -output-dir .

package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// BuildSelection is a compile-time switch that is selected by a build tag.
// When the tag is present the constant takes TaggedValue, otherwise !TaggedValue.
type BuildSelection struct {
	Constant    string
	Tag         string
	TaggedValue bool
	Comment     string
}

var buildSelections = map[string]BuildSelection{
	"profile": {
		Constant:    "BranchProfiling",
		Tag:         "mterp_noprofile",
		TaggedValue: false,
		Comment:     "backward branches decrement the hotness countdown",
	},
	"trace": {
		Constant:    "VerboseTrace",
		Tag:         "mterp_trace",
		TaggedValue: true,
		Comment:     "every dispatched instruction is reported to the thread's trace sink",
	},
}

func main() {
	outputDirFlag := flag.String("output-dir", ".", "Directory receiving the generated files")

	flag.Parse()

	var features []string
	for feature := range buildSelections {
		features = append(features, feature)
	}
	sort.Strings(features)

	for _, feature := range features {
		sel := buildSelections[feature]
		generateSelectionFile(filepath.Join(*outputDirFlag, feature+"_on.go"), sel, true)
		generateSelectionFile(filepath.Join(*outputDirFlag, feature+"_off.go"), sel, false)
	}
}

// generateSelectionFile writes the variant of sel whose constant equals value.
func generateSelectionFile(outputFile string, sel BuildSelection, value bool) {
	f, err := os.Create(outputFile)
	if err != nil {
		fmt.Printf("Error creating %s: %v\n", outputFile, err)
		os.Exit(1)
	}
	defer f.Close()

	constraint := sel.Tag
	if value != sel.TaggedValue {
		constraint = "!" + sel.Tag
	}

	fmt.Fprintf(f, "// Code generated by config_gen.go; DO NOT EDIT.\n\n")
	fmt.Fprintf(f, "//go:build %s\n\n", constraint)
	fmt.Fprintln(f, "package constants")
	fmt.Fprintln(f)
	fmt.Fprintf(f, "// %s: %s.\n", sel.Constant, sel.Comment)
	fmt.Fprintf(f, "const %s = %t\n", sel.Constant, value)
}
