package text_test

import (
	"context"
	"fmt"

	"github.com/walteh/proxypatch/pkg/text"
)

func ExamplePipeline_Apply() {
	// Build an ordered pipeline
	pipeline := text.NewPipeline(
		text.InsertAfter("add-import", "package main\n", "\nimport \"fmt\"\n"),
		text.MustPattern("quote-calls", `print\(([a-z]+)\)`, `fmt.Println(${1})`),
		text.NewLiteral("rename", "oldName", "newName"),
	)

	// Apply it to some content
	result := pipeline.Apply(context.Background(), "package main\nfunc f() { print(x) }\n")

	// Print results
	fmt.Print(string(result.ModifiedContent))
	for _, step := range result.Steps {
		fmt.Printf("%s: %d\n", step.Name, step.Matches)
	}

	// Output:
	// package main
	//
	// import "fmt"
	// func f() { fmt.Println(x) }
	// add-import: 1
	// quote-calls: 1
	// rename: 0
}

func ExamplePipeline_Validate() {
	pipeline := text.NewPipeline(
		text.NewLiteral("first", "foo", "bar"),
		text.NewLiteral("first", "baz", "qux"),
	)

	err := pipeline.Validate()
	fmt.Printf("Validation error: %v\n", err)

	// Output:
	// Validation error: step 1: name "first" already used by step 0
}
