// Package main provides the Dynamite CLI.
package main

import (
	"fmt"
	"os"

	"github.com/dynamite-ml/dynamite/internal/serialization"
)

const version = "v0.1.0-dev"

func main() {
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "version":
			fmt.Printf("Dynamite %s\n", version)
			return
		case "inspect":
			if len(os.Args) < 3 {
				fmt.Fprintln(os.Stderr, "usage: dynamite inspect <checkpoint.dynm>")
				os.Exit(2)
			}
			if err := inspect(os.Args[2]); err != nil {
				fmt.Fprintf(os.Stderr, "dynamite: %v\n", err)
				os.Exit(1)
			}
			return
		}
	}

	fmt.Println("Dynamite - model composition for Go")
	fmt.Printf("Version: %s\n\n", version)
	fmt.Println("Commands:")
	fmt.Println("  version              Show version")
	fmt.Println("  inspect <file>       List tensors in a .dynm checkpoint")
}

// inspect prints the manifest of a checkpoint file.
func inspect(path string) error {
	reader, err := serialization.NewReader(path)
	if err != nil {
		return err
	}
	defer func() { _ = reader.Close() }()

	manifest := reader.Manifest()
	fmt.Printf("%s: format v%d, model %s, created %s\n",
		path, manifest.FormatVersion, manifest.ModelType,
		manifest.CreatedAt.Format("2006-01-02 15:04:05"))
	for _, meta := range manifest.Tensors {
		fmt.Printf("  %-40s %-8s %v (%d bytes)\n", meta.Name, meta.DType, meta.Shape, meta.Size)
	}
	return nil
}
