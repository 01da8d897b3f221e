// Command tecfag-rag is the retrieval assistant for the Tecfag
// internal document base: index technical documents and ask questions
// answered from their content.
package main

import (
	"os"

	"github.com/tecfag/rag/cmd/tecfag-rag/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
