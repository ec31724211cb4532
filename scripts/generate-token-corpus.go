//go:build ignore

// Package main generates a synthetic token-file corpus for benchmarking.
// Usage: go run scripts/generate-token-corpus.go -buffers 200 -output testdata/bench
//
// Each output file follows the <bufferID>.<filetype>.tokens.jsonl naming
// convention so the corpus can be fed straight to `bufwords index --dir`.
package main

import (
	"bufio"
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

var (
	numBuffers = flag.Int("buffers", 200, "Number of buffer token files to generate")
	tokensPer  = flag.Int("tokens", 500, "Tokens per buffer")
	outputDir  = flag.String("output", "testdata/bench", "Output directory")
	seed       = flag.Int64("seed", 42, "Random seed for reproducibility")
)

type token struct {
	Word string `json:"word"`
	Kind string `json:"kind,omitempty"`
}

// Vocabulary pools per filetype. Keywords repeat heavily; identifiers are
// composed from stems so prefix lookups hit realistic fan-out.
var filetypes = []struct {
	name     string
	keywords []string
	stems    []string
}{
	{
		name:     "go",
		keywords: []string{"func", "return", "if", "for", "range", "defer", "var", "type", "struct", "interface"},
		stems:    []string{"handler", "config", "store", "index", "buffer", "worker", "client", "result", "writer", "parser"},
	},
	{
		name:     "python",
		keywords: []string{"def", "return", "if", "for", "in", "class", "import", "with", "lambda", "yield"},
		stems:    []string{"request", "session", "model", "field", "query", "loader", "schema", "token", "context", "builder"},
	},
	{
		name:     "typescript",
		keywords: []string{"const", "let", "function", "return", "if", "for", "async", "await", "export", "interface"},
		stems:    []string{"component", "props", "state", "effect", "callback", "reducer", "selector", "route", "fetcher", "store"},
	},
}

var suffixes = []string{"", "s", "Count", "Map", "List", "Impl", "Factory", "Error", "Opts", "ID"}

func main() {
	flag.Parse()

	rng := rand.New(rand.NewSource(*seed))

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "create output dir: %v\n", err)
		os.Exit(1)
	}

	total := 0
	for i := 0; i < *numBuffers; i++ {
		ft := filetypes[i%len(filetypes)]
		name := fmt.Sprintf("%d.%s.tokens.jsonl", i+1, ft.name)

		n, err := writeBuffer(filepath.Join(*outputDir, name), ft.keywords, ft.stems, *tokensPer, rng)
		if err != nil {
			fmt.Fprintf(os.Stderr, "write %s: %v\n", name, err)
			os.Exit(1)
		}
		total += n
	}

	fmt.Printf("generated %d token files (%d tokens) in %s\n", *numBuffers, total, *outputDir)
}

func writeBuffer(path string, keywords, stems []string, count int, rng *rand.Rand) (int, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)

	for i := 0; i < count; i++ {
		var t token
		// Roughly every third token is a keyword, matching real code density.
		if rng.Intn(3) == 0 {
			t = token{Word: keywords[rng.Intn(len(keywords))], Kind: "kw"}
		} else {
			word := stems[rng.Intn(len(stems))] + suffixes[rng.Intn(len(suffixes))]
			t = token{Word: word, Kind: "id"}
		}
		if err := enc.Encode(t); err != nil {
			return i, err
		}
	}

	return count, w.Flush()
}
