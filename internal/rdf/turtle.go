package rdf

import (
	"fmt"
	"io"
	"os"

	krdf "github.com/knakk/rdf"
)

// WriteTurtle serializes the triples in Turtle.
func WriteTurtle(w io.Writer, triples []krdf.Triple) error {
	enc := krdf.NewTripleEncoder(w, krdf.Turtle)
	for _, t := range triples {
		if err := enc.Encode(t); err != nil {
			return fmt.Errorf("rdf: encode triple: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("rdf: close encoder: %w", err)
	}
	return nil
}

// WriteTurtleFile serializes the triples to a Turtle file, creating or
// truncating it.
func WriteTurtleFile(path string, triples []krdf.Triple) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("rdf: create %s: %w", path, err)
	}
	if err := WriteTurtle(f, triples); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("rdf: close %s: %w", path, err)
	}
	return nil
}
