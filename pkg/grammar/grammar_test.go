package grammar

import (
	"os"
	"testing"

	"golang.org/x/exp/ebnf"
)

// TestEBNF keeps lumen.ebnf mechanically in sync with itself: a grammar
// that doesn't parse, or that references an undefined production, fails
// here instead of silently rotting as prose (§4.3, §4.4), the same check
// nenuphar's grammar_test.go runs over its own checked-in grammar.
func TestEBNF(t *testing.T) {
	f, err := os.Open("lumen.ebnf")
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	g, err := ebnf.Parse("lumen.ebnf", f)
	if err != nil {
		t.Fatal(err)
	}
	if err := ebnf.Verify(g, "Program"); err != nil {
		t.Fatal(err)
	}
}
