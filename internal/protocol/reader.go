// Package protocol is the line-oriented command parser and token reader,
// explicitly out of scope per spec §1 ("the line-oriented command parser,
// the token reader, output formatting details beyond their content...are
// treated as external collaborators"). It carries no scheduling or
// warehouse logic; it only turns whitespace-delimited stdin tokens into
// typed commands and writes protocol responses.
package protocol

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/mrossi/pasticceria/internal/simerr"
	"github.com/mrossi/pasticceria/internal/warehouse"
)

// CommandKind identifies which of the four commands in spec §4.G a
// Command carries.
type CommandKind int

const (
	AddRecipe CommandKind = iota
	RemoveRecipe
	Replenishment
	PlaceOrder
)

// IngredientQty is one (ingredient, qty) pair, used by AddRecipe.
type IngredientQty struct {
	Ingredient string
	Qty        int32
}

// Command is one parsed input line.
type Command struct {
	Kind CommandKind

	// AddRecipe / RemoveRecipe
	RecipeName  string
	Ingredients []IngredientQty // AddRecipe only

	// Replenishment
	Triples []warehouse.Replenishment

	// PlaceOrder
	OrderQty int32
}

// Header is the mandatory first line of input: periodicity and capacity.
type Header struct {
	Periodicity int64
	Capacity    int64
}

// Reader tokenizes stdin line-by-line and parses it into Commands.
type Reader struct {
	scanner *bufio.Scanner
}

// NewReader wraps r for command parsing.
func NewReader(r io.Reader) *Reader {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	return &Reader{scanner: s}
}

// ReadHeader parses the mandatory first line, "periodicity capacity".
func (rd *Reader) ReadHeader() (Header, error) {
	if !rd.scanner.Scan() {
		return Header{}, simerr.NewFatal("missing header line")
	}
	fields := strings.Fields(rd.scanner.Text())
	if len(fields) != 2 {
		return Header{}, simerr.NewFatal("malformed header line: %q", rd.scanner.Text())
	}
	periodicity, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return Header{}, simerr.NewFatal("malformed periodicity: %v", err)
	}
	capacity, err := strconv.ParseInt(fields[1], 10, 64)
	if err != nil {
		return Header{}, simerr.NewFatal("malformed capacity: %v", err)
	}
	return Header{Periodicity: periodicity, Capacity: capacity}, nil
}

// Next parses the next command line. It returns io.EOF (not wrapped) once
// input is exhausted, so callers can use it as their loop-termination
// signal exactly as the command loop in spec §4.G expects.
func (rd *Reader) Next() (Command, error) {
	if !rd.scanner.Scan() {
		if err := rd.scanner.Err(); err != nil {
			return Command{}, simerr.NewFatal("reading input: %v", err)
		}
		return Command{}, io.EOF
	}

	fields := strings.Fields(rd.scanner.Text())
	if len(fields) == 0 {
		return rd.Next() // tolerate blank lines between commands
	}

	switch fields[0] {
	case "aggiungi_ricetta":
		return parseAddRecipe(fields[1:])
	case "rimuovi_ricetta":
		return parseRemoveRecipe(fields[1:])
	case "rifornimento":
		return parseReplenishment(fields[1:])
	case "ordine":
		return parseOrder(fields[1:])
	default:
		return Command{}, simerr.NewFatal("unknown command keyword: %q", fields[0])
	}
}

func parseAddRecipe(fields []string) (Command, error) {
	if len(fields) < 1 {
		return Command{}, simerr.NewFatal("aggiungi_ricetta: missing recipe name")
	}
	name := fields[0]
	rest := fields[1:]
	if len(rest)%2 != 0 {
		return Command{}, simerr.NewFatal("aggiungi_ricetta: trailing token without a quantity")
	}
	ingredients := make([]IngredientQty, 0, len(rest)/2)
	for i := 0; i < len(rest); i += 2 {
		qty, err := strconv.ParseInt(rest[i+1], 10, 32)
		if err != nil {
			return Command{}, simerr.NewFatal("aggiungi_ricetta: malformed quantity: %v", err)
		}
		ingredients = append(ingredients, IngredientQty{Ingredient: rest[i], Qty: int32(qty)})
	}
	return Command{Kind: AddRecipe, RecipeName: name, Ingredients: ingredients}, nil
}

func parseRemoveRecipe(fields []string) (Command, error) {
	if len(fields) != 1 {
		return Command{}, simerr.NewFatal("rimuovi_ricetta: expected exactly one recipe name")
	}
	return Command{Kind: RemoveRecipe, RecipeName: fields[0]}, nil
}

func parseReplenishment(fields []string) (Command, error) {
	if len(fields)%3 != 0 || len(fields) == 0 {
		return Command{}, simerr.NewFatal("rifornimento: tokens must come in (ing qty exp) triples")
	}
	triples := make([]warehouse.Replenishment, 0, len(fields)/3)
	for i := 0; i < len(fields); i += 3 {
		qty, err := strconv.ParseInt(fields[i+1], 10, 32)
		if err != nil {
			return Command{}, simerr.NewFatal("rifornimento: malformed quantity: %v", err)
		}
		exp, err := strconv.ParseInt(fields[i+2], 10, 64)
		if err != nil {
			return Command{}, simerr.NewFatal("rifornimento: malformed expiration: %v", err)
		}
		triples = append(triples, warehouse.Replenishment{
			Ingredient: fields[i],
			Quantity:   int32(qty),
			Expiration: exp,
		})
	}
	return Command{Kind: Replenishment, Triples: triples}, nil
}

func parseOrder(fields []string) (Command, error) {
	if len(fields) != 2 {
		return Command{}, simerr.NewFatal("ordine: expected recipe name and quantity")
	}
	qty, err := strconv.ParseInt(fields[1], 10, 32)
	if err != nil {
		return Command{}, simerr.NewFatal("ordine: malformed quantity: %v", err)
	}
	return Command{Kind: PlaceOrder, RecipeName: fields[0], OrderQty: int32(qty)}, nil
}
