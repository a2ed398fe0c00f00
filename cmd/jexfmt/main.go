// Command jexfmt demonstrates the main features of the JEX engine:
// compile once, execute many, libraries, and the standalone normalizer.
//
// Run with:
//
//	go run ./cmd/jexfmt
package main

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/sandrolain/jex"
	"github.com/sandrolain/jex/pkg/normalizer"
	"github.com/sandrolain/jex/pkg/value"
)

func fromJSON(raw string) value.Node {
	var v interface{}
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		log.Fatalf("fromJSON: %v", err)
	}
	return value.FromGo(v)
}

func printResult(label string, n value.Node, err error) {
	fmt.Printf("  %-36s ", label+":")
	if err != nil {
		fmt.Printf("ERROR: %v\n", err)
		return
	}
	text, merr := value.MarshalNode(n)
	if merr != nil {
		fmt.Printf("ERROR: %v\n", merr)
		return
	}
	fmt.Println(text)
}

func section(title string) {
	fmt.Printf("\n── %s\n", title)
}

var cartJSON = `{
	"items": [
		{"name": "Widget", "price": 49.99, "qty": 2},
		{"name": "Gadget", "price": 149.99, "qty": 1}
	],
	"discountPct": 10
}`

func main() {
	cart := fromJSON(cartJSON)

	section("compile once, execute many")
	prog, err := jex.Compile(`
%let total = 0;
%foreach item %in $in.items %do;
  %let total = &total + (&item.price * &item.qty);
%end;
%let discount = &total * ($in.discountPct / 100);
%set $.total = &total - &discount;
%set $.currency = "EUR";
`, jex.CompileOptions{Strict: false, AllowUserFunctions: true})
	if err != nil {
		log.Fatalf("compile: %v", err)
	}

	out, err := prog.Execute(cart, nil)
	printResult("cart total after discount", out, err)

	// The same compiled program can be re-executed against a second
	// input without recompiling.
	cart2 := fromJSON(`{"items":[{"name":"Gizmo","price":9.99,"qty":5}],"discountPct":0}`)
	out2, err := prog.Execute(cart2, nil)
	printResult("second cart, same program", out2, err)

	section("library functions")
	eng := jex.NewEngine()
	if _, err := eng.LoadLibrary("mathx", `
%func square(x);
  %return x * x;
%endfunc;
`); err != nil {
		log.Fatalf("load library: %v", err)
	}
	libProg, err := eng.Compile(`%set $.area = square($in.side);`, jex.CompileOptions{Strict: false, AllowUserFunctions: true})
	if err != nil {
		log.Fatalf("compile: %v", err)
	}
	libOut, err := libProg.Execute(fromJSON(`{"side":7}`), nil)
	printResult("library function call", libOut, err)

	section("standalone normalizer")
	nested := fromJSON(`{"payload":"{\"nested\":{\"ok\":true}}"}`)
	normalized, err := normalizer.Normalize(nested, normalizer.DefaultOptions())
	if err != nil {
		log.Fatalf("normalize: %v", err)
	}
	printResult("expanded embedded JSON string", normalized, err)
}
