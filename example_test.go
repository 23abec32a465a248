package hpgraph_test

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/aretw0/hpgraph"
	"github.com/aretw0/hpgraph/pkg/domain"
	"github.com/aretw0/hpgraph/pkg/registry"
	"github.com/aretw0/hpgraph/pkg/schema"
)

// ExampleNew resolves a document against a host-supplied registry.
func ExampleNew() {
	reg := registry.NewRegistry()
	reg.Register("add_one", func(_ *registry.Call, args registry.Args) (any, error) {
		var in struct {
			X int `hp:"x"`
		}
		if err := args.Decode(&in); err != nil {
			return nil, err
		}
		return in.X + 1, nil
	}, registry.WithParams(schema.Schema{"x": schema.Int()}))

	b := hpgraph.New(hpgraph.WithRegistry(reg))
	doc, err := b.Parse([]byte("a: 5\nb: !new:add_one\n  x: !ref <a>\n"), "inline")
	if err != nil {
		log.Fatal(err)
	}

	g, err := b.Resolve(context.Background(), doc)
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(g.Values())
	// Output:
	// map[a:5 b:6]
}

// ExampleBuilder_Parse_overrides fills a placeholder from the command line.
func ExampleBuilder_Parse_overrides() {
	src := []byte(`
data_folder: !PLACEHOLDER
train_csv: !ref <data_folder>/train.csv
`)
	b := hpgraph.New()

	doc, _ := b.Parse(src, "inline")
	_, err := b.Resolve(context.Background(), doc)
	fmt.Println(errors.Is(err, domain.ErrMissingPlaceholder))

	doc, _ = b.Parse(src, "inline", "data_folder: /data")
	g, _ := b.Resolve(context.Background(), doc)
	csv, _ := g.Get("train_csv")
	fmt.Println(csv)
	// Output:
	// true
	// /data/train.csv
}

// ExampleBuilder_Order shows the construction order: the seed first, then
// every node after the nodes it references.
func ExampleBuilder_Order() {
	b := hpgraph.New()
	doc, _ := b.Parse([]byte(`
model: !new:nn.sequential [!ref <enc>, !ref <dec>]
dec: !new:nn.linear {input_size: !ref <d>, n_neurons: 10}
enc: !new:nn.linear {input_size: 10, n_neurons: !ref <d>}
d: 64
seed: !seed 7
`), "inline")

	order, err := b.Order(doc)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(order)
	// Output:
	// [seed d dec enc model]
}
