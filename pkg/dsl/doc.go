/*
Package dsl provides a Go DSL for building hyperparameter documents programmatically.

It produces the same *domain.Document the YAML parser does, so a document can be
assembled in code (tests, generated sweeps) and resolved, validated or formatted
like one loaded from a file.

Example usage:

	b := dsl.New("sweep")

	b.Add("seed").Seed(1986)
	b.Add("data_folder").Placeholder()
	b.Add("train_csv").Template("<data_folder>/train.csv")
	b.Add("d_model").Value(256)

	b.Add("encoder").New("nn.linear").
		With("input_size", dsl.Ref("d_model")).
		With("n_neurons", 512)

	b.Add("opt_class").Name("optim.adam").With("lr", 0.001)

	doc, err := b.Build()
	// ... pass doc to hpgraph.Builder.Resolve
*/
package dsl
