// Package compiler turns hyperparameter YAML into domain documents.
//
// Besides plain YAML values the parser understands these tags:
//
//	model: !new:nn.linear        # construct now
//	  in_features: 80
//	  out_features: !ref <d_model>
//	opt: !name:optim.adam        # capture a partial, call later
//	  lr: 0.001
//	out: !ref <folder>/save      # interpolation
//	ffn: !ref <d_model> * 4      # arithmetic
//	backup: !copy <model>
//	data_folder: !PLACEHOLDER
//	seed: !seed 1234
//
// Overrides are YAML snippets merged over the document before compilation.
package compiler
