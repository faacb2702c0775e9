// Package schema turns loosely typed questionnaire documents into validated trees.
//
// A document is JSON or YAML with a top-level "data" array of root nodes:
//
//	data:
//	  - id: smoker
//	    label: Do you smoke?
//	    options: [yes, no]
//	    children:
//	      - id: per-day
//	        options: ["1-5", "6+"]
//
// Parsing is a validated construction step: the raw document is decoded with
// mapstructure into a DTO, converted to domain nodes, checked structurally by
// domain.NewTree, and finally checked against the correspondence policy.
// Every failure matches domain.ErrMalformedTree with errors.Is, and content
// problems are reported together in an AggregateError:
//
//	tree, err := schema.Parse(data, schema.FormatYAML, domain.PolicyPositional)
//	if err != nil {
//	    for _, e := range schema.ValidationErrors(err) {
//	        log.Println(e)
//	    }
//	}
package schema
