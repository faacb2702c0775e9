/*
Package dsl provides a Go DSL (Domain Specific Language) for programmatically constructing Sprig question trees.

It allows developers to define branching forms using a type-safe, fluent builder pattern
instead of relying on external YAML or JSON files. This is particularly useful for dynamic form
generation, unit testing, and leveraging IDE autocompletion/type-checking.

Example usage:

	b := dsl.New()

	b.Question("pet").
		Label("Do you have a pet?").
		Required().
		On("yes", dsl.Q("kind").Options("cat", "dog")).
		On("no", dsl.Q("want").Options("yes", "no"))

	// The result can be used as a ports.TreeLoader
	loader, err := b.Build(domain.PolicyPositional)
	// ... pass loader to sprig.New("", sprig.WithLoader(loader))

On pairs an option with the child it reveals, so the positional correspondence
(Children[k] belongs to Options[k]) holds by construction.
*/
package dsl
