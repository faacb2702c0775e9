/*
Package runner implements the interactive form loop and I/O orchestration for the Sprig engine.

It is the bridge between the stateless engine and a person (or a script) filling
in a form. The runner renders the visible nodes, prompts for the next unanswered
one, applies answers, and persists the session after every accepted change.

# Key Components

  - Runner: the loop. Render, prompt, answer, save.
  - IOHandler: decouples how the form is shown and input is read.
  - TextHandler: indented terminal rendering with numbered options.
  - JSONHandler: JSON-Lines for scripted or headless use.
  - ChangeInterceptor: policy hook consulted before an answer clears others.

# Commands

At the prompt the user can type:

	2             pick the second option of the prompted node
	dog           pick the option named "dog"
	kind=cat      answer any visible node, e.g. to revise an earlier choice
	skip          move past an optional node
	done          finish once nothing required is missing
	quit          leave; progress is already saved

# Usage

	r := runner.NewRunner(
		runner.WithStore(store),
		runner.WithSessionID("user-1"),
		runner.WithInputHandler(runner.NewTextHandler(os.Stdin, os.Stdout)),
	)

	final, err := r.Run(ctx, engine, state)
*/
package runner
