package runner

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/sprig/pkg/domain"
)

// ContentRenderer transforms a node label before it is printed.
// This allows for TUI rendering (markdown to ANSI) without coupling the core package.
type ContentRenderer func(string) (string, error)

// TextHandler implements the standard text-based interface.
type TextHandler struct {
	Reader   *bufio.Reader
	Writer   io.Writer
	Renderer ContentRenderer

	// Prompt is printed before each read.
	Prompt string

	inputChan chan inputResult
	startOnce sync.Once
}

type inputResult struct {
	text string
	err  error
}

// TextHandlerOption defines configuration for TextHandler.
type TextHandlerOption func(*TextHandler)

// WithTextHandlerRenderer configures the content renderer.
func WithTextHandlerRenderer(renderer ContentRenderer) TextHandlerOption {
	return func(h *TextHandler) {
		h.Renderer = renderer
	}
}

// WithTextHandlerPrompt replaces the default "> " prompt.
func WithTextHandlerPrompt(prompt string) TextHandlerOption {
	return func(h *TextHandler) {
		h.Prompt = prompt
	}
}

// NewTextHandler creates a handler for standard text IO.
func NewTextHandler(r io.Reader, w io.Writer, opts ...TextHandlerOption) *TextHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	h := &TextHandler{
		Reader: bufio.NewReader(r),
		Writer: w,
		Prompt: "> ",
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *TextHandler) initPump() {
	h.startOnce.Do(func() {
		h.inputChan = make(chan inputResult)
		go h.pump()
	})
}

// pump reads lines in the background so Input can honor context cancellation.
func (h *TextHandler) pump() {
	for {
		text, err := h.Reader.ReadString('\n')
		if text != "" {
			h.inputChan <- inputResult{text: text}
		}
		if err != nil {
			if err == io.EOF {
				close(h.inputChan)
				return
			}
			h.inputChan <- inputResult{err: err}
			// Backoff for persistent read failures
			time.Sleep(50 * time.Millisecond)
		}
	}
}

// Output prints the visible nodes, indented by depth, followed by the options
// of the prompted node.
func (h *TextHandler) Output(ctx context.Context, form Form) error {
	var b strings.Builder
	fmt.Fprintln(&b)
	for _, n := range form.Nodes {
		indent := strings.Repeat("  ", n.Depth)
		label := h.label(n.Node)
		mark := " "
		switch {
		case n.Answered:
			mark = "x"
		case form.Prompt != nil && form.Prompt.ID == n.ID:
			mark = ">"
		}
		req := ""
		if n.Node.Required {
			req = " *"
		}
		if n.Answered {
			fmt.Fprintf(&b, "%s[%s] %s%s: %s\n", indent, mark, label, req, n.Answer)
		} else {
			fmt.Fprintf(&b, "%s[%s] %s%s\n", indent, mark, label, req)
		}
	}

	if form.Prompt != nil {
		fmt.Fprintln(&b)
		writeOptions(&b, form.Prompt.Node)
	} else if form.Complete() {
		fmt.Fprintln(&b, "\nAll required questions answered.")
	} else {
		fmt.Fprintf(&b, "\nStill missing: %s\n", strings.Join(form.Missing, ", "))
	}

	_, err := io.WriteString(h.Writer, b.String())
	return err
}

func (h *TextHandler) label(n *domain.Node) string {
	label := n.Label
	if label == "" {
		label = n.ID
	}
	if h.Renderer == nil {
		return label
	}
	rendered, err := h.Renderer(label)
	if err != nil {
		return label
	}
	return strings.TrimSpace(rendered)
}

func writeOptions(b *strings.Builder, n *domain.Node) {
	if n.Layout == domain.LayoutHorizontal {
		parts := make([]string, len(n.Options))
		for i, opt := range n.Options {
			parts[i] = fmt.Sprintf("%d) %s", i+1, opt)
		}
		fmt.Fprintln(b, strings.Join(parts, "   "))
		return
	}
	for i, opt := range n.Options {
		fmt.Fprintf(b, "  %d) %s\n", i+1, opt)
	}
}

func (h *TextHandler) Input(ctx context.Context) (string, error) {
	h.initPump()

	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		default:
			fmt.Fprint(h.Writer, h.Prompt)
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case res, ok := <-h.inputChan:
			if !ok {
				return "", io.EOF
			}
			if res.err != nil {
				return "", res.err
			}
			line := strings.TrimSpace(res.text)
			if err := ValidateInput(line); err != nil {
				fmt.Fprintf(h.Writer, "Error: %v. Please try again.\n", err)
				continue
			}
			return line, nil
		}
	}
}

func (h *TextHandler) SystemOutput(ctx context.Context, msg string) error {
	_, err := fmt.Fprintf(h.Writer, "\n[System] %s\n", msg)
	return err
}
