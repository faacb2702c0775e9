package runner

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/aretw0/sprig/pkg/domain"
)

// JSONHandler implements the IOHandler interface for structured JSON-Lines communication.
type JSONHandler struct {
	Reader  *bufio.Reader
	Writer  io.Writer
	Encoder *json.Encoder
}

// FormMessage is the JSON line written for each form rendering.
type FormMessage struct {
	Type      string            `json:"type"`
	SessionID string            `json:"session_id"`
	Nodes     []domain.NodeView `json:"nodes"`
	Missing   []string          `json:"missing"`
	Prompt    string            `json:"prompt,omitempty"`
	Complete  bool              `json:"complete"`
}

// SystemMessage is the JSON line written for meta-messages.
type SystemMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// AnswerMessage is the object form accepted on input.
type AnswerMessage struct {
	NodeID string `json:"node_id"`
	Option string `json:"option"`
}

// NewJSONHandler creates a handler for JSON IO.
func NewJSONHandler(r io.Reader, w io.Writer) *JSONHandler {
	if r == nil {
		r = os.Stdin
	}
	if w == nil {
		w = os.Stdout
	}
	return &JSONHandler{
		Reader:  bufio.NewReader(r),
		Writer:  w,
		Encoder: json.NewEncoder(w),
	}
}

func (h *JSONHandler) Output(ctx context.Context, form Form) error {
	msg := FormMessage{
		Type:      "form",
		SessionID: form.SessionID,
		Nodes:     domain.Views(form.Nodes),
		Missing:   form.Missing,
		Complete:  form.Complete(),
	}
	if msg.Missing == nil {
		msg.Missing = []string{}
	}
	if form.Prompt != nil {
		msg.Prompt = form.Prompt.ID
	}
	return h.Encoder.Encode(msg)
}

// Input reads one line: a JSON string or plain text.
func (h *JSONHandler) Input(ctx context.Context) (string, error) {
	text, err := h.readLine(ctx)
	if err != nil {
		return "", err
	}
	return decodeLine(text)
}

// ReadCommand reads one line. An AnswerMessage object becomes a CmdAnswer with
// node_id and option taken verbatim; anything else is parsed like typed text.
func (h *JSONHandler) ReadCommand(ctx context.Context) (Command, error) {
	text, err := h.readLine(ctx)
	if err != nil {
		return Command{}, err
	}

	if strings.HasPrefix(text, "{") {
		var answer AnswerMessage
		if err := json.Unmarshal([]byte(text), &answer); err == nil && answer.NodeID != "" {
			if err := ValidateInput(answer.NodeID); err != nil {
				return Command{}, err
			}
			if err := ValidateInput(answer.Option); err != nil {
				return Command{}, err
			}
			return Command{Kind: CmdAnswer, NodeID: answer.NodeID, Option: answer.Option}, nil
		}
	}

	line, err := decodeLine(text)
	if err != nil {
		return Command{}, err
	}
	return ParseCommand(line), nil
}

func (h *JSONHandler) readLine(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := h.Reader.ReadString('\n')
	if err != nil && (err != io.EOF || strings.TrimSpace(text) == "") {
		return "", err
	}
	return strings.TrimSpace(text), nil
}

func decodeLine(text string) (string, error) {
	var val string
	if err := json.Unmarshal([]byte(text), &val); err == nil {
		text = val
	}
	if err := ValidateInput(text); err != nil {
		return "", err
	}
	return text, nil
}

func (h *JSONHandler) SystemOutput(ctx context.Context, msg string) error {
	return h.Encoder.Encode(SystemMessage{Type: "system", Message: msg})
}
