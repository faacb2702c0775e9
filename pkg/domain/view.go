package domain

// VisibleNode is a single render instruction: the node, its depth relative to
// the traversal start, and its current answer.
type VisibleNode struct {
	Node     *Node  `json:"-"`
	ID       string `json:"id"`
	Depth    int    `json:"depth"`
	Visible  bool   `json:"visible"`
	Answer   string `json:"answer,omitempty"`
	Answered bool   `json:"answered"`
}

// NodeView is the JSON-friendly projection of a VisibleNode used by transports.
type NodeView struct {
	ID       string   `json:"id"`
	Label    string   `json:"label,omitempty"`
	Layout   Layout   `json:"layout,omitempty"`
	Options  []string `json:"options"`
	Required bool     `json:"required,omitempty"`
	Depth    int      `json:"depth"`
	Visible  bool     `json:"visible"`
	Answer   *string  `json:"answer"`
}

// View projects a VisibleNode into a NodeView.
func (v VisibleNode) View() NodeView {
	nv := NodeView{
		ID:      v.ID,
		Depth:   v.Depth,
		Visible: v.Visible,
		Options: []string{},
	}
	if v.Node != nil {
		nv.Label = v.Node.Label
		nv.Layout = v.Node.Layout
		nv.Required = v.Node.Required
		if v.Node.Options != nil {
			nv.Options = v.Node.Options
		}
	}
	if v.Answered {
		a := v.Answer
		nv.Answer = &a
	}
	return nv
}

// Views projects a whole render sequence.
func Views(nodes []VisibleNode) []NodeView {
	out := make([]NodeView, len(nodes))
	for i, n := range nodes {
		out[i] = n.View()
	}
	return out
}
