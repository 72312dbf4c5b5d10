// Package lineview is a widget.View that prints finished turns as plain lines,
// for the one-shot commands.
package lineview

import (
	"fmt"
	"io"

	"github.com/papercomputeco/radiant/pkg/image"
	"github.com/papercomputeco/radiant/widget"
)

// View prints each turn once its text is final. Placeholders are never
// printed.
type View struct {
	out       io.Writer
	assistant string

	turns   []widget.Turn
	reloads int
}

// New returns a View writing to out and labelling replies with assistant.
func New(out io.Writer, assistant string) *View {
	return &View{out: out, assistant: assistant}
}

// Reloads counts completed clears.
func (v *View) Reloads() int {
	return v.reloads
}

func (v *View) AppendTurn(turn widget.Turn) widget.TurnID {
	v.turns = append(v.turns, turn)
	if !turn.Placeholder {
		v.print(turn)
	}
	return widget.TurnID(len(v.turns) - 1)
}

func (v *View) SetTurnText(id widget.TurnID, text string) {
	if int(id) < 0 || int(id) >= len(v.turns) {
		return
	}
	t := &v.turns[id]
	t.Text = text
	t.Placeholder = false
	v.print(*t)
}

func (v *View) print(t widget.Turn) {
	switch t.Role {
	case widget.RoleUser:
		if t.HasImage {
			fmt.Fprintf(v.out, "You: [image] %s\n", t.Text)
			return
		}
		fmt.Fprintf(v.out, "You: %s\n", t.Text)
	default:
		fmt.Fprintf(v.out, "%s: %s\n", v.assistant, t.Text)
	}
}

func (v *View) Reload() {
	v.turns = nil
	v.reloads++
}

func (v *View) ClearInput()                {}
func (v *View) ShowPreview(*image.Pending) {}
func (v *View) HidePreview()               {}
func (v *View) ShowDialog()                {}
func (v *View) HideDialog()                {}
func (v *View) SetBusy(bool)               {}
func (v *View) ScrollToBottom()            {}

var _ widget.View = (*View)(nil)
