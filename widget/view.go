package widget

import "github.com/papercomputeco/radiant/pkg/image"

// Role attributes a turn to one side of the conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// TurnID identifies a turn previously appended to a View.
type TurnID int

// Turn is one entry of the chat log as handed to a View. Text is always
// escaped before it reaches the view.
type Turn struct {
	Role        Role
	Text        string
	HasImage    bool // User turn sent with an attachment
	Placeholder bool // Assistant turn still waiting for its reply
}

// View is everything the Controller needs from the surface it drives. All
// methods are called from the event loop goroutine.
type View interface {
	// AppendTurn adds a turn to the bottom of the log.
	AppendTurn(turn Turn) TurnID
	// SetTurnText replaces the content of a turn and clears its placeholder state.
	SetTurnText(id TurnID, text string)

	ClearInput()
	ShowPreview(img *image.Pending)
	HidePreview()
	ShowDialog()
	HideDialog()

	// SetBusy marks the send control unavailable while a send is in flight.
	SetBusy(busy bool)
	ScrollToBottom()

	// Reload resets the view to a fresh session.
	Reload()
}
