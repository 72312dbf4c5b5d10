package ui

import (
	"os"

	"github.com/charmbracelet/bubbles/filepicker"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// FilePickerState wraps the bubbles file picker used to choose an attachment.
// Every file type is selectable.
type FilePickerState struct {
	Active bool
	Picker filepicker.Model
}

func NewFilePickerState(startDir string) FilePickerState {
	fp := filepicker.New()
	fp.AutoHeight = false
	fp.Height = 10
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.ShowPermissions = false
	fp.ShowSize = true
	fp.ShowHidden = false

	if startDir == "" {
		if wd, err := os.Getwd(); err == nil {
			startDir = wd
		} else if home, err := os.UserHomeDir(); err == nil {
			startDir = home
		}
	}
	fp.CurrentDirectory = startDir

	fp.Styles.Directory = lipgloss.NewStyle().
		Foreground(accentColor).
		Bold(true)
	fp.Styles.File = lipgloss.NewStyle().
		Foreground(lipgloss.Color("15"))
	fp.Styles.Selected = lipgloss.NewStyle().
		Foreground(successColor).
		Bold(true)
	fp.Styles.Cursor = lipgloss.NewStyle().
		Foreground(successColor)

	return FilePickerState{Picker: fp}
}

// Open activates the picker and starts reading its directory.
func (fps *FilePickerState) Open() tea.Cmd {
	fps.Active = true
	return fps.Picker.Init()
}

func (fps *FilePickerState) Close() {
	fps.Active = false
}

// Update forwards msg to the picker and reports a selected path, if any.
func (fps *FilePickerState) Update(msg tea.Msg) (string, tea.Cmd) {
	var cmd tea.Cmd
	fps.Picker, cmd = fps.Picker.Update(msg)

	if ok, path := fps.Picker.DidSelectFile(msg); ok {
		fps.Active = false
		return path, cmd
	}

	return "", cmd
}

func renderFilePicker(state FilePickerState, width, height int) string {
	if width < 20 || height < 10 {
		return "Terminal too small"
	}

	modalWidth := width - 10
	if modalWidth > 90 {
		modalWidth = 90
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(accentColor).
		Width(modalWidth).
		Align(lipgloss.Center).
		Render("Attach Image")

	dir := DimStyle.Width(modalWidth).Render(state.Picker.CurrentDirectory)

	body := lipgloss.NewStyle().
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Width(modalWidth).
		Render(state.Picker.View())

	footer := lipgloss.NewStyle().
		Foreground(dimColor).
		Width(modalWidth).
		Align(lipgloss.Center).
		BorderTop(true).
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(dimColor).
		Render(FormatFooter("j/k", "Navigate", "Enter", "Select", "Esc", "Cancel"))

	content := lipgloss.JoinVertical(lipgloss.Left, title, dir, body, footer)
	return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, content)
}
