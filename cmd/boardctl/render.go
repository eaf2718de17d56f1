package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/NomadCrew/comment-board/types"
	"github.com/charmbracelet/lipgloss"
)

var (
	stylePending   = lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true)
	styleCommitted = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	styleWarning   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	styleError     = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true)
	styleMuted     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// renderComments prints comments one per line. The last pending entries are
// the optimistic overlay and are marked as such.
func renderComments(w io.Writer, comments []string, pending int) {
	if len(comments) == 0 {
		fmt.Fprintln(w, styleMuted.Render("No comments yet."))
		return
	}

	firstPending := len(comments) - pending
	for i, c := range comments {
		if i >= firstPending {
			fmt.Fprintln(w, stylePending.Render("- "+c+" (pending)"))
			continue
		}
		fmt.Fprintln(w, "- "+c)
	}
}

// renderRejection prints why a submission was not committed.
func renderRejection(w io.Writer, result types.MutationResult) {
	if result.Status == types.MutationFailed {
		fmt.Fprintln(w, styleError.Render(result.Reason))
		return
	}

	fields := make([]string, 0, len(result.Errors))
	for field := range result.Errors {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	for _, field := range fields {
		for _, msg := range result.Errors[field] {
			fmt.Fprintln(w, styleError.Render(field+": "+msg))
		}
	}
}
