// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// SpliceOverlay replaces a rectangular region of a rendered view with
// overlay content. The overlay lines are placed starting at (anchorX,
// anchorY) in screen coordinates. Uses ANSI-aware truncation so escape
// sequences in the original view are preserved on both sides of the
// overlay. View lines shorter than anchorX are padded with spaces so
// the overlay always lands at its column.
func SpliceOverlay(view string, overlayLines []string, anchorX, anchorY int) string {
	if len(overlayLines) == 0 {
		return view
	}
	anchorX = max(anchorX, 0)

	viewLines := strings.Split(view, "\n")
	overlayWidth := 0
	for _, line := range overlayLines {
		overlayWidth = max(overlayWidth, ansi.StringWidth(line))
	}

	for index, overlayLine := range overlayLines {
		viewLineIndex := anchorY + index
		if viewLineIndex < 0 || viewLineIndex >= len(viewLines) {
			continue
		}

		viewLine := viewLines[viewLineIndex]
		viewLineWidth := ansi.StringWidth(viewLine)

		// Build: prefix + reset + overlay + reset + suffix.
		var result strings.Builder
		if anchorX > 0 {
			result.WriteString(ansi.Truncate(viewLine, anchorX, ""))
			if viewLineWidth < anchorX {
				result.WriteString(strings.Repeat(" ", anchorX-viewLineWidth))
			}
		}
		result.WriteString("\x1b[0m")
		result.WriteString(overlayLine)
		if gap := overlayWidth - ansi.StringWidth(overlayLine); gap > 0 {
			result.WriteString(strings.Repeat(" ", gap))
		}
		result.WriteString("\x1b[0m")

		suffixStart := anchorX + overlayWidth
		if suffixStart < viewLineWidth {
			result.WriteString(ansi.TruncateLeft(viewLine, suffixStart, ""))
		}

		viewLines[viewLineIndex] = result.String()
	}

	return strings.Join(viewLines, "\n")
}

// CenterOverlay splices overlayLines into the middle of a view of the
// given screen size.
func CenterOverlay(view string, overlayLines []string, screenWidth, screenHeight int) string {
	overlayWidth := 0
	for _, line := range overlayLines {
		overlayWidth = max(overlayWidth, ansi.StringWidth(line))
	}
	anchorX := max((screenWidth-overlayWidth)/2, 0)
	anchorY := max((screenHeight-len(overlayLines))/2, 0)
	return SpliceOverlay(view, overlayLines, anchorX, anchorY)
}

// PadOverlayLine takes styled content for the inner area and pads it
// to the full width with background-colored spaces. Returns
// " content  " with background applied to the padding.
func PadOverlayLine(styledContent string, innerWidth int, backgroundStyle lipgloss.Style) string {
	contentWidth := ansi.StringWidth(styledContent)
	if contentWidth > innerWidth {
		styledContent = ansi.Truncate(styledContent, innerWidth, "…")
		contentWidth = innerWidth
	}
	return backgroundStyle.Render(" ") +
		styledContent +
		backgroundStyle.Render(strings.Repeat(" ", innerWidth-contentWidth+1))
}

// RenderModal draws a bordered box with a title row followed by body
// lines, each padded to innerWidth. The result is ready for
// [CenterOverlay].
func RenderModal(theme Theme, title string, body []string, innerWidth int) []string {
	background := lipgloss.NewStyle().Background(theme.ModalBackground)
	titleStyle := background.Foreground(theme.HeaderForeground).Bold(true)
	border := lipgloss.NewStyle().Foreground(theme.BorderColor).Background(theme.ModalBackground)

	horizontal := strings.Repeat("─", innerWidth+2)
	lines := make([]string, 0, len(body)+4)
	lines = append(lines, border.Render("╭"+horizontal+"╮"))
	lines = append(lines, border.Render("│")+PadOverlayLine(titleStyle.Render(title), innerWidth, background)+border.Render("│"))
	lines = append(lines, border.Render("├"+horizontal+"┤"))
	for _, line := range body {
		lines = append(lines, border.Render("│")+PadOverlayLine(line, innerWidth, background)+border.Render("│"))
	}
	lines = append(lines, border.Render("╰"+horizontal+"╯"))
	return lines
}

// ExtractExcerpt returns the first maxLines non-blank lines of a body
// text, each truncated to maxWidth. Blank lines are skipped.
func ExtractExcerpt(body string, maxWidth, maxLines int) []string {
	var result []string
	for _, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if ansi.StringWidth(trimmed) > maxWidth {
			trimmed = ansi.Truncate(trimmed, maxWidth-1, "…")
		}
		result = append(result, trimmed)
		if len(result) >= maxLines {
			break
		}
	}
	return result
}
