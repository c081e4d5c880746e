// Copyright 2026 The Bureau Authors
// SPDX-License-Identifier: Apache-2.0

package tui

import (
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// fzf's character classes and boundary bonuses are package state set
// up by algo.Init.
var fzfInitOnce sync.Once

// MatchPositions returns the rune indices of text covered by a
// case-insensitive occurrence of query, or nil when query is empty or
// absent. fzf picks the occurrence with the best word-boundary bonus.
// Used to highlight why a row survived the filter.
func MatchPositions(text, query string, slab *util.Slab) []int {
	query = strings.TrimSpace(query)
	if query == "" || text == "" {
		return nil
	}
	fzfInitOnce.Do(func() { algo.Init("default") })
	chars := util.ToChars([]byte(text))
	// With case sensitivity off, fzf expects a lowercase pattern.
	pattern := []rune(strings.ToLower(query))
	result, _ := algo.ExactMatchNaive(false, false, true, &chars, pattern, false, slab)
	if result.Start < 0 || result.End <= result.Start {
		return nil
	}
	positions := make([]int, 0, result.End-result.Start)
	for index := result.Start; index < result.End; index++ {
		positions = append(positions, index)
	}
	return positions
}

// Highlight renders text with the runes at positions in highlightStyle
// and all others in baseStyle. Consecutive runs of same-style runes are
// batched into a single Render call to keep ANSI output compact.
func Highlight(text string, positions []int, baseStyle, highlightStyle lipgloss.Style) string {
	if len(positions) == 0 {
		return baseStyle.Render(text)
	}

	positionSet := make(map[int]bool, len(positions))
	for _, position := range positions {
		positionSet[position] = true
	}

	runes := []rune(text)
	var result strings.Builder
	runStart := 0
	isHighlighted := positionSet[0]

	for index := 1; index <= len(runes); index++ {
		currentHighlighted := index < len(runes) && positionSet[index]
		if currentHighlighted != isHighlighted || index == len(runes) {
			chunk := string(runes[runStart:index])
			if isHighlighted {
				result.WriteString(highlightStyle.Render(chunk))
			} else {
				result.WriteString(baseStyle.Render(chunk))
			}
			runStart = index
			isHighlighted = currentHighlighted
		}
	}

	return result.String()
}
