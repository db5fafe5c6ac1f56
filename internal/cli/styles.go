// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

// styles.go - Centralized styling for all CLI commands in hitcraft.
//
// Colors are handled by lipgloss, which disables styling for non-TTY
// output and respects the NO_COLOR environment variable.
package cli

import (
	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// SHARED STYLES FOR ALL CLI COMMANDS
// =============================================================================

var (
	// TitleStyle is used for command titles and headers
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Cyan

	// PromptStyle is the interactive input prompt
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39")) // Cyan

	// AssistantStyle labels assistant turns
	AssistantStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("135")) // Purple

	// InfoStyle is used for secondary, informational text
	InfoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")) // Light gray

	// SuccessStyle is used for success messages
	SuccessStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("42")) // Green

	// ErrorStyle is used for error messages
	ErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")) // Red

	// WarningStyle is used for warnings
	WarningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // Amber

	// CommandStyle highlights slash commands in help text
	CommandStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")) // Green
)
