// Copyright (c) 2025 HitCraft
// SPDX-License-Identifier: AGPL-3.0-or-later

// chat_cmd.go - Interactive chat command handler for the hitcraft CLI.
//
// Handles the "hitcraft chat" command which provides an interactive REPL
// for conversing with the HitCraft assistant.
//
// Interactive Commands (during chat):
//   /new                Start a fresh conversation
//   /resume [N|ID]      Switch to a past conversation
//   /history            List past conversations
//   /help, /h           Show available commands
//   /quit, /q           Exit chat
//   Ctrl+D              Exit chat
package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/peterh/liner"

	"github.com/hitcraft/hitcraft-cli/internal/chat"
	"github.com/hitcraft/hitcraft-cli/internal/config"
	"github.com/hitcraft/hitcraft-cli/internal/history"
	"github.com/hitcraft/hitcraft-cli/internal/model"
)

// =============================================================================
// MARKDOWN RENDERING
// =============================================================================

// markdownRenderer renders assistant replies with formatting and syntax
// highlighting. Falls back to plain text when unavailable.
var markdownRenderer *glamour.TermRenderer

func init() {
	var err error
	markdownRenderer, err = glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(80),
	)
	if err != nil {
		markdownRenderer = nil
	}
}

// renderMarkdown renders markdown content for terminal display. Returns
// the original content if rendering fails.
func renderMarkdown(content string) string {
	if markdownRenderer == nil {
		return content
	}
	out, err := markdownRenderer.Render(content)
	if err != nil {
		return content
	}
	return strings.TrimRight(out, "\n") + "\n"
}

// =============================================================================
// INPUT HISTORY
// =============================================================================

// ChatCLI provides input history and line editing for interactive chat.
type ChatCLI struct {
	line        *liner.State
	historyFile string
}

// NewChatCLI creates a new ChatCLI with input history support.
func NewChatCLI() *ChatCLI {
	line := liner.NewLiner()
	line.SetCtrlCAborts(true)

	configDir, err := config.ConfigDir()
	if err != nil {
		configDir = os.TempDir()
	}
	return &ChatCLI{
		line:        line,
		historyFile: filepath.Join(configDir, "chat_history"),
	}
}

// LoadHistory loads persisted input history, if any.
func (c *ChatCLI) LoadHistory() {
	if f, err := os.Open(c.historyFile); err == nil {
		c.line.ReadHistory(f)
		f.Close()
	}
}

// SaveHistory persists input history for the next session.
func (c *ChatCLI) SaveHistory() {
	if err := config.EnsureConfigDir(); err != nil {
		return
	}
	f, err := os.OpenFile(c.historyFile, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return
	}
	defer f.Close()
	c.line.WriteHistory(f)
}

// ReadInput reads a line of input with the given prompt.
func (c *ChatCLI) ReadInput(prompt string) (string, error) {
	input, err := c.line.Prompt(prompt)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(input) != "" {
		c.line.AppendHistory(input)
	}
	return input, nil
}

// Close releases the terminal.
func (c *ChatCLI) Close() {
	c.line.Close()
}

// =============================================================================
// CHAT COMMAND
// =============================================================================

// HandleChat runs the interactive chat REPL.
func HandleChat(args Args) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if args.ArtistID != "" {
		cfg.Chat.ArtistID = args.ArtistID
	}

	client := newClient(cfg)
	session := chat.NewSession(client, chat.Config{
		ArtistID:       cfg.Chat.ArtistID,
		WelcomeMessage: cfg.Chat.WelcomeMessage,
	})
	dir := history.NewDirectory(client)

	session.SetTypingCallback(func(typing bool) {
		if typing && !args.Quiet {
			fmt.Println(InfoStyle.Render("HitCraft is thinking..."))
		}
	})

	ctx := context.Background()

	if args.ThreadID != "" {
		if err := session.Resume(ctx, args.ThreadID); err != nil {
			fmt.Fprintln(os.Stderr, ErrorStyle.Render(friendlyError(err)))
			return err
		}
		printTranscript(session.Messages())
	} else {
		if err := session.Initialize(ctx, ""); err != nil {
			// The session stays usable; surface the problem and continue.
			fmt.Fprintln(os.Stderr, WarningStyle.Render(friendlyError(err)))
		}
		printTranscript(session.Messages())
	}

	cli := NewChatCLI()
	cli.LoadHistory()
	defer func() {
		cli.SaveHistory()
		cli.Close()
	}()

	if !args.Quiet {
		fmt.Println(InfoStyle.Render("Type /help for commands, /quit to exit."))
	}

	for {
		input, err := cli.ReadInput(PromptStyle.Render("you> "))
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				continue
			}
			// io.EOF on Ctrl+D
			fmt.Println()
			return nil
		}

		input = strings.TrimSpace(input)
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			quit, err := handleSlashCommand(ctx, input, session, dir, cfg)
			if err != nil {
				fmt.Fprintln(os.Stderr, ErrorStyle.Render(friendlyError(err)))
			}
			if quit {
				return nil
			}
			continue
		}

		if err := session.Send(ctx, input); err != nil {
			if errors.Is(err, chat.ErrSendInFlight) {
				fmt.Println(WarningStyle.Render("Still waiting on the previous message."))
				continue
			}
			fmt.Fprintln(os.Stderr, ErrorStyle.Render(friendlyError(err)))
			continue
		}

		msgs := session.Messages()
		if len(msgs) > 0 && msgs[len(msgs)-1].Role == model.RoleAssistant {
			printAssistant(msgs[len(msgs)-1])
		}
	}
}

// handleSlashCommand processes an interactive slash command. Returns true
// when the REPL should exit.
func handleSlashCommand(ctx context.Context, input string, session *chat.Session, dir *history.Directory, cfg *config.Config) (bool, error) {
	fields := strings.Fields(input)
	cmd := strings.ToLower(fields[0])
	rest := fields[1:]

	switch cmd {
	case "/quit", "/q", "/exit":
		return true, nil

	case "/help", "/h":
		printChatHelp()
		return false, nil

	case "/new":
		session.Clear()
		if err := session.Initialize(ctx, ""); err != nil {
			return false, err
		}
		printTranscript(session.Messages())
		return false, nil

	case "/history":
		if err := dir.Refresh(ctx, cfg.Chat.HistoryLimit); err != nil {
			return false, err
		}
		printThreadList(dir.Threads())
		return false, nil

	case "/resume":
		if len(rest) == 0 {
			return false, fmt.Errorf("usage: /resume N or /resume THREAD_ID")
		}
		threadID, err := resolveThreadArg(ctx, rest[0], dir, cfg)
		if err != nil {
			return false, err
		}
		if err := session.Resume(ctx, threadID); err != nil {
			return false, err
		}
		printTranscript(session.Messages())
		return false, nil

	default:
		return false, fmt.Errorf("unknown command %s (try /help)", cmd)
	}
}

// resolveThreadArg turns a /resume argument into a thread id. A small
// integer selects from the most recent listing; anything else is treated
// as a raw thread id.
func resolveThreadArg(ctx context.Context, arg string, dir *history.Directory, cfg *config.Config) (string, error) {
	n, err := strconv.Atoi(arg)
	if err != nil {
		return arg, nil
	}
	if dir.Len() == 0 {
		if err := dir.Refresh(ctx, cfg.Chat.HistoryLimit); err != nil {
			return "", err
		}
	}
	threads := dir.Threads()
	if n < 1 || n > len(threads) {
		return "", fmt.Errorf("no conversation #%d (have %d)", n, len(threads))
	}
	return threads[n-1].ThreadID, nil
}

// =============================================================================
// OUTPUT
// =============================================================================

func printAssistant(msg *model.Message) {
	fmt.Println(AssistantStyle.Render("HitCraft"))
	fmt.Print(renderMarkdown(msg.Text()))
}

func printTranscript(msgs []*model.Message) {
	for _, msg := range msgs {
		switch msg.Role {
		case model.RoleUser:
			fmt.Println(PromptStyle.Render("you> ") + msg.Text())
		case model.RoleAssistant:
			printAssistant(msg)
		}
	}
}

func printThreadList(threads []model.ThreadSummary) {
	if len(threads) == 0 {
		fmt.Println(InfoStyle.Render("No past conversations."))
		return
	}
	for i, th := range threads {
		fmt.Printf("%s %s %s\n",
			InfoStyle.Render(fmt.Sprintf("%2d.", i+1)),
			th.DisplayTitle(),
			InfoStyle.Render("("+relativeTime(th.LastMessageAt)+")"))
	}
}

func printChatHelp() {
	fmt.Println(TitleStyle.Render("Chat Commands"))
	help := [][2]string{
		{"/new", "Start a fresh conversation"},
		{"/resume [N|ID]", "Switch to a past conversation"},
		{"/history", "List past conversations"},
		{"/help, /h", "Show this help"},
		{"/quit, /q", "Exit chat"},
	}
	for _, h := range help {
		fmt.Printf("  %-18s %s\n", CommandStyle.Render(h[0]), h[1])
	}
}
