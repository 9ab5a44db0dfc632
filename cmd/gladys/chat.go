package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gladysproject/gladys/internal/agent"
)

// runChat handles the "gladys chat" subcommand: an interactive
// read-eval-print loop on the persistent conversation. Slash commands
// are handled locally; anything else goes to the model.
func runChat(ctx context.Context, stdin io.Reader, stdout io.Writer, stderr io.Writer, configPath string) error {
	app, err := buildApp(stderr, configPath)
	if err != nil {
		return err
	}
	defer app.Close()

	fmt.Fprintln(stdout, "Gladys - Personal Assistant")
	fmt.Fprintln(stdout, "Type /help for commands, /exit to quit")
	if n := app.store.Len(); n > 1 {
		fmt.Fprintf(stdout, "[Loaded %d turns from previous sessions]\n", n)
	}
	fmt.Fprintln(stdout)

	scanner := bufio.NewScanner(stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Fprint(stdout, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(stdout)
			return scanner.Err()
		}
		if ctx.Err() != nil {
			return nil
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		if strings.HasPrefix(input, "/") {
			switch strings.ToLower(input) {
			case "/exit", "/quit":
				fmt.Fprintln(stdout, "Goodbye!")
				return nil
			case "/help":
				printChatHelp(stdout)
			case "/clear":
				if err := app.agent.Reset(); err != nil {
					fmt.Fprintf(stderr, "clear history: %s\n", err)
					continue
				}
				fmt.Fprintln(stdout, "[Conversation history cleared]")
				fmt.Fprintln(stdout)
			default:
				fmt.Fprintf(stdout, "Unknown command: %s\n", input)
				fmt.Fprintln(stdout, "Type /help for available commands")
				fmt.Fprintln(stdout)
			}
			continue
		}

		answer, err := app.agent.Submit(ctx, input)
		if err != nil {
			if errors.Is(err, agent.ErrToolRoundsExceeded) {
				fmt.Fprintln(stdout, "\nGladys: I got stuck using tools on that one. Could you rephrase?")
				fmt.Fprintln(stdout)
				continue
			}
			if ctx.Err() != nil {
				return nil
			}
			// The turn is persisted; the conversation survives the error.
			fmt.Fprintf(stderr, "error: %s\n", err)
			continue
		}

		fmt.Fprintf(stdout, "\nGladys: %s\n\n", answer)
	}
}

func printChatHelp(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Available commands:")
	fmt.Fprintln(w, "  /help    Show this help message")
	fmt.Fprintln(w, "  /clear   Clear conversation history")
	fmt.Fprintln(w, "  /exit    Exit the chat")
	fmt.Fprintln(w, "  /quit    Exit the chat")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Just type your message to chat with Gladys.")
	fmt.Fprintln(w)
}
