package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Interactive conversation session",
	Long: `Start an interactive session. Each prompt is sent with the full
conversation history so the backend sees the whole dialogue.

Type "quit" to exit.`,
	RunE: runChat,
}

func runChat(cmd *cobra.Command, _ []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	recorder, err := openRecorder()
	if err != nil {
		return err
	}
	if recorder != nil {
		defer recorder.Close()
	}

	session := client.NewConversation()
	scanner := bufio.NewScanner(os.Stdin)
	log := logger()

	for {
		fmt.Print("Enter your prompt (or 'quit' to exit): ")
		if !scanner.Scan() {
			fmt.Println()
			return scanner.Err()
		}

		prompt := strings.TrimSpace(scanner.Text())
		if prompt == "" {
			continue
		}
		if strings.EqualFold(prompt, "quit") {
			return nil
		}

		resp, err := session.Ask(cmd.Context(), prompt)
		if err != nil {
			log.Error("request failed", "error", err)
			continue
		}

		fmt.Println(resp.Content)

		if recorder != nil {
			record(recorder, session.ID(), prompt, resp.Content, resp.Provider, resp.Model)
		}
	}
}
