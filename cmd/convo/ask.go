package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/convkit/convkit/conversation"
	"github.com/convkit/convkit/transcript"
)

var askStream bool

var askCmd = &cobra.Command{
	Use:   "ask PROMPT",
	Short: "Send one prompt and print the reply",
	Long: `Send one prompt to the backend and print the reply.

By default the command waits for the complete reply. With --stream it
prints each fragment as it arrives.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().BoolVar(&askStream, "stream", false, "print fragments as they arrive")
}

func runAsk(cmd *cobra.Command, args []string) error {
	prompt := strings.Join(args, " ")

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

	result, err := client.SubmitPrompt(cmd.Context(), prompt, askStream, nil)
	if err != nil {
		return err
	}

	var reply, providerName, modelName string
	if result.Chunked() {
		stream := result.Stream()
		defer stream.Close()

		for frag, err := range stream.Fragments() {
			if err != nil {
				fmt.Fprintln(os.Stdout)
				return err
			}
			fmt.Print(frag)
		}
		fmt.Println()
		reply, providerName, modelName = stream.Text(), stream.Provider(), stream.Model()
	} else {
		resp := result.Response()
		fmt.Println(resp.Content)
		reply, providerName, modelName = resp.Content, resp.Provider, resp.Model
	}

	if recorder != nil {
		record(recorder, "", prompt, reply, providerName, modelName)
	}
	return nil
}

// openRecorder opens the transcript writer when --transcript is set.
func openRecorder() (*transcript.Writer, error) {
	if flagTranscript == "" {
		return nil, nil
	}
	return transcript.NewWriter(flagTranscript)
}

// record appends both turns of an exchange, logging rather than failing on
// transcript errors so replies are never lost to bookkeeping.
func record(w *transcript.Writer, conversationID, prompt, reply, providerName, modelName string) {
	userEntry := transcript.NewEntry(conversationID, string(conversation.RoleUser), prompt)
	if err := w.Append(userEntry); err != nil {
		logger().Warn("transcript append failed", "error", err)
		return
	}

	replyEntry := transcript.NewEntry(conversationID, string(conversation.RoleAssistant), reply)
	replyEntry.Provider = providerName
	replyEntry.Model = modelName
	if err := w.Append(replyEntry); err != nil {
		logger().Warn("transcript append failed", "error", err)
	}
}
