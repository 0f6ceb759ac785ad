package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/convkit/convkit/conversation"
)

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the wire request JSON schema",
	Long:  "Print the JSON schema of the request payload the client sends to the conversation endpoint.",
	RunE:  runSchema,
}

func runSchema(_ *cobra.Command, _ []string) error {
	data, err := json.MarshalIndent(conversation.PayloadSchema(), "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(data))
	return nil
}
