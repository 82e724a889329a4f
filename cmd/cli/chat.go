package main

import (
	"bufio"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"value-added-framework/internal/conversation"
)

var (
	chatProfile  string
	chatDuration time.Duration
)

// chatCmd is an interactive session in the terminal
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive session",
	Long: `Start an interactive session. Type a message and press enter.

Commands:
  /time   show the remaining time
  /end    end the session and print the summary`,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		ctx := cmd.Context()

		e, err := newEngine(ctx, true)
		if err != nil {
			return err
		}
		defer e.Close()

		started, err := e.conv.StartSession(ctx, conversation.StartSessionInput{
			ProfileID: chatProfile,
			Duration:  chatDuration,
		})
		if err != nil {
			return err
		}
		id := started.Session.ID
		fmt.Fprintf(out, "%s %s with %s, %s left\n", successStyle.Render("Started"), started.Session.Label(), started.PatientName, started.TimeLeft)
		fmt.Fprintln(out, dimStyle.Render("Session ID: "+id+"  (/time, /end)"))

		scanner := bufio.NewScanner(cmd.InOrStdin())
		for {
			fmt.Fprint(out, patientStyle.Render("> "))
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())

			switch line {
			case "":
				continue
			case "/end", "/quit", "/exit":
				sum, err := e.conv.EndSession(ctx, id)
				if err != nil {
					return err
				}
				printSummary(out, sum)
				return nil
			case "/time":
				d, err := e.conv.Detail(ctx, id)
				if err != nil {
					return err
				}
				fmt.Fprintln(out, dimStyle.Render("Time Left:"), d.TimeLeft)
				continue
			}

			res, err := e.conv.Process(ctx, conversation.ProcessInput{SessionID: id, Text: line})
			if err != nil {
				fmt.Fprintln(out, errorStyle.Render("Error:"), err)
				continue
			}
			printReply(out, res)
		}
		if err := scanner.Err(); err != nil {
			return err
		}

		// Input closed without /end.
		sum, err := e.conv.EndSession(ctx, id)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		printSummary(out, sum)
		return nil
	},
}

func init() {
	chatCmd.Flags().StringVar(&chatProfile, "profile", "", "Profile ID (default: demonstration profile)")
	chatCmd.Flags().DurationVar(&chatDuration, "duration", 0, "Session length (default: framework.session_duration_default)")
}
