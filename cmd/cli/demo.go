package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"value-added-framework/internal/conversation"
)

var demoDuration time.Duration

var demoMessages = []string{
	"Hello, I'm feeling really anxious about work lately.",
	"I keep having trouble sleeping because my mind races at night.",
	"Sometimes I feel like I'm not good enough at my job.",
	"What can I do to manage these feelings better?",
}

// demoCmd runs a scripted session end to end
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run four scripted patient messages through a short session",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		ctx := cmd.Context()

		e, err := newEngine(ctx, true)
		if err != nil {
			return err
		}
		defer e.Close()

		fmt.Fprintln(out, sectionStyle.Render("Value-Added Prompt Framework - CLI Demo"))
		fmt.Fprintln(out)
		fmt.Fprintln(out, infoStyle.Render("Starting therapy session..."))

		started, err := e.conv.StartSession(ctx, conversation.StartSessionInput{Duration: demoDuration})
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "%s %s (ID: %s)\n\n", successStyle.Render("Session started:"), started.Session.Label(), started.Session.ID)

		for _, msg := range demoMessages {
			fmt.Fprintln(out, patientStyle.Render("Patient:"), msg)

			res, err := e.conv.Process(ctx, conversation.ProcessInput{SessionID: started.Session.ID, Text: msg})
			if err != nil {
				fmt.Fprintln(out, errorStyle.Render("Error processing message:"), err)
				break
			}
			printReply(out, res)
			fmt.Fprintln(out, dimStyle.Render(divider))
		}

		fmt.Fprintln(out)
		fmt.Fprintln(out, infoStyle.Render("Ending session..."))
		sum, err := e.conv.EndSession(ctx, started.Session.ID)
		if err != nil {
			return err
		}
		printSummary(out, sum)
		return nil
	},
}

func printReply(out io.Writer, res conversation.ProcessOutput) {
	fmt.Fprintln(out, therapistStyle.Render("Therapist:"), res.Reply.Response())
	fmt.Fprintln(out, dimStyle.Render("Clinical Notes:"), res.Reply.InternalNotes())
	fmt.Fprintln(out, dimStyle.Render("Time Left:"), res.TimeLeft)
	fmt.Fprintln(out, dimStyle.Render("Tokens Used:"), res.Turn.Usage.TotalTokens)
	if res.Warning != nil {
		fmt.Fprintln(out, warningStyle.Render("Warning:"), res.Warning)
	}
}

func printSummary(out io.Writer, sum conversation.Summary) {
	fmt.Fprintln(out, sectionStyle.Render("Session Summary"))
	fmt.Fprintf(out, "   - Session: %s (%s)\n", sum.SessionLabel, sum.SessionID)
	fmt.Fprintf(out, "   - Messages: %d\n", sum.MessageCount)
	fmt.Fprintf(out, "   - Duration: %d minutes\n", sum.DurationMinutes)
	fmt.Fprintf(out, "   - Patient: %s\n", sum.PatientName)
	fmt.Fprintf(out, "   - Tokens: %d\n", sum.TotalTokens)
}

func init() {
	demoCmd.Flags().DurationVar(&demoDuration, "duration", 10*time.Minute, "Session length")
}
