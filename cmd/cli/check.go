package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"value-added-framework/internal/app"
)

// checkCmd verifies configuration without calling a model
var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Verify configuration, providers and the session store",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		ctx := cmd.Context()

		fmt.Fprintln(out, sectionStyle.Render("Environment check"))
		fmt.Fprintln(out)

		cfg, err := loadConfig()
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("x Config could not be read:"), err)
			return err
		}
		fmt.Fprintln(out, successStyle.Render("ok Config loaded"), dimStyle.Render("(environment "+cfg.Environment.Name+")"))

		fmt.Fprintln(out, infoStyle.Render("LLM providers:"))
		for _, p := range cfg.LLM.Providers {
			state := successStyle.Render("enabled")
			if !p.Enabled {
				state = dimStyle.Render("disabled")
			}
			key := "api key set"
			switch {
			case p.Name == "mock":
				key = "offline"
			case p.APIKey == "" && p.CredentialsPath != "":
				key = "service account " + p.CredentialsPath
			case p.APIKey == "":
				key = warningStyle.Render("api key missing")
			}
			fmt.Fprintf(out, "   %d. %-9s %-20s %s, %s\n", p.Priority, p.Name, p.Model, state, key)
		}
		if err := cfg.LLM.Validate(); err != nil {
			fmt.Fprintln(out, errorStyle.Render("x LLM config invalid:"), err)
			fmt.Fprintln(out, dimStyle.Render("   Set OPENAI_API_KEY, add llm.providers to config.yaml, or pass --mock."))
			return err
		}
		fmt.Fprintln(out, successStyle.Render("ok LLM config valid"))

		if _, err := app.ConversationConfig(cfg.Framework); err != nil {
			fmt.Fprintln(out, errorStyle.Render("x Framework config invalid:"), err)
			return err
		}
		fmt.Fprintf(out, "%s retries=%d timeout=%ds session=%s\n",
			successStyle.Render("ok Framework config valid"),
			cfg.Framework.MaxRetries, cfg.Framework.TimeoutSeconds, cfg.Framework.SessionDurationDefault)

		st, err := app.OpenStore(ctx, cfg.Store, newLogger(cfg))
		if err != nil {
			fmt.Fprintln(out, errorStyle.Render("x Session store unavailable:"), err)
			return err
		}
		defer st.Close()
		if err := st.Ping(ctx); err != nil {
			fmt.Fprintln(out, errorStyle.Render("x Session store unavailable:"), err)
			return err
		}
		fmt.Fprintln(out, successStyle.Render("ok Session store reachable"), dimStyle.Render("("+cfg.Store.Driver+")"))
		return nil
	},
}
