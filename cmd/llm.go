package cmd

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studydesk/internal/llm"
	"github.com/abhisek/studydesk/internal/store"
)

const timeLayout = "2006-01-02 15:04:05"

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect recorded completion calls",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent completion calls",
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := store.QueryOpts{}
		opts.Limit, _ = cmd.Flags().GetInt("limit")
		opts.Purpose, _ = cmd.Flags().GetString("purpose")
		opts.ConversationID, _ = cmd.Flags().GetUint("conversation")

		return withEvents(cmd, func(ctx context.Context, events store.EventRepo) error {
			list, err := events.QueryLLMEvents(ctx, opts)
			if err != nil {
				return fmt.Errorf("query events: %w", err)
			}
			printEvents(cmd.OutOrStdout(), list)
			return nil
		})
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show the prompt and raw completion of one call",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		return withEvents(cmd, func(ctx context.Context, events store.EventRepo) error {
			ev, err := events.GetLLMEvent(ctx, id)
			if err != nil {
				return fmt.Errorf("get event: %w", err)
			}
			if ev == nil {
				return fmt.Errorf("event %d not found", id)
			}
			printEvent(cmd.OutOrStdout(), ev)
			return nil
		})
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage and estimated cost",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withEvents(cmd, func(ctx context.Context, events store.EventRepo) error {
			byPurpose, err := events.LLMUsageByPurpose(ctx)
			if err != nil {
				return fmt.Errorf("query usage: %w", err)
			}
			byModel, err := events.LLMUsageByModel(ctx)
			if err != nil {
				return fmt.Errorf("query model usage: %w", err)
			}
			printUsage(cmd.OutOrStdout(), byPurpose, byModel)
			return nil
		})
	},
}

func withEvents(cmd *cobra.Command, fn func(context.Context, store.EventRepo) error) error {
	e, err := openEnv(cmd, "off")
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(cmd.Context(), e.store.EventRepo())
}

func rule(w io.Writer, width int) {
	fmt.Fprintln(w, strings.Repeat("─", width))
}

func printEvents(w io.Writer, events []store.LLMRequestEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM events found.")
		return
	}

	const row = "%-5v  %-19s  %-14s  %-8v  %-28s  %6v  %6v  %7v  %s\n"
	fmt.Fprintf(w, row, "ID", "Timestamp", "Purpose", "Conv", "Model", "In", "Out", "Ms", "OK")
	rule(w, 110)
	for _, ev := range events {
		conv := "-"
		if ev.ConversationID != 0 {
			conv = fmt.Sprint(ev.ConversationID)
		}
		fmt.Fprintf(w, row,
			ev.ID,
			ev.Timestamp.Local().Format(timeLayout),
			truncate(ev.Purpose, 14),
			conv,
			truncate(ev.Model, 28),
			ev.InputTokens,
			ev.OutputTokens,
			ev.LatencyMs,
			tick(ev.Success),
		)
	}
}

func printEvent(w io.Writer, ev *store.LLMRequestEvent) {
	fields := []struct{ label, value string }{
		{"ID", fmt.Sprint(ev.ID)},
		{"Time", ev.Timestamp.Local().Format(timeLayout)},
		{"Provider", ev.Provider},
		{"Model", ev.Model},
		{"Purpose", ev.Purpose},
		{"Tokens", fmt.Sprintf("%d in / %d out", ev.InputTokens, ev.OutputTokens)},
		{"Latency", fmt.Sprintf("%dms", ev.LatencyMs)},
		{"Success", fmt.Sprint(ev.Success)},
	}
	if ev.ConversationID != 0 {
		fields = append(fields, struct{ label, value string }{"Topic", fmt.Sprintf("conversation %d", ev.ConversationID)})
	}
	if ev.ErrorMessage != "" {
		fields = append(fields, struct{ label, value string }{"Error", ev.ErrorMessage})
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%-10s %s\n", f.label+":", f.value)
	}

	for _, part := range []struct{ title, body string }{
		{"REQUEST", ev.RequestBody},
		{"RESPONSE", ev.ResponseBody},
	} {
		fmt.Fprintln(w)
		rule(w, 60)
		fmt.Fprintln(w, part.title)
		rule(w, 60)
		if part.body == "" {
			part.body = "(not captured)"
		}
		fmt.Fprintln(w, part.body)
	}
}

func printUsage(w io.Writer, byPurpose []store.PurposeUsage, byModel []store.ModelUsage) {
	if len(byPurpose) == 0 {
		fmt.Fprintln(w, "No LLM usage recorded yet.")
		return
	}

	const purposeRow = "%-16s  %6v  %10v  %10v  %10v  %8v\n"
	fmt.Fprintln(w, "Usage by Purpose")
	rule(w, 72)
	fmt.Fprintf(w, purposeRow, "Purpose", "Calls", "Input", "Output", "Total", "Avg Ms")
	rule(w, 72)
	var calls, in, out int
	for _, u := range byPurpose {
		fmt.Fprintf(w, purposeRow, u.Purpose, u.Calls, u.InputTokens, u.OutputTokens, u.InputTokens+u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	rule(w, 72)
	fmt.Fprintf(w, purposeRow, "TOTAL", calls, in, out, in+out, "")

	if len(byModel) == 0 {
		return
	}

	const modelRow = "%-32s  %6v  %10v  %10v  %10s\n"
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Estimated Cost (USD)")
	rule(w, 72)
	fmt.Fprintf(w, modelRow, "Model", "Calls", "Input", "Output", "Cost")
	rule(w, 72)
	var total float64
	var unpriced []string
	for _, u := range byModel {
		cost := "?"
		if price := llm.LookupCost(u.Model); price != nil {
			usd := price.Cost(u.InputTokens, u.OutputTokens)
			total += usd
			cost = formatCost(usd)
		} else {
			unpriced = append(unpriced, u.Model)
		}
		fmt.Fprintf(w, modelRow, truncate(u.Model, 32), u.Calls, u.InputTokens, u.OutputTokens, cost)
	}
	rule(w, 72)
	label := "TOTAL"
	if len(unpriced) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, modelRow, label, "", "", "", formatCost(total))
	if len(unpriced) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unpriced, ", "))
	}
}

func tick(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("purpose", "p", "", "Filter by purpose (e.g. quiz-gen)")
	llmListCmd.Flags().UintP("conversation", "c", 0, "Filter by study conversation id")

	llmCmd.AddCommand(llmListCmd, llmViewCmd, llmStatsCmd)
}
