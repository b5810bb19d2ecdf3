package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/studydesk/internal/store"
	"github.com/abhisek/studydesk/internal/study"
)

var studyCmd = &cobra.Command{
	Use:   "study",
	Short: "Manage study conversations and their questions",
}

var studyTopicsCmd = &cobra.Command{
	Use:   "topics",
	Short: "List study conversations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStudy(cmd, func(ctx context.Context, svc *study.Service) error {
			convs, err := svc.Conversations(ctx)
			if err != nil {
				return err
			}
			if len(convs) == 0 {
				fmt.Println("No conversations yet. Start one with: studydesk study new <topic>")
				return nil
			}
			fmt.Printf("%-5s  %-32s  %-19s  %s\n", "ID", "Name", "Created", "Keywords")
			fmt.Println(strings.Repeat("─", 90))
			for _, c := range convs {
				fmt.Printf("%-5d  %-32s  %-19s  %s\n",
					c.ID,
					truncate(c.Name, 32),
					c.CreatedAt.Local().Format("2006-01-02 15:04:05"),
					truncate(c.Keywords, 40),
				)
			}
			return nil
		})
	},
}

var studyNewCmd = &cobra.Command{
	Use:   "new <topic>",
	Short: "Create a conversation and generate its first questions",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStudy(cmd, func(ctx context.Context, svc *study.Service) error {
			res, err := svc.CreateConversation(ctx, strings.Join(args, " "))
			if err != nil {
				return err
			}
			printCycle(res)
			return nil
		})
	},
}

var studyMoreCmd = &cobra.Command{
	Use:   "more <conversation>",
	Short: "Generate more questions for a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStudy(cmd, func(ctx context.Context, svc *study.Service) error {
			conv, err := svc.ResolveConversation(ctx, args[0])
			if err != nil {
				return fmt.Errorf("conversation %q: %w", args[0], err)
			}
			res, err := svc.AddQuestions(ctx, conv.ID)
			if err != nil {
				return err
			}
			printCycle(res)
			return nil
		})
	},
}

var studyQuestionsCmd = &cobra.Command{
	Use:   "questions <conversation>",
	Short: "List the questions of a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStudy(cmd, func(ctx context.Context, svc *study.Service) error {
			conv, err := svc.ResolveConversation(ctx, args[0])
			if err != nil {
				return fmt.Errorf("conversation %q: %w", args[0], err)
			}
			qs, err := svc.Questions(ctx, conv.ID)
			if err != nil {
				return err
			}
			if len(qs) == 0 {
				fmt.Printf("%s has no questions yet.\n", conv.Name)
				return nil
			}
			for _, q := range qs {
				kind := "single"
				if q.IsMultipleChoice {
					kind = "multi"
				}
				fmt.Printf("%-5d  %-6s  %s\n", q.ID, kind, q.Question)
			}
			return nil
		})
	},
}

var studyShowCmd = &cobra.Command{
	Use:   "show <question-id>",
	Short: "Show a question with its options",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		reveal, _ := cmd.Flags().GetBool("reveal")
		return withStudy(cmd, func(ctx context.Context, svc *study.Service) error {
			v, err := svc.Navigate(ctx, id)
			if err != nil {
				return fmt.Errorf("question %d: %w", id, err)
			}
			printQuestion(&v.StudyQuestion, reveal)
			fmt.Printf("\nprev: %d  next: %d\n", v.PrevID, v.NextID)
			return nil
		})
	},
}

var studyAnswerCmd = &cobra.Command{
	Use:   "answer <question-id> <letters>",
	Short: "Check an answer, e.g. 'answer 12 AC'",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		var letters []string
		for _, a := range args[1:] {
			for _, r := range strings.ReplaceAll(a, ",", "") {
				letters = append(letters, string(r))
			}
		}
		return withStudy(cmd, func(ctx context.Context, svc *study.Service) error {
			res, err := svc.SubmitAnswer(ctx, id, letters)
			if err != nil {
				return err
			}
			for _, l := range sortedLetters(res.Correctness) {
				mark := "✗"
				if res.Correctness[l] {
					mark = "✓"
				}
				fmt.Printf("%s %s  %s\n", mark, l, res.Reasoning[l])
			}
			if res.AllCorrect {
				fmt.Println("\nAll correct!")
			} else {
				fmt.Printf("\nNot quite. The answer is %s.\n", res.CorrectAnswer)
			}
			return nil
		})
	},
}

var studyExportCmd = &cobra.Command{
	Use:   "export [conversation...]",
	Short: "Write conversations as a YAML question bank",
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("output")
		return withStudy(cmd, func(ctx context.Context, svc *study.Service) error {
			var w io.Writer = os.Stdout
			if out != "" && out != "-" {
				f, err := os.Create(out)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}
			return svc.Export(ctx, w, args...)
		})
	},
}

var studyImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load questions from a YAML question bank ('-' for stdin)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStudy(cmd, func(ctx context.Context, svc *study.Service) error {
			var r io.Reader = os.Stdin
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			stats, err := svc.Import(ctx, r)
			if err != nil {
				return err
			}
			fmt.Printf("Imported %d questions into %d conversations (%d skipped).\n",
				stats.Questions, stats.Conversations, stats.Skipped)
			return nil
		})
	},
}

func withStudy(cmd *cobra.Command, fn func(context.Context, *study.Service) error) error {
	e, err := openEnv(cmd, "cli")
	if err != nil {
		return err
	}
	defer e.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	svc, err := e.studyService(ctx)
	if err != nil {
		return err
	}
	return fn(ctx, svc)
}

func printCycle(res *study.CycleResult) {
	fmt.Printf("%s (#%d): %d new questions", res.Conversation.Name, res.Conversation.ID, len(res.Questions))
	if res.Skipped > 0 {
		fmt.Printf(", %d skipped", res.Skipped)
	}
	fmt.Println()
	if len(res.Questions) == 0 {
		fmt.Println("No questions generated. Try again with: studydesk study more", res.Conversation.ID)
		return
	}
	for i := range res.Questions {
		fmt.Println()
		printQuestion(&res.Questions[i], false)
	}
}

func printQuestion(q *store.StudyQuestion, reveal bool) {
	fmt.Printf("[%d] %s\n", q.ID, q.Question)
	if q.IsMultipleChoice {
		fmt.Println("    (select all that apply)")
	}
	for _, c := range q.Choices {
		fmt.Printf("  %s) %s\n", c.Letter, c.Text)
	}
	if reveal {
		fmt.Printf("  answer: %s\n", q.CorrectAnswer)
	}
}

func sortedLetters(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for _, l := range "ABCDEFGHIJKLMNOPQRSTUVWXYZ" {
		if _, ok := m[string(l)]; ok {
			out = append(out, string(l))
		}
	}
	return out
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid ID %q", s)
	}
	return uint(id), nil
}

func init() {
	studyShowCmd.Flags().Bool("reveal", false, "Also print the correct answer")
	studyExportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")

	studyCmd.AddCommand(studyTopicsCmd)
	studyCmd.AddCommand(studyNewCmd)
	studyCmd.AddCommand(studyMoreCmd)
	studyCmd.AddCommand(studyQuestionsCmd)
	studyCmd.AddCommand(studyShowCmd)
	studyCmd.AddCommand(studyAnswerCmd)
	studyCmd.AddCommand(studyExportCmd)
	studyCmd.AddCommand(studyImportCmd)
}
