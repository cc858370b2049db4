package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yhseo-kgs/chatbot-proxy/cmd/portal-cli/ui"
	"github.com/yhseo-kgs/chatbot-proxy/internal/chatbot"
)

var askThreshold float64

var askCmd = &cobra.Command{
	Use:   "ask <question>",
	Short: "Ask a single question",
	Long: `Ask one question. The answer comes from the QnA dataset when the best
match scores above the threshold, otherwise from the AI.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().Float64Var(&askThreshold, "threshold", -1, "direct-answer threshold between 0 and 1 (default from config)")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd.Context())

	orch, _, err := newOrchestrator(ctx)
	if err != nil {
		return err
	}
	if askThreshold >= 0 {
		orch.SetThreshold(askThreshold)
	}

	question := strings.Join(args, " ")

	spinner := ui.NewSpinner(chatbot.LoadingMessage)
	spinner.Start()
	resp := orch.Process(ctx, question)
	spinner.Stop()

	renderResponse(resp)
	return nil
}

// renderResponse prints an answer with its follow-up actions numbered from 1.
func renderResponse(resp chatbot.Response) {
	switch resp.Type {
	case chatbot.TypeError:
		ui.Warning("%s", resp.Content)
		if resp.Err != nil {
			ui.Debug("%v", resp.Err)
		}
		return
	case chatbot.TypeFallback:
		ui.Box("관련 정보", resp.Content)
		if resp.Err != nil {
			ui.Debug("%v", resp.Err)
		}
	case chatbot.TypeAI:
		ui.Box("AI 답변", resp.Content)
	default:
		title := "QnA"
		if resp.Record != nil && resp.Record.Category != "" {
			title = resp.Record.Category
		}
		ui.Box(title, resp.Content)
	}

	if ui.Verbose() && resp.Score > 0 {
		ui.Debug("score %.2f", resp.Score)
	}

	if len(resp.Actions) > 0 {
		ui.Newline()
		ui.Message("%s", strings.TrimRight(ui.FormatList(actionLabels(resp.Actions)), "\n"))
	}
}

func actionLabels(actions []chatbot.Action) []string {
	labels := make([]string, len(actions))
	for i, a := range actions {
		switch a.Kind {
		case chatbot.ActionLink:
			labels[i] = fmt.Sprintf("🔗 %s", a.Label)
		case chatbot.ActionRelated:
			labels[i] = fmt.Sprintf("📄 %s", a.Label)
		default:
			labels[i] = a.Label
		}
	}
	return labels
}
