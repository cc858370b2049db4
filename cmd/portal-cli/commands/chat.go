package commands

import (
	"context"
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yhseo-kgs/chatbot-proxy/cmd/portal-cli/ui"
	"github.com/yhseo-kgs/chatbot-proxy/internal/chatbot"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive conversation",
	Long: `Start an interactive conversation with the chatbot.

Type a question, or the number of a follow-up shown under the last answer.
Commands: /more (more suggestions), /history, /clear, /quit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd.Context())

	orch, _, err := newOrchestrator(ctx)
	if err != nil {
		return err
	}

	s := &chatSession{orch: orch, transcript: chatbot.NewTranscript()}
	s.welcome()
	return s.loop(ctx)
}

type chatSession struct {
	orch       *chatbot.Orchestrator
	transcript *chatbot.Transcript
	actions    []chatbot.Action
}

func (s *chatSession) welcome() {
	w := chatbot.NewWelcome()
	for _, m := range w.Messages {
		s.transcript.AddNotice(m)
		ui.Message("%s", m)
		ui.Newline()
	}
	ui.Chips(w.Chips)
	ui.Newline()
	ui.Message("%s", w.Disclaimer)
}

func (s *chatSession) loop(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			return nil
		}

		input, err := ui.Prompt("\n질문>")
		if errors.Is(err, io.EOF) {
			ui.Newline()
			return nil
		}
		if err != nil {
			return err
		}

		switch input {
		case "":
			continue
		case "/quit", "/exit":
			return nil
		case "/more":
			s.more(ctx)
			continue
		case "/history":
			s.history()
			continue
		case "/clear":
			s.transcript.Clear()
			s.actions = nil
			ui.Success("대화 기록을 지웠습니다.")
			continue
		}

		if n, err := strconv.Atoi(input); err == nil && n >= 1 && n <= len(s.actions) {
			s.follow(ctx, s.actions[n-1])
			continue
		}

		s.ask(ctx, input)
	}
}

func (s *chatSession) ask(ctx context.Context, question string) {
	s.transcript.AddUser(question)

	spinner := ui.NewSpinner(chatbot.LoadingMessage)
	spinner.Start()
	resp := s.orch.Process(ctx, question)
	spinner.Stop()

	s.show(resp)
}

func (s *chatSession) follow(ctx context.Context, a chatbot.Action) {
	switch a.Kind {
	case chatbot.ActionRelated:
		s.transcript.AddUser(a.Label)
		resp, err := s.orch.Related(ctx, a.RelatedID)
		if err != nil {
			ui.Error("%s", chatbot.InitErrorMessage)
			ui.Debug("%v", err)
			return
		}
		s.show(resp)
	case chatbot.ActionLink:
		ui.Info("%s", a.Label)
	default:
		s.ask(ctx, a.Label)
	}
}

func (s *chatSession) show(resp chatbot.Response) {
	s.transcript.AddResponse(resp)
	renderResponse(resp)
	s.actions = resp.Actions
}

func (s *chatSession) more(ctx context.Context) {
	chips, err := s.orch.Suggestions(ctx)
	if err != nil {
		ui.Error("%s", chatbot.InitErrorMessage)
		return
	}
	ui.Chips(chips)
}

func (s *chatSession) history() {
	turns := s.transcript.Turns()
	if len(turns) == 0 {
		ui.Info("대화 기록이 없습니다.")
		return
	}
	ui.Section("History")
	for _, t := range turns {
		if t.Role == chatbot.RoleNotice {
			continue
		}
		ui.KeyValue(t.CreatedAt.Format("15:04:05")+" "+string(t.Role), firstLine(t.Text))
	}
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i] + " …"
	}
	return s
}
