package commands

import (
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yhseo-kgs/chatbot-proxy/cmd/portal-cli/ui"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show QnA dataset statistics",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd.Context())
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg, newLogger(cfg))
	if err != nil {
		return err
	}

	st, err := store.Stats()
	if err != nil {
		return err
	}

	ui.Section("QnA Dataset")
	ui.KeyValue("Source", cfg.QnA.Source)
	ui.KeyValue("Records", strconv.Itoa(st.Total))
	ui.KeyValue("With answers", strconv.Itoa(st.QuestionsWithAnswers))
	ui.KeyValue("With actions", strconv.Itoa(st.QuestionsWithActions))
	ui.KeyValue("With references", strconv.Itoa(st.QuestionsWithReferences))

	categories := append([]string(nil), st.CategoryList...)
	sort.Strings(categories)
	ui.KeyValue("Categories", strconv.Itoa(st.Categories))
	if len(categories) > 0 {
		ui.Message("%s", strings.TrimRight(ui.FormatList(categories), "\n"))
	}
	return nil
}
