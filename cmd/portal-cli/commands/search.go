package commands

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/spf13/cobra"

	"github.com/yhseo-kgs/chatbot-proxy/cmd/portal-cli/ui"
)

var (
	searchLimit    int
	searchCategory string
)

var searchCmd = &cobra.Command{
	Use:   "search [text]",
	Short: "Search the QnA dataset",
	Long:  "List QnA records containing the text, or every record of a category with --category.",
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", 10, "maximum number of results")
	searchCmd.Flags().StringVar(&searchCategory, "category", "", "list records of this category")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	text := strings.Join(args, " ")
	if strings.TrimSpace(text) == "" && searchCategory == "" {
		return cmd.Usage()
	}

	ctx := commandContext(cmd.Context())
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStore(ctx, cfg, newLogger(cfg))
	if err != nil {
		return err
	}

	var (
		rows    [][]string
		results = 0
	)
	if searchCategory != "" {
		records, err := store.GetByCategory(searchCategory)
		if err != nil {
			return err
		}
		for _, r := range records {
			rows = append(rows, []string{strconv.Itoa(r.ID), r.Category, truncate(r.Question, 50)})
		}
		results = len(records)
	} else {
		records, err := store.Search(text, searchLimit)
		if err != nil {
			return err
		}
		for _, r := range records {
			rows = append(rows, []string{strconv.Itoa(r.ID), r.Category, truncate(r.Question, 50)})
		}
		results = len(records)
	}

	if results == 0 {
		ui.Warning("검색 결과가 없습니다.")
		return nil
	}

	ui.Table([]string{"ID", "CATEGORY", "QUESTION"}, rows)
	ui.Newline()
	ui.Info("%d result(s)", results)
	return nil
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n]) + "…"
}
