package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yhseo-kgs/chatbot-proxy/cmd/portal-cli/ui"
)

var (
	recentClear bool
	recentAll   bool
)

var recentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Show recent vessel searches",
	Long:  "Show the last vessel codes looked up with this account. Lists persist only with the redis cache driver.",
	Args:  cobra.NoArgs,
	RunE:  runRecent,
}

func init() {
	recentCmd.Flags().BoolVar(&recentClear, "clear", false, "remove all recent searches")
	recentCmd.Flags().BoolVar(&recentAll, "all", false, "with --clear, remove the lists of every client")
	rootCmd.AddCommand(recentCmd)
}

func runRecent(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd.Context())
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	store, closeStore, err := openRecent(cfg)
	defer closeStore()
	if err != nil {
		return err
	}

	if recentAll {
		if !recentClear {
			return fmt.Errorf("--all requires --clear")
		}
		if err := store.Purge(ctx); err != nil {
			return err
		}
		ui.Success("모든 사용자의 최근 검색 기록을 지웠습니다.")
		return nil
	}

	list := store.For(cliClientID())
	if recentClear {
		if err := list.Clear(ctx); err != nil {
			return err
		}
		ui.Success("최근 검색 기록을 지웠습니다.")
		return nil
	}

	items, err := list.Items(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		ui.Info("최근 검색 기록이 없습니다.")
		return nil
	}

	ui.Section("Recent searches")
	ui.Message("%s", strings.TrimRight(ui.FormatList(items), "\n"))
	return nil
}
