package commands

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/yhseo-kgs/chatbot-proxy/cmd/portal-cli/ui"
	"github.com/yhseo-kgs/chatbot-proxy/internal/config"
	"github.com/yhseo-kgs/chatbot-proxy/internal/vessel"
)

var vesselCmd = &cobra.Command{
	Use:   "vessel <code>",
	Short: "Look up a pressure vessel by QR code",
	Long: `Look up a pressure vessel by its equipment code. Hyphens and spaces are
ignored, and an 8-digit number is treated as a KGS code.`,
	Args: cobra.ExactArgs(1),
	RunE: runVessel,
}

func init() {
	rootCmd.AddCommand(vesselCmd)
}

func runVessel(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry, err := vessel.Load(cfg.Vessel.DataPath)
	if err != nil {
		return err
	}
	ui.Debug("%d vessel(s) loaded from %s", registry.Len(), registry.Path())

	rememberSearch(cmd, cfg, args[0])

	v, ok := registry.Lookup(vessel.CanonicalQuery(args[0]))
	if !ok {
		ui.Warning("%s", vessel.NotFoundMessage)
		return nil
	}

	now := time.Now()
	p := vessel.NewProfile(v, now)

	ui.Section(p.DisplayCode)
	ui.KeyValue("설비종류", v.DeviceType)
	ui.KeyValue("상태", v.Status)
	ui.KeyValue("용량", v.Capacity)
	ui.KeyValue("관리번호", v.MgmtNo)
	ui.KeyValue("제조번호", v.SerialNo)
	ui.KeyValue("제조사", v.Manufacturer)
	ui.KeyValue("설치업체", v.InstallCompany)
	ui.KeyValue("설치주소", v.InstallAddress)
	ui.KeyValue("설치연도", p.InstallYear)
	ui.KeyValue("최초검사일", v.FirstInspectionDate)
	ui.KeyValue("검사일", v.InspectionDate)
	ui.KeyValue("차기검사일", v.NextInspectionDate)
	ui.KeyValue("검사기관", v.InspectionOrg)
	ui.KeyValue("이미지", p.ProfileImage)
	if len(p.Badges) > 0 {
		ui.Newline()
		ui.Warning("%s", strings.Join(p.Badges, ", "))
	}
	return nil
}

func rememberSearch(cmd *cobra.Command, cfg *config.Config, query string) {
	store, closeStore, err := openRecent(cfg)
	defer closeStore()
	if err != nil {
		ui.Debug("recent searches unavailable: %v", err)
		return
	}
	if _, err := store.For(cliClientID()).Add(commandContext(cmd.Context()), query); err != nil {
		ui.Debug("recent searches unavailable: %v", err)
	}
}
