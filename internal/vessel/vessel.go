// Package vessel looks up registered pressure vessels by QR code or
// management number and derives the badges shown on the lookup page.
package vessel

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
)

// NotFoundMessage is shown when a code matches no registered vessel.
const NotFoundMessage = "등록되지 않은 특정설비입니다. QR 번호 또는 관리번호를 다시 확인해주세요."

// Badge labels.
const (
	BadgeReinspection = "재검사대상"
	badgeYearsSuffix  = "년차"
	installYearSuffix = "년"
	minInstallYear    = 1900
	profileImageFmt   = "qrinfo_vessel_profile_%s.png"
)

// Vessel is one row of the QR data file.
type Vessel struct {
	Code                string `json:"code"`
	DeviceType          string `json:"device_type"`
	Status              string `json:"status"`
	Capacity            string `json:"capacity"`
	InspectionDate      string `json:"inspection_date"`
	NextInspectionDate  string `json:"next_inspection_date"`
	InstallAddress      string `json:"install_address"`
	InspectionOrg       string `json:"inspection_org"`
	MgmtNo              string `json:"mgmt_no"`
	FirstInspectionDate string `json:"first_inspection_date"`
	InstallCompany      string `json:"install_company"`
	SerialNo            string `json:"serial_no"`
	Manufacturer        string `json:"manufacturer"`
}

var codePattern = regexp.MustCompile(`^([A-Z]+)(\d{2})(\d{2})(\d{4})$`)

var yearPattern = regexp.MustCompile(`\d{4}`)

// NormalizeCode uppercases s and strips hyphens and whitespace.
func NormalizeCode(s string) string {
	return strings.Map(func(r rune) rune {
		if r == '-' || unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToUpper(r)
	}, s)
}

// CanonicalQuery normalizes a search query. A bare 8-digit number is a QR
// serial without its prefix and gets "KGS" prepended.
func CanonicalQuery(s string) string {
	q := NormalizeCode(s)
	if len(q) == 8 && isDigits(q) {
		return "KGS" + q
	}
	return q
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// FormatCode renders a normalized code with display hyphens, e.g.
// KGS24011234 becomes KGS-24-011234. Other shapes are returned as is.
func FormatCode(code string) string {
	return codePattern.ReplaceAllString(code, "$1-$2-$3$4")
}

// ReinspectionDue reports whether the next inspection falls in now's year.
func (v Vessel) ReinspectionDue(now time.Time) bool {
	next := strings.TrimSpace(v.NextInspectionDate)
	if next == "" {
		return false
	}
	return strings.SplitN(next, "-", 2)[0] == strconv.Itoa(now.Year())
}

// InstallYear returns the year part of the first inspection date, or "".
func (v Vessel) InstallYear() string {
	if v.FirstInspectionDate == "" {
		return ""
	}
	return strings.SplitN(v.FirstInspectionDate, "-", 2)[0]
}

// ElapsedYears returns the years since the first inspection. ok is false
// when the year is unknown, before 1900 or in the future.
func (v Vessel) ElapsedYears(now time.Time) (years int, ok bool) {
	m := yearPattern.FindString(v.InstallYear())
	if m == "" {
		return 0, false
	}
	year, err := strconv.Atoi(m)
	if err != nil || year < minInstallYear {
		return 0, false
	}
	elapsed := now.Year() - year
	if elapsed < 0 {
		return 0, false
	}
	return elapsed, true
}

// ProfileImage returns the avatar file name keyed by the first three
// characters of the management number.
func (v Vessel) ProfileImage() string {
	prefix := v.MgmtNo
	if r := []rune(prefix); len(r) > 3 {
		prefix = string(r[:3])
	}
	return fmt.Sprintf(profileImageFmt, strings.ToUpper(prefix))
}

// Profile is the display form of a vessel.
type Profile struct {
	Vessel
	DisplayCode  string   `json:"display_code"`
	InstallYear  string   `json:"install_year"`
	ProfileImage string   `json:"profile_image"`
	Badges       []string `json:"badges"`
}

// NewProfile derives display fields and badges relative to now.
func NewProfile(v Vessel, now time.Time) Profile {
	p := Profile{
		Vessel:       v,
		DisplayCode:  FormatCode(v.Code),
		ProfileImage: v.ProfileImage(),
		Badges:       []string{},
	}
	if y := v.InstallYear(); y != "" {
		p.InstallYear = y + installYearSuffix
	}
	if v.ReinspectionDue(now) {
		p.Badges = append(p.Badges, BadgeReinspection)
	}
	if years, ok := v.ElapsedYears(now); ok {
		p.Badges = append(p.Badges, strconv.Itoa(years)+badgeYearsSuffix)
	}
	return p
}
