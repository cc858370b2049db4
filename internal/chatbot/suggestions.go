package chatbot

// WelcomeMessages open every new conversation.
var WelcomeMessages = []string{
	"안녕하세요 🙂 저는 KGS AI 챗봇입니다.\n특정설비 검사·안전 정보를 안내해드려요.",
	"현재는 시범사업 단계로,\n압력용기와 관련된 내용만 안내해드립니다.",
	"본 대화 내용은 서비스 품질 향상과 원활한\n지원을 위해 기록·저장됨을 알려드립니다.",
	"아래 버튼을 눌러보시거나\n검색창에 궁금한 걸 입력해 보세요 🙂",
}

// Disclaimer is shown under the quick-reply chips.
const Disclaimer = "※ 본 챗봇은 참고용 안내 서비스이며, 법적 효력은 없습니다.\n정확한 확인은 관할 지사에 문의하시기 바랍니다."

// DefaultChips are the quick replies offered with the welcome messages.
var DefaultChips = []string{
	"압력용기 법정 검사",
	"검사 신청 방법",
	"검사 수수료",
	"안전관리 요령",
	"관할 지사 찾기",
}

var extraChips = []string{
	"재검사 주기",
	"수리검사 절차",
	"제조등록업체 확인",
	"수입 압력용기",
	"설계조건 변경",
}

const moreChipCategories = 3

// Welcome bundles the opening content of a conversation.
type Welcome struct {
	Messages   []string `json:"messages"`
	Chips      []string `json:"chips"`
	Disclaimer string   `json:"disclaimer"`
}

// NewWelcome returns copies of the opening content.
func NewWelcome() Welcome {
	return Welcome{
		Messages:   append([]string(nil), WelcomeMessages...),
		Chips:      append([]string(nil), DefaultChips...),
		Disclaimer: Disclaimer,
	}
}

// MoreChips returns the expanded chip list: the fixed extras followed by the
// first few category labels in index order.
func MoreChips(categories []string) []string {
	chips := append([]string(nil), extraChips...)
	if len(categories) > moreChipCategories {
		categories = categories[:moreChipCategories]
	}
	return append(chips, categories...)
}
