package commands

import (
	"bytes"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yhseo-kgs/chatbot-proxy/cmd/portal-cli/ui"
	"github.com/yhseo-kgs/chatbot-proxy/internal/chatbot"
	"github.com/yhseo-kgs/chatbot-proxy/internal/vessel"
)

const qnaData = `[
  {"id_qna": 1, "category_qna": "법정검사", "question_qna": "압력용기 재검사 주기는 어떻게 되나요?", "answer_qna": "압력용기 재검사는 4년마다 실시합니다.", "reference_qna": "고압가스 안전관리법 시행규칙", "action_qna": "[id2]\n검사 신청 방법"},
  {"id_qna": 2, "category_qna": "검사신청", "question_qna": "검사 신청은 어떻게 하나요?", "answer_qna": "관할 지사에 검사 신청서를 제출합니다.", "action_qna": "https://www.kgs.or.kr"},
  {"id_qna": 3, "category_qna": "수수료", "question_qna": "검사 수수료는 얼마인가요?", "answer_qna": "용량에 따라 다릅니다."}
]`

const vesselData = `[
  {"code": "KGS24011234", "device_type": "압력용기", "status": "사용중", "mgmt_no": "ABC-2020-001",
   "first_inspection_date": "2020-03-15", "next_inspection_date": "2031-03-15"}
]`

type env struct {
	dir    string
	config string
	stdout *bytes.Buffer
	stderr *bytes.Buffer
}

// newEnv writes a dataset and config into a temp dir. relayURL may be empty.
func newEnv(t *testing.T, qna, relayURL string) *env {
	t.Helper()
	for _, k := range []string{"NCP_ACCESS_KEY", "NCP_SECRET_KEY", "CLOVA_API_KEY", "CHAT_RELAY_URL", "QNA_SOURCE", "VESSEL_DATA_PATH", "REDIS_URL"} {
		t.Setenv(k, "")
	}
	dir := t.TempDir()

	qnaPath := filepath.Join(dir, "qna.json")
	require.NoError(t, os.WriteFile(qnaPath, []byte(qna), 0o644))
	vesselPath := filepath.Join(dir, "qr_data.json")
	require.NoError(t, os.WriteFile(vesselPath, []byte(vesselData), 0o644))

	cfg := fmt.Sprintf(`qna:
  source: %q
vessel:
  data_path: %q
  watch: false
chatbot:
  score_threshold: 0.5
  ai_timeout: 2s
  relay_url: %q
observability:
  log_format: console
  service_name: portal-test
`, qnaPath, vesselPath, relayURL)
	cfgPath := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	e := &env{dir: dir, config: cfgPath, stdout: &bytes.Buffer{}, stderr: &bytes.Buffer{}}
	ui.SetOutput(e.stdout, e.stderr)
	t.Cleanup(ui.Reset)
	return e
}

func (e *env) run(args ...string) error {
	askThreshold = -1
	searchLimit = 10
	searchCategory = ""
	recentClear = false
	recentAll = false

	rootCmd.SetOut(e.stdout)
	rootCmd.SetErr(e.stderr)
	rootCmd.SetArgs(append([]string{"--config", e.config, "--no-color"}, args...))
	return rootCmd.Execute()
}

func relayServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestAsk_DirectAnswer(t *testing.T) {
	e := newEnv(t, qnaData, "")

	require.NoError(t, e.run("ask", "압력용기", "재검사", "주기"))

	out := e.stdout.String()
	assert.Contains(t, out, "법정검사")
	assert.Contains(t, out, "압력용기 재검사는 4년마다 실시합니다.")
	assert.Contains(t, out, "📋 참조: 고압가스 안전관리법 시행규칙")
	assert.Contains(t, out, "1. 📄 [id2]")
	assert.Contains(t, out, "2. 검사 신청 방법")
}

func TestAsk_AIAnswer(t *testing.T) {
	srv := relayServer(t, http.StatusOK,
		`{"status":{"code":"20000","message":"OK"},"result":{"message":{"role":"assistant","content":"환불 규정은 지사에 문의하세요."}}}`)
	e := newEnv(t, qnaData, srv.URL)

	require.NoError(t, e.run("ask", "환불 수수료 규정"))

	out := e.stdout.String()
	assert.Contains(t, out, "AI 답변")
	assert.Contains(t, out, "환불 규정은 지사에 문의하세요.")
}

func TestAsk_FallbackWhenRelayFails(t *testing.T) {
	srv := relayServer(t, http.StatusInternalServerError, `{"error":"CLOVA API request failed"}`)
	e := newEnv(t, qnaData, srv.URL)

	require.NoError(t, e.run("ask", "환불 수수료 규정"))

	out := e.stdout.String()
	assert.Contains(t, out, "관련 정보")
	assert.Contains(t, out, "일시적 오류로 인해 관련 정보를 제공합니다.")
}

func TestAsk_InitFailure(t *testing.T) {
	e := newEnv(t, `{"not":"an array"}`, "")

	err := e.run("ask", "검사")
	require.ErrorIs(t, err, errInit)
	assert.Contains(t, e.stderr.String(), chatbot.InitErrorMessage)
}

func TestSearch(t *testing.T) {
	e := newEnv(t, qnaData, "")

	require.NoError(t, e.run("search", "수수료"))
	out := e.stdout.String()
	assert.Contains(t, out, "QUESTION")
	assert.Contains(t, out, "검사 수수료는 얼마인가요?")
	assert.Contains(t, out, "1 result(s)")
}

func TestSearch_NoResults(t *testing.T) {
	e := newEnv(t, qnaData, "")

	require.NoError(t, e.run("search", "존재하지않는단어"))
	assert.Contains(t, e.stdout.String(), "검색 결과가 없습니다.")
}

func TestSearch_ByCategory(t *testing.T) {
	e := newEnv(t, qnaData, "")

	require.NoError(t, e.run("search", "--category", "검사신청"))
	out := e.stdout.String()
	assert.Contains(t, out, "검사 신청은 어떻게 하나요?")
	assert.NotContains(t, out, "검사 수수료는 얼마인가요?")
}

func TestStats(t *testing.T) {
	e := newEnv(t, qnaData, "")

	require.NoError(t, e.run("stats"))
	out := e.stdout.String()
	assert.Contains(t, out, "Records: 3")
	assert.Contains(t, out, "With references: 1")
	assert.Contains(t, out, "Categories: 3")
	assert.Contains(t, out, "수수료")
}

func TestVessel(t *testing.T) {
	e := newEnv(t, qnaData, "")

	require.NoError(t, e.run("vessel", "24011234"))
	out := e.stdout.String()
	assert.Contains(t, out, "KGS-24-011234")
	assert.Contains(t, out, "설비종류: 압력용기")
	assert.Contains(t, out, "qrinfo_vessel_profile_ABC.png")
}

func TestVessel_NotFound(t *testing.T) {
	e := newEnv(t, qnaData, "")

	require.NoError(t, e.run("vessel", "KGS-99-999999"))
	assert.Contains(t, e.stdout.String(), vessel.NotFoundMessage)
}

func TestChat_Session(t *testing.T) {
	e := newEnv(t, qnaData, "")
	ui.SetInput(strings.NewReader("압력용기 재검사 주기\n1\n/history\n/quit\n"))

	require.NoError(t, e.run("chat"))

	out := e.stdout.String()
	assert.Contains(t, out, "저는 KGS AI 챗봇입니다.")
	assert.Contains(t, out, "[검사 신청 방법]")
	assert.Contains(t, out, "압력용기 재검사는 4년마다 실시합니다.")
	// "1" follows the [id2] action of the first answer.
	assert.Contains(t, out, "관할 지사에 검사 신청서를 제출합니다.")
	assert.Contains(t, out, "user: 압력용기 재검사 주기")
	assert.Contains(t, out, "bot: 관할 지사에 검사 신청서를 제출합니다.")
}

func TestChat_EndsOnEOF(t *testing.T) {
	e := newEnv(t, qnaData, "")
	ui.SetInput(strings.NewReader("/more\n"))

	require.NoError(t, e.run("chat"))
	assert.Contains(t, e.stdout.String(), "[재검사 주기]")
}

func TestRecent_EmptyWithMemoryCache(t *testing.T) {
	e := newEnv(t, qnaData, "")

	require.NoError(t, e.run("recent"))
	assert.Contains(t, e.stdout.String(), "최근 검색 기록이 없습니다.")

	require.NoError(t, e.run("recent", "--clear"))
	assert.Contains(t, e.stdout.String(), "최근 검색 기록을 지웠습니다.")
}

func TestRecent_PurgeAll(t *testing.T) {
	e := newEnv(t, qnaData, "")

	require.Error(t, e.run("recent", "--all"))

	require.NoError(t, e.run("recent", "--clear", "--all"))
	assert.Contains(t, e.stdout.String(), "모든 사용자의 최근 검색 기록을 지웠습니다.")
}
