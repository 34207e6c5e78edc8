package i18n

import (
	"strings"

	"golang.org/x/text/language"

	"github.com/couchcryptid/field-report-alerts/internal/domain"
)

// Lang is a normalized application language.
type Lang string

const (
	LangEN Lang = "en"
	LangKO Lang = "ko"
	LangJA Lang = "ja"
	LangZH Lang = "zh"
)

// Order matters: English first so it wins for unknown tags.
var supported = []language.Tag{
	language.English,
	language.Korean,
	language.Japanese,
	language.Chinese,
}

var matcher = language.NewMatcher(supported)

var langByIndex = []Lang{LangEN, LangKO, LangJA, LangZH}

// Normalize maps an arbitrary BCP 47 tag ("ko-KR", "zh-Hant", ...) to one of
// the four supported languages, defaulting to English.
func Normalize(tag string) Lang {
	if tag == "" {
		return LangEN
	}
	t, err := language.Parse(tag)
	if err != nil {
		return LangEN
	}
	_, idx, conf := matcher.Match(t)
	if conf == language.No {
		return LangEN
	}
	return langByIndex[idx]
}

// Catalog holds the translation tables for every supported language.
type Catalog struct {
	tables map[Lang]map[string]string
}

// NewCatalog returns the built-in catalog covering the alert, toast, and
// forecast phrases.
func NewCatalog() *Catalog {
	return &Catalog{tables: builtinTables}
}

// Lookup returns the raw template for key in lang, falling back to English.
// The second return is false when the key is unknown in both.
func (c *Catalog) Lookup(lang Lang, key string) (string, bool) {
	if table, ok := c.tables[lang]; ok {
		if s, ok := table[key]; ok {
			return s, true
		}
	}
	if s, ok := c.tables[LangEN][key]; ok {
		return s, true
	}
	return "", false
}

// Resolve renders a domain.Text to a display string in lang. Keyed texts go
// through the translation table with {{name}} placeholders substituted by
// recursively resolved parameters; an unknown key renders as the key itself
// so missing translations stay visible instead of crashing.
func (c *Catalog) Resolve(lang Lang, t domain.Text) string {
	if !t.IsKeyed() {
		return t.Literal
	}
	tmpl, ok := c.Lookup(lang, t.Key)
	if !ok {
		return t.Key
	}
	for name, param := range t.Params {
		tmpl = strings.ReplaceAll(tmpl, "{{"+name+"}}", c.Resolve(lang, param))
	}
	return tmpl
}

var builtinTables = map[Lang]map[string]string{
	LangEN: {
		"severity.red":                  "red",
		"severity.orange":               "orange",
		"severity.yellow":               "yellow",
		"forecast.autoTitle":            "Automatic forecast alert",
		"forecast.autoSubtitle":         "{{severity}} risk detected",
		"forecast.errorTitle":           "Forecast failed",
		"forecast.errorSubtitle":        "No response from server",
		"alerts.userReportDefaultTitle": "New report",
		"alerts.tapToZoom":              "Tap to zoom",
		"toast.noPhoto":                 "No photo attached",
		"ponding.autoDetectTitle":       "Automatic ponding detection (risk {{risk}})",
		"seed.pondingWatchTitle":        "Ponding watch in effect",
		"seed.pondingWatchSubtitle":     "Heavy rain may cause road ponding nearby",
		"seed.welcomeTitle":             "Forecast alerts enabled",
		"seed.welcomeSubtitle":          "You will be notified of nearby hazards",
	},
	LangKO: {
		"severity.red":                  "빨강",
		"severity.orange":               "주황",
		"severity.yellow":               "노랑",
		"forecast.autoTitle":            "자동 예측 경보",
		"forecast.autoSubtitle":         "{{severity}} 발생 가능성 감지",
		"forecast.errorTitle":           "예측 실패",
		"forecast.errorSubtitle":        "서버 응답이 없습니다",
		"alerts.userReportDefaultTitle": "새 신고",
		"alerts.tapToZoom":              "탭하여 확대",
		"toast.noPhoto":                 "사진 없음",
		"ponding.autoDetectTitle":       "자동 침수 감지 (risk {{risk}})",
		"seed.pondingWatchTitle":        "침수 주의보 발효 중",
		"seed.pondingWatchSubtitle":     "인근 도로 침수 가능성이 있습니다",
		"seed.welcomeTitle":             "예측 알림이 켜졌습니다",
		"seed.welcomeSubtitle":          "주변 위험을 알려드립니다",
	},
	LangJA: {
		"severity.red":                  "赤",
		"severity.orange":               "オレンジ",
		"severity.yellow":               "黄",
		"forecast.autoTitle":            "自動予測警報",
		"forecast.autoSubtitle":         "{{severity}}の可能性を検知",
		"forecast.errorTitle":           "予測失敗",
		"forecast.errorSubtitle":        "サーバーから応答がありません",
		"alerts.userReportDefaultTitle": "新しい通報",
		"alerts.tapToZoom":              "タップで拡大",
		"toast.noPhoto":                 "写真なし",
		"ponding.autoDetectTitle":       "自動冠水検知 (risk {{risk}})",
		"seed.pondingWatchTitle":        "冠水注意報発令中",
		"seed.pondingWatchSubtitle":     "付近の道路が冠水する恐れがあります",
		"seed.welcomeTitle":             "予測通知が有効になりました",
		"seed.welcomeSubtitle":          "周辺の危険をお知らせします",
	},
	LangZH: {
		"severity.red":                  "红色",
		"severity.orange":               "橙色",
		"severity.yellow":               "黄色",
		"forecast.autoTitle":            "自动预测警报",
		"forecast.autoSubtitle":         "检测到{{severity}}风险",
		"forecast.errorTitle":           "预测失败",
		"forecast.errorSubtitle":        "服务器无响应",
		"alerts.userReportDefaultTitle": "新报告",
		"alerts.tapToZoom":              "点按缩放",
		"toast.noPhoto":                 "无照片",
		"ponding.autoDetectTitle":       "自动积水检测 (risk {{risk}})",
		"seed.pondingWatchTitle":        "积水预警生效中",
		"seed.pondingWatchSubtitle":     "附近道路可能积水",
		"seed.welcomeTitle":             "预测提醒已开启",
		"seed.welcomeSubtitle":          "将为您播报附近危险",
	},
}
