package i18n

import (
	"fmt"
	"time"
)

// minuteBuckets are the display granularities for sub-hour ages: the largest
// bucket <= the elapsed minutes is shown. Readability over precision.
var minuteBuckets = [...]int{1, 3, 5, 10, 15, 20, 30, 45}

type relPhrases struct {
	justNow     string
	minAgo      string // fmt template, one %d
	hourAgo     string // fmt template, one %d
	hourHalfAgo string // fmt template, one %d
}

var relTables = map[Lang]relPhrases{
	LangEN: {justNow: "just now", minAgo: "%d min ago", hourAgo: "%d hr ago", hourHalfAgo: "%d hr 30 min ago"},
	LangKO: {justNow: "방금 전", minAgo: "%d분 전", hourAgo: "%d시간 전", hourHalfAgo: "%d시간 30분 전"},
	LangJA: {justNow: "たった今", minAgo: "%d分前", hourAgo: "%d時間前", hourHalfAgo: "%d時間30分前"},
	LangZH: {justNow: "刚刚", minAgo: "%d 分钟前", hourAgo: "%d 小时前", hourHalfAgo: "%d 小时30分钟前"},
}

// FormatRelative renders the age of ts relative to now as a localized,
// bucketed phrase. Under a minute reads "just now"; under an hour the age
// rounds down to the nearest minute bucket; from an hour up the remainder
// collapses to either 0 or 30 minutes.
func FormatRelative(ts time.Time, langTag string, now time.Time) string {
	p := relTables[Normalize(langTag)]

	elapsed := now.Sub(ts)
	if elapsed < 0 {
		elapsed = 0
	}
	mins := int(elapsed / time.Minute)

	if mins == 0 {
		return p.justNow
	}
	if mins < 60 {
		bucket := 1
		for _, b := range minuteBuckets {
			if b <= mins {
				bucket = b
			}
		}
		return fmt.Sprintf(p.minAgo, bucket)
	}

	hours := mins / 60
	if mins%60 >= 30 {
		return fmt.Sprintf(p.hourHalfAgo, hours)
	}
	return fmt.Sprintf(p.hourAgo, hours)
}
