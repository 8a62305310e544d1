package conversation

import (
	"embed"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/nicksnyder/go-i18n/v2/i18n"
	"golang.org/x/text/language"
)

//go:embed locales/*.json
var localeFS embed.FS

var localeFiles = []string{"locales/en.json", "locales/es.json"}

var defaultText = map[string]string{
	"Today":              "Today",
	"Yesterday":          "Yesterday",
	"DateLayout":         "Jan 2",
	"DateLayoutWithYear": "Jan 2, 2006",
	"Sending":            "Sending…",
	"Failed":             "Failed",
	"JustNow":            "Just now",
	"YourMatch":          "Your Match",
}

// Relative time messages, pluralized on Count.
var relativeText = map[string][2]string{
	"LessThanMinuteAgo": {"less than a minute ago", "less than a minute ago"},
	"MinutesAgo":        {"1 minute ago", "{{.Count}} minutes ago"},
	"AboutHoursAgo":     {"about 1 hour ago", "about {{.Count}} hours ago"},
	"DaysAgo":           {"1 day ago", "{{.Count}} days ago"},
	"AboutMonthsAgo":    {"about 1 month ago", "about {{.Count}} months ago"},
	"MonthsAgo":         {"1 month ago", "{{.Count}} months ago"},
	"AboutYearsAgo":     {"about 1 year ago", "about {{.Count}} years ago"},
	"OverYearsAgo":      {"over 1 year ago", "over {{.Count}} years ago"},
	"AlmostYearsAgo":    {"almost 1 year ago", "almost {{.Count}} years ago"},
}

const (
	minutesPerDay   = 24 * 60
	minutesPerMonth = 30 * minutesPerDay
)

// Labels renders the user-visible strings of a conversation in one locale.
type Labels struct {
	localizer *i18n.Localizer
	cache     map[string]string
}

// NewLabels loads the bundled translations for lang. Unknown or malformed
// languages fall back to English.
func NewLabels(lang string) (*Labels, error) {
	bundle := i18n.NewBundle(language.English)
	bundle.RegisterUnmarshalFunc("json", json.Unmarshal)
	for _, f := range localeFiles {
		if _, err := bundle.LoadMessageFileFS(localeFS, f); err != nil {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}

	tag := language.English.String()
	if parsed, err := language.Parse(lang); err == nil {
		tag = parsed.String()
	}

	l := &Labels{
		localizer: i18n.NewLocalizer(bundle, tag, language.English.String()),
		cache:     make(map[string]string, len(defaultText)),
	}
	for id := range defaultText {
		l.cache[id] = l.localize(id)
	}
	return l, nil
}

// EnglishLabels returns Labels for English. It panics only if the embedded
// locale files are broken.
func EnglishLabels() *Labels {
	l, err := NewLabels("en")
	if err != nil {
		panic(err)
	}
	return l
}

func (l *Labels) localize(id string) string {
	text, err := l.localizer.Localize(&i18n.LocalizeConfig{
		DefaultMessage: &i18n.Message{ID: id, Other: defaultText[id]},
	})
	if err != nil || text == "" {
		return defaultText[id]
	}
	return text
}

func (l *Labels) text(id string) string {
	if l == nil {
		return defaultText[id]
	}
	return l.cache[id]
}

// Today is the key of the group holding today's messages.
func (l *Labels) Today() string { return l.text("Today") }

// Yesterday is the key of the group holding yesterday's messages.
func (l *Labels) Yesterday() string { return l.text("Yesterday") }

// Date formats an older calendar day; the year is shown only when it differs
// from the current one.
func (l *Labels) Date(t time.Time, withYear bool) string {
	if withYear {
		return t.Format(l.text("DateLayoutWithYear"))
	}
	return t.Format(l.text("DateLayout"))
}

// Ago describes how long before now t happened, in the coarse steps chat
// timestamps use ("5 minutes ago", "about 2 hours ago"). Times in the future
// read as less than a minute ago.
func (l *Labels) Ago(t, now time.Time) string {
	minutes := int(math.Round(now.Sub(t).Minutes()))
	switch {
	case minutes < 1:
		return l.plural("LessThanMinuteAgo", 1)
	case minutes < 45:
		return l.plural("MinutesAgo", minutes)
	case minutes < 90:
		return l.plural("AboutHoursAgo", 1)
	case minutes < minutesPerDay:
		return l.plural("AboutHoursAgo", roundDiv(minutes, 60))
	case minutes < 2520:
		return l.plural("DaysAgo", 1)
	case minutes < minutesPerMonth:
		return l.plural("DaysAgo", roundDiv(minutes, minutesPerDay))
	case minutes < 2*minutesPerMonth:
		return l.plural("AboutMonthsAgo", roundDiv(minutes, minutesPerMonth))
	}

	months := minutes / minutesPerMonth
	if months < 12 {
		return l.plural("MonthsAgo", roundDiv(minutes, minutesPerMonth))
	}
	years, rest := months/12, months%12
	switch {
	case rest < 3:
		return l.plural("AboutYearsAgo", years)
	case rest < 9:
		return l.plural("OverYearsAgo", years)
	default:
		return l.plural("AlmostYearsAgo", years+1)
	}
}

func (l *Labels) plural(id string, count int) string {
	forms := relativeText[id]
	if l != nil {
		text, err := l.localizer.Localize(&i18n.LocalizeConfig{
			DefaultMessage: &i18n.Message{ID: id, One: forms[0], Other: forms[1]},
			PluralCount:    count,
			TemplateData:   map[string]interface{}{"Count": count},
		})
		if err == nil && text != "" {
			return text
		}
	}
	if count == 1 {
		return forms[0]
	}
	return strings.ReplaceAll(forms[1], "{{.Count}}", strconv.Itoa(count))
}

func roundDiv(n, d int) int {
	return int(math.Round(float64(n) / float64(d)))
}

// Sending is shown next to a pending message.
func (l *Labels) Sending() string { return l.text("Sending") }

// Failed is shown next to a failed message.
func (l *Labels) Failed() string { return l.text("Failed") }

// JustNow is shown for a message whose timestamp cannot be parsed.
func (l *Labels) JustNow() string { return l.text("JustNow") }

// YourMatch titles a conversation whose participant has no name.
func (l *Labels) YourMatch() string { return l.text("YourMatch") }
