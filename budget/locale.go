package budget

import (
	"net/url"
	"strings"
)

// LocaleConfig carries locale-specific labels and formatting used by the
// C7 compressors when rendering agent-facing output.
type LocaleConfig struct {
	Code               string
	LabelTitle         string
	LabelRating        string
	LabelBrand         string
	LabelPagination    string
	LabelNextAvailable string
	LabelPageSuffix    string
	OverflowTemplate   string // use fmt.Sprintf with %d for n
	ReviewTemplate     string // use fmt.Sprintf with %d for count
	DefaultCurrency    string
	DateYMDSuffixes    [3]string // year, month, day; empty strings if unused
}

const DefaultLocale = "ko"

var locales = map[string]LocaleConfig{
	"ko": {
		Code: "ko", LabelTitle: "제목", LabelRating: "평점", LabelBrand: "브랜드",
		LabelPagination: "페이지네이션", LabelNextAvailable: "다음 있음", LabelPageSuffix: "페이지",
		OverflowTemplate: "외 %d건", ReviewTemplate: "(%d개 리뷰)", DefaultCurrency: "KRW",
		DateYMDSuffixes: [3]string{"년", "월", "일"},
	},
	"en": {
		Code: "en", LabelTitle: "Title", LabelRating: "Rating", LabelBrand: "Brand",
		LabelPagination: "Pagination", LabelNextAvailable: "Next available", LabelPageSuffix: "pages",
		OverflowTemplate: "+%d more", ReviewTemplate: "(%d reviews)", DefaultCurrency: "USD",
	},
	"ja": {
		Code: "ja", LabelTitle: "タイトル", LabelRating: "評価", LabelBrand: "ブランド",
		LabelPagination: "ページネーション", LabelNextAvailable: "次あり", LabelPageSuffix: "ページ",
		OverflowTemplate: "他%d件", ReviewTemplate: "(%d件のレビュー)", DefaultCurrency: "JPY",
		DateYMDSuffixes: [3]string{"年", "月", "日"},
	},
	"fr": {
		Code: "fr", LabelTitle: "Titre", LabelRating: "Note", LabelBrand: "Marque",
		LabelPagination: "Pagination", LabelNextAvailable: "Suivant disponible", LabelPageSuffix: "pages",
		OverflowTemplate: "+%d de plus", ReviewTemplate: "(%d avis)", DefaultCurrency: "EUR",
	},
	"de": {
		Code: "de", LabelTitle: "Titel", LabelRating: "Bewertung", LabelBrand: "Marke",
		LabelPagination: "Seitennavigation", LabelNextAvailable: "Weiter verfügbar", LabelPageSuffix: "Seiten",
		OverflowTemplate: "+%d weitere", ReviewTemplate: "(%d Bewertungen)", DefaultCurrency: "EUR",
	},
}

// GetLocale returns the LocaleConfig for code, falling back to
// DefaultLocale for an empty or unrecognized code.
func GetLocale(code string) LocaleConfig {
	if code == "" {
		code = DefaultLocale
	}
	if l, ok := locales[code]; ok {
		return l
	}
	return locales[DefaultLocale]
}

var pathLocaleSegments = map[string]bool{"ja": true, "fr": true, "de": true, "en": true, "ko": true}

// exactDomainLocale is checked before tldLocale. Exact-domain entries
// do not overlap, so map order does not matter; TLD suffixes are
// checked in slice order, so a longer suffix such as ".co.kr" is tried
// before the shorter ".kr".
var exactDomainLocale = map[string]string{
	"coupang.com":     "ko",
	"musinsa.com":     "ko",
	"29cm.co.kr":      "ko",
	"ssfshop.com":     "ko",
	"wconcept.co.kr":  "ko",
	"thehandsome.com": "ko",
}

var tldLocale = []struct {
	suffix string
	locale string
}{
	{".co.kr", "ko"},
	{".kr", "ko"},
	{".co.jp", "ja"},
	{".jp", "ja"},
	{".fr", "fr"},
	{".de", "de"},
	{".co.uk", "en"},
}

// DetectLocale resolves a locale code in priority order: an explicit
// override (e.g. from Config) beats everything else; failing that, the
// URL-based signals (path segment > subdomain > exact domain > TLD);
// failing that, the page's own <html lang> attribute; failing that,
// DefaultLocale.
func DetectLocale(rawURL, override, htmlLang string) string {
	if override != "" {
		if _, ok := locales[override]; ok {
			return override
		}
	}
	if loc, ok := detectLocaleFromURL(rawURL); ok {
		return loc
	}
	if loc, ok := localeFromHTMLLang(htmlLang); ok {
		return loc
	}
	return DefaultLocale
}

func detectLocaleFromURL(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}
	host := u.Hostname()
	path := u.Path

	parts := []string{}
	for _, p := range strings.Split(path, "/") {
		if p != "" {
			parts = append(parts, p)
		}
	}
	for i, p := range parts {
		if i >= 2 {
			break
		}
		lower := strings.ToLower(p)
		if pathLocaleSegments[lower] {
			return lower, true
		}
	}

	if host != "" {
		sub := strings.SplitN(host, ".", 2)[0]
		if pathLocaleSegments[sub] {
			return sub, true
		}
	}

	for domain, locale := range exactDomainLocale {
		if strings.Contains(host, domain) {
			return locale, true
		}
	}

	for _, tld := range tldLocale {
		if strings.HasSuffix(host, tld.suffix) {
			return tld.locale, true
		}
	}

	return "", false
}

// localeFromHTMLLang maps a <html lang="..."> attribute to a supported
// locale code by its primary language subtag ("ko-KR" -> "ko").
func localeFromHTMLLang(htmlLang string) (string, bool) {
	if htmlLang == "" {
		return "", false
	}
	primary := strings.ToLower(strings.SplitN(htmlLang, "-", 2)[0])
	if _, ok := locales[primary]; ok {
		return primary, true
	}
	return "", false
}
