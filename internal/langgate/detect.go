package langgate

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/abadojack/whatlanggo"
	"golang.org/x/text/language"

	"github.com/tasklog/tasklog/pkg/errclass"
)

const (
	// MinTextLength is the rune count below which detection is skipped.
	MinTextLength = 8
	// ConfidenceThreshold is the minimum detector confidence for a mismatch.
	ConfidenceThreshold = 0.5
)

type langCode struct {
	lang whatlanggo.Lang
	code string
}

// supported lists the languages a project may be pinned to, keyed by
// ISO 639-1 code.
var supported = map[string]whatlanggo.Lang{
	"ja": whatlanggo.Jpn,
	"en": whatlanggo.Eng,
	"zh": whatlanggo.Cmn,
	"ko": whatlanggo.Kor,
	"es": whatlanggo.Spa,
	"fr": whatlanggo.Fra,
	"de": whatlanggo.Deu,
	"it": whatlanggo.Ita,
	"pt": whatlanggo.Por,
	"ru": whatlanggo.Rus,
	"ar": whatlanggo.Arb,
	"hi": whatlanggo.Hin,
	"nl": whatlanggo.Nld,
	"sv": whatlanggo.Swe,
	"tr": whatlanggo.Tur,
	"vi": whatlanggo.Vie,
	"uk": whatlanggo.Ukr,
	"pl": whatlanggo.Pol,
	"id": whatlanggo.Ind,
	"th": whatlanggo.Tha,
	"he": whatlanggo.Heb,
	"cs": whatlanggo.Ces,
	"fi": whatlanggo.Fin,
	"da": whatlanggo.Dan,
	"el": whatlanggo.Ell,
	"hu": whatlanggo.Hun,
	"ro": whatlanggo.Ron,
	"bg": whatlanggo.Bul,
}

// macrolanguage members the detector reports under a different code.
var aliases = map[string]string{
	"cmn": "zh",
	"arb": "ar",
}

var codeOf = func() map[whatlanggo.Lang]string {
	m := make(map[whatlanggo.Lang]string, len(supported))
	for code, l := range supported {
		m[l] = code
	}
	return m
}()

// Resolve maps an ISO 639-1 or 639-3 code (case-insensitive, region
// subtags ignored) to a detector language.
func Resolve(code string) (whatlanggo.Lang, bool) {
	lc, ok := resolve(code)
	return lc.lang, ok
}

// Canonical returns the ISO 639-1 form of a supported code.
func Canonical(code string) (string, bool) {
	lc, ok := resolve(code)
	return lc.code, ok
}

func resolve(code string) (langCode, bool) {
	c := strings.ToLower(strings.TrimSpace(code))
	if c == "" {
		return langCode{}, false
	}
	if a, ok := aliases[c]; ok {
		c = a
	}
	if l, ok := supported[c]; ok {
		return langCode{lang: l, code: c}, true
	}

	tag, err := language.Parse(c)
	if err != nil {
		return langCode{}, false
	}
	base, conf := tag.Base()
	if conf != language.Exact {
		return langCode{}, false
	}
	b := base.String()
	if a, ok := aliases[b]; ok {
		b = a
	}
	if l, ok := supported[b]; ok {
		return langCode{lang: l, code: b}, true
	}
	return langCode{}, false
}

// SupportedCodes returns the accepted ISO 639-1 codes, sorted.
func SupportedCodes() []string {
	out := make([]string, 0, len(supported))
	for c := range supported {
		out = append(out, c)
	}
	sort.Strings(out)
	return out
}

// Validate checks that text is written in the language named by expected.
// Short texts and low-confidence detections pass.
func Validate(text, expected string) error {
	if utf8.RuneCountInString(text) < MinTextLength {
		return nil
	}

	want, ok := Resolve(expected)
	if !ok {
		return unsupported(expected)
	}

	info := whatlanggo.Detect(text)
	if info.Confidence < ConfidenceThreshold || info.Lang == want {
		return nil
	}
	return errclass.ErrLangMismatch.WithMessagef("language mismatch: expected '%s' but detected '%s' (confidence: %.2f)",
		expected, displayCode(info.Lang), info.Confidence)
}

func displayCode(l whatlanggo.Lang) string {
	if c, ok := codeOf[l]; ok {
		return c
	}
	return strings.ToLower(l.String())
}

func unsupported(code string) error {
	return errclass.ErrLangUnsupported.WithMessagef("unsupported language code: '%s'", code)
}
