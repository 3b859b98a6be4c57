package model

import (
	"database/sql/driver"
	"encoding/json"
	"strings"

	"github.com/pkg/errors"
)

type Language string

const (
	LanguageEnglish Language = "en"
	LanguageArabic  Language = "ar"
)

// ParseLanguage maps a language tag to one of the supported languages,
// defaulting to English.
func ParseLanguage(s string) Language {
	if Language(s) == LanguageArabic {
		return LanguageArabic
	}
	return LanguageEnglish
}

// BilingualText carries independent English and Arabic variants of one
// user-facing string. Both variants are always present; absence is "".
// Values are immutable: edits replace the whole record.
type BilingualText struct {
	En string `json:"en"`
	Ar string `json:"ar"`
}

// NormalizeText coerces any legacy representation of localized text into the
// canonical bilingual shape:
//
//   - nil                     -> {"", ""}
//   - plain string s          -> {s, ""}
//   - {en, ar} object or map  -> canonical record
//
// Historical double-encoding left some records holding the JSON encoding of
// another bilingual record as a member value; those are unwrapped until the
// value is a literal string. Malformed JSON never fails: the raw string is
// kept as the literal value.
func NormalizeText(input any) BilingualText {
	switch v := input.(type) {
	case nil:
		return BilingualText{}
	case BilingualText:
		return unwrapText(v)
	case *BilingualText:
		if v == nil {
			return BilingualText{}
		}
		return unwrapText(*v)
	case string:
		if inner, ok := decodeBilingual(v); ok {
			return unwrapText(inner)
		}
		return BilingualText{En: v}
	case map[string]string:
		return unwrapText(BilingualText{En: v["en"], Ar: v["ar"]})
	case map[string]any:
		return unwrapText(BilingualText{En: stringValue(v["en"]), Ar: stringValue(v["ar"])})
	}
	return BilingualText{}
}

// Resolve selects the display string for the requested language. English is
// always the fallback, regardless of which language was asked for.
func (t BilingualText) Resolve(lang Language) string {
	if lang == LanguageArabic && t.Ar != "" {
		return t.Ar
	}
	return t.En
}

// IsZero reports whether neither variant carries text.
func (t BilingualText) IsZero() bool {
	return t.En == "" && t.Ar == ""
}

// SanitizeForStorage applies the same unwrapping as NormalizeText so that
// persisted values are never doubly-encoded. Applying it twice yields the
// same result as once.
func (t BilingualText) SanitizeForStorage() BilingualText {
	return unwrapText(t)
}

// UnmarshalJSON accepts both the canonical {en, ar} object and the legacy
// plain-string form, normalizing either into the canonical shape.
func (t *BilingualText) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = NormalizeText(s)
		return nil
	}

	type plain BilingualText
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return errors.Wrap(err, "decode bilingual text")
	}
	*t = unwrapText(BilingualText(p))
	return nil
}

// Scan reads a value stored by a previous version of the system: a JSON
// object, a JSON string, or a bare literal.
func (t *BilingualText) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*t = BilingualText{}
		return nil
	case []byte:
		t.scanText(string(v))
		return nil
	case string:
		t.scanText(v)
		return nil
	}
	return errors.Errorf("cannot scan %T into BilingualText", value)
}

func (t *BilingualText) scanText(s string) {
	if s == "" {
		*t = BilingualText{}
		return
	}
	if err := json.Unmarshal([]byte(s), t); err != nil {
		// not JSON at all: keep the raw text as the English literal
		*t = NormalizeText(s)
	}
}

// Value stores the canonical JSON object, sanitized so double-encoded
// members never reach the database.
func (t BilingualText) Value() (driver.Value, error) {
	b, err := json.Marshal(t.SanitizeForStorage())
	if err != nil {
		return nil, errors.Wrap(err, "encode bilingual text")
	}
	return string(b), nil
}

func unwrapText(t BilingualText) BilingualText {
	if inner, ok := decodeBilingual(t.En); ok {
		u := unwrapText(inner)
		if t.Ar != "" && u.Ar == "" {
			u.Ar = t.Ar
		}
		return u
	}
	if inner, ok := decodeBilingual(t.Ar); ok {
		t.Ar = unwrapText(inner).Ar
	}
	return t
}

// decodeBilingual reports whether s is the JSON encoding of a bilingual
// record, i.e. an object carrying an "en" or "ar" key with string values.
func decodeBilingual(s string) (BilingualText, bool) {
	trimmed := strings.TrimSpace(s)
	if !strings.HasPrefix(trimmed, "{") {
		return BilingualText{}, false
	}

	var probe struct {
		En *string `json:"en"`
		Ar *string `json:"ar"`
	}
	if err := json.Unmarshal([]byte(trimmed), &probe); err != nil {
		return BilingualText{}, false
	}
	if probe.En == nil && probe.Ar == nil {
		return BilingualText{}, false
	}

	var t BilingualText
	if probe.En != nil {
		t.En = *probe.En
	}
	if probe.Ar != nil {
		t.Ar = *probe.Ar
	}
	return t, true
}

func stringValue(v any) string {
	s, _ := v.(string)
	return s
}
