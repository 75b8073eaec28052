// Package kana holds the static gojuon table: the fixed alphabet the
// progress engine tracks. The table is read-only reference data; the
// engine never mutates it.
package kana

// Glyph describes the written forms of a single kana.
type Glyph struct {
	Hiragana string
	Katakana string
	Romaji   string
}

// glyphs maps item keys to their display glyphs. Keys follow the
// romanization used throughout the progress data (kunrei-style for
// si/ti/tu, matching the table rows).
var glyphs = map[string]Glyph{
	"a": {Hiragana: "あ", Katakana: "ア", Romaji: "a"},
	"i": {Hiragana: "い", Katakana: "イ", Romaji: "i"},
	"u": {Hiragana: "う", Katakana: "ウ", Romaji: "u"},
	"e": {Hiragana: "え", Katakana: "エ", Romaji: "e"},
	"o": {Hiragana: "お", Katakana: "オ", Romaji: "o"},

	"ka": {Hiragana: "か", Katakana: "カ", Romaji: "ka"},
	"ki": {Hiragana: "き", Katakana: "キ", Romaji: "ki"},
	"ku": {Hiragana: "く", Katakana: "ク", Romaji: "ku"},
	"ke": {Hiragana: "け", Katakana: "ケ", Romaji: "ke"},
	"ko": {Hiragana: "こ", Katakana: "コ", Romaji: "ko"},

	"sa": {Hiragana: "さ", Katakana: "サ", Romaji: "sa"},
	"si": {Hiragana: "し", Katakana: "シ", Romaji: "si"},
	"su": {Hiragana: "す", Katakana: "ス", Romaji: "su"},
	"se": {Hiragana: "せ", Katakana: "セ", Romaji: "se"},
	"so": {Hiragana: "そ", Katakana: "ソ", Romaji: "so"},

	"ta": {Hiragana: "た", Katakana: "タ", Romaji: "ta"},
	"ti": {Hiragana: "ち", Katakana: "チ", Romaji: "ti"},
	"tu": {Hiragana: "つ", Katakana: "ツ", Romaji: "tu"},
	"te": {Hiragana: "て", Katakana: "テ", Romaji: "te"},
	"to": {Hiragana: "と", Katakana: "ト", Romaji: "to"},

	"na": {Hiragana: "な", Katakana: "ナ", Romaji: "na"},
	"ni": {Hiragana: "に", Katakana: "ニ", Romaji: "ni"},
	"nu": {Hiragana: "ぬ", Katakana: "ヌ", Romaji: "nu"},
	"ne": {Hiragana: "ね", Katakana: "ネ", Romaji: "ne"},
	"no": {Hiragana: "の", Katakana: "ノ", Romaji: "no"},

	"ha": {Hiragana: "は", Katakana: "ハ", Romaji: "ha"},
	"hi": {Hiragana: "ひ", Katakana: "ヒ", Romaji: "hi"},
	"fu": {Hiragana: "ふ", Katakana: "フ", Romaji: "fu"},
	"he": {Hiragana: "へ", Katakana: "ヘ", Romaji: "he"},
	"ho": {Hiragana: "ほ", Katakana: "ホ", Romaji: "ho"},

	"ma": {Hiragana: "ま", Katakana: "マ", Romaji: "ma"},
	"mi": {Hiragana: "み", Katakana: "ミ", Romaji: "mi"},
	"mu": {Hiragana: "む", Katakana: "ム", Romaji: "mu"},
	"me": {Hiragana: "め", Katakana: "メ", Romaji: "me"},
	"mo": {Hiragana: "も", Katakana: "モ", Romaji: "mo"},

	"ya": {Hiragana: "や", Katakana: "ヤ", Romaji: "ya"},
	"yu": {Hiragana: "ゆ", Katakana: "ユ", Romaji: "yu"},
	"yo": {Hiragana: "よ", Katakana: "ヨ", Romaji: "yo"},

	"ra": {Hiragana: "ら", Katakana: "ラ", Romaji: "ra"},
	"ri": {Hiragana: "り", Katakana: "リ", Romaji: "ri"},
	"ru": {Hiragana: "る", Katakana: "ル", Romaji: "ru"},
	"re": {Hiragana: "れ", Katakana: "レ", Romaji: "re"},
	"ro": {Hiragana: "ろ", Katakana: "ロ", Romaji: "ro"},

	"wa": {Hiragana: "わ", Katakana: "ワ", Romaji: "wa"},
	"wo": {Hiragana: "を", Katakana: "ヲ", Romaji: "wo"},
	"n":  {Hiragana: "ん", Katakana: "ン", Romaji: "n"},
}

// rowOrder lists row names in table order.
var rowOrder = []string{"a", "ka", "sa", "ta", "na", "ha", "ma", "ya", "ra", "wa"}

// rows maps a row name to its member keys in table order.
var rows = map[string][]string{
	"a":  {"a", "i", "u", "e", "o"},
	"ka": {"ka", "ki", "ku", "ke", "ko"},
	"sa": {"sa", "si", "su", "se", "so"},
	"ta": {"ta", "ti", "tu", "te", "to"},
	"na": {"na", "ni", "nu", "ne", "no"},
	"ha": {"ha", "hi", "fu", "he", "ho"},
	"ma": {"ma", "mi", "mu", "me", "mo"},
	"ya": {"ya", "yu", "yo"},
	"ra": {"ra", "ri", "ru", "re", "ro"},
	"wa": {"wa", "wo", "n"},
}

// Lookup returns the glyphs for an item key.
func Lookup(key string) (Glyph, bool) {
	g, ok := glyphs[key]
	return g, ok
}

// Row returns the member keys of a row in table order. The returned
// slice is a copy and safe to modify.
func Row(name string) ([]string, bool) {
	members, ok := rows[name]
	if !ok {
		return nil, false
	}
	out := make([]string, len(members))
	copy(out, members)
	return out, true
}

// Rows returns all row names in table order.
func Rows() []string {
	out := make([]string, len(rowOrder))
	copy(out, rowOrder)
	return out
}

// Keys returns every item key in table order.
func Keys() []string {
	out := make([]string, 0, len(glyphs))
	for _, row := range rowOrder {
		out = append(out, rows[row]...)
	}
	return out
}
