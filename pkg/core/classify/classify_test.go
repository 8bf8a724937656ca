package classify_test

import (
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/langaudit/pkg/core/classify"
)

func TestIsBinary(t *testing.T) {
	testCases := map[string]struct {
		input []byte
		want  bool
	}{
		"plain text":            {[]byte("hello world\n"), false},
		"empty":                 {nil, false},
		"tab lf cr":             {[]byte("a\tb\r\nc"), false},
		"vertical tab and ff":   {[]byte{'a', 11, 12, 'b'}, false},
		"nul byte":              {[]byte{'a', 0x00, 'b'}, true},
		"backspace":             {[]byte{8}, true},
		"shift out":             {[]byte{14}, true},
		"unit separator":        {[]byte{31}, true},
		"escape":                {[]byte{27}, true},
		"space is text":         {[]byte{32}, false},
		"utf-8 hangul":          {[]byte("안녕"), false},
		"nul with decodable ko": {append([]byte("안녕"), 0x00), true},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			gt.V(t, classify.IsBinary(tc.input)).Equal(tc.want)
		})
	}
}

func TestContainsNonTargetScript(t *testing.T) {
	testCases := map[string]struct {
		input string
		want  bool
	}{
		"ascii":                 {"func main() {}", false},
		"hangul syllable":       {"// 주석", true},
		"cjk ideograph":         {"msg := \"中文\"", true},
		"first ideograph":       {"一", true},
		"last ideograph":        {"鿿", true},
		"before ideographs":     {"䷿", false},
		"first hangul":          {"가", true},
		"last hangul":           {"힯", true},
		"after hangul":          {"ힰ", false},
		"hiragana not included": {"ひらがな", false},
		"hangul jamo excluded":  {"ᄀ", false},
		"latin accent":          {"café", false},
		"empty":                 {"", false},
	}

	for name, tc := range testCases {
		t.Run(name, func(t *testing.T) {
			gt.V(t, classify.ContainsNonTargetScript(tc.input)).Equal(tc.want)
			gt.V(t, classify.ContainsNonTargetScriptBytes([]byte(tc.input))).Equal(tc.want)
		})
	}

	t.Run("invalid utf-8 never matches", func(t *testing.T) {
		gt.False(t, classify.ContainsNonTargetScriptBytes([]byte{0xff, 0xfe, 'a'}))
	})
}
