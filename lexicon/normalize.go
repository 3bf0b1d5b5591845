package lexicon

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// partSep 分隔名称与各个 tag，防止跨字段拼出词典词
const partSep = " | "

// Normalize 去掉变音符号并转小写："Crème Brûlée" -> "creme brulee"。
func Normalize(s string) string {
	t := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return cases.Lower(language.Und).String(strings.TrimSpace(out))
}

// Text 构造词典匹配文本：名称与 tags 规范化后以 " | " 拼接。
func Text(name string, tags []string) string {
	parts := make([]string, 0, len(tags)+1)
	parts = append(parts, Normalize(name))
	for _, tag := range tags {
		if tag = Normalize(tag); tag != "" {
			parts = append(parts, tag)
		}
	}
	return strings.Join(parts, partSep)
}
