package engine

import (
	"strings"

	"github.com/simonhull/firebird-suite/wren/diag"
)

// Three-character line prefixes. Indent codes are two characters followed by
// a single digit.
const (
	codeSegmentHeader = "###"
	codeComment       = "///"
	codeUnchanged     = "   "

	codeAbsolute        = "@="
	codeRelativeRight   = "@+"
	codeRelativeLeft    = "@-"
	codeOneTimeAbsolute = "O="
	codeOneTimeRight    = "O+"
	codeOneTimeLeft     = "O-"

	prefixLength = 3
)

// lineParser classifies raw template lines by their prefix.
type lineParser struct {
	indent *indentProcessor
	tokens *tokenProcessor
	rep    *reporter
}

func isCommentLine(line string) bool   { return line[:prefixLength] == codeComment }
func isSegmentHeader(line string) bool { return line[:prefixLength] == codeSegmentHeader }

// isValidPrefix reports whether line can be processed at all. Rejections are
// logged; the caller drops the line.
func (lp *lineParser) isValidPrefix(line string) bool {
	if len(line) < prefixLength {
		lp.rep.log(diag.Parsing, diag.Error, msgMinimumLineLength)
		return false
	}
	if len(line) > prefixLength && line[prefixLength] != ' ' {
		lp.rep.log(diag.Parsing, diag.Error, msgFourthCharacterMustBeBlank)
		return false
	}
	return lp.isValidControlCode(line[:prefixLength])
}

func (lp *lineParser) isValidControlCode(code string) bool {
	switch code {
	case codeSegmentHeader, codeUnchanged, codeComment:
		return true
	}

	switch code[:2] {
	case codeAbsolute, codeRelativeRight, codeRelativeLeft,
		codeOneTimeAbsolute, codeOneTimeRight, codeOneTimeLeft:
		_, ok := lp.indent.parseIndentValue(indentDigits(code))
		return ok
	}

	lp.rep.log(diag.Parsing, diag.Error, msgInvalidControlCode, code)
	return false
}

// indentDigits turns "@=3" into "+3" and "O-2" into "-2" so the value can be
// parsed as a signed integer.
func indentDigits(code string) string {
	return strings.Replace(code[1:prefixLength], "=", "+", 1)
}

// parseTextLine builds the TextItem for a line whose prefix was already
// validated, registering any tokens it contains.
func (lp *lineParser) parseTextLine(line string) TextItem {
	code := line[:2]
	indent := 0
	if line[:prefixLength] != codeUnchanged {
		// validated by isValidPrefix
		indent, _ = lp.indent.parseIndentValue(indentDigits(line))
	}

	text := ""
	if len(line) > prefixLength+1 {
		text = line[prefixLength+1:]
	}

	isOneTime := code == codeOneTimeAbsolute || code == codeOneTimeRight || code == codeOneTimeLeft
	isRelative := code != codeAbsolute && code != codeOneTimeAbsolute

	return TextItem{
		Indent:     indent,
		IsRelative: isRelative,
		IsOneTime:  isOneTime,
		Text:       lp.tokens.extract(text),
	}
}
