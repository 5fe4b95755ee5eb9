package engine

import (
	"strings"

	"github.com/simonhull/firebird-suite/wren/diag"
)

const (
	tokenStart   = "<#="
	tokenEnd     = "#>"
	escapeChar   = `\`
	escapedStart = escapeChar + tokenStart
)

// tokenProcessor owns the token table of a loaded template. Names are
// registered while lines are parsed; values arrive per generation call.
type tokenProcessor struct {
	values map[string]string
	loc    *locater
	rep    *reporter
}

func newTokenProcessor(loc *locater, rep *reporter) *tokenProcessor {
	return &tokenProcessor{values: make(map[string]string), loc: loc, rep: rep}
}

// tokenMatch is one live token found in a line.
type tokenMatch struct {
	start int // index of "<#="
	end   int // index just past "#>"
	name  string
}

// extract registers every live token in text and returns text with an escape
// inserted before each malformed token, so later scans skip it.
func (tp *tokenProcessor) extract(text string) string {
	pos := 0
	for pos < len(text)-1 {
		m, ok := tp.next(&text, &pos, true)
		if !ok {
			break
		}
		if _, exists := tp.values[m.name]; !exists {
			tp.values[m.name] = ""
		}
	}
	return text
}

// next finds the next live, well-formed token at or after *pos. When repair
// is set, malformed tokens are reported and escaped in *text. *pos is left
// just past whatever was examined.
func (tp *tokenProcessor) next(text *string, pos *int, repair bool) (tokenMatch, bool) {
	for *pos < len(*text) {
		rel := strings.Index((*text)[*pos:], tokenStart)
		if rel < 0 {
			*pos = len(*text)
			return tokenMatch{}, false
		}
		start := *pos + rel

		if start > 0 && (*text)[start-1] == '\\' {
			*pos = start + len(tokenStart)
			continue
		}

		relEnd := strings.Index((*text)[start:], tokenEnd)
		if relEnd < 0 {
			if repair {
				tp.rep.log(diag.Parsing, diag.Error, msgTokenMissingEndDelimiter)
				*text = (*text)[:start] + escapeChar + (*text)[start:]
			}
			*pos = len(*text)
			return tokenMatch{}, false
		}
		nameEnd := start + relEnd
		end := nameEnd + len(tokenEnd)
		name := strings.TrimSpace((*text)[start+len(tokenStart) : nameEnd])

		if valid := tp.checkName(name, repair); !valid {
			if repair {
				*text = (*text)[:start] + escapeChar + (*text)[start:]
				end++
			}
			*pos = end
			continue
		}

		*pos = end
		return tokenMatch{start: start, end: end, name: name}, true
	}
	return tokenMatch{}, false
}

func (tp *tokenProcessor) checkName(name string, report bool) bool {
	switch {
	case name == "":
		if report {
			tp.rep.log(diag.Parsing, diag.Error, msgMissingTokenName)
		}
		return false
	case !IsValidName(name):
		if report {
			tp.rep.log(diag.Parsing, diag.Error, msgTokenHasInvalidName, name)
		}
		return false
	}
	return true
}

// loadValues merges caller-supplied values into the token table. Every
// problem is reported and the offending value dropped; nothing aborts.
func (tp *tokenProcessor) loadValues(values map[string]string) {
	seg := tp.loc.Segment
	switch {
	case values == nil:
		tp.rep.log(diag.Generating, diag.Error, msgTokenMapIsNull, seg)
		return
	case len(values) == 0:
		tp.rep.log(diag.Generating, diag.Warning, msgTokenMapIsEmpty, seg)
		return
	}

	for name, value := range values {
		tp.setValue(name, value)
	}
}

// setValue applies one supplied value.
func (tp *tokenProcessor) setValue(name, value string) {
	seg := tp.loc.Segment
	if !IsValidName(name) {
		tp.rep.log(diag.Generating, diag.Error, msgInvalidTokenNameSupplied, seg, name)
		return
	}
	if _, ok := tp.values[name]; !ok {
		tp.rep.log(diag.Generating, diag.Error, msgUnknownTokenName, name, seg)
		return
	}
	if value == "" {
		tp.rep.log(diag.Generating, diag.Warning, msgTokenWithEmptyValue, name, seg)
	}
	tp.values[name] = value
}

// replace substitutes current values for every live token in text and then
// turns each escaped start delimiter back into a literal one.
func (tp *tokenProcessor) replace(text string) string {
	if !strings.Contains(text, tokenStart) {
		return text
	}

	var b strings.Builder
	b.Grow(len(text))

	last, pos := 0, 0
	for {
		m, ok := tp.next(&text, &pos, false)
		if !ok {
			break
		}
		value := tp.values[m.name]
		if value == "" {
			tp.rep.log(diag.Generating, diag.Warning, msgTokenValueIsEmpty, m.name, tp.loc.Segment)
		}
		b.WriteString(text[last:m.start])
		b.WriteString(value)
		last = m.end
	}
	b.WriteString(text[last:])

	return strings.ReplaceAll(b.String(), escapedStart, tokenStart)
}

// names returns the registered token names.
func (tp *tokenProcessor) names() []string {
	out := make([]string, 0, len(tp.values))
	for name := range tp.values {
		out = append(out, name)
	}
	return out
}

func (tp *tokenProcessor) clear() {
	tp.values = make(map[string]string)
}
