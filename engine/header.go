package engine

import (
	"strings"

	"github.com/simonhull/firebird-suite/wren/diag"
)

// Segment header options.
const (
	optionFirstTimeIndent = "FTI"
	optionPadSegment      = "PAD"
	optionTabSize         = "TAB"
)

// headerParser turns "### Name [Option=Value[, Option=Value...]]" into a
// segment name and its control item. The name is published through the
// locater so later diagnostics are scoped to the new segment.
type headerParser struct {
	indent *indentProcessor
	names  *nameGenerator
	loc    *locater
	rep    *reporter
}

func (hp *headerParser) parse(line string) *ControlItem {
	ci := newControlItem()

	if len(line) < prefixLength+2 || line[prefixLength+1] == ' ' {
		hp.loc.Segment = hp.names.next()
		hp.rep.log(diag.Parsing, diag.Error, msgSegmentNameMustStartInColumn5, hp.loc.Segment)
		return ci
	}

	args := strings.FieldsFunc(line, func(r rune) bool { return r == ' ' || r == ',' })
	name := ""
	if len(args) > 1 {
		name = args[1]
	}

	if IsValidName(name) {
		hp.loc.Segment = name
	} else {
		hp.loc.Segment = hp.names.next()
		hp.rep.log(diag.Parsing, diag.Error, msgInvalidSegmentName, name, hp.loc.Segment)
	}

	if len(args) > 2 {
		hp.parseOptions(ci, args[2:])
	}
	return ci
}

func (hp *headerParser) parseOptions(ci *ControlItem, args []string) {
	seen := make(map[string]bool, 3)

	for _, arg := range args {
		name, value, ok := hp.splitOption(arg)
		if !ok {
			continue
		}

		if seen[name] {
			hp.rep.log(diag.Parsing, diag.Error, msgDuplicateOption, name, hp.loc.Segment)
			continue
		}
		seen[name] = true

		switch name {
		case optionFirstTimeIndent:
			if v, ok := hp.indent.parseIndentValue(value); ok {
				if v == 0 {
					hp.rep.log(diag.Parsing, diag.Info, msgFirstTimeIndentSetToZero)
				}
				ci.FirstTimeIndent = v
			}
		case optionPadSegment:
			if IsValidName(value) {
				ci.PadSegment = value
			} else {
				hp.rep.log(diag.Parsing, diag.Error, msgInvalidPadSegmentName, value, hp.loc.Segment)
			}
		case optionTabSize:
			if v, ok := hp.indent.parseTabSizeValue(value); ok {
				ci.TabSize = v
			}
		}
	}
}

// splitOption validates the Option=Value form and returns the upper-cased
// option name with its value.
func (hp *headerParser) splitOption(arg string) (string, string, bool) {
	eq := strings.IndexByte(arg, '=')
	if eq < 0 {
		hp.rep.log(diag.Parsing, diag.Error, msgInvalidFormOfOption, arg)
		return "", "", false
	}
	if eq == 0 {
		hp.rep.log(diag.Parsing, diag.Error, msgOptionNameMustPrecedeEqualsSign, hp.loc.Segment)
		return "", "", false
	}

	name := strings.ToUpper(arg[:eq])
	switch name {
	case optionFirstTimeIndent, optionPadSegment, optionTabSize:
	default:
		hp.rep.log(diag.Parsing, diag.Error, msgUnknownSegmentOption, arg, hp.loc.Segment)
		return "", "", false
	}

	if eq == len(arg)-1 {
		hp.rep.log(diag.Parsing, diag.Error, msgOptionValueMustFollowEquals, name, hp.loc.Segment)
		return "", "", false
	}
	return name, arg[eq+1:], true
}
