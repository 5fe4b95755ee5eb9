package engine

import (
	"sort"
	"strings"
	"testing"

	"github.com/simonhull/firebird-suite/wren/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sortedNames(tp *tokenProcessor) []string {
	names := tp.names()
	sort.Strings(names)
	return names
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  string
		names []string
		err   string
	}{
		{
			name:  "two tokens",
			text:  "type <#=Name#> struct { <#= Field #> }",
			want:  "type <#=Name#> struct { <#= Field #> }",
			names: []string{"Field", "Name"},
		},
		{
			name:  "escaped token is literal",
			text:  `\<#=Name#> stays`,
			want:  `\<#=Name#> stays`,
			names: []string{},
		},
		{
			name:  "missing end delimiter",
			text:  "x <#=Name",
			want:  `x \<#=Name`,
			names: []string{},
			err:   "missing end delimiter",
		},
		{
			name:  "empty name",
			text:  "<#=#> then <#=Ok#>",
			want:  `\<#=#> then <#=Ok#>`,
			names: []string{"Ok"},
			err:   "no token name",
		},
		{
			name:  "invalid name",
			text:  "<#=1st#>",
			want:  `\<#=1st#>`,
			names: []string{},
			err:   "invalid name",
		},
		{
			name:  "no tokens",
			text:  "plain text",
			want:  "plain text",
			names: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loc, rep, rec := newParts()
			tp := newTokenProcessor(loc, rep)

			assert.Equal(t, tt.want, tp.extract(tt.text))
			assert.Equal(t, tt.names, sortedNames(tp))

			if tt.err == "" {
				assert.Zero(t, rec.Len())
				return
			}
			require.Equal(t, 1, rec.Len())
			assert.Equal(t, diag.Parsing, rec.Entries()[0].Category)
			assert.Contains(t, rec.Entries()[0].Message, tt.err)
		})
	}
}

func TestReplace(t *testing.T) {
	loc, rep, rec := newParts()
	tp := newTokenProcessor(loc, rep)
	tp.extract("<#=Name#> <#=Kind#>")
	tp.loadValues(map[string]string{"Name": "World", "Kind": "Hello"})
	rec.Clear()

	assert.Equal(t, "Hello World!", tp.replace("<#=Kind#> <#=Name#>!"))
	assert.Equal(t, "<#=Name#> is World", tp.replace(`\<#=Name#> is <#=Name#>`),
		"escaped tokens lose only their backslash")
	assert.Equal(t, "no tokens", tp.replace("no tokens"))
	assert.Zero(t, rec.Len())
}

func TestReplace_EmptyValueWarns(t *testing.T) {
	loc, rep, rec := newParts()
	loc.set("Body", 2)
	tp := newTokenProcessor(loc, rep)
	tp.extract("<#=Name#>")

	assert.Equal(t, "[]", tp.replace("[<#=Name#>]"))
	require.Equal(t, 1, rec.Len())
	assert.Equal(t, diag.Warning, rec.Entries()[0].Severity)
	assert.Contains(t, rec.Entries()[0].Message, "token value is empty")
}

func TestRoundTrip_NoMarkersRemain(t *testing.T) {
	lines := []string{
		"func (w *<#=Type#>Wrapper) <#=Field#>() <#=FieldType#> {",
		`	// literal \<#=NotAToken#> marker`,
		"<#=A#><#=B#><#=A#>",
		`<#=A#>\<#=B#><#=B#>`,
	}

	loc, rep, _ := newParts()
	tp := newTokenProcessor(loc, rep)
	for i, line := range lines {
		lines[i] = tp.extract(line)
	}

	values := make(map[string]string)
	for _, name := range tp.names() {
		values[name] = strings.ToLower(name) + "_v"
	}
	tp.loadValues(values)

	for _, line := range lines {
		escaped := strings.Count(line, escapedStart)
		out := tp.replace(line)

		assert.Equal(t, escaped, strings.Count(out, tokenStart), "only escaped markers survive: %q", out)
		assert.NotContains(t, out, escapedStart)
	}
}

func TestLoadValues(t *testing.T) {
	loc, rep, rec := newParts()
	loc.set("Item", 0)
	tp := newTokenProcessor(loc, rep)
	tp.extract("<#=Name#> <#=Kind#>")

	tp.loadValues(nil)
	assert.True(t, rec.Contains("null token dictionary"))

	tp.loadValues(map[string]string{})
	assert.True(t, rec.Contains("empty token dictionary"))

	rec.Clear()
	tp.loadValues(map[string]string{
		"Name":    "x",
		"Unknown": "y",
		"9bad":    "z",
		"Kind":    "",
	})

	assert.Equal(t, "x", tp.values["Name"])
	assert.Equal(t, "", tp.values["Kind"])
	assert.NotContains(t, tp.values, "Unknown")
	assert.NotContains(t, tp.values, "9bad")

	assert.Len(t, rec.Find("unknown token name"), 1)
	assert.Len(t, rec.Find("invalid token name"), 1)
	assert.Len(t, rec.Find("empty value"), 1)
	assert.Equal(t, 2, rec.Count(diag.Error))
}
