package engine

import (
	"testing"

	"github.com/simonhull/firebird-suite/wren/diag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_TokenSubstitution(t *testing.T) {
	e, _ := loadEngine(t,
		"### S",
		"@=0 Hello <#=Name#>",
	)

	e.GenerateSegment("S", map[string]string{"Name": "World"})
	assert.Equal(t, []string{"Hello World"}, e.GeneratedText())
}

func TestGenerate_FirstTimeIndent(t *testing.T) {
	e, _ := loadEngine(t,
		"### S FTI=2",
		"@+1 X",
	)

	e.GenerateSegment("S", nil)
	e.GenerateSegment("S", nil)

	assert.Equal(t, []string{
		"        X",
		"            X",
	}, e.GeneratedText())
	assert.Equal(t, 12, e.CurrentIndent())
}

func TestGenerate_FirstTimeIndentOnlyFirstLine(t *testing.T) {
	e, _ := loadEngine(t,
		"### S FTI=1",
		"@=0 first",
		"@+1 second",
	)

	e.GenerateSegment("S", nil)
	assert.Equal(t, []string{"    first", "        second"}, e.GeneratedText())
}

func TestLoad_PadMustBeDefinedEarlier(t *testing.T) {
	e, rec := loadEngine(t,
		"### S PAD=Later",
		"@=0 a",
		"### Later",
		"@=0 b",
	)

	entries := rec.Find("must be defined earlier")
	require.Len(t, entries, 1)
	assert.Equal(t, diag.Error, entries[0].Severity)
	assert.Equal(t, "", e.Segments()[0].PadSegment)

	e.GenerateSegment("S", nil)
	e.GenerateSegment("S", nil)
	assert.Equal(t, []string{"a", "a"}, e.GeneratedText())
}

func TestLoad_ShortLineRejected(t *testing.T) {
	e, rec := loadEngine(t,
		"### S",
		"ab",
		"@=0 x",
	)

	assert.True(t, rec.Contains("minimum line length is 3"))
	require.Len(t, e.Segments(), 1)
	assert.Equal(t, 1, e.Segments()[0].Lines)
}

func TestLoad_EmptyTemplate(t *testing.T) {
	for name, lines := range map[string][]string{
		"no lines":   {},
		"blank line": {""},
	} {
		t.Run(name, func(t *testing.T) {
			e, rec := loadEngine(t, lines...)

			assert.False(t, e.IsLoaded())
			require.Equal(t, 1, rec.Len())
			assert.Equal(t, diag.Loading, rec.Entries()[0].Category)
			assert.Equal(t, "template file is empty", rec.Entries()[0].Message)
		})
	}
}

func TestPad_SeparatesRepeatedGenerations(t *testing.T) {
	e, _ := loadEngine(t,
		"### Sep",
		"@=0 --",
		"### Item PAD=Sep",
		"@+1 item",
	)

	for i := 0; i < 3; i++ {
		e.GenerateSegment("Item", nil)
	}

	assert.Equal(t, []string{
		"    item",
		"--",
		"        item",
		"--",
		"            item",
	}, e.GeneratedText())
}

func TestPad_Chains(t *testing.T) {
	e, _ := loadEngine(t,
		"### A",
		"@=0 a",
		"### B PAD=A",
		"@=0 b",
		"### C PAD=B",
		"@+1 c",
	)

	for i := 0; i < 3; i++ {
		e.GenerateSegment("C", nil)
	}

	assert.Equal(t, []string{
		"    c",
		"b",
		"        c",
		"a",
		"b",
		"            c",
	}, e.GeneratedText())
}

func TestPad_RestoresLocationAndTabSize(t *testing.T) {
	e, rec := loadEngine(t,
		"### Sep TAB=2",
		"@=1 ~",
		"### Item PAD=Sep",
		"@=1 <#=Name#>",
	)
	rec.Clear()

	e.GenerateSegment("Item", map[string]string{"Name": "one"})
	e.GenerateSegment("Item", map[string]string{"Name": "two"})

	assert.Equal(t, []string{"    one", "  ~", "    two"}, e.GeneratedText())
	assert.Equal(t, DefaultTabSize, e.TabSize())
	assert.Equal(t, "Item", e.loc.Segment)
}

func TestTabOverride_IsLocalToSegment(t *testing.T) {
	e, rec := loadEngine(t,
		"### Narrow TAB=2",
		"@=1 n",
		"### Wide",
		"@=1 w",
	)

	e.GenerateSegment("Narrow", nil)
	e.GenerateSegment("Wide", nil)

	assert.Equal(t, []string{"  n", "    w"}, e.GeneratedText())
	assert.Equal(t, 2, e.Segments()[0].TabSize)
	assert.Zero(t, e.Segments()[0].FirstTimeIndent)
	assert.Zero(t, rec.Count(diag.Warning))
}

func TestGenerate_Refusals(t *testing.T) {
	t.Run("not loaded", func(t *testing.T) {
		rec := diag.NewRecorder()
		e := New(newStubSource(nil), nil, WithDiagnostics(rec))

		e.GenerateSegment("S", nil)
		assert.Empty(t, e.GeneratedText())
		assert.True(t, rec.Contains("before the template was loaded"))
	})

	t.Run("unknown segment", func(t *testing.T) {
		e, rec := loadEngine(t, "### S", "@=0 s")

		e.GenerateSegment("Missing", nil)
		assert.Empty(t, e.GeneratedText())
		entries := rec.Find("not defined in the template")
		require.Len(t, entries, 1)
		assert.Equal(t, "Missing", entries[0].Segment)
	})

	t.Run("segment without text", func(t *testing.T) {
		e, rec := loadEngine(t, "### Empty", "### S", "@=0 s")

		assert.True(t, rec.Contains("must be followed by at least one text line"))
		e.GenerateSegment("Empty", nil)
		assert.Empty(t, e.GeneratedText())
		assert.True(t, rec.Contains("has no text lines"))
	})
}

func TestGenerate_ProblemsAreLocated(t *testing.T) {
	e, rec := loadEngine(t,
		"### S",
		"@=0 one",
		"@-1 <#=Name#>",
	)
	rec.Clear()

	e.GenerateSegment("S", map[string]string{})

	assert.Equal(t, []string{"one", ""}, e.GeneratedText())

	truncated := rec.Find("went negative")
	require.Len(t, truncated, 1)
	assert.Equal(t, "S", truncated[0].Segment)
	assert.Equal(t, 2, truncated[0].Line)

	empty := rec.Find("token value is empty")
	require.Len(t, empty, 1)
	assert.Equal(t, 2, empty[0].Line)
}

func TestLoad_MissingInitialHeader(t *testing.T) {
	e, rec := loadEngine(t,
		"@=0 orphan",
		"@=0 orphan two",
		"### S",
		"@=0 s",
	)

	require.Len(t, rec.Find("missing the initial segment header"), 1)
	segs := e.Segments()
	require.Len(t, segs, 2)
	assert.Equal(t, "DefaultSegment1", segs[0].Name)
	assert.Equal(t, 2, segs[0].Lines)
	assert.Equal(t, "S", segs[1].Name)
}

func TestLoad_DuplicateSegmentRenamed(t *testing.T) {
	e, rec := loadEngine(t,
		"### S",
		"@=0 first",
		"### S",
		"@=0 second",
	)

	assert.True(t, rec.Contains(`"S" appears more than once`))
	segs := e.Segments()
	require.Len(t, segs, 2)
	assert.Equal(t, "S", segs[0].Name)
	assert.Equal(t, "DefaultSegment1", segs[1].Name)

	e.GenerateSegment("DefaultSegment1", nil)
	assert.Equal(t, []string{"second"}, e.GeneratedText())
}

func TestLoad_DefaultNamesSkipExistingSegments(t *testing.T) {
	e, rec := loadEngine(t,
		"### DefaultSegment1",
		"@=0 one",
		"### B",
		"@=0 b",
		"### A PAD=DefaultSegment1",
		"@=0 a",
		"### B PAD=A",
		"@=0 b2",
	)

	assert.True(t, rec.Contains(`"B" appears more than once`))
	segs := e.Segments()
	require.Len(t, segs, 4)
	assert.Equal(t, SegmentInfo{Name: "DefaultSegment1", Lines: 1}, segs[0])
	assert.Equal(t, "B", segs[1].Name)
	assert.Equal(t, "A", segs[2].Name)
	assert.Equal(t, "DefaultSegment1", segs[2].PadSegment)
	assert.Equal(t, "DefaultSegment2", segs[3].Name)
	assert.Equal(t, "A", segs[3].PadSegment)
	assert.Equal(t, 1, segs[3].Lines)

	for i := 0; i < 3; i++ {
		e.GenerateSegment("A", nil)
	}
	e.GenerateSegment("DefaultSegment2", nil)
	assert.Equal(t, []string{"a", "one", "a", "one", "a", "b2"}, e.GeneratedText())
}

func TestLoad_SelfPadRejected(t *testing.T) {
	e, rec := loadEngine(t,
		"### S PAD=S",
		"@=0 s",
	)

	assert.True(t, rec.Contains("must be defined earlier"))
	assert.Empty(t, e.Segments()[0].PadSegment)
}

func TestLoad_CommentsAndTokens(t *testing.T) {
	e, rec := loadEngine(t,
		"/// header comment",
		"### S",
		"/// inside",
		"@=0 <#=B#> <#=A#>",
	)

	assert.Zero(t, rec.Count(diag.Warning))
	assert.Equal(t, 1, e.Segments()[0].Lines)
	assert.Equal(t, []string{"A", "B"}, e.Tokens())
}

func TestLoad_Reload(t *testing.T) {
	rec := diag.NewRecorder()
	src := newStubSource(map[string][]string{
		"/t/one.tt": {"### One", "@=0 one"},
		"/t/two.tt": {"### Two", "@=0 two"},
	})
	e := New(src, &stubSink{}, WithDiagnostics(rec))

	require.NoError(t, e.LoadFile("/t/one.tt"))
	e.GenerateSegment("One", nil)

	rec.Clear()
	require.NoError(t, e.LoadFile("/t/one.tt"))
	assert.True(t, rec.Contains("more than once"))
	assert.Equal(t, []string{"one"}, e.GeneratedText(), "rejected reload keeps state")

	rec.Clear()
	require.NoError(t, e.Load())
	assert.True(t, rec.Contains("more than once"))

	rec.Clear()
	require.NoError(t, e.LoadFile("/t/two.tt"))
	assert.True(t, rec.Contains(`"two.tt" is being loaded before any output was written for template file "one.tt"`))
	assert.Empty(t, e.GeneratedText())
	assert.Equal(t, "Two", e.Segments()[0].Name)

	err := e.LoadFile("/t/missing.tt")
	assert.ErrorIs(t, err, errStub)
}

func TestLoad_WithoutPath(t *testing.T) {
	rec := diag.NewRecorder()
	e := New(newStubSource(nil), nil, WithDiagnostics(rec))

	require.NoError(t, e.Load())
	assert.False(t, e.IsLoaded())
	assert.True(t, rec.Contains("valid file path has not been set"))
}

func TestLoad_ReadErrorIsReturned(t *testing.T) {
	src := newStubSource(map[string][]string{"/t/a.tt": {"### A", "@=0 a"}})
	src.readErr = errStub
	e := New(src, nil)

	err := e.LoadFile("/t/a.tt")
	require.ErrorIs(t, err, errStub)
	assert.Contains(t, err.Error(), "a.tt")
	assert.False(t, e.IsLoaded())
}

func TestResetAll_ThenReloadIsIdempotent(t *testing.T) {
	e, _ := loadEngine(t,
		"###  bad header",
		"@=0 x",
		"### Sep",
		"@=0 ,",
		"### Item FTI=1, PAD=Sep, TAB=3",
		"@+1 <#=Name#>",
	)
	first := e.Segments()
	firstTokens := e.Tokens()
	firstControls := make(map[string]ControlItem)
	for name, ci := range e.controls {
		firstControls[name] = *ci
	}

	e.ResetAll()
	assert.False(t, e.IsLoaded())
	assert.Empty(t, e.Segments())

	require.NoError(t, e.Load())
	assert.Equal(t, first, e.Segments())
	assert.Equal(t, firstTokens, e.Tokens())
	for name, ci := range e.controls {
		assert.Equal(t, firstControls[name], *ci)
	}
	assert.Equal(t, "DefaultSegment1", e.Segments()[0].Name, "default names restart after a full reset")
}

func TestResetSegment(t *testing.T) {
	e, rec := loadEngine(t,
		"### S FTI=1",
		"@=0 s",
	)

	e.GenerateSegment("S", nil)
	e.ResetSegment("S")
	e.GenerateSegment("S", nil)
	assert.Equal(t, []string{"    s", "        s"}, e.GeneratedText())

	e.ResetSegment("")
	e.ResetSegment("Nope")
	assert.Len(t, rec.Find("unable to reset segment"), 2)
}

func TestResetGeneratedText(t *testing.T) {
	e, rec := loadEngine(t,
		"### S FTI=1",
		"@+1 s",
	)

	e.SetTabSize(2)
	e.GenerateSegment("S", nil)
	e.GenerateSegment("S", nil)
	require.Equal(t, 4, e.CurrentIndent())

	e.ResetGeneratedText()

	assert.Empty(t, e.GeneratedText())
	assert.Zero(t, e.CurrentIndent())
	assert.Equal(t, DefaultTabSize, e.TabSize())
	assert.True(t, e.IsLoaded())
	assert.True(t, rec.Contains("generated text for template file \"test.tt\" has been reset"))

	e.GenerateSegment("S", nil)
	assert.Equal(t, []string{"    s"}, e.GeneratedText(), "first time flags are restored")
}

func TestWrite(t *testing.T) {
	sink := &stubSink{}
	src := newStubSource(map[string][]string{"/t/a.tt": {"### A", "@=0 a"}})
	e := New(src, sink)
	require.NoError(t, e.LoadFile("/t/a.tt"))
	e.GenerateSegment("A", nil)

	require.NoError(t, e.Write("/out/a.txt", false))
	assert.True(t, e.IsWritten())
	assert.Equal(t, "/out/a.txt", sink.path)
	assert.Equal(t, []string{"a"}, sink.lines)
	assert.Equal(t, []string{"a"}, e.GeneratedText())

	e.GenerateSegment("A", nil)
	assert.False(t, e.IsWritten(), "generation invalidates the written flag")

	require.NoError(t, e.Write("/out/a.txt", true))
	assert.Equal(t, []string{"a", "a"}, sink.lines)
	assert.Empty(t, e.GeneratedText())
	assert.True(t, e.IsWritten())
}

func TestWrite_FailureLeavesStateUnchanged(t *testing.T) {
	sink := &stubSink{err: errStub}
	src := newStubSource(map[string][]string{"/t/a.tt": {"### A", "@=0 a"}})
	e := New(src, sink)
	require.NoError(t, e.LoadFile("/t/a.tt"))
	e.GenerateSegment("A", nil)

	assert.ErrorIs(t, e.Write("/out/a.txt", true), errStub)
	assert.False(t, e.IsWritten())
	assert.Equal(t, []string{"a"}, e.GeneratedText())

	assert.ErrorIs(t, New(src, nil).Write("x", true), ErrNoSink)
}

func TestWithTabSize(t *testing.T) {
	rec := diag.NewRecorder()
	src := newStubSource(map[string][]string{"/t/a.tt": {"### A", "@=1 a"}})
	e := New(src, nil, WithDiagnostics(rec), WithTabSize(20))

	assert.Equal(t, MaxTabSize, e.TabSize())
	assert.Len(t, rec.ByCategory(diag.Setup), 1)

	require.NoError(t, e.LoadFile("/t/a.tt"))
	e.GenerateSegment("A", nil)
	assert.Equal(t, []string{"         a"}, e.GeneratedText())

	e.SetTabSize(1)
	e.ResetGeneratedText()
	assert.Equal(t, MaxTabSize, e.TabSize())
}

func TestEngines_AreIndependent(t *testing.T) {
	a, _ := loadEngine(t, "### S", "@+1 <#=V#>")
	b, _ := loadEngine(t, "### S", "@+1 <#=V#>")

	a.GenerateSegment("S", map[string]string{"V": "a"})
	a.GenerateSegment("S", nil)
	b.GenerateSegment("S", map[string]string{"V": "b"})

	assert.Equal(t, []string{"    a", "        a"}, a.GeneratedText())
	assert.Equal(t, []string{"    b"}, b.GeneratedText())
}
