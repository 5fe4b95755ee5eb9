// Package engine loads line-prefix templates and generates text from their
// named segments.
//
// # Template format
//
// Every line starts with a three character prefix followed by a blank:
//
//	### Name [FTI=n][, PAD=Segment][, TAB=n]   segment header
//	/// anything                              comment
//	@=n text   @+n text   @-n text            absolute / relative indent
//	O=n text   O+n text   O-n text            one-time indent
//	    text                                  keep the current indent
//
// Indent values are multiplied by the tab size. Text may contain tokens of
// the form <#=Name#>; a leading backslash (\<#=) makes a marker literal.
//
// # Generation
//
//	eng := engine.New(textio.NewFileSource(fs), textio.NewFileWriter(fs))
//	if err := eng.LoadFile("templates/model.tt"); err != nil {
//	    return err
//	}
//	eng.GenerateSegment("Header", map[string]string{"Package": "models"})
//	for _, f := range fields {
//	    eng.GenerateSegment("Field", map[string]string{"Name": f})
//	}
//	return eng.Write("out/model.go", true)
//
// Malformed template input never fails an operation. Problems are reported
// to the diag.Sink given with WithDiagnostics and processing continues.
package engine
