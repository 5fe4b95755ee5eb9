// Package wrapper generates change-tracking wrappers for the exported
// structs of a Go package.
//
// Scan classifies each exported field of a model as simple, complex (another
// model of the package, by value or pointer) or collection (a slice of
// models). A Generator then drives a wrapper template segment by segment
// through the engine's public API and writes one gofmt-formatted file per
// model:
//
//	pkg, err := wrapper.Scan(fs, "internal/models")
//	eng, err := wrapper.NewDefaultEngine(engine.WithDiagnostics(sink))
//	gen := wrapper.New(eng, textio.NewFileWriter(fs), wrapper.Options{
//	    Package:    "wrappers",
//	    ImportPath: "example.com/app/internal/models",
//	    Dir:        "internal/wrappers",
//	})
//	paths, err := gen.Generate(pkg)
//
// A custom template must define the segments of the embedded one and use
// the same token names.
package wrapper
