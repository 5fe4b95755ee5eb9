package diag

import "github.com/simonhull/firebird-suite/wren/logger"

// NewLoggerSink forwards entries to l, mapping Info/Warning/Error to the
// logger's levels and attaching the category and location as fields.
func NewLoggerSink(l logger.Logger) Sink {
	return SinkFunc(func(e Entry) {
		fields := []logger.Field{logger.F("category", e.Category)}
		if e.Segment != "" {
			fields = append(fields, logger.F("segment", e.Segment), logger.F("line", e.Line))
		}

		switch e.Severity {
		case Error:
			l.Error(e.Message, fields...)
		case Warning:
			l.Warn(e.Message, fields...)
		default:
			l.Info(e.Message, fields...)
		}
	})
}
