package output

import (
	"github.com/LinkTsang/p0f-observer/internal/record"
)

// RecordConsumer receives parsed records.
type RecordConsumer interface {
	Consume(*record.Record) error
	Close() error
}

// ErrorConsumer is implemented by consumers that also report lines that
// failed to parse. line is the 1-based input line number.
type ErrorConsumer interface {
	ConsumeError(line int, raw string, err error) error
}
