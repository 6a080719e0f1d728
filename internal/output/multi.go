package output

import (
	"errors"

	"github.com/LinkTsang/p0f-observer/internal/record"
)

// Multi fans records out to several consumers in order.
type Multi []RecordConsumer

func (m Multi) Consume(r *record.Record) error {
	for _, c := range m {
		if err := c.Consume(r); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) ConsumeError(line int, raw string, err error) error {
	for _, c := range m {
		if ec, ok := c.(ErrorConsumer); ok {
			if cerr := ec.ConsumeError(line, raw, err); cerr != nil {
				return cerr
			}
		}
	}
	return nil
}

// Close closes every consumer, even after a failure.
func (m Multi) Close() error {
	var errs []error
	for _, c := range m {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}
