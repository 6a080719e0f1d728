package output

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/LinkTsang/p0f-observer/internal/record"
)

// publisher is the part of *nats.Conn the output needs.
type publisher interface {
	Publish(subj string, data []byte) error
	Drain() error
}

// NATSOutput publishes each record as JSON to "<subject>.<module>".
type NATSOutput struct {
	nc      publisher
	subject string
}

func NewNATSOutput(url, subject string) (*NATSOutput, error) {
	nc, err := nats.Connect(url, nats.Name("p0f-observer"))
	if err != nil {
		return nil, fmt.Errorf("nats connect %s: %w", url, err)
	}
	return &NATSOutput{nc: nc, subject: subject}, nil
}

// SubjectFor returns the subject a record is published on. Module tags
// with spaces become underscores; unknown modules share "unparsed".
func (n *NATSOutput) SubjectFor(r *record.Record) string {
	token := r.Kind().String()
	return n.subject + "." + strings.ReplaceAll(token, " ", "_")
}

func (n *NATSOutput) Consume(r *record.Record) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	return n.nc.Publish(n.SubjectFor(r), data)
}

// Close drains pending messages and closes the connection.
func (n *NATSOutput) Close() error {
	return n.nc.Drain()
}
