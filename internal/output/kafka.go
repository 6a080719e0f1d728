package output

import (
	"encoding/json"
	"fmt"

	"github.com/IBM/sarama"

	"github.com/LinkTsang/p0f-observer/internal/record"
)

// KafkaOutput publishes each record as JSON to one topic. Messages are
// keyed by the address of the fingerprinted endpoint so a host's records
// land in the same partition.
type KafkaOutput struct {
	producer sarama.SyncProducer
	topic    string
}

func NewKafkaConfig() *sarama.Config {
	config := sarama.NewConfig()
	config.Producer.RequiredAcks = sarama.WaitForAll
	config.Producer.Retry.Max = 5
	config.Producer.Return.Successes = true
	return config
}

func NewKafkaOutput(brokers []string, topic string) (*KafkaOutput, error) {
	producer, err := sarama.NewSyncProducer(brokers, NewKafkaConfig())
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return NewKafkaOutputWithProducer(producer, topic), nil
}

func NewKafkaOutputWithProducer(producer sarama.SyncProducer, topic string) *KafkaOutput {
	return &KafkaOutput{producer: producer, topic: topic}
}

func (k *KafkaOutput) Consume(r *record.Record) error {
	value, err := json.Marshal(r)
	if err != nil {
		return err
	}

	message := &sarama.ProducerMessage{
		Topic: k.topic,
		Value: sarama.ByteEncoder(value),
		Headers: []sarama.RecordHeader{
			{Key: []byte("module"), Value: []byte(r.Module())},
		},
	}
	if ep := r.Observed(); ep.IsValid() {
		message.Key = sarama.StringEncoder(ep.Addr.String())
	}

	if _, _, err := k.producer.SendMessage(message); err != nil {
		return fmt.Errorf("kafka send to %s: %w", k.topic, err)
	}
	return nil
}

func (k *KafkaOutput) Close() error {
	return k.producer.Close()
}
