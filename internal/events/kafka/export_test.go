package kafka

import "github.com/segmentio/kafka-go"

func NewPublisherWithWriter(w messageWriter) *Publisher {
	return &Publisher{w: w}
}

func WriterOf(p *Publisher) *kafka.Writer {
	return p.w.(*kafka.Writer)
}
