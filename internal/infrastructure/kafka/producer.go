package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"github.com/sanosuguru/go-venue-booking/internal/domain/event"
	"github.com/sanosuguru/go-venue-booking/internal/pkg/logger"
)

// messageWriter は kafka.Writer のうち Producer が使う部分
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer は予約ライフサイクルのメッセージを Kafka に配信する
type Producer struct {
	writer messageWriter
	topic  string
}

// NewProducer は新しいProducerを作成する
func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: 50 * time.Millisecond,
		RequiredAcks: kafka.RequireOne,
	}
	return &Producer{writer: writer, topic: topic}
}

// PublishBooking はメッセージを会場IDをキーにして配信する
// 同じ会場のメッセージは同じパーティションに入り、順序が保たれる
func (p *Producer) PublishBooking(ctx context.Context, msg event.BookingMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("メッセージのシリアライズに失敗: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(strconv.FormatInt(msg.VenueID, 10)),
		Value: data,
		Time:  msg.OccurredAt,
	})
	if err != nil {
		return fmt.Errorf("Kafkaへの書き込みに失敗: %w", err)
	}

	logger.Debug("予約メッセージを配信しました",
		zap.String("topic", p.topic),
		zap.String("type", string(msg.Type)),
		zap.Int64("event_id", msg.EventID),
	)
	return nil
}

// Close はライターを閉じる
func (p *Producer) Close() error {
	if p.writer != nil {
		return p.writer.Close()
	}
	return nil
}
