// 包 review：新点位投稿，校验必填项后转发到人工审核队列；不落库
package review

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"greenlink/internal/catalog"
	"greenlink/internal/logger"
	"greenlink/internal/metrics"
)

var ErrInvalid = errors.New("review: invalid submission")

// Submission：访客提交的候选点位
type Submission struct {
	ID         string             `json:"id"`
	Name       string             `json:"name"`
	Address    string             `json:"address"`
	Comuna     catalog.Comuna     `json:"comuna"`
	Materials  []catalog.Material `json:"materials"`
	Schedule   string             `json:"schedule,omitempty"`
	Contact    string             `json:"contact,omitempty"`
	ReceivedAt time.Time          `json:"receivedAt"`
}

// Validate：与表单 required 属性一致的必填检查，不做更深的业务校验
func (s Submission) Validate() error {
	var missing []string
	if strings.TrimSpace(s.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(s.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(string(s.Comuna)) == "" {
		missing = append(missing, "comuna")
	}
	if len(s.Materials) == 0 {
		missing = append(missing, "materials")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: missing %s", ErrInvalid, strings.Join(missing, ","))
	}
	return nil
}

// Fingerprint：用于短周期去重的稳定键（名称+地址+行政区，忽略大小写与空白）
func (s Submission) Fingerprint() string {
	norm := func(v string) string { return strings.Join(strings.Fields(strings.ToLower(v)), " ") }
	return norm(s.Name) + "|" + norm(s.Address) + "|" + norm(string(s.Comuna))
}

// Publisher：审核队列出口
type Publisher interface {
	Publish(ctx context.Context, s Submission) error
}

// LogPublisher：未配置 AMQP 时仅记录日志
type LogPublisher struct{}

func (LogPublisher) Publish(_ context.Context, s Submission) error {
	logger.L().Info("submission_received", "id", s.ID, "name", s.Name, "comuna", string(s.Comuna), "materials", len(s.Materials))
	return nil
}

// AMQPPublisher：以 JSON 消息投递到持久化队列
type AMQPPublisher struct {
	conn  *amqp.Connection
	queue string
}

// Dial：连接并声明队列
func Dial(url, queue string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, err
	}
	defer ch.Close()
	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // delete when unused
		false, // exclusive
		false, // noWait
		nil,   // arguments
	); err != nil {
		conn.Close()
		return nil, err
	}
	return &AMQPPublisher{conn: conn, queue: queue}, nil
}

func (p *AMQPPublisher) Publish(ctx context.Context, s Submission) error {
	body, err := json.Marshal(s)
	if err != nil {
		return err
	}
	ch, err := p.conn.Channel()
	if err != nil {
		metrics.ReviewPublishTotal.WithLabelValues("fail").Inc()
		return err
	}
	defer ch.Close()
	err = ch.PublishWithContext(ctx,
		"",      // default exchange
		p.queue, // routing key
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			MessageId:    s.ID,
			Timestamp:    s.ReceivedAt,
			Body:         body,
		},
	)
	if err != nil {
		metrics.ReviewPublishTotal.WithLabelValues("fail").Inc()
		return err
	}
	metrics.ReviewPublishTotal.WithLabelValues("ok").Inc()
	logger.L().Debug("submission_queued", "id", s.ID, "queue", p.queue)
	return nil
}

func (p *AMQPPublisher) Close() error { return p.conn.Close() }
