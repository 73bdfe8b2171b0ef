package queue

import (
	"fmt"
	"time"

	"github.com/OFFIS-RIT/quizbench/backend/internal/util"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/logger"

	"github.com/rabbitmq/amqp091-go"
)

// Queues consumed by the evaluation worker.
const (
	ParseQueue    = "parse_queue"
	EvaluateQueue = "evaluate_queue"
)

// WorkerQueues lists every queue the worker consumes.
var WorkerQueues = []string{ParseQueue, EvaluateQueue}

// QueueEvaluateJobMsg is the payload published to evaluate_queue. The
// keys reference objects in the dataset bucket.
type QueueEvaluateJobMsg struct {
	JobID          string   `json:"job_id"`
	DatasetKey     string   `json:"dataset_key"`
	PredictionsKey string   `json:"predictions_key"`
	Model          string   `json:"model,omitempty"`
	Sources        []string `json:"sources,omitempty"`
	Workers        int      `json:"workers,omitempty"`
	Embeddings     bool     `json:"embeddings,omitempty"`
}

// QueueParseJobMsg is the payload published to parse_queue. OutputKey
// references the raw generator output to parse.
type QueueParseJobMsg struct {
	JobID     string `json:"job_id"`
	OutputKey string `json:"output_key"`
	Graph     bool   `json:"graph,omitempty"`
}

// Init connects to RabbitMQ using the connection settings from the
// environment. Exits the process when the broker is unreachable.
func Init() *amqp091.Connection {
	user := util.GetEnv("RABBITMQ_USER")
	pass := util.GetEnv("RABBITMQ_PASSWORD")
	host := util.GetEnv("RABBITMQ_HOST")
	port := util.GetEnv("RABBITMQ_PORT")

	connURL := fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		user,
		pass,
		host,
		port,
	)

	conn, err := amqp091.Dial(connURL)
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", "err", err)
	}

	return conn
}

// SetupQueues declares each queue together with its retry and dead
// letter companions. Messages published to <name>_retry expire after
// ten seconds and dead-letter back onto the work queue.
func SetupQueues(ch *amqp091.Channel, queueNames []string) error {
	for _, name := range queueNames {
		_, err := ch.QueueDeclare(
			name,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // args
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", name, err)
		}

		dlqName := name + "_dlq"
		_, err = ch.QueueDeclare(
			dlqName,
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", dlqName, err)
		}

		retryName := name + "_retry"
		_, err = ch.QueueDeclare(
			retryName,
			true,
			false,
			false,
			false,
			amqp091.Table{
				"x-message-ttl":             int32(10000),
				"x-dead-letter-exchange":    "",
				"x-dead-letter-routing-key": name,
			},
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", retryName, err)
		}
	}

	return nil
}

// PublishFIFO publishes a persistent message to the named queue,
// declaring it when it does not exist yet.
func PublishFIFO(ch *amqp091.Channel, queueName string, data []byte) error {
	q, err := ch.QueueDeclare(
		queueName,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         data,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	}

	err = ch.Publish(
		"",
		q.Name,
		false,
		false,
		publishing,
	)
	if err != nil {
		return err
	}

	return nil
}
