package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/OFFIS-RIT/quizbench/backend/internal/queue"
	"github.com/OFFIS-RIT/quizbench/backend/internal/storage"
	"github.com/OFFIS-RIT/quizbench/backend/internal/util"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/OFFIS-RIT/quizbench/backend/pkg/ai"
	oai "github.com/OFFIS-RIT/quizbench/backend/pkg/ai/ollama"
	gai "github.com/OFFIS-RIT/quizbench/backend/pkg/ai/openai"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/logger"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/logger/console"
	"github.com/OFFIS-RIT/quizbench/backend/pkg/store"
	storepgx "github.com/OFFIS-RIT/quizbench/backend/pkg/store/pgx"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgxvec "github.com/pgvector/pgvector-go/pgx"
)

// newAIClient builds the embedding client from the AI_* environment
// settings. Without an embedding model the worker runs lexical
// metrics only and returns nil.
func newAIClient() ai.EvalAIClient {
	embedModel := util.GetEnv("AI_EMBED_MODEL")
	if embedModel == "" {
		return nil
	}

	switch util.GetEnv("AI_ADAPTER") {
	case "ollama":
		client, err := oai.NewEvalOllamaClient(oai.NewEvalOllamaClientParams{
			EmbeddingModel: embedModel,
			BaseURL:        util.GetEnv("AI_EMBED_URL"),
			ApiKey:         util.GetEnv("AI_EMBED_KEY"),
		})
		if err != nil {
			logger.Fatal("Could not create Ollama client", "err", err)
		}
		return client
	default:
		return gai.NewEvalOpenAIClient(gai.NewEvalOpenAIClientParams{
			EmbeddingModel: embedModel,
			EmbeddingURL:   util.GetEnv("AI_EMBED_URL"),
			EmbeddingKey:   util.GetEnv("AI_EMBED_KEY"),
		})
	}
}

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	// Init s3 client
	client := storage.NewS3Client(ctx)

	// Init pgx client
	pgConn, err := pgxpool.New(ctx, util.GetEnv("DATABASE_URL"))
	if err != nil {
		logger.Fatal("Unable to connect to database", "err", err)
	}
	defer pgConn.Close()
	pgConn.Config().AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		return pgxvec.RegisterTypes(ctx, conn)
	}

	// Embedding client, wrapped with the persistent cache so repeat
	// evaluations of the same dataset skip the model.
	aiClient := newAIClient()
	if aiClient != nil {
		aiClient = store.NewCachingAIClient(store.NewCachingAIClientParams{
			Inner:   aiClient,
			Storage: storepgx.NewEvalDBStorageWithConnection(pgConn),
			Model:   util.GetEnv("AI_EMBED_MODEL"),
		})
	}

	// Init rabbitmq
	conn := queue.Init()
	defer conn.Close()

	// Init rabbitmq queues if not exist
	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, queue.WorkerQueues); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	logger.Info("Listening for messages")

	// Create a single consumer channel with prefetch=1
	// This ensures only ONE message is delivered at a time across all queues
	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	err = consumerCh.Qos(1, 0, true)
	if err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	type queuedMessage struct {
		msg       amqp.Delivery
		queueName string
	}

	messageChan := make(chan queuedMessage)

	for _, queueName := range queue.WorkerQueues {
		go func(qName string) {
			consumerTag := fmt.Sprintf("%s_consumer", qName)
			msgs, err := consumerCh.Consume(
				qName,
				consumerTag,
				false, // autoAck
				false, // exclusive
				false, // noLocal
				false, // noWait
				nil,   // args
			)
			if err != nil {
				logger.Fatal("Failed to start consuming", "queue", qName, "err", err)
			}

			for {
				select {
				case <-ctx.Done():
					logger.Info("Stopping consumer", "queue", qName)
					return
				case msg, ok := <-msgs:
					if !ok {
						logger.Info("Message channel closed", "queue", qName)
						return
					}
					messageChan <- queuedMessage{msg: msg, queueName: qName}
				}
			}
		}(queueName)
	}

	go func() {
		for {
			select {
			case <-ctx.Done():
				logger.Info("Stopping message processor")
				return
			case qm := <-messageChan:
				startTime := time.Now()
				logger.Info("Received message", "queue", qm.queueName)

				var processingErr error
				switch qm.queueName {
				case queue.ParseQueue:
					processingErr = queue.ProcessParseMessage(ctx, client, pgConn, string(qm.msg.Body))
				case queue.EvaluateQueue:
					processingErr = queue.ProcessEvaluateMessage(ctx, client, aiClient, pgConn, string(qm.msg.Body))
				}

				// If there was an error send to retry or dead-letter, otherwise ack the message
				if processingErr != nil {
					logger.Error("Error processing message", "queue", qm.queueName, "err", processingErr)
					handleProcessingError(consumerCh, qm.msg, qm.queueName)
				} else {
					err = qm.msg.Ack(false)
					if err != nil {
						logger.Error("Failed to ack message", "err", err)
					}
					logger.Info("Message processed successfully", "queue", qm.queueName)
				}

				if aiClient != nil {
					metrics := aiClient.GetMetrics()
					aiDuration := time.Duration(metrics.DurationMs) * time.Millisecond
					aiHours := int(aiDuration.Hours())
					aiMinutes := int(aiDuration.Minutes()) % 60
					aiSeconds := int(aiDuration.Seconds()) % 60
					logger.Info(
						"AI Metrics",
						"input_tokens", metrics.InputTokens,
						"output_tokens", metrics.OutputTokens,
						"total_tokens", metrics.TotalTokens,
						"duration", fmt.Sprintf("%02d:%02d:%02d", aiHours, aiMinutes, aiSeconds),
					)
					aiClient.ResetMetrics()
				}

				processingDuration := time.Since(startTime)
				hours := int(processingDuration.Hours())
				minutes := int(processingDuration.Minutes()) % 60
				seconds := int(processingDuration.Seconds()) % 60
				logger.Info(
					"Processing time",
					"duration", fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds),
				)
				logger.Info("Waiting for next message")
			}
		}
	}()

	<-ctx.Done()
	logger.Info("Shutdown signal received, exiting...")
}

func handleProcessingError(ch *amqp.Channel, msg amqp.Delivery, queueName string) {
	retries := 0
	if val, ok := msg.Headers["x-retries"]; ok {
		if v, ok := val.(int32); ok {
			retries = int(v)
		}
	}

	// If message has been retried 10 times, send to dead-letter
	if retries >= 10 {
		dlqName := queueName + "_dlq"
		logger.Info("Sending message to DLQ", "dlq", dlqName)
		pubErr := ch.Publish(
			"",
			dlqName,
			false,
			false,
			amqp.Publishing{
				ContentType: "text/plain",
				Body:        msg.Body,
				Headers:     msg.Headers,
			},
		)
		if pubErr != nil {
			logger.Error("Failed to publish to DLQ", "dlq", dlqName, "err", pubErr)
			msg.Nack(false, true)
			return
		}
		msg.Ack(false)
		return
	}

	retryName := queueName + "_retry"
	headers := msg.Headers
	if headers == nil {
		headers = amqp.Table{}
	}
	headers["x-retries"] = retries + 1

	pubErr := ch.Publish(
		"",
		retryName,
		false,
		false,
		amqp.Publishing{
			ContentType: "text/plain",
			Body:        msg.Body,
			Headers:     headers,
		},
	)
	if pubErr != nil {
		logger.Error("Failed to publish to retry queue", "retry_queue", retryName, "err", pubErr)
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
}
