// Package kafka prepares the bucket-notification topic for the worker and probes broker readiness
package kafka

import (
	"context"
	"errors"
	"log"
	"time"

	kafkago "github.com/segmentio/kafka-go"
)

// InitKafkaTopics creates the notification topics, treating "already exists" as success.
// It keeps retrying until every topic is in place or ctx is done.
func InitKafkaTopics(ctx context.Context, brokerAddr string, delay time.Duration, topics ...string) error {
	client := &kafkago.Client{
		Addr:    kafkago.TCP(brokerAddr),
		Timeout: 10 * time.Second,
	}
	req := topicsRequest(topics)

	for {
		resp, err := client.CreateTopics(ctx, req)
		switch {
		case err != nil:
			log.Printf("Failed to run topics creation request: %v\nWait %v before next try...", err, delay)
		case failedTopics(resp.Errors) == 0:
			log.Println("Notification topics are ready")
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}

func topicsRequest(topics []string) *kafkago.CreateTopicsRequest {
	req := &kafkago.CreateTopicsRequest{
		Topics: make([]kafkago.TopicConfig, 0, len(topics)),
	}
	for _, t := range topics {
		req.Topics = append(req.Topics, kafkago.TopicConfig{
			Topic:             t,
			NumPartitions:     1,
			ReplicationFactor: 1,
		})
	}
	return req
}

func failedTopics(errs map[string]error) int {
	failed := 0
	for topic, err := range errs {
		if err == nil || errors.Is(err, kafkago.TopicAlreadyExists) {
			continue
		}
		log.Printf("Topic %q creation error: %v", topic, err)
		failed++
	}
	return failed
}

// WaitKafkaReady blocks until a TCP dial to the broker succeeds or ctx is done.
func WaitKafkaReady(ctx context.Context, brokerAddr string, delay time.Duration) error {
	for {
		conn, err := kafkago.DialContext(ctx, "tcp", brokerAddr)
		if err == nil {
			if errConn := conn.Close(); errConn != nil {
				log.Println("Failed to close probe connection to Kafka:", errConn)
			}
			log.Println("Kafka is ready!")
			return nil
		}
		log.Printf("Kafka not ready, retrying in %v...", delay)

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delay):
		}
	}
}
