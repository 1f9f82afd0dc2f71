package kafka

import (
	"encoding/json"
	"fmt"
	"log"
	"strings"

	"github.com/confluentinc/confluent-kafka-go/v2/kafka"
	"github.com/white/campaign-manager/config"
)

// Producer wraps a Kafka producer
type Producer struct {
	producer *kafka.Producer
	config   config.KafkaConfig
}

// NewProducer creates a new Kafka producer
func NewProducer(cfg config.KafkaConfig) (*Producer, error) {
	producer, err := kafka.NewProducer(producerConfigMap(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create Kafka producer: %w", err)
	}

	go func() {
		for e := range producer.Events() {
			switch ev := e.(type) {
			case *kafka.Message:
				if ev.TopicPartition.Error != nil {
					log.Printf("Kafka delivery failed: %v", ev.TopicPartition.Error)
				}
			}
		}
	}()

	return &Producer{
		producer: producer,
		config:   cfg,
	}, nil
}

// producerConfigMap builds the librdkafka settings for cfg
func producerConfigMap(cfg config.KafkaConfig) *kafka.ConfigMap {
	configMap := &kafka.ConfigMap{
		"bootstrap.servers": strings.Join(cfg.Brokers, ","),
		"client.id":         cfg.ClientID,
		"acks":              "all",
	}
	if cfg.ProducerTimeout > 0 {
		configMap.SetKey("message.timeout.ms", cfg.ProducerTimeout)
	}

	if cfg.Username != "" && cfg.Password != "" {
		configMap.SetKey("sasl.mechanism", strings.ToUpper(cfg.SASLMechanism))
		configMap.SetKey("sasl.username", cfg.Username)
		configMap.SetKey("sasl.password", cfg.Password)

		if cfg.SSL {
			configMap.SetKey("security.protocol", "SASL_SSL")
		} else {
			configMap.SetKey("security.protocol", "SASL_PLAINTEXT")
		}
	} else if cfg.SSL {
		configMap.SetKey("security.protocol", "SSL")
	}

	return configMap
}

// Produce sends a message to a Kafka topic (async)
func (p *Producer) Produce(topic string, key, value []byte) error {
	message := &kafka.Message{
		TopicPartition: kafka.TopicPartition{
			Topic:     &topic,
			Partition: kafka.PartitionAny,
		},
		Key:   key,
		Value: value,
	}

	return p.producer.Produce(message, nil)
}

// PublishJSON marshals data to JSON and publishes it under key
func (p *Producer) PublishJSON(topic, key string, data interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	var keyBytes []byte
	if key != "" {
		keyBytes = []byte(key)
	}
	return p.Produce(topic, keyBytes, jsonData)
}

// Close flushes pending messages and closes the Kafka producer
func (p *Producer) Close() {
	if p.producer != nil {
		p.producer.Flush(5000)
		p.producer.Close()
	}
}
