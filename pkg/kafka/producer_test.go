package kafka

import (
	"testing"

	"github.com/white/campaign-manager/config"
)

func TestProducerConfigMap(t *testing.T) {
	tests := []struct {
		name         string
		cfg          config.KafkaConfig
		wantProtocol string
	}{
		{
			name: "plaintext",
			cfg:  config.KafkaConfig{Brokers: []string{"a:9092", "b:9092"}, ClientID: "cm"},
		},
		{
			name:         "sasl over ssl",
			cfg:          config.KafkaConfig{Brokers: []string{"a:9092"}, Username: "u", Password: "p", SSL: true, SASLMechanism: "plain"},
			wantProtocol: "SASL_SSL",
		},
		{
			name:         "sasl plaintext",
			cfg:          config.KafkaConfig{Brokers: []string{"a:9092"}, Username: "u", Password: "p", SASLMechanism: "scram-sha-256"},
			wantProtocol: "SASL_PLAINTEXT",
		},
		{
			name:         "ssl only",
			cfg:          config.KafkaConfig{Brokers: []string{"a:9092"}, SSL: true},
			wantProtocol: "SSL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := producerConfigMap(tt.cfg)

			servers, err := m.Get("bootstrap.servers", "")
			if err != nil {
				t.Fatalf("bootstrap.servers: %v", err)
			}
			if servers == "" {
				t.Fatal("expected bootstrap.servers to be set")
			}

			protocol, err := m.Get("security.protocol", "")
			if err != nil {
				t.Fatalf("security.protocol: %v", err)
			}
			if protocol != tt.wantProtocol {
				t.Fatalf("expected protocol %q got %v", tt.wantProtocol, protocol)
			}
		})
	}
}

func TestProducerConfigMapJoinsBrokers(t *testing.T) {
	m := producerConfigMap(config.KafkaConfig{Brokers: []string{"a:9092", "b:9092"}})
	servers, _ := m.Get("bootstrap.servers", "")
	if servers != "a:9092,b:9092" {
		t.Fatalf("unexpected bootstrap.servers %v", servers)
	}
}
