package mqtt

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nerrad567/plant-core/internal/infrastructure/config"
)

// testConfig returns a valid MQTT configuration for testing.
// Only the integration tests expect a broker at 127.0.0.1:1883.
func testConfig() config.MQTTConfig {
	return config.MQTTConfig{
		Enabled: true,
		Broker: config.MQTTBrokerConfig{
			Host:     "127.0.0.1",
			Port:     1883,
			ClientID: "plantcore-test",
		},
		QoS: 1,
		Reconnect: config.MQTTReconnectConfig{
			InitialDelay: 1,
			MaxDelay:     5,
		},
		TopicPrefix: "plantcore-test",
	}
}

// =============================================================================
// Options Tests
// =============================================================================

func TestBuildClientOptions(t *testing.T) {
	cfg := testConfig()
	cfg.Auth = config.MQTTAuthConfig{Username: "grower", Password: "secret"}

	opts := buildClientOptions(cfg)

	if len(opts.Servers) != 1 || opts.Servers[0].String() != "tcp://127.0.0.1:1883" {
		t.Errorf("Servers = %v, want [tcp://127.0.0.1:1883]", opts.Servers)
	}
	if opts.ClientID != "plantcore-test" {
		t.Errorf("ClientID = %q, want plantcore-test", opts.ClientID)
	}
	if opts.Username != "grower" || opts.Password != "secret" {
		t.Errorf("credentials = %q/%q, want grower/secret", opts.Username, opts.Password)
	}
	if !opts.CleanSession {
		t.Error("CleanSession = false, want true")
	}
	if !opts.AutoReconnect {
		t.Error("AutoReconnect = false, want true")
	}
	if opts.ConnectRetry {
		t.Error("ConnectRetry = true, want false")
	}
	if opts.MaxReconnectInterval != 5*time.Second {
		t.Errorf("MaxReconnectInterval = %v, want 5s", opts.MaxReconnectInterval)
	}
	if opts.TLSConfig != nil {
		t.Error("TLSConfig should be nil when TLS is disabled")
	}
}

func TestBuildClientOptions_TLS(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.TLS = true
	cfg.Broker.Port = 8883

	opts := buildClientOptions(cfg)

	if opts.Servers[0].String() != "ssl://127.0.0.1:8883" {
		t.Errorf("Servers[0] = %s, want ssl://127.0.0.1:8883", opts.Servers[0])
	}
	if opts.TLSConfig == nil || opts.TLSConfig.MinVersion != tlsMinVersion {
		t.Error("TLSConfig should enforce the minimum TLS version")
	}
}

func TestBuildClientOptions_NoAuth(t *testing.T) {
	opts := buildClientOptions(testConfig())

	if opts.Username != "" || opts.Password != "" {
		t.Errorf("credentials = %q/%q, want empty", opts.Username, opts.Password)
	}
}

func TestConfigureLWT(t *testing.T) {
	opts := buildClientOptions(testConfig())
	configureLWT(opts, Topics{Prefix: "greenhouse"}, "plantcore-test")

	if !opts.WillEnabled {
		t.Fatal("WillEnabled = false, want true")
	}
	if opts.WillTopic != "greenhouse/system/status" {
		t.Errorf("WillTopic = %q, want greenhouse/system/status", opts.WillTopic)
	}
	if !opts.WillRetained || opts.WillQos != 1 {
		t.Errorf("will retained=%v qos=%d, want true/1", opts.WillRetained, opts.WillQos)
	}

	var payload statusPayload
	if err := json.Unmarshal(opts.WillPayload, &payload); err != nil {
		t.Fatalf("will payload is not JSON: %v", err)
	}
	if payload.Status != "offline" || payload.Reason != "unexpected_disconnect" {
		t.Errorf("will payload = %+v", payload)
	}
}

func TestStatusPayloads(t *testing.T) {
	tests := []struct {
		name       string
		payload    []byte
		wantStatus string
		wantReason string
	}{
		{"online", buildOnlinePayload("c1"), "online", ""},
		{"offline", buildOfflinePayload("c1"), "offline", "graceful_shutdown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var p statusPayload
			if err := json.Unmarshal(tt.payload, &p); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if p.Status != tt.wantStatus || p.Reason != tt.wantReason || p.ClientID != "c1" {
				t.Errorf("payload = %+v", p)
			}
			if _, err := time.Parse(time.RFC3339, p.Timestamp); err != nil {
				t.Errorf("timestamp %q: %v", p.Timestamp, err)
			}
		})
	}
}

// =============================================================================
// Topic Tests
// =============================================================================

func TestTopicBuilders(t *testing.T) {
	tests := []struct {
		name     string
		builder  func() string
		expected string
	}{
		{
			name:     "PlantEvent",
			builder:  func() string { return Topics{Prefix: "greenhouse"}.PlantEvent(42, "updated") },
			expected: "greenhouse/plant/42/updated",
		},
		{
			name:     "PlantEvent default prefix",
			builder:  func() string { return Topics{}.PlantEvent(1, "created") },
			expected: "plantcore/plant/1/created",
		},
		{
			name:     "SystemStatus",
			builder:  func() string { return Topics{}.SystemStatus() },
			expected: "plantcore/system/status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.builder(); got != tt.expected {
				t.Errorf("got %q, want %q", got, tt.expected)
			}
		})
	}
}

// =============================================================================
// Disconnected Client Tests
// =============================================================================

func TestCloseNil(t *testing.T) {
	client := &Client{}
	if err := client.Close(); err != nil {
		t.Errorf("Close() on nil client error = %v, want nil", err)
	}
}

func TestIsConnected_InitialState(t *testing.T) {
	client := &Client{}

	if client.IsConnected() {
		t.Error("IsConnected() should be false for uninitialised client")
	}
}

func TestHealthCheckDisconnected(t *testing.T) {
	client := &Client{}

	err := client.HealthCheck(context.Background())
	if !errors.Is(err, ErrNotConnected) {
		t.Errorf("HealthCheck() error = %v, want ErrNotConnected", err)
	}
}

func TestHealthCheckCancelled(t *testing.T) {
	client := &Client{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := client.HealthCheck(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("HealthCheck() error = %v, want context.Canceled", err)
	}
}

func TestPublishValidation(t *testing.T) {
	client := &Client{}

	tests := []struct {
		name    string
		topic   string
		payload []byte
		qos     byte
		wantErr error
	}{
		{"empty topic", "", []byte("x"), 1, ErrInvalidTopic},
		{"invalid qos", "plantcore/plant/1/created", []byte("x"), 3, ErrInvalidQoS},
		{"payload too large", "plantcore/plant/1/created", []byte(strings.Repeat("x", maxPayloadSize+1)), 1, ErrPublishFailed},
		{"not connected", "plantcore/plant/1/created", []byte("x"), 1, ErrNotConnected},
		{"nil payload not connected", "plantcore/plant/1/created", nil, 0, ErrNotConnected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := client.Publish(tt.topic, tt.payload, tt.qos, false)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Publish() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestConnect_BrokerRefused(t *testing.T) {
	cfg := testConfig()
	cfg.Broker.Port = 19998

	_, err := Connect(cfg)
	if err == nil {
		t.Fatal("Connect() should fail for refused connection")
	}
	if !errors.Is(err, ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestSetCallbacks(t *testing.T) {
	client := &Client{}
	var disconnected error

	client.SetOnDisconnect(func(err error) { disconnected = err })
	client.SetLogger(nil)
	client.handleDisconnect(errors.New("broker went away"))

	if disconnected == nil || disconnected.Error() != "broker went away" {
		t.Errorf("onDisconnect got %v", disconnected)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after disconnect")
	}
}
