// Package mqtt implements the bus publishers over Eclipse Paho.
package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"

	"github.com/agromw/missiond/infra/logger"
)

// Config defines the connection parameters for the Paho MQTT client and the
// topic templates plans and events are published on. Templates may contain
// the placeholders {mission}, {vehicle_type} and {vehicle_name}.
type Config struct {
	Broker              string      `json:"broker"`
	ClientID            string      `json:"client_id"`
	Username            string      `json:"username"`
	Password            string      `json:"password"`
	UseTLS              bool        `json:"use_tls"`
	ClientCert          string      `json:"client_cert"`
	ClientKey           string      `json:"client_key"`
	CABundle            string      `json:"ca_bundle"`
	QoS                 byte        `json:"qos"`
	Retained            bool        `json:"retained"`
	PlanTopic           string      `json:"plan_topic"`
	AbortTopic          string      `json:"abort_topic"`
	ConfigRequestTopic  string      `json:"config_request_topic"`
	ConfigResponseTopic string      `json:"config_response_topic"`
	TLSConfig           *tls.Config `json:"-"`
}

// SetDefaults fills unset fields with working defaults.
func (c *Config) SetDefaults() {
	if c.ClientID == "" {
		c.ClientID = "missiond"
	}
	if c.PlanTopic == "" {
		c.PlanTopic = "fleet/missions/{mission}/{vehicle_type}/{vehicle_name}/mission"
	}
	if c.AbortTopic == "" {
		c.AbortTopic = "fleet/missions/{mission}/{vehicle_type}/{vehicle_name}/event"
	}
	if c.ConfigRequestTopic == "" {
		c.ConfigRequestTopic = "fleet/sysconfig/request"
	}
	if c.ConfigResponseTopic == "" {
		c.ConfigResponseTopic = "fleet/sysconfig/response"
	}
}

// Validate checks the config for required fields.
func (c Config) Validate() error {
	if c.Broker == "" {
		return fmt.Errorf("mqtt config: broker is required")
	}
	if c.UseTLS && c.TLSConfig == nil {
		if c.ClientCert == "" || c.ClientKey == "" || c.CABundle == "" {
			return fmt.Errorf("mqtt config: tls requires client_cert, client_key and ca_bundle")
		}
	}
	return nil
}

// LoadTLSConfig loads the TLS configuration from the file paths in the
// config, unless one was injected directly.
func (c Config) LoadTLSConfig() (*tls.Config, error) {
	if c.TLSConfig != nil {
		return c.TLSConfig, nil
	}
	cert, err := tls.LoadX509KeyPair(c.ClientCert, c.ClientKey)
	if err != nil {
		return nil, fmt.Errorf("load cert: %w", err)
	}
	caBytes, err := os.ReadFile(c.CABundle)
	if err != nil {
		return nil, fmt.Errorf("read ca: %w", err)
	}
	pool := x509.NewCertPool()
	pool.AppendCertsFromPEM(caBytes)
	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		RootCAs:      pool,
		MinVersion:   tls.VersionTLS12,
	}, nil
}

// pahoClient is the subset of the Paho client the publishers use; the
// indirection keeps connection-free unit tests possible.
type pahoClient interface {
	IsConnected() bool
	Connect() paho.Token
	Disconnect(quiesce uint)
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Subscribe(topic string, qos byte, callback paho.MessageHandler) paho.Token
}

var newMQTTClient = func(opts *paho.ClientOptions) pahoClient {
	return paho.NewClient(opts)
}

// NewClientOptions builds mqtt client options from Config.
func NewClientOptions(cfg Config) (*paho.ClientOptions, error) {
	opts := paho.NewClientOptions().AddBroker(cfg.Broker).SetClientID(cfg.ClientID)
	opts.AutoReconnect = true
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
	}
	if cfg.Password != "" {
		opts.SetPassword(cfg.Password)
	}
	if cfg.UseTLS {
		tlsCfg, err := cfg.LoadTLSConfig()
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}
	return opts, nil
}

// connect dials the broker and waits for the connection to come up.
func connect(cfg Config, log logger.Logger) (pahoClient, error) {
	opts, err := NewClientOptions(cfg)
	if err != nil {
		return nil, err
	}
	opts.OnConnect = func(paho.Client) {
		log.Infof("MQTT connected to %s", cfg.Broker)
	}
	opts.OnConnectionLost = func(_ paho.Client, err error) {
		log.Errorf("connection lost: %v", err)
	}
	opts.OnReconnecting = func(_ paho.Client, _ *paho.ClientOptions) {
		log.Warnf("reconnecting to MQTT broker")
	}

	cli := newMQTTClient(opts)
	if token := cli.Connect(); token.Wait() && token.Error() != nil {
		return nil, token.Error()
	}
	return cli, nil
}

// waitTimeout bounds how long a single publish or subscribe may block.
const waitTimeout = 10 * time.Second
