// FilePath: internal/mqtt/ingest.go
package mqtt

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/sarlink/relayhub/internal/config"
	"github.com/sarlink/relayhub/internal/models"
	"github.com/sarlink/relayhub/internal/relayservice"
	nuts "github.com/vaudience/go-nuts"
)

const ingestTimeout = 10 * time.Second

// IngestBridge subscribes to the fleet transmission topic and feeds decoded
// reports into the relay core. Malformed payloads are logged and dropped;
// the bridge never acks back to the units beyond MQTT QoS.
type IngestBridge struct {
	client paho.Client
	cfg    config.MQTTConfig
	svc    *relayservice.RelayService
}

// NewIngestBridge creates the bridge without connecting
func NewIngestBridge(cfg config.MQTTConfig, svc *relayservice.RelayService) *IngestBridge {
	opts := paho.NewClientOptions().
		AddBroker(cfg.BrokerURL).
		SetClientID(cfg.ClientID).
		SetUsername(cfg.Username).
		SetPassword(cfg.Password).
		SetAutoReconnect(true).
		SetConnectRetry(true)

	bridge := &IngestBridge{cfg: cfg, svc: svc}
	opts.SetOnConnectHandler(func(client paho.Client) {
		if token := client.Subscribe(cfg.Topic, 1, bridge.handleMessage); token.Wait() && token.Error() != nil {
			nuts.L.Errorf("[MQTTIngest] Failed to subscribe to %s: %v", cfg.Topic, token.Error())
			return
		}
		nuts.L.Infof("[MQTTIngest] Subscribed to %s", cfg.Topic)
	})

	bridge.client = paho.NewClient(opts)
	return bridge
}

// Start connects to the broker
func (b *IngestBridge) Start() error {
	token := b.client.Connect()
	if token.Wait() && token.Error() != nil {
		return fmt.Errorf("mqtt connect: %w", token.Error())
	}
	nuts.L.Infof("[MQTTIngest] Connected to %s", b.cfg.BrokerURL)
	return nil
}

// Stop disconnects from the broker
func (b *IngestBridge) Stop() {
	b.client.Disconnect(250)
}

func (b *IngestBridge) handleMessage(_ paho.Client, msg paho.Message) {
	var tx models.Transmission
	if err := json.Unmarshal(msg.Payload(), &tx); err != nil {
		nuts.L.Warnf("[MQTTIngest] Dropping malformed payload on %s: %v", msg.Topic(), err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
	defer cancel()

	if _, err := b.svc.ReportTransmission(ctx, &tx); err != nil {
		nuts.L.Warnf("[MQTTIngest] Failed to ingest transmission from %s: %v", tx.SlaveID, err)
	}
}
