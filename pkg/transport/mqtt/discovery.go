package mqtt

import (
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
)

// Home Assistant MQTT discovery: retained sensor config packets published
// under homeassistant/sensor/<node_id>/<object_id>/config so the bridge shows
// up as a device without manual YAML.
const discoveryTopicFormat = "homeassistant/sensor/promptrelay/%s/config"

type discoveryDevice struct {
	Identifiers  []string `json:"identifiers"`
	Name         string   `json:"name"`
	Model        string   `json:"model"`
	Manufacturer string   `json:"manufacturer"`
	SWVersion    string   `json:"sw_version"`
}

type discoveryPacket struct {
	Name                   string          `json:"name"`
	UniqueID               string          `json:"unique_id"`
	StateTopic             string          `json:"state_topic"`
	ValueTemplate          string          `json:"value_template"`
	JSONAttributesTopic    string          `json:"json_attributes_topic"`
	JSONAttributesTemplate string          `json:"json_attributes_template"`
	Icon                   string          `json:"icon"`
	Device                 discoveryDevice `json:"device"`
}

// AnnounceDiscovery publishes retained discovery packets for the response and
// prompt topics. Announcement failures are logged, never fatal: the bridge
// works without Home Assistant.
func (t *Transport) AnnounceDiscovery() {
	t.logger.Info("announcing bridge sensors to Home Assistant")

	packets := []discoveryPacket{
		{
			Name:                   "AI Last Response",
			UniqueID:               "promptrelay_last_response",
			StateTopic:             t.config.ResponseTopic,
			ValueTemplate:          "{{ value_json.response | truncate(250) }}",
			JSONAttributesTopic:    t.config.ResponseTopic,
			JSONAttributesTemplate: "{{ {'full_text': value_json.response, 'thread_id': value_json.threadId} | tojson }}",
			Icon:                   "mdi:robot",
		},
		{
			Name:                   "AI Last Prompt",
			UniqueID:               "promptrelay_last_prompt",
			StateTopic:             t.config.PromptTopic,
			ValueTemplate:          "{{ value_json.text | truncate(250) }}",
			JSONAttributesTopic:    t.config.PromptTopic,
			JSONAttributesTemplate: "{{ {'full_text': value_json.text, 'thread_id': value_json.threadId} | tojson }}",
			Icon:                   "mdi:message-text",
		},
	}

	device := discoveryDevice{
		Identifiers:  []string{"promptrelay_bridge"},
		Name:         "PromptRelay Bridge",
		Model:        "promptrelay",
		Manufacturer: "azziedev",
		SWVersion:    "1.0.0",
	}

	for _, packet := range packets {
		packet.Device = device

		payload, err := json.Marshal(packet)
		if err != nil {
			t.logger.Error("failed to encode discovery packet",
				zap.String("unique_id", packet.UniqueID),
				zap.Error(err),
			)
			continue
		}

		topic := fmt.Sprintf(discoveryTopicFormat, packet.UniqueID)
		if err := t.PublishRetained(topic, payload); err != nil {
			t.logger.Error("failed to send discovery packet",
				zap.String("unique_id", packet.UniqueID),
				zap.Error(err),
			)
			continue
		}

		t.logger.Info("discovery packet sent", zap.String("unique_id", packet.UniqueID))
	}
}
