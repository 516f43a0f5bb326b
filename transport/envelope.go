package transport

import "encoding/json"

// ChannelRaw receives frames that carry no recognizable channel key or
// fail to parse as JSON objects. Nothing inbound is ever dropped.
const ChannelRaw = "raw"

// Accepted envelope keys, probed in order.
var (
	channelKeys = []string{"channel", "type", "event", "topic"}
	payloadKeys = []string{"payload", "data"}
)

// Message is one inbound frame after envelope demux. Payload is the
// extracted payload value, or the whole frame when no payload key was
// present or the frame landed on the raw channel.
type Message struct {
	Channel string
	Payload json.RawMessage
}

// ControlFrame is the outbound subscription protocol.
type ControlFrame struct {
	Action    string `json:"action"`
	Channel   string `json:"channel"`
	Symbol    string `json:"symbol,omitempty"`
	Timeframe string `json:"timeframe,omitempty"`
}

// SubscribeFrame builds the control frame for subscribing to a channel.
func SubscribeFrame(channel, symbol, timeframe string) ControlFrame {
	return ControlFrame{Action: "subscribe", Channel: channel, Symbol: symbol, Timeframe: timeframe}
}

// UnsubscribeFrame builds the control frame for leaving a channel.
func UnsubscribeFrame(channel, symbol, timeframe string) ControlFrame {
	return ControlFrame{Action: "unsubscribe", Channel: channel, Symbol: symbol, Timeframe: timeframe}
}

// demux maps a raw frame onto a channel. Frames that are not JSON
// objects or carry no channel key fall through to ChannelRaw verbatim.
func demux(raw []byte) Message {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return Message{Channel: ChannelRaw, Payload: raw}
	}

	var channel string
	for _, key := range channelKeys {
		v, ok := obj[key]
		if !ok {
			continue
		}
		var s string
		if json.Unmarshal(v, &s) == nil && s != "" {
			channel = s
			break
		}
	}
	if channel == "" {
		return Message{Channel: ChannelRaw, Payload: raw}
	}

	for _, key := range payloadKeys {
		if v, ok := obj[key]; ok {
			return Message{Channel: channel, Payload: v}
		}
	}
	return Message{Channel: channel, Payload: raw}
}
