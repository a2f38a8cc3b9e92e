package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"
)

// ErrUnknownEvent is returned when an envelope names an event type this
// client does not understand.
var ErrUnknownEvent = errors.New("protocol: unknown event type")

// Codec frames events into envelopes of the form {type, data}.
type Codec interface {
	// Name identifies the codec in configuration ("json", "msgpack").
	Name() string
	// Binary reports whether frames should travel as binary websocket messages.
	Binary() bool
	Marshal(evt Event) ([]byte, error)
	// Unmarshal decodes any known inbound or outbound event.
	Unmarshal(data []byte) (Event, error)
}

// NewCodec returns the codec registered under name. An empty name selects JSON.
func NewCodec(name string) (Codec, error) {
	switch name {
	case "", "json":
		return JSONCodec{}, nil
	case "msgpack":
		return MsgpackCodec{}, nil
	default:
		return nil, fmt.Errorf("protocol: unknown codec %q", name)
	}
}

type unmarshalFunc func(data []byte, v any) error

func decodeAs[T Event](unmarshal unmarshalFunc, data []byte) (Event, error) {
	var v T
	if len(data) > 0 {
		if err := unmarshal(data, &v); err != nil {
			return nil, err
		}
	}
	return v, nil
}

var decoders = map[string]func(unmarshalFunc, []byte) (Event, error){
	TypeGameState:     decodeAs[GameState],
	TypePlayerHit:     decodeAs[PlayerHit],
	TypePlayerRespawn: decodeAs[PlayerRespawn],
	TypePlayerKill:    decodeAs[PlayerKill],
	TypePlayerStatus:  decodeAs[PlayerStatus],
	TypePlayerJoined:  decodeAs[PlayerJoined],
	TypePlayerLeft:    decodeAs[PlayerLeft],
	TypePlayerUpdate:  decodeAs[PlayerUpdate],
	TypePlayerShoot:   decodeAs[PlayerShoot],
	TypePlayerMelee:   decodeAs[PlayerMelee],
	TypePlayerDied:    decodeAs[PlayerDied],
}

func decodeBody(typ string, unmarshal unmarshalFunc, body []byte) (Event, error) {
	decode, ok := decoders[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, typ)
	}
	evt, err := decode(unmarshal, body)
	if err != nil {
		return nil, fmt.Errorf("protocol: decode %s: %w", typ, err)
	}
	return evt, nil
}

// JSONCodec frames events as JSON text.
type JSONCodec struct{}

type jsonEnvelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

func (JSONCodec) Name() string { return "json" }
func (JSONCodec) Binary() bool { return false }

func (JSONCodec) Marshal(evt Event) ([]byte, error) {
	body, err := json.Marshal(evt)
	if err != nil {
		return nil, fmt.Errorf("protocol: encode %s: %w", evt.EventType(), err)
	}
	return json.Marshal(jsonEnvelope{Type: evt.EventType(), Data: body})
}

func (JSONCodec) Unmarshal(data []byte) (Event, error) {
	var env jsonEnvelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("protocol: decode envelope: %w", err)
	}
	return decodeBody(env.Type, json.Unmarshal, env.Data)
}

// MsgpackCodec frames events as MessagePack. Field names follow the json tags
// so both codecs produce the same logical document.
type MsgpackCodec struct{}

type msgpackEnvelope struct {
	Type string             `msgpack:"type"`
	Data msgpack.RawMessage `msgpack:"data"`
}

func (MsgpackCodec) Name() string { return "msgpack" }
func (MsgpackCodec) Binary() bool { return true }

func (MsgpackCodec) Marshal(evt Event) ([]byte, error) {
	var buf bytes.Buffer
	enc := msgpack.NewEncoder(&buf)
	enc.SetCustomStructTag("json")
	if err := enc.Encode(evt); err != nil {
		return nil, fmt.Errorf("protocol: encode %s: %w", evt.EventType(), err)
	}
	out, err := msgpack.Marshal(&msgpackEnvelope{Type: evt.EventType(), Data: buf.Bytes()})
	if err != nil {
		return nil, fmt.Errorf("protocol: encode envelope: %w", err)
	}
	return out, nil
}

func (MsgpackCodec) Unmarshal(data []byte) (Event, error) {
	var env msgpackEnvelope
	if err := msgpack.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("protocol: decode envelope: %w", err)
	}
	return decodeBody(env.Type, unmarshalMsgpack, env.Data)
}

func unmarshalMsgpack(data []byte, v any) error {
	dec := msgpack.NewDecoder(bytes.NewReader(data))
	dec.SetCustomStructTag("json")
	return dec.Decode(v)
}
