package command

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/zlib"
	"github.com/lni/dragonboat/v4/logger"

	"github.com/apache/activemq-openwire-sub001/lib/buffer"
	"github.com/apache/activemq-openwire-sub001/lib/schema"
)

var Logger = logger.GetLogger("command")

// Message is the field group shared by all message types. On its own it is
// the plain message without a typed body.
type Message struct {
	BaseCommand
	ProducerID                *ProducerID
	Destination               Destination
	TransactionID             TransactionID
	OriginalDestination       Destination
	MessageID                 *MessageID
	OriginalTransactionID     TransactionID
	GroupID                   string
	GroupSequence             int32
	CorrelationID             string
	Persistent                bool
	Expiration                int64
	Priority                  byte
	ReplyTo                   Destination
	Timestamp                 int64
	Type                      string
	Content                   []byte
	MarshalledProperties      []byte
	Data                      DataStructure
	TargetConsumerID          *ConsumerID
	Compressed                bool
	RedeliveryCounter         int32
	BrokerPath                []*BrokerID
	Arrival                   int64
	UserID                    string
	ReceivedByDFBridge        bool
	Droppable                 bool
	Cluster                   []*BrokerID
	BrokerInTime              int64
	BrokerOutTime             int64
	JMSXGroupFirstForConsumer bool

	props    primitiveBag
	compress bool
}

func (*Message) DataStructureType() byte { return MessageType }

func (m *Message) message() *Message { return m }

// MessageCommand is implemented by every message type
type MessageCommand interface {
	Command
	message() *Message
}

// --------------------------------------------------------------------------
// Properties
// --------------------------------------------------------------------------

// SetProperty stores a typed application property. The value must be
// accepted by NormalizePrimitive.
func (m *Message) SetProperty(name string, v any) error {
	return m.props.set(m.MarshalledProperties, name, v)
}

// Property returns the named property, nil if it is not set
func (m *Message) Property(name string) (any, error) {
	return m.props.get(m.MarshalledProperties, name)
}

// RemoveProperty deletes the named property
func (m *Message) RemoveProperty(name string) error {
	return m.props.remove(m.MarshalledProperties, name)
}

// ClearProperties removes all properties
func (m *Message) ClearProperties() { m.props.clear() }

// PropertyNames returns the sorted names of all properties
func (m *Message) PropertyNames() ([]string, error) {
	return m.props.names(m.MarshalledProperties)
}

// --------------------------------------------------------------------------
// Body
// --------------------------------------------------------------------------

// SetCompressed requests the body to be deflated when the message is marshaled
func (m *Message) SetCompressed(v bool) { m.compress = v }

// SetPayload replaces the raw body
func (m *Message) SetPayload(b []byte) {
	m.Content = b
	m.Compressed = false
}

// Payload returns the raw body, inflated if it was compressed
func (m *Message) Payload() ([]byte, error) {
	if !m.Compressed || m.Content == nil {
		return m.Content, nil
	}
	return inflate(m.Content)
}

func deflate(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(b); err != nil {
		return nil, fmt.Errorf("command: compress body: %w", err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("command: compress body: %w", err)
	}
	return buf.Bytes(), nil
}

func inflate(b []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("command: decompress body: %w", err)
	}
	defer r.Close()
	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("command: decompress body: %w", err)
	}
	return out, nil
}

// --------------------------------------------------------------------------
// Marshal hooks
// --------------------------------------------------------------------------

func (m *Message) BeforeMarshal() error {
	raw, changed, err := m.props.flush()
	if err != nil {
		return err
	}
	if changed {
		m.MarshalledProperties = raw
	}
	if m.compress && !m.Compressed && len(m.Content) > 0 {
		b, err := deflate(m.Content)
		if err != nil {
			return err
		}
		Logger.Debugf("compressed message body from %d to %d bytes", len(m.Content), len(b))
		m.Content = b
		m.Compressed = true
	}
	return nil
}

func (m *Message) AfterMarshal() error { return nil }

func (m *Message) BeforeUnmarshal() error {
	m.props.reset()
	return nil
}

// AfterUnmarshal leaves properties and body encoded until they are accessed
func (m *Message) AfterUnmarshal() error { return nil }

// --------------------------------------------------------------------------
// Message types
// --------------------------------------------------------------------------

type BytesMessage struct{ Message }

func (*BytesMessage) DataStructureType() byte { return BytesMessageType }

type ObjectMessage struct{ Message }

func (*ObjectMessage) DataStructureType() byte { return ObjectMessageType }

type StreamMessage struct{ Message }

func (*StreamMessage) DataStructureType() byte { return StreamMessageType }

// BlobMessage refers to a body stored out of band
type BlobMessage struct {
	Message
	RemoteBlobURL   string
	MimeType        string
	DeletedByBroker bool
}

func (*BlobMessage) DataStructureType() byte { return BlobMessageType }

// TextMessage carries a UTF-8 text body, stored as an int32 length followed by
// the encoded text.
type TextMessage struct {
	Message
	text       *buffer.TextView
	textLoaded bool
	textDirty  bool
}

func (*TextMessage) DataStructureType() byte { return TextMessageType }

// SetText replaces the body
func (m *TextMessage) SetText(s string) {
	m.text = buffer.TextViewOf(s)
	m.textLoaded = true
	m.textDirty = true
}

// Text returns the body, "" if there is none
func (m *TextMessage) Text() (string, error) {
	tv, err := m.TextView()
	if err != nil || tv == nil {
		return "", err
	}
	return tv.String(), nil
}

// TextView returns the body as a view over the decoded content without
// copying it, nil if there is none.
func (m *TextMessage) TextView() (*buffer.TextView, error) {
	if m.textLoaded {
		return m.text, nil
	}
	body, err := m.Payload()
	if err != nil {
		return nil, err
	}
	if body != nil {
		in := buffer.NewInputStream(body)
		n, err := in.ReadInt32()
		if err != nil {
			return nil, fmt.Errorf("command: text body: %w", err)
		}
		if n >= 0 {
			v, err := in.ReadView(int(n))
			if err != nil {
				return nil, fmt.Errorf("command: text body: %w", err)
			}
			if m.text, err = buffer.NewTextView(v); err != nil {
				return nil, fmt.Errorf("command: text body: %w", err)
			}
		}
	}
	m.textLoaded = true
	return m.text, nil
}

func (m *TextMessage) BeforeMarshal() error {
	if m.textDirty {
		if m.text == nil {
			m.SetPayload(nil)
		} else {
			raw := m.text.View().Bytes()
			out := buffer.NewOutputStream(4 + len(raw))
			out.WriteInt32(int32(len(raw)))
			_, _ = out.Write(raw)
			if err := out.Err(); err != nil {
				return err
			}
			m.SetPayload(out.Bytes())
		}
		m.textDirty = false
	}
	return m.Message.BeforeMarshal()
}

func (m *TextMessage) BeforeUnmarshal() error {
	m.text = nil
	m.textLoaded = false
	m.textDirty = false
	return m.Message.BeforeUnmarshal()
}

// MapMessage carries a primitive map body
type MapMessage struct {
	Message
	body primitiveBag
}

func (*MapMessage) DataStructureType() byte { return MapMessageType }

func (m *MapMessage) rawBody() ([]byte, error) {
	if m.body.loaded {
		return nil, nil
	}
	return m.Payload()
}

// SetEntry stores a value in the body
func (m *MapMessage) SetEntry(name string, v any) error {
	raw, err := m.rawBody()
	if err != nil {
		return err
	}
	return m.body.set(raw, name, v)
}

// Entry returns the named value, nil if it is not set
func (m *MapMessage) Entry(name string) (any, error) {
	raw, err := m.rawBody()
	if err != nil {
		return nil, err
	}
	return m.body.get(raw, name)
}

// EntryNames returns the sorted names of the body entries
func (m *MapMessage) EntryNames() ([]string, error) {
	raw, err := m.rawBody()
	if err != nil {
		return nil, err
	}
	return m.body.names(raw)
}

func (m *MapMessage) BeforeMarshal() error {
	raw, changed, err := m.body.flush()
	if err != nil {
		return err
	}
	if changed {
		m.SetPayload(raw)
	}
	return m.Message.BeforeMarshal()
}

func (m *MapMessage) BeforeUnmarshal() error {
	m.body.reset()
	return m.Message.BeforeUnmarshal()
}

// --------------------------------------------------------------------------
// Schemas
// --------------------------------------------------------------------------

var messageSchema = &schema.Schema{
	Name:         "ActiveMQMessage",
	TypeCode:     MessageType,
	Base:         baseCommandSchema,
	Since:        1,
	MarshalAware: true,
	Project:      func(obj any) any { return obj.(MessageCommand).message() },
	New:          func() any { return &Message{} },
	Properties: []schema.Property{
		cached("producerId", 1, 1, func(o *Message) **ProducerID { return &o.ProducerID }),
		cached("destination", 2, 1, func(o *Message) *Destination { return &o.Destination }),
		cached("transactionId", 3, 1, func(o *Message) *TransactionID { return &o.TransactionID }),
		cached("originalDestination", 4, 1, func(o *Message) *Destination { return &o.OriginalDestination }),
		nested("messageId", 5, 1, func(o *Message) **MessageID { return &o.MessageID }),
		cached("originalTransactionId", 6, 1, func(o *Message) *TransactionID { return &o.OriginalTransactionID }),
		field(schema.KindString, "groupID", 7, 1, func(o *Message) *string { return &o.GroupID }),
		field(schema.KindInt, "groupSequence", 8, 1, func(o *Message) *int32 { return &o.GroupSequence }),
		field(schema.KindString, "correlationId", 9, 1, func(o *Message) *string { return &o.CorrelationID }),
		field(schema.KindBool, "persistent", 10, 1, func(o *Message) *bool { return &o.Persistent }),
		field(schema.KindLong, "expiration", 11, 1, func(o *Message) *int64 { return &o.Expiration }),
		field(schema.KindByte, "priority", 12, 1, func(o *Message) *byte { return &o.Priority }),
		nested("replyTo", 13, 1, func(o *Message) *Destination { return &o.ReplyTo }),
		field(schema.KindLong, "timestamp", 14, 1, func(o *Message) *int64 { return &o.Timestamp }),
		field(schema.KindString, "type", 15, 1, func(o *Message) *string { return &o.Type }),
		field(schema.KindBytes, "content", 16, 1, func(o *Message) *[]byte { return &o.Content }),
		field(schema.KindBytes, "marshalledProperties", 17, 1, func(o *Message) *[]byte { return &o.MarshalledProperties }),
		nested("dataStructure", 18, 1, func(o *Message) *DataStructure { return &o.Data }),
		cached("targetConsumerId", 19, 1, func(o *Message) **ConsumerID { return &o.TargetConsumerID }),
		field(schema.KindBool, "compressed", 20, 1, func(o *Message) *bool { return &o.Compressed }),
		field(schema.KindInt, "redeliveryCounter", 21, 1, func(o *Message) *int32 { return &o.RedeliveryCounter }),
		array("brokerPath", 22, 1, false, func(o *Message) *[]*BrokerID { return &o.BrokerPath }),
		field(schema.KindLong, "arrival", 23, 1, func(o *Message) *int64 { return &o.Arrival }),
		field(schema.KindString, "userID", 24, 1, func(o *Message) *string { return &o.UserID }),
		field(schema.KindBool, "recievedByDFBridge", 25, 1, func(o *Message) *bool { return &o.ReceivedByDFBridge }),
		field(schema.KindBool, "droppable", 26, 2, func(o *Message) *bool { return &o.Droppable }),
		array("cluster", 27, 3, false, func(o *Message) *[]*BrokerID { return &o.Cluster }),
		field(schema.KindLong, "brokerInTime", 28, 3, func(o *Message) *int64 { return &o.BrokerInTime }),
		field(schema.KindLong, "brokerOutTime", 29, 3, func(o *Message) *int64 { return &o.BrokerOutTime }),
		field(schema.KindBool, "jmsXGroupFirstForConsumer", 30, 10, func(o *Message) *bool { return &o.JMSXGroupFirstForConsumer }),
	},
}

func messageSubSchema(name string, code byte, since int, newFn func() any, props ...schema.Property) *schema.Schema {
	return &schema.Schema{
		Name:         name,
		TypeCode:     code,
		Base:         messageSchema,
		Since:        since,
		MarshalAware: true,
		New:          newFn,
		Properties:   props,
	}
}

var (
	bytesMessageSchema  = messageSubSchema("ActiveMQBytesMessage", BytesMessageType, 1, func() any { return &BytesMessage{} })
	mapMessageSchema    = messageSubSchema("ActiveMQMapMessage", MapMessageType, 1, func() any { return &MapMessage{} })
	objectMessageSchema = messageSubSchema("ActiveMQObjectMessage", ObjectMessageType, 1, func() any { return &ObjectMessage{} })
	streamMessageSchema = messageSubSchema("ActiveMQStreamMessage", StreamMessageType, 1, func() any { return &StreamMessage{} })
	textMessageSchema   = messageSubSchema("ActiveMQTextMessage", TextMessageType, 1, func() any { return &TextMessage{} })
)

var blobMessageSchema = messageSubSchema("ActiveMQBlobMessage", BlobMessageType, 3, func() any { return &BlobMessage{} },
	field(schema.KindString, "remoteBlobUrl", 1, 3, func(o *BlobMessage) *string { return &o.RemoteBlobURL }),
	field(schema.KindString, "mimeType", 2, 3, func(o *BlobMessage) *string { return &o.MimeType }),
	field(schema.KindBool, "deletedByBroker", 3, 3, func(o *BlobMessage) *bool { return &o.DeletedByBroker }),
)
