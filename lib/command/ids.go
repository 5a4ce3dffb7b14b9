package command

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/apache/activemq-openwire-sub001/lib/schema"
)

// BrokerID identifies a broker in a network of brokers
type BrokerID struct {
	Value string
}

func (*BrokerID) DataStructureType() byte { return BrokerIDType }
func (id *BrokerID) CacheKey() string     { return id.Value }
func (id *BrokerID) String() string       { return id.Value }

// ConnectionID identifies a client connection
type ConnectionID struct {
	Value string
}

func (*ConnectionID) DataStructureType() byte { return ConnectionIDType }
func (id *ConnectionID) CacheKey() string     { return id.Value }
func (id *ConnectionID) String() string       { return id.Value }

// SessionID identifies a session within a connection
type SessionID struct {
	ConnectionID string
	Value        int64
}

func (*SessionID) DataStructureType() byte { return SessionIDType }
func (id *SessionID) CacheKey() string     { return id.String() }
func (id *SessionID) String() string {
	return id.ConnectionID + ":" + strconv.FormatInt(id.Value, 10)
}

// ConsumerID identifies a consumer within a session
type ConsumerID struct {
	ConnectionID string
	SessionID    int64
	Value        int64
}

func (*ConsumerID) DataStructureType() byte { return ConsumerIDType }
func (id *ConsumerID) CacheKey() string     { return id.String() }
func (id *ConsumerID) String() string {
	return fmt.Sprintf("%s:%d:%d", id.ConnectionID, id.SessionID, id.Value)
}

// ProducerID identifies a producer within a session
type ProducerID struct {
	ConnectionID string
	Value        int64
	SessionID    int64
}

func (*ProducerID) DataStructureType() byte { return ProducerIDType }
func (id *ProducerID) CacheKey() string     { return id.String() }
func (id *ProducerID) String() string {
	return fmt.Sprintf("%s:%d:%d", id.ConnectionID, id.SessionID, id.Value)
}

// MessageID identifies a message by its producer and sequence numbers.
// Since protocol version 10 the id may also carry a preformatted text form.
type MessageID struct {
	TextView           string
	ProducerID         *ProducerID
	ProducerSequenceID int64
	BrokerSequenceID   int64
}

func (*MessageID) DataStructureType() byte { return MessageIDType }

// CacheKey covers every field, a text view equal to the rendering of another
// id must not resolve to it
func (id *MessageID) CacheKey() string {
	producer := "nil"
	if id.ProducerID != nil {
		producer = strconv.Quote(id.ProducerID.CacheKey())
	}
	return fmt.Sprintf("%q:%s:%d:%d", id.TextView, producer, id.ProducerSequenceID, id.BrokerSequenceID)
}

func (id *MessageID) String() string {
	if id.TextView != "" {
		return id.TextView
	}
	if id.ProducerID == nil {
		return "<nil>:" + strconv.FormatInt(id.ProducerSequenceID, 10)
	}
	return id.ProducerID.String() + ":" + strconv.FormatInt(id.ProducerSequenceID, 10)
}

// TransactionID is implemented by the local and XA transaction ids
type TransactionID interface {
	DataStructure
	IsXA() bool
}

// LocalTransactionID is a transaction local to one connection
type LocalTransactionID struct {
	Value        int64
	ConnectionID *ConnectionID
}

func (*LocalTransactionID) DataStructureType() byte { return LocalTransactionIDType }
func (*LocalTransactionID) IsXA() bool               { return false }

// CacheKey tells a missing connection id from one with an empty value
func (id *LocalTransactionID) CacheKey() string {
	conn := "nil"
	if id.ConnectionID != nil {
		conn = strconv.Quote(id.ConnectionID.Value)
	}
	return "TX:" + conn + ":" + strconv.FormatInt(id.Value, 10)
}

func (id *LocalTransactionID) String() string {
	conn := ""
	if id.ConnectionID != nil {
		conn = id.ConnectionID.Value
	}
	return fmt.Sprintf("TX:%s:%d", conn, id.Value)
}

// XATransactionID is a distributed transaction branch
type XATransactionID struct {
	FormatID            int32
	GlobalTransactionID []byte
	BranchQualifier     []byte
}

func (*XATransactionID) DataStructureType() byte { return XATransactionIDType }
func (*XATransactionID) IsXA() bool               { return true }

// CacheKey tells null byte arrays from empty ones, tight encoding keeps them apart
func (id *XATransactionID) CacheKey() string {
	return fmt.Sprintf("XID:%d:%s:%s", id.FormatID, bytesKey(id.GlobalTransactionID), bytesKey(id.BranchQualifier))
}

func (id *XATransactionID) String() string {
	return fmt.Sprintf("XID:[%d,globalId=%x,branchId=%x]", id.FormatID, id.GlobalTransactionID, id.BranchQualifier)
}

func bytesKey(b []byte) string {
	if b == nil {
		return "nil"
	}
	return "[" + hex.EncodeToString(b) + "]"
}

// --------------------------------------------------------------------------
// Destinations
// --------------------------------------------------------------------------

// Destination is implemented by queues and topics
type Destination interface {
	DataStructure
	PhysicalName() string
	IsTemporary() bool
	IsTopic() bool
	destination() *DestinationName
}

// DestinationName is the field group shared by all destinations
type DestinationName struct {
	Name string
}

func (d *DestinationName) PhysicalName() string          { return d.Name }
func (d *DestinationName) CacheKey() string              { return d.Name }
func (d *DestinationName) destination() *DestinationName { return d }

type Queue struct{ DestinationName }

func (*Queue) DataStructureType() byte { return QueueType }
func (*Queue) IsTemporary() bool       { return false }
func (*Queue) IsTopic() bool           { return false }
func (d *Queue) String() string        { return "queue://" + d.Name }

type Topic struct{ DestinationName }

func (*Topic) DataStructureType() byte { return TopicType }
func (*Topic) IsTemporary() bool       { return false }
func (*Topic) IsTopic() bool           { return true }
func (d *Topic) String() string        { return "topic://" + d.Name }

type TempQueue struct{ DestinationName }

func (*TempQueue) DataStructureType() byte { return TempQueueType }
func (*TempQueue) IsTemporary() bool       { return true }
func (*TempQueue) IsTopic() bool           { return false }
func (d *TempQueue) String() string        { return "temp-queue://" + d.Name }

type TempTopic struct{ DestinationName }

func (*TempTopic) DataStructureType() byte { return TempTopicType }
func (*TempTopic) IsTemporary() bool       { return true }
func (*TempTopic) IsTopic() bool           { return true }
func (d *TempTopic) String() string        { return "temp-topic://" + d.Name }

// NewQueue creates a queue destination
func NewQueue(name string) *Queue { return &Queue{DestinationName{name}} }

// NewTopic creates a topic destination
func NewTopic(name string) *Topic { return &Topic{DestinationName{name}} }

// --------------------------------------------------------------------------
// Schemas
// --------------------------------------------------------------------------

var brokerIDSchema = &schema.Schema{
	Name: "BrokerId", TypeCode: BrokerIDType, Since: 1,
	New: func() any { return &BrokerID{} },
	Properties: []schema.Property{
		field(schema.KindString, "value", 1, 1, func(o *BrokerID) *string { return &o.Value }),
	},
}

var connectionIDSchema = &schema.Schema{
	Name: "ConnectionId", TypeCode: ConnectionIDType, Since: 1,
	New: func() any { return &ConnectionID{} },
	Properties: []schema.Property{
		field(schema.KindString, "value", 1, 1, func(o *ConnectionID) *string { return &o.Value }),
	},
}

var sessionIDSchema = &schema.Schema{
	Name: "SessionId", TypeCode: SessionIDType, Since: 1,
	New: func() any { return &SessionID{} },
	Properties: []schema.Property{
		field(schema.KindString, "connectionId", 1, 1, func(o *SessionID) *string { return &o.ConnectionID }),
		field(schema.KindLong, "value", 2, 1, func(o *SessionID) *int64 { return &o.Value }),
	},
}

var consumerIDSchema = &schema.Schema{
	Name: "ConsumerId", TypeCode: ConsumerIDType, Since: 1,
	New: func() any { return &ConsumerID{} },
	Properties: []schema.Property{
		field(schema.KindString, "connectionId", 1, 1, func(o *ConsumerID) *string { return &o.ConnectionID }),
		field(schema.KindLong, "sessionId", 2, 1, func(o *ConsumerID) *int64 { return &o.SessionID }),
		field(schema.KindLong, "value", 3, 1, func(o *ConsumerID) *int64 { return &o.Value }),
	},
}

var producerIDSchema = &schema.Schema{
	Name: "ProducerId", TypeCode: ProducerIDType, Since: 1,
	New: func() any { return &ProducerID{} },
	Properties: []schema.Property{
		field(schema.KindString, "connectionId", 1, 1, func(o *ProducerID) *string { return &o.ConnectionID }),
		field(schema.KindLong, "value", 2, 1, func(o *ProducerID) *int64 { return &o.Value }),
		field(schema.KindLong, "sessionId", 3, 1, func(o *ProducerID) *int64 { return &o.SessionID }),
	},
}

// MessageId changed shape in version 10, so each family has its own schema
var messageIDSchemaV1 = &schema.Schema{
	Name: "MessageId", TypeCode: MessageIDType, Since: 1, Until: 9,
	New: func() any { return &MessageID{} },
	Properties: []schema.Property{
		cached("producerId", 1, 1, func(o *MessageID) **ProducerID { return &o.ProducerID }),
		field(schema.KindLong, "producerSequenceId", 2, 1, func(o *MessageID) *int64 { return &o.ProducerSequenceID }),
		field(schema.KindLong, "brokerSequenceId", 3, 1, func(o *MessageID) *int64 { return &o.BrokerSequenceID }),
	},
}

var messageIDSchemaV10 = &schema.Schema{
	Name: "MessageId", TypeCode: MessageIDType, Since: 10,
	New: func() any { return &MessageID{} },
	Properties: []schema.Property{
		field(schema.KindString, "textView", 1, 10, func(o *MessageID) *string { return &o.TextView }),
		cached("producerId", 2, 1, func(o *MessageID) **ProducerID { return &o.ProducerID }),
		field(schema.KindLong, "producerSequenceId", 3, 1, func(o *MessageID) *int64 { return &o.ProducerSequenceID }),
		field(schema.KindLong, "brokerSequenceId", 4, 1, func(o *MessageID) *int64 { return &o.BrokerSequenceID }),
	},
}

var localTransactionIDSchema = &schema.Schema{
	Name: "LocalTransactionId", TypeCode: LocalTransactionIDType, Since: 1,
	New: func() any { return &LocalTransactionID{} },
	Properties: []schema.Property{
		field(schema.KindLong, "value", 1, 1, func(o *LocalTransactionID) *int64 { return &o.Value }),
		cached("connectionId", 2, 1, func(o *LocalTransactionID) **ConnectionID { return &o.ConnectionID }),
	},
}

var xaTransactionIDSchema = &schema.Schema{
	Name: "XATransactionId", TypeCode: XATransactionIDType, Since: 1,
	New: func() any { return &XATransactionID{} },
	Properties: []schema.Property{
		field(schema.KindInt, "formatId", 1, 1, func(o *XATransactionID) *int32 { return &o.FormatID }),
		field(schema.KindBytes, "globalTransactionId", 2, 1, func(o *XATransactionID) *[]byte { return &o.GlobalTransactionID }),
		field(schema.KindBytes, "branchQualifier", 3, 1, func(o *XATransactionID) *[]byte { return &o.BranchQualifier }),
	},
}

var destinationSchema = &schema.Schema{
	Name:    "ActiveMQDestination",
	Project: func(obj any) any { return obj.(Destination).destination() },
	Properties: []schema.Property{
		field(schema.KindString, "physicalName", 1, 1, func(o *DestinationName) *string { return &o.Name }),
	},
}

var (
	queueSchema     = &schema.Schema{Name: "ActiveMQQueue", TypeCode: QueueType, Base: destinationSchema, Since: 1, New: func() any { return &Queue{} }}
	topicSchema     = &schema.Schema{Name: "ActiveMQTopic", TypeCode: TopicType, Base: destinationSchema, Since: 1, New: func() any { return &Topic{} }}
	tempQueueSchema = &schema.Schema{Name: "ActiveMQTempQueue", TypeCode: TempQueueType, Base: destinationSchema, Since: 1, New: func() any { return &TempQueue{} }}
	tempTopicSchema = &schema.Schema{Name: "ActiveMQTempTopic", TypeCode: TempTopicType, Base: destinationSchema, Since: 1, New: func() any { return &TempTopic{} }}
)
