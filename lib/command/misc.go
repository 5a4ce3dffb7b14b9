package command

import "github.com/apache/activemq-openwire-sub001/lib/schema"

// DiscoveryEvent announces a service found through discovery
type DiscoveryEvent struct {
	ServiceName string
	BrokerName  string
}

func (*DiscoveryEvent) DataStructureType() byte { return DiscoveryEventType }

// JournalTopicAck records a durable topic acknowledgement
type JournalTopicAck struct {
	Destination       Destination
	MessageID         *MessageID
	MessageSequenceID int64
	SubscriptionName  string
	ClientID          string
	TransactionID     TransactionID
}

func (*JournalTopicAck) DataStructureType() byte { return JournalTopicAckType }

// JournalQueueAck records a queue acknowledgement
type JournalQueueAck struct {
	Destination Destination
	MessageAck  *MessageAck
}

func (*JournalQueueAck) DataStructureType() byte { return JournalQueueAckType }

type JournalTrace struct {
	Message string
}

func (*JournalTrace) DataStructureType() byte { return JournalTraceType }

type JournalTransaction struct {
	TransactionID TransactionID
	Type          byte
	WasPrepared   bool
}

func (*JournalTransaction) DataStructureType() byte { return JournalTransactionType }

// SubscriptionInfo describes a durable subscription
type SubscriptionInfo struct {
	ClientID              string
	Destination           Destination
	Selector              string
	SubscriptionName      string
	SubscribedDestination Destination
	NoLocal               bool
}

func (*SubscriptionInfo) DataStructureType() byte { return SubscriptionInfoType }

// PartialCommand carries one fragment of a command that was too large for a
// single datagram.
type PartialCommand struct {
	CommandID int32
	Data      []byte
}

func (*PartialCommand) DataStructureType() byte { return PartialCommandType }

func (p *PartialCommand) partial() *PartialCommand { return p }

type LastPartialCommand struct{ PartialCommand }

func (*LastPartialCommand) DataStructureType() byte { return LastPartialCommandType }

// NetworkBridgeFilter limits how far messages travel in a network of brokers
type NetworkBridgeFilter struct {
	NetworkBrokerID *BrokerID
	NetworkTTL      int32
	MessageTTL      int32
	ConsumerTTL     int32
}

func (*NetworkBridgeFilter) DataStructureType() byte { return NetworkBridgeFilterType }

// --------------------------------------------------------------------------
// Schemas
// --------------------------------------------------------------------------

var discoveryEventSchema = &schema.Schema{
	Name: "DiscoveryEvent", TypeCode: DiscoveryEventType, Since: 1,
	New: func() any { return &DiscoveryEvent{} },
	Properties: []schema.Property{
		field(schema.KindString, "serviceName", 1, 1, func(o *DiscoveryEvent) *string { return &o.ServiceName }),
		field(schema.KindString, "brokerName", 2, 1, func(o *DiscoveryEvent) *string { return &o.BrokerName }),
	},
}

var journalTopicAckSchema = &schema.Schema{
	Name: "JournalTopicAck", TypeCode: JournalTopicAckType, Since: 1,
	New: func() any { return &JournalTopicAck{} },
	Properties: []schema.Property{
		nested("destination", 1, 1, func(o *JournalTopicAck) *Destination { return &o.Destination }),
		nested("messageId", 2, 1, func(o *JournalTopicAck) **MessageID { return &o.MessageID }),
		field(schema.KindLong, "messageSequenceId", 3, 1, func(o *JournalTopicAck) *int64 { return &o.MessageSequenceID }),
		field(schema.KindString, "subscritionName", 4, 1, func(o *JournalTopicAck) *string { return &o.SubscriptionName }),
		field(schema.KindString, "clientId", 5, 1, func(o *JournalTopicAck) *string { return &o.ClientID }),
		nested("transactionId", 6, 1, func(o *JournalTopicAck) *TransactionID { return &o.TransactionID }),
	},
}

var journalQueueAckSchema = &schema.Schema{
	Name: "JournalQueueAck", TypeCode: JournalQueueAckType, Since: 1,
	New: func() any { return &JournalQueueAck{} },
	Properties: []schema.Property{
		nested("destination", 1, 1, func(o *JournalQueueAck) *Destination { return &o.Destination }),
		nested("messageAck", 2, 1, func(o *JournalQueueAck) **MessageAck { return &o.MessageAck }),
	},
}

var journalTraceSchema = &schema.Schema{
	Name: "JournalTrace", TypeCode: JournalTraceType, Since: 1,
	New: func() any { return &JournalTrace{} },
	Properties: []schema.Property{
		field(schema.KindString, "message", 1, 1, func(o *JournalTrace) *string { return &o.Message }),
	},
}

var journalTransactionSchema = &schema.Schema{
	Name: "JournalTransaction", TypeCode: JournalTransactionType, Since: 1,
	New: func() any { return &JournalTransaction{} },
	Properties: []schema.Property{
		nested("transactionId", 1, 1, func(o *JournalTransaction) *TransactionID { return &o.TransactionID }),
		field(schema.KindByte, "type", 2, 1, func(o *JournalTransaction) *byte { return &o.Type }),
		field(schema.KindBool, "wasPrepared", 3, 1, func(o *JournalTransaction) *bool { return &o.WasPrepared }),
	},
}

var subscriptionInfoSchema = &schema.Schema{
	Name: "SubscriptionInfo", TypeCode: SubscriptionInfoType, Since: 1,
	New: func() any { return &SubscriptionInfo{} },
	Properties: []schema.Property{
		field(schema.KindString, "clientId", 1, 1, func(o *SubscriptionInfo) *string { return &o.ClientID }),
		cached("destination", 2, 1, func(o *SubscriptionInfo) *Destination { return &o.Destination }),
		field(schema.KindString, "selector", 3, 1, func(o *SubscriptionInfo) *string { return &o.Selector }),
		field(schema.KindString, "subcriptionName", 4, 1, func(o *SubscriptionInfo) *string { return &o.SubscriptionName }),
		nested("subscribedDestination", 5, 3, func(o *SubscriptionInfo) *Destination { return &o.SubscribedDestination }),
		field(schema.KindBool, "noLocal", 6, 11, func(o *SubscriptionInfo) *bool { return &o.NoLocal }),
	},
}

var partialCommandSchema = &schema.Schema{
	Name: "PartialCommand", TypeCode: PartialCommandType, Since: 1,
	Project: func(obj any) any { return obj.(interface{ partial() *PartialCommand }).partial() },
	New:     func() any { return &PartialCommand{} },
	Properties: []schema.Property{
		field(schema.KindInt, "commandId", 1, 1, func(o *PartialCommand) *int32 { return &o.CommandID }),
		field(schema.KindBytes, "data", 2, 1, func(o *PartialCommand) *[]byte { return &o.Data }),
	},
}

var lastPartialCommandSchema = &schema.Schema{
	Name: "LastPartialCommand", TypeCode: LastPartialCommandType, Base: partialCommandSchema, Since: 1,
	New: func() any { return &LastPartialCommand{} },
}

// NetworkBridgeFilter replaced its single TTL with separate message and
// consumer TTLs in version 10
var networkBridgeFilterSchemaV1 = &schema.Schema{
	Name: "NetworkBridgeFilter", TypeCode: NetworkBridgeFilterType, Since: 1, Until: 9,
	New: func() any { return &NetworkBridgeFilter{} },
	Properties: []schema.Property{
		field(schema.KindInt, "networkTTL", 1, 1, func(o *NetworkBridgeFilter) *int32 { return &o.NetworkTTL }),
		cached("networkBrokerId", 2, 1, func(o *NetworkBridgeFilter) **BrokerID { return &o.NetworkBrokerID }),
	},
}

var networkBridgeFilterSchemaV10 = &schema.Schema{
	Name: "NetworkBridgeFilter", TypeCode: NetworkBridgeFilterType, Since: 10,
	New: func() any { return &NetworkBridgeFilter{} },
	Properties: []schema.Property{
		cached("networkBrokerId", 1, 1, func(o *NetworkBridgeFilter) **BrokerID { return &o.NetworkBrokerID }),
		field(schema.KindInt, "messageTTL", 2, 10, func(o *NetworkBridgeFilter) *int32 { return &o.MessageTTL }),
		field(schema.KindInt, "consumerTTL", 3, 10, func(o *NetworkBridgeFilter) *int32 { return &o.ConsumerTTL }),
	},
}
