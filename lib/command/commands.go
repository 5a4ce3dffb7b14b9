package command

import "github.com/apache/activemq-openwire-sub001/lib/schema"

// BrokerInfo announces a broker to clients and peers
type BrokerInfo struct {
	BaseCommand
	BrokerID                   *BrokerID
	BrokerURL                  string
	PeerBrokerInfos            []*BrokerInfo
	BrokerName                 string
	SlaveBroker                bool
	MasterBroker               bool
	FaultTolerantConfiguration bool
	DuplexConnection           bool
	NetworkConnection          bool
	ConnectionID               int64
	BrokerUploadURL            string
	NetworkProperties          string
}

func (*BrokerInfo) DataStructureType() byte { return BrokerInfoType }

// ConnectionInfo opens a connection
type ConnectionInfo struct {
	BaseCommand
	ConnectionID          *ConnectionID
	ClientID              string
	Password              string
	UserName              string
	BrokerPath            []*BrokerID
	BrokerMasterConnector bool
	Manageable            bool
	ClientMaster          bool
	FaultTolerant         bool
	FailoverReconnect     bool
	ClientIP              string
}

func (*ConnectionInfo) DataStructureType() byte { return ConnectionInfoType }

// SessionInfo opens a session
type SessionInfo struct {
	BaseCommand
	SessionID *SessionID
}

func (*SessionInfo) DataStructureType() byte { return SessionInfoType }

// ConsumerInfo registers a consumer
type ConsumerInfo struct {
	BaseCommand
	ConsumerID                 *ConsumerID
	Browser                    bool
	Destination                Destination
	PrefetchSize               int32
	MaximumPendingMessageLimit int32
	DispatchAsync              bool
	Selector                   string
	ClientID                   string
	SubscriptionName           string
	NoLocal                    bool
	Exclusive                  bool
	Retroactive                bool
	Priority                   byte
	BrokerPath                 []*BrokerID
	AdditionalPredicate        DataStructure
	NetworkSubscription        bool
	OptimizedAcknowledge       bool
	NoRangeAcks                bool
	NetworkConsumerPath        []*ConsumerID
}

func (*ConsumerInfo) DataStructureType() byte { return ConsumerInfoType }

// ProducerInfo registers a producer
type ProducerInfo struct {
	BaseCommand
	ProducerID    *ProducerID
	Destination   Destination
	BrokerPath    []*BrokerID
	DispatchAsync bool
	WindowSize    int32
}

func (*ProducerInfo) DataStructureType() byte { return ProducerInfoType }

// Transaction operations carried by TransactionInfo.Type
const (
	TransactionBegin byte = iota
	TransactionPrepare
	TransactionCommitOnePhase
	TransactionCommitTwoPhase
	TransactionRollback
	TransactionRecover
	TransactionForget
	TransactionEnd
)

// TransactionInfo drives a transaction
type TransactionInfo struct {
	BaseCommand
	ConnectionID  *ConnectionID
	TransactionID TransactionID
	Type          byte
}

func (*TransactionInfo) DataStructureType() byte { return TransactionInfoType }

// DestinationInfo adds or removes a destination
type DestinationInfo struct {
	BaseCommand
	ConnectionID  *ConnectionID
	Destination   Destination
	OperationType byte
	Timeout       int64
	BrokerPath    []*BrokerID
}

func (*DestinationInfo) DataStructureType() byte { return DestinationInfoType }

// RemoveSubscriptionInfo removes a durable subscription
type RemoveSubscriptionInfo struct {
	BaseCommand
	ConnectionID     *ConnectionID
	SubscriptionName string
	ClientID         string
}

func (*RemoveSubscriptionInfo) DataStructureType() byte { return RemoveSubscriptionInfoType }

type KeepAliveInfo struct{ BaseCommand }

func (*KeepAliveInfo) DataStructureType() byte { return KeepAliveInfoType }

type ShutdownInfo struct{ BaseCommand }

func (*ShutdownInfo) DataStructureType() byte { return ShutdownInfoType }

type FlushCommand struct{ BaseCommand }

func (*FlushCommand) DataStructureType() byte { return FlushCommandType }

// RemoveInfo closes the connection, session, consumer or producer identified
// by ObjectID.
type RemoveInfo struct {
	BaseCommand
	ObjectID                DataStructure
	LastDeliveredSequenceID int64
}

func (*RemoveInfo) DataStructureType() byte { return RemoveInfoType }

type ControlCommand struct {
	BaseCommand
	Command string
}

func (*ControlCommand) DataStructureType() byte { return ControlCommandType }

// ConnectionError reports an asynchronous failure on a connection
type ConnectionError struct {
	BaseCommand
	Exception    *BrokerError
	ConnectionID *ConnectionID
}

func (*ConnectionError) DataStructureType() byte { return ConnectionErrorType }

type ConsumerControl struct {
	BaseCommand
	Destination Destination
	Close       bool
	ConsumerID  *ConsumerID
	Prefetch    int32
	Flush       bool
	Start       bool
	Stop        bool
}

func (*ConsumerControl) DataStructureType() byte { return ConsumerControlType }

type ConnectionControl struct {
	BaseCommand
	Close               bool
	Exit                bool
	FaultTolerant       bool
	Resume              bool
	Suspend             bool
	ConnectedBrokers    string
	ReconnectTo         string
	RebalanceConnection bool
	Token               []byte
}

func (*ConnectionControl) DataStructureType() byte { return ConnectionControlType }

// ProducerAck grants a producer more send window
type ProducerAck struct {
	BaseCommand
	ProducerID *ProducerID
	Size       int32
}

func (*ProducerAck) DataStructureType() byte { return ProducerAckType }

type MessagePull struct {
	BaseCommand
	ConsumerID    *ConsumerID
	Destination   Destination
	Timeout       int64
	CorrelationID string
	MessageID     *MessageID
}

func (*MessagePull) DataStructureType() byte { return MessagePullType }

// MessageDispatch delivers a message to a consumer
type MessageDispatch struct {
	BaseCommand
	ConsumerID        *ConsumerID
	Destination       Destination
	Message           DataStructure
	RedeliveryCounter int32
}

func (*MessageDispatch) DataStructureType() byte { return MessageDispatchType }

// Acknowledgement modes carried by MessageAck.AckType
const (
	AckDelivered   byte = 0
	AckPoison      byte = 1
	AckStandard    byte = 2
	AckRedelivered byte = 3
	AckIndividual  byte = 4
	AckUnmatched   byte = 5
	AckExpired     byte = 6
)

// MessageAck acknowledges a range of messages
type MessageAck struct {
	BaseCommand
	Destination    Destination
	TransactionID  TransactionID
	ConsumerID     *ConsumerID
	AckType        byte
	FirstMessageID *MessageID
	LastMessageID  *MessageID
	MessageCount   int32
	PoisonCause    *BrokerError
}

func (*MessageAck) DataStructureType() byte { return MessageAckType }

type MessageDispatchNotification struct {
	BaseCommand
	ConsumerID         *ConsumerID
	Destination        Destination
	DeliverySequenceID int64
	MessageID          *MessageID
}

func (*MessageDispatchNotification) DataStructureType() byte {
	return MessageDispatchNotificationType
}

type ReplayCommand struct {
	BaseCommand
	FirstNakNumber int32
	LastNakNumber  int32
}

func (*ReplayCommand) DataStructureType() byte { return ReplayCommandType }

// --------------------------------------------------------------------------
// Schemas
// --------------------------------------------------------------------------

var baseCommandSchema = &schema.Schema{
	Name:    "BaseCommand",
	Project: func(obj any) any { return obj.(Command).Header() },
	Properties: []schema.Property{
		field(schema.KindInt, "commandId", 1, 1, func(o *BaseCommand) *int32 { return &o.CommandID }),
		field(schema.KindBool, "responseRequired", 2, 1, func(o *BaseCommand) *bool { return &o.ResponseRequired }),
	},
}

func commandSchema(name string, code byte, since int, newFn func() any, props ...schema.Property) *schema.Schema {
	return &schema.Schema{
		Name:       name,
		TypeCode:   code,
		Base:       baseCommandSchema,
		Since:      since,
		New:        newFn,
		Properties: props,
	}
}

var brokerInfoSchema = commandSchema("BrokerInfo", BrokerInfoType, 1, func() any { return &BrokerInfo{} },
	cached("brokerId", 1, 1, func(o *BrokerInfo) **BrokerID { return &o.BrokerID }),
	field(schema.KindString, "brokerURL", 2, 1, func(o *BrokerInfo) *string { return &o.BrokerURL }),
	array("peerBrokerInfos", 3, 1, false, func(o *BrokerInfo) *[]*BrokerInfo { return &o.PeerBrokerInfos }),
	field(schema.KindString, "brokerName", 4, 1, func(o *BrokerInfo) *string { return &o.BrokerName }),
	field(schema.KindBool, "slaveBroker", 5, 1, func(o *BrokerInfo) *bool { return &o.SlaveBroker }),
	field(schema.KindBool, "masterBroker", 6, 1, func(o *BrokerInfo) *bool { return &o.MasterBroker }),
	field(schema.KindBool, "faultTolerantConfiguration", 7, 1, func(o *BrokerInfo) *bool { return &o.FaultTolerantConfiguration }),
	field(schema.KindBool, "duplexConnection", 8, 2, func(o *BrokerInfo) *bool { return &o.DuplexConnection }),
	field(schema.KindBool, "networkConnection", 9, 2, func(o *BrokerInfo) *bool { return &o.NetworkConnection }),
	field(schema.KindLong, "connectionId", 10, 2, func(o *BrokerInfo) *int64 { return &o.ConnectionID }),
	field(schema.KindString, "brokerUploadUrl", 11, 3, func(o *BrokerInfo) *string { return &o.BrokerUploadURL }),
	field(schema.KindString, "networkProperties", 12, 3, func(o *BrokerInfo) *string { return &o.NetworkProperties }),
)

var connectionInfoSchema = commandSchema("ConnectionInfo", ConnectionInfoType, 1, func() any { return &ConnectionInfo{} },
	cached("connectionId", 1, 1, func(o *ConnectionInfo) **ConnectionID { return &o.ConnectionID }),
	field(schema.KindString, "clientId", 2, 1, func(o *ConnectionInfo) *string { return &o.ClientID }),
	field(schema.KindString, "password", 3, 1, func(o *ConnectionInfo) *string { return &o.Password }),
	field(schema.KindString, "userName", 4, 1, func(o *ConnectionInfo) *string { return &o.UserName }),
	array("brokerPath", 5, 1, false, func(o *ConnectionInfo) *[]*BrokerID { return &o.BrokerPath }),
	field(schema.KindBool, "brokerMasterConnector", 6, 1, func(o *ConnectionInfo) *bool { return &o.BrokerMasterConnector }),
	field(schema.KindBool, "manageable", 7, 1, func(o *ConnectionInfo) *bool { return &o.Manageable }),
	field(schema.KindBool, "clientMaster", 8, 2, func(o *ConnectionInfo) *bool { return &o.ClientMaster }),
	field(schema.KindBool, "faultTolerant", 9, 6, func(o *ConnectionInfo) *bool { return &o.FaultTolerant }),
	field(schema.KindBool, "failoverReconnect", 10, 6, func(o *ConnectionInfo) *bool { return &o.FailoverReconnect }),
	field(schema.KindString, "clientIp", 11, 8, func(o *ConnectionInfo) *string { return &o.ClientIP }),
)

var sessionInfoSchema = commandSchema("SessionInfo", SessionInfoType, 1, func() any { return &SessionInfo{} },
	cached("sessionId", 1, 1, func(o *SessionInfo) **SessionID { return &o.SessionID }),
)

var consumerInfoSchema = commandSchema("ConsumerInfo", ConsumerInfoType, 1, func() any { return &ConsumerInfo{} },
	cached("consumerId", 1, 1, func(o *ConsumerInfo) **ConsumerID { return &o.ConsumerID }),
	field(schema.KindBool, "browser", 2, 1, func(o *ConsumerInfo) *bool { return &o.Browser }),
	cached("destination", 3, 1, func(o *ConsumerInfo) *Destination { return &o.Destination }),
	field(schema.KindInt, "prefetchSize", 4, 1, func(o *ConsumerInfo) *int32 { return &o.PrefetchSize }),
	field(schema.KindInt, "maximumPendingMessageLimit", 5, 1, func(o *ConsumerInfo) *int32 { return &o.MaximumPendingMessageLimit }),
	field(schema.KindBool, "dispatchAsync", 6, 1, func(o *ConsumerInfo) *bool { return &o.DispatchAsync }),
	field(schema.KindString, "selector", 7, 1, func(o *ConsumerInfo) *string { return &o.Selector }),
	field(schema.KindString, "clientId", 8, 10, func(o *ConsumerInfo) *string { return &o.ClientID }),
	field(schema.KindString, "subscriptionName", 9, 1, func(o *ConsumerInfo) *string { return &o.SubscriptionName }),
	field(schema.KindBool, "noLocal", 10, 1, func(o *ConsumerInfo) *bool { return &o.NoLocal }),
	field(schema.KindBool, "exclusive", 11, 1, func(o *ConsumerInfo) *bool { return &o.Exclusive }),
	field(schema.KindBool, "retroactive", 12, 1, func(o *ConsumerInfo) *bool { return &o.Retroactive }),
	field(schema.KindByte, "priority", 13, 1, func(o *ConsumerInfo) *byte { return &o.Priority }),
	array("brokerPath", 14, 1, false, func(o *ConsumerInfo) *[]*BrokerID { return &o.BrokerPath }),
	nested("additionalPredicate", 15, 1, func(o *ConsumerInfo) *DataStructure { return &o.AdditionalPredicate }),
	field(schema.KindBool, "networkSubscription", 16, 1, func(o *ConsumerInfo) *bool { return &o.NetworkSubscription }),
	field(schema.KindBool, "optimizedAcknowledge", 17, 1, func(o *ConsumerInfo) *bool { return &o.OptimizedAcknowledge }),
	field(schema.KindBool, "noRangeAcks", 18, 1, func(o *ConsumerInfo) *bool { return &o.NoRangeAcks }),
	array("networkConsumerPath", 19, 4, false, func(o *ConsumerInfo) *[]*ConsumerID { return &o.NetworkConsumerPath }),
)

var producerInfoSchema = commandSchema("ProducerInfo", ProducerInfoType, 1, func() any { return &ProducerInfo{} },
	cached("producerId", 1, 1, func(o *ProducerInfo) **ProducerID { return &o.ProducerID }),
	cached("destination", 2, 1, func(o *ProducerInfo) *Destination { return &o.Destination }),
	array("brokerPath", 3, 1, false, func(o *ProducerInfo) *[]*BrokerID { return &o.BrokerPath }),
	field(schema.KindBool, "dispatchAsync", 4, 2, func(o *ProducerInfo) *bool { return &o.DispatchAsync }),
	field(schema.KindInt, "windowSize", 5, 3, func(o *ProducerInfo) *int32 { return &o.WindowSize }),
)

var transactionInfoSchema = commandSchema("TransactionInfo", TransactionInfoType, 1, func() any { return &TransactionInfo{} },
	cached("connectionId", 1, 1, func(o *TransactionInfo) **ConnectionID { return &o.ConnectionID }),
	cached("transactionId", 2, 1, func(o *TransactionInfo) *TransactionID { return &o.TransactionID }),
	field(schema.KindByte, "type", 3, 1, func(o *TransactionInfo) *byte { return &o.Type }),
)

var destinationInfoSchema = commandSchema("DestinationInfo", DestinationInfoType, 1, func() any { return &DestinationInfo{} },
	cached("connectionId", 1, 1, func(o *DestinationInfo) **ConnectionID { return &o.ConnectionID }),
	cached("destination", 2, 1, func(o *DestinationInfo) *Destination { return &o.Destination }),
	field(schema.KindByte, "operationType", 3, 1, func(o *DestinationInfo) *byte { return &o.OperationType }),
	field(schema.KindLong, "timeout", 4, 1, func(o *DestinationInfo) *int64 { return &o.Timeout }),
	array("brokerPath", 5, 1, false, func(o *DestinationInfo) *[]*BrokerID { return &o.BrokerPath }),
)

var removeSubscriptionInfoSchema = commandSchema("RemoveSubscriptionInfo", RemoveSubscriptionInfoType, 1, func() any { return &RemoveSubscriptionInfo{} },
	cached("connectionId", 1, 1, func(o *RemoveSubscriptionInfo) **ConnectionID { return &o.ConnectionID }),
	field(schema.KindString, "subcriptionName", 2, 1, func(o *RemoveSubscriptionInfo) *string { return &o.SubscriptionName }),
	field(schema.KindString, "clientId", 3, 1, func(o *RemoveSubscriptionInfo) *string { return &o.ClientID }),
)

var (
	keepAliveInfoSchema = commandSchema("KeepAliveInfo", KeepAliveInfoType, 1, func() any { return &KeepAliveInfo{} })
	shutdownInfoSchema  = commandSchema("ShutdownInfo", ShutdownInfoType, 1, func() any { return &ShutdownInfo{} })
	flushCommandSchema  = commandSchema("FlushCommand", FlushCommandType, 1, func() any { return &FlushCommand{} })
)

var removeInfoSchema = commandSchema("RemoveInfo", RemoveInfoType, 1, func() any { return &RemoveInfo{} },
	cached("objectId", 1, 1, func(o *RemoveInfo) *DataStructure { return &o.ObjectID }),
	field(schema.KindLong, "lastDeliveredSequenceId", 2, 5, func(o *RemoveInfo) *int64 { return &o.LastDeliveredSequenceID }),
)

var controlCommandSchema = commandSchema("ControlCommand", ControlCommandType, 1, func() any { return &ControlCommand{} },
	field(schema.KindString, "command", 1, 1, func(o *ControlCommand) *string { return &o.Command }),
)

var connectionErrorSchema = commandSchema("ConnectionError", ConnectionErrorType, 1, func() any { return &ConnectionError{} },
	throwable("exception", 1, 1, func(o *ConnectionError) **BrokerError { return &o.Exception }),
	nested("connectionId", 2, 1, func(o *ConnectionError) **ConnectionID { return &o.ConnectionID }),
)

var consumerControlSchema = commandSchema("ConsumerControl", ConsumerControlType, 1, func() any { return &ConsumerControl{} },
	nested("destination", 1, 6, func(o *ConsumerControl) *Destination { return &o.Destination }),
	field(schema.KindBool, "close", 2, 1, func(o *ConsumerControl) *bool { return &o.Close }),
	nested("consumerId", 3, 1, func(o *ConsumerControl) **ConsumerID { return &o.ConsumerID }),
	field(schema.KindInt, "prefetch", 4, 1, func(o *ConsumerControl) *int32 { return &o.Prefetch }),
	field(schema.KindBool, "flush", 5, 2, func(o *ConsumerControl) *bool { return &o.Flush }),
	field(schema.KindBool, "start", 6, 2, func(o *ConsumerControl) *bool { return &o.Start }),
	field(schema.KindBool, "stop", 7, 2, func(o *ConsumerControl) *bool { return &o.Stop }),
)

var connectionControlSchema = commandSchema("ConnectionControl", ConnectionControlType, 1, func() any { return &ConnectionControl{} },
	field(schema.KindBool, "close", 1, 1, func(o *ConnectionControl) *bool { return &o.Close }),
	field(schema.KindBool, "exit", 2, 1, func(o *ConnectionControl) *bool { return &o.Exit }),
	field(schema.KindBool, "faultTolerant", 3, 1, func(o *ConnectionControl) *bool { return &o.FaultTolerant }),
	field(schema.KindBool, "resume", 4, 1, func(o *ConnectionControl) *bool { return &o.Resume }),
	field(schema.KindBool, "suspend", 5, 1, func(o *ConnectionControl) *bool { return &o.Suspend }),
	field(schema.KindString, "connectedBrokers", 6, 6, func(o *ConnectionControl) *string { return &o.ConnectedBrokers }),
	field(schema.KindString, "reconnectTo", 7, 6, func(o *ConnectionControl) *string { return &o.ReconnectTo }),
	field(schema.KindBool, "rebalanceConnection", 8, 6, func(o *ConnectionControl) *bool { return &o.RebalanceConnection }),
	field(schema.KindBytes, "token", 9, 8, func(o *ConnectionControl) *[]byte { return &o.Token }),
)

var producerAckSchema = commandSchema("ProducerAck", ProducerAckType, 3, func() any { return &ProducerAck{} },
	nested("producerId", 1, 3, func(o *ProducerAck) **ProducerID { return &o.ProducerID }),
	field(schema.KindInt, "size", 2, 3, func(o *ProducerAck) *int32 { return &o.Size }),
)

var messagePullSchema = commandSchema("MessagePull", MessagePullType, 1, func() any { return &MessagePull{} },
	cached("consumerId", 1, 1, func(o *MessagePull) **ConsumerID { return &o.ConsumerID }),
	cached("destination", 2, 1, func(o *MessagePull) *Destination { return &o.Destination }),
	field(schema.KindLong, "timeout", 3, 1, func(o *MessagePull) *int64 { return &o.Timeout }),
	field(schema.KindString, "correlationId", 4, 3, func(o *MessagePull) *string { return &o.CorrelationID }),
	nested("messageId", 5, 3, func(o *MessagePull) **MessageID { return &o.MessageID }),
)

var messageDispatchSchema = commandSchema("MessageDispatch", MessageDispatchType, 1, func() any { return &MessageDispatch{} },
	cached("consumerId", 1, 1, func(o *MessageDispatch) **ConsumerID { return &o.ConsumerID }),
	cached("destination", 2, 1, func(o *MessageDispatch) *Destination { return &o.Destination }),
	nested("message", 3, 1, func(o *MessageDispatch) *DataStructure { return &o.Message }),
	field(schema.KindInt, "redeliveryCounter", 4, 1, func(o *MessageDispatch) *int32 { return &o.RedeliveryCounter }),
)

var messageAckSchema = commandSchema("MessageAck", MessageAckType, 1, func() any { return &MessageAck{} },
	cached("destination", 1, 1, func(o *MessageAck) *Destination { return &o.Destination }),
	cached("transactionId", 2, 1, func(o *MessageAck) *TransactionID { return &o.TransactionID }),
	cached("consumerId", 3, 1, func(o *MessageAck) **ConsumerID { return &o.ConsumerID }),
	field(schema.KindByte, "ackType", 4, 1, func(o *MessageAck) *byte { return &o.AckType }),
	nested("firstMessageId", 5, 1, func(o *MessageAck) **MessageID { return &o.FirstMessageID }),
	nested("lastMessageId", 6, 1, func(o *MessageAck) **MessageID { return &o.LastMessageID }),
	field(schema.KindInt, "messageCount", 7, 1, func(o *MessageAck) *int32 { return &o.MessageCount }),
	throwable("poisonCause", 8, 7, func(o *MessageAck) **BrokerError { return &o.PoisonCause }),
)

var messageDispatchNotificationSchema = commandSchema("MessageDispatchNotification", MessageDispatchNotificationType, 1,
	func() any { return &MessageDispatchNotification{} },
	cached("consumerId", 1, 1, func(o *MessageDispatchNotification) **ConsumerID { return &o.ConsumerID }),
	cached("destination", 2, 1, func(o *MessageDispatchNotification) *Destination { return &o.Destination }),
	field(schema.KindLong, "deliverySequenceId", 3, 1, func(o *MessageDispatchNotification) *int64 { return &o.DeliverySequenceID }),
	nested("messageId", 4, 1, func(o *MessageDispatchNotification) **MessageID { return &o.MessageID }),
)

var replayCommandSchema = commandSchema("ReplayCommand", ReplayCommandType, 1, func() any { return &ReplayCommand{} },
	field(schema.KindInt, "firstNakNumber", 1, 1, func(o *ReplayCommand) *int32 { return &o.FirstNakNumber }),
	field(schema.KindInt, "lastNakNumber", 2, 1, func(o *ReplayCommand) *int32 { return &o.LastNakNumber }),
)
