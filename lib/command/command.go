package command

import (
	"errors"
	"fmt"
)

// Type codes of all data structures
const (
	WireFormatInfoType              byte = 1
	BrokerInfoType                  byte = 2
	ConnectionInfoType              byte = 3
	SessionInfoType                 byte = 4
	ConsumerInfoType                byte = 5
	ProducerInfoType                byte = 6
	TransactionInfoType             byte = 7
	DestinationInfoType             byte = 8
	RemoveSubscriptionInfoType      byte = 9
	KeepAliveInfoType               byte = 10
	ShutdownInfoType                byte = 11
	RemoveInfoType                  byte = 12
	ControlCommandType              byte = 14
	FlushCommandType                byte = 15
	ConnectionErrorType             byte = 16
	ConsumerControlType             byte = 17
	ConnectionControlType           byte = 18
	ProducerAckType                 byte = 19
	MessagePullType                 byte = 20
	MessageDispatchType             byte = 21
	MessageAckType                  byte = 22
	MessageType                     byte = 23
	BytesMessageType                byte = 24
	MapMessageType                  byte = 25
	ObjectMessageType               byte = 26
	StreamMessageType               byte = 27
	TextMessageType                 byte = 28
	BlobMessageType                 byte = 29
	ResponseType                    byte = 30
	ExceptionResponseType           byte = 31
	DataResponseType                byte = 32
	DataArrayResponseType           byte = 33
	IntegerResponseType             byte = 34
	DiscoveryEventType              byte = 40
	JournalTopicAckType             byte = 50
	JournalQueueAckType             byte = 52
	JournalTraceType                byte = 53
	JournalTransactionType          byte = 54
	SubscriptionInfoType            byte = 55
	PartialCommandType              byte = 60
	LastPartialCommandType          byte = 61
	ReplayCommandType               byte = 65
	MessageDispatchNotificationType byte = 90
	NetworkBridgeFilterType         byte = 91
	QueueType                       byte = 100
	TopicType                       byte = 101
	TempQueueType                   byte = 102
	TempTopicType                   byte = 103
	MessageIDType                   byte = 110
	LocalTransactionIDType          byte = 111
	XATransactionIDType             byte = 112
	ConnectionIDType                byte = 120
	SessionIDType                   byte = 121
	ConsumerIDType                  byte = 122
	ProducerIDType                  byte = 123
	BrokerIDType                    byte = 124
)

var ErrTypeMismatch = errors.New("command: property type mismatch")

// DataStructure is implemented by every object that can be marshaled
type DataStructure interface {
	DataStructureType() byte
}

// MarshalAware structures get a chance to prepare their wire fields before
// marshaling and to rebuild derived state after unmarshaling.
type MarshalAware interface {
	BeforeMarshal() error
	AfterMarshal() error
	BeforeUnmarshal() error
	AfterUnmarshal() error
}

// CacheKeyer is implemented by cacheable values that are identified by their
// content rather than by pointer. Two objects of the same type with equal keys
// share a cache entry.
type CacheKeyer interface {
	CacheKey() string
}

// Command is a data structure that travels as a top level frame with a
// command id.
type Command interface {
	DataStructure
	Header() *BaseCommand
	IsResponse() bool
}

// BaseCommand is the field group shared by all commands
type BaseCommand struct {
	CommandID        int32
	ResponseRequired bool
}

// Header returns the shared command fields
func (c *BaseCommand) Header() *BaseCommand { return c }

// IsResponse reports whether the command answers a request
func (c *BaseCommand) IsResponse() bool { return false }

// BrokerError is the surrogate for an exception raised on the other side. Only
// the class name, message and optionally a rendered stack trace are carried.
type BrokerError struct {
	ExceptionClass string
	Message        string
	StackTrace     string
}

// NewBrokerError wraps err for transmission. The class is taken from err's
// dynamic type unless err is already a *BrokerError.
func NewBrokerError(err error) *BrokerError {
	if err == nil {
		return nil
	}
	var be *BrokerError
	if errors.As(err, &be) {
		return be
	}
	return &BrokerError{ExceptionClass: fmt.Sprintf("%T", err), Message: err.Error()}
}

func (e *BrokerError) Error() string {
	if e.Message == "" {
		return e.ExceptionClass
	}
	return e.ExceptionClass + ": " + e.Message
}
