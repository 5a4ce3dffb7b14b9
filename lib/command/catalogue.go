package command

import (
	"fmt"
	"sort"

	"github.com/apache/activemq-openwire-sub001/lib/schema"
)

var catalogue = []*schema.Schema{
	wireFormatInfoSchema,
	brokerInfoSchema,
	connectionInfoSchema,
	sessionInfoSchema,
	consumerInfoSchema,
	producerInfoSchema,
	transactionInfoSchema,
	destinationInfoSchema,
	removeSubscriptionInfoSchema,
	keepAliveInfoSchema,
	shutdownInfoSchema,
	removeInfoSchema,
	controlCommandSchema,
	flushCommandSchema,
	connectionErrorSchema,
	consumerControlSchema,
	connectionControlSchema,
	producerAckSchema,
	messagePullSchema,
	messageDispatchSchema,
	messageAckSchema,
	messageSchema,
	bytesMessageSchema,
	mapMessageSchema,
	objectMessageSchema,
	streamMessageSchema,
	textMessageSchema,
	blobMessageSchema,
	responseSchema,
	exceptionResponseSchema,
	dataResponseSchema,
	dataArrayResponseSchema,
	integerResponseSchema,
	discoveryEventSchema,
	journalTopicAckSchema,
	journalQueueAckSchema,
	journalTraceSchema,
	journalTransactionSchema,
	subscriptionInfoSchema,
	partialCommandSchema,
	lastPartialCommandSchema,
	replayCommandSchema,
	messageDispatchNotificationSchema,
	networkBridgeFilterSchemaV1,
	networkBridgeFilterSchemaV10,
	queueSchema,
	topicSchema,
	tempQueueSchema,
	tempTopicSchema,
	messageIDSchemaV1,
	messageIDSchemaV10,
	localTransactionIDSchema,
	xaTransactionIDSchema,
	connectionIDSchema,
	sessionIDSchema,
	consumerIDSchema,
	producerIDSchema,
	brokerIDSchema,
}

var factories = func() map[byte]func() any {
	m := make(map[byte]func() any, len(catalogue))
	for _, s := range catalogue {
		if _, ok := m[s.TypeCode]; !ok {
			m[s.TypeCode] = s.New
		}
	}
	return m
}()

// Schemas returns the schemas of all built in data structures
func Schemas() []*schema.Schema {
	out := make([]*schema.Schema, len(catalogue))
	copy(out, catalogue)
	return out
}

// SchemasFor returns the schemas that apply to version, ordered by type code
func SchemasFor(version int) []*schema.Schema {
	var out []*schema.Schema
	for _, s := range catalogue {
		if s.AppliesTo(version) {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].TypeCode < out[j].TypeCode })
	return out
}

// SchemaFor returns the schema of code for version
func SchemaFor(code byte, version int) (*schema.Schema, bool) {
	for _, s := range catalogue {
		if s.TypeCode == code && s.AppliesTo(version) {
			return s, true
		}
	}
	return nil, false
}

// SchemaByName returns the first schema named name, including field groups
func SchemaByName(name string) (*schema.Schema, bool) {
	for _, s := range catalogue {
		for cur := s; cur != nil; cur = cur.Base {
			if cur.Name == name {
				return cur, true
			}
		}
	}
	return nil, false
}

// New allocates a blank data structure for a type code
func New(code byte) (DataStructure, bool) {
	f, ok := factories[code]
	if !ok {
		return nil, false
	}
	return f().(DataStructure), true
}

// MustNew is New for type codes known to exist
func MustNew(code byte) DataStructure {
	ds, ok := New(code)
	if !ok {
		panic(fmt.Sprintf("command: unknown type code %d", code))
	}
	return ds
}
