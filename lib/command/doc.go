/*
Package command defines the OpenWire data structures: identifiers,
destinations, transaction ids, the command catalogue and the message family.

Every type is described by a schema.Schema. The schemas are the single source
of truth for the wire layout; the marshaling engine walks them instead of
inspecting objects by reflection. Shared field groups (BaseCommand, Response,
Message, the destination name and PartialCommand) are schemas of their own
that concrete types extend through schema.Schema.Base.

Blank instances are created by type code:

	ds, ok := command.New(command.MessageAckType)

Structures implementing MarshalAware get their hooks called around every
marshal and unmarshal. Message uses them to flush typed properties and to
compress the body; WireFormatInfo uses them for its option map.
*/
package command
