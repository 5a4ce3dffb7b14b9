/*
Package schema holds the declarative description of every OpenWire data
structure: its type code, the version range it applies to, the field group it
extends and its ordered list of properties.

A Property carries everything the marshaling engine needs to pick an encoding
rule (its Kind), to gate it by protocol version and to read or populate it on
a concrete object (Get and Set). The engine never inspects objects by
reflection; a schema is the single source of truth for the wire layout.

Schemas are validated once, when a registry for a protocol version is built.
Validation failures are returned as *ConfigError and are never produced while
marshaling.

Schema documents (TOML) carry the same metadata without accessors. They are
used to dump the built in catalogue and to check externally maintained
descriptions:

	[[type]]
	name = "MessageAck"
	type_code = 22
	base = "BaseCommand"

	  [[type.property]]
	  name = "destination"
	  kind = "cached"
	  version = 1
	  sequence = 1
*/
package schema
