package openwire

import (
	"fmt"

	"github.com/apache/activemq-openwire-sub001/lib/command"
	"github.com/apache/activemq-openwire-sub001/lib/schema"
	"github.com/puzpuzpuz/xsync/v3"
)

// Registry maps type codes to marshallers for one protocol version
type Registry struct {
	version     int
	marshallers [256]Marshaller
}

// NewRegistry compiles the schemas that apply to version. Field groups are
// shared between the types extending them.
func NewRegistry(version int, schemas []*schema.Schema) (*Registry, error) {
	if version < MinVersion || version > MaxVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, version)
	}
	if err := schema.ValidateAll(schemas); err != nil {
		return nil, err
	}

	r := &Registry{version: version}
	memo := make(map[*schema.Schema]*fieldGroup)
	for _, s := range schemas {
		if s.Abstract() || !s.AppliesTo(version) {
			continue
		}
		m, err := newSchemaMarshaller(s, version, memo)
		if err != nil {
			return nil, err
		}
		if err := r.Register(m); err != nil {
			return nil, err
		}
	}
	Logger.Debugf("built registry for version %d with %d types", version, r.Len())
	return r, nil
}

// Version returns the protocol version the registry was built for
func (r *Registry) Version() int { return r.version }

// Register adds a marshaller. Each type code can be taken once and 0 is the
// null command.
func (r *Registry) Register(m Marshaller) error {
	code := m.DataStructureType()
	name := fmt.Sprintf("type %d", code)
	if code == 0 {
		return &schema.ConfigError{Schema: name, Reason: "type code 0 is reserved for the null command"}
	}
	if r.marshallers[code] != nil {
		return &schema.ConfigError{Schema: name, Reason: "type code registered twice"}
	}
	r.marshallers[code] = m
	return nil
}

// Lookup returns the marshaller for a type code
func (r *Registry) Lookup(code byte) (Marshaller, bool) {
	m := r.marshallers[code]
	return m, m != nil
}

// Types returns the registered type codes in ascending order
func (r *Registry) Types() []byte {
	var codes []byte
	for code, m := range r.marshallers {
		if m != nil {
			codes = append(codes, byte(code))
		}
	}
	return codes
}

// Len returns the number of registered types
func (r *Registry) Len() int {
	n := 0
	for _, m := range r.marshallers {
		if m != nil {
			n++
		}
	}
	return n
}

// Clone returns a copy that accepts further registrations without touching r
func (r *Registry) Clone() *Registry {
	c := *r
	return &c
}

var registries = xsync.NewMapOf[int, *Registry]()

// RegistryFor returns the shared registry of the built-in types for version.
// The result must not be modified; use Clone to add marshallers.
func RegistryFor(version int) (*Registry, error) {
	if r, ok := registries.Load(version); ok {
		return r, nil
	}
	r, err := NewRegistry(version, command.SchemasFor(version))
	if err != nil {
		return nil, err
	}
	r, _ = registries.LoadOrStore(version, r)
	return r, nil
}
