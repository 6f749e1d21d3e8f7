package mgmt

import (
	"fmt"
	"strings"
)

// Property is a single key=value pair of an [ObjectName].
type Property struct {
	Key   string
	Value string
}

// Prop builds a Property.
func Prop(key, value string) Property {
	return Property{Key: key, Value: value}
}

// ObjectName identifies one manageable object on a node: a domain plus an
// ordered list of key=value properties. The text form is
// "domain:key=value,key=value".
type ObjectName struct {
	Domain     string
	Properties []Property
}

// NewObjectName builds an ObjectName. Property order is preserved.
func NewObjectName(domain string, props ...Property) ObjectName {
	return ObjectName{Domain: domain, Properties: props}
}

// CacheObjectName builds the name of a cache component:
// domain:type=Cache,name=<cacheName>,component=<component>.
func CacheObjectName(domain, cacheName, component string) ObjectName {
	return NewObjectName(domain,
		Prop("type", "Cache"),
		Prop("name", cacheName),
		Prop("component", component),
	)
}

// KeyProperty returns the value for key, or "" when the key is absent.
func (n ObjectName) KeyProperty(key string) string {
	for _, p := range n.Properties {
		if p.Key == key {
			return p.Value
		}
	}
	return ""
}

func (n ObjectName) String() string {
	var b strings.Builder
	b.WriteString(n.Domain)
	b.WriteByte(':')
	for i, p := range n.Properties {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(p.Key)
		b.WriteByte('=')
		b.WriteString(p.Value)
	}
	return b.String()
}

// ParseObjectName parses the text form produced by [ObjectName.String].
func ParseObjectName(s string) (ObjectName, error) {
	domain, rest, ok := strings.Cut(s, ":")
	if !ok || domain == "" {
		return ObjectName{}, fmt.Errorf("mgmt: invalid object name %q", s)
	}
	n := ObjectName{Domain: domain}
	if rest == "" {
		return n, nil
	}
	for _, part := range strings.Split(rest, ",") {
		key, value, ok := strings.Cut(part, "=")
		if !ok || key == "" {
			return ObjectName{}, fmt.Errorf("mgmt: invalid object name property %q in %q", part, s)
		}
		n.Properties = append(n.Properties, Property{Key: key, Value: value})
	}
	return n, nil
}

// MarshalText implements encoding.TextMarshaler so names travel as plain
// strings on the wire.
func (n ObjectName) MarshalText() ([]byte, error) {
	return []byte(n.String()), nil
}

func (n *ObjectName) UnmarshalText(text []byte) error {
	parsed, err := ParseObjectName(string(text))
	if err != nil {
		return err
	}
	*n = parsed
	return nil
}
