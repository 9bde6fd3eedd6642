package http

import (
	"go.uber.org/zap"
)

// derivation tracks where the value of a lazily derived field came from.
type derivation uint8

const (
	unset    derivation = iota // not computed yet
	derived                    // computed from server params, body or headers
	explicit                   // set by the caller, wins until the next reset
)

// field is a message attribute that is either derived on first read or set
// explicitly.
type field[T any] struct {
	state derivation
	value T
}

// get returns the value, deriving and caching it on first read.
func (f *field[T]) get(derive func() T) T {
	if f.state == unset {
		f.value = derive()
		f.state = derived
	}
	return f.value
}

func (f *field[T]) set(v T) {
	f.value = v
	f.state = explicit
}

func (f *field[T]) reset() {
	*f = field[T]{}
}

// message holds what requests and responses have in common.
//
// Copying a message copies pointers to the header collection and the body;
// both are shared until a With* method replaces them.
type message struct {
	version field[string]
	headers field[*Headers]
	body    Stream
	logger  *zap.Logger
}

func newMessage() message {
	return message{logger: zap.NewNop()}
}

func (m *message) protocolVersion(derive func() string) string {
	return m.version.get(derive)
}

func (m *message) setProtocolVersion(v string) error {
	normalized, err := normalizeProtocolVersion(v)
	if err != nil {
		return err
	}
	m.version.set(normalized)
	return nil
}

// headerCollection builds the collection at most once, from whatever derive
// returns at that moment.
func (m *message) headerCollection(derive func() *Headers) *Headers {
	return m.headers.get(derive)
}

func (m *message) stream() Stream {
	if m.body == nil {
		m.body = NewStringStream("")
	}
	return m.body
}

func (m *message) setLogger(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	m.logger = logger
}

func noHeaders() *Headers {
	return emptyHeaders()
}

func defaultProtocolVersion() string {
	return DefaultProtocolVersion
}
