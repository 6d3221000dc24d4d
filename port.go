package klang

// Kind enumerates port kinds.
type Kind int

const (
	// KindValueInput reads the connected source's buffer, or a default.
	KindValueInput Kind = iota
	// KindValueOutput holds the most recently produced buffer.
	KindValueOutput
	// KindMessageInput owns a queue of received messages.
	KindMessageInput
	// KindMessageOutput stages messages flushed once per cycle.
	KindMessageOutput
	// KindValueRelay bridges value connections across a composite boundary.
	KindValueRelay
	// KindMessageRelay bridges message connections across a composite boundary.
	KindMessageRelay
)

func (k Kind) String() string {
	switch k {
	case KindValueInput:
		return "value input"
	case KindValueOutput:
		return "value output"
	case KindMessageInput:
		return "message input"
	case KindMessageOutput:
		return "message output"
	case KindValueRelay:
		return "value relay"
	case KindMessageRelay:
		return "message relay"
	}
	return "unknown"
}

// Port is a typed connection endpoint owned by exactly one block.
type Port interface {
	Owner() Block
	Kind() Kind
}

// valueSource feeds buffers to value sinks.
type valueSource interface {
	Port
	Value() Buffer
	attach(valueSink)
	detach(valueSink) bool
	outgoing() []valueSink
}

// valueSink is fed by at most one value source.
type valueSink interface {
	Port
	incoming() valueSource
	setIncoming(valueSource)
}

// messageSource delivers messages to message sinks.
type messageSource interface {
	Port
	attach(messageSink)
	detach(messageSink) bool
	outgoing() []messageSink
}

// messageSink receives messages from at most one message source.
type messageSink interface {
	Port
	push(Message)
	incoming() messageSource
	setIncoming(messageSource)
}

// Connect links an output to an input. Valid couplings are value source to
// value sink and message source to message sink; relays unify with their
// underlying kind. The call is atomic: it either links the two ports or
// returns without touching them.
func Connect(src, dst Port) error {
	switch out := src.(type) {
	case valueSource:
		in, ok := dst.(valueSink)
		if !ok {
			return ErrIncompatiblePorts
		}
		if in.incoming() != nil {
			return ErrInputOccupied
		}
		out.attach(in)
		in.setIncoming(out)
	case messageSource:
		in, ok := dst.(messageSink)
		if !ok {
			return ErrIncompatiblePorts
		}
		if in.incoming() != nil {
			return ErrInputOccupied
		}
		out.attach(in)
		in.setIncoming(out)
	default:
		return ErrIncompatiblePorts
	}
	return nil
}

// Disconnect removes the edge between an output and an input. The input
// reverts to its default value or to an empty queue source.
func Disconnect(src, dst Port) error {
	switch out := src.(type) {
	case valueSource:
		in, ok := dst.(valueSink)
		if !ok || in.incoming() != valueSource(out) {
			return ErrNotConnected
		}
		out.detach(in)
		in.setIncoming(nil)
	case messageSource:
		in, ok := dst.(messageSink)
		if !ok || in.incoming() != messageSource(out) {
			return ErrNotConnected
		}
		out.detach(in)
		in.setIncoming(nil)
	default:
		return ErrNotConnected
	}
	return nil
}

// Output is a value output port.
type Output struct {
	owner Block
	value Buffer
	sinks []valueSink
}

// NewOutput returns a value output owned by block.
func NewOutput(owner Block) *Output {
	return &Output{owner: owner}
}

// Owner returns the owning block.
func (o *Output) Owner() Block { return o.owner }

// Kind returns KindValueOutput.
func (o *Output) Kind() Kind { return KindValueOutput }

// Value returns the most recently produced buffer.
func (o *Output) Value() Buffer { return o.value }

// SetValue stores a freshly produced buffer.
func (o *Output) SetValue(b Buffer) { o.value = b }

// Connected reports whether any input reads this output.
func (o *Output) Connected() bool { return len(o.sinks) > 0 }

func (o *Output) attach(s valueSink) { o.sinks = append(o.sinks, s) }

func (o *Output) detach(s valueSink) bool { return removeValueSink(&o.sinks, s) }

func (o *Output) outgoing() []valueSink { return o.sinks }

// Input is a value input port. Reads observe the connected source, or the
// default value when unconnected.
type Input struct {
	owner Block
	def   Buffer
	src   valueSource
}

// NewInput returns a value input owned by block with a default value.
func NewInput(owner Block, def Buffer) *Input {
	return &Input{owner: owner, def: def}
}

// Owner returns the owning block.
func (i *Input) Owner() Block { return i.owner }

// Kind returns KindValueInput.
func (i *Input) Kind() Kind { return KindValueInput }

// Value returns the connected source's buffer or the default.
func (i *Input) Value() Buffer {
	if i.src != nil {
		return i.src.Value()
	}
	return i.def
}

// SetDefault replaces the value observed while unconnected.
func (i *Input) SetDefault(b Buffer) { i.def = b }

// Connected reports whether an output feeds this input.
func (i *Input) Connected() bool { return i.src != nil }

func (i *Input) incoming() valueSource { return i.src }

func (i *Input) setIncoming(s valueSource) { i.src = s }

// Relay is a value relay port. It forwards its peer's connections
// transparently, so a composite's internal sub-network can be wired to
// ports on the composite's outer boundary.
type Relay struct {
	owner Block
	def   Buffer
	src   valueSource
	sinks []valueSink
}

// NewRelay returns a value relay owned by block.
func NewRelay(owner Block) *Relay {
	return &Relay{owner: owner}
}

// Owner returns the owning block.
func (r *Relay) Owner() Block { return r.owner }

// Kind returns KindValueRelay.
func (r *Relay) Kind() Kind { return KindValueRelay }

// Value resolves the relayed source, or the default when unconnected.
func (r *Relay) Value() Buffer {
	if r.src != nil {
		return r.src.Value()
	}
	return r.def
}

// SetDefault replaces the value observed while unconnected.
func (r *Relay) SetDefault(b Buffer) { r.def = b }

// Connected reports whether the relay is fed by an output.
func (r *Relay) Connected() bool { return r.src != nil }

func (r *Relay) attach(s valueSink) { r.sinks = append(r.sinks, s) }

func (r *Relay) detach(s valueSink) bool { return removeValueSink(&r.sinks, s) }

func (r *Relay) outgoing() []valueSink { return r.sinks }

func (r *Relay) incoming() valueSource { return r.src }

func (r *Relay) setIncoming(s valueSource) { r.src = s }

// MessageOutput is a message output port. Sent messages are staged and
// delivered to all connected inputs on Flush, in emission order.
type MessageOutput struct {
	owner  Block
	staged Queue
	sinks  []messageSink
}

// NewMessageOutput returns a message output owned by block.
func NewMessageOutput(owner Block) *MessageOutput {
	return &MessageOutput{owner: owner}
}

// Owner returns the owning block.
func (o *MessageOutput) Owner() Block { return o.owner }

// Kind returns KindMessageOutput.
func (o *MessageOutput) Kind() Kind { return KindMessageOutput }

// Send stages a message for the next flush.
func (o *MessageOutput) Send(m Message) { o.staged.Push(m) }

// Flush delivers all staged messages to every connected input.
func (o *MessageOutput) Flush() {
	for _, m := range o.staged.Drain() {
		for _, s := range o.sinks {
			s.push(m)
		}
	}
}

// Connected reports whether any input receives from this output.
func (o *MessageOutput) Connected() bool { return len(o.sinks) > 0 }

func (o *MessageOutput) attach(s messageSink) { o.sinks = append(o.sinks, s) }

func (o *MessageOutput) detach(s messageSink) bool { return removeMessageSink(&o.sinks, s) }

func (o *MessageOutput) outgoing() []messageSink { return o.sinks }

// MessageInput is a message input port. It owns an insertion-ordered queue
// of received messages, safe to push from a foreign thread.
type MessageInput struct {
	owner Block
	queue Queue
	src   messageSource
}

// NewMessageInput returns a message input owned by block.
func NewMessageInput(owner Block) *MessageInput {
	return &MessageInput{owner: owner}
}

// Owner returns the owning block.
func (i *MessageInput) Owner() Block { return i.owner }

// Kind returns KindMessageInput.
func (i *MessageInput) Kind() Kind { return KindMessageInput }

// Push enqueues a message directly. External producers inject through here.
func (i *MessageInput) Push(m Message) { i.queue.Push(m) }

// Receive drains the queue and returns messages in arrival order.
func (i *MessageInput) Receive() []Message { return i.queue.Drain() }

// Latest drains the queue and returns only the newest message.
func (i *MessageInput) Latest() (Message, bool) {
	msgs := i.queue.Drain()
	if len(msgs) == 0 {
		return nil, false
	}
	return msgs[len(msgs)-1], true
}

// Connected reports whether an output feeds this input.
func (i *MessageInput) Connected() bool { return i.src != nil }

func (i *MessageInput) push(m Message) { i.queue.Push(m) }

func (i *MessageInput) incoming() messageSource { return i.src }

func (i *MessageInput) setIncoming(s messageSource) { i.src = s }

// MessageRelay is a message relay port. Delivered messages are forwarded
// immediately to all connected inputs.
type MessageRelay struct {
	owner Block
	src   messageSource
	sinks []messageSink
}

// NewMessageRelay returns a message relay owned by block.
func NewMessageRelay(owner Block) *MessageRelay {
	return &MessageRelay{owner: owner}
}

// Owner returns the owning block.
func (r *MessageRelay) Owner() Block { return r.owner }

// Kind returns KindMessageRelay.
func (r *MessageRelay) Kind() Kind { return KindMessageRelay }

// Connected reports whether the relay is fed by an output.
func (r *MessageRelay) Connected() bool { return r.src != nil }

func (r *MessageRelay) push(m Message) {
	for _, s := range r.sinks {
		s.push(m)
	}
}

func (r *MessageRelay) attach(s messageSink) { r.sinks = append(r.sinks, s) }

func (r *MessageRelay) detach(s messageSink) bool { return removeMessageSink(&r.sinks, s) }

func (r *MessageRelay) outgoing() []messageSink { return r.sinks }

func (r *MessageRelay) incoming() messageSource { return r.src }

func (r *MessageRelay) setIncoming(s messageSource) { r.src = s }

func removeValueSink(sinks *[]valueSink, s valueSink) bool {
	for n, c := range *sinks {
		if c == s {
			*sinks = append((*sinks)[:n], (*sinks)[n+1:]...)
			return true
		}
	}
	return false
}

func removeMessageSink(sinks *[]messageSink, s messageSink) bool {
	for n, c := range *sinks {
		if c == s {
			*sinks = append((*sinks)[:n], (*sinks)[n+1:]...)
			return true
		}
	}
	return false
}
