package klang

// Composite bundles a sub-network of blocks behind relay ports. To the
// outer network it is one block; internally it keeps its own execution
// order over the bundled blocks.
type Composite struct {
	Base
	order []Block
}

// NewComposite returns an empty composite. Add relay ports and wire the
// internal blocks to them, then call RefreshOrder.
func NewComposite(name string) *Composite {
	c := &Composite{}
	c.InitPorts(c, 0, 0)
	c.SetName(name)
	return c
}

// AddInputRelay appends a value relay to the input boundary.
func (c *Composite) AddInputRelay() *Relay {
	r := NewRelay(c)
	c.AppendInput(r)
	return r
}

// AddOutputRelay appends a value relay to the output boundary.
func (c *Composite) AddOutputRelay() *Relay {
	r := NewRelay(c)
	c.AppendOutput(r)
	return r
}

// AddMessageInputRelay appends a message relay to the input boundary.
func (c *Composite) AddMessageInputRelay() *MessageRelay {
	r := NewMessageRelay(c)
	c.AppendInput(r)
	return r
}

// AddMessageOutputRelay appends a message relay to the output boundary.
func (c *Composite) AddMessageOutputRelay() *MessageRelay {
	r := NewMessageRelay(c)
	c.AppendOutput(r)
	return r
}

// InternalOrder returns the current internal execution order.
func (c *Composite) InternalOrder() []Block { return c.order }

// introspect collects the internal blocks adjacent to the relay boundary.
func (c *Composite) introspect() []Block {
	var blocks []Block
	for _, p := range c.Inputs() {
		switch r := p.(type) {
		case *Relay:
			for _, sink := range r.outgoing() {
				if owner := sink.Owner(); owner != nil {
					blocks = append(blocks, owner)
				}
			}
		case *MessageRelay:
			for _, sink := range r.outgoing() {
				if owner := sink.Owner(); owner != nil {
					blocks = append(blocks, owner)
				}
			}
		}
	}
	for _, p := range c.Outputs() {
		switch r := p.(type) {
		case *Relay:
			if src := r.incoming(); src != nil && src.Owner() != nil {
				blocks = append(blocks, src.Owner())
			}
		case *MessageRelay:
			if src := r.incoming(); src != nil && src.Owner() != nil {
				blocks = append(blocks, src.Owner())
			}
		}
	}
	return blocks
}

// connection is a linked output/input pair, kept for repatching.
type connection struct {
	src, dst Port
}

// outerConnections collects the edges crossing the composite boundary,
// excluding loop-arounds of the composite onto itself.
func (c *Composite) outerConnections() []connection {
	var conns []connection
	for _, p := range c.Inputs() {
		if sink, ok := p.(valueSink); ok {
			if src := sink.incoming(); src != nil && src.Owner() != c.self() {
				conns = append(conns, connection{src: src, dst: p})
			}
			continue
		}
		if sink, ok := p.(messageSink); ok {
			if src := sink.incoming(); src != nil && src.Owner() != c.self() {
				conns = append(conns, connection{src: src, dst: p})
			}
		}
	}
	for _, p := range c.Outputs() {
		if src, ok := p.(valueSource); ok {
			for _, sink := range src.outgoing() {
				if sink.Owner() != c.self() {
					conns = append(conns, connection{src: p, dst: sink})
				}
			}
			continue
		}
		if src, ok := p.(messageSource); ok {
			for _, sink := range src.outgoing() {
				if sink.Owner() != c.self() {
					conns = append(conns, connection{src: p, dst: sink})
				}
			}
		}
	}
	return conns
}

func (c *Composite) self() Block { return c }

// RefreshOrder recomputes the internal execution order. The composite is
// temporarily unpatched from its outer neighbors so that discovery stays
// inside the boundary; all outer connections are restored before returning.
// Nested composites are refreshed as well.
func (c *Composite) RefreshOrder() {
	outer := c.outerConnections()
	for _, conn := range outer {
		// Edges were collected live, disconnecting can not fail.
		_ = Disconnect(conn.src, conn.dst)
	}
	defer func() {
		for _, conn := range outer {
			_ = Connect(conn.src, conn.dst)
		}
	}()

	seeds := c.introspect()
	if len(seeds) == 0 {
		c.order = nil
		return
	}
	order := ExecutionOrder(seeds...)
	internal := make([]Block, 0, len(order))
	for _, b := range order {
		if b == c.self() {
			continue
		}
		if nested, ok := b.(*Composite); ok {
			nested.RefreshOrder()
		}
		internal = append(internal, b)
	}
	c.order = internal
}

// Update executes the internal sub-network in its scheduled order.
func (c *Composite) Update() error {
	return Execute(c.order)
}
