package kernel

import (
	"sync"

	"golang.org/x/sync/errgroup"
)

const (
	maxTasks     = 32
	maxEndpoints = 32
	mailboxSlots = 8
)

type TaskID uint8

// Rights define which operations are allowed for a capability.
type Rights uint8

const (
	RightSend Rights = 1 << iota
	RightRecv
)

// Endpoint identifies an IPC destination.
type Endpoint uint8

// Capability grants access to an IPC endpoint.
//
// It is opaque by construction (no exported fields) and may be transferred via IPC.
// Two capabilities compare equal when they name the same endpoint with the same rights.
type Capability struct {
	ep     Endpoint
	rights Rights
}

func (c Capability) valid() bool {
	return c.rights != 0
}

func (c Capability) Valid() bool { return c.valid() }

func (c Capability) canSend() bool { return c.rights&RightSend != 0 }
func (c Capability) canRecv() bool { return c.rights&RightRecv != 0 }

// Restrict returns a capability with a reduced set of rights.
func (c Capability) Restrict(rights Rights) Capability {
	if !c.valid() {
		return Capability{}
	}
	r := c.rights & rights
	if r == 0 {
		return Capability{}
	}
	return Capability{ep: c.ep, rights: r}
}

// Message is a fixed-size IPC envelope.
type Message struct {
	From Endpoint
	To   Endpoint
	Kind uint16
	Len  uint16
	Data [MaxMessageBytes]byte
	Cap  Capability
}

// Payload returns the valid part of Data.
func (m *Message) Payload() []byte {
	n := int(m.Len)
	if n > MaxMessageBytes {
		n = MaxMessageBytes
	}
	return m.Data[:n]
}

// MaxMessageBytes is the maximum payload size for IPC messages.
//
// Larger transfers should use shared buffers + notify protocols, not mailbox copies.
const MaxMessageBytes = 128

// SendResult describes the outcome of a send attempt.
type SendResult uint8

const (
	SendOK SendResult = iota
	SendErrInvalidFromCap
	SendErrInvalidToCap
	SendErrFromNoSendRight
	SendErrToNoSendRight
	SendErrNoEndpoint
	SendErrPayloadTooLarge
	SendErrQueueFull
)

func (r SendResult) String() string {
	switch r {
	case SendOK:
		return "ok"
	case SendErrInvalidFromCap:
		return "invalid from capability"
	case SendErrInvalidToCap:
		return "invalid to capability"
	case SendErrFromNoSendRight:
		return "from capability has no send right"
	case SendErrToNoSendRight:
		return "to capability has no send right"
	case SendErrNoEndpoint:
		return "no such endpoint"
	case SendErrPayloadTooLarge:
		return "payload too large"
	case SendErrQueueFull:
		return "queue full"
	default:
		return "unknown"
	}
}

// Task is a unit of execution. Run is called once on its own goroutine and
// should return when Context.Done is closed.
type Task interface {
	Run(ctx *Context)
}

// TaskFunc adapts a function to the Task interface.
type TaskFunc func(ctx *Context)

func (f TaskFunc) Run(ctx *Context) { f(ctx) }

type endpointState struct {
	ch     chan Message
	closed bool
}

// Kernel routes IPC between tasks and broadcasts the system tick.
type Kernel struct {
	mu sync.Mutex

	endpoints     [maxEndpoints]endpointState
	endpointCount Endpoint

	taskCount TaskID
	group     errgroup.Group

	tick   uint64
	tickCh chan struct{}

	done     chan struct{}
	stopOnce sync.Once
}

// New creates a kernel instance.
func New() *Kernel {
	return &Kernel{
		tickCh: make(chan struct{}),
		done:   make(chan struct{}),
	}
}

// NewEndpoint allocates a new endpoint and returns a capability for it.
func (k *Kernel) NewEndpoint(rights Rights) Capability {
	k.mu.Lock()
	defer k.mu.Unlock()

	if k.endpointCount >= maxEndpoints {
		return Capability{}
	}
	ep := k.endpointCount
	k.endpointCount++
	k.endpoints[ep] = endpointState{ch: make(chan Message, mailboxSlots)}
	return Capability{ep: ep, rights: rights}
}

// AddTask registers a task, starts it and returns its ID.
// It reports false when t is nil or the task table is full.
//
// A panicking task is reported through the panic handler and its panic value
// becomes the error returned by Wait.
func (k *Kernel) AddTask(t Task) (TaskID, bool) {
	k.mu.Lock()
	if k.taskCount >= maxTasks || t == nil {
		k.mu.Unlock()
		return 0, false
	}
	id := k.taskCount
	k.taskCount++
	k.mu.Unlock()

	ctx := &Context{k: k, taskID: id}
	k.group.Go(func() error {
		return runTask(ctx, t)
	})
	return id, true
}

// TickTo advances the kernel tick to seq and wakes tick waiters.
//
// Values at or below the current tick are ignored.
func (k *Kernel) TickTo(seq uint64) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if seq <= k.tick {
		return
	}
	k.tick = seq
	close(k.tickCh)
	k.tickCh = make(chan struct{})
}

// Stop signals every task to return. It is safe to call more than once.
func (k *Kernel) Stop() {
	k.stopOnce.Do(func() {
		close(k.done)
	})
}

// Wait blocks until every task has returned.
func (k *Kernel) Wait() error {
	return k.group.Wait()
}

func (k *Kernel) nowTick() uint64 {
	k.mu.Lock()
	defer k.mu.Unlock()
	return k.tick
}

func (k *Kernel) waitTick(after uint64) uint64 {
	for {
		k.mu.Lock()
		now := k.tick
		ch := k.tickCh
		k.mu.Unlock()
		if now > after {
			return now
		}
		select {
		case <-ch:
		case <-k.done:
			return k.nowTick()
		}
	}
}

func (k *Kernel) endpointChan(ep Endpoint) chan Message {
	k.mu.Lock()
	defer k.mu.Unlock()
	if ep >= k.endpointCount {
		return nil
	}
	return k.endpoints[ep].ch
}

func (k *Kernel) closeEndpoint(ep Endpoint) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if ep >= k.endpointCount {
		return
	}
	st := &k.endpoints[ep]
	if st.closed || st.ch == nil {
		return
	}
	st.closed = true
	close(st.ch)
}

func (k *Kernel) send(from Endpoint, to Endpoint, kind uint16, payload []byte, xfer Capability) SendResult {
	if len(payload) > MaxMessageBytes {
		return SendErrPayloadTooLarge
	}

	var msg Message
	msg.From = from
	msg.To = to
	msg.Kind = kind
	msg.Len = uint16(len(payload))
	copy(msg.Data[:], payload)
	msg.Cap = xfer

	// Held across the non-blocking send so closeEndpoint cannot race it.
	k.mu.Lock()
	defer k.mu.Unlock()
	if to >= k.endpointCount {
		return SendErrNoEndpoint
	}
	st := &k.endpoints[to]
	if st.closed || st.ch == nil {
		return SendErrNoEndpoint
	}
	select {
	case st.ch <- msg:
		return SendOK
	default:
		return SendErrQueueFull
	}
}
