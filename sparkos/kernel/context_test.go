package kernel

import "testing"

func TestContextRecvClosed(t *testing.T) {
	k := New()
	defer k.Stop()
	cap := k.NewEndpoint(RightSend | RightRecv)
	if !cap.Valid() {
		t.Fatal("expected valid capability")
	}

	ctx := &Context{k: k, taskID: 1}
	ch, ok := ctx.RecvChan(cap.Restrict(RightRecv))
	if !ok || ch == nil {
		t.Fatal("expected recv channel")
	}

	ctx.CloseEndpoint(cap.Restrict(RightRecv))

	if _, ok := ctx.Recv(cap.Restrict(RightRecv)); ok {
		t.Fatal("expected Recv to fail after endpoint close")
	}
	if _, ok := ctx.TryRecv(cap.Restrict(RightRecv)); ok {
		t.Fatal("expected TryRecv to fail after endpoint close")
	}
}

func TestContextSendClosed(t *testing.T) {
	k := New()
	defer k.Stop()
	cap := k.NewEndpoint(RightSend | RightRecv)
	if !cap.Valid() {
		t.Fatal("expected valid capability")
	}

	ctx := &Context{k: k, taskID: 1}
	ctx.CloseEndpoint(cap.Restrict(RightRecv))

	res := ctx.SendToCapResult(cap.Restrict(RightSend), 1, []byte("x"), Capability{})
	if res != SendErrNoEndpoint {
		t.Fatalf("expected SendErrNoEndpoint, got %s", res)
	}
}

func TestContextRightsEnforced(t *testing.T) {
	k := New()
	defer k.Stop()
	cap := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k, taskID: 1}

	if _, ok := ctx.RecvChan(cap.Restrict(RightSend)); ok {
		t.Fatal("expected RecvChan to reject a send-only capability")
	}
	if res := ctx.SendToCapResult(cap.Restrict(RightRecv), 1, nil, Capability{}); res != SendErrToNoSendRight {
		t.Fatalf("expected SendErrToNoSendRight, got %s", res)
	}
	if res := ctx.SendToCapResult(Capability{}, 1, nil, Capability{}); res != SendErrInvalidToCap {
		t.Fatalf("expected SendErrInvalidToCap, got %s", res)
	}
	if res := ctx.SendToCapResult(cap, 1, make([]byte, MaxMessageBytes+1), Capability{}); res != SendErrPayloadTooLarge {
		t.Fatalf("expected SendErrPayloadTooLarge, got %s", res)
	}
}

func TestContextTransfersCapability(t *testing.T) {
	k := New()
	defer k.Stop()
	a := k.NewEndpoint(RightSend | RightRecv)
	b := k.NewEndpoint(RightSend | RightRecv)
	ctx := &Context{k: k, taskID: 1}

	if res := ctx.SendToCapResult(a.Restrict(RightSend), 7, []byte("hi"), b.Restrict(RightSend)); res != SendOK {
		t.Fatalf("expected SendOK, got %s", res)
	}
	msg, ok := ctx.TryRecv(a.Restrict(RightRecv))
	if !ok {
		t.Fatal("expected a message")
	}
	if msg.Kind != 7 || string(msg.Payload()) != "hi" {
		t.Fatalf("unexpected message kind=%d payload=%q", msg.Kind, msg.Payload())
	}
	if msg.Cap != b.Restrict(RightSend) {
		t.Fatal("expected transferred capability to match")
	}
}
