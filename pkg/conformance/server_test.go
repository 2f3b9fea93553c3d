package conformance

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"mterp/pkg/constants"
	"mterp/pkg/dex"
	"mterp/pkg/interp"
	"mterp/pkg/vmrt"
)

const program = `
.class LT;
.super Ljava/lang/Object;

.method static LT;->add(II)I
    .registers 3
    add-int v0, p0, p1
    return v0
.end method

.method static LT;->hello(Ljava/lang/String;)Ljava/lang/String;
    .registers 2
    const-string v0, "hello, "
    invoke-virtual {v0, p0}, Ljava/lang/String;->concat(Ljava/lang/String;)Ljava/lang/String;
    move-result-object v0
    invoke-static {v0}, Ljava/lang/System;->println(Ljava/lang/String;)V
    return-object v0
.end method

.method static LT;->crash(I)I
    .registers 2
    const/4 v0, 0
    rem-int v0, p0, v0
    return v0
.end method
`

func startServer(t *testing.T) *Client {
	t.Helper()
	socket := filepath.Join(t.TempDir(), "mterp.sock")
	srv := NewServer(vmrt.Config{Thread: interp.ThreadConfig{StackSlots: constants.MinStackSlots}})
	errc := make(chan error, 1)
	go func() { errc <- srv.Start(socket) }()
	t.Cleanup(func() {
		srv.Close()
		if err := <-errc; err != nil {
			t.Errorf("Start: %v", err)
		}
	})

	var c *Client
	var err error
	for i := 0; i < 100; i++ {
		if c, err = Dial(socket); err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	t.Cleanup(func() { c.Close() })
	return c
}

func TestServerRunsPrograms(t *testing.T) {
	c := startServer(t)

	h, err := c.Hello("test", "1")
	if err != nil {
		t.Fatalf("Hello: %v", err)
	}
	if h.Name != "mterp" {
		t.Errorf("server name = %q, want mterp", h.Name)
	}

	if _, err := c.Run(&Run{Class: "LT;", Method: "add"}); err == nil || !strings.Contains(err.Error(), "no program") {
		t.Errorf("Run before Load: got %v", err)
	}

	prog := dex.MustAssemble(program)
	loaded, err := c.Load(&Load{Container: prog.Encode()})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Hash != prog.Hash {
		t.Errorf("loaded hash %x, want %x", loaded.Hash, prog.Hash)
	}

	res, err := c.Run(&Run{Class: "LT;", Method: "add", Args: []Value{{Bits: 40}, {Bits: 2}}})
	if err != nil {
		t.Fatalf("add: %v", err)
	}
	want := &Result{
		Value:     Value{Bits: 42},
		Registers: []Register{{Bits: 42}, {Bits: 40}, {Bits: 2}},
	}
	if diff := cmp.Diff(want, res); diff != "" {
		t.Errorf("add result mismatch (-want +got):\n%s", diff)
	}

	name := "world"
	res, err = c.Run(&Run{Class: "LT;", Method: "hello", Args: []Value{{Text: &name}}})
	if err != nil {
		t.Fatalf("hello: %v", err)
	}
	if res.Value.Text == nil || *res.Value.Text != "hello, world" || !res.Value.Ref {
		t.Errorf("hello returned %+v", res.Value)
	}
	if diff := cmp.Diff([]string{"hello, world"}, res.Output); diff != "" {
		t.Errorf("hello output mismatch (-want +got):\n%s", diff)
	}

	res, err = c.Run(&Run{Class: "LT;", Method: "crash", Args: []Value{{Bits: 5}}})
	if err != nil {
		t.Fatalf("crash: %v", err)
	}
	if res.Exception != "Ljava/lang/ArithmeticException;" || res.Message != "divide by zero" {
		t.Errorf("crash raised %s(%q)", res.Exception, res.Message)
	}
}

func TestLoadFromSource(t *testing.T) {
	c := startServer(t)
	if _, err := c.Load(&Load{Source: program}); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, err := c.Load(&Load{Source: ".method static LT;->x()V\n    bogus\n.end method"}); err == nil {
		t.Errorf("Load accepted malformed source")
	}
	if _, err := c.Load(&Load{}); err == nil {
		t.Errorf("Load accepted an empty request")
	}
}

func TestCloseDropsIdleConnections(t *testing.T) {
	socket := filepath.Join(t.TempDir(), "mterp.sock")
	srv := NewServer(vmrt.Config{Thread: interp.ThreadConfig{StackSlots: constants.MinStackSlots}})
	errc := make(chan error, 1)
	go func() { errc <- srv.Start(socket) }()

	var c *Client
	var err error
	for i := 0; i < 100; i++ {
		if c, err = Dial(socket); err == nil {
			break
		}
		time.Sleep(10 * time.Millisecond)
	}
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer c.Close()
	if _, err := c.Hello("idle", "1"); err != nil {
		t.Fatalf("Hello: %v", err)
	}

	// The client stays connected and silent while the server shuts down.
	if err := srv.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	select {
	case err := <-errc:
		if err != nil {
			t.Errorf("Start: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("server did not stop while a client held its connection open")
	}
	if _, err := c.Hello("idle", "1"); err == nil {
		t.Errorf("Hello succeeded on a dropped connection")
	}
}
