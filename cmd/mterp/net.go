package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sync"

	"github.com/google/go-cmp/cmp"

	"mterp/pkg/conformance"
	"mterp/pkg/tracenet"
)

const defaultSocket = "/tmp/mterp.sock"

func serveCommand(args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	opts := addCommonFlags(fs)
	socket := fs.String("socket", defaultSocket, "Path for the Unix domain socket")
	fs.Parse(args)
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	srv := conformance.NewServer(cfg.VM())
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt)
		<-sig
		srv.Close()
	}()
	return srv.Start(*socket)
}

func collectCommand(args []string) error {
	fs := flag.NewFlagSet("collect", flag.ExitOnError)
	opts := addCommonFlags(fs)
	listen := fs.String("listen", "127.0.0.1:7781", "UDP address to accept trace sessions on")
	out := fs.String("out", "", "Write records here instead of stdout")
	fs.Parse(args)
	if _, err := opts.load(); err != nil {
		return err
	}

	dst := os.Stdout
	if *out != "" {
		f, err := os.Create(*out)
		if err != nil {
			return err
		}
		defer f.Close()
		dst = f
	}
	w := bufio.NewWriter(dst)
	var mu sync.Mutex
	defer func() {
		mu.Lock()
		defer mu.Unlock()
		w.Flush()
	}()

	c, err := tracenet.Listen(*listen)
	if err != nil {
		return err
	}
	defer c.Close()
	log.Noticef("collecting traces on %s", c.Addr())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return c.Serve(ctx, func(s tracenet.Session, records []tracenet.Record) {
		mu.Lock()
		defer mu.Unlock()
		for _, r := range records {
			fmt.Fprintf(w, "%s thread=%d depth=%d %s pc=%d op=0x%02x %s\n",
				s.ID, r.Thread, r.Depth, r.Method, r.DexPC, r.Opcode, r.Mnemonic)
		}
	})
}

// checkCommand runs a method both in-process and on a conformance server
// and reports any difference.
func checkCommand(args []string) error {
	fs := flag.NewFlagSet("check", flag.ExitOnError)
	opts := addCommonFlags(fs)
	socket := fs.String("socket", defaultSocket, "Conformance server socket")
	fs.Parse(args)
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: mterp check [-socket path] program LClass;->method [args...]")
	}
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	prog, err := loadProgram(fs.Arg(0))
	if err != nil {
		return err
	}
	class, name, sig, err := parseMethodRef(fs.Arg(1))
	if err != nil {
		return err
	}
	m := prog.FindMethod(class, name, sig)
	if m == nil {
		return fmt.Errorf("%s has no method %s", fs.Arg(0), fs.Arg(1))
	}
	values, err := wireArgs(m, fs.Args()[2:])
	if err != nil {
		return err
	}
	req := &conformance.Run{Class: class, Method: name, Signature: m.Signature, Args: values}

	local, err := conformance.RunLocal(cfg.VM(), prog, req)
	if err != nil {
		return fmt.Errorf("local run: %w", err)
	}

	client, err := conformance.Dial(*socket)
	if err != nil {
		return err
	}
	defer client.Close()
	if _, err := client.Hello("mterp-check", "1"); err != nil {
		return err
	}
	if _, err := client.Load(&conformance.Load{Container: prog.Encode()}); err != nil {
		return err
	}
	remote, err := client.Run(req)
	if err != nil {
		return fmt.Errorf("remote run: %w", err)
	}
	if diff := cmp.Diff(local, remote); diff != "" {
		return fmt.Errorf("results differ (-local +remote):\n%s", diff)
	}
	fmt.Println("ok")
	return nil
}
