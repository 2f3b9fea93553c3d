package main

import (
	"context"
	"flag"
	"fmt"
	"strconv"

	"mterp/pkg/config"
	"mterp/pkg/conformance"
	"mterp/pkg/constants"
	"mterp/pkg/dex"
	"mterp/pkg/errors"
	"mterp/pkg/interp"
	"mterp/pkg/profile"
	"mterp/pkg/tracenet"
	"mterp/pkg/types"
	"mterp/pkg/vmrt"
)

// teeSink fans trace records out to several sinks.
type teeSink []interp.TraceSink

func (t teeSink) Record(rec interp.TraceRecord) {
	for _, s := range t {
		s.Record(rec)
	}
}

func runCommand(args []string) error {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	opts := addCommonFlags(fs)
	traceFile := fs.String("trace", "", "Write an instruction trace to this file")
	collector := fs.String("collector", "", "Stream the instruction trace to a collector at host:port")
	profilePath := fs.String("profile", "", "Record hot methods in this pebble directory")
	fs.Parse(args)
	if fs.NArg() < 2 {
		return fmt.Errorf("usage: mterp run [flags] program LClass;->method [args...]")
	}
	cfg, err := opts.load()
	if err != nil {
		return err
	}
	if *traceFile != "" {
		cfg.Trace.File = *traceFile
	}
	if *collector != "" {
		cfg.Trace.Collector = *collector
	}
	if *profilePath != "" {
		cfg.Profile.Path = *profilePath
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
	if m == nil || !m.HasCode() {
		return fmt.Errorf("%s has no method %s", fs.Arg(0), fs.Arg(1))
	}

	vmCfg := cfg.VM()
	if cfg.Profile.Path != "" {
		store, err := profile.Open(cfg.Profile.Path)
		if err != nil {
			return err
		}
		defer store.Close()
		saver := profile.NewSaver(store, prog.Hash, cfg.Profile.FlushInterval.Duration)
		saver.Start()
		defer func() {
			if err := saver.Close(); err != nil {
				log.Errorf("saving profile: %v", err)
			}
		}()
		vmCfg.Thread.Hot = saver
	}

	sinks, closeSinks, err := openSinks(cfg, fs.Arg(0))
	if err != nil {
		return err
	}
	defer closeSinks()
	if len(sinks) > 0 && constants.VerboseTrace {
		vmCfg.Thread.Trace = sinks
	}

	vm := vmrt.New(prog, vmCfg)
	th, err := vm.NewThread()
	if err != nil {
		return err
	}
	defer vm.ReleaseThread(th)
	if len(sinks) > 0 && !constants.VerboseTrace {
		th.SetInstrumentation(&interp.TraceListener{Sink: sinks})
	}

	callArgs, err := parseArgs(vm, m, fs.Args()[2:])
	if err != nil {
		return err
	}
	result, err := vm.Call(th, class, name, m.Signature, callArgs...)
	if errors.Is(err, errors.ErrExceptionPending) {
		exc, msg := vm.ExceptionMessage(th.Exception())
		return fmt.Errorf("uncaught exception in thread %d: %s: %s", th.ID, exc, msg)
	}
	if err != nil {
		return err
	}
	if out := formatResult(vm, m.ReturnType(), result); out != "" {
		fmt.Println(out)
	}
	return nil
}

// openSinks opens the configured trace destinations.
func openSinks(cfg *config.Config, program string) (teeSink, func(), error) {
	var sinks teeSink
	var closers []func()
	closeAll := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	if cfg.Trace.File != "" {
		f, err := interp.NewFileTraceSink(cfg.Trace.File)
		if err != nil {
			return nil, nil, err
		}
		sinks = append(sinks, f)
		closers = append(closers, func() { f.Close() })
	}
	if cfg.Trace.Collector != "" {
		exp, err := tracenet.Dial(context.Background(), cfg.Trace.Collector, tracenet.ExporterOptions{
			Program:   program,
			BatchSize: cfg.Trace.BatchSize,
		})
		if err != nil {
			closeAll()
			return nil, nil, err
		}
		sinks = append(sinks, exp)
		closers = append(closers, func() {
			n, err := exp.Close()
			if err != nil {
				log.Errorf("trace session %s: %v", exp.Session(), err)
				return
			}
			log.Infof("trace session %s: collector received %d records", exp.Session(), n)
		})
	}
	if constants.VerboseTrace && len(sinks) == 0 {
		log.Warning("built with mterp_trace but no trace destination is configured")
	}
	return sinks, closeAll, nil
}

// parseArgs converts command-line words to arguments of m.
func parseArgs(vm *vmrt.VM, m *dex.Method, words []string) ([]types.JValue, error) {
	return convertArgs(m, words, func(s string) types.JValue {
		return types.RefValue(vm.NewString(s))
	})
}

// wireArgs converts command-line words to conformance request arguments.
// Strings travel as text and are created on whichever VM runs the request.
func wireArgs(m *dex.Method, words []string) ([]conformance.Value, error) {
	var texts []*string
	args, err := convertArgs(m, words, func(s string) types.JValue {
		texts = append(texts, &s)
		return types.JValue{Bits: uint64(len(texts)), IsRef: true}
	})
	if err != nil {
		return nil, err
	}
	values := make([]conformance.Value, len(args))
	for i, a := range args {
		values[i] = conformance.Value{Bits: a.Bits, Ref: a.IsRef}
		if a.IsRef && a.Bits != 0 {
			values[i] = conformance.Value{Text: texts[a.Bits-1]}
		}
	}
	return values, nil
}

func convertArgs(m *dex.Method, words []string, newString func(string) types.JValue) ([]types.JValue, error) {
	params, err := dex.ParamDescriptors(m.Signature)
	if err != nil {
		return nil, err
	}
	if len(params) != len(words) {
		return nil, fmt.Errorf("%s takes %d arguments, got %d", m, len(params), len(words))
	}
	if !m.Static {
		return nil, fmt.Errorf("%s is not static", m)
	}
	args := make([]types.JValue, len(words))
	for i, p := range params {
		w := words[i]
		var err error
		switch p {
		case "I", "S", "B", "C", "Z":
			var v int64
			v, err = strconv.ParseInt(w, 0, 32)
			args[i] = types.IntValue(int32(v))
		case "J":
			var v int64
			v, err = strconv.ParseInt(w, 0, 64)
			args[i] = types.LongValue(v)
		case "F":
			var v float64
			v, err = strconv.ParseFloat(w, 32)
			args[i] = types.FloatValue(float32(v))
		case "D":
			var v float64
			v, err = strconv.ParseFloat(w, 64)
			args[i] = types.DoubleValue(v)
		case "Ljava/lang/String;":
			args[i] = newString(w)
		default:
			if w != "null" {
				err = fmt.Errorf("only null can be passed as %s", p)
			}
			args[i] = types.RefValue(types.NullRef)
		}
		if err != nil {
			return nil, fmt.Errorf("argument %d (%s): %w", i, p, err)
		}
	}
	return args, nil
}

func formatResult(vm *vmrt.VM, ret string, v types.JValue) string {
	switch ret {
	case "V":
		return ""
	case "J":
		return strconv.FormatInt(v.Long(), 10)
	case "F":
		return strconv.FormatFloat(float64(v.Float()), 'g', -1, 32)
	case "D":
		return strconv.FormatFloat(v.Double(), 'g', -1, 64)
	case "Z":
		return strconv.FormatBool(v.Int() != 0)
	}
	if dex.KindOf(ret) != types.KindObject {
		return strconv.Itoa(int(v.Int()))
	}
	ref := v.Ref()
	if ref.IsNull() {
		return "null"
	}
	if s, ok := vm.StringValue(ref); ok {
		return strconv.Quote(s)
	}
	return fmt.Sprintf("%s@%d", vm.ClassOf(ref), ref)
}
