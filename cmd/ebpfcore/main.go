//go:build linux

// Command ebpfcore loads an eBPF object file, optionally attaches the
// requested program to a raw tracepoint, and prints what it did. It is
// a thin driver over the library packages (objelf, bpf, attach);
// all the real work happens there.
package main

import (
	"flag"
	"fmt"
	"os"

	"ebpfcore/attach"
	"ebpfcore/bpf"
	"ebpfcore/internal/sysbpf"
	"ebpfcore/objelf"
)

var (
	objectPath  = flag.String("object", "", "path to a relocatable eBPF object file")
	sectionName = flag.String("section", "", "program section to load (defaults to the object's first program section)")
	progName    = flag.String("name", "ebpfcore", "name to register the loaded program under")
	tracepoint  = flag.String("tracepoint", "", "raw tracepoint event name to attach the loaded program to")
	dump        = flag.Bool("dump", false, "parse and print the object file's programs and maps, then exit")
	verbose     = flag.Bool("v", false, "print the verifier log tail even on a successful load")
)

func main() {
	flag.Parse()

	if *objectPath == "" {
		fmt.Println("Usage: ebpfcore -object <file> [-section name] [-tracepoint event] [-dump]")
		os.Exit(1)
	}

	defer func() {
		if r := recover(); r != nil {
			fmt.Println("ebpfcore: fatal:", r)
			os.Exit(1)
		}
	}()

	if err := run(); err != nil {
		fmt.Println("ebpfcore:", err)
		os.Exit(1)
	}
}

func run() error {
	data, err := os.ReadFile(*objectPath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", *objectPath, err)
	}

	obj, err := objelf.ParseObject(data)
	if err != nil {
		return fmt.Errorf("parsing %s: %w", *objectPath, err)
	}

	if *dump {
		printObject(obj)
		return nil
	}

	section := *sectionName
	if section == "" {
		if len(obj.Programs) == 0 {
			return fmt.Errorf("%s has no program sections", *objectPath)
		}
		section = obj.Programs[0].Name
	}
	prog, ok := obj.Program(section)
	if !ok {
		return fmt.Errorf("no program section %q in %s", section, *objectPath)
	}

	kernel := sysbpf.NewLinuxKernel()

	fds := make(map[string]uint32, len(obj.Maps))
	for _, def := range obj.Maps {
		m, err := bpf.CreateMap(kernel, bpf.MapSpec{
			Type:       def.Type,
			Name:       def.Name,
			KeySize:    def.KeySize,
			ValueSize:  def.ValueSize,
			MaxEntries: def.MaxEntries,
			Flags:      def.Flags,
		})
		if err != nil {
			return fmt.Errorf("creating map %q: %w", def.Name, err)
		}
		fds[def.Name] = uint32(m.FD())
		fmt.Printf("created map %-16s fd=%d type=%s\n", def.Name, m.FD(), def.Type)
	}

	insns := make([]byte, len(prog.Insns))
	copy(insns, prog.Insns)
	if err := objelf.ApplyMapRelocations(insns, prog.Relocations, fds); err != nil {
		return fmt.Errorf("applying relocations for section %q: %w", section, err)
	}

	license := obj.License
	loaded, err := bpf.LoadProgram(kernel, prog.Type, insns, license, *progName, sysbpf.LogSmall)
	if err != nil {
		return fmt.Errorf("loading program %q (type %s): %w", section, prog.Type, err)
	}
	fmt.Printf("loaded program %-16s fd=%d type=%s insns=%d\n", *progName, loaded.FD(), loaded.Type(), loaded.InsnCount())
	if *verbose && len(loaded.VerifierLog()) > 0 {
		fmt.Println(string(loaded.VerifierLog()))
	}

	if *tracepoint != "" {
		if _, err := attach.RawTracepoint(kernel, loaded.FD(), *tracepoint); err != nil {
			return fmt.Errorf("attaching to raw tracepoint %q: %w", *tracepoint, err)
		}
		fmt.Printf("attached to raw tracepoint %q\n", *tracepoint)
	}

	return nil
}

func printObject(obj *objelf.Object) {
	fmt.Println("license:", obj.License)
	fmt.Println("programs:")
	for _, p := range obj.Programs {
		fmt.Printf("  %-20s type=%-16s insns=%d relocations=%d\n", p.Name, p.Type, len(p.Insns)/8, len(p.Relocations))
	}
	fmt.Println("maps:")
	for _, m := range obj.Maps {
		fmt.Printf("  %-20s type=%-16s key=%d value=%d max=%d\n", m.Name, m.Type, m.KeySize, m.ValueSize, m.MaxEntries)
	}
}
