// Package aqruntime provides a Go implementation of the AQ register-style
// bytecode virtual machine.
//
// The library loads a binary bytecode image containing a typed data segment
// and an instruction segment, then executes instructions that read and write
// dynamically typed values inside a single flat memory area addressed by
// byte offset.
//
// The subpackages are:
//
//	bytecode - binary image format: type tags, opcodes, ULEB-255 operand
//	           encoding, image decoding/encoding, and a disassembler
//	runtime  - tagged memory, the arithmetic kernel, the host-function
//	           registry, and the execution loop
//	errors   - structured errors shared by all packages
//	cmd/aqvm - the embedding binary (CLI and interactive inspector)
//
// Quick start:
//
//	rt := runtime.New()
//	rt.RegisterFunc("print", runtime.Print(os.Stdout))
//	inst, err := rt.Load(imageBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := inst.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// The VM is strictly single-threaded: one Instance executes on one
// goroutine, and host functions run synchronously in the VM's goroutine.
// Values in the data segment are stored host-native little-endian; images
// are not portable across endianness.
package aqruntime
