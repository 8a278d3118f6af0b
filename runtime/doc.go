// Package runtime executes AQ bytecode programs.
//
// # Quick Start
//
//	rt := runtime.New()
//	rt.RegisterFunc("print", runtime.Print(os.Stdout))
//
//	inst, err := rt.Load(imageBytes)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := inst.Run(context.Background()); err != nil {
//	    log.Fatal(err)
//	}
//
// # Memory Model
//
// Every program owns one flat tagged memory: a byte buffer whose slots
// carry 4-bit type tags packed two per byte. A slot's tag fixes its storage
// width and drives the conversion applied on every typed read and write.
// Arithmetic promotes to the highest-ranked tag among the destination and
// operands (double > float > long > int > byte), computes in that type, and
// coerces the result back to the destination's width.
//
// Machine words are 64-bit virtual addresses. The data segment occupies
// addresses [0, size); blocks allocated by NEW live above it and must be
// released by a matching FREE. The VM does not track guest blocks.
//
// # Host Functions
//
// INVOKE resolves its target through the runtime's name table: the word at
// the func slot points at a NUL-terminated name in guest memory, and the
// registered handler receives descriptors naming the argument slots and
// the return slot:
//
//	rt.RegisterFunc("clock", func(in *runtime.Instance, args, ret runtime.Object) error {
//	    in.Memory().WriteLong(ret.Index[0], nowMillis())
//	    return nil
//	})
//
// Host functions run synchronously on the VM's goroutine.
//
// # Termination and Errors
//
// Execution halts when the program counter reaches the end of the code
// segment or RETURN executes. Fatal conditions (unknown opcode, integer
// division by zero, unresolved INVOKE name, branch outside the code
// segment, truncated operands, allocation failure) terminate the instance
// with a structured error; guest code cannot catch faults.
//
// # Concurrency
//
// The VM is strictly single-threaded. Runtime registration is safe for
// concurrent use, but each Instance must be driven by one goroutine.
package runtime
