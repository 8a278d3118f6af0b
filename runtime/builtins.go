package runtime

import (
	"io"

	"github.com/aqlang/aq-runtime/errors"
)

// Print returns the standard "print" host function bound to w.
// The first argument slot holds a machine word pointing at a
// NUL-terminated string in guest memory; the string is written to w and
// the byte count is stored into the return slot as an int.
func Print(w io.Writer) HostFunc {
	return func(in *Instance, args, ret Object) error {
		if args.Size < 1 {
			return errors.InvalidInput(errors.PhaseHost, "print needs a format argument")
		}

		s, err := in.CString(in.Memory().ReadWord(args.Index[0]))
		if err != nil {
			return err
		}

		n, err := io.WriteString(w, s)
		if err != nil {
			return errors.Wrap(errors.PhaseHost, errors.KindInvalidInput, err, "print write")
		}

		in.Memory().WriteInt(ret.Index[0], int32(n))
		return nil
	}
}
