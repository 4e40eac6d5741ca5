package eval

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"src.intr.sh/pkg/glob"
)

var defaultBuiltins = map[string]Builtin{
	"echo":   echo,
	"range":  rangeFn,
	"repeat": repeat,
	"take":   take,
	"count":  count,
	"upper":  upper,
	"sleep":  sleep,
	"glob":   globFn,
	"fail":   fail,
}

func checkArity(args []string, min, max int) error {
	if len(args) < min || len(args) > max {
		if min == max {
			return fmt.Errorf("arity mismatch: want %d arguments, got %d", min, len(args))
		}
		return fmt.Errorf("arity mismatch: want %d to %d arguments, got %d", min, max, len(args))
	}
	return nil
}

func parseInt(s string) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("bad integer: %s", s)
	}
	return i, nil
}

// echo outputs each argument.
func echo(fm *Frame, args []string) error {
	for _, arg := range args {
		if err := fm.Put(arg); err != nil {
			return err
		}
	}
	return nil
}

// range outputs the integers in [0, end) or [start, end).
func rangeFn(fm *Frame, args []string) error {
	if err := checkArity(args, 1, 2); err != nil {
		return err
	}
	start, end := 0, 0
	var err error
	if len(args) == 2 {
		if start, err = parseInt(args[0]); err != nil {
			return err
		}
	}
	if end, err = parseInt(args[len(args)-1]); err != nil {
		return err
	}
	for i := start; i < end; i++ {
		if err := fm.Put(strconv.Itoa(i)); err != nil {
			return err
		}
	}
	return nil
}

// repeat outputs a value n times, or forever if n is "inf".
func repeat(fm *Frame, args []string) error {
	if err := checkArity(args, 2, 2); err != nil {
		return err
	}
	n := -1
	if args[0] != "inf" {
		var err error
		if n, err = parseInt(args[0]); err != nil {
			return err
		}
	}
	for i := 0; n < 0 || i < n; i++ {
		if err := fm.Put(args[1]); err != nil {
			return err
		}
	}
	return nil
}

var errTakeDone = errors.New("take done")

// take outputs the first n inputs and stops reading.
func take(fm *Frame, args []string) error {
	if err := checkArity(args, 1, 1); err != nil {
		return err
	}
	n, err := parseInt(args[0])
	if err != nil || n <= 0 {
		return err
	}
	taken := 0
	err = fm.Inputs(func(v string) error {
		if err := fm.Put(v); err != nil {
			return err
		}
		if taken++; taken >= n {
			return errTakeDone
		}
		return nil
	})
	if err == errTakeDone {
		return nil
	}
	return err
}

// count outputs the number of inputs.
func count(fm *Frame, args []string) error {
	if err := checkArity(args, 0, 0); err != nil {
		return err
	}
	n := 0
	err := fm.Inputs(func(string) error {
		n++
		return nil
	})
	if err != nil {
		return err
	}
	return fm.Put(strconv.Itoa(n))
}

// upper outputs each input in upper case.
func upper(fm *Frame, args []string) error {
	if err := checkArity(args, 0, 0); err != nil {
		return err
	}
	return fm.Inputs(func(v string) error {
		return fm.Put(strings.ToUpper(v))
	})
}

// Maximum time between two checks in sleep.
var sleepPollInterval = 10 * time.Millisecond

// sleep waits for a duration like "1.5s", checking for interrupts
// periodically.
func sleep(fm *Frame, args []string) error {
	if err := checkArity(args, 1, 1); err != nil {
		return err
	}
	d, err := time.ParseDuration(args[0])
	if err != nil {
		return fmt.Errorf("bad duration: %s", args[0])
	}
	if fm.Signals.IsEmpty() {
		time.Sleep(d)
		return nil
	}
	deadline := time.Now().Add(d)
	for {
		if err := fm.Check(); err != nil {
			return err
		}
		remaining := time.Until(deadline)
		if remaining <= 0 {
			return nil
		}
		time.Sleep(min(remaining, sleepPollInterval))
	}
}

// glob outputs the paths matching a pattern.
func globFn(fm *Frame, args []string) error {
	if err := checkArity(args, 1, 1); err != nil {
		return err
	}
	var putErr error
	err := glob.Glob(args[0], fm.Signals, func(p string) bool {
		putErr = fm.Put(p)
		return putErr == nil
	})
	if err == glob.ErrInterrupted {
		// Report the interrupt at this command like other checkpoints do.
		if err := fm.Check(); err != nil {
			return err
		}
	}
	if err != nil {
		return err
	}
	return putErr
}

// fail fails with the arguments as the message.
func fail(fm *Frame, args []string) error {
	return errors.New(strings.Join(args, " "))
}
