package main

// userError is a failure the operator can fix. main prints msg and, when
// set, hint without a stack of wrapped context.
type userError struct {
	msg  string
	hint string
}

func (e *userError) Error() string { return e.msg }
func (e *userError) Hint() string  { return e.hint }
