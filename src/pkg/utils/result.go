package utils

// Result is the uniform usecase return value: either Data or Error is set.
type Result struct {
	Data  interface{}
	Error error
}
