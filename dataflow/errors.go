package dataflow

import "errors"

// ErrSealed is raised when an output is allocated after the graph has
// started executing.
var ErrSealed = errors.New("dataflow: graph sealed")

// ErrInputClosed is raised when records are sent into a closed input.
var ErrInputClosed = errors.New("dataflow: input closed")
