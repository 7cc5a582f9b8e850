package push

import "errors"

// ErrSealed is the panic value when a pusher is registered on a TeeHandle
// after the dataflow has started executing.
var ErrSealed = errors.New("push: registration after execution started")
