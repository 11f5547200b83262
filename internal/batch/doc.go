// Package batch runs many independent per-item pipelines with a bounded
// number in flight.
//
// A Dispatcher takes items in FIFO order with at most K in flight. Every
// submitted item gets one WorkResult whose status only moves forward:
//
//	pending → processing → [analyzing] → completed | error
//
// One item failing never stops the others, and Run returns only after every
// result is terminal.
package batch
