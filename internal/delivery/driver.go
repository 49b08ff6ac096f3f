package delivery

import "context"

// Message is the channel-agnostic payload handed to a delivery driver.
type Message struct {
	Recipient string
	Subject   string
	Body      string
}

// Driver is the delivery contract: accept recipient plus message, report
// success or failure. Failures are isolated per channel by the dispatcher.
type Driver interface {
	Name() string
	Send(ctx context.Context, msg Message) error
}
