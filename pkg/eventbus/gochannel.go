package eventbus

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// NewGoChannelBus builds an in-process event bus on watermill's GoChannel
// pubsub. This is the transport for single-process runs: no broker, events
// stay inside the engine's process.
func NewGoChannelBus() EventBus {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer: 1000,
			Persistent:          false,
		},
		watermill.NopLogger{},
	)

	return NewWatermillEventBus(pubSub, pubSub)
}

// NewTestBus builds a GoChannel bus tuned for deterministic tests: small
// buffer, publishes block until a subscriber acks.
func NewTestBus() EventBus {
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            10,
			Persistent:                     true,
			BlockPublishUntilSubscriberAck: true,
		},
		watermill.NopLogger{},
	)

	return NewWatermillEventBus(pubSub, pubSub)
}
