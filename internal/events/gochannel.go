package events

import (
	"log/slog"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

// GoChannelPubSub is the in-process broker used when no Kafka brokers are
// configured. Publisher and subscriber share one channel, so the mail worker
// runs inside the same process.
type GoChannelPubSub struct {
	pubSub *gochannel.GoChannel
}

func NewGoChannelPubSub(logger *slog.Logger) *GoChannelPubSub {
	return &GoChannelPubSub{
		pubSub: gochannel.NewGoChannel(
			gochannel.Config{OutputChannelBuffer: 64},
			watermill.NewSlogLogger(logger),
		),
	}
}

func (g *GoChannelPubSub) Publisher() EventPublisher {
	return newWatermillPublisher(g.pubSub)
}

func (g *GoChannelPubSub) Subscriber() message.Subscriber {
	return g.pubSub
}

func (g *GoChannelPubSub) Close() error {
	return g.pubSub.Close()
}
