package commands

import (
	"context"
	"time"
)

// PingCommand는 "pong"으로 응답하는 간단한 명령어입니다
type PingCommand struct {
	latency func() time.Duration
}

// NewPingCommand creates a ping command reporting the gateway heartbeat latency
func NewPingCommand(latency func() time.Duration) *PingCommand {
	return &PingCommand{latency: latency}
}

func (c *PingCommand) Execute(_ context.Context, _ *Request) (*Reply, error) {
	if c.latency == nil {
		return &Reply{Content: "Pong!"}, nil
	}
	return &Reply{Content: "Pong! Latency: " + c.latency().Round(time.Millisecond).String()}, nil
}

func (c *PingCommand) Help() string {
	return "ping - check the bot is alive"
}
