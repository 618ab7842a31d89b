package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// DaysPubSub broadcasts "the reservation list for day D changed" to anyone
// showing that day, e.g. the SSE stream handlers.
type DaysPubSub struct {
	rdb     *redis.Client
	channel string
}

func NewDaysPubSub(rdb *redis.Client) *DaysPubSub {
	return &DaysPubSub{
		rdb:     rdb,
		channel: ChannelDaysChanged(),
	}
}

type dayChangedMsg struct {
	Type   string `json:"type"`
	Day    string `json:"day"`
	TsUnix int64  `json:"ts_unix"`
}

func (p *DaysPubSub) PublishDayChanged(ctx context.Context, day string) error {
	msg := dayChangedMsg{
		Type:   "day_changed",
		Day:    day,
		TsUnix: time.Now().Unix(),
	}

	b, _ := json.Marshal(msg)

	return p.rdb.Publish(ctx, p.channel, b).Err()
}

func (p *DaysPubSub) Subscribe(ctx context.Context, handler func(ctx context.Context, day string)) error {
	sub := p.rdb.Subscribe(ctx, p.channel)
	defer sub.Close()

	ch := sub.Channel(redis.WithChannelSize(256))
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case m, ok := <-ch:
			if !ok {
				return nil
			}
			var ev dayChangedMsg
			if err := json.Unmarshal([]byte(m.Payload), &ev); err == nil && ev.Day != "" {
				handler(ctx, ev.Day)
			}
		}
	}
}
