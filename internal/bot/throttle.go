package bot

import (
	"context"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// Telegram starts rejecting bots that exceed roughly 30 messages per second.
const (
	sendRate  = rate.Limit(25)
	sendBurst = 5
)

// throttledAPI spaces outgoing calls with a token bucket. Calls still waiting
// for a token fail once ctx is done.
type throttledAPI struct {
	ctx     context.Context
	api     API
	limiter *rate.Limiter
}

func newThrottledAPI(ctx context.Context, api API, limiter *rate.Limiter) *throttledAPI {
	return &throttledAPI{ctx: ctx, api: api, limiter: limiter}
}

func (t *throttledAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	if err := t.limiter.Wait(t.ctx); err != nil {
		return tgbotapi.Message{}, err
	}
	return t.api.Send(c)
}

func (t *throttledAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	if err := t.limiter.Wait(t.ctx); err != nil {
		return nil, err
	}
	return t.api.Request(c)
}
