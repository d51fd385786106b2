package ratelimiting

import (
	"context"

	"golang.org/x/time/rate"
)

// RequestLimiter throttles outgoing requests
type RequestLimiter interface {
	// Wait blocks until a request may be sent. It returns an error without
	// waiting if the context would expire first.
	Wait(ctx context.Context) error
}

type RefillPerSecond float64
type BurstSize int

type tokenBucketRequestLimiter struct {
	limiter *rate.Limiter
}

func (l *tokenBucketRequestLimiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

func NewTokenBucketRequestLimiter(refillPerSecond RefillPerSecond, burstSize BurstSize) RequestLimiter {
	burst := int(burstSize)
	if burst < 1 {
		burst = 1
	}
	return &tokenBucketRequestLimiter{
		limiter: rate.NewLimiter(rate.Limit(refillPerSecond), burst),
	}
}

type unlimitedRequestLimiter struct{}

func (unlimitedRequestLimiter) Wait(ctx context.Context) error {
	return ctx.Err()
}

func NewUnlimitedRequestLimiter() RequestLimiter {
	return unlimitedRequestLimiter{}
}
