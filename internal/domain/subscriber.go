package domain

import "time"

type NewsletterSubscriber struct {
	ID           int64
	Email        string
	SubscribedAt time.Time
}
