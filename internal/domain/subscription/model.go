package subscription

import "time"

// Subscription records consent to receive emails at an address
type Subscription struct {
	ID             string     `json:"id"`
	UserID         string     `json:"user_id"`
	Email          string     `json:"email"`
	SubscribedAt   time.Time  `json:"subscribed_at"`
	UnsubscribedAt *time.Time `json:"unsubscribed_at"`
}

// Active reports whether the subscription has not been revoked
func (s *Subscription) Active() bool {
	return s.UnsubscribedAt == nil
}
