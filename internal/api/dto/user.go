package dto

// UpdateSubscriptionRequest changes a user's subscription status
type UpdateSubscriptionRequest struct {
	Status string `json:"status" validate:"required,subscription_status"`
}
