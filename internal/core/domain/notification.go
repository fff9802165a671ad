package domain

// Notification is a composed message to be delivered to every recipient.
type Notification struct {
	Subject    string
	Body       string
	Recipients []string
}

// RecipientDelivery is the outcome of delivering a notification to one recipient.
type RecipientDelivery struct {
	Recipient string `json:"recipient"`
	Delivered bool   `json:"delivered"`
	Error     string `json:"error,omitempty"`
}

// DeliveryReport collects per-recipient results.
type DeliveryReport struct {
	Results []RecipientDelivery `json:"results"`
}

// Success reports whether every recipient received the notification.
func (r DeliveryReport) Success() bool {
	for _, res := range r.Results {
		if !res.Delivered {
			return false
		}
	}
	return len(r.Results) > 0
}

// PostalLookupResult is the advisory answer of a postal reference lookup.
type PostalLookupResult struct {
	IsValid          bool
	StandardizedForm string
	Suggestions      []string
}
