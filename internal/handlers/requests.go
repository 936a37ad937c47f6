package handlers

import "github.com/mhruby/catchboard/internal/services"

// loginRequest carries login credentials
type loginRequest struct {
	Password string `json:"password"`
}

// competitorRequest carries the editable competitor profile. It maps
// straight onto the service input.
type competitorRequest = services.CompetitorInput

// competitorStatusRequest flips a competitor between active and inactive
type competitorStatusRequest struct {
	Status string `json:"status"`
}

// hourlyEntryRequest carries one hour's catch record
type hourlyEntryRequest struct {
	Hour        int    `json:"hour"`
	FishCount   int    `json:"fish_count"`
	TotalWeight int    `json:"total_weight"`
	Status      string `json:"status"`
	UpdatedBy   string `json:"updated_by"`
}

// bigCatchRequest carries a competitor's biggest-fish record
type bigCatchRequest struct {
	BiggestCatch int    `json:"biggest_catch"`
	Status       string `json:"status"`
	UpdatedBy    string `json:"updated_by"`
}

// scoringControlRequest opens or closes the scoring window
type scoringControlRequest struct {
	Open bool `json:"open"`
}

// settingsRequest updates the competition configuration. Pointers so a
// partial update leaves omitted settings untouched.
type settingsRequest struct {
	Hours   *int     `json:"hours,omitempty"`
	Sectors []string `json:"sectors,omitempty"`
	BaseURL *string  `json:"base_url,omitempty"`
}
