// AngelaMos | 2026
// dto.go

package haven

const unlimited = "unlimited"

// Coordinates are pointers so an explicit 0.0 counts as provided.
type CreateHavenRequest struct {
	Name      string   `json:"name"      validate:"required,max=200"`
	Latitude  *float64 `json:"latitude"  validate:"required"`
	Longitude *float64 `json:"longitude" validate:"required"`
	Radius    *float64 `json:"radius"    validate:"required"`
}

type UpdateHavenRequest struct {
	Name      *string  `json:"name,omitempty"      validate:"omitempty,min=1,max=200"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Radius    *float64 `json:"radius,omitempty"`
}

type HavenResponse struct {
	ID        int64   `json:"haven_id"`
	UserID    int64   `json:"user_id"`
	Name      string  `json:"name"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Radius    float64 `json:"radius"`
}

// Quota numbers are the string "unlimited" for pro accounts, so the
// fields are typed any.
type CanCreateResponse struct {
	CanCreate       bool `json:"can_create"`
	IsPro           bool `json:"is_pro"`
	CurrentHavens   int  `json:"current_havens"`
	MaxHavens       any  `json:"max_havens"`
	RemainingHavens any  `json:"remaining_havens"`
}

type CreateHavenResponse struct {
	Message         string        `json:"message"`
	Haven           HavenResponse `json:"haven"`
	RemainingHavens any           `json:"remaining_havens"`
}

type QuotaExceededResponse struct {
	Error           string `json:"error"`
	MaxHavens       int    `json:"max_havens"`
	RemainingHavens int    `json:"remaining_havens"`
}

type HavenMessageResponse struct {
	Message string        `json:"message"`
	Haven   HavenResponse `json:"haven"`
}

func ToHavenResponse(h *Haven) HavenResponse {
	return HavenResponse{
		ID:        h.ID,
		UserID:    h.UserID,
		Name:      h.Name,
		Latitude:  h.Latitude,
		Longitude: h.Longitude,
		Radius:    h.Radius,
	}
}

func ToHavenResponseList(havens []Haven) []HavenResponse {
	out := make([]HavenResponse, 0, len(havens))
	for i := range havens {
		out = append(out, ToHavenResponse(&havens[i]))
	}
	return out
}

func ToCanCreateResponse(q Quota) CanCreateResponse {
	resp := CanCreateResponse{
		CanCreate:     q.CanCreate(),
		IsPro:         q.IsPro,
		CurrentHavens: q.Current,
	}
	if q.IsPro {
		resp.MaxHavens = unlimited
		resp.RemainingHavens = unlimited
		return resp
	}
	resp.MaxHavens = q.Limit
	resp.RemainingHavens = q.Remaining()
	return resp
}

func remainingValue(q Quota) any {
	if q.IsPro {
		return unlimited
	}
	return q.Remaining()
}
