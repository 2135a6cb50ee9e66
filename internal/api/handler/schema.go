package handler

import "github.com/mindmax/mood-journal/internal/core/domain"

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

// --- Request types ---

type registerRequest struct {
	Name     string `json:"name"     validate:"required"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,maxbytes=72"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type createCheckInRequest struct {
	Mood      string `json:"mood"                validate:"required,oneof=happy sad anxious calm stressed neutral"`
	Intensity int    `json:"intensity"           validate:"required,min=1,max=10"`
	Notes     string `json:"notes,omitempty"     validate:"max=2000"`
	Timestamp string `json:"timestamp,omitempty" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

// --- Response types ---
// Owned by the transport layer so the JSON contract stays independent of the
// domain structs.

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type authResponse struct {
	Token string       `json:"token"`
	User  userResponse `json:"user"`
}

type meResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

// Times are rendered with domain.TimestampLayout so that string order and
// chronological order agree.
type checkInResponse struct {
	ID        string `json:"id"`
	UserID    string `json:"userId"`
	Mood      string `json:"mood"`
	Intensity int    `json:"intensity"`
	Notes     string `json:"notes"`
	Timestamp string `json:"timestamp"`
}

type statsResponse struct {
	TotalCheckIns    int     `json:"totalCheckIns"`
	AverageIntensity float64 `json:"averageIntensity"`
	MostCommonMood   *string `json:"mostCommonMood" extensions:"x-nullable"`
}

func toUserResponse(u *domain.User) userResponse {
	return userResponse{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toMeResponse(u *domain.User) meResponse {
	return meResponse{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: domain.FormatTimestamp(u.CreatedAt)}
}

func toCheckInResponse(c domain.CheckIn) checkInResponse {
	return checkInResponse{
		ID:        c.ID,
		UserID:    c.UserID,
		Mood:      string(c.Mood),
		Intensity: c.Intensity,
		Notes:     c.Notes,
		Timestamp: domain.FormatTimestamp(c.Timestamp),
	}
}

func toCheckInList(list []domain.CheckIn) []checkInResponse {
	out := make([]checkInResponse, 0, len(list))
	for _, c := range list {
		out = append(out, toCheckInResponse(c))
	}
	return out
}

func toStatsResponse(s domain.Stats) statsResponse {
	resp := statsResponse{
		TotalCheckIns:    s.TotalCheckIns,
		AverageIntensity: s.AverageIntensity,
	}
	if s.MostCommonMood != nil {
		m := string(*s.MostCommonMood)
		resp.MostCommonMood = &m
	}
	return resp
}
