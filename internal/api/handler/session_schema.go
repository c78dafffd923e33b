package handler

import "github.com/R3almCollectibles/session-gateway/internal/core/domain"

type signUpRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Name     string `json:"name,omitempty" validate:"omitempty,max=80"`
}

type signInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type sessionView struct {
	State           domain.SessionState `json:"state"`
	IsAuthenticated bool                `json:"is_authenticated"`
	Principal       *domain.Principal   `json:"principal,omitempty"`
	Role            domain.Role         `json:"role,omitempty"`
}

type sessionResponse struct {
	Token   string      `json:"token,omitempty"`
	Session sessionView `json:"session"`
}

type noticesResponse struct {
	Notices []domain.Notice `json:"notices"`
}

func viewOf(sess domain.Session) sessionView {
	v := sessionView{
		State:           sess.State(),
		IsAuthenticated: sess.IsAuthenticated,
		Principal:       sess.Principal,
	}
	if sess.Principal != nil {
		v.Role = domain.ResolveRole(sess.Principal)
	}
	return v
}
