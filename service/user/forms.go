package user

import (
	"net/http"
	"strings"
)

type SignupForm struct {
	FullName  string `form:"full_name" validate:"max=255"`
	Username  string `form:"username" validate:"required,max=150,username,notreserved"`
	Email     string `form:"email" validate:"omitempty,email,max=255"`
	Password1 string `form:"password1" validate:"required,min=8"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

type LoginForm struct {
	Username string `form:"username" validate:"required"`
	Password string `form:"password" validate:"required"`
	Next     string `form:"-"`
}

type ResetRequestForm struct {
	Email string `form:"email" validate:"required,email"`
}

type SetPasswordForm struct {
	Password1 string `form:"new_password1" validate:"required,min=8"`
	Password2 string `form:"new_password2" validate:"required,eqfield=Password1"`
}

func bindSignupForm(r *http.Request) *SignupForm {
	return &SignupForm{
		FullName:  strings.TrimSpace(r.PostFormValue("full_name")),
		Username:  strings.TrimSpace(r.PostFormValue("username")),
		Email:     strings.TrimSpace(r.PostFormValue("email")),
		Password1: r.PostFormValue("password1"),
		Password2: r.PostFormValue("password2"),
	}
}

func bindLoginForm(r *http.Request) *LoginForm {
	return &LoginForm{
		Username: strings.TrimSpace(r.PostFormValue("username")),
		Password: r.PostFormValue("password"),
		Next:     r.PostFormValue("next"),
	}
}

func bindSetPasswordForm(r *http.Request) *SetPasswordForm {
	return &SetPasswordForm{
		Password1: r.PostFormValue("new_password1"),
		Password2: r.PostFormValue("new_password2"),
	}
}
